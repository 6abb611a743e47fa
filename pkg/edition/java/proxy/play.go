package proxy

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
)

// clientPlayHandler is installed on the client's Conn once it is in Play: it
// forwards client-originated packets to the currently active backend,
// intercepts `/command` input the proxy itself owns (§4.8, §4.9), and
// answers the proxy's own client-facing keepalive cycle rather than the
// backend's (§5 "client and backend keepalives are decoupled").
type clientPlayHandler struct {
	s *ClientSession
}

func newClientPlayHandler(s *ClientSession) *clientPlayHandler { return &clientPlayHandler{s: s} }

// Activated starts the proxy's own keepalive watchdog against the client
// (§5): it is independent of whatever keepalive cycle the active backend
// runs with the proxy, since the two connections' round-trip times and
// packet ids are unrelated.
func (h *clientPlayHandler) Activated() {
	h.s.mu.Lock()
	if h.s.stopKeepAlive != nil {
		close(h.s.stopKeepAlive)
	}
	stop := make(chan struct{})
	h.s.stopKeepAlive = stop
	h.s.mu.Unlock()

	go h.runKeepAlive(stop)
}

func (h *clientPlayHandler) Deactivated() {
	h.s.mu.Lock()
	if h.s.stopKeepAlive != nil {
		close(h.s.stopKeepAlive)
		h.s.stopKeepAlive = nil
	}
	h.s.mu.Unlock()
}

func (h *clientPlayHandler) Disconnected() {
	h.Deactivated()
	h.s.proxy.unregisterSession(h.s)
	if b := h.s.activeBackend(); b != nil {
		_ = b.conn.Close()
	}
}

func (h *clientPlayHandler) runKeepAlive(stop chan struct{}) {
	interval := time.Duration(h.s.proxy.cfg.Timeouts.KeepAliveSeconds) * time.Second
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if h.s.awaitingKeepAlive.Load() {
				h.s.Kick(chat.Text("multiplayer.disconnect.timeout"))
				return
			}
			now := time.Now()
			id := now.UnixNano()
			h.s.recordKeepAliveSent(id, now)
			h.s.awaitingKeepAlive.Store(true)
			if err := h.s.conn.SendKeepAlive(id); err != nil {
				return
			}
		}
	}
}

func (h *clientPlayHandler) HandleUnknownPacket(pc *proto.PacketContext) {
	if conn := h.s.activeConn(); conn != nil {
		_ = conn.WriteRaw(pc.ID, pc.Payload)
	}
}

func (h *clientPlayHandler) HandlePacket(_ context.Context, pkt proto.Packet) {
	switch p := pkt.(type) {
	case *packet.KeepAlive:
		h.handleKeepAlive(p)
		return
	case *packet.ChatCommand:
		if h.s.proxy.handleOwnedCommand(h.s, p.Command) {
			return
		}
	case *packet.ClientInformation:
		h.s.setSettings(p)
	case *packet.PluginMessage:
		if p.Channel == "minecraft:brand" {
			h.s.setBrand(string(p.Data))
		}
	}

	if conn := h.s.activeConn(); conn != nil {
		_ = conn.WritePacket(pkt)
	}
}

func (h *clientPlayHandler) handleKeepAlive(p *packet.KeepAlive) {
	if !h.s.awaitingKeepAlive.CompareAndSwap(true, false) {
		return
	}
	if p.RandomID == h.s.lastKeepAliveID() {
		h.s.ping.Store(time.Since(h.s.lastKeepAliveSentAt()))
	}
}

// backendPlayHandler is installed on the active backend's Conn once it is
// in Play: it mirrors TrackedPlayState from everything it forwards to the
// client (§4.7 step 4) and answers the backend's own keepalive cycle
// locally instead of round-tripping it to the client.
type backendPlayHandler struct {
	s *ClientSession
	b *backend
}

func newBackendPlayHandler(s *ClientSession, b *backend) *backendPlayHandler {
	return &backendPlayHandler{s: s, b: b}
}

func (h *backendPlayHandler) Activated()   {}
func (h *backendPlayHandler) Deactivated() {}

func (h *backendPlayHandler) Disconnected() {
	s := h.s
	s.mu.RLock()
	stillActive := s.active == h.b
	s.mu.RUnlock()
	if !stillActive {
		return // superseded by a switch; the old backend's teardown is expected
	}
	s.Kick(chat.Text("multiplayer.disconnect.server_shutdown"))
}

func (h *backendPlayHandler) HandleUnknownPacket(pc *proto.PacketContext) {
	_ = h.s.conn.WriteRaw(pc.ID, pc.Payload)
}

func (h *backendPlayHandler) HandlePacket(_ context.Context, pkt proto.Packet) {
	switch p := pkt.(type) {
	case *packet.KeepAlive:
		_ = h.b.conn.WritePacket(&packet.KeepAlive{RandomID: p.RandomID})
		return
	case *packet.Disconnect:
		h.s.log.Info("backend disconnected player", zap.String("server", h.b.name), zap.Any("reason", p.Reason))
	case *packet.DeclareCommands:
		pkt = h.s.proxy.spliceCommands(p)
	case *packet.JoinGame:
		h.s.tracked.observe(pkt)
		prevDim, hadPrev := h.s.consumePendingPrevDimension()
		_ = h.s.conn.WritePacket(pkt)
		if hadPrev && prevDim == p.Dimension {
			h.respawnIntoDifferentDimension(p)
		}
		return
	case *packet.BossBar, *packet.ScoreboardObjective, *packet.Team,
		*packet.PlayerInfoUpdate, *packet.PlayerInfoRemove,
		*packet.TabListHeaderFooter, *packet.PlayerAbilities,
		*packet.CloseWindow, *packet.Respawn:
		h.s.tracked.observe(pkt)
	}

	_ = h.s.conn.WritePacket(pkt)
}

// respawnIntoDifferentDimension implements §4.7 step 6: a client that
// receives JoinGame naming the same dimension it was already in keeps its
// existing chunk cache instead of rebuilding it, which leaves stale chunks
// from the previous backend on screen. Bouncing through a placeholder
// dimension and back forces the client to discard and re-request chunks
// for B's world, exactly as if it had legitimately changed dimension.
func (h *backendPlayHandler) respawnIntoDifferentDimension(p *packet.JoinGame) {
	placeholder := differentDimension(p.Dimension, p.DimensionNames)
	_ = h.s.conn.WritePacket(&packet.Respawn{
		Dimension:        placeholder,
		WorldName:        p.WorldName,
		HashedSeed:       p.HashedSeed,
		Gamemode:         p.Gamemode,
		PreviousGamemode: p.PreviousGamemode,
		IsDebug:          p.IsDebug,
		IsFlat:           p.IsFlat,
		CopyMetadata:     false,
	})
	_ = h.s.conn.WritePacket(&packet.Respawn{
		Dimension:        p.Dimension,
		WorldName:        p.WorldName,
		HashedSeed:       p.HashedSeed,
		Gamemode:         p.Gamemode,
		PreviousGamemode: p.PreviousGamemode,
		IsDebug:          p.IsDebug,
		IsFlat:           p.IsFlat,
		CopyMetadata:     true,
	})
}

// differentDimension picks any dimension name distinct from real, preferring
// one the backend itself declared (so the client's registry lookup for it
// succeeds) and falling back to a well-known vanilla name otherwise.
func differentDimension(real string, declared []string) string {
	for _, n := range declared {
		if n != real {
			return n
		}
	}
	if real != "minecraft:the_end" {
		return "minecraft:the_end"
	}
	return "minecraft:overworld"
}
