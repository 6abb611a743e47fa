package proxy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/birchwood-mc/gate/pkg/edition/java/netmc"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/state"
)

// SwitchTo moves a logged-in player from its current backend to a
// different one without the client observing a disconnect (§4.7). Per
// §4.7's own ordering, B is dialed all the way through LoginSuccess first;
// only once that succeeds does the client get told to re-enter
// Configuration. If the dial fails, SwitchTo returns an error having never
// touched the client connection, so the client is left exactly as it was,
// in Play on A (§7 BackendError, §8 property 6, S5).
func (s *ClientSession) SwitchTo(name string) error {
	s.mu.Lock()
	if s.switching || s.pending != nil {
		s.mu.Unlock()
		return fmt.Errorf("switch: a connection attempt is already in flight")
	}
	if s.active != nil && s.active.name == name {
		s.mu.Unlock()
		return fmt.Errorf("switch: already connected to %q", name)
	}
	s.switching = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.switching = false
		s.mu.Unlock()
	}()

	// §4.7 step 1: dial B all the way to LoginSuccess before the client is
	// told anything. A failure here must leave the client untouched.
	conn, err := s.dialToLoginSuccess(name)
	if err != nil {
		return fmt.Errorf("switch: %w", err)
	}

	// §4.7 step 2: only now does the client re-enter Configuration.
	if err := s.conn.WritePacket(&packet.StartConfiguration{}); err != nil {
		_ = conn.Close()
		return fmt.Errorf("switch: failed to start client configuration: %w", err)
	}
	s.conn.SetPhase(state.Configuration, s.proxy.regs)
	s.conn.SetSessionHandler(newConfigHandler(s.proxy, s))

	// From this instant no packet still in flight from the outgoing backend
	// may reach the client, which is now in Configuration and would reject
	// a Play-phase id. TrackedPlayState keeps mirroring A so finishAdopt's
	// cleanup (step 4) reflects A's state at the moment of the swap, not at
	// SwitchTo's call time.
	if prev := s.activeBackend(); prev != nil {
		prev.conn.SetSessionHandler(newDrainingBackendHandler(s, prev))
	}

	s.adoptBackend(name, conn)
	return nil
}

// drainingBackendHandler replaces backendPlayHandler on the outgoing backend
// for the remainder of a switch (§4.7 step 2): it keeps TrackedPlayState
// current but never writes to the client, which has already moved to
// Configuration and no longer accepts Play-phase ids from A.
type drainingBackendHandler struct {
	s *ClientSession
	b *backend
}

func newDrainingBackendHandler(s *ClientSession, b *backend) *drainingBackendHandler {
	return &drainingBackendHandler{s: s, b: b}
}

func (h *drainingBackendHandler) Activated()   {}
func (h *drainingBackendHandler) Deactivated() {}

// Disconnected is a no-op: A going away mid-drain is expected once finishAdopt
// tears it down, and if A disconnects earlier the client is unaffected since
// B is already being established.
func (h *drainingBackendHandler) Disconnected() {}

func (h *drainingBackendHandler) HandleUnknownPacket(*proto.PacketContext) {}

func (h *drainingBackendHandler) HandlePacket(_ context.Context, pkt proto.Packet) {
	h.s.tracked.observe(pkt)
}

// adoptBackend installs conn as the session's pending backend once its
// Login/Configuration dance reports success, wiring the backend-side
// relay that forwards Configuration packets to the client and finally
// finalises the switch (or initial connect) once FinishConfiguration
// arrives from the backend.
func (s *ClientSession) adoptBackend(name string, conn *netmc.Conn) {
	b := &backend{name: name, conn: conn}
	s.setPending(b)
	conn.SetSessionHandler(newBackendConfigRelay(s, b))
	// Replay whatever the client sent while no backend was ready to
	// receive it (§4.6).
	s.flushConfigQueue(conn)
}

// backendConfigRelay forwards a pending backend's remaining Configuration
// packets to the client and finalises the switch once FinishConfiguration
// arrives.
type backendConfigRelay struct {
	s *ClientSession
	b *backend
}

func newBackendConfigRelay(s *ClientSession, b *backend) *backendConfigRelay {
	return &backendConfigRelay{s: s, b: b}
}

func (h *backendConfigRelay) Activated()   {}
func (h *backendConfigRelay) Deactivated() {}

func (h *backendConfigRelay) Disconnected() {
	s := h.s
	s.mu.Lock()
	if s.pending == h.b {
		s.pending = nil
	}
	s.mu.Unlock()
}

func (h *backendConfigRelay) HandleUnknownPacket(pc *proto.PacketContext) {
	_ = h.s.conn.WriteRaw(pc.ID, pc.Payload)
}

func (h *backendConfigRelay) HandlePacket(_ context.Context, pkt proto.Packet) {
	if _, ok := pkt.(*packet.FinishConfiguration); ok {
		_ = h.s.conn.WritePacket(pkt)
		h.finishAdopt()
		return
	}
	_ = h.s.conn.WritePacket(pkt)
}

// finishAdopt completes either the initial connect or a backend switch: it
// neutralises any state tracked from the previous backend (§4.7 step 4),
// promotes the pending backend to active, and installs the Play-phase
// handlers on both halves of the connection.
func (h *backendConfigRelay) finishAdopt() {
	s := h.s
	b := h.b

	s.mu.Lock()
	previous := s.active
	s.mu.Unlock()

	if previous != nil {
		s.setPendingPrevDimension(s.tracked.dimensionName())
		for _, cleanup := range s.tracked.cleanup() {
			if pkt, ok := cleanup.(proto.Packet); ok {
				_ = s.conn.WritePacket(pkt)
			}
		}
		s.tracked.reset()
	}

	b.conn.SetPhase(state.Play, s.proxy.regs)
	s.conn.SetPhase(state.Play, s.proxy.regs)

	s.setActive(b)
	s.clearPending()

	s.conn.SetSessionHandler(newClientPlayHandler(s))
	b.conn.SetSessionHandler(newBackendPlayHandler(s, b))

	if previous != nil {
		go func() { _ = previous.conn.Close() }()
	}

	s.log.Info("connected to backend", zap.String("server", b.name))
}
