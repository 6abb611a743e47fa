package proxy

import (
	"context"

	"github.com/birchwood-mc/gate/pkg/edition/java/netmc"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
)

// configHandler is the client-facing SessionHandler for the Configuration
// phase (§4.3): it relays whatever the client sends toward the currently
// pending backend, and picks off ClientInformation/brand so ClientSession
// can remember them across backend switches (§3, §4.7).
type configHandler struct {
	p *Proxy
	s *ClientSession
}

func newConfigHandler(p *Proxy, s *ClientSession) *configHandler {
	return &configHandler{p: p, s: s}
}

func (h *configHandler) Activated()    {}
func (h *configHandler) Deactivated()  {}
func (h *configHandler) Disconnected() { h.p.unregisterSession(h.s) }

func (h *configHandler) HandleUnknownPacket(pc *proto.PacketContext) {
	if dst := h.destConn(); dst != nil {
		_ = dst.WriteRaw(pc.ID, pc.Payload)
		return
	}
	h.s.queueConfigRaw(pc.ID, pc.Payload)
}

func (h *configHandler) HandlePacket(_ context.Context, pkt proto.Packet) {
	switch p := pkt.(type) {
	case *packet.ClientInformation:
		h.s.setSettings(p)
	case *packet.PluginMessage:
		if p.Channel == "minecraft:brand" {
			h.s.setBrand(string(p.Data))
		}
	}
	if dst := h.destConn(); dst != nil {
		_ = dst.WritePacket(pkt)
		return
	}
	// No backend is ready yet (dialing is still in flight): hold the
	// packet rather than drop it, and deliver it once adoptBackend flushes
	// the queue (§4.6, §4.7).
	h.s.queueConfigPacket(pkt)
}

// destConn is the backend the client's Configuration-phase packets are
// headed to: the pending backend while one is being dialed or switched to,
// else the active one (a client can still send ClientInformation updates
// mid-Play after the Configuration phase closed, handled by playHandler
// instead; this path only matters while phase == Configuration).
func (h *configHandler) destConn() *netmc.Conn {
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()
	if h.s.pending != nil {
		return h.s.pending.conn
	}
	if h.s.active != nil {
		return h.s.active.conn
	}
	return nil
}
