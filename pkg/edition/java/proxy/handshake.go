package proxy

import (
	"context"

	"go.uber.org/zap"

	"github.com/birchwood-mc/gate/pkg/edition/java/netmc"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/state"
)

// handshakeHandler is the first SessionHandler installed on every accepted
// connection (§4.3). It expects exactly one Handshake packet, then hands
// off to the status or login handler according to NextStatus.
type handshakeHandler struct {
	p    *Proxy
	conn *netmc.Conn
	log  *zap.Logger
}

func newHandshakeHandler(p *Proxy, conn *netmc.Conn, log *zap.Logger) *handshakeHandler {
	return &handshakeHandler{p: p, conn: conn, log: log}
}

func (h *handshakeHandler) Activated()   {}
func (h *handshakeHandler) Deactivated() {}
func (h *handshakeHandler) Disconnected() {}

func (h *handshakeHandler) HandleUnknownPacket(*proto.PacketContext) {
	_ = h.conn.Close()
}

func (h *handshakeHandler) HandlePacket(ctx context.Context, pkt proto.Packet) {
	hs, ok := pkt.(*packet.Handshake)
	if !ok {
		_ = h.conn.Close()
		return
	}

	h.conn.SetProtocol(hs.ProtocolVersion)

	switch hs.NextStatus {
	case packet.NextStateStatus:
		h.conn.SetPhase(state.Status, h.p.regs)
		h.conn.SetSessionHandler(newStatusHandler(h.p, h.conn, h.log, hs))
	case packet.NextStateLogin:
		h.conn.SetPhase(state.Login, h.p.regs)
		h.conn.SetSessionHandler(newLoginHandler(h.p, h.conn, h.log, hs))
	default:
		_ = h.conn.Close()
	}
}
