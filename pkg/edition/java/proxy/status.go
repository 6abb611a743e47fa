package proxy

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/birchwood-mc/gate/pkg/edition/java/netmc"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
)

// statusHandler answers the Status phase's two-packet exchange (§8 S1):
// StatusRequest -> StatusResponse (server list ping JSON) and
// PingRequest -> PingResponse (echoed, for the client's latency bar).
type statusHandler struct {
	p    *Proxy
	conn *netmc.Conn
	log  *zap.Logger
	hs   *packet.Handshake
}

func newStatusHandler(p *Proxy, conn *netmc.Conn, log *zap.Logger, hs *packet.Handshake) *statusHandler {
	return &statusHandler{p: p, conn: conn, log: log, hs: hs}
}

func (h *statusHandler) Activated()    {}
func (h *statusHandler) Deactivated()  {}
func (h *statusHandler) Disconnected() {}

func (h *statusHandler) HandleUnknownPacket(*proto.PacketContext) {
	_ = h.conn.Close()
}

func (h *statusHandler) HandlePacket(_ context.Context, pkt proto.Packet) {
	switch p := pkt.(type) {
	case *packet.StatusRequest:
		h.respond()
	case *packet.PingRequest:
		_ = h.conn.WritePacket(&packet.PingResponse{Payload: p.Payload})
		_ = h.conn.Close()
	default:
		_ = h.conn.Close()
	}
}

func (h *statusHandler) respond() {
	cfg := h.p.cfg.Status

	favicon := ""
	if cfg.Favicon != "" {
		if data, err := h.p.icon.Load(cfg.Favicon); err != nil {
			h.log.Warn("failed to load favicon", zap.Error(err))
		} else {
			favicon = data
		}
	}

	online := h.p.PlayerCount()
	protocol := h.hs.ProtocolVersion
	if !protocol.Known() {
		protocol = version.Highest
	}

	doc := packet.StatusJSON{
		Version: packet.StatusVersion{
			Name:     "Birchwood Gate",
			Protocol: int32(protocol),
		},
		Players: packet.StatusPlayers{
			Max:    cfg.MaxPlayers,
			Online: online,
			Sample: []packet.StatusPlayerRef{},
		},
		Description: map[string]string{"text": cfg.MOTD},
		Favicon:     favicon,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		h.log.Error("failed to marshal status response", zap.Error(err))
		_ = h.conn.Close()
		return
	}

	if err := h.conn.WritePacket(&packet.StatusResponse{JSON: string(body)}); err != nil {
		h.log.Debug("failed to write status response", zap.Error(err))
	}
}
