package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/birchwood-mc/gate/pkg/edition/java/netmc"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/state"
)

// connectToFirstAvailable dials each backend in order until one accepts the
// player, generalizing the teacher's connectedPlayer.createConnectionRequest
// fallback loop onto the Configuration-phase handshake (§4.6).
func (s *ClientSession) connectToFirstAvailable(order []string) {
	go func() {
		for _, name := range order {
			if err := s.connect(name); err != nil {
				s.log.Info("failed to connect to backend, trying next", zap.String("server", name), zap.Error(err))
				continue
			}
			return
		}
		s.log.Warn("no backend accepted the player")
		s.Kick(chat.Text("multiplayer.disconnect.outdated_server"))
	}()
}

// connect dials one backend by name and drives it through handshake, login
// and configuration until FinishConfiguration, at which point the backend
// becomes this session's active backend and both halves enter Play (§4.6,
// §4.3). Used for the initial post-login connect, where the client is
// already sitting in Configuration and has nothing to lose if the dial
// fails.
func (s *ClientSession) connect(name string) error {
	conn, err := s.dialToLoginSuccess(name)
	if err != nil {
		return err
	}
	s.adoptBackend(name, conn)
	return nil
}

// dialToLoginSuccess dials one backend by name and drives it through
// handshake and login up to LoginSuccess (§4.6, §4.7 step 1), without
// touching the client connection in any way. The returned Conn still has
// backendLoginHandler installed; the caller is responsible for calling
// adoptBackend once it is safe to start relaying the backend's remaining
// Configuration packets to the client.
func (s *ClientSession) dialToLoginSuccess(name string) (*netmc.Conn, error) {
	addr, ok := s.proxy.Server(name)
	if !ok {
		return nil, fmt.Errorf("connector: unknown server %q", name)
	}

	timeout := time.Duration(s.proxy.cfg.Timeouts.ConnectTimeoutMillis) * time.Millisecond
	raw, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("connector: dial %s: %w", addr, err)
	}

	log := s.log.With(zap.String("server", name))
	conn := netmc.NewBackend(raw, log, s.proxy.regs)
	conn.SetProtocol(s.protocol)

	done := make(chan error, 1)
	conn.SetSessionHandler(newBackendLoginHandler(s, conn, name, done))

	ctx, cancel := context.WithTimeout(context.Background(), timeout+5*time.Second)
	defer cancel()
	go conn.ReadLoop(ctx)

	handshakeAddr := s.virtualHost
	if s.proxy.cfg.ForwardIdentity {
		handshakeAddr = forwardedAddress(s, handshakeAddr)
	}

	if err := conn.WritePacket(&packet.Handshake{
		ProtocolVersion: s.protocol,
		ServerAddress:   handshakeAddr,
		Port:            25565,
		NextStatus:      packet.NextStateLogin,
	}); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := conn.WritePacket(&packet.LoginStart{
		Username: s.username,
		HasUUID:  true,
		UUID:     s.profileID,
	}); err != nil {
		_ = conn.Close()
		return nil, err
	}

	select {
	case err := <-done:
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
	case <-ctx.Done():
		_ = conn.Close()
		return nil, fmt.Errorf("connector: timed out connecting to %s", name)
	}

	return conn, nil
}

// forwardedAddress appends the Spigot/BungeeCord identity-forwarding suffix
// to the handshake address field: "\0<clientIP>\0<uuid>\0<properties-json>"
// (§2 Identity forwarding).
func forwardedAddress(s *ClientSession, host string) string {
	props, err := json.Marshal(s.properties)
	if err != nil {
		props = []byte("[]")
	}
	ip := remoteIP(s.remoteAddr)
	return fmt.Sprintf("%s\x00%s\x00%s\x00%s", host, ip, strings.ReplaceAll(s.profileID.String(), "-", ""), props)
}

// backendLoginHandler drives a newly-dialed backend connection through
// Login until LoginSuccess, reporting the outcome on done. Configuration-phase
// packets received before the caller replaces this handler are forwarded
// straight to the client so the client's UI (resource packs, registry sync)
// stays consistent with the backend it is about to use.
type backendLoginHandler struct {
	s    *ClientSession
	conn *netmc.Conn
	name string
	done chan<- error

	reported bool
}

func newBackendLoginHandler(s *ClientSession, conn *netmc.Conn, name string, done chan<- error) *backendLoginHandler {
	return &backendLoginHandler{s: s, conn: conn, name: name, done: done}
}

func (h *backendLoginHandler) Activated()    {}
func (h *backendLoginHandler) Deactivated()  {}
func (h *backendLoginHandler) Disconnected() {
	h.report(fmt.Errorf("connector: backend %s closed the connection", h.name))
}

func (h *backendLoginHandler) HandleUnknownPacket(pc *proto.PacketContext) {
	if h.conn.Phase() == state.Configuration {
		_ = h.s.activeClientConn().WriteRaw(pc.ID, pc.Payload)
	}
}

func (h *backendLoginHandler) HandlePacket(_ context.Context, pkt proto.Packet) {
	switch p := pkt.(type) {
	case *packet.EncryptionRequest:
		h.report(fmt.Errorf("connector: backend %s requires online-mode, which the proxy does not forward", h.name))
	case *packet.SetCompression:
		h.conn.SetCompressionThreshold(p.Threshold)
	case *packet.LoginPluginRequest:
		_ = h.conn.WritePacket(&packet.LoginPluginResponse{MessageID: p.MessageID, Successful: false})
	case *packet.LoginDisconnect:
		h.report(fmt.Errorf("connector: backend %s rejected login: %v", h.name, p.Reason))
	case *packet.LoginSuccess:
		h.conn.SetPhase(state.Configuration, h.s.proxy.regs)
		h.report(nil)
	case *packet.DisconnectConfiguration:
		h.report(fmt.Errorf("connector: backend %s disconnected during configuration: %v", h.name, p.Reason))
	default:
		if h.conn.Phase() == state.Configuration {
			_ = h.s.activeClientConn().WritePacket(pkt)
		}
	}
}

func (h *backendLoginHandler) report(err error) {
	if h.reported {
		return
	}
	h.reported = true
	h.done <- err
}

// activeClientConn returns the client-facing Conn, used while no
// ClientSession.conn alias is otherwise convenient.
func (s *ClientSession) activeClientConn() *netmc.Conn { return s.conn }
