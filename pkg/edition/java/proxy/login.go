package proxy

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/birchwood-mc/gate/pkg/edition/java/auth"
	"github.com/birchwood-mc/gate/pkg/edition/java/netmc"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/state"
)

// loginHandler drives the Login phase (§4.3, §4.5): LoginStart, an
// optional encryption challenge for online-mode, Mojang verification (or
// the deterministic offline derivation), SetCompression, and finally
// LoginSuccess, after which the connection enters Configuration and a
// ClientSession takes over (§8 S2/S3).
type loginHandler struct {
	p    *Proxy
	conn *netmc.Conn
	log  *zap.Logger
	hs   *packet.Handshake

	username    string
	verifyToken []byte
}

func newLoginHandler(p *Proxy, conn *netmc.Conn, log *zap.Logger, hs *packet.Handshake) *loginHandler {
	return &loginHandler{p: p, conn: conn, log: log, hs: hs}
}

func (h *loginHandler) Activated()    {}
func (h *loginHandler) Deactivated()  {}
func (h *loginHandler) Disconnected() {}

func (h *loginHandler) HandleUnknownPacket(*proto.PacketContext) {
	_ = h.conn.Close()
}

func (h *loginHandler) HandlePacket(ctx context.Context, pkt proto.Packet) {
	switch p := pkt.(type) {
	case *packet.LoginStart:
		h.handleLoginStart(p)
	case *packet.EncryptionResponse:
		h.handleEncryptionResponse(ctx, p)
	default:
		h.log.Debug("unexpected packet during login", zap.String("type", fmt.Sprintf("%T", pkt)))
	}
}

func (h *loginHandler) handleLoginStart(p *packet.LoginStart) {
	h.username = p.Username

	if !h.p.cfg.OnlineMode {
		h.finishLogin(auth.OfflineProfile(h.username))
		return
	}

	kp, err := auth.SharedKeyPair()
	if err != nil {
		h.log.Error("failed to obtain RSA keypair", zap.Error(err))
		_ = h.conn.CloseWith(&packet.LoginDisconnect{Reason: chat.Text("internal server error")})
		return
	}

	token := make([]byte, 4)
	if _, err := rand.Read(token); err != nil {
		h.log.Error("failed to generate verify token", zap.Error(err))
		_ = h.conn.CloseWith(&packet.LoginDisconnect{Reason: chat.Text("internal server error")})
		return
	}
	h.verifyToken = token

	err = h.conn.WritePacket(&packet.EncryptionRequest{
		ServerID:    "",
		PublicKey:   kp.DER,
		VerifyToken: token,
	})
	if err != nil {
		h.log.Debug("failed to send encryption request", zap.Error(err))
	}
}

func (h *loginHandler) handleEncryptionResponse(_ context.Context, p *packet.EncryptionResponse) {
	kp, err := auth.SharedKeyPair()
	if err != nil {
		h.log.Error("failed to obtain RSA keypair", zap.Error(err))
		_ = h.conn.Close()
		return
	}

	verifyToken, err := rsa.DecryptPKCS1v15(rand.Reader, kp.Private, p.VerifyToken)
	if err != nil || !bytes.Equal(verifyToken, h.verifyToken) {
		h.log.Warn("verify token mismatch", zap.String("player", h.username))
		_ = h.conn.CloseWith(&packet.LoginDisconnect{Reason: chat.Text("invalid verify token")})
		return
	}

	sharedSecret, err := rsa.DecryptPKCS1v15(rand.Reader, kp.Private, p.SharedSecret)
	if err != nil {
		h.log.Warn("failed to decrypt shared secret", zap.String("player", h.username), zap.Error(err))
		_ = h.conn.Close()
		return
	}

	if err := h.conn.EnableEncryption(sharedSecret); err != nil {
		h.log.Error("failed to enable encryption", zap.Error(err))
		_ = h.conn.Close()
		return
	}

	serverIDHash := auth.ServerIDHash("", sharedSecret, kp.DER)
	clientIP := remoteIP(h.conn.RemoteAddr())

	profile, err := h.p.auth.HasJoined(h.username, serverIDHash, clientIP)
	if err != nil {
		h.log.Info("player failed mojang authentication", zap.String("player", h.username), zap.Error(err))
		_ = h.conn.CloseWith(&packet.LoginDisconnect{Reason: chat.Text("multiplayer.disconnect.unverified_username")})
		return
	}

	h.finishLogin(*profile)
}

func (h *loginHandler) finishLogin(profile auth.Profile) {
	_ = h.conn.SetReadDeadline(time.Time{})

	threshold := h.p.cfg.Compression.Threshold
	if threshold >= 0 {
		if err := h.conn.WritePacket(&packet.SetCompression{Threshold: threshold}); err != nil {
			h.log.Debug("failed to send set compression", zap.Error(err))
			return
		}
		h.conn.SetCompressionThreshold(threshold)
	}

	props := make([]packet.ProfileProperty, len(profile.Properties))
	for i, pr := range profile.Properties {
		props[i] = packet.ProfileProperty{Name: pr.Name, Value: pr.Value, Signature: pr.Signature}
	}

	if err := h.conn.WritePacket(&packet.LoginSuccess{
		UUID:       profile.ID,
		Username:   profile.Name,
		Properties: props,
	}); err != nil {
		h.log.Debug("failed to send login success", zap.Error(err))
		return
	}

	h.conn.SetPhase(state.Configuration, h.p.regs)

	session := newClientSession(h.p, h.conn, profile, h.p.cfg.OnlineMode, h.hs.ServerAddress)
	h.p.registerSession(session)
	h.conn.SetSessionHandler(newConfigHandler(h.p, session))

	session.connectToFirstAvailable(h.p.AttemptOrder(session.virtualHostString()))
}

func remoteIP(addr net.Addr) string {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return ""
	}
	return tcpAddr.IP.String()
}
