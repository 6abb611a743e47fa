// Package netmc implements the Minecraft connection abstraction shared by
// frontend (client-facing) and backend (server-facing) sockets: framing,
// phase transitions, encryption/compression activation, and the
// sessionHandler dispatch pattern the proxy's per-phase packet handlers
// plug into. Adapted from the teacher's pkg/proxy/connection.go, split into
// its own package so both proxy.ClientSession and the backend connector can
// share it.
package netmc

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/codec"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/codec/cfb8"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/state"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/util/errs"
)

// SessionHandler reacts to packets received on a Conn. Connections swap
// handlers as they move through phases (handshake -> login -> configuration
// -> play, and back to configuration on a backend switch).
type SessionHandler interface {
	HandlePacket(ctx context.Context, pkt proto.Packet)
	HandleUnknownPacket(pc *proto.PacketContext)
	Disconnected()
	Activated()
	Deactivated()
}

// ErrClosedConn is returned by write methods once the connection has closed.
var ErrClosedConn = errors.New("netmc: connection is closed")

// Conn is a framed Minecraft connection in either direction: client->proxy
// or proxy->backend. The direction only affects which half of (Direction,
// Direction) each side's registry lookups use; the framing and phase
// machinery are identical.
type Conn struct {
	log  *zap.Logger
	c    net.Conn
	side proto.Direction // ServerBound for a frontend conn, ClientBound for a backend conn

	decoder *codec.Decoder
	encoder *codec.Encoder

	cancelFunc      context.CancelFunc
	closeOnce       sync.Once
	closed          atomic.Bool
	knownDisconnect atomic.Bool

	protocol version.Protocol

	mu             sync.RWMutex
	phase          state.Phase
	registry       *state.Registry
	sessionHandler SessionHandler
}

// Registries supplies the per-phase packet tables; the proxy builds one set
// shared by every connection (see pkg/edition/java/proto/registry).
type Registries struct {
	Handshake     *state.Registry
	Status        *state.Registry
	Login         *state.Registry
	Configuration *state.Registry
	Play          *state.Registry
}

func (r Registries) forPhase(p state.Phase) *state.Registry {
	switch p {
	case state.Status:
		return r.Status
	case state.Login:
		return r.Login
	case state.Configuration:
		return r.Configuration
	case state.Play:
		return r.Play
	default:
		return r.Handshake
	}
}

// New wraps base as a frontend connection (reads are ServerBound, writes are
// ClientBound).
func New(base net.Conn, log *zap.Logger, regs Registries) *Conn {
	return newConn(base, log, regs, proto.ServerBound)
}

// NewBackend wraps base as a backend connection (reads are ClientBound,
// writes are ServerBound) -- the mirror image of a frontend Conn, used by
// the connector when dialing a server (§4.6).
func NewBackend(base net.Conn, log *zap.Logger, regs Registries) *Conn {
	return newConn(base, log, regs, proto.ClientBound)
}

func newConn(base net.Conn, log *zap.Logger, regs Registries, readSide proto.Direction) *Conn {
	writeSide := proto.ClientBound
	if readSide == proto.ClientBound {
		writeSide = proto.ServerBound
	}

	c := &Conn{
		log:      log,
		c:        base,
		side:     readSide,
		decoder:  codec.NewDecoder(base, readSide),
		encoder:  codec.NewEncoder(base, writeSide),
		phase:    state.Handshake,
		registry: regs.forPhase(state.Handshake),
		protocol: version.Lowest,
	}
	c.decoder.SetRegistry(c.registry)
	c.encoder.SetRegistry(c.registry)
	return c
}

// ReadLoop is the connection's read goroutine: it decodes packets and
// dispatches them to the active SessionHandler until ctx is canceled or an
// unrecoverable error occurs, then closes the connection.
func (c *Conn) ReadLoop(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel
	defer func() { _ = c.closeKnown(false) }()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !c.readOnce(ctx) {
			return
		}
	}
}

func (c *Conn) readOnce(ctx context.Context) (cont bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("recovered from panic in read loop", zap.Any("panic", r))
			cont = false
		}
	}()

	pc, err := c.decoder.ReadPacket()
	if err != nil {
		if !handleReadErr(c.log, err) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
		return true
	}

	handler := c.SessionHandler()
	if handler == nil {
		return true
	}
	if !pc.KnownPacket {
		handler.HandleUnknownPacket(pc)
		return true
	}
	handler.HandlePacket(ctx, pc.Packet)
	return true
}

func handleReadErr(log *zap.Logger, err error) (recoverable bool) {
	var silent *errs.SilentError
	if errors.As(err, &silent) {
		return false
	}
	if errors.Is(err, syscall.EAGAIN) {
		return true
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			log.Debug("read timeout, closing connection", zap.Error(err))
			return false
		}
		if errs.IsConnClosedErr(netErr.Err) {
			return false
		}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) || errors.Is(err, io.ErrNoProgress) ||
		strings.Contains(err.Error(), "use of closed") {
		return false
	}
	log.Debug("error reading packet, closing connection", zap.Error(err))
	return false
}

// WritePacket encodes, frames and flushes pkt, closing the connection on
// any write error.
func (c *Conn) WritePacket(pkt proto.Packet) (err error) {
	if c.Closed() {
		return ErrClosedConn
	}
	defer func() { c.closeOnErr(err) }()
	return c.encoder.WritePacket(pkt)
}

// WriteRaw sends an undecoded payload under the given id, framed by the
// encoder like any other packet (the *proto.Unknown pass-through path, §3).
func (c *Conn) WriteRaw(id int32, data []byte) (err error) {
	if c.Closed() {
		return ErrClosedConn
	}
	defer func() { c.closeOnErr(err) }()
	return c.encoder.WriteRaw(id, data)
}

func (c *Conn) closeOnErr(err error) {
	if err == nil {
		return
	}
	_ = c.Close()
	if errors.Is(err, ErrClosedConn) {
		return
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && errs.IsConnClosedErr(opErr.Err) {
		return
	}
	c.log.Debug("error writing packet, closing connection", zap.Error(err))
}

// SetPhase transitions the connection to a new protocol phase, swapping in
// that phase's packet registry (§4.3).
func (c *Conn) SetPhase(p state.Phase, regs Registries) {
	reg := regs.forPhase(p)
	c.mu.Lock()
	c.phase = p
	c.registry = reg
	c.mu.Unlock()
	c.decoder.SetRegistry(reg)
	c.encoder.SetRegistry(reg)
}

func (c *Conn) Phase() state.Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// SetProtocol records the negotiated protocol version, used by the
// registry's version-bucketed id lookups and by every packet's own
// Encode/Decode.
func (c *Conn) SetProtocol(p version.Protocol) {
	c.protocol = p
	c.decoder.SetProtocol(p)
	c.encoder.SetProtocol(p)
}

func (c *Conn) Protocol() version.Protocol { return c.protocol }

// SetCompressionThreshold enables compression on both halves of the
// connection. The caller must have already sent/received SetCompression.
func (c *Conn) SetCompressionThreshold(threshold int32) {
	c.decoder.SetCompression(threshold)
	c.encoder.SetCompression(threshold)
}

// SetRateLimits installs the per-connection packet/byte rate caps (§4.4,
// §7).
func (c *Conn) SetRateLimits(packetsPerSecond, bytesPerSecond int) {
	c.decoder.SetRateLimits(packetsPerSecond, bytesPerSecond)
}

// EnableEncryption wires AES-128/CFB8 into both halves of the connection
// using sharedSecret as both the AES key and the CFB8 IV, per Minecraft's
// convention (§4.5).
func (c *Conn) EnableEncryption(sharedSecret []byte) error {
	encBlock, err := aes.NewCipher(sharedSecret)
	if err != nil {
		return err
	}
	decBlock, err := aes.NewCipher(sharedSecret)
	if err != nil {
		return err
	}
	decryptStream := cfb8.NewDecrypter(decBlock, sharedSecret)
	encryptStream := cfb8.NewEncrypter(encBlock, sharedSecret)

	c.decoder.SetReader(&cipher.StreamReader{S: decryptStream, R: c.c})
	c.encoder.SetWriter(&cipher.StreamWriter{S: encryptStream, W: c.c})
	return nil
}

// SessionHandler returns the active handler, if any.
func (c *Conn) SessionHandler() SessionHandler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionHandler
}

// SetSessionHandler installs handler as the active SessionHandler,
// deactivating the previous one first.
func (c *Conn) SetSessionHandler(handler SessionHandler) {
	c.mu.Lock()
	prev := c.sessionHandler
	c.sessionHandler = handler
	c.mu.Unlock()

	if prev != nil {
		prev.Deactivated()
	}
	handler.Activated()
}

// Close closes the underlying connection once, invoking the active
// handler's Disconnected hook.
func (c *Conn) Close() error { return c.closeKnown(true) }

// CloseKnown closes the connection, flagging the disconnect as one the
// proxy itself initiated so it isn't logged as an unexpected failure.
func (c *Conn) CloseKnown(markKnown bool) error { return c.closeKnown(markKnown) }

func (c *Conn) closeKnown(markKnown bool) (err error) {
	alreadyClosed := true
	c.closeOnce.Do(func() {
		alreadyClosed = false
		if markKnown {
			c.knownDisconnect.Store(true)
		}
		if c.cancelFunc != nil {
			c.cancelFunc()
		}
		c.closed.Store(true)
		err = c.c.Close()

		if h := c.SessionHandler(); h != nil {
			h.Disconnected()
		}
	})
	if alreadyClosed {
		err = ErrClosedConn
	}
	return err
}

// CloseWith flushes pkt (typically a Disconnect/LoginDisconnect) then
// closes the connection, silencing the resulting error as a known
// disconnect.
func (c *Conn) CloseWith(pkt proto.Packet) error {
	if c.Closed() {
		return ErrClosedConn
	}
	c.knownDisconnect.Store(true)
	_ = c.WritePacket(pkt)
	return c.Close()
}

func (c *Conn) Closed() bool            { return c.closed.Load() }
func (c *Conn) KnownDisconnect() bool   { return c.knownDisconnect.Load() }
func (c *Conn) RemoteAddr() net.Addr    { return c.c.RemoteAddr() }
func (c *Conn) SetReadDeadline(d time.Time) error  { return c.c.SetReadDeadline(d) }
func (c *Conn) SetWriteDeadline(d time.Time) error { return c.c.SetWriteDeadline(d) }

// SendKeepAlive writes a KeepAlive packet if the connection is in the Play
// phase (§4.7's keepalive watchdog uses this; the id must be echoed back by
// the peer within the configured timeout or the watchdog disconnects).
func (c *Conn) SendKeepAlive(randomID int64) error {
	if c.Phase() != state.Play {
		return nil
	}
	return c.WritePacket(&packet.KeepAlive{RandomID: randomID})
}
