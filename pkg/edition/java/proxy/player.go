package proxy

import (
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gammazero/deque"
	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/birchwood-mc/gate/pkg/edition/java/auth"
	"github.com/birchwood-mc/gate/pkg/edition/java/netmc"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
)

// backend is the proxy's handle on the currently active (or in-flight)
// server connection for one ClientSession. Exactly one backend is the
// active source of play packets to the client at any moment (§3
// invariant); the switch coordinator holds a second, transient one during
// a swap (§3 Ownership).
type backend struct {
	name string
	conn *netmc.Conn
}

// ClientSession is the proxy's live record of one logged-in player: the
// teacher's connectedPlayer, generalized with TrackedPlayState and a
// pointer to the currently active backend instead of a single fixed
// serverConnection (§3 ClientSession).
type ClientSession struct {
	proxy *Proxy
	conn  *netmc.Conn
	log   *zap.Logger

	username    string
	profileID   uuid.UUID
	properties  []auth.Property
	onlineMode  bool
	virtualHost string
	remoteAddr  net.Addr
	protocol    version.Protocol

	ping atomic.Duration

	mu           sync.RWMutex
	active       *backend
	pending      *backend // set only once a switch's dial has succeeded (§3 Ownership)
	switching    bool     // true for the full duration of SwitchTo, dial included
	settings     *packet.ClientInformation
	brand        string
	locale       string
	localeTag    language.Tag
	tracked      *trackedPlayState
	keepAliveID  int64
	keepAliveSentAt time.Time
	awaitingKeepAlive atomic.Bool
	stopKeepAlive   chan struct{}

	// pendingPrevDimension holds the outgoing backend's last-known dimension
	// across a switch, consumed the moment the new backend's JoinGame
	// arrives (§4.7 step 6): if the two match, backendPlayHandler must
	// synthesize an extra Respawn round-trip, since a client that sees the
	// same dimension name in JoinGame silently keeps its old chunk cache.
	pendingPrevDimension *string

	// configQueue buffers Configuration-phase packets the client sends
	// before a pending backend exists to receive them -- the brief window
	// between SetPhase(Configuration) and connect's LoginSuccess, during
	// the initial login and again on every switch (§4.6, §4.7). Mirrors the
	// teacher's clientPlaySessionHandler.loginPluginMessages, generalized
	// from plugin messages to any Configuration packet, known or raw.
	configQueue deque.Deque
}

// queuedConfigPacket is one buffered configHandler packet, kept in whichever
// shape it arrived in so flushConfigQueue can replay it faithfully: a known
// packet goes back through the registry-based encoder, an unknown one is
// re-sent byte-for-byte via WriteRaw exactly as HandleUnknownPacket would
// have done immediately.
type queuedConfigPacket struct {
	known   proto.Packet
	rawID   int32
	rawData []byte
}

// queueConfigPacket buffers pkt for delivery once a pending backend is
// adopted (configHandler.destConn returned nil).
func (s *ClientSession) queueConfigPacket(pkt proto.Packet) {
	s.mu.Lock()
	s.configQueue.PushBack(queuedConfigPacket{known: pkt})
	s.mu.Unlock()
}

// queueConfigRaw buffers an unknown packet's raw bytes for delivery once a
// pending backend is adopted.
func (s *ClientSession) queueConfigRaw(id int32, data []byte) {
	s.mu.Lock()
	s.configQueue.PushBack(queuedConfigPacket{rawID: id, rawData: append([]byte(nil), data...)})
	s.mu.Unlock()
}

// flushConfigQueue forwards every packet buffered since the last flush to
// conn, in the order they were received, then clears the queue.
func (s *ClientSession) flushConfigQueue(conn *netmc.Conn) {
	s.mu.Lock()
	var queued []queuedConfigPacket
	for s.configQueue.Len() != 0 {
		queued = append(queued, s.configQueue.PopFront().(queuedConfigPacket))
	}
	s.mu.Unlock()

	for _, q := range queued {
		if q.known != nil {
			_ = conn.WritePacket(q.known)
			continue
		}
		_ = conn.WriteRaw(q.rawID, q.rawData)
	}
}

func newClientSession(p *Proxy, conn *netmc.Conn, profile auth.Profile, onlineMode bool, virtualHost string) *ClientSession {
	ping := atomic.Duration{}
	ping.Store(-1)
	return &ClientSession{
		proxy:       p,
		conn:        conn,
		log:         p.log.With(zap.String("player", profile.Name), zap.Stringer("uuid", profile.ID)),
		username:    profile.Name,
		profileID:   profile.ID,
		properties:  toAuthProperties(profile.Properties),
		onlineMode:  onlineMode,
		virtualHost: virtualHost,
		remoteAddr:  conn.RemoteAddr(),
		protocol:    conn.Protocol(),
		ping:        ping,
		tracked:     newTrackedPlayState(),
	}
}

func toAuthProperties(props []auth.Property) []auth.Property {
	out := make([]auth.Property, len(props))
	copy(out, props)
	return out
}

func (s *ClientSession) Username() string      { return s.username }
func (s *ClientSession) UUID() uuid.UUID       { return s.profileID }
func (s *ClientSession) OnlineMode() bool      { return s.onlineMode }
func (s *ClientSession) Protocol() version.Protocol { return s.conn.Protocol() }
func (s *ClientSession) RemoteAddr() net.Addr  { return s.remoteAddr }
func (s *ClientSession) Ping() time.Duration   { return s.ping.Load() }

// ActiveBackend returns the name of the currently active backend, or "" if
// none (the brief window between login and the first connector success).
func (s *ClientSession) ActiveBackend() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return ""
	}
	return s.active.name
}

func (s *ClientSession) activeBackend() *backend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *ClientSession) activeConn() *netmc.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil
	}
	return s.active.conn
}

func (s *ClientSession) lastKeepAliveID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keepAliveID
}

func (s *ClientSession) lastKeepAliveSentAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keepAliveSentAt
}

func (s *ClientSession) recordKeepAliveSent(id int64, at time.Time) {
	s.mu.Lock()
	s.keepAliveID = id
	s.keepAliveSentAt = at
	s.mu.Unlock()
}

func (s *ClientSession) setActive(b *backend) {
	s.mu.Lock()
	s.active = b
	s.mu.Unlock()
}

func (s *ClientSession) setPending(b *backend) {
	s.mu.Lock()
	s.pending = b
	s.mu.Unlock()
}

func (s *ClientSession) clearPending() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// setPendingPrevDimension records the outgoing backend's dimension for the
// switch coordinator's step 6 check, ahead of TrackedPlayState.reset().
func (s *ClientSession) setPendingPrevDimension(dim string) {
	s.mu.Lock()
	s.pendingPrevDimension = &dim
	s.mu.Unlock()
}

// consumePendingPrevDimension returns and clears the dimension recorded by
// setPendingPrevDimension; ok is false on an initial connect, when no swap
// preceded this JoinGame.
func (s *ClientSession) consumePendingPrevDimension() (dim string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingPrevDimension == nil {
		return "", false
	}
	dim = *s.pendingPrevDimension
	s.pendingPrevDimension = nil
	return dim, true
}

func (s *ClientSession) setSettings(settings *packet.ClientInformation) {
	tag, err := language.Parse(settings.Locale)
	if err != nil {
		s.log.Debug("client sent an unparseable locale, falling back to und", zap.String("locale", settings.Locale), zap.Error(err))
		tag = language.Und
	}

	s.mu.Lock()
	s.settings = settings
	s.locale = settings.Locale
	s.localeTag = tag
	s.mu.Unlock()
}

// LocaleTag returns the client's negotiated locale as a BCP 47 tag, for any
// future translate-component fallback the dispatcher's own messages might
// need; language.Und until the client's first ClientInformation arrives.
func (s *ClientSession) LocaleTag() language.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.localeTag
}

func (s *ClientSession) setBrand(brand string) {
	s.mu.Lock()
	s.brand = brand
	s.mu.Unlock()
}

// SendMessage delivers a chat/system message to the client (§4.9
// Dispatcher); best-effort, matching the teacher's CommandSource.
func (s *ClientSession) SendMessage(msg chat.Component) error {
	return s.conn.WritePacket(&packet.SystemChat{Message: msg})
}

// Kick disconnects the client with reason, from whichever phase it is
// currently in.
func (s *ClientSession) Kick(reason chat.Component) {
	if s.conn.Phase().String() == "play" {
		_ = s.conn.CloseWith(&packet.Disconnect{Reason: reason})
		return
	}
	_ = s.conn.CloseWith(&packet.DisconnectConfiguration{Reason: reason})
}

// String renders the player for log lines, matching the teacher's
// connectedPlayer.String().
func (s *ClientSession) String() string { return s.username }

// virtualHostString returns the host portion of the address the client
// handshook with, for backend-priority lookups (§4.6, config.AttemptOrder).
func (s *ClientSession) virtualHostString() string {
	host := s.virtualHost
	if idx := strings.IndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	return host
}
