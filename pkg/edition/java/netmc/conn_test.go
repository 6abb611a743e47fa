package netmc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/registry"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/state"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
)

func testRegistries() Registries {
	return Registries{
		Handshake:     registry.Handshake(),
		Status:        registry.Status(),
		Login:         registry.Login(),
		Configuration: registry.Configuration(),
		Play:          registry.Play(),
	}
}

type recordingHandler struct {
	packets chan proto.Packet
}

func (h *recordingHandler) HandlePacket(_ context.Context, p proto.Packet) { h.packets <- p }
func (h *recordingHandler) HandleUnknownPacket(*proto.PacketContext)       {}
func (h *recordingHandler) Disconnected()                                 {}
func (h *recordingHandler) Activated()                                   {}
func (h *recordingHandler) Deactivated()                                 {}

func TestConnPlayKeepAliveRoundTrip(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()
	defer serverSide.Close()

	regs := testRegistries()
	log := zap.NewNop()

	// "client" conn reads what the "server" conn writes (ServerBound traffic).
	clientConn := New(clientSide, log, regs)
	clientConn.SetPhase(state.Play, regs)
	clientConn.SetProtocol(version.Minecraft_1_20)

	serverConn := NewBackend(serverSide, log, regs)
	serverConn.SetPhase(state.Play, regs)
	serverConn.SetProtocol(version.Minecraft_1_20)

	handler := &recordingHandler{packets: make(chan proto.Packet, 1)}
	clientConn.SetSessionHandler(handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go clientConn.ReadLoop(ctx)

	require.NoError(t, serverConn.SendKeepAlive(12345))

	select {
	case p := <-handler.packets:
		ka, ok := p.(*packet.KeepAlive)
		require.True(t, ok)
		require.Equal(t, int64(12345), ka.RandomID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for keepalive")
	}
}

func TestConnEncryptionRoundTrip(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()
	defer serverSide.Close()

	regs := testRegistries()
	log := zap.NewNop()

	clientConn := New(clientSide, log, regs)
	clientConn.SetPhase(state.Play, regs)
	clientConn.SetProtocol(version.Minecraft_1_20)

	serverConn := NewBackend(serverSide, log, regs)
	serverConn.SetPhase(state.Play, regs)
	serverConn.SetProtocol(version.Minecraft_1_20)

	secret := []byte("0123456789abcdef")
	require.NoError(t, clientConn.EnableEncryption(secret))
	require.NoError(t, serverConn.EnableEncryption(secret))

	handler := &recordingHandler{packets: make(chan proto.Packet, 1)}
	clientConn.SetSessionHandler(handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go clientConn.ReadLoop(ctx)

	require.NoError(t, serverConn.SendKeepAlive(777))

	select {
	case p := <-handler.packets:
		require.Equal(t, int64(777), p.(*packet.KeepAlive).RandomID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for encrypted keepalive")
	}
}
