package codec

import (
	"bytes"
	"testing"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/state"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/proto/util"
	"github.com/stretchr/testify/require"
)

type pingPacket struct {
	Payload int64
}

func (p *pingPacket) Encode(buf *util.Buf, _ version.Protocol) error {
	return buf.WriteInt64(p.Payload)
}

func (p *pingPacket) Decode(buf *util.Buf, _ version.Protocol) error {
	v, err := buf.ReadInt64()
	p.Payload = v
	return err
}

func newTestRegistry() *state.Registry {
	reg := state.NewRegistry(state.Play)
	reg.Register(proto.ServerBound, 0x01, version.Minecraft_1_8, func() proto.Packet { return &pingPacket{} }, "*codec.pingPacket")
	return reg
}

func TestEncodeDecodeRoundTripUncompressed(t *testing.T) {
	reg := newTestRegistry()
	var wire bytes.Buffer

	enc := NewEncoder(&wire, proto.ServerBound)
	enc.SetRegistry(reg)
	enc.SetProtocol(version.Minecraft_1_20)
	require.NoError(t, enc.WritePacket(&pingPacket{Payload: 42}))

	dec := NewDecoder(&wire, proto.ServerBound)
	dec.SetRegistry(reg)
	dec.SetProtocol(version.Minecraft_1_20)
	ctx, err := dec.ReadPacket()
	require.NoError(t, err)
	require.True(t, ctx.KnownPacket)
	require.Equal(t, int64(42), ctx.Packet.(*pingPacket).Payload)
}

func TestEncodeDecodeRoundTripCompressed(t *testing.T) {
	reg := newTestRegistry()
	var wire bytes.Buffer

	enc := NewEncoder(&wire, proto.ServerBound)
	enc.SetRegistry(reg)
	enc.SetProtocol(version.Minecraft_1_20)
	enc.SetCompression(2) // force everything of 2 bytes or more through zlib
	require.NoError(t, enc.WritePacket(&pingPacket{Payload: 9001}))

	dec := NewDecoder(&wire, proto.ServerBound)
	dec.SetRegistry(reg)
	dec.SetProtocol(version.Minecraft_1_20)
	dec.SetCompression(2)
	ctx, err := dec.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, int64(9001), ctx.Packet.(*pingPacket).Payload)
}

func TestDecodeUnknownPacketInPlayPhasePassesThrough(t *testing.T) {
	reg := state.NewRegistry(state.Play) // no packets registered
	var wire bytes.Buffer

	enc := NewEncoder(&wire, proto.ClientBound)
	enc.SetRegistry(newTestRegistryForEncodeOnly())
	enc.SetProtocol(version.Minecraft_1_20)
	require.NoError(t, enc.WriteRaw(0x7F, []byte{1, 2, 3}))

	dec := NewDecoder(&wire, proto.ClientBound)
	dec.SetRegistry(reg)
	dec.SetProtocol(version.Minecraft_1_20)
	ctx, err := dec.ReadPacket()
	require.NoError(t, err)
	require.False(t, ctx.KnownPacket)
	unk, ok := ctx.Packet.(*proto.Unknown)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, unk.Data)
}

func newTestRegistryForEncodeOnly() *state.Registry {
	// WriteRaw doesn't consult the registry for ids, but Encoder.SetRegistry
	// still needs a non-nil value to avoid surprising callers; WritePacket
	// is not exercised in this test.
	return state.NewRegistry(state.Play)
}

func TestDecodePacketTooLarge(t *testing.T) {
	var wire bytes.Buffer
	require.NoError(t, util.WriteVarInt(&wire, MaxFrameSize+1))

	dec := NewDecoder(&wire, proto.ServerBound)
	_, err := dec.ReadPacket()
	require.ErrorIs(t, err, ErrPacketTooLarge)
}

func TestDecodeRateLimited(t *testing.T) {
	reg := newTestRegistry()
	var wire bytes.Buffer

	enc := NewEncoder(&wire, proto.ServerBound)
	enc.SetRegistry(reg)
	enc.SetProtocol(version.Minecraft_1_20)
	for i := 0; i < 5; i++ {
		require.NoError(t, enc.WritePacket(&pingPacket{Payload: int64(i)}))
	}

	dec := NewDecoder(&wire, proto.ServerBound)
	dec.SetRegistry(reg)
	dec.SetProtocol(version.Minecraft_1_20)
	dec.SetRateLimits(2, 0) // 2 packets/sec burst

	var lastErr error
	for i := 0; i < 5; i++ {
		_, lastErr = dec.ReadPacket()
		if lastErr != nil {
			break
		}
	}
	require.ErrorIs(t, lastErr, ErrRateExceeded)
}
