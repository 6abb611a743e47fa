// Package codec implements the frame layer (§4.4): length-prefixed framing,
// optional zlib compression above a negotiated threshold, optional
// AES-128/CFB8 encryption, and per-connection rate accounting.
package codec

import (
	"bufio"
	"compress/zlib"
	"fmt"
	"io"
	"time"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/state"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/proto/util"
	"golang.org/x/time/rate"
)

// Decoder turns a raw byte stream into PacketContexts. It is reconfigured in
// place as the connection progresses: SetRegistry on every phase change,
// SetProtocol once the handshake/login negotiation completes, SetReader when
// encryption is enabled, and SetCompression once login sets a threshold.
type Decoder struct {
	r        *bufio.Reader
	registry *state.Registry
	protocol version.Protocol
	dir      proto.Direction

	compressionThreshold int32 // -1 disables compression

	packetLimiter *rate.Limiter
	byteLimiter   *rate.Limiter
}

// NewDecoder wraps r for direction dir (the direction of packets *read* by
// this decoder: ServerBound for a frontend reading from the client,
// ClientBound for a backend connection reading from the server).
func NewDecoder(r io.Reader, dir proto.Direction) *Decoder {
	return &Decoder{
		r:                    bufio.NewReader(r),
		dir:                  dir,
		compressionThreshold: -1,
	}
}

// SetReader swaps the underlying reader, e.g. to wrap it with a decrypting
// cipher.StreamReader once EncryptionResponse completes (§4.5). Encryption
// wraps the raw byte stream below the frame layer, so this must happen
// before any subsequent ReadPacket call.
func (d *Decoder) SetReader(r io.Reader) { d.r = bufio.NewReader(r) }

func (d *Decoder) SetRegistry(reg *state.Registry)    { d.registry = reg }
func (d *Decoder) SetProtocol(p version.Protocol)     { d.protocol = p }
func (d *Decoder) SetCompression(threshold int32)     { d.compressionThreshold = threshold }

// SetRateLimits installs per-connection packet/second and byte/second token
// buckets (§4.4, §7 RateError). A value of zero or less leaves that cap off.
func (d *Decoder) SetRateLimits(packetsPerSecond, bytesPerSecond int) {
	if packetsPerSecond > 0 {
		d.packetLimiter = rate.NewLimiter(rate.Limit(packetsPerSecond), packetsPerSecond)
	}
	if bytesPerSecond > 0 {
		d.byteLimiter = rate.NewLimiter(rate.Limit(bytesPerSecond), bytesPerSecond)
	}
}

// ReadPacket reads one frame and, if its id is registered, decodes it into a
// concrete Packet; unknown ids in the Play phase come back as *proto.Unknown
// so the caller can forward them byte-for-byte (§3).
func (d *Decoder) ReadPacket() (*proto.PacketContext, error) {
	length, err := util.ReadVarInt(d.r)
	if err != nil {
		return nil, err
	}
	if length <= 0 || length > MaxFrameSize {
		return nil, ErrPacketTooLarge
	}

	frame := make([]byte, length)
	if _, err := io.ReadFull(d.r, frame); err != nil {
		return nil, err
	}

	if d.byteLimiter != nil && !d.byteLimiter.AllowN(time.Now(), int(length)) {
		return nil, ErrRateExceeded
	}
	if d.packetLimiter != nil && !d.packetLimiter.Allow() {
		return nil, ErrRateExceeded
	}

	payload, err := d.decompress(frame)
	if err != nil {
		return nil, err
	}

	buf := util.NewBuf(payload)
	id, err := buf.ReadVarInt()
	if err != nil {
		return nil, err
	}

	ctx := &proto.PacketContext{ID: id}
	if d.registry == nil {
		ctx.Payload = append([]byte(nil), buf.Bytes()...)
		return ctx, nil
	}

	ctor, ok := d.registry.ConstructorFor(d.dir, id, d.protocol)
	if !ok {
		if d.registry.Phase() != state.Play {
			return nil, fmt.Errorf("%w: id=%#x phase=%s", ErrUnknownPacketInNonPlayPhase, id, d.registry.Phase())
		}
		rest := append([]byte(nil), buf.Bytes()...)
		ctx.Packet = &proto.Unknown{ID: id, Data: rest}
		ctx.Payload = rest
		return ctx, nil
	}

	pkt := ctor()
	if err := pkt.Decode(buf, d.protocol); err != nil {
		return nil, fmt.Errorf("decode packet id=%#x phase=%s: %w", id, d.registry.Phase(), err)
	}
	ctx.Packet = pkt
	ctx.KnownPacket = true
	return ctx, nil
}

// decompress undoes the compression layer (§4.4): when compression is
// enabled, each frame is prefixed with a varint "uncompressed length"; zero
// means the payload was left uncompressed regardless of the threshold that
// triggered compression on the sender's side.
func (d *Decoder) decompress(frame []byte) ([]byte, error) {
	if d.compressionThreshold < 0 {
		return frame, nil
	}
	buf := util.NewBuf(frame)
	uncompressedLen, err := buf.ReadVarInt()
	if err != nil {
		return nil, err
	}
	if uncompressedLen == 0 {
		return append([]byte(nil), buf.Bytes()...), nil
	}
	zr, err := zlib.NewReader(buf)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	out := make([]byte, uncompressedLen)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, err
	}
	return out, nil
}
