package codec

import (
	"bufio"
	"compress/zlib"
	"fmt"
	"io"
	"sync"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/state"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/proto/util"
)

// Encoder is the write-side counterpart of Decoder: it assigns a packet its
// wire id from the registry, frames it, optionally compresses and encrypts
// it. A mutex guards the underlying writer since backend switching and
// keepalive writes can originate from different goroutines (§4.4, §5).
type Encoder struct {
	mu sync.Mutex
	w  *bufio.Writer

	registry *state.Registry
	protocol version.Protocol
	dir      proto.Direction

	compressionThreshold int32 // -1 disables compression
}

// NewEncoder wraps w for direction dir (the direction of packets *written*
// by this encoder).
func NewEncoder(w io.Writer, dir proto.Direction) *Encoder {
	return &Encoder{
		w:                    bufio.NewWriter(w),
		dir:                  dir,
		compressionThreshold: -1,
	}
}

// SetWriter swaps the underlying writer, e.g. to wrap it with an encrypting
// cipher.StreamWriter once EncryptionResponse completes (§4.5).
func (e *Encoder) SetWriter(w io.Writer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.w = bufio.NewWriter(w)
}

func (e *Encoder) SetRegistry(reg *state.Registry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registry = reg
}

func (e *Encoder) SetProtocol(p version.Protocol) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.protocol = p
}

func (e *Encoder) SetCompression(threshold int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compressionThreshold = threshold
}

// WritePacket encodes pkt, looking up its wire id from the registry by its
// concrete Go type.
func (e *Encoder) WritePacket(pkt proto.Packet) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	typeName := fmt.Sprintf("%T", pkt)
	id, err := e.registry.IDFor(e.dir, typeName, e.protocol)
	if err != nil {
		return err
	}

	body := util.NewBufWriter()
	if err := body.WriteVarInt(id); err != nil {
		return err
	}
	if err := pkt.Encode(body, e.protocol); err != nil {
		return err
	}

	return e.writeFrame(body.Bytes())
}

// WriteRaw frames and sends an already-encoded payload (id + body), used for
// *proto.Unknown pass-through forwarding (§3).
func (e *Encoder) WriteRaw(id int32, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	body := util.NewBufWriter()
	if err := body.WriteVarInt(id); err != nil {
		return err
	}
	if _, err := body.Write(data); err != nil {
		return err
	}
	return e.writeFrame(body.Bytes())
}

// writeFrame applies the compression layer then the length prefix, and must
// be called with e.mu held.
func (e *Encoder) writeFrame(payload []byte) error {
	frame, err := e.compress(payload)
	if err != nil {
		return err
	}
	if len(frame) > MaxFrameSize {
		return ErrPacketTooLarge
	}
	if err := util.WriteVarInt(e.w, int32(len(frame))); err != nil {
		return err
	}
	if _, err := e.w.Write(frame); err != nil {
		return err
	}
	return e.w.Flush()
}

// compress mirrors decompress: with compression disabled the payload is
// returned as-is, with no uncompressed-length prefix; below the threshold the
// prefix is written as 0 and the payload passes through untouched.
func (e *Encoder) compress(payload []byte) ([]byte, error) {
	if e.compressionThreshold < 0 {
		return payload, nil
	}
	if int32(len(payload)) < e.compressionThreshold {
		out := util.NewBufWriter()
		if err := out.WriteVarInt(0); err != nil {
			return nil, err
		}
		if _, err := out.Write(payload); err != nil {
			return nil, err
		}
		return out.Bytes(), nil
	}

	out := util.NewBufWriter()
	if err := out.WriteVarInt(int32(len(payload))); err != nil {
		return nil, err
	}
	zw := zlib.NewWriter(out)
	if _, err := zw.Write(payload); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
