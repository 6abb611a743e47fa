// Package proto defines the packet/phase/direction vocabulary shared by the
// codec, state-machine and registry layers: a discriminated Packet value
// tagged by (version, phase, direction, id) per spec §3.
package proto

import (
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/proto/util"
)

// Direction distinguishes packets flowing toward the server (ServerBound)
// from packets flowing toward the client (ClientBound).
type Direction uint8

const (
	ServerBound Direction = iota
	ClientBound
)

func (d Direction) String() string {
	if d == ServerBound {
		return "serverbound"
	}
	return "clientbound"
}

// Packet is any decodable/encodable protocol message. Encode/Decode work
// against a *util.Buf holding (or receiving) the packet's payload, with the
// length-prefixed id already stripped by the frame layer.
type Packet interface {
	Encode(buf *util.Buf, protocol version.Protocol) error
	Decode(buf *util.Buf, protocol version.Protocol) error
}

// PacketContext carries a decoded (or to-be-decoded) packet alongside the
// bookkeeping the frame layer and session handlers need.
type PacketContext struct {
	Packet      Packet
	Payload     []byte // raw payload after the id varint, for pass-through
	KnownPacket bool
	ID          int32
}

// Unknown is the distinguished pass-through variant for ids the registry
// does not recognize in the Play phase (§3); it carries the undecoded
// payload (without the id, which is tracked separately) so it can be
// forwarded byte-for-byte.
type Unknown struct {
	ID   int32
	Data []byte
}

func (u *Unknown) Encode(buf *util.Buf, _ version.Protocol) error {
	_, err := buf.Write(u.Data)
	return err
}

func (u *Unknown) Decode(buf *util.Buf, _ version.Protocol) error {
	u.Data = append([]byte(nil), buf.Bytes()...)
	buf.Reset()
	return nil
}
