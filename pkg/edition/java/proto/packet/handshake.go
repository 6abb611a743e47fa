package packet

import (
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/proto/util"
)

// NextState mirrors the Handshake packet's "next state" field, which
// chooses whether the connection proceeds to Status or Login.
type NextState int32

const (
	NextStateStatus NextState = 1
	NextStateLogin  NextState = 2
)

// Handshake is the single inbound packet of the Handshake phase (§4.3).
type Handshake struct {
	ProtocolVersion version.Protocol
	ServerAddress   string
	Port            uint16
	NextStatus      NextState
}

func (h *Handshake) Decode(buf *util.Buf, _ version.Protocol) error {
	v, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	h.ProtocolVersion = version.Protocol(v)
	if h.ServerAddress, err = buf.ReadString(255); err != nil {
		return err
	}
	port, err := buf.ReadUint16()
	if err != nil {
		return err
	}
	h.Port = port
	next, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	h.NextStatus = NextState(next)
	return nil
}

func (h *Handshake) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteVarInt(int32(h.ProtocolVersion)); err != nil {
		return err
	}
	if err := buf.WriteString(h.ServerAddress); err != nil {
		return err
	}
	if err := buf.WriteUint16(h.Port); err != nil {
		return err
	}
	return buf.WriteVarInt(int32(h.NextStatus))
}
