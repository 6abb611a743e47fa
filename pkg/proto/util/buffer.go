package util

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ErrStringTooLong is returned by ReadString when the decoded length exceeds max.
var ErrStringTooLong = errors.New("string exceeds maximum length")

// ErrInvalidString is returned by ReadString on non-UTF-8 content.
var ErrInvalidString = errors.New("string is not valid utf-8")

// Buf is a read/write cursor over a packet's decoded payload, analogous to
// the teacher's use of bytes.Buffer together with bufio helpers, but
// carrying the typed helpers the wire protocol needs.
type Buf struct {
	*bytes.Buffer
}

// NewBuf wraps an existing byte slice for reading.
func NewBuf(b []byte) *Buf { return &Buf{Buffer: bytes.NewBuffer(b)} }

// NewBufWriter returns an empty Buf for encoding.
func NewBufWriter() *Buf { return &Buf{Buffer: new(bytes.Buffer)} }

func (b *Buf) ReadVarInt() (int32, error)   { return ReadVarInt(b.Buffer) }
func (b *Buf) WriteVarInt(v int32) error    { return WriteVarInt(b.Buffer, v) }
func (b *Buf) ReadVarLong() (int64, error)  { return ReadVarLong(b.Buffer) }
func (b *Buf) WriteVarLong(v int64) error   { return WriteVarLong(b.Buffer, v) }

// ReadString reads a varint-length-prefixed UTF-8 string and fails if the
// declared length exceeds max or the bytes are not valid UTF-8.
func (b *Buf) ReadString(max int) (string, error) {
	n, err := b.ReadVarInt()
	if err != nil {
		return "", err
	}
	if max > 0 && int(n) > max*4 { // UTF-8 worst case is 4 bytes/char
		return "", ErrStringTooLong
	}
	if n < 0 {
		return "", ErrInvalidString
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(b.Buffer, buf); err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", ErrInvalidString
	}
	s := string(buf)
	if max > 0 && utf8.RuneCountInString(s) > max {
		return "", ErrStringTooLong
	}
	return s, nil
}

// WriteString writes s as a varint-length-prefixed UTF-8 string.
func (b *Buf) WriteString(s string) error {
	if err := b.WriteVarInt(int32(len(s))); err != nil {
		return err
	}
	_, err := b.Buffer.WriteString(s)
	return err
}

func (b *Buf) ReadBool() (bool, error) {
	v, err := b.Buffer.ReadByte()
	return v != 0, err
}

func (b *Buf) WriteBool(v bool) error {
	if v {
		return b.Buffer.WriteByte(1)
	}
	return b.Buffer.WriteByte(0)
}

func (b *Buf) ReadUint8() (uint8, error) { return b.Buffer.ReadByte() }
func (b *Buf) WriteUint8(v uint8) error  { return b.Buffer.WriteByte(v) }

func (b *Buf) ReadInt8() (int8, error) {
	v, err := b.Buffer.ReadByte()
	return int8(v), err
}
func (b *Buf) WriteInt8(v int8) error { return b.Buffer.WriteByte(byte(v)) }

func (b *Buf) ReadInt16() (int16, error) {
	var v int16
	err := binary.Read(b.Buffer, binary.BigEndian, &v)
	return v, err
}
func (b *Buf) WriteInt16(v int16) error { return binary.Write(b.Buffer, binary.BigEndian, v) }

func (b *Buf) ReadUint16() (uint16, error) {
	var v uint16
	err := binary.Read(b.Buffer, binary.BigEndian, &v)
	return v, err
}
func (b *Buf) WriteUint16(v uint16) error { return binary.Write(b.Buffer, binary.BigEndian, v) }

func (b *Buf) ReadInt32() (int32, error) {
	var v int32
	err := binary.Read(b.Buffer, binary.BigEndian, &v)
	return v, err
}
func (b *Buf) WriteInt32(v int32) error { return binary.Write(b.Buffer, binary.BigEndian, v) }

func (b *Buf) ReadInt64() (int64, error) {
	var v int64
	err := binary.Read(b.Buffer, binary.BigEndian, &v)
	return v, err
}
func (b *Buf) WriteInt64(v int64) error { return binary.Write(b.Buffer, binary.BigEndian, v) }

func (b *Buf) ReadFloat32() (float32, error) {
	v, err := b.ReadInt32()
	return math.Float32frombits(uint32(v)), err
}
func (b *Buf) WriteFloat32(v float32) error {
	return b.WriteInt32(int32(math.Float32bits(v)))
}

func (b *Buf) ReadFloat64() (float64, error) {
	v, err := b.ReadInt64()
	return math.Float64frombits(uint64(v)), err
}
func (b *Buf) WriteFloat64(v float64) error {
	return b.WriteInt64(int64(math.Float64bits(v)))
}

// ReadUUID reads the fixed 16-byte (two-int64, big-endian) UUID encoding.
func (b *Buf) ReadUUID() (uuid.UUID, error) {
	var buf [16]byte
	if _, err := io.ReadFull(b.Buffer, buf[:]); err != nil {
		return uuid.Nil, err
	}
	return uuid.FromBytes(buf[:])
}

func (b *Buf) WriteUUID(u uuid.UUID) error {
	buf, err := u.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = b.Buffer.Write(buf)
	return err
}

// ReadByteArray reads a varint-length-prefixed raw byte array.
func (b *Buf) ReadByteArray() ([]byte, error) {
	n, err := b.ReadVarInt()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("negative byte array length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(b.Buffer, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (b *Buf) WriteByteArray(data []byte) error {
	if err := b.WriteVarInt(int32(len(data))); err != nil {
		return err
	}
	_, err := b.Buffer.Write(data)
	return err
}

// Position packs (x, y, z) into the 64-bit word layout used since 1.14:
// x:26 z:26 y:12, each two's-complement.
type Position struct {
	X, Y, Z int
}

func (b *Buf) ReadPosition() (Position, error) {
	v, err := b.ReadInt64()
	if err != nil {
		return Position{}, err
	}
	x := int32(v >> 38)
	y := int32(v << 52 >> 52)
	z := int32(v << 26 >> 38)
	return Position{X: int(x), Y: int(y), Z: int(z)}, nil
}

func (b *Buf) WritePosition(p Position) error {
	v := (int64(p.X&0x3FFFFFF) << 38) | (int64(p.Z&0x3FFFFFF) << 12) | int64(p.Y&0xFFF)
	return b.WriteInt64(v)
}

// ReadLegacyPosition packs the pre-1.14 layout: x:26 y:12 z:26.
func (b *Buf) ReadLegacyPosition() (Position, error) {
	v, err := b.ReadInt64()
	if err != nil {
		return Position{}, err
	}
	x := int32(v >> 38)
	y := int32(v << 26 >> 52)
	z := int32(v << 38 >> 38)
	return Position{X: int(x), Y: int(y), Z: int(z)}, nil
}

func (b *Buf) WriteLegacyPosition(p Position) error {
	v := (int64(p.X&0x3FFFFFF) << 38) | (int64(p.Y&0xFFF) << 26) | int64(p.Z&0x3FFFFFF)
	return b.WriteInt64(v)
}
