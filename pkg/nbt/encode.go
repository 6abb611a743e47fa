package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Encoder writes NBT to an io.Writer, mirroring Decoder's Network mode.
type Encoder struct {
	w       io.Writer
	Network bool
}

func NewEncoder(w io.Writer) *Encoder { return &Encoder{w: w} }

// EncodeNamed writes the type byte, name (unless Network) and payload.
func (e *Encoder) EncodeNamed(name string, tag Tag) error {
	if err := e.writeType(tag.Type); err != nil {
		return err
	}
	if tag.Type == TagEnd {
		return nil
	}
	if !e.Network {
		if err := e.writeString(name); err != nil {
			return err
		}
	}
	return e.writePayload(tag)
}

func (e *Encoder) writeType(t TagType) error {
	_, err := e.w.Write([]byte{byte(t)})
	return err
}

func (e *Encoder) writeString(s string) error {
	b := encodeCESU8(s)
	if len(b) > 0xFFFF {
		return fmt.Errorf("nbt: string too long for modified-UTF-8 length prefix (%d bytes)", len(b))
	}
	if err := binary.Write(e.w, binary.BigEndian, uint16(len(b))); err != nil {
		return err
	}
	_, err := e.w.Write(b)
	return err
}

func (e *Encoder) writePayload(tag Tag) error {
	switch tag.Type {
	case TagByte:
		return binary.Write(e.w, binary.BigEndian, tag.Byte)
	case TagShort:
		return binary.Write(e.w, binary.BigEndian, tag.Short)
	case TagInt:
		return binary.Write(e.w, binary.BigEndian, tag.Int)
	case TagLong:
		return binary.Write(e.w, binary.BigEndian, tag.Long)
	case TagFloat:
		return binary.Write(e.w, binary.BigEndian, tag.Float)
	case TagDouble:
		return binary.Write(e.w, binary.BigEndian, tag.Double)
	case TagByteArray:
		if err := binary.Write(e.w, binary.BigEndian, int32(len(tag.ByteArray))); err != nil {
			return err
		}
		_, err := e.w.Write(tag.ByteArray)
		return err
	case TagString:
		return e.writeString(tag.Str)
	case TagList:
		elem := tag.List.Elem
		if len(tag.List.Items) == 0 {
			elem = TagEnd
		}
		if err := e.writeType(elem); err != nil {
			return err
		}
		if err := binary.Write(e.w, binary.BigEndian, int32(len(tag.List.Items))); err != nil {
			return err
		}
		for _, item := range tag.List.Items {
			if err := e.writePayload(item); err != nil {
				return err
			}
		}
		return nil
	case TagCompound:
		for name, v := range tag.Compound {
			if err := e.writeType(v.Type); err != nil {
				return err
			}
			if err := e.writeString(name); err != nil {
				return err
			}
			if err := e.writePayload(v); err != nil {
				return err
			}
		}
		return e.writeType(TagEnd)
	case TagIntArray:
		if err := binary.Write(e.w, binary.BigEndian, int32(len(tag.IntArray))); err != nil {
			return err
		}
		return binary.Write(e.w, binary.BigEndian, tag.IntArray)
	case TagLongArray:
		if err := binary.Write(e.w, binary.BigEndian, int32(len(tag.LongArray))); err != nil {
			return err
		}
		return binary.Write(e.w, binary.BigEndian, tag.LongArray)
	default:
		return fmt.Errorf("nbt: unknown tag type %d", tag.Type)
	}
}
