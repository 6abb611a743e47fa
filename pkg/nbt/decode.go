package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Decoder reads NBT from an io.Reader. When Network is set (protocol
// >= 1.20.2), the root compound's name is omitted per the "network NBT"
// variant used for registry data and chunk packets.
type Decoder struct {
	r       io.Reader
	Network bool
}

func NewDecoder(r io.Reader) *Decoder { return &Decoder{r: r} }

// DecodeNamed reads a full named tag: type byte, name (unless Network),
// then the tag payload. Returns the root name ("" in Network mode).
func (d *Decoder) DecodeNamed() (name string, tag Tag, err error) {
	t, err := d.readType()
	if err != nil {
		return "", Tag{}, err
	}
	if t == TagEnd {
		return "", Tag{Type: TagEnd}, nil
	}
	if !d.Network {
		name, err = d.readString()
		if err != nil {
			return "", Tag{}, err
		}
	}
	tag, err = d.readPayload(t)
	return name, tag, err
}

func (d *Decoder) readType() (TagType, error) {
	var b [1]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return TagType(b[0]), nil
}

func (d *Decoder) readString() (string, error) {
	var l uint16
	if err := binary.Read(d.r, binary.BigEndian, &l); err != nil {
		return "", err
	}
	buf := make([]byte, l)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", err
	}
	return decodeCESU8(buf), nil
}

func (d *Decoder) readPayload(t TagType) (Tag, error) {
	switch t {
	case TagByte:
		var v int8
		err := binary.Read(d.r, binary.BigEndian, &v)
		return Byte(v), err
	case TagShort:
		var v int16
		err := binary.Read(d.r, binary.BigEndian, &v)
		return Short(v), err
	case TagInt:
		var v int32
		err := binary.Read(d.r, binary.BigEndian, &v)
		return Int(v), err
	case TagLong:
		var v int64
		err := binary.Read(d.r, binary.BigEndian, &v)
		return Long(v), err
	case TagFloat:
		var v float32
		err := binary.Read(d.r, binary.BigEndian, &v)
		return Float(v), err
	case TagDouble:
		var v float64
		err := binary.Read(d.r, binary.BigEndian, &v)
		return Double(v), err
	case TagByteArray:
		var n int32
		if err := binary.Read(d.r, binary.BigEndian, &n); err != nil {
			return Tag{}, err
		}
		if n < 0 {
			return Tag{}, fmt.Errorf("nbt: negative byte array length %d", n)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return Tag{}, err
		}
		return ByteArrayTag(buf), nil
	case TagString:
		s, err := d.readString()
		return String(s), err
	case TagList:
		elem, err := d.readType()
		if err != nil {
			return Tag{}, err
		}
		var n int32
		if err := binary.Read(d.r, binary.BigEndian, &n); err != nil {
			return Tag{}, err
		}
		if n < 0 {
			n = 0
		}
		items := make([]Tag, 0, n)
		for i := int32(0); i < n; i++ {
			v, err := d.readPayload(elem)
			if err != nil {
				return Tag{}, err
			}
			items = append(items, v)
		}
		return Tag{Type: TagList, List: List{Elem: elem, Items: items}}, nil
	case TagCompound:
		m := map[string]Tag{}
		for {
			ct, err := d.readType()
			if err != nil {
				return Tag{}, err
			}
			if ct == TagEnd {
				break
			}
			name, err := d.readString()
			if err != nil {
				return Tag{}, err
			}
			v, err := d.readPayload(ct)
			if err != nil {
				return Tag{}, err
			}
			m[name] = v
		}
		return Compound(m), nil
	case TagIntArray:
		var n int32
		if err := binary.Read(d.r, binary.BigEndian, &n); err != nil {
			return Tag{}, err
		}
		if n < 0 {
			return Tag{}, fmt.Errorf("nbt: negative int array length %d", n)
		}
		arr := make([]int32, n)
		if err := binary.Read(d.r, binary.BigEndian, &arr); err != nil {
			return Tag{}, err
		}
		return IntArrayTag(arr), nil
	case TagLongArray:
		var n int32
		if err := binary.Read(d.r, binary.BigEndian, &n); err != nil {
			return Tag{}, err
		}
		if n < 0 {
			return Tag{}, fmt.Errorf("nbt: negative long array length %d", n)
		}
		arr := make([]int64, n)
		if err := binary.Read(d.r, binary.BigEndian, &arr); err != nil {
			return Tag{}, err
		}
		return LongArrayTag(arr), nil
	default:
		return Tag{}, fmt.Errorf("nbt: unknown tag type %d", t)
	}
}
