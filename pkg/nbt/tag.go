// Package nbt implements the named binary tag format used for Minecraft's
// chunk, entity and registry data, including the "network" variant (root
// name omitted) used by protocol >= 1.20.2.
package nbt

// TagType is the one-byte discriminant prefixing every NBT tag.
type TagType byte

const (
	TagEnd TagType = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

func (t TagType) String() string {
	names := [...]string{
		"End", "Byte", "Short", "Int", "Long", "Float", "Double",
		"ByteArray", "String", "List", "Compound", "IntArray", "LongArray",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "Unknown"
}

// Tag is the dynamic value of a decoded NBT node. Exactly one of the
// typed fields is meaningful, selected by Type.
type Tag struct {
	Type TagType

	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []byte
	Str       string
	List      List
	Compound  map[string]Tag
	IntArray  []int32
	LongArray []int64
}

// List is a homogeneous NBT list: every element shares Elem's tag type.
// An empty list carries TagEnd per the wire format.
type List struct {
	Elem  TagType
	Items []Tag
}

func Byte(v int8) Tag         { return Tag{Type: TagByte, Byte: v} }
func Short(v int16) Tag        { return Tag{Type: TagShort, Short: v} }
func Int(v int32) Tag          { return Tag{Type: TagInt, Int: v} }
func Long(v int64) Tag         { return Tag{Type: TagLong, Long: v} }
func Float(v float32) Tag      { return Tag{Type: TagFloat, Float: v} }
func Double(v float64) Tag     { return Tag{Type: TagDouble, Double: v} }
func ByteArrayTag(v []byte) Tag    { return Tag{Type: TagByteArray, ByteArray: v} }
func String(v string) Tag      { return Tag{Type: TagString, Str: v} }
func Compound(v map[string]Tag) Tag { return Tag{Type: TagCompound, Compound: v} }
func IntArrayTag(v []int32) Tag { return Tag{Type: TagIntArray, IntArray: v} }
func LongArrayTag(v []int64) Tag { return Tag{Type: TagLongArray, LongArray: v} }

func ListOf(elem TagType, items ...Tag) Tag {
	if len(items) == 0 {
		elem = TagEnd
	}
	return Tag{Type: TagList, List: List{Elem: elem, Items: items}}
}
