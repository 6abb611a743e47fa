package nbt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, network bool, name string, tag Tag) (string, Tag) {
	t.Helper()
	buf := new(bytes.Buffer)
	enc := NewEncoder(buf)
	enc.Network = network
	require.NoError(t, enc.EncodeNamed(name, tag))

	dec := NewDecoder(buf)
	dec.Network = network
	gotName, gotTag, err := dec.DecodeNamed()
	require.NoError(t, err)
	return gotName, gotTag
}

func TestScalarRoundTrip(t *testing.T) {
	cases := []Tag{
		Byte(-12), Short(1234), Int(-99999), Long(1 << 40),
		Float(3.25), Double(-1.5), String("hello"),
	}
	for _, tag := range cases {
		_, got := roundTrip(t, false, "root", tag)
		assert.Equal(t, tag, got)
	}
}

func TestNetworkVariantOmitsRootName(t *testing.T) {
	tag := Compound(map[string]Tag{"a": Int(1)})
	buf := new(bytes.Buffer)
	enc := NewEncoder(buf)
	enc.Network = true
	require.NoError(t, enc.EncodeNamed("ignored", tag))

	dec := NewDecoder(buf)
	dec.Network = true
	name, got, err := dec.DecodeNamed()
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.Equal(t, tag, got)
}

func TestListRoundTrip(t *testing.T) {
	tag := ListOf(TagInt, Int(1), Int(2), Int(3))
	_, got := roundTrip(t, false, "list", tag)
	assert.Equal(t, tag, got)
}

func TestEmptyListUsesEndType(t *testing.T) {
	tag := ListOf(TagInt)
	buf := new(bytes.Buffer)
	require.NoError(t, NewEncoder(buf).EncodeNamed("empty", tag))
	_, got, err := NewDecoder(buf).DecodeNamed()
	require.NoError(t, err)
	assert.Equal(t, TagEnd, got.List.Elem)
}

func TestCESU8SupplementaryCharacters(t *testing.T) {
	// U+1F600 GRINNING FACE requires a surrogate pair in CESU-8.
	s := "hi \U0001F600 there"
	encoded := encodeCESU8(s)
	// Each surrogate half encodes to 3 bytes -> 6 bytes total for the emoji,
	// versus 4 bytes in plain UTF-8.
	assert.Greater(t, len(encoded), len([]byte(s)))
	assert.Equal(t, s, decodeCESU8(encoded))
}

func TestArraysRoundTrip(t *testing.T) {
	tag := IntArrayTag([]int32{1, -2, 3})
	_, got := roundTrip(t, false, "ints", tag)
	assert.Equal(t, tag, got)

	tag2 := LongArrayTag([]int64{1, -2, 3})
	_, got2 := roundTrip(t, false, "longs", tag2)
	assert.Equal(t, tag2, got2)

	tag3 := ByteArrayTag([]byte{1, 2, 3})
	_, got3 := roundTrip(t, false, "bytes", tag3)
	assert.Equal(t, tag3, got3)
}

func TestCompoundRoundTripSemantic(t *testing.T) {
	// Compound key order is not preserved on the wire (maps have no
	// canonical order), so round-trip equality here is structural, not
	// byte-identical across multiple keys.
	tag := Compound(map[string]Tag{
		"name": String("Steve"),
		"health": Float(20),
		"nested": Compound(map[string]Tag{
			"a": Int(1),
		}),
	})
	_, got := roundTrip(t, false, "player", tag)
	assert.Equal(t, tag, got)
}
