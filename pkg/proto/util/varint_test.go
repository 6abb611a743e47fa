package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 127, 128, 255, 2147483647, -2147483648, 300}
	for _, v := range cases {
		buf := new(bytes.Buffer)
		require.NoError(t, WriteVarInt(buf, v))
		got, err := ReadVarInt(buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, 0, buf.Len())
	}
}

func TestVarIntKnownEncodings(t *testing.T) {
	// Values taken from the public Minecraft protocol documentation.
	cases := map[int32][]byte{
		0:          {0x00},
		1:          {0x01},
		2:          {0x02},
		127:        {0x7f},
		128:        {0x80, 0x01},
		255:        {0xff, 0x01},
		25565:      {0xdd, 0xc7, 0x01},
		2147483647: {0xff, 0xff, 0xff, 0xff, 0x07},
		-1:         {0xff, 0xff, 0xff, 0xff, 0x0f},
	}
	for v, want := range cases {
		buf := new(bytes.Buffer)
		require.NoError(t, WriteVarInt(buf, v))
		assert.Equal(t, want, buf.Bytes())
	}
}

func TestReadVarIntTooBig(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x01})
	_, err := ReadVarInt(buf)
	assert.ErrorIs(t, err, ErrVarIntTooBig)
}

func TestStringRoundTrip(t *testing.T) {
	b := NewBufWriter()
	require.NoError(t, b.WriteString("hello, world"))
	got, err := b.ReadString(32767)
	require.NoError(t, err)
	assert.Equal(t, "hello, world", got)
}

func TestStringTooLong(t *testing.T) {
	b := NewBufWriter()
	require.NoError(t, b.WriteString("this string is too long for the limit"))
	_, err := b.ReadString(4)
	assert.ErrorIs(t, err, ErrStringTooLong)
}

func TestPositionRoundTrip(t *testing.T) {
	p := Position{X: -123456, Y: 127, Z: 987654}
	b := NewBufWriter()
	require.NoError(t, b.WritePosition(p))
	got, err := b.ReadPosition()
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("minecraft:overworld"))
	assert.True(t, ValidIdentifier("my_plugin:some-channel/v1"))
	assert.False(t, ValidIdentifier("Invalid:Upper"))
	assert.False(t, ValidIdentifier(":missing-namespace"))
	assert.False(t, ValidIdentifier("trailing:"))
}
