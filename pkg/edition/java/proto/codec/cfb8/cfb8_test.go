package cfb8

import (
	"crypto/aes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCFB8RoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef") // 16 bytes
	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	plaintext := []byte("the quick brown fox jumps over the lazy dog, 1234567890")

	encBlock, err := aes.NewCipher(key)
	require.NoError(t, err)
	enc := NewEncrypter(encBlock, key)
	ciphertext := make([]byte, len(plaintext))
	enc.XORKeyStream(ciphertext, plaintext)
	require.NotEqual(t, plaintext, ciphertext)

	decBlock, err := aes.NewCipher(key)
	require.NoError(t, err)
	dec := NewDecrypter(decBlock, key)
	decoded := make([]byte, len(ciphertext))
	dec.XORKeyStream(decoded, ciphertext)
	require.Equal(t, plaintext, decoded)
}

func TestCFB8StreamsAcrossCalls(t *testing.T) {
	key := []byte("0123456789abcdef")
	plaintext := []byte("abcdefghijklmnopqrstuvwxyz")

	encBlock, _ := aes.NewCipher(key)
	enc := NewEncrypter(encBlock, key)
	ciphertext := make([]byte, len(plaintext))
	// Feed one byte at a time to verify shift-register state persists.
	for i := range plaintext {
		enc.XORKeyStream(ciphertext[i:i+1], plaintext[i:i+1])
	}

	decBlock, _ := aes.NewCipher(key)
	dec := NewDecrypter(decBlock, key)
	decoded := make([]byte, len(ciphertext))
	dec.XORKeyStream(decoded, ciphertext)
	require.Equal(t, plaintext, decoded)
}
