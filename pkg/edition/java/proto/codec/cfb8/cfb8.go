// Package cfb8 implements AES-128/CFB8, the stream-cipher mode Minecraft
// uses for its encrypted connections. Go's standard library only ships
// CFB-128 (cipher.NewCFBEncrypter/Decrypter operate on the full block
// size), so this hand-rolled 8-bit-feedback variant is required; no
// third-party library in the retrieval pack offers it either.
package cfb8

import "crypto/cipher"

type cfb8 struct {
	block     cipher.Block
	blockSize int
	iv        []byte // shift register, len == blockSize
	decrypt   bool
}

// NewEncrypter returns a stream that encrypts with AES-CFB8, IV == key per
// Minecraft's convention (§4.4).
func NewEncrypter(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, false)
}

// NewDecrypter returns the matching decrypting stream.
func NewDecrypter(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, true)
}

func newCFB8(block cipher.Block, iv []byte, decrypt bool) *cfb8 {
	bs := block.BlockSize()
	reg := make([]byte, bs)
	copy(reg, iv)
	return &cfb8{block: block, blockSize: bs, iv: reg, decrypt: decrypt}
}

// XORKeyStream implements cipher.Stream one byte at a time: encrypt the
// shift register, XOR its first byte with the plaintext/ciphertext byte to
// produce the output, then shift the *ciphertext* byte into the register.
func (c *cfb8) XORKeyStream(dst, src []byte) {
	tmp := make([]byte, c.blockSize)
	for i := range src {
		c.block.Encrypt(tmp, c.iv)
		var cipherByte byte
		if c.decrypt {
			cipherByte = src[i]
			dst[i] = src[i] ^ tmp[0]
		} else {
			dst[i] = src[i] ^ tmp[0]
			cipherByte = dst[i]
		}
		copy(c.iv, c.iv[1:])
		c.iv[c.blockSize-1] = cipherByte
	}
}
