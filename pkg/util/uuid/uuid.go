// Package uuid derives the player identifiers the login flow needs when no
// upstream authority (Mojang) assigns one, and parses the signed-bignum hex
// digest Mojang's session server expects for a join request (§4.5).
package uuid

import (
	"crypto/md5"
	"crypto/sha1"
	"math/big"

	"github.com/google/uuid"
)

// OfflinePlayer derives the deterministic "offline mode" UUID vanilla
// servers use when online-mode is disabled: an MD5 digest of
// "OfflinePlayer:"+username, with the version nibble forced to 3 (name-based,
// MD5) per RFC 4122 §4.3 and the variant bits forced to RFC 4122 form.
func OfflinePlayer(username string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + username))
	sum[6] = (sum[6] & 0x0F) | 0x30 // version 3
	sum[8] = (sum[8] & 0x3F) | 0x80 // variant RFC 4122
	u, _ := uuid.FromBytes(sum[:])
	return u
}

// ServerIDHash computes Minecraft's serverId digest for the Mojang
// hasJoined request: SHA-1 of (serverID bytes || secret || publicKey),
// reinterpreted as a signed two's-complement bignum and printed in hex
// (negative results get a "-" prefix) -- notoriously not a plain hex
// encoding of the raw digest.
func ServerIDHash(serverID string, sharedSecret, publicKey []byte) string {
	h := sha1.New()
	h.Write([]byte(serverID))
	h.Write(sharedSecret)
	h.Write(publicKey)
	digest := h.Sum(nil)
	return signedBigIntHex(digest)
}

func signedBigIntHex(digest []byte) string {
	n := new(big.Int).SetBytes(digest)
	// If the high bit of the digest is set, the value is negative in Java's
	// signed-bignum interpretation: take two's complement over the same
	// bit width before formatting.
	if digest[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(digest)*8)))
		return "-" + new(big.Int).Neg(n).Text(16)
	}
	return n.Text(16)
}
