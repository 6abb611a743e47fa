package uuid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOfflinePlayerKnownVector(t *testing.T) {
	// UUID.nameUUIDFromBytes("OfflinePlayer:Notch") is a widely reproduced
	// reference value for the vanilla offline-mode derivation (§8 testable
	// property); "Steve" is not a fixed public vector, so pin the name that
	// actually has one and assert Steve only via the cross-check below.
	u := OfflinePlayer("Notch")
	require.Equal(t, "b50ad385-829d-3141-a216-7e7d7539ba7f", u.String())
}

func TestOfflinePlayerMatchesMD5v3Contract(t *testing.T) {
	// §4.5: version nibble forced to 3, variant bits forced to RFC 4122,
	// independent of the known-vector check above.
	u := OfflinePlayer("Steve")
	require.Equal(t, byte(3), u[6]>>4)
	require.Equal(t, byte(0x80), u[8]&0xC0)
}

func TestOfflinePlayerDeterministic(t *testing.T) {
	require.Equal(t, OfflinePlayer("Alex"), OfflinePlayer("Alex"))
	require.NotEqual(t, OfflinePlayer("Alex"), OfflinePlayer("Notch"))
}

func TestServerIDHashKnownVectors(t *testing.T) {
	// These three vectors are documented on the wiki.vg "Protocol Encryption"
	// page as reference outputs of the signed-bignum digest.
	require.Equal(t, "4ed1f46bbe04bc756bcb17c0c7ce3e4632f06a48", ServerIDHash("Notch", nil, nil))
	require.Equal(t, "-7c9d5b0044c130109a5d7b5fb5c317c02b4e28c1", ServerIDHash("jeb_", nil, nil))
	require.Equal(t, "88e16a1019277b15d58faf0541e11910eb756f6", ServerIDHash("simon", nil, nil))
}
