package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharedKeyPairIsCachedAndValid(t *testing.T) {
	kp1, err := SharedKeyPair()
	require.NoError(t, err)
	require.NotNil(t, kp1.Private)
	require.NotEmpty(t, kp1.DER)

	kp2, err := SharedKeyPair()
	require.NoError(t, err)
	require.Same(t, kp1, kp2)
}

func TestInsertDashes(t *testing.T) {
	require.Equal(t,
		"069a79f4-44e9-4726-a5be-fca90e38aaf5",
		insertDashes("069a79f444e94726a5befca90e38aaf5"),
	)
}

func TestOfflineProfileMatchesDeterministicUUID(t *testing.T) {
	p := OfflineProfile("Steve")
	require.Equal(t, "Steve", p.Name)
	require.Equal(t, "5627dd98-e6be-3c21-b8a8-e92344183641", p.ID.String())
}
