package proxy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSwitchToFailedDialLeavesClientOnA covers §8 Testable Property 6
// ("switch atomicity") and S5 (`/server down` with `down` unreachable):
// a dial failure must leave the client exactly as it was, still on its
// current backend, with no pending backend left dangling.
func TestSwitchToFailedDialLeavesClientOnA(t *testing.T) {
	p := &Proxy{} // empty server table: dialToLoginSuccess fails immediately
	active := &backend{name: "lobby"}
	s := &ClientSession{proxy: p, active: active}

	err := s.SwitchTo("down")
	require.Error(t, err)

	require.Same(t, active, s.active, "client must remain on its current backend")
	require.Nil(t, s.pending, "a failed dial must not leave a pending backend")
	require.False(t, s.switching, "the in-flight flag must be cleared after a failed dial")
}

// TestSwitchToRejectsConcurrentAttempts covers the guard that closes the
// window a second SwitchTo call could otherwise race into while a dial is
// already in flight.
func TestSwitchToRejectsConcurrentAttempts(t *testing.T) {
	s := &ClientSession{proxy: &Proxy{}, switching: true}

	err := s.SwitchTo("lobby2")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already in flight")
}

func TestSwitchToRejectsSwitchToCurrentBackend(t *testing.T) {
	active := &backend{name: "lobby"}
	s := &ClientSession{proxy: &Proxy{}, active: active}

	err := s.SwitchTo("lobby")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already connected")
}
