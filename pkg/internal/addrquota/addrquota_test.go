package addrquota

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAllowBurstThenThrottles(t *testing.T) {
	q := New(1, 2, time.Minute)
	addr := &net.TCPAddr{IP: net.ParseIP("203.0.113.5"), Port: 54321}

	require.True(t, q.Allow(addr))
	require.True(t, q.Allow(addr))
	require.False(t, q.Allow(addr))
}

func TestAllowIsPerAddress(t *testing.T) {
	q := New(1, 1, time.Minute)
	a := &net.TCPAddr{IP: net.ParseIP("203.0.113.5"), Port: 1}
	b := &net.TCPAddr{IP: net.ParseIP("203.0.113.6"), Port: 1}

	require.True(t, q.Allow(a))
	require.False(t, q.Allow(a))
	require.True(t, q.Allow(b))
}

func TestPruneDropsIdleBuckets(t *testing.T) {
	q := New(1, 1, time.Millisecond)
	addr := &net.TCPAddr{IP: net.ParseIP("203.0.113.5"), Port: 1}
	q.Allow(addr)
	time.Sleep(5 * time.Millisecond)
	q.Prune()
	require.Empty(t, q.buckets)
}
