package proxy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDifferentDimensionPrefersBackendDeclared(t *testing.T) {
	got := differentDimension("minecraft:overworld", []string{"minecraft:overworld", "minecraft:the_nether"})
	require.Equal(t, "minecraft:the_nether", got)
}

func TestDifferentDimensionFallsBackToWellKnownName(t *testing.T) {
	got := differentDimension("minecraft:overworld", []string{"minecraft:overworld"})
	require.Equal(t, "minecraft:the_end", got)

	got = differentDimension("minecraft:the_end", []string{"minecraft:the_end"})
	require.Equal(t, "minecraft:overworld", got)
}

func TestPendingPrevDimensionConsumedOnce(t *testing.T) {
	s := &ClientSession{}

	_, ok := s.consumePendingPrevDimension()
	require.False(t, ok, "no pending dimension on an initial connect")

	s.setPendingPrevDimension("minecraft:overworld")
	dim, ok := s.consumePendingPrevDimension()
	require.True(t, ok)
	require.Equal(t, "minecraft:overworld", dim)

	_, ok = s.consumePendingPrevDimension()
	require.False(t, ok, "consuming clears the pending value")
}
