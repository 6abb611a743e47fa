package proxy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
)

func TestTrackedPlayStateCleanupNeutralisesEverything(t *testing.T) {
	s := newTrackedPlayState()
	barID := uuid.New()
	s.observe(&packet.BossBar{UUID: barID, Action: packet.BossBarAdd, Title: chat.Text("Welcome")})
	s.observe(&packet.ScoreboardObjective{Name: "kills", Mode: packet.ObjectiveCreate})
	s.observe(&packet.Team{Name: "red", Mode: packet.TeamCreate})
	s.observe(&packet.PlayerInfoUpdate{Actions: packet.ActionAddPlayer, Entries: []packet.PlayerInfoEntry{{UUID: uuid.New(), Username: "Steve"}}})

	snap := s.snapshot()
	require.Equal(t, 1, snap["bossBars"])
	require.Equal(t, 1, snap["objectives"])
	require.Equal(t, 1, snap["teams"])
	require.Equal(t, 1, snap["playerInfo"])

	cleanup := s.cleanup()
	require.Len(t, cleanup, 4)

	s.reset()
	snap = s.snapshot()
	require.Equal(t, 0, snap["bossBars"])
	require.Equal(t, 0, snap["objectives"])
	require.Equal(t, 0, snap["teams"])
	require.Equal(t, 0, snap["playerInfo"])
}

func TestTrackedPlayStateUnchangedUntilObserved(t *testing.T) {
	s := newTrackedPlayState()
	before := s.snapshot()
	require.Equal(t, map[string]int{"bossBars": 0, "objectives": 0, "teams": 0, "playerInfo": 0}, before)
}
