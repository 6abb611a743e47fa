package proxy

import (
	"sync"

	"github.com/google/uuid"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
)

// trackedPlayState mirrors the subset of a backend's Play-phase state the
// client has been told about, so a switch can neutralise it before the new
// backend's own state takes over (§3 TrackedPlayState, §4.7 step 4). Owned
// by exactly one ClientSession and touched only from that session's
// read-loop goroutines, per §5.
type trackedPlayState struct {
	mu sync.Mutex

	bossBars   map[uuid.UUID]*packet.BossBar
	objectives map[string]*packet.ScoreboardObjective
	teams      map[string]*packet.Team
	playerInfo map[uuid.UUID]*packet.PlayerInfoEntry
	headerFoot *packet.TabListHeaderFooter
	openWindow *uint8
	abilities  *packet.PlayerAbilities
	dimension  string
}

func newTrackedPlayState() *trackedPlayState {
	return &trackedPlayState{
		bossBars:   map[uuid.UUID]*packet.BossBar{},
		objectives: map[string]*packet.ScoreboardObjective{},
		teams:      map[string]*packet.Team{},
		playerInfo: map[uuid.UUID]*packet.PlayerInfoEntry{},
	}
}

// observe updates tracked state from a packet the backend sent toward the
// client, regardless of whether it is still being forwarded (during the
// drain window of §4.7 step 2, updates continue even though forwarding has
// stopped).
func (s *trackedPlayState) observe(pkt any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch p := pkt.(type) {
	case *packet.BossBar:
		if p.Action == packet.BossBarRemove {
			delete(s.bossBars, p.UUID)
		} else {
			cp := *p
			s.bossBars[p.UUID] = &cp
		}
	case *packet.ScoreboardObjective:
		if p.Mode == packet.ObjectiveRemove {
			delete(s.objectives, p.Name)
		} else {
			cp := *p
			s.objectives[p.Name] = &cp
		}
	case *packet.Team:
		if p.Mode == packet.TeamRemove {
			delete(s.teams, p.Name)
		} else {
			cp := *p
			s.teams[p.Name] = &cp
		}
	case *packet.PlayerInfoUpdate:
		for _, e := range p.Entries {
			cp := e
			s.playerInfo[e.UUID] = &cp
		}
	case *packet.PlayerInfoRemove:
		for _, id := range p.UUIDs {
			delete(s.playerInfo, id)
		}
	case *packet.TabListHeaderFooter:
		cp := *p
		s.headerFoot = &cp
	case *packet.PlayerAbilities:
		cp := *p
		s.abilities = &cp
	case *packet.CloseWindow:
		s.openWindow = nil
	case *packet.JoinGame:
		s.dimension = p.Dimension
	case *packet.Respawn:
		s.dimension = p.Dimension
	}
}

// cleanup returns the packets needed to neutralise everything currently
// tracked -- bossbar removals, objective/team removals, and a player-info
// removal for every tracked entry (§4.7 step 4) -- without touching
// dimension, which the switch coordinator handles separately via a
// synthetic Respawn.
func (s *trackedPlayState) cleanup() []any {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []any
	for id := range s.bossBars {
		out = append(out, &packet.BossBar{UUID: id, Action: packet.BossBarRemove})
	}
	for name := range s.objectives {
		out = append(out, &packet.ScoreboardObjective{Name: name, Mode: packet.ObjectiveRemove})
	}
	for name := range s.teams {
		out = append(out, &packet.Team{Name: name, Mode: packet.TeamRemove})
	}
	if len(s.playerInfo) > 0 {
		ids := make([]uuid.UUID, 0, len(s.playerInfo))
		for id := range s.playerInfo {
			ids = append(ids, id)
		}
		out = append(out, &packet.PlayerInfoRemove{UUIDs: ids})
	}
	if s.openWindow != nil {
		out = append(out, &packet.CloseWindow{WindowID: *s.openWindow})
	}
	return out
}

// reset clears all tracked state, e.g. once a switch's cleanup packets have
// been sent and the new backend starts repopulating it (§4.7 step 4).
func (s *trackedPlayState) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bossBars = map[uuid.UUID]*packet.BossBar{}
	s.objectives = map[string]*packet.ScoreboardObjective{}
	s.teams = map[string]*packet.Team{}
	s.playerInfo = map[uuid.UUID]*packet.PlayerInfoEntry{}
	s.headerFoot = nil
	s.openWindow = nil
	s.abilities = nil
}

// snapshot returns a shallow copy sufficient for the "switch atomicity"
// testable property (§8 property 6): if a switch aborts before forwarding
// begins, state must be provably unchanged.
func (s *trackedPlayState) snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		"bossBars":   len(s.bossBars),
		"objectives": len(s.objectives),
		"teams":      len(s.teams),
		"playerInfo": len(s.playerInfo),
	}
}

func (s *trackedPlayState) dimensionName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dimension
}
