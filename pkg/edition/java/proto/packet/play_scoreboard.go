package packet

import (
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/proto/util"
)

type ObjectiveMode int8

const (
	ObjectiveCreate ObjectiveMode = iota
	ObjectiveRemove
	ObjectiveUpdate
)

// ScoreboardObjective creates, removes or updates a scoreboard objective
// (§3 TrackedPlayState).
type ScoreboardObjective struct {
	Name        string
	Mode        ObjectiveMode
	DisplayName chat.Component
	RenderType  int32 // 0 integer, 1 hearts
}

func (p *ScoreboardObjective) Decode(buf *util.Buf, _ version.Protocol) error {
	var err error
	if p.Name, err = buf.ReadString(16); err != nil {
		return err
	}
	mode, err := buf.ReadInt8()
	if err != nil {
		return err
	}
	p.Mode = ObjectiveMode(mode)
	if p.Mode == ObjectiveCreate || p.Mode == ObjectiveUpdate {
		s, err := buf.ReadString(1 << 18)
		if err != nil {
			return err
		}
		if err := jsonUnmarshal(s, &p.DisplayName); err != nil {
			return err
		}
		if p.RenderType, err = buf.ReadVarInt(); err != nil {
			return err
		}
	}
	return nil
}

func (p *ScoreboardObjective) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteString(p.Name); err != nil {
		return err
	}
	if err := buf.WriteInt8(int8(p.Mode)); err != nil {
		return err
	}
	if p.Mode == ObjectiveCreate || p.Mode == ObjectiveUpdate {
		s, err := jsonMarshal(p.DisplayName)
		if err != nil {
			return err
		}
		if err := buf.WriteString(s); err != nil {
			return err
		}
		return buf.WriteVarInt(p.RenderType)
	}
	return nil
}

// DisplayObjective sets which HUD slot ("list", "sidebar", "belowName",
// or a team-colored sidebar slot) shows an objective.
type DisplayObjective struct {
	Slot      int32
	Objective string
}

func (p *DisplayObjective) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	if p.Slot, err = buf.ReadVarInt(); err != nil {
		return err
	}
	p.Objective, err = buf.ReadString(16)
	return err
}
func (p *DisplayObjective) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteVarInt(p.Slot); err != nil {
		return err
	}
	return buf.WriteString(p.Objective)
}

type ScoreAction int8

const (
	ScoreUpsert ScoreAction = iota
	ScoreRemove
)

// ScoreboardScore sets or removes a single (entity, objective) score entry.
type ScoreboardScore struct {
	Entity    string
	Action    ScoreAction
	Objective string
	Value     int32
}

func (p *ScoreboardScore) Decode(buf *util.Buf, _ version.Protocol) error {
	var err error
	if p.Entity, err = buf.ReadString(40); err != nil {
		return err
	}
	action, err := buf.ReadInt8()
	if err != nil {
		return err
	}
	p.Action = ScoreAction(action)
	if p.Objective, err = buf.ReadString(16); err != nil {
		return err
	}
	if p.Action == ScoreUpsert {
		p.Value, err = buf.ReadVarInt()
	}
	return err
}

func (p *ScoreboardScore) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteString(p.Entity); err != nil {
		return err
	}
	if err := buf.WriteInt8(int8(p.Action)); err != nil {
		return err
	}
	if err := buf.WriteString(p.Objective); err != nil {
		return err
	}
	if p.Action == ScoreUpsert {
		return buf.WriteVarInt(p.Value)
	}
	return nil
}

type TeamMode int8

const (
	TeamCreate TeamMode = iota
	TeamRemove
	TeamUpdateInfo
	TeamAddEntities
	TeamRemoveEntities
)

// Team creates/updates/removes a scoreboard team and its membership
// (§3 TrackedPlayState).
type Team struct {
	Name         string
	Mode         TeamMode
	DisplayName  chat.Component
	Prefix       chat.Component
	Suffix       chat.Component
	FriendlyFire uint8
	NameTagVisibility string
	CollisionRule     string
	Color        int32
	Entities     []string
}

func (p *Team) Decode(buf *util.Buf, _ version.Protocol) error {
	var err error
	if p.Name, err = buf.ReadString(16); err != nil {
		return err
	}
	mode, err := buf.ReadInt8()
	if err != nil {
		return err
	}
	p.Mode = TeamMode(mode)
	if p.Mode == TeamCreate || p.Mode == TeamUpdateInfo {
		s, err := buf.ReadString(1 << 18)
		if err != nil {
			return err
		}
		if err := jsonUnmarshal(s, &p.DisplayName); err != nil {
			return err
		}
		if p.FriendlyFire, err = buf.ReadUint8(); err != nil {
			return err
		}
		if p.NameTagVisibility, err = buf.ReadString(32); err != nil {
			return err
		}
		if p.CollisionRule, err = buf.ReadString(32); err != nil {
			return err
		}
		if p.Color, err = buf.ReadVarInt(); err != nil {
			return err
		}
		prefixJSON, err := buf.ReadString(1 << 18)
		if err != nil {
			return err
		}
		if err := jsonUnmarshal(prefixJSON, &p.Prefix); err != nil {
			return err
		}
		suffixJSON, err := buf.ReadString(1 << 18)
		if err != nil {
			return err
		}
		if err := jsonUnmarshal(suffixJSON, &p.Suffix); err != nil {
			return err
		}
	}
	if p.Mode == TeamCreate || p.Mode == TeamAddEntities || p.Mode == TeamRemoveEntities {
		n, err := buf.ReadVarInt()
		if err != nil {
			return err
		}
		p.Entities = make([]string, n)
		for i := range p.Entities {
			if p.Entities[i], err = buf.ReadString(40); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Team) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteString(p.Name); err != nil {
		return err
	}
	if err := buf.WriteInt8(int8(p.Mode)); err != nil {
		return err
	}
	if p.Mode == TeamCreate || p.Mode == TeamUpdateInfo {
		s, err := jsonMarshal(p.DisplayName)
		if err != nil {
			return err
		}
		if err := buf.WriteString(s); err != nil {
			return err
		}
		if err := buf.WriteUint8(p.FriendlyFire); err != nil {
			return err
		}
		if err := buf.WriteString(p.NameTagVisibility); err != nil {
			return err
		}
		if err := buf.WriteString(p.CollisionRule); err != nil {
			return err
		}
		if err := buf.WriteVarInt(p.Color); err != nil {
			return err
		}
		prefix, err := jsonMarshal(p.Prefix)
		if err != nil {
			return err
		}
		if err := buf.WriteString(prefix); err != nil {
			return err
		}
		suffix, err := jsonMarshal(p.Suffix)
		if err != nil {
			return err
		}
		if err := buf.WriteString(suffix); err != nil {
			return err
		}
	}
	if p.Mode == TeamCreate || p.Mode == TeamAddEntities || p.Mode == TeamRemoveEntities {
		if err := buf.WriteVarInt(int32(len(p.Entities))); err != nil {
			return err
		}
		for _, e := range p.Entities {
			if err := buf.WriteString(e); err != nil {
				return err
			}
		}
	}
	return nil
}
