package packet

import (
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/proto/util"
	"github.com/google/uuid"
)

// PlayerInfoAction flags which fields of PlayerInfoEntry an Update carries,
// matching the bitset the 1.19.3+ PlayerInfoUpdate packet uses.
type PlayerInfoAction uint8

const (
	ActionAddPlayer PlayerInfoAction = 1 << iota
	ActionInitializeChat
	ActionUpdateGameMode
	ActionUpdateListed
	ActionUpdateLatency
	ActionUpdateDisplayName
)

type PlayerInfoEntry struct {
	UUID        uuid.UUID
	Username    string
	Properties  []ProfileProperty
	Gamemode    int32
	Listed      bool
	Latency     int32
	DisplayName *chat.Component
}

// PlayerInfoUpdate adds or updates tablist entries (§3 TrackedPlayState).
type PlayerInfoUpdate struct {
	Actions PlayerInfoAction
	Entries []PlayerInfoEntry
}

func (p *PlayerInfoUpdate) Decode(buf *util.Buf, _ version.Protocol) error {
	actions, err := buf.ReadUint8()
	if err != nil {
		return err
	}
	p.Actions = PlayerInfoAction(actions)
	n, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.Entries = make([]PlayerInfoEntry, n)
	for i := range p.Entries {
		e := &p.Entries[i]
		if e.UUID, err = buf.ReadUUID(); err != nil {
			return err
		}
		if p.Actions&ActionAddPlayer != 0 {
			if e.Username, err = buf.ReadString(16); err != nil {
				return err
			}
			propN, err := buf.ReadVarInt()
			if err != nil {
				return err
			}
			e.Properties = make([]ProfileProperty, propN)
			for j := range e.Properties {
				if e.Properties[j].Name, err = buf.ReadString(32767); err != nil {
					return err
				}
				if e.Properties[j].Value, err = buf.ReadString(32767); err != nil {
					return err
				}
				hasSig, err := buf.ReadBool()
				if err != nil {
					return err
				}
				if hasSig {
					if e.Properties[j].Signature, err = buf.ReadString(32767); err != nil {
						return err
					}
				}
			}
		}
		if p.Actions&ActionUpdateGameMode != 0 {
			if e.Gamemode, err = buf.ReadVarInt(); err != nil {
				return err
			}
		}
		if p.Actions&ActionUpdateListed != 0 {
			if e.Listed, err = buf.ReadBool(); err != nil {
				return err
			}
		}
		if p.Actions&ActionUpdateLatency != 0 {
			if e.Latency, err = buf.ReadVarInt(); err != nil {
				return err
			}
		}
		if p.Actions&ActionUpdateDisplayName != 0 {
			has, err := buf.ReadBool()
			if err != nil {
				return err
			}
			if has {
				s, err := buf.ReadString(1 << 18)
				if err != nil {
					return err
				}
				var dn chat.Component
				if err := jsonUnmarshal(s, &dn); err != nil {
					return err
				}
				e.DisplayName = &dn
			}
		}
	}
	return nil
}

func (p *PlayerInfoUpdate) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteUint8(uint8(p.Actions)); err != nil {
		return err
	}
	if err := buf.WriteVarInt(int32(len(p.Entries))); err != nil {
		return err
	}
	for _, e := range p.Entries {
		if err := buf.WriteUUID(e.UUID); err != nil {
			return err
		}
		if p.Actions&ActionAddPlayer != 0 {
			if err := buf.WriteString(e.Username); err != nil {
				return err
			}
			if err := buf.WriteVarInt(int32(len(e.Properties))); err != nil {
				return err
			}
			for _, prop := range e.Properties {
				if err := buf.WriteString(prop.Name); err != nil {
					return err
				}
				if err := buf.WriteString(prop.Value); err != nil {
					return err
				}
				if err := buf.WriteBool(prop.Signature != ""); err != nil {
					return err
				}
				if prop.Signature != "" {
					if err := buf.WriteString(prop.Signature); err != nil {
						return err
					}
				}
			}
		}
		if p.Actions&ActionUpdateGameMode != 0 {
			if err := buf.WriteVarInt(e.Gamemode); err != nil {
				return err
			}
		}
		if p.Actions&ActionUpdateListed != 0 {
			if err := buf.WriteBool(e.Listed); err != nil {
				return err
			}
		}
		if p.Actions&ActionUpdateLatency != 0 {
			if err := buf.WriteVarInt(e.Latency); err != nil {
				return err
			}
		}
		if p.Actions&ActionUpdateDisplayName != 0 {
			if err := buf.WriteBool(e.DisplayName != nil); err != nil {
				return err
			}
			if e.DisplayName != nil {
				s, err := jsonMarshal(*e.DisplayName)
				if err != nil {
					return err
				}
				if err := buf.WriteString(s); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// PlayerInfoRemove drops tablist entries no longer present (§4.7 step 4).
type PlayerInfoRemove struct {
	UUIDs []uuid.UUID
}

func (p *PlayerInfoRemove) Decode(buf *util.Buf, _ version.Protocol) error {
	n, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.UUIDs = make([]uuid.UUID, n)
	for i := range p.UUIDs {
		if p.UUIDs[i], err = buf.ReadUUID(); err != nil {
			return err
		}
	}
	return nil
}

func (p *PlayerInfoRemove) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteVarInt(int32(len(p.UUIDs))); err != nil {
		return err
	}
	for _, id := range p.UUIDs {
		if err := buf.WriteUUID(id); err != nil {
			return err
		}
	}
	return nil
}
