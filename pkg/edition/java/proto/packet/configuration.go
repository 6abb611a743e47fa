package packet

import (
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/nbt"
	"github.com/birchwood-mc/gate/pkg/proto/util"
)

// RegistryData conveys a single dimension/biome/damage-type registry as
// network NBT (root name omitted, §4.2).
type RegistryData struct {
	RegistryID string
	Entries    map[string]nbt.Tag // entry id -> optional data (End tag if absent)
}

func (p *RegistryData) Decode(buf *util.Buf, protocol version.Protocol) error {
	var err error
	if p.RegistryID, err = buf.ReadString(32767); err != nil {
		return err
	}
	n, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.Entries = make(map[string]nbt.Tag, n)
	for i := int32(0); i < n; i++ {
		id, err := buf.ReadString(32767)
		if err != nil {
			return err
		}
		hasData, err := buf.ReadBool()
		if err != nil {
			return err
		}
		var tag nbt.Tag
		if hasData {
			dec := nbt.NewDecoder(buf)
			dec.Network = true
			_, tag, err = dec.DecodeNamed()
			if err != nil {
				return err
			}
		}
		p.Entries[id] = tag
	}
	return nil
}

func (p *RegistryData) Encode(buf *util.Buf, protocol version.Protocol) error {
	if err := buf.WriteString(p.RegistryID); err != nil {
		return err
	}
	if err := buf.WriteVarInt(int32(len(p.Entries))); err != nil {
		return err
	}
	for id, tag := range p.Entries {
		if err := buf.WriteString(id); err != nil {
			return err
		}
		hasData := tag.Type != nbt.TagEnd
		if err := buf.WriteBool(hasData); err != nil {
			return err
		}
		if hasData {
			enc := nbt.NewEncoder(buf)
			enc.Network = true
			if err := enc.EncodeNamed("", tag); err != nil {
				return err
			}
		}
	}
	return nil
}

// KnownPacks is exchanged both ways during Configuration to agree on which
// datapacks the client already has cached.
type KnownPack struct {
	Namespace string
	ID        string
	Version   string
}

type KnownPacks struct {
	Packs []KnownPack
}

func (p *KnownPacks) Decode(buf *util.Buf, _ version.Protocol) error {
	n, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.Packs = make([]KnownPack, n)
	for i := range p.Packs {
		if p.Packs[i].Namespace, err = buf.ReadString(32767); err != nil {
			return err
		}
		if p.Packs[i].ID, err = buf.ReadString(32767); err != nil {
			return err
		}
		if p.Packs[i].Version, err = buf.ReadString(32767); err != nil {
			return err
		}
	}
	return nil
}

func (p *KnownPacks) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteVarInt(int32(len(p.Packs))); err != nil {
		return err
	}
	for _, pack := range p.Packs {
		if err := buf.WriteString(pack.Namespace); err != nil {
			return err
		}
		if err := buf.WriteString(pack.ID); err != nil {
			return err
		}
		if err := buf.WriteString(pack.Version); err != nil {
			return err
		}
	}
	return nil
}

// FeatureFlags enables datapack-gated client features (e.g. "minecraft:bundle").
type FeatureFlags struct {
	Flags []string
}

func (p *FeatureFlags) Decode(buf *util.Buf, _ version.Protocol) error {
	n, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.Flags = make([]string, n)
	for i := range p.Flags {
		if p.Flags[i], err = buf.ReadString(32767); err != nil {
			return err
		}
	}
	return nil
}

func (p *FeatureFlags) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteVarInt(int32(len(p.Flags))); err != nil {
		return err
	}
	for _, f := range p.Flags {
		if err := buf.WriteString(f); err != nil {
			return err
		}
	}
	return nil
}

// UpdateTags conveys block/item/entity tag sets; the proxy passes these
// through opaquely (raw NBT-free tag lists), so only the raw bytes matter.
type UpdateTags struct {
	Raw []byte
}

func (p *UpdateTags) Decode(buf *util.Buf, _ version.Protocol) error {
	p.Raw = append([]byte(nil), buf.Bytes()...)
	buf.Reset()
	return nil
}

func (p *UpdateTags) Encode(buf *util.Buf, _ version.Protocol) error {
	_, err := buf.Write(p.Raw)
	return err
}

// FinishConfiguration is sent by either side to move Configuration -> Play
// (§4.3).
type FinishConfiguration struct{}

func (*FinishConfiguration) Decode(*util.Buf, version.Protocol) error { return nil }
func (*FinishConfiguration) Encode(*util.Buf, version.Protocol) error { return nil }

// StartConfiguration is the server->client packet used from Play to
// re-enter Configuration mid-session (§4.3, the switch coordinator's
// vehicle).
type StartConfiguration struct{}

func (*StartConfiguration) Decode(*util.Buf, version.Protocol) error { return nil }
func (*StartConfiguration) Encode(*util.Buf, version.Protocol) error { return nil }

// KeepAliveConfiguration is Configuration-phase's keepalive variant.
type KeepAliveConfiguration struct{ RandomID int64 }

func (p *KeepAliveConfiguration) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	p.RandomID, err = buf.ReadInt64()
	return err
}
func (p *KeepAliveConfiguration) Encode(buf *util.Buf, _ version.Protocol) error {
	return buf.WriteInt64(p.RandomID)
}

// DisconnectConfiguration terminates the connection while in Configuration.
type DisconnectConfiguration struct{ Reason chat.Component }

func (p *DisconnectConfiguration) Decode(buf *util.Buf, _ version.Protocol) error {
	s, err := buf.ReadString(1 << 18)
	if err != nil {
		return err
	}
	return jsonUnmarshal(s, &p.Reason)
}
func (p *DisconnectConfiguration) Encode(buf *util.Buf, _ version.Protocol) error {
	s, err := jsonMarshal(p.Reason)
	if err != nil {
		return err
	}
	return buf.WriteString(s)
}

// ClientInformation (a.k.a. ClientSettings) is sent by the client in both
// Configuration and Play with locale, view distance and chat settings.
type ClientInformation struct {
	Locale              string
	ViewDistance         int8
	ChatVisibility       int32
	ChatColors           bool
	SkinParts            uint8
	MainHand             int32
	TextFilteringEnabled bool
	AllowServerListing   bool
}

func (p *ClientInformation) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	if p.Locale, err = buf.ReadString(16); err != nil {
		return err
	}
	if p.ViewDistance, err = buf.ReadInt8(); err != nil {
		return err
	}
	if p.ChatVisibility, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.ChatColors, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.SkinParts, err = buf.ReadUint8(); err != nil {
		return err
	}
	if p.MainHand, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.TextFilteringEnabled, err = buf.ReadBool(); err != nil {
		return err
	}
	p.AllowServerListing, err = buf.ReadBool()
	return err
}

func (p *ClientInformation) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteString(p.Locale); err != nil {
		return err
	}
	if err := buf.WriteInt8(p.ViewDistance); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.ChatVisibility); err != nil {
		return err
	}
	if err := buf.WriteBool(p.ChatColors); err != nil {
		return err
	}
	if err := buf.WriteUint8(p.SkinParts); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.MainHand); err != nil {
		return err
	}
	if err := buf.WriteBool(p.TextFilteringEnabled); err != nil {
		return err
	}
	return buf.WriteBool(p.AllowServerListing)
}
