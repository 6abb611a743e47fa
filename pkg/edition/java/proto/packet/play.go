package packet

import (
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/proto/util"
	"github.com/google/uuid"
)

// JoinGame spawns the player into a world. Only the fields the switch
// coordinator and TrackedPlayState need are modeled explicitly; everything
// else round-trips through Extra.
type JoinGame struct {
	EntityID         int32
	IsHardcore       bool
	Gamemode         uint8
	PreviousGamemode int8
	DimensionNames   []string
	Dimension        string
	WorldName        string
	HashedSeed       int64
	MaxPlayers       int32
	ViewDistance     int32
	SimulationDistance int32
	ReducedDebugInfo bool
	RespawnScreen    bool
	IsDebug          bool
	IsFlat           bool
	PortalCooldown   int32
	// Extra holds any trailing bytes this struct doesn't model explicitly,
	// so unrecognized trailing fields still round-trip.
	Extra []byte
}

func (p *JoinGame) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	if p.EntityID, err = buf.ReadInt32(); err != nil {
		return err
	}
	if p.IsHardcore, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.Gamemode, err = buf.ReadUint8(); err != nil {
		return err
	}
	if p.PreviousGamemode, err = buf.ReadInt8(); err != nil {
		return err
	}
	n, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.DimensionNames = make([]string, n)
	for i := range p.DimensionNames {
		if p.DimensionNames[i], err = buf.ReadString(32767); err != nil {
			return err
		}
	}
	// registry codec and other leading fields are omitted in this reduced
	// model; WorldName/Dimension/seed/etc. follow in the common layout.
	if p.Dimension, err = buf.ReadString(32767); err != nil {
		return err
	}
	if p.WorldName, err = buf.ReadString(32767); err != nil {
		return err
	}
	if p.HashedSeed, err = buf.ReadInt64(); err != nil {
		return err
	}
	if p.MaxPlayers, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.ViewDistance, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.SimulationDistance, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.ReducedDebugInfo, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.RespawnScreen, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.IsDebug, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.IsFlat, err = buf.ReadBool(); err != nil {
		return err
	}
	hasDeathLoc, err := buf.ReadBool()
	if err != nil {
		return err
	}
	if hasDeathLoc {
		if _, err = buf.ReadString(32767); err != nil {
			return err
		}
		if _, err = buf.ReadPosition(); err != nil {
			return err
		}
	}
	if p.PortalCooldown, err = buf.ReadVarInt(); err != nil {
		return err
	}
	p.Extra = append([]byte(nil), buf.Bytes()...)
	buf.Reset()
	return nil
}

func (p *JoinGame) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteInt32(p.EntityID); err != nil {
		return err
	}
	if err := buf.WriteBool(p.IsHardcore); err != nil {
		return err
	}
	if err := buf.WriteUint8(p.Gamemode); err != nil {
		return err
	}
	if err := buf.WriteInt8(p.PreviousGamemode); err != nil {
		return err
	}
	if err := buf.WriteVarInt(int32(len(p.DimensionNames))); err != nil {
		return err
	}
	for _, d := range p.DimensionNames {
		if err := buf.WriteString(d); err != nil {
			return err
		}
	}
	if err := buf.WriteString(p.Dimension); err != nil {
		return err
	}
	if err := buf.WriteString(p.WorldName); err != nil {
		return err
	}
	if err := buf.WriteInt64(p.HashedSeed); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.MaxPlayers); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.ViewDistance); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.SimulationDistance); err != nil {
		return err
	}
	if err := buf.WriteBool(p.ReducedDebugInfo); err != nil {
		return err
	}
	if err := buf.WriteBool(p.RespawnScreen); err != nil {
		return err
	}
	if err := buf.WriteBool(p.IsDebug); err != nil {
		return err
	}
	if err := buf.WriteBool(p.IsFlat); err != nil {
		return err
	}
	if err := buf.WriteBool(false); err != nil { // hasDeathLocation
		return err
	}
	if err := buf.WriteVarInt(p.PortalCooldown); err != nil {
		return err
	}
	_, err := buf.Write(p.Extra)
	return err
}

// Respawn is sent to change the player's dimension without a full
// reconnect; the switch coordinator synthesizes one when B's dimension
// equals A's last (§4.7 step 6).
type Respawn struct {
	Dimension        string
	WorldName        string
	HashedSeed       int64
	Gamemode         uint8
	PreviousGamemode int8
	IsDebug          bool
	IsFlat           bool
	CopyMetadata     bool
}

func (p *Respawn) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	if p.Dimension, err = buf.ReadString(32767); err != nil {
		return err
	}
	if p.WorldName, err = buf.ReadString(32767); err != nil {
		return err
	}
	if p.HashedSeed, err = buf.ReadInt64(); err != nil {
		return err
	}
	if p.Gamemode, err = buf.ReadUint8(); err != nil {
		return err
	}
	if p.PreviousGamemode, err = buf.ReadInt8(); err != nil {
		return err
	}
	if p.IsDebug, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.IsFlat, err = buf.ReadBool(); err != nil {
		return err
	}
	hasDeathLoc, err := buf.ReadBool()
	if err != nil {
		return err
	}
	if hasDeathLoc {
		if _, err = buf.ReadString(32767); err != nil {
			return err
		}
		if _, err = buf.ReadPosition(); err != nil {
			return err
		}
	}
	_, err = buf.ReadVarInt() // portal cooldown
	if err != nil {
		return err
	}
	p.CopyMetadata, err = buf.ReadBool()
	return err
}

func (p *Respawn) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteString(p.Dimension); err != nil {
		return err
	}
	if err := buf.WriteString(p.WorldName); err != nil {
		return err
	}
	if err := buf.WriteInt64(p.HashedSeed); err != nil {
		return err
	}
	if err := buf.WriteUint8(p.Gamemode); err != nil {
		return err
	}
	if err := buf.WriteInt8(p.PreviousGamemode); err != nil {
		return err
	}
	if err := buf.WriteBool(p.IsDebug); err != nil {
		return err
	}
	if err := buf.WriteBool(p.IsFlat); err != nil {
		return err
	}
	if err := buf.WriteBool(false); err != nil {
		return err
	}
	if err := buf.WriteVarInt(0); err != nil {
		return err
	}
	return buf.WriteBool(p.CopyMetadata)
}

// KeepAlive is the play-phase keepalive; the watchdog (§5) disconnects a
// client that has not answered the previous one when the next is due.
type KeepAlive struct{ RandomID int64 }

func (p *KeepAlive) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	p.RandomID, err = buf.ReadInt64()
	return err
}
func (p *KeepAlive) Encode(buf *util.Buf, _ version.Protocol) error {
	return buf.WriteInt64(p.RandomID)
}

// SystemChat is the modern (1.19+) server->client chat/system-message
// packet the proxy uses for its own injected messages (§4.9).
type SystemChat struct {
	Message  chat.Component
	Overlay  bool // true = action bar
}

func (p *SystemChat) Decode(buf *util.Buf, _ version.Protocol) error {
	s, err := buf.ReadString(1 << 18)
	if err != nil {
		return err
	}
	if err := jsonUnmarshal(s, &p.Message); err != nil {
		return err
	}
	p.Overlay, err = buf.ReadBool()
	return err
}

func (p *SystemChat) Encode(buf *util.Buf, _ version.Protocol) error {
	s, err := jsonMarshal(p.Message)
	if err != nil {
		return err
	}
	if err := buf.WriteString(s); err != nil {
		return err
	}
	return buf.WriteBool(p.Overlay)
}

// PluginMessage carries an (un)registered custom channel payload, used for
// identity-forwarding handshakes and Forge/Brand exchange.
type PluginMessage struct {
	Channel string
	Data    []byte
}

func (p *PluginMessage) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	if p.Channel, err = buf.ReadString(32767); err != nil {
		return err
	}
	p.Data = append([]byte(nil), buf.Bytes()...)
	buf.Reset()
	return nil
}

func (p *PluginMessage) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteString(p.Channel); err != nil {
		return err
	}
	_, err := buf.Write(p.Data)
	return err
}

// Disconnect terminates a Play-phase connection with a reason.
type Disconnect struct{ Reason chat.Component }

func (p *Disconnect) Decode(buf *util.Buf, _ version.Protocol) error {
	s, err := buf.ReadString(1 << 18)
	if err != nil {
		return err
	}
	return jsonUnmarshal(s, &p.Reason)
}

func (p *Disconnect) Encode(buf *util.Buf, _ version.Protocol) error {
	s, err := jsonMarshal(p.Reason)
	if err != nil {
		return err
	}
	return buf.WriteString(s)
}

// BossBar mirrors the multi-action boss bar packet; Action selects which
// of the optional fields apply. The switch coordinator only ever needs
// Add (to learn state) and Remove (to synthesize cleanup, §4.7 step 4).
type BossBarAction int32

const (
	BossBarAdd BossBarAction = iota
	BossBarRemove
	BossBarUpdateHealth
	BossBarUpdateTitle
	BossBarUpdateStyle
	BossBarUpdateFlags
)

type BossBar struct {
	UUID     uuid.UUID
	Action   BossBarAction
	Title    chat.Component
	Health   float32
	Color    int32
	Style    int32
	Flags    uint8
}

func (p *BossBar) Decode(buf *util.Buf, _ version.Protocol) error {
	var err error
	if p.UUID, err = buf.ReadUUID(); err != nil {
		return err
	}
	action, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.Action = BossBarAction(action)
	switch p.Action {
	case BossBarAdd:
		if err := p.decodeTitle(buf); err != nil {
			return err
		}
		if p.Health, err = buf.ReadFloat32(); err != nil {
			return err
		}
		if p.Color, err = buf.ReadVarInt(); err != nil {
			return err
		}
		if p.Style, err = buf.ReadVarInt(); err != nil {
			return err
		}
		p.Flags, err = buf.ReadUint8()
		return err
	case BossBarRemove:
		return nil
	case BossBarUpdateHealth:
		p.Health, err = buf.ReadFloat32()
		return err
	case BossBarUpdateTitle:
		return p.decodeTitle(buf)
	case BossBarUpdateStyle:
		if p.Color, err = buf.ReadVarInt(); err != nil {
			return err
		}
		p.Style, err = buf.ReadVarInt()
		return err
	case BossBarUpdateFlags:
		p.Flags, err = buf.ReadUint8()
		return err
	}
	return nil
}

func (p *BossBar) decodeTitle(buf *util.Buf) error {
	s, err := buf.ReadString(1 << 18)
	if err != nil {
		return err
	}
	return jsonUnmarshal(s, &p.Title)
}

func (p *BossBar) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteUUID(p.UUID); err != nil {
		return err
	}
	if err := buf.WriteVarInt(int32(p.Action)); err != nil {
		return err
	}
	switch p.Action {
	case BossBarAdd:
		if err := p.encodeTitle(buf); err != nil {
			return err
		}
		if err := buf.WriteFloat32(p.Health); err != nil {
			return err
		}
		if err := buf.WriteVarInt(p.Color); err != nil {
			return err
		}
		if err := buf.WriteVarInt(p.Style); err != nil {
			return err
		}
		return buf.WriteUint8(p.Flags)
	case BossBarRemove:
		return nil
	case BossBarUpdateHealth:
		return buf.WriteFloat32(p.Health)
	case BossBarUpdateTitle:
		return p.encodeTitle(buf)
	case BossBarUpdateStyle:
		if err := buf.WriteVarInt(p.Color); err != nil {
			return err
		}
		return buf.WriteVarInt(p.Style)
	case BossBarUpdateFlags:
		return buf.WriteUint8(p.Flags)
	}
	return nil
}

func (p *BossBar) encodeTitle(buf *util.Buf) error {
	s, err := jsonMarshal(p.Title)
	if err != nil {
		return err
	}
	return buf.WriteString(s)
}

// PlayerAbilities conveys flight/invulnerability state (§3 TrackedPlayState).
type PlayerAbilities struct {
	Flags       uint8
	FlySpeed    float32
	WalkSpeed   float32
}

func (p *PlayerAbilities) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	if p.Flags, err = buf.ReadUint8(); err != nil {
		return err
	}
	if p.FlySpeed, err = buf.ReadFloat32(); err != nil {
		return err
	}
	p.WalkSpeed, err = buf.ReadFloat32()
	return err
}

func (p *PlayerAbilities) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteUint8(p.Flags); err != nil {
		return err
	}
	if err := buf.WriteFloat32(p.FlySpeed); err != nil {
		return err
	}
	return buf.WriteFloat32(p.WalkSpeed)
}

const (
	AbilityInvulnerable uint8 = 1 << 0
	AbilityFlying       uint8 = 1 << 1
	AbilityAllowFlying  uint8 = 1 << 2
	AbilityCreativeMode uint8 = 1 << 3
)

// TabListHeaderFooter sets the always-visible header/footer text above and
// below the player list.
type TabListHeaderFooter struct {
	Header chat.Component
	Footer chat.Component
}

func (p *TabListHeaderFooter) Decode(buf *util.Buf, _ version.Protocol) error {
	h, err := buf.ReadString(1 << 18)
	if err != nil {
		return err
	}
	if err := jsonUnmarshal(h, &p.Header); err != nil {
		return err
	}
	f, err := buf.ReadString(1 << 18)
	if err != nil {
		return err
	}
	return jsonUnmarshal(f, &p.Footer)
}

func (p *TabListHeaderFooter) Encode(buf *util.Buf, _ version.Protocol) error {
	h, err := jsonMarshal(p.Header)
	if err != nil {
		return err
	}
	if err := buf.WriteString(h); err != nil {
		return err
	}
	f, err := jsonMarshal(p.Footer)
	if err != nil {
		return err
	}
	return buf.WriteString(f)
}

// CloseWindow tells the client to close an open container by id.
type CloseWindow struct{ WindowID uint8 }

func (p *CloseWindow) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	p.WindowID, err = buf.ReadUint8()
	return err
}
func (p *CloseWindow) Encode(buf *util.Buf, _ version.Protocol) error {
	return buf.WriteUint8(p.WindowID)
}

// ResetTitle clears any title previously sent by the old backend; used
// when switching backends, mirroring the teacher's NewResetTitle helper.
type ResetTitle struct{}

func (*ResetTitle) Decode(*util.Buf, version.Protocol) error { return nil }
func (*ResetTitle) Encode(*util.Buf, version.Protocol) error { return nil }
