package packet

import (
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/proto/util"
	"github.com/google/uuid"
)

// LoginStart begins the Login sequence (§4.3) with the client's claimed
// username and, from 1.20 (protocol 763) on, a profile id that is always
// present.
type LoginStart struct {
	Username string
	HasUUID  bool
	UUID     uuid.UUID
}

func (p *LoginStart) Decode(buf *util.Buf, protocol version.Protocol) (err error) {
	if p.Username, err = buf.ReadString(16); err != nil {
		return err
	}
	if protocol.GreaterEqual(version.Minecraft_1_20) {
		p.HasUUID = true
		p.UUID, err = buf.ReadUUID()
	}
	return err
}

func (p *LoginStart) Encode(buf *util.Buf, protocol version.Protocol) error {
	if err := buf.WriteString(p.Username); err != nil {
		return err
	}
	if protocol.GreaterEqual(version.Minecraft_1_20) {
		return buf.WriteUUID(p.UUID)
	}
	return nil
}

// EncryptionRequest is sent by the proxy to an online-mode client (§4.5).
type EncryptionRequest struct {
	ServerID    string // always "" per Minecraft convention
	PublicKey   []byte // DER-encoded RSA public key
	VerifyToken []byte
}

func (p *EncryptionRequest) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	if p.ServerID, err = buf.ReadString(20); err != nil {
		return err
	}
	if p.PublicKey, err = buf.ReadByteArray(); err != nil {
		return err
	}
	p.VerifyToken, err = buf.ReadByteArray()
	return err
}

func (p *EncryptionRequest) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteString(p.ServerID); err != nil {
		return err
	}
	if err := buf.WriteByteArray(p.PublicKey); err != nil {
		return err
	}
	return buf.WriteByteArray(p.VerifyToken)
}

// EncryptionResponse answers an EncryptionRequest with RSA-encrypted
// values the proxy decrypts with its private key.
type EncryptionResponse struct {
	SharedSecret []byte
	VerifyToken  []byte
}

func (p *EncryptionResponse) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	if p.SharedSecret, err = buf.ReadByteArray(); err != nil {
		return err
	}
	p.VerifyToken, err = buf.ReadByteArray()
	return err
}

func (p *EncryptionResponse) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteByteArray(p.SharedSecret); err != nil {
		return err
	}
	return buf.WriteByteArray(p.VerifyToken)
}

// SetCompression announces the compression threshold (§4.4); -1 disables
// compression.
type SetCompression struct {
	Threshold int32
}

func (p *SetCompression) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	p.Threshold, err = buf.ReadVarInt()
	return err
}
func (p *SetCompression) Encode(buf *util.Buf, _ version.Protocol) error {
	return buf.WriteVarInt(p.Threshold)
}

// ProfileProperty is a signed property on a GameProfile (e.g. "textures").
type ProfileProperty struct {
	Name      string
	Value     string
	Signature string // optional
}

// LoginSuccess completes the Login phase and moves the connection to
// Configuration (§4.3).
type LoginSuccess struct {
	UUID       uuid.UUID
	Username   string
	Properties []ProfileProperty
}

func (p *LoginSuccess) Decode(buf *util.Buf, protocol version.Protocol) (err error) {
	if p.UUID, err = buf.ReadUUID(); err != nil {
		return err
	}
	if p.Username, err = buf.ReadString(16); err != nil {
		return err
	}
	n, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.Properties = make([]ProfileProperty, n)
	for i := range p.Properties {
		if p.Properties[i].Name, err = buf.ReadString(32767); err != nil {
			return err
		}
		if p.Properties[i].Value, err = buf.ReadString(32767); err != nil {
			return err
		}
		hasSig, err := buf.ReadBool()
		if err != nil {
			return err
		}
		if hasSig {
			if p.Properties[i].Signature, err = buf.ReadString(32767); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *LoginSuccess) Encode(buf *util.Buf, protocol version.Protocol) error {
	if err := buf.WriteUUID(p.UUID); err != nil {
		return err
	}
	if err := buf.WriteString(p.Username); err != nil {
		return err
	}
	if err := buf.WriteVarInt(int32(len(p.Properties))); err != nil {
		return err
	}
	for _, prop := range p.Properties {
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
	return nil
}

// LoginDisconnect terminates the Login phase with a reason (§7 AuthError).
type LoginDisconnect struct {
	Reason chat.Component
}

func (p *LoginDisconnect) Decode(buf *util.Buf, _ version.Protocol) error {
	s, err := buf.ReadString(1 << 18)
	if err != nil {
		return err
	}
	return jsonUnmarshal(s, &p.Reason)
}

func (p *LoginDisconnect) Encode(buf *util.Buf, _ version.Protocol) error {
	s, err := jsonMarshal(p.Reason)
	if err != nil {
		return err
	}
	return buf.WriteString(s)
}

// LoginPluginRequest/Response implement the backend's "login plugin
// message" extension mechanism, which identity-forwarding mods can use.
type LoginPluginRequest struct {
	MessageID int32
	Channel   string
	Data      []byte
}

func (p *LoginPluginRequest) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	if p.MessageID, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.Channel, err = buf.ReadString(32767); err != nil {
		return err
	}
	p.Data = buf.Bytes()
	buf.Reset()
	return nil
}

func (p *LoginPluginRequest) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteVarInt(p.MessageID); err != nil {
		return err
	}
	if err := buf.WriteString(p.Channel); err != nil {
		return err
	}
	_, err := buf.Write(p.Data)
	return err
}

type LoginPluginResponse struct {
	MessageID  int32
	Successful bool
	Data       []byte
}

func (p *LoginPluginResponse) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	if p.MessageID, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.Successful, err = buf.ReadBool(); err != nil {
		return err
	}
	p.Data = buf.Bytes()
	buf.Reset()
	return nil
}

func (p *LoginPluginResponse) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteVarInt(p.MessageID); err != nil {
		return err
	}
	if err := buf.WriteBool(p.Successful); err != nil {
		return err
	}
	_, err := buf.Write(p.Data)
	return err
}
