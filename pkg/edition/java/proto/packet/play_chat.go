package packet

import (
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/proto/util"
)

// ChatCommand is the serverbound packet a client sends for a typed `/command`
// (§4.8, §4.9). Modern clients append per-argument signing material after
// the command text; the proxy only needs the text itself to decide whether
// it owns the command, so the signing tail is captured opaquely and
// re-emitted unchanged when forwarded.
type ChatCommand struct {
	Command string
	Tail    []byte // timestamp/salt/argument-signatures/etc., opaque
}

func (p *ChatCommand) Decode(buf *util.Buf, _ version.Protocol) error {
	cmd, err := buf.ReadString(256)
	if err != nil {
		return err
	}
	p.Command = cmd
	p.Tail = append([]byte(nil), buf.Bytes()...)
	buf.Reset()
	return nil
}

func (p *ChatCommand) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteString(p.Command); err != nil {
		return err
	}
	_, err := buf.Write(p.Tail)
	return err
}

// ChatMessage is the serverbound packet for ordinary (non-command) chat
// input; like ChatCommand its signing tail is treated opaquely.
type ChatMessage struct {
	Message string
	Tail    []byte
}

func (p *ChatMessage) Decode(buf *util.Buf, _ version.Protocol) error {
	msg, err := buf.ReadString(256)
	if err != nil {
		return err
	}
	p.Message = msg
	p.Tail = append([]byte(nil), buf.Bytes()...)
	buf.Reset()
	return nil
}

func (p *ChatMessage) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteString(p.Message); err != nil {
		return err
	}
	_, err := buf.Write(p.Tail)
	return err
}
