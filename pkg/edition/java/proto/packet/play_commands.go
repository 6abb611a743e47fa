package packet

import (
	"io"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/proto/util"
)

// CommandNodeFlag bits select a brigadier node's kind and optional fields,
// matching the vanilla DeclareCommands wire format.
type CommandNodeFlag uint8

const (
	NodeTypeRoot CommandNodeFlag = iota
	NodeTypeLiteral
	NodeTypeArgument
	nodeTypeMask = 0x03

	NodeFlagExecutable  CommandNodeFlag = 1 << 2
	NodeFlagRedirect    CommandNodeFlag = 1 << 3
	NodeFlagHasSuggest  CommandNodeFlag = 1 << 4
)

// CommandNode is one node of the declared command graph (§4.8). Parser
// property bytes for argument nodes are kept opaque (ParserProps) since
// the proxy only needs to splice/renumber the graph, not interpret every
// possible argument type.
type CommandNode struct {
	Flags       CommandNodeFlag
	Children    []int32 // indices into the owning DeclareCommands.Nodes
	RedirectTo  int32   // valid iff NodeFlagRedirect
	Name        string  // literal text or argument name
	Parser      string  // argument parser identifier (argument nodes only)
	ParserProps []byte  // raw parser properties, opaque
	SuggestionsType string // present iff NodeFlagHasSuggest
}

func (n CommandNode) nodeType() CommandNodeFlag { return n.Flags & nodeTypeMask }

// DeclareCommands is the backend's command tree; the command injector
// splices proxy-owned nodes into it before it reaches the client (§4.8).
type DeclareCommands struct {
	Nodes     []CommandNode
	RootIndex int32
}

func (p *DeclareCommands) Decode(buf *util.Buf, _ version.Protocol) error {
	n, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.Nodes = make([]CommandNode, n)
	for i := range p.Nodes {
		node := &p.Nodes[i]
		flags, err := buf.ReadUint8()
		if err != nil {
			return err
		}
		node.Flags = CommandNodeFlag(flags)
		childCount, err := buf.ReadVarInt()
		if err != nil {
			return err
		}
		node.Children = make([]int32, childCount)
		for c := range node.Children {
			if node.Children[c], err = buf.ReadVarInt(); err != nil {
				return err
			}
		}
		if node.Flags&NodeFlagRedirect != 0 {
			if node.RedirectTo, err = buf.ReadVarInt(); err != nil {
				return err
			}
		}
		switch node.nodeType() {
		case NodeTypeLiteral:
			if node.Name, err = buf.ReadString(32767); err != nil {
				return err
			}
		case NodeTypeArgument:
			if node.Name, err = buf.ReadString(32767); err != nil {
				return err
			}
			if node.Parser, err = buf.ReadString(32767); err != nil {
				return err
			}
			// Opaque parser properties: since we don't know the parser's
			// own length-prefix shape, capture remaining per-node bytes is
			// not possible without a type table. Real clients require
			// exact properties; decodeParserProps below ships a minimal
			// table covering the brigadier numeric and string parsers,
			// minecraft:entity/score_holder and the minecraft:resource
			// family, and treats any other parser as zero-length, which
			// misparses arguments whose parser carries properties.
			props, err := decodeParserProps(buf, node.Parser)
			if err != nil {
				return err
			}
			node.ParserProps = props
			if node.Flags&NodeFlagHasSuggest != 0 {
				if node.SuggestionsType, err = buf.ReadString(32767); err != nil {
					return err
				}
			}
		}
	}
	root, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.RootIndex = root
	return nil
}

func (p *DeclareCommands) Encode(buf *util.Buf, _ version.Protocol) error {
	if err := buf.WriteVarInt(int32(len(p.Nodes))); err != nil {
		return err
	}
	for _, node := range p.Nodes {
		if err := buf.WriteUint8(uint8(node.Flags)); err != nil {
			return err
		}
		if err := buf.WriteVarInt(int32(len(node.Children))); err != nil {
			return err
		}
		for _, c := range node.Children {
			if err := buf.WriteVarInt(c); err != nil {
				return err
			}
		}
		if node.Flags&NodeFlagRedirect != 0 {
			if err := buf.WriteVarInt(node.RedirectTo); err != nil {
				return err
			}
		}
		switch node.nodeType() {
		case NodeTypeLiteral:
			if err := buf.WriteString(node.Name); err != nil {
				return err
			}
		case NodeTypeArgument:
			if err := buf.WriteString(node.Name); err != nil {
				return err
			}
			if err := buf.WriteString(node.Parser); err != nil {
				return err
			}
			if _, err := buf.Write(node.ParserProps); err != nil {
				return err
			}
			if node.Flags&NodeFlagHasSuggest != 0 {
				if err := buf.WriteString(node.SuggestionsType); err != nil {
					return err
				}
			}
		}
	}
	return buf.WriteVarInt(p.RootIndex)
}

// decodeParserProps reads and returns the raw property bytes following an
// argument node's parser identifier, enough to losslessly re-emit them on
// Encode without interpreting their meaning.
func decodeParserProps(buf *util.Buf, parser string) ([]byte, error) {
	var raw []byte
	readN := func(n int) error {
		b := buf.Next(n)
		if len(b) != n {
			return io.ErrUnexpectedEOF
		}
		raw = append(raw, b...)
		return nil
	}
	switch parser {
	case "brigadier:integer", "brigadier:float", "brigadier:double", "brigadier:long":
		flagsByte := buf.Next(1)
		if len(flagsByte) != 1 {
			return nil, io.ErrUnexpectedEOF
		}
		raw = append(raw, flagsByte...)
		width := numericWidth(parser)
		flags := flagsByte[0]
		if flags&0x01 != 0 {
			if err := readN(width); err != nil {
				return nil, err
			}
		}
		if flags&0x02 != 0 {
			if err := readN(width); err != nil {
				return nil, err
			}
		}
		return raw, nil
	case "brigadier:string":
		n, err := buf.ReadVarInt()
		if err != nil {
			return nil, err
		}
		tmp := util.NewBufWriter()
		_ = tmp.WriteVarInt(n)
		return tmp.Bytes(), nil
	case "minecraft:entity", "minecraft:score_holder":
		return readRawN(buf, 1)
	case "minecraft:resource", "minecraft:resource_or_tag", "minecraft:resource_key":
		s, err := buf.ReadString(32767)
		if err != nil {
			return nil, err
		}
		tmp := util.NewBufWriter()
		_ = tmp.WriteString(s)
		return tmp.Bytes(), nil
	default:
		// No modeled shape: assume zero-length properties. Nodes using an
		// unmodeled parser with nonzero properties will desync.
		return nil, nil
	}
}

func readRawN(buf *util.Buf, n int) ([]byte, error) {
	b := buf.Next(n)
	if len(b) != n {
		return nil, io.ErrUnexpectedEOF
	}
	return append([]byte(nil), b...), nil
}

func numericWidth(parser string) int {
	switch parser {
	case "brigadier:integer", "brigadier:float":
		return 4
	default:
		return 8
	}
}
