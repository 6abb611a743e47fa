package proxy

import (
	"fmt"
	"strings"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
)

// ownedCommand is a command the proxy itself executes rather than
// forwarding to the active backend (§4.8).
type ownedCommand struct {
	usage string
	run   func(p *Proxy, s *ClientSession, args []string)
}

var ownedCommands = map[string]ownedCommand{
	"server": {
		usage: "/server <name>",
		run: func(p *Proxy, s *ClientSession, args []string) {
			if len(args) != 1 {
				_ = s.SendMessage(chat.Text("usage: /server <name>"))
				return
			}
			if _, ok := p.Server(args[0]); !ok {
				_ = s.SendMessage(chat.Text(fmt.Sprintf("unknown server %q", args[0])))
				return
			}
			if err := s.SwitchTo(args[0]); err != nil {
				_ = s.SendMessage(chat.Text(err.Error()))
			}
		},
	},
}

// handleOwnedCommand checks whether command's first token names a
// proxy-owned command and, if so, runs it and reports true so the caller
// does not forward the packet to the backend (§8 S6).
func (p *Proxy) handleOwnedCommand(s *ClientSession, command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false
	}
	cmd, ok := ownedCommands[strings.ToLower(fields[0])]
	if !ok {
		return false
	}
	cmd.run(p, s, fields[1:])
	return true
}

// ownedCommandName returns the first token of command, the verb used to
// look it up in ownedCommands.
func ownedCommandName(command string) string {
	if idx := strings.IndexByte(command, ' '); idx >= 0 {
		return command[:idx]
	}
	return command
}

// spliceCommands injects the proxy's own command literals as root children
// of a backend's DeclareCommands graph, appending the new nodes after the
// existing ones so no existing index changes and the tree is otherwise
// untouched (§4.8).
func (p *Proxy) spliceCommands(src *packet.DeclareCommands) *packet.DeclareCommands {
	nodes := make([]packet.CommandNode, len(src.Nodes))
	copy(nodes, src.Nodes)

	root := nodes[src.RootIndex]
	for name := range ownedCommands {
		idx := int32(len(nodes))
		nodes = append(nodes, packet.CommandNode{
			Flags: packet.NodeTypeLiteral | packet.NodeFlagExecutable,
			Name:  name,
		})
		root.Children = append(root.Children, idx)
	}
	nodes[src.RootIndex] = root

	return &packet.DeclareCommands{Nodes: nodes, RootIndex: src.RootIndex}
}
