package proxy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
)

func TestSpliceCommandsAddsOwnedLiteralsUnderRoot(t *testing.T) {
	p := &Proxy{}
	src := &packet.DeclareCommands{
		Nodes: []packet.CommandNode{
			{Flags: packet.NodeTypeRoot, Children: []int32{1}},
			{Flags: packet.NodeTypeLiteral, Name: "help"},
		},
		RootIndex: 0,
	}

	out := p.spliceCommands(src)

	require.Len(t, out.Nodes, len(src.Nodes)+len(ownedCommands))
	root := out.Nodes[out.RootIndex]
	require.Contains(t, root.Children, int32(1))
	require.Len(t, root.Children, 1+len(ownedCommands))

	var sawOwned bool
	for _, idx := range root.Children {
		if out.Nodes[idx].Name == "server" {
			sawOwned = true
		}
	}
	require.True(t, sawOwned)

	// original nodes are untouched in place (other than the root's children)
	require.Equal(t, "help", out.Nodes[1].Name)
}

func TestHandleOwnedCommandRecognisesRegisteredVerbsOnly(t *testing.T) {
	p := &Proxy{}
	require.False(t, p.handleOwnedCommand(nil, ""))
	require.False(t, p.handleOwnedCommand(nil, "help me"))
}

func TestOwnedCommandNameStripsArguments(t *testing.T) {
	require.Equal(t, "server", ownedCommandName("server lobby"))
	require.Equal(t, "server", ownedCommandName("server"))
}
