package proxy

import (
	"github.com/birchwood-mc/gate/pkg/edition/java/netmc"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/registry"
)

// newRegistries builds the one process-wide set of per-phase packet tables
// shared by every connection (§5 "the packet registry ... [is] process-wide
// immutable after initialisation").
func newRegistries() netmc.Registries {
	return netmc.Registries{
		Handshake:     registry.Handshake(),
		Status:        registry.Status(),
		Login:         registry.Login(),
		Configuration: registry.Configuration(),
		Play:          registry.Play(),
	}
}
