// Package state implements the protocol phase registry (§4.3): each phase
// owns an id <-> packet-constructor table per direction, keyed further by
// protocol version since ids are not stable across versions.
package state

import (
	"fmt"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
)

// Phase is one of the five disjoint protocol phases (§3). Transitions
// between them are unidirectional and announced by specific packets.
type Phase uint8

const (
	Handshake Phase = iota
	Status
	Login
	Configuration
	Play
)

func (p Phase) String() string {
	switch p {
	case Handshake:
		return "handshake"
	case Status:
		return "status"
	case Login:
		return "login"
	case Configuration:
		return "configuration"
	case Play:
		return "play"
	default:
		return "unknown"
	}
}

// Constructor builds a zero-value Packet for a given id so the decoder can
// call Decode on it.
type Constructor func() proto.Packet

// versionedTable maps id -> constructor for one protocol version "bucket".
// minProtocol entries are searched in descending order so a packet whose id
// changed at some version picks up the correct table for the connection.
type versionedTable struct {
	minProtocol version.Protocol
	byID        map[int32]Constructor
}

// idEntry maps a packet's reflect-free registration key (its constructor's
// output type name) back to the id for encoding; see Registry.IDFor.
type idEntry struct {
	minProtocol version.Protocol
	id          int32
}

// Registry is the per-phase, per-direction packet table described in §2's
// "Packet registry" component.
type Registry struct {
	phase  Phase
	tables map[proto.Direction][]*versionedTable
	// typeIDs maps a packet type name to its id entries for encoding.
	typeIDs map[proto.Direction]map[string][]idEntry
	names   map[proto.Direction]map[int32]string // per latest-registered bucket, for diagnostics
}

func NewRegistry(phase Phase) *Registry {
	return &Registry{
		phase:   phase,
		tables:  map[proto.Direction][]*versionedTable{},
		typeIDs: map[proto.Direction]map[string][]idEntry{},
		names:   map[proto.Direction]map[int32]string{},
	}
}

func (r *Registry) Phase() Phase { return r.phase }

// Register associates id with a packet constructor for direction, valid
// from minProtocol onward (until a higher minProtocol registration for the
// same type supersedes it).
func (r *Registry) Register(direction proto.Direction, id int32, minProtocol version.Protocol, ctor Constructor, typeName string) {
	tbl := r.tableFor(direction, minProtocol)
	tbl.byID[id] = ctor

	if r.typeIDs[direction] == nil {
		r.typeIDs[direction] = map[string][]idEntry{}
	}
	r.typeIDs[direction][typeName] = append(r.typeIDs[direction][typeName], idEntry{minProtocol: minProtocol, id: id})
}

func (r *Registry) tableFor(direction proto.Direction, minProtocol version.Protocol) *versionedTable {
	for _, t := range r.tables[direction] {
		if t.minProtocol == minProtocol {
			return t
		}
	}
	t := &versionedTable{minProtocol: minProtocol, byID: map[int32]Constructor{}}
	r.tables[direction] = append(r.tables[direction], t)
	return t
}

// ConstructorFor returns the constructor for id valid at protocol, picking
// the highest minProtocol bucket that is <= protocol and defines id.
func (r *Registry) ConstructorFor(direction proto.Direction, id int32, protocol version.Protocol) (Constructor, bool) {
	var best *versionedTable
	for _, t := range r.tables[direction] {
		if t.minProtocol > protocol {
			continue
		}
		if best == nil || t.minProtocol > best.minProtocol {
			if _, ok := t.byID[id]; ok {
				best = t
			}
		}
	}
	if best == nil {
		return nil, false
	}
	return best.byID[id], true
}

// IDFor returns the wire id for a packet of type typeName at protocol, for
// encoding. typeName is typically fmt.Sprintf("%T", pkt).
func (r *Registry) IDFor(direction proto.Direction, typeName string, protocol version.Protocol) (int32, error) {
	entries := r.typeIDs[direction][typeName]
	if len(entries) == 0 {
		return 0, fmt.Errorf("state: no id registered for %s in %s/%s", typeName, r.phase, direction)
	}
	var best *idEntry
	for i := range entries {
		e := &entries[i]
		if e.minProtocol > protocol {
			continue
		}
		if best == nil || e.minProtocol > best.minProtocol {
			best = e
		}
	}
	if best == nil {
		return 0, fmt.Errorf("state: %s not valid for protocol %d in %s/%s", typeName, protocol, r.phase, direction)
	}
	return best.id, nil
}
