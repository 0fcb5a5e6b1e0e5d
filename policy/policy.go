// Package policy defines the contract shared by the eviction policy state
// machines (LRU, FIFO, LFU, ARC) and the metadata they expose for
// visualisation.
package policy

import (
	"fmt"
	"strings"

	"github.com/IvanBrykalov/cachesim/internal/store"
)

// Name identifies one eviction policy.
type Name string

const (
	LRU  Name = "LRU"  // least recently used
	FIFO Name = "FIFO" // first in, first out
	LFU  Name = "LFU"  // least frequently used, oldest first on ties
	ARC  Name = "ARC"  // simplified adaptive replacement cache
)

// Names returns every supported policy in a stable order.
func Names() []Name { return []Name{LRU, FIFO, LFU, ARC} }

// ParseName maps a case-insensitive identifier to a Name.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToUpper(strings.TrimSpace(s)))
	switch n {
	case LRU, FIFO, LFU, ARC:
		return n, nil
	}
	return "", fmt.Errorf("unknown policy %q", s)
}

// Entry is one resident key/value pair in a snapshot.
type Entry = store.Entry

// ARCState is the introspection view of an ARC instance.
// Lists are ordered front (most recent) to back.
type ARCState struct {
	T1 []string `json:"T1"`
	T2 []string `json:"T2"`
	B1 []string `json:"B1"`
	B2 []string `json:"B2"`
	P  int      `json:"p"`

	// Displaced is the resident key pushed out to a ghost list by the last
	// ghost-hit GET, if any. It is never counted as a PUT eviction.
	Displaced string `json:"displaced,omitempty"`
}

// Meta carries policy-specific state captured after an operation.
// Only the fields relevant to the policy are set.
type Meta struct {
	Order []string       `json:"order,omitempty"` // LRU recency (MRU first) or FIFO arrival (oldest first)
	Freq  map[string]int `json:"freq,omitempty"`  // LFU access counts
	ARC   *ARCState      `json:"arcSets,omitempty"`
}

// Policy is a fixed-capacity cache state machine.
//
// Semantics:
//   - Get reports a hit only for resident keys. It may reorder internal
//     recency/frequency structures.
//   - Put inserts or updates. An eviction happens only when a new key is
//     inserted while the cache is at capacity; ok reports whether one did.
//   - Snapshot returns resident entries in backing-store insertion order.
//
// Implementations are not safe for concurrent use; each replay owns its
// instance exclusively.
type Policy interface {
	Name() Name
	Cap() int
	Len() int
	Get(key string) (value string, hit bool)
	Put(key, value string) (evicted string, ok bool)
	Snapshot() []Entry
	Meta() Meta
}
