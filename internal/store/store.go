// Package store holds the insertion-ordered key/value map that backs every
// eviction policy. Snapshots are reported in this store's iteration order.
package store

import "github.com/IvanBrykalov/cachesim/internal/list"

// Entry is one resident key/value pair.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Store maps keys to values and remembers the order in which keys were
// first inserted. Updating an existing key keeps its position; deleting and
// re-inserting a key moves it to the end.
type Store struct {
	m     map[string]*list.Node[Entry]
	order *list.List[Entry] // oldest at front
}

// New returns an empty store sized for capacity entries.
func New(capacity int) *Store {
	return &Store{
		m:     make(map[string]*list.Node[Entry], capacity),
		order: list.New[Entry](),
	}
}

// Get returns the value for key and whether it is present.
func (s *Store) Get(key string) (string, bool) {
	n, ok := s.m[key]
	if !ok {
		return "", false
	}
	return n.Value.Value, true
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.m[key]
	return ok
}

// Set inserts key at the end or updates it in place.
func (s *Store) Set(key, value string) {
	if n, ok := s.m[key]; ok {
		n.Value.Value = value
		return
	}
	s.m[key] = s.order.PushBack(Entry{Key: key, Value: value})
}

// Delete removes key if present and reports whether it existed.
func (s *Store) Delete(key string) bool {
	n, ok := s.m[key]
	if !ok {
		return false
	}
	s.order.Remove(n)
	delete(s.m, key)
	return true
}

// Len returns the number of resident entries.
func (s *Store) Len() int { return len(s.m) }

// Entries returns a copy of the resident entries in insertion order.
func (s *Store) Entries() []Entry { return s.order.Values() }
