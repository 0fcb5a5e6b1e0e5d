// Package lru implements the LRU eviction policy.
package lru

import (
	"github.com/IvanBrykalov/cachesim/internal/list"
	"github.com/IvanBrykalov/cachesim/internal/store"
	"github.com/IvanBrykalov/cachesim/policy"
)

// lru is a classic "move-to-front" Least-Recently-Used policy.
// The recency list runs MRU (head) to LRU (tail); the store keeps values
// and the snapshot order.
type lru struct {
	cap     int
	store   *store.Store
	recency *list.List[string]
	idx     map[string]*list.Node[string]
}

// New returns an empty LRU instance holding at most capacity entries.
func New(capacity int) policy.Policy {
	if capacity < 1 {
		panic("lru: capacity must be > 0")
	}
	return &lru{
		cap:     capacity,
		store:   store.New(capacity),
		recency: list.New[string](),
		idx:     make(map[string]*list.Node[string], capacity),
	}
}

func (p *lru) Name() policy.Name { return policy.LRU }
func (p *lru) Cap() int          { return p.cap }
func (p *lru) Len() int          { return p.store.Len() }

// Get promotes the entry to MRU on hit.
func (p *lru) Get(key string) (string, bool) {
	v, ok := p.store.Get(key)
	if !ok {
		return "", false
	}
	p.recency.MoveToFront(p.idx[key])
	return v, true
}

// Put updates and promotes an existing key, or admits a new key at MRU
// after evicting the LRU tail when full.
func (p *lru) Put(key, value string) (string, bool) {
	if n, ok := p.idx[key]; ok {
		p.store.Set(key, value)
		p.recency.MoveToFront(n)
		return "", false
	}

	var evicted string
	var ok bool
	if p.store.Len() >= p.cap {
		tail := p.recency.Back()
		evicted, ok = tail.Value, true
		p.recency.Remove(tail)
		delete(p.idx, evicted)
		p.store.Delete(evicted)
	}

	p.idx[key] = p.recency.PushFront(key)
	p.store.Set(key, value)
	return evicted, ok
}

// Snapshot returns the resident entries in insertion order.
func (p *lru) Snapshot() []policy.Entry { return p.store.Entries() }

// Meta exposes the recency order, MRU first.
func (p *lru) Meta() policy.Meta { return policy.Meta{Order: p.recency.Values()} }
