// Package fifo implements the FIFO eviction policy.
package fifo

import (
	"github.com/IvanBrykalov/cachesim/internal/list"
	"github.com/IvanBrykalov/cachesim/internal/store"
	"github.com/IvanBrykalov/cachesim/policy"
)

// fifo evicts the oldest admitted key. Accesses and updates never reorder
// the arrival queue (oldest at head).
type fifo struct {
	cap     int
	store   *store.Store
	arrival *list.List[string]
}

// New returns an empty FIFO instance holding at most capacity entries.
func New(capacity int) policy.Policy {
	if capacity < 1 {
		panic("fifo: capacity must be > 0")
	}
	return &fifo{
		cap:     capacity,
		store:   store.New(capacity),
		arrival: list.New[string](),
	}
}

func (p *fifo) Name() policy.Name { return policy.FIFO }
func (p *fifo) Cap() int          { return p.cap }
func (p *fifo) Len() int          { return p.store.Len() }

// Get is a plain lookup; hits never reorder the arrival queue.
func (p *fifo) Get(key string) (string, bool) { return p.store.Get(key) }

// Put updates a resident key in place or admits a new one at the back of
// the queue, evicting the oldest arrival when full.
func (p *fifo) Put(key, value string) (string, bool) {
	if p.store.Has(key) {
		p.store.Set(key, value)
		return "", false
	}

	var evicted string
	var ok bool
	if p.store.Len() >= p.cap {
		head := p.arrival.Front()
		evicted, ok = head.Value, true
		p.arrival.Remove(head)
		p.store.Delete(evicted)
	}

	p.arrival.PushBack(key)
	p.store.Set(key, value)
	return evicted, ok
}

// Snapshot returns the resident entries in insertion order.
func (p *fifo) Snapshot() []policy.Entry { return p.store.Entries() }

// Meta exposes the arrival queue, oldest first.
func (p *fifo) Meta() policy.Meta { return policy.Meta{Order: p.arrival.Values()} }
