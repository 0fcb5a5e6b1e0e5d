// Package lfu implements the LFU eviction policy.
package lfu

import (
	"github.com/IvanBrykalov/cachesim/internal/list"
	"github.com/IvanBrykalov/cachesim/internal/store"
	"github.com/IvanBrykalov/cachesim/policy"
)

// lfuNode tracks one resident key and its access count.
type lfuNode struct {
	key  string
	freq int
}

// lfu groups keys into frequency buckets. Each bucket keeps insertion
// order (oldest at head), which is the tie-break on eviction.
// Only Get increments frequency; Put on an existing key updates the value.
type lfu struct {
	cap   int
	store *store.Store

	nodes   map[string]*list.Node[*lfuNode]
	buckets map[int]*list.List[*lfuNode]

	// minFreq is the lowest populated bucket; valid while nodes is non-empty.
	minFreq int
}

// New returns an empty LFU instance holding at most capacity entries.
func New(capacity int) policy.Policy {
	if capacity < 1 {
		panic("lfu: capacity must be > 0")
	}
	return &lfu{
		cap:     capacity,
		store:   store.New(capacity),
		nodes:   make(map[string]*list.Node[*lfuNode], capacity),
		buckets: make(map[int]*list.List[*lfuNode]),
	}
}

func (p *lfu) Name() policy.Name { return policy.LFU }
func (p *lfu) Cap() int          { return p.cap }
func (p *lfu) Len() int          { return p.store.Len() }

// Get moves a hit key to the tail of the next frequency bucket.
func (p *lfu) Get(key string) (string, bool) {
	v, ok := p.store.Get(key)
	if !ok {
		return "", false
	}

	n := p.nodes[key]
	old := n.Value.freq
	b := p.buckets[old]
	b.Remove(n)
	if b.Len() == 0 {
		delete(p.buckets, old)
		if p.minFreq == old {
			p.minFreq = old + 1
		}
	}

	n.Value.freq++
	p.nodes[key] = p.bucket(n.Value.freq).PushBack(n.Value)
	return v, true
}

// Put evicts the oldest member of the lowest bucket when a new key arrives
// at capacity; the new key starts at frequency 1.
func (p *lfu) Put(key, value string) (string, bool) {
	if p.store.Has(key) {
		p.store.Set(key, value)
		return "", false
	}

	var evicted string
	var ok bool
	if p.store.Len() >= p.cap {
		b := p.buckets[p.minFreq]
		head := b.Front()
		evicted, ok = head.Value.key, true
		b.Remove(head)
		if b.Len() == 0 {
			delete(p.buckets, p.minFreq)
		}
		delete(p.nodes, evicted)
		p.store.Delete(evicted)
	}

	p.nodes[key] = p.bucket(1).PushBack(&lfuNode{key: key, freq: 1})
	p.minFreq = 1
	p.store.Set(key, value)
	return evicted, ok
}

// Snapshot returns the resident entries in insertion order.
func (p *lfu) Snapshot() []policy.Entry { return p.store.Entries() }

// Meta exposes the per-key frequency map.
func (p *lfu) Meta() policy.Meta {
	freq := make(map[string]int, len(p.nodes))
	for k, n := range p.nodes {
		freq[k] = n.Value.freq
	}
	return policy.Meta{Freq: freq}
}

func (p *lfu) bucket(freq int) *list.List[*lfuNode] {
	b, ok := p.buckets[freq]
	if !ok {
		b = list.New[*lfuNode]()
		p.buckets[freq] = b
	}
	return b
}
