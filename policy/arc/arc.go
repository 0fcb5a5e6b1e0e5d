// Package arc implements a simplified Adaptive Replacement Cache.
package arc

import (
	"github.com/IvanBrykalov/cachesim/internal/list"
	"github.com/IvanBrykalov/cachesim/internal/store"
	"github.com/IvanBrykalov/cachesim/policy"
)

// Options tunes the ARC instance. The zero value keeps ghost lists unbounded.
type Options struct {
	// BoundGhosts trims ghost lists from their LRU end so that
	// |T1|+|B1| <= capacity and |T2|+|B2| <= 2*capacity.
	BoundGhosts bool
}

// arc keeps two resident lists and two ghost lists, all MRU at Front():
//
//   - T1: keys seen once recently (recency)
//   - T2: keys hit at least twice (frequency)
//   - B1/B2: keys evicted from T1/T2; values are not retained
//
// p in [0, cap] is the target size of T1. A ghost hit in B1 grows p,
// a ghost hit in B2 or a T1→T2 promotion shrinks it.
//
// Simplifications: a repeated hit on a T2 key does not reposition it, and
// ghost hits on Get re-admit the key into T1 with an empty placeholder value.
type arc struct {
	cap int
	p   int
	opt Options

	store          *store.Store
	t1, t2, b1, b2 *list.List[string]

	// loc indexes every key in any of the four lists; a key lives in at most one.
	loc map[string]*list.Node[string]

	// displaced is the key pushed out by the last ghost-hit Get.
	displaced string
}

// New returns an empty ARC instance holding at most capacity resident entries.
func New(capacity int, opt Options) policy.Policy {
	if capacity < 1 {
		panic("arc: capacity must be > 0")
	}
	return &arc{
		cap:   capacity,
		opt:   opt,
		store: store.New(capacity),
		t1:    list.New[string](),
		t2:    list.New[string](),
		b1:    list.New[string](),
		b2:    list.New[string](),
		loc:   make(map[string]*list.Node[string], 2*capacity),
	}
}

func (a *arc) Name() policy.Name { return policy.ARC }
func (a *arc) Cap() int          { return a.cap }
func (a *arc) Len() int          { return a.store.Len() }

// Get reports a hit only for T1/T2 residents. A ghost match adapts p and
// re-admits the key, but still reports a miss.
func (a *arc) Get(key string) (string, bool) {
	a.displaced = ""

	n, ok := a.loc[key]
	if !ok {
		return "", false
	}

	switch {
	case a.t1.Contains(n) || a.t2.Contains(n):
		a.promote(key)
		v, _ := a.store.Get(key)
		return v, true
	case a.b1.Contains(n):
		a.b1.Remove(n)
		delete(a.loc, key)
		a.p = min(a.cap, a.p+1)
	case a.b2.Contains(n):
		a.b2.Remove(n)
		delete(a.loc, key)
		a.p = max(0, a.p-1)
	}

	a.displaced, _ = a.replace(key, "")
	return "", false
}

// Put updates a resident key (re-running Get's promotion, never evicting)
// or admits a new key into T1, evicting from T1 or T2 when full.
func (a *arc) Put(key, value string) (string, bool) {
	a.displaced = ""

	if n, ok := a.loc[key]; ok {
		if a.t1.Contains(n) || a.t2.Contains(n) {
			a.store.Set(key, value)
			a.promote(key)
			return "", false
		}
		// Stale ghost for a key that is coming back through Put.
		a.b1.Remove(n)
		a.b2.Remove(n)
		delete(a.loc, key)
	}
	return a.replace(key, value)
}

// Snapshot returns the resident entries in insertion order.
func (a *arc) Snapshot() []policy.Entry { return a.store.Entries() }

// Meta exposes T1, T2, B1, B2 and p.
func (a *arc) Meta() policy.Meta {
	return policy.Meta{ARC: &policy.ARCState{
		T1:        a.t1.Values(),
		T2:        a.t2.Values(),
		B1:        a.b1.Values(),
		B2:        a.b2.Values(),
		P:         a.p,
		Displaced: a.displaced,
	}}
}

// promote moves a T1 resident to the front of T2 and shrinks p.
// T2 residents stay where they are.
func (a *arc) promote(key string) {
	n := a.loc[key]
	if !a.t1.Contains(n) {
		return
	}
	a.t1.Remove(n)
	a.loc[key] = a.t2.PushFront(key)
	a.p = max(0, a.p-1)
	if a.opt.BoundGhosts {
		a.trimGhosts()
	}
}

// replace makes room if the resident lists are full, then inserts key at
// the front of T1.
func (a *arc) replace(key, value string) (evicted string, ok bool) {
	if a.t1.Len()+a.t2.Len() >= a.cap {
		evicted, ok = a.evict(), true
	}
	a.loc[key] = a.t1.PushFront(key)
	a.store.Set(key, value)
	if a.opt.BoundGhosts {
		a.trimGhosts()
	}
	return evicted, ok
}

// evict drops the LRU resident of T1 when |T1| > p, else of T2, and records
// it in the matching ghost list. An empty preferred list falls back to the
// other one.
func (a *arc) evict() string {
	src, ghost := a.t2, a.b2
	if a.t1.Len() > a.p || a.t2.Len() == 0 {
		src, ghost = a.t1, a.b1
	}
	tail := src.Back()
	key := tail.Value
	src.Remove(tail)
	a.loc[key] = ghost.PushFront(key)
	a.store.Delete(key)
	return key
}

func (a *arc) trimGhosts() {
	for a.b1.Len() > 0 && a.t1.Len()+a.b1.Len() > a.cap {
		a.dropGhost(a.b1)
	}
	for a.b2.Len() > 0 && a.t2.Len()+a.b2.Len() > 2*a.cap {
		a.dropGhost(a.b2)
	}
}

func (a *arc) dropGhost(l *list.List[string]) {
	tail := l.Back()
	l.Remove(tail)
	delete(a.loc, tail.Value)
}
