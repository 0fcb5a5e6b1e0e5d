package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/IvanBrykalov/cachesim/policy"
	"github.com/IvanBrykalov/cachesim/policy/arc"
	"github.com/IvanBrykalov/cachesim/policy/fifo"
	"github.com/IvanBrykalov/cachesim/policy/lfu"
	"github.com/IvanBrykalov/cachesim/policy/lru"
	"github.com/IvanBrykalov/cachesim/trace"
)

// newPolicy builds a fresh instance of the named policy.
func newPolicy(name policy.Name, capacity int, cfg ARCConfig) policy.Policy {
	switch name {
	case policy.LRU:
		return lru.New(capacity)
	case policy.FIFO:
		return fifo.New(capacity)
	case policy.LFU:
		return lfu.New(capacity)
	case policy.ARC:
		return arc.New(capacity, arc.Options{BoundGhosts: cfg.BoundGhosts})
	default:
		panic("sim: unhandled policy " + string(name))
	}
}

// replay applies ops in order to p and records steps every `every`
// operations (plus the last one).
func replay(p policy.Policy, ops []trace.Operation, every int, m Metrics) Result {
	log := logrus.WithFields(logrus.Fields{"policy": p.Name(), "capacity": p.Cap()})
	log.Debugf("replaying %d operations (sampling every %d)", len(ops), every)

	res := Result{
		Policy:   p.Name(),
		Capacity: p.Cap(),
		Steps:    make([]Step, 0, len(ops)/every+1),
	}

	for i, op := range ops {
		step := Step{Index: i, Op: op.Type, Key: op.Key, Value: op.Value}

		switch op.Type {
		case trace.Get:
			_, step.Hit = p.Get(op.Key)
			if step.Hit {
				res.Stats.Hits++
				m.Hit(p.Name())
			} else {
				res.Stats.Misses++
				m.Miss(p.Name())
			}
		case trace.Put:
			if ev, ok := p.Put(op.Key, op.Value); ok {
				step.Evicted = ev
				res.Stats.Evictions++
				m.Evict(p.Name())
				log.Tracef("step %d: PUT %s evicted %s", i, op.Key, ev)
			}
		}
		m.Size(p.Name(), p.Len())

		if i%every == 0 || i == len(ops)-1 {
			step.Cache = p.Snapshot()
			step.Meta = p.Meta()
			res.Steps = append(res.Steps, step)
		}
	}

	res.Stats.HitRatio = res.Stats.hitRatio()
	log.WithFields(logrus.Fields{
		"hits":      res.Stats.Hits,
		"misses":    res.Stats.Misses,
		"evictions": res.Stats.Evictions,
	}).Debug("replay complete")
	return res
}
