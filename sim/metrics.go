package sim

import "github.com/IvanBrykalov/cachesim/policy"

// Metrics exposes replay-level observability hooks, labelled by policy.
// Replays for different policies call it concurrently, so implementations
// must be safe for concurrent use.
type Metrics interface {
	Hit(p policy.Name)
	Miss(p policy.Name)
	Evict(p policy.Name)
	Size(p policy.Name, entries int)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// It is used when Options.Metrics is nil.
type NoopMetrics struct{}

func (NoopMetrics) Hit(policy.Name)       {}
func (NoopMetrics) Miss(policy.Name)      {}
func (NoopMetrics) Evict(policy.Name)     {}
func (NoopMetrics) Size(policy.Name, int) {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}
