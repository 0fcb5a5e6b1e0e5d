// Package prom exports replay counters as Prometheus metrics.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/IvanBrykalov/cachesim/policy"
	"github.com/IvanBrykalov/cachesim/sim"
)

// Adapter implements sim.Metrics and exports Prometheus counters/gauges,
// all labelled by policy. Safe for concurrent replays; all Prometheus
// metric types are goroutine-safe.
type Adapter struct {
	hits    *prometheus.CounterVec
	misses  *prometheus.CounterVec
	evicts  *prometheus.CounterVec
	sizeEnt *prometheus.GaugeVec
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		}, []string{"policy"})
	}
	a := &Adapter{
		hits:   counter("hits_total", "GET operations that found a resident key"),
		misses: counter("misses_total", "GET operations that did not find a resident key"),
		evicts: counter("evictions_total", "Resident keys removed by a PUT at capacity"),
		sizeEnt: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries after the last operation",
			ConstLabels: constLabels,
		}, []string{"policy"}),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.sizeEnt)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit(p policy.Name) { a.hits.WithLabelValues(string(p)).Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss(p policy.Name) { a.misses.WithLabelValues(string(p)).Inc() }

// Evict increments the eviction counter.
func (a *Adapter) Evict(p policy.Name) { a.evicts.WithLabelValues(string(p)).Inc() }

// Size sets the resident entry gauge.
func (a *Adapter) Size(p policy.Name, entries int) {
	a.sizeEnt.WithLabelValues(string(p)).Set(float64(entries))
}

// Compile-time check: ensure Adapter implements sim.Metrics.
var _ sim.Metrics = (*Adapter)(nil)
