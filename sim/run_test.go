package sim

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/cachesim/policy"
	"github.com/IvanBrykalov/cachesim/trace"
)

const promoteTrace = "PUT A 1\nPUT B 2\nPUT C 3\nGET A\nPUT D 4"

func runOne(t *testing.T, name policy.Name, capacity int, text string) Result {
	t.Helper()
	results, err := Run(Request{Capacity: capacity, Policies: []string{string(name)}, TraceText: text}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	return results[0]
}

func lastStep(r Result) Step { return r.Steps[len(r.Steps)-1] }

func TestRun_LRUEvictsLeastRecent(t *testing.T) {
	r := runOne(t, policy.LRU, 3, promoteTrace)
	assert.Equal(t, "B", lastStep(r).Evicted)
	assert.Equal(t, Stats{Hits: 1, Misses: 0, HitRatio: 1, Evictions: 1}, r.Stats)
}

func TestRun_FIFOEvictsOldestArrival(t *testing.T) {
	r := runOne(t, policy.FIFO, 3, promoteTrace)
	assert.Equal(t, "A", lastStep(r).Evicted)
}

func TestRun_LFUEvictsOldestLeastFrequent(t *testing.T) {
	r := runOne(t, policy.LFU, 3, "PUT A 1\nPUT B 2\nPUT C 3\nGET A\nGET A\nPUT D 4")
	last := lastStep(r)
	assert.Equal(t, "B", last.Evicted)
	assert.Equal(t, map[string]int{"A": 3, "C": 1, "D": 1}, last.Meta.Freq)
}

// Steps are captured after the operation is applied.
func TestRun_StepCapturesPostOperationState(t *testing.T) {
	r := runOne(t, policy.LRU, 2, "PUT A apple\nGET A\nGET Z")
	require.Len(t, r.Steps, 3)

	assert.Equal(t, Step{
		Index: 0, Op: trace.Put, Key: "A", Value: "apple",
		Cache: []policy.Entry{{Key: "A", Value: "apple"}},
		Meta:  policy.Meta{Order: []string{"A"}},
	}, r.Steps[0])
	assert.True(t, r.Steps[1].Hit)
	assert.False(t, r.Steps[2].Hit)
	assert.Empty(t, r.Steps[2].Evicted)
	assert.Equal(t, Stats{Hits: 1, Misses: 1, HitRatio: 0.5}, r.Stats)
}

// ARC ghost hits count as misses and never as evictions.
func TestRun_ARCGhostHitIsMiss(t *testing.T) {
	r := runOne(t, policy.ARC, 1, "PUT a 1\nPUT b 2\nGET a")
	last := lastStep(r)
	assert.False(t, last.Hit)
	assert.Empty(t, last.Evicted)
	require.NotNil(t, last.Meta.ARC)
	assert.Equal(t, "b", last.Meta.ARC.Displaced)
	assert.Equal(t, 1, last.Meta.ARC.P)
	assert.Equal(t, Stats{Hits: 0, Misses: 1, Evictions: 1}, r.Stats)
}

func TestRun_HitRatioZeroWithoutGets(t *testing.T) {
	r := runOne(t, policy.FIFO, 1, "PUT a 1\nPUT b 2")
	assert.Equal(t, 0.0, r.Stats.HitRatio)
	assert.Equal(t, 1, r.Stats.Evictions)
}

func TestRun_InvalidCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		results, err := Run(Request{Capacity: c, Policies: []string{"LRU"}, TraceText: "GET a"}, Options{})
		assert.ErrorIs(t, err, ErrInvalidCapacity)
		assert.Nil(t, results)
	}
}

func TestRun_NoOperations(t *testing.T) {
	results, err := Run(Request{Capacity: 2, Policies: []string{"LRU"}, TraceText: "\n\nhello\n"}, Options{})
	assert.ErrorIs(t, err, trace.ErrNoOperations)
	assert.Nil(t, results)

	_, err = Replay(Request{Capacity: 2, Policies: []string{"LRU"}}, nil, Options{})
	assert.ErrorIs(t, err, trace.ErrNoOperations)
}

// Unknown names are skipped, duplicates collapse, order is preserved.
func TestRun_PolicySelection(t *testing.T) {
	results, err := Run(Request{
		Capacity:  2,
		Policies:  []string{"ARC", "bogus", "lru", "ARC", "FIFO"},
		TraceText: "PUT a 1",
	}, Options{})
	require.NoError(t, err)

	var got []policy.Name
	for _, r := range results {
		got = append(got, r.Policy)
		assert.Equal(t, 2, r.Capacity)
	}
	assert.Equal(t, []policy.Name{policy.ARC, policy.LRU, policy.FIFO}, got)
}

func TestRun_OnlyUnknownPolicies(t *testing.T) {
	results, err := Run(Request{Capacity: 2, Policies: []string{"MRU"}, TraceText: "PUT a 1"}, Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRun_SampledRecording(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		nOps    int
		indices []int
	}{
		{"non-animated every 2, odd count", Request{SnapshotEvery: 2}, 5, []int{0, 2, 4}},
		{"non-animated every 2, even count", Request{SnapshotEvery: 2}, 4, []int{0, 2, 3}},
		{"non-animated zero keeps all", Request{SnapshotEvery: 0}, 3, []int{0, 1, 2}},
		{"animated keeps all", Request{Animate: true, SnapshotEvery: 2}, 3, []int{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			for i := 0; i < tt.nOps; i++ {
				fmt.Fprintf(&b, "GET k%d\n", i)
			}
			tt.req.Capacity = 1
			tt.req.Policies = []string{"LRU"}
			tt.req.TraceText = b.String()

			results, err := Run(tt.req, Options{})
			require.NoError(t, err)

			var got []int
			for _, s := range results[0].Steps {
				got = append(got, s.Index)
			}
			assert.Equal(t, tt.indices, got)
			assert.Equal(t, tt.nOps, results[0].Stats.Misses, "stats must cover every operation")
		})
	}
}

func TestRequest_SampleEveryAnimatedGuardrail(t *testing.T) {
	r := Request{Animate: true, SnapshotEvery: 100}
	assert.Equal(t, 1, r.sampleEvery(MaxAnimatedOps))
	assert.Equal(t, 100, r.sampleEvery(MaxAnimatedOps+1))

	r.SnapshotEvery = 0
	assert.Equal(t, 1, r.sampleEvery(MaxAnimatedOps+1))
}

// randomTrace builds a reproducible mixed trace over a small key space.
func randomTrace(seed int64, n, keys int) string {
	rng := rand.New(rand.NewSource(seed))
	var b strings.Builder
	for i := 0; i < n; i++ {
		k := rng.Intn(keys)
		if rng.Intn(2) == 0 {
			fmt.Fprintf(&b, "GET k%d\n", k)
		} else {
			fmt.Fprintf(&b, "PUT k%d v%d\n", k, i)
		}
	}
	return b.String()
}

// For every policy and capacity the snapshot never exceeds capacity, an
// eviction happens exactly when a PUT adds a new key at capacity, and ARC
// keeps p within [0, capacity].
func TestRun_Invariants(t *testing.T) {
	all := []string{"LRU", "FIFO", "LFU", "ARC"}
	for _, bound := range []bool{false, true} {
		for capacity := 1; capacity <= 6; capacity++ {
			for seed := int64(1); seed <= 5; seed++ {
				req := Request{
					Capacity:  capacity,
					Policies:  all,
					TraceText: randomTrace(seed, 400, 12),
					ARC:       ARCConfig{BoundGhosts: bound},
				}
				results, err := Run(req, Options{})
				require.NoError(t, err)
				require.Len(t, results, len(all))

				for _, r := range results {
					prev := map[string]bool{}
					for _, s := range r.Steps {
						require.LessOrEqual(t, len(s.Cache), capacity, "%s cap=%d step=%d", r.Policy, capacity, s.Index)
						if s.Evicted != "" {
							require.Equal(t, trace.Put, s.Op)
							require.False(t, prev[s.Key], "update of resident key must not evict")
							require.Len(t, prev, capacity, "eviction only at capacity")
						}
						if s.Op == trace.Put && !prev[s.Key] && len(prev) == capacity {
							require.NotEmpty(t, s.Evicted, "%s step %d: new key at capacity must evict", r.Policy, s.Index)
						}
						if s.Op == trace.Get {
							require.Equal(t, prev[s.Key], s.Hit, "%s step %d", r.Policy, s.Index)
						}
						if r.Policy == policy.ARC {
							require.NotNil(t, s.Meta.ARC)
							require.GreaterOrEqual(t, s.Meta.ARC.P, 0)
							require.LessOrEqual(t, s.Meta.ARC.P, capacity)
							if bound {
								require.LessOrEqual(t, len(s.Meta.ARC.T1)+len(s.Meta.ARC.B1), capacity)
								require.LessOrEqual(t, len(s.Meta.ARC.T2)+len(s.Meta.ARC.B2), 2*capacity)
							}
						}
						prev = map[string]bool{}
						for _, e := range s.Cache {
							prev[e.Key] = true
						}
					}
				}
			}
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	req := Request{
		Capacity:  4,
		Policies:  []string{"LRU", "FIFO", "LFU", "ARC"},
		TraceText: randomTrace(42, 300, 10),
	}
	a, err := Run(req, Options{})
	require.NoError(t, err)
	b, err := Run(req, Options{Parallelism: 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

type countingMetrics struct {
	mu sync.Mutex

	hits, misses, evicts map[policy.Name]int
	lastSize             map[policy.Name]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		hits:     map[policy.Name]int{},
		misses:   map[policy.Name]int{},
		evicts:   map[policy.Name]int{},
		lastSize: map[policy.Name]int{},
	}
}

func (m *countingMetrics) Hit(p policy.Name)   { m.mu.Lock(); m.hits[p]++; m.mu.Unlock() }
func (m *countingMetrics) Miss(p policy.Name)  { m.mu.Lock(); m.misses[p]++; m.mu.Unlock() }
func (m *countingMetrics) Evict(p policy.Name) { m.mu.Lock(); m.evicts[p]++; m.mu.Unlock() }
func (m *countingMetrics) Size(p policy.Name, n int) {
	m.mu.Lock()
	m.lastSize[p] = n
	m.mu.Unlock()
}

func TestRun_MetricsMatchStats(t *testing.T) {
	m := newCountingMetrics()
	results, err := Run(Request{
		Capacity:  3,
		Policies:  []string{"LRU", "LFU"},
		TraceText: randomTrace(3, 200, 8),
	}, Options{Metrics: m})
	require.NoError(t, err)

	for _, r := range results {
		assert.Equal(t, r.Stats.Hits, m.hits[r.Policy])
		assert.Equal(t, r.Stats.Misses, m.misses[r.Policy])
		assert.Equal(t, r.Stats.Evictions, m.evicts[r.Policy])
		assert.Equal(t, len(lastStep(r).Cache), m.lastSize[r.Policy])
	}
}

func TestNewResponse(t *testing.T) {
	ok := NewResponse(nil, nil)
	assert.NotEmpty(t, ok.RunID)
	assert.NotNil(t, ok.Results)
	assert.Empty(t, ok.Error)

	failed := NewResponse(nil, fmt.Errorf("parsing trace: %w", trace.ErrNoOperations))
	assert.NotEmpty(t, failed.RunID)
	assert.Nil(t, failed.Results)
	assert.Contains(t, failed.Error, "no operations parsed")
	assert.NotEqual(t, ok.RunID, failed.RunID)
}
