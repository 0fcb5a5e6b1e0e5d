// Package sim replays a cache trace against one or more eviction policies
// and records, per policy, the step-by-step outcome and aggregate stats.
//
// # Flow
//
// Run validates the Request, parses its trace once, then replays every
// operation against a fresh policy instance for each requested policy:
//
//	results, err := sim.Run(sim.Request{
//	    Capacity:  3,
//	    Policies:  []string{"LRU", "ARC"},
//	    TraceText: "PUT A 1\nGET A\n",
//	}, sim.Options{})
//	if errors.Is(err, trace.ErrNoOperations) {
//	    // nothing to replay
//	}
//
// Results always come back as a slice in request order, one per distinct
// known policy. Unknown policy names are skipped.
//
// # Concurrency
//
// Each replay owns its policy instance, so replays run in parallel
// (errgroup). A single replay is sequential and deterministic.
//
// # Recording
//
// Every operation updates Stats. Steps are kept for every operation unless
// the request is non-animated with SnapshotEvery > 0, in which case every
// SnapshotEvery-th step and the final step are kept. Animated requests over
// MaxAnimatedOps operations fall back to that sampled mode.
package sim
