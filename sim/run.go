package sim

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/cachesim/trace"
)

// Options configures how replays are executed. Zero values are safe:
//   - nil Metrics    => NoopMetrics
//   - Parallelism<=0 => GOMAXPROCS
type Options struct {
	Metrics     Metrics
	Parallelism int
}

// Run validates req, parses its trace and replays it against every
// requested policy. A capacity below 1 yields ErrInvalidCapacity and an
// empty or unparseable trace yields trace.ErrNoOperations; in both cases no
// replay is started.
func Run(req Request, opt Options) ([]Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ops, err := trace.Parse(req.TraceText)
	if err != nil {
		return nil, fmt.Errorf("parsing trace: %w", err)
	}
	return Replay(req, ops, opt)
}

// Replay runs already parsed operations; req.TraceText is ignored.
// Results are returned in request order.
func Replay(req Request, ops []trace.Operation, opt Options) ([]Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, trace.ErrNoOperations
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Parallelism <= 0 {
		opt.Parallelism = runtime.GOMAXPROCS(0)
	}

	names, skipped := req.PolicyNames()
	for _, s := range skipped {
		logrus.WithField("policy", s).Debug("skipping unknown policy")
	}

	every := req.sampleEvery(len(ops))
	if every > 1 && req.Animate {
		logrus.Warnf("trace has %d operations (> %d); recording every %d steps", len(ops), MaxAnimatedOps, every)
	}

	results := make([]Result, len(names))
	var g errgroup.Group
	g.SetLimit(opt.Parallelism)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			results[i] = replay(newPolicy(name, req.Capacity, req.ARC), ops, every, opt.Metrics)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
