// Package sweep fans a batch of simulations out over a bounded worker
// pool, one independent run per seed.
package sweep

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/btursunbayev/blocksim/mining"
)

// RunFunc builds and executes one simulation for a seed. It must not
// share mutable state with other invocations.
type RunFunc func(ctx context.Context, seed int64) (*mining.Result, error)

// Runner executes seed batches.
type Runner struct {
	log   *zap.Logger
	limit int
	run   RunFunc
}

// Opt configures a Runner.
type Opt func(*Runner)

func WithLogger(log *zap.Logger) Opt {
	return func(r *Runner) {
		r.log = log
	}
}

// WithParallelism bounds the number of concurrently executing runs.
func WithParallelism(n int) Opt {
	return func(r *Runner) {
		r.limit = n
	}
}

// New returns a Runner executing run for every seed, at most
// GOMAXPROCS runs at a time unless overridden.
func New(run RunFunc, opts ...Opt) *Runner {
	r := &Runner{
		log:   zap.NewNop(),
		limit: runtime.GOMAXPROCS(0),
		run:   run,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one simulation per seed and returns results in seed
// order. The first failure cancels the runs still in flight.
func (r *Runner) Run(ctx context.Context, seeds []int64) ([]*mining.Result, error) {
	results := make([]*mining.Result, len(seeds))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.limit)
	for i, seed := range seeds {
		i, seed := i, seed
		eg.Go(func() error {
			res, err := r.run(ctx, seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			r.log.Debug("run finished",
				zap.Int64("seed", seed),
				zap.Int("blocks", res.Metrics.Blocks),
				zap.Float64("time", res.Metrics.SimulatedTime),
			)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	r.log.Info("sweep finished", zap.Int("runs", len(seeds)))
	return results, nil
}

// Seeds derives n consecutive seeds starting at base.
func Seeds(base int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = base + int64(i)
	}
	return out
}
