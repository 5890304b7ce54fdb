// Package bgworker runs batches of independent jobs on a bounded worker pool.
package bgworker

import (
	"context"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/propsort/envutil"
	"github.com/amp-labs/propsort/logger"
)

const defaultWorkerCount = 10

// EnvWorkerCount names the variable holding the default pool size.
const EnvWorkerCount = "BACKGROUND_WORKER_COUNT"

// Result is the outcome of a single job. Results are reported in input order.
type Result[R any] struct {
	Value R
	Err   error
}

// WorkerCount returns n if it is positive, otherwise the value of
// BACKGROUND_WORKER_COUNT, otherwise a default of 10. A malformed or
// non-positive variable is logged and ignored.
func WorkerCount(ctx context.Context, n int) int {
	if n > 0 {
		return n
	}

	return envutil.Int[int](ctx, EnvWorkerCount,
		envutil.Positive[int](),
		envutil.Default(defaultWorkerCount)).ValueOrElse(defaultWorkerCount)
}

// Map applies fn to every item using at most workers goroutines and waits for
// all of them. A job whose context is already done when it is scheduled is
// not run; its result carries the context error instead.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}

	count := min(WorkerCount(ctx, workers), len(items))

	logger.Get(ctx).Debug("starting worker pool", "workers", count, "jobs", len(items))

	pool := pond.NewPool(count)
	defer pool.StopAndWait()

	group := pool.NewGroup()

	for i, item := range items {
		group.Submit(func() {
			if err := ctx.Err(); err != nil {
				results[i].Err = err

				return
			}

			results[i].Value, results[i].Err = fn(ctx, item)
		})
	}

	if err := group.Wait(); err != nil {
		logger.Get(ctx).Warn("worker pool group failed", "error", err)
	}

	return results
}
