// Package batch runs work over items in fixed-size concurrent chunks.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Worker processes a single item
type Worker[T, R any] func(ctx context.Context, item T) (R, error)

// Outcome is the result of one item in an isolated run
type Outcome[R any] struct {
	Value R
	Err   error
}

// Run processes items in consecutive chunks of limit. Items of a chunk run
// concurrently and the whole chunk finishes before the next one starts.
// Results keep the input order. If any item of a chunk fails, Run returns
// the first failure once that chunk is done and no further chunk starts.
func Run[T, R any](ctx context.Context, items []T, limit int, worker Worker[T, R]) ([]R, error) {
	results := make([]R, len(items))

	err := chunks(ctx, len(items), limit, func(start, end int) error {
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				value, err := worker(ctx, items[i])
				if err != nil {
					return err
				}
				results[i] = value
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// RunIsolated processes items with the same chunking as Run, but a failing
// item never affects the others. Each outcome carries its own error.
func RunIsolated[T, R any](ctx context.Context, items []T, limit int, worker Worker[T, R]) []Outcome[R] {
	outcomes := make([]Outcome[R], len(items))
	ran := make([]bool, len(items))

	_ = chunks(ctx, len(items), limit, func(start, end int) error {
		var g errgroup.Group
		for i := start; i < end; i++ {
			ran[i] = true
			g.Go(func() error {
				value, err := worker(ctx, items[i])
				outcomes[i] = Outcome[R]{Value: value, Err: err}
				return nil
			})
		}
		return g.Wait()
	})

	// Chunks skipped after cancellation report the context error
	for i := range outcomes {
		if !ran[i] {
			outcomes[i].Err = ctx.Err()
		}
	}
	return outcomes
}

// chunks calls run for each [start, end) window of size limit, stopping at
// the first error or when ctx is done between chunks.
func chunks(ctx context.Context, n, limit int, run func(start, end int) error) error {
	if limit < 1 {
		limit = 1
	}
	for start := 0; start < n; start += limit {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+limit, n)
		if err := run(start, end); err != nil {
			return err
		}
	}
	return nil
}
