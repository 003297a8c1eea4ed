package ingest

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// runBounded runs fn once per item, across a worker pool bounded at
// concurrency, checking ctx for cancellation between files per spec.md §5
// ("a cancel signal is checked at the boundary of each file"). The
// teacher's processor.go hand-rolls goroutines over a raw channel and
// WaitGroup for this shape; errgroup.SetLimit is the idiomatic ecosystem
// replacement.
func runBounded[T any](ctx context.Context, concurrency int, items []T, fn func(ctx context.Context, item T) error) error {
	if concurrency <= 0 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, item := range items {
		item := item
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return fn(gctx, item)
		})
	}
	return g.Wait()
}
