// Package workerpool runs bounded concurrent work over a slice of items.
package workerpool

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Map calls fn for every item with at most workerCount calls in flight and returns the
// results in item order. The first error cancels the remaining calls and is returned.
func Map[T, R any](
	ctx context.Context,
	workerCount int,
	items []T,
	fn func(context.Context, T) (R, error),
) ([]R, error) {
	if workerCount < 1 {
		return nil, errors.New("worker count must be positive")
	}

	results := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
