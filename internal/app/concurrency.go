package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Settled is the outcome of one concurrently run call.
type Settled[T any] struct {
	Value T
	Err   error
}

// Settle2 runs both functions concurrently and waits for both. Unlike an
// errgroup with context, a failure in one does not cancel the other.
func Settle2[T1, T2 any](
	ctx context.Context,
	fn1 func(context.Context) (T1, error),
	fn2 func(context.Context) (T2, error),
) (Settled[T1], Settled[T2]) {
	var (
		g  errgroup.Group
		r1 Settled[T1]
		r2 Settled[T2]
	)

	g.Go(func() error {
		r1.Value, r1.Err = fn1(ctx)
		return nil
	})

	g.Go(func() error {
		r2.Value, r2.Err = fn2(ctx)
		return nil
	})

	_ = g.Wait()

	return r1, r2
}
