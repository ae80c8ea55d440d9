package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run executes every task in its own goroutine and waits for all of
// them. The shared context is cancelled as soon as any task returns a
// non-nil error, and the first error encountered is returned.
func Run(ctx context.Context, tasks ...func(context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			return task(ctx)
		})
	}
	return g.Wait()
}
