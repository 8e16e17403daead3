package decoder

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/flitsinc/jsonstream/token"
	"github.com/flitsinc/jsonstream/value"
)

// RunMany decodes several independent sources concurrently, one goroutine
// per source, and invokes onValue every time any of them makes progress.
// Each individual stream is still decoded single-threaded internally, in
// keeping with the pull-based model's single-consumer assumption; RunMany
// only parallelizes across streams, never within one. The first source to
// fail cancels the rest via ctx, and that error is returned.
func RunMany(ctx context.Context, sources []token.CharSource, onValue func(index int, v value.Value), opts ...Option) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			dec := New(source, opts...)
			for {
				val, err := dec.Next(ctx)
				if err != nil {
					return err
				}
				onValue(i, val)
				if dec.Finished() {
					return nil
				}
			}
		})
	}
	return g.Wait()
}
