package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"grimdelve/internal/dice"
)

// RunBatch runs n independent simulations concurrently. A non-zero base
// seed makes run i use base+i; zero draws a fresh seed per run.
func (s *Simulator) RunBatch(ctx context.Context, n int, base int64) ([]Result, error) {
	results := make([]Result, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < n; i++ {
		seed := base + int64(i)
		if base == 0 {
			seed = dice.NewSeed()
		}
		i := i
		g.Go(func() error {
			res, err := s.Run(ctx, seed)
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
	return results, nil
}
