package search

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/nearmiss/internal/errors"
)

// RunParallel executes the search with the x-range partitioned into
// contiguous chunks across the given number of workers. Each worker runs the
// same evaluator against a local tracker; the local bests are merged in
// ascending x order with the same strict less-than policy as the sequential
// tracker, so the returned result is identical to Run for any worker count.
//
// Improvement events report worker-local bests and may interleave across
// workers in nondeterministic order; progress events share one global
// counter. Observers must be safe for concurrent use.
func (s *Searcher) RunParallel(ctx context.Context, workers int, obs Observer) (BestResult, uint64, error) {
	span := s.params.GridSpan()
	if workers < 1 {
		workers = 1
	}
	if workers > span {
		workers = span
	}
	if workers <= 1 {
		return s.Run(ctx, obs)
	}
	if obs == nil {
		obs = NoOpObserver{}
	}

	total := s.params.TotalCombinations()
	var checked atomic.Uint64
	trackers := make([]*Tracker, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		tracker := NewTracker()
		trackers[w] = tracker
		xFrom, xTo := chunkBounds(span, workers, w)

		g.Go(func() error {
			for x := MinXY + xFrom; x < MinXY+xTo; x++ {
				for y := MinXY; y <= s.params.K; y++ {
					if err := ctx.Err(); err != nil {
						return err
					}

					res := Evaluate(x, y, s.params.N)
					n := checked.Add(1)

					if tracker.Consider(res) {
						best, _ := tracker.Best()
						obs.OnImprovement(best, n, total)
					}
					if n%s.progressEvery == 0 || n == total {
						obs.OnProgress(n, total)
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return BestResult{}, checked.Load(), apperrors.SearchError{Cause: err}
	}

	// Merge in ascending x order: the fold order reproduces the sequential
	// enumeration order, which is what makes first-seen-wins ties exact.
	var merged *BestResult
	for _, tracker := range trackers {
		local, err := tracker.Best()
		if err != nil {
			continue
		}
		m := mergeBest(merged, local)
		merged = &m
	}
	if merged == nil {
		return BestResult{}, checked.Load(), apperrors.SearchError{Cause: ErrNoResult}
	}
	return *merged, checked.Load(), nil
}

// chunkBounds returns the half-open [from, to) offsets of worker w's slice
// of a span split as evenly as possible across workers.
func chunkBounds(span, workers, w int) (int, int) {
	base := span / workers
	rem := span % workers
	from := w*base + min(w, rem)
	to := from + base
	if w < rem {
		to++
	}
	return from, to
}
