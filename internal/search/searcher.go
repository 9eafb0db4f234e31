package search

import (
	"context"

	apperrors "github.com/agbru/nearmiss/internal/errors"
)

// Observer receives events from a running search. Implementations used with
// the parallel searcher must be safe for concurrent use; the sequential
// searcher calls them from a single goroutine.
type Observer interface {
	// OnImprovement is called each time the tracker accepts a new best.
	OnImprovement(best BestResult, checked, total uint64)
	// OnProgress is called at the configured cadence and once at the end of
	// the enumeration, with the number of combinations checked so far.
	OnProgress(checked, total uint64)
}

// NoOpObserver discards all events.
type NoOpObserver struct{}

// OnImprovement discards the event.
func (NoOpObserver) OnImprovement(BestResult, uint64, uint64) {}

// OnProgress discards the event.
func (NoOpObserver) OnProgress(uint64, uint64) {}

// Searcher enumerates the full (x, y) grid for a fixed set of parameters.
// The enumeration is deterministic: x ascending, then y ascending, no early
// exit and no sampling.
type Searcher struct {
	params        Params
	progressEvery uint64
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithProgressInterval sets the number of combinations between progress
// events. Values below 1 fall back to the default.
func WithProgressInterval(every uint64) Option {
	return func(s *Searcher) {
		if every >= 1 {
			s.progressEvery = every
		}
	}
}

// NewSearcher creates a searcher for the given parameters. The parameters
// are assumed valid; callers run Params.Validate beforehand.
func NewSearcher(params Params, opts ...Option) *Searcher {
	s := &Searcher{
		params:        params,
		progressEvery: DefaultProgressInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Params returns the searcher's parameters.
func (s *Searcher) Params() Params {
	return s.params
}

// Run executes the full sequential search and returns the best result along
// with the number of combinations checked.
//
// Cancellation is cooperative and checked between combinations only, keeping
// each evaluation atomic. On cancellation Run returns the context error
// wrapped in a SearchError, with the combinations checked so far.
func (s *Searcher) Run(ctx context.Context, obs Observer) (BestResult, uint64, error) {
	if obs == nil {
		obs = NoOpObserver{}
	}

	tracker := NewTracker()
	total := s.params.TotalCombinations()
	var checked uint64

	for x := MinXY; x <= s.params.K; x++ {
		for y := MinXY; y <= s.params.K; y++ {
			if err := ctx.Err(); err != nil {
				return BestResult{}, checked, apperrors.SearchError{Cause: err}
			}

			res := Evaluate(x, y, s.params.N)
			checked++

			if tracker.Consider(res) {
				best, _ := tracker.Best()
				obs.OnImprovement(best, checked, total)
			}
			if checked%s.progressEvery == 0 || checked == total {
				obs.OnProgress(checked, total)
			}
		}
	}

	best, err := tracker.Best()
	if err != nil {
		// Only reachable with a zero-size grid (k < 10).
		return BestResult{}, checked, apperrors.SearchError{Cause: err}
	}
	return best, checked, nil
}
