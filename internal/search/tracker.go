package search

import (
	"errors"
	"math/big"
)

// ErrNoResult is returned by Tracker.Best when no candidate has ever been
// considered. With valid parameters the grid is never empty, so seeing this
// error indicates a caller bug rather than a search outcome.
var ErrNoResult = errors.New("search: no candidate has been considered")

// BestResult is the best near miss found so far. It is a snapshot: the
// big.Int fields are owned by the result and never mutated afterwards.
type BestResult struct {
	// X, Y and N identify the winning combination.
	X, Y, N int
	// Z is the closest bracketing root, i.e. the z whose n-th power the
	// miss is measured against. It may be either side of the bracket.
	Z int64
	// Sum is the exact value of x^n + y^n.
	Sum *big.Int
	// ComparedPower is Z^n.
	ComparedPower *big.Int
	// AbsoluteMiss is the integer distance between Sum and ComparedPower.
	AbsoluteMiss *big.Int
	// RelativeMiss is AbsoluteMiss / Sum for reporting.
	RelativeMiss float64
	// Side records which bracket Z belongs to.
	Side Side
}

// Tracker holds the single best result of a search in progress.
//
// It is a two-state machine: empty until the first Consider call, holding a
// result from then on. A held result is replaced only by a strictly smaller
// relative miss, so on exact ties the first candidate seen wins. Relative
// misses are compared exactly (integer cross-multiplication), never through
// their float64 projections.
//
// A Tracker is not safe for concurrent use; the parallel searcher gives each
// worker its own and merges afterwards.
type Tracker struct {
	best *BestResult
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Consider offers a candidate to the tracker. It returns true when the
// candidate becomes the new best: always for the first candidate, and
// afterwards only when its relative miss is strictly smaller than the held
// one.
func (t *Tracker) Consider(r BracketResult) bool {
	if t.best != nil && !lessRelative(r.AbsoluteMiss, r.Sum, t.best.AbsoluteMiss, t.best.Sum) {
		return false
	}
	best := BestResult{
		X:             r.X,
		Y:             r.Y,
		N:             r.N,
		Z:             r.ClosestZ,
		Sum:           r.Sum,
		ComparedPower: r.ComparedPower,
		AbsoluteMiss:  r.AbsoluteMiss,
		RelativeMiss:  r.RelativeMiss,
		Side:          r.Side,
	}
	t.best = &best
	return true
}

// HasResult reports whether at least one candidate has been considered.
func (t *Tracker) HasResult() bool {
	return t.best != nil
}

// Best returns the current best result, or ErrNoResult while the tracker is
// still empty.
func (t *Tracker) Best() (BestResult, error) {
	if t.best == nil {
		return BestResult{}, ErrNoResult
	}
	return *t.best, nil
}

// mergeBest folds a held best into an accumulated one using the same strict
// less-than policy as Consider. Callers must fold in enumeration order so
// that first-seen-wins ties match the sequential tracker exactly.
func mergeBest(acc *BestResult, candidate BestResult) BestResult {
	if acc == nil {
		return candidate
	}
	if lessRelative(candidate.AbsoluteMiss, candidate.Sum, acc.AbsoluteMiss, acc.Sum) {
		return candidate
	}
	return *acc
}
