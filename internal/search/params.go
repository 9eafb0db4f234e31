package search

import apperrors "github.com/agbru/nearmiss/internal/errors"

// Search domain constants. The lower bound of 10 for x and y and the
// exponent range [3, 11] come from the problem statement: exponents below 3
// have exact solutions and exponents above 11 produce sums too sparse to
// yield interesting near misses in reasonable ranges.
const (
	// MinXY is the inclusive lower bound for both x and y.
	MinXY = 10
	// MinN is the smallest accepted exponent.
	MinN = 3
	// MaxN is the largest accepted exponent.
	MaxN = 11
	// MinK is the smallest upper bound accepted by Validate. The core
	// search itself also works for k == MinXY (a single-combination grid);
	// only parameter validation rejects it.
	MinK = MinXY + 1

	// DefaultProgressInterval is the default number of combinations between
	// progress events, matching the reference reporting cadence.
	DefaultProgressInterval = 10_000
)

// Params holds the immutable parameters of a search run.
type Params struct {
	// N is the exponent, in [MinN, MaxN].
	N int
	// K is the inclusive upper bound for x and y, greater than MinXY.
	K int
}

// Validate checks that the parameters are inside the supported domain.
// It returns a ValidationError naming the offending field.
func (p Params) Validate() error {
	if p.N < MinN || p.N > MaxN {
		return apperrors.ValidationError{
			Field:   "n",
			Message: "exponent must be between 3 and 11 inclusive",
		}
	}
	if p.K < MinK {
		return apperrors.ValidationError{
			Field:   "k",
			Message: "upper bound must be greater than 10",
		}
	}
	return nil
}

// GridSpan returns the number of values each of x and y ranges over.
func (p Params) GridSpan() int {
	if p.K < MinXY {
		return 0
	}
	return p.K - MinXY + 1
}

// TotalCombinations returns the exact size of the search grid, (k-9)^2 for
// valid parameters. Both (x, y) and (y, x) are counted; the enumeration does
// not deduplicate by symmetry.
func (p Params) TotalCombinations() uint64 {
	span := uint64(p.GridSpan())
	return span * span
}
