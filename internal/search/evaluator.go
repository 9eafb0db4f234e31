package search

import (
	"math"
	"math/big"
)

// Side identifies which of the two bracketing powers a sum is closer to.
// Making the choice an explicit tag (rather than a sign convention) keeps the
// tie-break policy auditable: equal distances always land on SideLower.
type Side int

const (
	// SideLower means the sum is at or nearer the lower bracket z^n.
	SideLower Side = iota
	// SideUpper means the sum is strictly nearer the upper bracket (z+1)^n.
	SideUpper
)

// String returns a short human-readable name for the side.
func (s Side) String() string {
	if s == SideUpper {
		return "upper"
	}
	return "lower"
}

// BracketResult is the outcome of evaluating a single (x, y) pair: the exact
// sum x^n + y^n, the floor root z with z^n <= sum < (z+1)^n, and the miss
// against the nearer of the two bracketing powers.
type BracketResult struct {
	// X, Y and N identify the evaluated combination.
	X, Y, N int

	// Sum is the exact value of x^n + y^n. Always positive for valid input.
	Sum *big.Int
	// Z is the floor root: Z^n <= Sum < (Z+1)^n.
	Z int64
	// ClosestZ is whichever of Z or Z+1 has the n-th power nearest to Sum.
	ClosestZ int64
	// ComparedPower is ClosestZ^n, the power the miss is measured against.
	ComparedPower *big.Int
	// AbsoluteMiss is min(Sum - Z^n, (Z+1)^n - Sum), always >= 0.
	AbsoluteMiss *big.Int
	// RelativeMiss is AbsoluteMiss / Sum as a float64. It is derived for
	// reporting; exact ranking uses AbsoluteMiss and Sum directly.
	RelativeMiss float64
	// Side records which bracket ClosestZ belongs to.
	Side Side
}

// Evaluate computes the bracket result for a single combination.
//
// Preconditions (enforced by callers, not re-checked here): x, y >= MinXY
// and MinN <= n <= MaxN. The function is pure and safe for concurrent use.
//
// The sum and both bracketing powers are computed with exact big.Int
// arithmetic; a floating-point n-th root serves only as a starting guess for
// the bracket and is refined with exact comparisons, because float64 roots
// lose precision well before the sums of 11th powers reach their usual size.
func Evaluate(x, y, n int) BracketResult {
	exp := big.NewInt(int64(n))
	sum := new(big.Int).Exp(big.NewInt(int64(x)), exp, nil)
	sum.Add(sum, new(big.Int).Exp(big.NewInt(int64(y)), exp, nil))

	z := nthRootFloor(sum, n)
	lowPow := intPow(z, n)
	highPow := intPow(z+1, n)

	lowMiss := new(big.Int).Sub(sum, lowPow)
	highMiss := new(big.Int).Sub(highPow, sum)

	res := BracketResult{
		X:   x,
		Y:   y,
		N:   n,
		Sum: sum,
		Z:   z,
	}

	// Ties favor the lower bracket.
	if lowMiss.Cmp(highMiss) <= 0 {
		res.Side = SideLower
		res.ClosestZ = z
		res.ComparedPower = lowPow
		res.AbsoluteMiss = lowMiss
	} else {
		res.Side = SideUpper
		res.ClosestZ = z + 1
		res.ComparedPower = highPow
		res.AbsoluteMiss = highMiss
	}
	res.RelativeMiss = relativeMiss(res.AbsoluteMiss, sum)

	return res
}

// nthRootFloor returns the largest z with z^n <= sum, for sum >= 1.
//
// A float64 estimate seeds the answer; the adjustment loops below make the
// bracket exact. The loops run a handful of iterations in practice since the
// seed is within a few units of the true root.
func nthRootFloor(sum *big.Int, n int) int64 {
	f, _ := new(big.Float).SetInt(sum).Float64()

	var z int64
	if math.IsInf(f, 1) {
		// Sum exceeds the float64 range: seed from the bit length instead.
		z = int64(1) << ((uint(sum.BitLen()) + uint(n) - 1) / uint(n))
	} else {
		z = int64(math.Round(math.Pow(f, 1/float64(n))))
	}
	if z < 1 {
		z = 1
	}

	for z > 1 && intPow(z, n).Cmp(sum) > 0 {
		z--
	}
	for intPow(z+1, n).Cmp(sum) <= 0 {
		z++
	}
	return z
}

// intPow returns base^n as a big.Int.
func intPow(base int64, n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(base), big.NewInt(int64(n)), nil)
}

// relativeMiss returns miss/sum as a float64 for reporting.
func relativeMiss(miss, sum *big.Int) float64 {
	q := new(big.Float).Quo(new(big.Float).SetInt(miss), new(big.Float).SetInt(sum))
	f, _ := q.Float64()
	return f
}

// lessRelative reports whether missA/sumA < missB/sumB, compared exactly by
// cross-multiplication. Ranking through float64 division would make the
// strict-improvement and first-seen-wins tie policies depend on rounding.
func lessRelative(missA, sumA, missB, sumB *big.Int) bool {
	left := new(big.Int).Mul(missA, sumB)
	right := new(big.Int).Mul(missB, sumA)
	return left.Cmp(right) < 0
}
