// Package search implements the core near-miss search for Fermat's Last
// Theorem: an exhaustive scan over pairs (x, y) in [10, k] that, for a fixed
// exponent n, finds the sum x^n + y^n lying closest in relative terms to a
// perfect n-th power z^n.
//
// The package is split into three collaborators:
//
//   - [Evaluate] is the bracketing evaluator. It computes x^n + y^n with
//     exact big.Int arithmetic and finds the consecutive integers z, z+1
//     whose n-th powers bracket the sum.
//   - [Tracker] holds the best (smallest relative miss) result seen so far.
//   - [Searcher] drives the enumeration, feeding every evaluation to the
//     tracker and emitting improvement and progress events to an [Observer].
//
// All arithmetic that decides brackets and rankings is exact: floating-point
// values appear only as root seeds and in reported relative misses, never in
// comparisons that affect the outcome.
package search
