package config

import "runtime"

// Worker count resolution chain (highest priority first):
//  1. CLI flag (--workers)
//  2. Environment variable (NEARMISS_WORKERS)
//  3. Adaptive hardware estimation (this file)

// ApplyAdaptiveWorkers fills in the worker count from the hardware when the
// configuration left it at its zero default, preserving any user-specified
// override. The grid span bounds the useful worker count, so callers pass
// the span of the configured search.
func ApplyAdaptiveWorkers(cfg AppConfig, gridSpan int) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateOptimalWorkers(gridSpan)
	}
	return cfg
}

// EstimateOptimalWorkers provides a heuristic worker count without running
// benchmarks. Each worker takes a contiguous chunk of x values, so more
// workers than x values is pure overhead; beyond that the evaluation is
// CPU-bound and one worker per core is the sweet spot.
func EstimateOptimalWorkers(gridSpan int) int {
	numCPU := runtime.NumCPU()
	if gridSpan < 1 {
		return 1
	}
	if numCPU > gridSpan {
		return gridSpan
	}
	return numCPU
}
