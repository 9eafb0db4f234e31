package tui

import (
	"time"

	"github.com/agbru/nearmiss/internal/orchestration"
	"github.com/agbru/nearmiss/internal/search"
)

// Messages exchanged between the bridge goroutines and the bubbletea model.

// TickMsg drives the periodic refresh of the elapsed timer and system stats.
type TickMsg time.Time

// ProgressMsg carries a progress update from the running search.
type ProgressMsg struct {
	Checked  uint64
	Total    uint64
	Fraction float64
	ETA      time.Duration
}

// ImprovementMsg carries a new best result from the running search.
type ImprovementMsg struct {
	Best    search.BestResult
	Checked uint64
	Total   uint64
}

// ProgressDoneMsg signals that the event channels have been drained.
type ProgressDoneMsg struct{}

// FinalResultMsg carries the completed search result.
type FinalResultMsg struct {
	Result  orchestration.SearchResult
	Verbose bool
}

// ErrorMsg carries a search failure.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// SearchCompleteMsg signals the end of the whole search pipeline.
// Generation guards against stale messages after a restart.
type SearchCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg signals that the session context ended.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg carries a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}
