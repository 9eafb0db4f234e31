package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/nearmiss/internal/progress"
	"github.com/agbru/nearmiss/internal/search"
)

// SearchResult encapsulates the outcome of a full search run. It is the
// shared domain type between orchestration and presentation layers.
type SearchResult struct {
	// Params are the parameters the search ran with.
	Params search.Params
	// Best is the best near miss found. Only meaningful when Err is nil.
	Best search.BestResult
	// Checked is the number of combinations evaluated, including partial
	// runs that were interrupted.
	Checked uint64
	// Duration is the wall-clock time of the enumeration, measured here
	// rather than inside the core.
	Duration time.Duration
	// Err contains any error that interrupted the search.
	Err error
}

// ProgressReporter defines the interface for displaying search progress.
// This decouples the orchestration layer from the presentation layer:
// implementations render spinners, dashboards, or nothing at all, while
// orchestration only coordinates the search.
type ProgressReporter interface {
	// DisplayProgress consumes both event channels until they are closed
	// and then signals wg. It runs in its own goroutine; slow consumers
	// backpressure the search once the channel buffers fill.
	DisplayProgress(wg *sync.WaitGroup, updates <-chan progress.Update, improvements <-chan progress.Improvement, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, updates <-chan progress.Update, improvements <-chan progress.Improvement, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, updates <-chan progress.Update, improvements <-chan progress.Improvement, out io.Writer) {
	f(wg, updates, improvements, out)
}

// NullProgressReporter drains both event channels without displaying
// anything. Useful for quiet mode and testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channels silently.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, updates <-chan progress.Update, improvements <-chan progress.Improvement, _ io.Writer) {
	defer wg.Done()
	for updates != nil || improvements != nil {
		select {
		case _, ok := <-updates:
			if !ok {
				updates = nil
			}
		case _, ok := <-improvements:
			if !ok {
				improvements = nil
			}
		}
	}
}

// ResultPresenter defines the interface for presenting a completed search.
// Different output formats (CLI report, TUI message, JSON response) plug in
// here without modifying the orchestration logic.
type ResultPresenter interface {
	// PresentResult displays the final search result.
	PresentResult(res SearchResult, verbose bool, out io.Writer)
}

// ErrorHandler turns a failed search into a diagnostic and an exit code.
type ErrorHandler interface {
	HandleError(err error, elapsed time.Duration, out io.Writer) int
}
