package cli

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/agbru/nearmiss/internal/config"
	apperrors "github.com/agbru/nearmiss/internal/errors"
	"github.com/agbru/nearmiss/internal/format"
	"github.com/agbru/nearmiss/internal/metrics"
	"github.com/agbru/nearmiss/internal/orchestration"
	"github.com/agbru/nearmiss/internal/search"
	"github.com/agbru/nearmiss/internal/ui"
)

// CLIColorProvider adapts the active ui theme to the error package's
// ColorProvider interface.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.Error() }
func (CLIColorProvider) Yellow() string { return ui.Warning() }
func (CLIColorProvider) Reset() string  { return ui.Reset() }

// CLIProgressReporter reports progress on the terminal: a spinner with a
// progress bar plus a line per improvement. The function adapter lifts the
// package-level DisplayProgress loop into the reporter interface.
var CLIProgressReporter orchestration.ProgressReporter = orchestration.ProgressReporterFunc(DisplayProgress)

// CLIResultPresenter implements the presentation interfaces for CLI output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentResult displays the final search report.
func (CLIResultPresenter) PresentResult(res orchestration.SearchResult, verbose bool, out io.Writer) {
	DisplayResult(res, verbose, out)
}

// HandleError prints a diagnostic for a failed search and returns the exit code.
func (CLIResultPresenter) HandleError(err error, elapsed time.Duration, out io.Writer) int {
	return apperrors.HandleSearchError(err, elapsed, out, CLIColorProvider{})
}

// PrintExecutionConfig displays the execution configuration before a run:
// the search domain, timeout and environment details.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "%s--- Execution Configuration ---%s\n", ui.Underline(), ui.Reset())
	fmt.Fprintf(out, "Searching %sx^%d + y^%d%s for x,y in %s[%d,%d]%s with a timeout of %s%s%s.\n",
		ui.Primary(), cfg.N, cfg.N, ui.Reset(),
		ui.Primary(), search.MinXY, cfg.K, ui.Reset(),
		ui.Warning(), cfg.Timeout, ui.Reset())
	fmt.Fprintf(out, "Combinations to check: %s%d%s.\n",
		ui.Info(), cfg.Params().TotalCombinations(), ui.Reset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, %s%d%s workers, Go %s%s%s.\n",
		ui.Info(), runtime.NumCPU(), ui.Reset(),
		ui.Info(), cfg.Workers, ui.Reset(),
		ui.Info(), runtime.Version(), ui.Reset())
	fmt.Fprintf(out, "\n--- Starting Search ---\n")
}

// DisplayMemoryStats shows memory statistics after a search, used in
// verbose mode. The before snapshot attributes allocation activity to the
// search itself rather than process lifetime.
func DisplayMemoryStats(before, after metrics.MemorySnapshot, out io.Writer) {
	allocated, gcCycles := after.Delta(before)
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:      %s\n", format.FormatBytes(after.HeapAlloc))
	fmt.Fprintf(out, "  Search allocated: %s\n", format.FormatBytes(allocated))
	fmt.Fprintf(out, "  Search GC cycles: %d\n", gcCycles)
	fmt.Fprintf(out, "  GC pause total:   %.2fms\n", float64(after.PauseTotalNs)/1e6)
}

// DisplayResult writes the final report for a completed search. Verbose mode
// adds the timing and throughput lines.
func DisplayResult(res orchestration.SearchResult, verbose bool, out io.Writer) {
	best := res.Best

	fmt.Fprintf(out, "\n%s--- Smallest Relative Miss ---%s\n", ui.Underline(), ui.Reset())
	fmt.Fprintf(out, "Exponent n = %s%d%s, range [%d,%d]\n",
		ui.Primary(), res.Params.N, ui.Reset(), search.MinXY, res.Params.K)
	fmt.Fprintf(out, "x = %s%d%s, y = %s%d%s\n",
		ui.Bold(), best.X, ui.Reset(), ui.Bold(), best.Y, ui.Reset())
	fmt.Fprintf(out, "x^n + y^n     = %s%s%s\n", ui.Info(), best.Sum.String(), ui.Reset())
	fmt.Fprintf(out, "closest power = %s%s%s = %d^%d (%s bracket)\n",
		ui.Info(), best.ComparedPower.String(), ui.Reset(), best.Z, best.N, best.Side)
	fmt.Fprintf(out, "absolute miss = %s%s%s\n", ui.Success(), best.AbsoluteMiss.String(), ui.Reset())
	fmt.Fprintf(out, "relative miss = %s%s%s\n",
		ui.Success(), format.FormatRelativeMiss(best.RelativeMiss), ui.Reset())

	if verbose {
		fmt.Fprintf(out, "\nChecked %d combinations in %s",
			res.Checked, format.FormatExecutionDuration(res.Duration))
		if secs := res.Duration.Seconds(); secs > 0 {
			fmt.Fprintf(out, " (%.0f combinations/s)", float64(res.Checked)/secs)
		}
		fmt.Fprintln(out)
	}
}
