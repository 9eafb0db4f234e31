package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/nearmiss/internal/format"
	"github.com/agbru/nearmiss/internal/progress"
	"github.com/agbru/nearmiss/internal/ui"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the spinner and
	// progress bar. 200ms keeps terminal churn low.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// It decouples DisplayProgress from a specific spinner implementation,
// which makes the progress loop testable without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner wraps spinner.Spinner to implement the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

// newSpinner is a package variable so tests can substitute a fake.
var newSpinner = func(options ...spinner.Option) Spinner {
	// Same interval as ProgressRefreshRate to synchronize redraws.
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress renders a spinner with a progress bar and ETA while the
// search runs, and prints a line for every improvement as it arrives. It
// consumes both channels until they are closed, then signals wg.
func DisplayProgress(wg *sync.WaitGroup, updates <-chan progress.Update, improvements <-chan progress.Improvement, out io.Writer) {
	defer wg.Done()

	sp := newSpinner(spinner.WithWriter(out))
	eta := format.NewProgressWithETA()
	sp.Start()
	defer sp.Stop()

	for updates != nil || improvements != nil {
		select {
		case u, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			remaining := eta.Update(u.Fraction())
			sp.UpdateSuffix(" " + format.FormatProgressBarWithETA(u.Fraction(), remaining, ProgressBarWidth))
		case imp, ok := <-improvements:
			if !ok {
				improvements = nil
				continue
			}
			// Stop the animation so the improvement line does not race
			// with a redraw, then resume.
			sp.Stop()
			fmt.Fprintf(out, "%s[%d/%d]%s new best: x=%d y=%d z=%d, relative miss %s%s%s\n",
				ui.Secondary(), imp.Checked, imp.Total, ui.Reset(),
				imp.Best.X, imp.Best.Y, imp.Best.Z,
				ui.Success(), format.FormatRelativeMiss(imp.Best.RelativeMiss), ui.Reset())
			sp.Start()
		}
	}
}
