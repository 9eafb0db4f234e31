package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/nearmiss/internal/errors"
	"github.com/agbru/nearmiss/internal/format"
	"github.com/agbru/nearmiss/internal/orchestration"
	"github.com/agbru/nearmiss/internal/progress"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter.
// It drains the event channels and forwards them as bubbletea messages.
type TUIProgressReporter struct {
	ref *programRef
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress forwards progress and improvement events to the TUI until
// both channels close, then signals wg.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, updates <-chan progress.Update, improvements <-chan progress.Improvement, _ io.Writer) {
	defer wg.Done()

	eta := format.NewProgressWithETA()
	for updates != nil || improvements != nil {
		select {
		case u, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			remaining := eta.Update(u.Fraction())
			t.ref.Send(ProgressMsg{
				Checked:  u.Checked,
				Total:    u.Total,
				Fraction: u.Fraction(),
				ETA:      remaining,
			})
		case imp, ok := <-improvements:
			if !ok {
				improvements = nil
				continue
			}
			t.ref.Send(ImprovementMsg{
				Best:    imp.Best,
				Checked: imp.Checked,
				Total:   imp.Total,
			})
		}
	}
	t.ref.Send(ProgressDoneMsg{})
}

// TUIResultPresenter implements orchestration.ResultPresenter and
// orchestration.ErrorHandler, sending messages to the TUI instead of
// writing to stdout.
type TUIResultPresenter struct {
	ref *programRef
}

var (
	_ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler    = (*TUIResultPresenter)(nil)
)

// PresentResult sends the final result to the TUI.
func (t *TUIResultPresenter) PresentResult(res orchestration.SearchResult, verbose bool, _ io.Writer) {
	t.ref.Send(FinalResultMsg{Result: res, Verbose: verbose})
}

// noColors satisfies apperrors.ColorProvider with empty escape codes; the
// diagnostic text itself goes to io.Discard, only the exit code matters here.
type noColors struct{}

func (noColors) Red() string    { return "" }
func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }

// HandleError sends an error message to the TUI and returns the exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Err: err, Duration: duration})
	return apperrors.HandleSearchError(err, duration, io.Discard, noColors{})
}
