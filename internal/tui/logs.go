package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/nearmiss/internal/config"
	"github.com/agbru/nearmiss/internal/format"
	"github.com/agbru/nearmiss/internal/search"
)

// LogsModel is the scrolling improvements log on the left of the dashboard.
type LogsModel struct {
	entries []string
	offset  int // lines scrolled up from the bottom
	keymap  KeyMap
	width   int
	height  int
}

// NewLogsModel creates an empty log panel.
func NewLogsModel() LogsModel {
	return LogsModel{keymap: DefaultKeyMap()}
}

// SetSize updates dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
}

// Reset clears all entries.
func (l *LogsModel) Reset() {
	l.entries = nil
	l.offset = 0
}

func (l *LogsModel) add(line string) {
	l.entries = append(l.entries, line)
	// Stay pinned to the bottom unless the user scrolled away.
	if l.offset > 0 {
		l.offset++
	}
}

func timestamp() string {
	return logTimeStyle.Render(time.Now().Format("15:04:05"))
}

// AddExecutionConfig logs the run parameters at the top of the session.
func (l *LogsModel) AddExecutionConfig(cfg config.AppConfig) {
	l.add(fmt.Sprintf("%s searching x^%d + y^%d, x,y in [%d,%d] (%s combinations)",
		timestamp(), cfg.N, cfg.N, search.MinXY, cfg.K,
		logCountStyle.Render(fmt.Sprintf("%d", cfg.Params().TotalCombinations()))))
}

// AddImprovement logs a new best result.
func (l *LogsModel) AddImprovement(msg ImprovementMsg) {
	l.add(fmt.Sprintf("%s %s x=%d y=%d z=%d rel=%s",
		timestamp(),
		logCountStyle.Render(fmt.Sprintf("[%d/%d]", msg.Checked, msg.Total)),
		msg.Best.X, msg.Best.Y, msg.Best.Z,
		logSuccessStyle.Render(format.FormatRelativeMiss(msg.Best.RelativeMiss))))
}

// AddFinalResult logs the completed search summary.
func (l *LogsModel) AddFinalResult(msg FinalResultMsg) {
	best := msg.Result.Best
	l.add(fmt.Sprintf("%s %s x=%d y=%d z=%d miss=%s rel=%s in %s",
		timestamp(),
		logSuccessStyle.Render("done:"),
		best.X, best.Y, best.Z,
		best.AbsoluteMiss.String(),
		format.FormatRelativeMiss(best.RelativeMiss),
		format.FormatExecutionDuration(msg.Result.Duration)))
}

// AddError logs a search failure.
func (l *LogsModel) AddError(msg ErrorMsg) {
	l.add(fmt.Sprintf("%s %s %v",
		timestamp(), logErrorStyle.Render("error:"), msg.Err))
}

// Update handles scroll keys.
func (l *LogsModel) Update(msg tea.KeyMsg) {
	page := l.height - 3
	if page < 1 {
		page = 1
	}
	switch {
	case key.Matches(msg, l.keymap.Up):
		l.scrollBy(1)
	case key.Matches(msg, l.keymap.Down):
		l.scrollBy(-1)
	case key.Matches(msg, l.keymap.PageUp):
		l.scrollBy(page)
	case key.Matches(msg, l.keymap.PageDown):
		l.scrollBy(-page)
	}
}

func (l *LogsModel) scrollBy(delta int) {
	l.offset += delta
	max := len(l.entries) - 1
	if l.offset > max {
		l.offset = max
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// renderToHeight renders the panel at exactly the given outer height.
func (l LogsModel) renderToHeight(height int) string {
	innerHeight := height - 2 // borders
	if innerHeight < 1 {
		innerHeight = 1
	}
	innerWidth := l.width - 4
	if innerWidth < 1 {
		innerWidth = 1
	}

	title := panelTitleStyle.Render("Improvements")
	visible := innerHeight - 1 // minus title line

	end := len(l.entries) - l.offset
	if end < 0 {
		end = 0
	}
	start := end - visible
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, visible+1)
	lines = append(lines, title)
	lines = append(lines, l.entries[start:end]...)
	for len(lines) < innerHeight {
		lines = append(lines, "")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return panelStyle.Width(l.width - 2).Height(innerHeight).Render(content)
}
