package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the bottom bar: status indicator plus key help.
type FooterModel struct {
	paused bool
	done   bool
	failed bool
	keymap KeyMap
	width  int
}

// NewFooterModel creates a new footer.
func NewFooterModel() FooterModel {
	return FooterModel{keymap: DefaultKeyMap()}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetPaused toggles the paused indicator.
func (f *FooterModel) SetPaused(paused bool) { f.paused = paused }

// SetDone marks the search finished.
func (f *FooterModel) SetDone(done bool) { f.done = done }

// SetError marks the search failed.
func (f *FooterModel) SetError(failed bool) { f.failed = failed }

func (f FooterModel) status() string {
	switch {
	case f.failed:
		return statusErrorStyle.Render("● ERROR")
	case f.done:
		return statusDoneStyle.Render("● DONE")
	case f.paused:
		return statusPausedStyle.Render("● PAUSED")
	default:
		return statusRunningStyle.Render("● RUNNING")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	helps := []struct{ key, desc string }{
		{f.keymap.Quit.Help().Key, f.keymap.Quit.Help().Desc},
		{f.keymap.Pause.Help().Key, f.keymap.Pause.Help().Desc},
		{f.keymap.Reset.Help().Key, f.keymap.Reset.Help().Desc},
		{"↑/↓", "scroll"},
	}

	parts := make([]string, 0, len(helps))
	for _, h := range helps {
		parts = append(parts, footerKeyStyle.Render(h.key)+" "+footerDescStyle.Render(h.desc))
	}

	line := f.status() + footerDescStyle.Render("  |  ") +
		strings.Join(parts, footerDescStyle.Render(" • "))
	return lipgloss.NewStyle().Width(f.width).Render(line)
}
