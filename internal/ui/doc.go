// Package ui provides theme and color support for terminal output. It
// defines ANSI color schemes for the CLI report and a lipgloss palette for
// the TUI dashboard, so presentation packages share one source of styling.
package ui
