package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/nearmiss/internal/format"
	"github.com/agbru/nearmiss/internal/search"
)

// HeaderModel renders the top bar: title, search domain, elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	params    search.Params
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string, params search.Params) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		params:    params,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "Near Miss Monitor"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	title := titleStyle.Render(titleText)

	pipe := logTimeStyle.Render(" | ")
	domain := elapsedStyle.Render(fmt.Sprintf("n=%d, x,y in [%d,%d]",
		h.params.N, search.MinXY, h.params.K))

	var duration time.Duration
	if !h.endTime.IsZero() {
		duration = h.endTime.Sub(h.startTime)
	} else {
		duration = time.Since(h.startTime)
	}
	elapsed := elapsedStyle.Render("Elapsed: " + format.FormatExecutionDuration(duration))

	leftPart := title + pipe + domain + pipe + elapsed
	leftLen := lipgloss.Width(leftPart)

	innerWidth := h.width - 2
	if innerWidth < 0 {
		innerWidth = 0
	}
	gap := innerWidth - leftLen
	if gap < 0 {
		gap = 0
	}

	return headerStyle.Width(h.width).Render(leftPart + strings.Repeat(" ", gap))
}
