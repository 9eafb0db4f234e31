package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/nearmiss/internal/format"
	"github.com/agbru/nearmiss/internal/search"
)

// MetricsModel shows search progress plus process and system metrics on the
// right of the dashboard.
type MetricsModel struct {
	fraction float64
	checked  uint64
	total    uint64
	eta      time.Duration

	best    *search.BestResult
	speed   float64 // combinations per second, smoothed
	lastChk uint64
	lastAt  time.Time

	mem MemStatsMsg
	sys SysStatsMsg

	width  int
	height int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{lastAt: time.Now()}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateProgress records a progress event and refreshes the speed estimate.
func (m *MetricsModel) UpdateProgress(msg ProgressMsg) {
	m.fraction = msg.Fraction
	m.checked = msg.Checked
	m.total = msg.Total
	m.eta = msg.ETA

	now := time.Now()
	dt := now.Sub(m.lastAt).Seconds()
	if dt > 0.05 {
		dc := float64(msg.Checked) - float64(m.lastChk)
		if dc > 0 {
			instant := dc / dt
			if m.speed > 0 {
				m.speed = 0.7*m.speed + 0.3*instant
			} else {
				m.speed = instant
			}
		}
		m.lastChk = msg.Checked
		m.lastAt = now
	}
}

// UpdateBest records the latest best result.
func (m *MetricsModel) UpdateBest(best search.BestResult) {
	m.best = &best
}

// UpdateMemStats records a runtime memory sample.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.mem = msg
}

// UpdateSysStats records a system CPU/memory sample.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.sys = msg
}

func (m MetricsModel) row(label, value string) string {
	return metricLabelStyle.Render(label) + " " + metricValueStyle.Render(value)
}

// View renders the panel.
func (m MetricsModel) View() string {
	innerWidth := m.width - 4
	if innerWidth < 10 {
		innerWidth = 10
	}

	barWidth := innerWidth - 10
	if barWidth < 10 {
		barWidth = 10
	}
	bar := progressBarStyle.Render(format.ProgressBar(m.fraction, barWidth)) +
		" " + metricValueStyle.Render(format.FormatPercent(m.fraction))

	var rows strings.Builder
	rows.WriteString(panelTitleStyle.Render("Search") + "\n")
	rows.WriteString(bar + "\n")
	rows.WriteString(m.row("Checked:", fmt.Sprintf("%d / %d", m.checked, m.total)) + "\n")
	rows.WriteString(m.row("Speed:", fmt.Sprintf("%.0f comb/s", m.speed)) + "\n")
	rows.WriteString(m.row("ETA:", format.FormatETA(m.eta)) + "\n")

	if m.best != nil {
		rows.WriteString(m.row("Best:", fmt.Sprintf("x=%d y=%d z=%d", m.best.X, m.best.Y, m.best.Z)) + "\n")
		rows.WriteString(m.row("Rel miss:", format.FormatRelativeMiss(m.best.RelativeMiss)) + "\n")
	}

	rows.WriteString("\n" + panelTitleStyle.Render("System") + "\n")
	rows.WriteString(m.row("Heap:", format.FormatBytes(m.mem.Alloc)+" / "+format.FormatBytes(m.mem.HeapSys)) + "\n")
	rows.WriteString(m.row("GC:", fmt.Sprintf("%d (%.1fms)", m.mem.NumGC, float64(m.mem.PauseTotalNs)/1e6)) + "\n")
	rows.WriteString(m.row("Goroutines:", fmt.Sprintf("%d", m.mem.NumGoroutine)) + "\n")
	rows.WriteString(m.row("CPU:", fmt.Sprintf("%.1f%%", m.sys.CPUPercent)) + "\n")
	rows.WriteString(m.row("Mem:", fmt.Sprintf("%.1f%%", m.sys.MemPercent)))

	content := lipgloss.NewStyle().Width(innerWidth).Render(rows.String())
	return panelStyle.Width(m.width - 2).Render(content)
}
