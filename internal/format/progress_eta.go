package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// etaSmoothing is the exponential moving average weight applied to newly
// observed progress rates. Lower values favor stability over reactivity.
const etaSmoothing = 0.3

// ProgressWithETA tracks the fraction of a search completed and estimates
// the time remaining from a smoothed progress rate. Safe for concurrent use:
// progress updates arrive from the reporter goroutine while refresh tickers
// read the current state.
type ProgressWithETA struct {
	mu           sync.Mutex
	fraction     float64
	progressRate float64 // fraction per second, EMA-smoothed
	startTime    time.Time
	lastUpdate   time.Time
	lastFraction float64
}

// NewProgressWithETA creates a tracker starting at zero progress.
func NewProgressWithETA() *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{startTime: now, lastUpdate: now}
}

// Update records the current completion fraction and returns the new ETA.
func (p *ProgressWithETA) Update(fraction float64) time.Duration {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(p.lastUpdate).Seconds()
	if elapsed > 0 && fraction > p.lastFraction {
		rate := (fraction - p.lastFraction) / elapsed
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = etaSmoothing*rate + (1-etaSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastFraction = fraction
	}
	p.fraction = fraction

	return p.etaLocked()
}

// Fraction returns the last recorded completion fraction.
func (p *ProgressWithETA) Fraction() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fraction
}

// ETA returns the current estimate of time remaining, or 0 when there is
// not yet enough data to estimate.
func (p *ProgressWithETA) ETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.etaLocked()
}

func (p *ProgressWithETA) etaLocked() time.Duration {
	if p.progressRate <= 0 || p.fraction >= 1 {
		return 0
	}
	remaining := (1 - p.fraction) / p.progressRate
	return time.Duration(remaining * float64(time.Second))
}

// FormatETA renders an estimated time remaining in compact form.
// Zero and negative values render as "calculating..." since they mean no
// estimate is available yet.
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		s := int(eta.Seconds()) - m*60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		h := int(eta.Hours())
		m := int(eta.Minutes()) - h*60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// ProgressBar renders a textual progress bar of the given character width.
func ProgressBar(fraction float64, width int) string {
	if fraction > 1 {
		fraction = 1
	}
	if fraction < 0 {
		fraction = 0
	}
	filled := int(fraction * float64(width))
	var b strings.Builder
	b.Grow(width)
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

// FormatProgressBarWithETA combines a progress bar, a percentage, and an ETA
// into a single status line.
func FormatProgressBarWithETA(fraction float64, eta time.Duration, width int) string {
	return "[" + ProgressBar(fraction, width) + "] " + FormatPercent(fraction) + " | ETA " + FormatETA(eta)
}
