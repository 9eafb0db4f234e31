// Package format provides pure formatting helpers shared by the CLI and TUI
// presentation layers: durations, byte sizes, relative-miss percentages, and
// progress bars with ETA estimation.
package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds
// for durations less than a second, and the default string representation
// otherwise. This provides a more human-readable output for short durations.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatBytes renders a byte count using binary units.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatRelativeMiss renders a relative miss as a percentage with ten
// decimal places, the precision convention of the final report.
func FormatRelativeMiss(rm float64) string {
	return fmt.Sprintf("%.10f%%", rm*100)
}

// FormatPercent renders a fraction in [0, 1] as a percentage with two
// decimal places, used for progress reporting.
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}
