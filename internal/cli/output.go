// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Example: [FormatQuietResult].
//
//   - Write* functions write data to files on the filesystem.
//     Example: [WriteResultToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/agbru/nearmiss/internal/errors"
	"github.com/agbru/nearmiss/internal/format"
	"github.com/agbru/nearmiss/internal/orchestration"
	"github.com/agbru/nearmiss/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the report (empty for no file output).
	OutputFile string
	// Quiet mode prints a single machine-readable line.
	Quiet bool
	// Verbose adds timing details to the report.
	Verbose bool
}

// WriteResultToFile writes a search report to a file, creating parent
// directories as needed.
func WriteResultToFile(res orchestration.SearchResult, path string) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.WrapError(err, "creating output directory %q", dir)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.WrapError(err, "creating output file %q", path)
	}
	defer file.Close()

	best := res.Best
	fmt.Fprintf(file, "# Fermat Near Miss Search Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Exponent: %d\n", res.Params.N)
	fmt.Fprintf(file, "# Range: [10,%d]\n", res.Params.K)
	fmt.Fprintf(file, "# Combinations: %d\n", res.Checked)
	fmt.Fprintf(file, "# Duration: %s\n", res.Duration)
	fmt.Fprintf(file, "\n")
	fmt.Fprintf(file, "x = %d\n", best.X)
	fmt.Fprintf(file, "y = %d\n", best.Y)
	fmt.Fprintf(file, "z = %d (%s bracket)\n", best.Z, best.Side)
	fmt.Fprintf(file, "x^n + y^n = %s\n", best.Sum.String())
	fmt.Fprintf(file, "z^n = %s\n", best.ComparedPower.String())
	fmt.Fprintf(file, "absolute miss = %s\n", best.AbsoluteMiss.String())
	fmt.Fprintf(file, "relative miss = %s\n", format.FormatRelativeMiss(best.RelativeMiss))

	return nil
}

// FormatQuietResult formats a result as a single line suitable for scripting:
// x y z absolute-miss relative-miss.
func FormatQuietResult(res orchestration.SearchResult) string {
	best := res.Best
	return fmt.Sprintf("%d %d %d %s %s",
		best.X, best.Y, best.Z, best.AbsoluteMiss.String(),
		format.FormatRelativeMiss(best.RelativeMiss))
}

// DisplayQuietResult outputs a result in quiet mode (minimal output).
func DisplayQuietResult(res orchestration.SearchResult, out io.Writer) {
	fmt.Fprintln(out, FormatQuietResult(res))
}

// DisplayResultWithConfig displays a result with the given output
// configuration, handling quiet mode and optional file output.
func DisplayResultWithConfig(res orchestration.SearchResult, cfg OutputConfig, out io.Writer) error {
	if cfg.Quiet {
		DisplayQuietResult(res, out)
	} else {
		DisplayResult(res, cfg.Verbose, out)
	}

	if cfg.OutputFile != "" {
		if err := WriteResultToFile(res, cfg.OutputFile); err != nil {
			return err
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.Success(), ui.Info(), cfg.OutputFile, ui.Reset())
		}
	}

	return nil
}
