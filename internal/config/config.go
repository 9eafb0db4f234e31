// Package config handles command-line parsing, environment overrides and
// validation for the nearmiss binary. Priority order is CLI flags, then
// NEARMISS_* environment variables, then built-in defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/nearmiss/internal/errors"
	"github.com/agbru/nearmiss/internal/search"
)

// EnvPrefix is prepended to every environment variable read by this package.
const EnvPrefix = "NEARMISS_"

// Defaults applied when neither a flag nor an environment variable is set.
const (
	DefaultN                = 3
	DefaultK                = 100
	DefaultTimeout          = 5 * time.Minute
	DefaultListenAddr       = ":8080"
	DefaultProgressInterval = search.DefaultProgressInterval
	DefaultTheme            = "dark"
)

// AppConfig holds the complete runtime configuration.
type AppConfig struct {
	// N is the exponent of the searched power, 3..11.
	N int
	// K is the upper bound of the x/y range; the grid is [10,K] x [10,K].
	K int
	// Timeout bounds the whole search run.
	Timeout time.Duration
	// Workers is the parallel worker count; 0 means pick one per CPU core.
	Workers int
	// ProgressInterval is the number of combinations between progress events.
	ProgressInterval uint64
	// Quiet suppresses the banner and live progress, printing only the result.
	Quiet bool
	// Verbose adds timing and counter details to the final report.
	Verbose bool
	// OutputFile, when non-empty, receives a copy of the final report.
	OutputFile string
	// TUI switches to the interactive dashboard.
	TUI bool
	// Serve starts the HTTP API instead of a one-shot search.
	Serve bool
	// ListenAddr is the HTTP listen address used with Serve.
	ListenAddr string
	// NoColor disables ANSI colors in terminal output.
	NoColor bool
	// Theme selects the terminal color theme: "dark" or "light".
	Theme string
}

// Params converts the configuration into core search parameters.
func (c AppConfig) Params() search.Params {
	return search.Params{N: c.N, K: c.K}
}

// ParseConfig parses command-line arguments into an AppConfig, applies
// environment variable overrides for flags left unset, and validates the
// result. Usage and parse errors are written to errWriter; --help surfaces
// as flag.ErrHelp.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{
		N:                DefaultN,
		K:                DefaultK,
		Timeout:          DefaultTimeout,
		ProgressInterval: DefaultProgressInterval,
		ListenAddr:       DefaultListenAddr,
		Theme:            DefaultTheme,
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.IntVar(&cfg.N, "n", cfg.N, "exponent of the searched power (3..11)")
	fs.IntVar(&cfg.K, "k", cfg.K, "upper bound of the x/y search range (> 10)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "maximum duration of the search")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel workers (0 = one per CPU core)")
	progressInterval := fs.Uint64("progress-interval", cfg.ProgressInterval, "combinations between progress updates")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "print only the final result")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "print only the final result (shorthand)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "include timing details in the report")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "include timing details in the report (shorthand)")
	fs.StringVar(&cfg.OutputFile, "output", cfg.OutputFile, "write the final report to this file")
	fs.StringVar(&cfg.OutputFile, "o", cfg.OutputFile, "write the final report to this file (shorthand)")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "run the interactive dashboard")
	fs.BoolVar(&cfg.Serve, "serve", cfg.Serve, "run the HTTP API server")
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP listen address (with -serve)")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable ANSI colors")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, `terminal color theme ("dark" or "light")`)

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintf(errWriter, "Searches x^n + y^n over [10,k]^2 for the combination closest,\n")
		fmt.Fprintf(errWriter, "in relative terms, to a perfect n-th power z^n.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected argument: %q", fs.Arg(0))
	}
	cfg.ProgressInterval = *progressInterval

	applyEnvOverrides(&cfg, fs)

	if err := validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// validate checks the configuration against the core parameter constraints
// plus the flag-level constraints the core never sees.
func validate(cfg AppConfig) error {
	if err := cfg.Params().Validate(); err != nil {
		return err
	}
	if cfg.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive")
	}
	if cfg.Workers < 0 {
		return apperrors.NewConfigError("workers must not be negative")
	}
	if cfg.ProgressInterval == 0 {
		return apperrors.NewConfigError("progress-interval must be positive")
	}
	if cfg.Serve && cfg.ListenAddr == "" {
		return apperrors.NewConfigError("listen address must not be empty with -serve")
	}
	if cfg.Serve && cfg.TUI {
		return apperrors.NewConfigError("-serve and -tui are mutually exclusive")
	}
	if cfg.Theme != "dark" && cfg.Theme != "light" {
		return apperrors.NewConfigError("unknown theme %q (valid: dark, light)", cfg.Theme)
	}
	return nil
}
