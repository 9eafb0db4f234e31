package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/nearmiss/internal/cli"
	apperrors "github.com/agbru/nearmiss/internal/errors"
	"github.com/agbru/nearmiss/internal/logging"
	"github.com/agbru/nearmiss/internal/metrics"
	"github.com/agbru/nearmiss/internal/orchestration"
	"github.com/agbru/nearmiss/internal/server"
)

// notifySignals derives a context that is canceled on SIGINT or SIGTERM, so
// long runs shut down cleanly instead of leaving a half-drawn terminal.
func notifySignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// runSearch executes a single search in plain CLI mode and returns the
// process exit code.
func (a *Application) runSearch(ctx context.Context, out io.Writer) int {
	cfg := a.Config

	ctx, cancelTimeout := context.WithTimeout(ctx, cfg.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := notifySignals(ctx)
	defer stopSignals()

	if !cfg.Quiet {
		cli.PrintExecutionConfig(cfg, out)
	}

	memCollector := metrics.NewMemoryCollector()
	memBefore := memCollector.Snapshot()

	reporter := cli.CLIProgressReporter
	if cfg.Quiet {
		reporter = orchestration.NullProgressReporter{}
	}

	opts := orchestration.Options{
		Workers:          cfg.Workers,
		ProgressInterval: cfg.ProgressInterval,
	}
	res := orchestration.ExecuteSearch(ctx, cfg.Params(), opts, reporter, out)

	if res.Err != nil {
		presenter := cli.CLIResultPresenter{}
		return orchestration.AnalyzeSearchResult(res, cfg.Verbose, presenter, presenter, out)
	}

	outputCfg := cli.OutputConfig{
		OutputFile: cfg.OutputFile,
		Quiet:      cfg.Quiet,
		Verbose:    cfg.Verbose,
	}
	if err := cli.DisplayResultWithConfig(res, outputCfg, out); err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, res.Duration, a.ErrWriter)
	}
	if cfg.Verbose && !cfg.Quiet {
		cli.DisplayMemoryStats(memBefore, memCollector.Snapshot(), out)
	}
	return apperrors.ExitSuccess
}

// runServe starts the HTTP API and blocks until the context is canceled or
// the listener fails.
func (a *Application) runServe(ctx context.Context) int {
	ctx, stopSignals := notifySignals(ctx)
	defer stopSignals()

	logger := logging.NewLogger(os.Stderr, "server")
	srv := server.New(a.Config.ListenAddr, a.Config.Workers, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server terminated", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
