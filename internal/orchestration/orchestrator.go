package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/nearmiss/internal/errors"
	"github.com/agbru/nearmiss/internal/progress"
	"github.com/agbru/nearmiss/internal/search"
)

// tracerName identifies this instrumentation scope. The global tracer
// provider is a no-op unless the embedding process installs an SDK.
const tracerName = "github.com/agbru/nearmiss/internal/orchestration"

// Channel buffer sizes. Progress updates arrive at the configured cadence
// and improvements are rare after the first few hundred combinations, so
// modest buffers keep the search from blocking on a busy terminal.
const (
	ProgressBufferSize    = 64
	ImprovementBufferSize = 16
)

// Options configures how a search run is executed.
type Options struct {
	// Workers is the number of parallel workers; values <= 1 run the
	// sequential searcher.
	Workers int
	// ProgressInterval is the number of combinations between progress
	// events; 0 uses the search package default.
	ProgressInterval uint64
}

// spanObserver decorates another observer, recording improvements as span
// events so traces show when the best result changed.
type spanObserver struct {
	next search.Observer
	span trace.Span
}

func (o spanObserver) OnImprovement(best search.BestResult, checked, total uint64) {
	o.span.AddEvent("improvement", trace.WithAttributes(
		attribute.Int("x", best.X),
		attribute.Int("y", best.Y),
		attribute.Int64("z", best.Z),
		attribute.Float64("relative_miss", best.RelativeMiss),
		attribute.Int64("checked", int64(checked)),
	))
	o.next.OnImprovement(best, checked, total)
}

func (o spanObserver) OnProgress(checked, total uint64) {
	o.next.OnProgress(checked, total)
}

// ExecuteSearch runs the full enumeration for the given parameters and
// streams events to the reporter. It owns the lifecycle of the event
// channels and the reporter goroutine: by the time it returns, the reporter
// has consumed every event and finished.
//
// The returned result carries a partial Checked count and an Err when the
// context was canceled or timed out.
func ExecuteSearch(ctx context.Context, params search.Params, opts Options, reporter ProgressReporter, out io.Writer) SearchResult {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "nearmiss.search",
		trace.WithAttributes(
			attribute.Int("search.n", params.N),
			attribute.Int("search.k", params.K),
			attribute.Int("search.workers", opts.Workers),
		))
	defer span.End()

	updates := make(chan progress.Update, ProgressBufferSize)
	improvements := make(chan progress.Improvement, ImprovementBufferSize)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, updates, improvements, out)

	var searcherOpts []search.Option
	if opts.ProgressInterval > 0 {
		searcherOpts = append(searcherOpts, search.WithProgressInterval(opts.ProgressInterval))
	}
	searcher := search.NewSearcher(params, searcherOpts...)
	obs := spanObserver{next: progress.NewChannelObserver(updates, improvements), span: span}

	startTime := time.Now()
	var (
		best    search.BestResult
		checked uint64
		err     error
	)
	if opts.Workers > 1 {
		best, checked, err = searcher.RunParallel(ctx, opts.Workers, obs)
	} else {
		best, checked, err = searcher.Run(ctx, obs)
	}
	duration := time.Since(startTime)

	close(updates)
	close(improvements)
	displayWg.Wait()

	span.SetAttributes(attribute.Int64("search.checked", int64(checked)))
	if err != nil {
		span.RecordError(err)
	}

	return SearchResult{
		Params:   params,
		Best:     best,
		Checked:  checked,
		Duration: duration,
		Err:      err,
	}
}

// AnalyzeSearchResult turns a completed search into terminal output and an
// exit code. Success goes through the presenter; failures go through the
// error handler, except the empty-grid case which has its own exit code.
func AnalyzeSearchResult(res SearchResult, verbose bool, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	if res.Err != nil {
		if errors.Is(res.Err, search.ErrNoResult) {
			fmt.Fprintf(out, "\nNo combinations were evaluated: the search grid is empty.\n")
			return apperrors.ExitErrorEmpty
		}
		return errHandler.HandleError(res.Err, res.Duration, out)
	}

	presenter.PresentResult(res, verbose, out)
	return apperrors.ExitSuccess
}
