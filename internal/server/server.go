// Package server exposes the search over HTTP: a JSON API endpoint, a health
// check and Prometheus metrics, wrapped in security middleware.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/nearmiss/internal/errors"
	"github.com/agbru/nearmiss/internal/logging"
	"github.com/agbru/nearmiss/internal/progress"
	"github.com/agbru/nearmiss/internal/search"
)

// ShutdownTimeout bounds the graceful drain of in-flight requests.
const ShutdownTimeout = 10 * time.Second

// SearchTimeout bounds a single search request. Even a capped grid takes a
// while at high exponents, so the limit is generous but finite.
const SearchTimeout = 60 * time.Second

// Server serves the search API.
type Server struct {
	addr     string
	workers  int
	security SecurityConfig
	metrics  *Metrics
	logger   logging.Logger
}

// New creates a Server listening on addr. Searches run with the given worker
// count; workers <= 1 means sequential. A nil logger falls back to the
// default stderr logger.
func New(addr string, workers int, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Server{
		addr:     addr,
		workers:  workers,
		security: DefaultSecurityConfig(),
		metrics:  NewMetrics(),
		logger:   logger,
	}
}

// routes builds the handler tree with middleware applied.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", SecurityMiddleware(s.security, s.metricsMiddleware(s.handleHealth)))
	mux.HandleFunc("/metrics", SecurityMiddleware(s.security, s.metricsMiddleware(s.handleMetrics)))
	mux.HandleFunc("/api/v1/search", SecurityMiddleware(s.security, s.metricsMiddleware(s.handleSearch)))
	return mux
}

// Run serves until ctx is canceled, then drains gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", logging.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// metricsMiddleware tracks in-flight and total request counts.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()
		s.metrics.CountRequest(r.URL.Path)
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// searchResponse is the JSON shape of a completed search. The exact integers
// are serialized as strings: x^11 + y^11 overflows every JSON number type
// long before k does anything interesting.
type searchResponse struct {
	N            int     `json:"n"`
	K            int     `json:"k"`
	X            int     `json:"x"`
	Y            int     `json:"y"`
	Z            int64   `json:"z"`
	Side         string  `json:"side"`
	Sum          string  `json:"sum"`
	ClosestPower string  `json:"closest_power"`
	AbsoluteMiss string  `json:"absolute_miss"`
	RelativeMiss float64 `json:"relative_miss"`
	Checked      uint64  `json:"checked"`
	DurationMS   float64 `json:"duration_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// countingObserver tallies improvements for the metrics. Parallel searches
// call OnImprovement from several workers, so the counter is atomic.
type countingObserver struct {
	improvements atomic.Uint64
}

func (o *countingObserver) OnImprovement(search.BestResult, uint64, uint64) {
	o.improvements.Add(1)
}

func (o *countingObserver) OnProgress(uint64, uint64) {}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}

	params, err := s.parseSearchParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), SearchTimeout)
	defer cancel()

	searcher := search.NewSearcher(params)
	counting := &countingObserver{}
	obs := progress.NewSubject()
	obs.Attach(counting)
	obs.Attach(progress.NewLoggingObserver(s.logger))
	start := time.Now()
	var (
		best    search.BestResult
		checked uint64
	)
	if s.workers > 1 {
		best, checked, err = searcher.RunParallel(ctx, s.workers, obs)
	} else {
		best, checked, err = searcher.Run(ctx, obs)
	}
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = apperrors.TimeoutError{Operation: "search", Limit: SearchTimeout}
		}
		s.logger.Error("search failed", err,
			logging.Int("n", params.N), logging.Int("k", params.K))
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	s.metrics.ObserveSearch(checked, counting.improvements.Load(), elapsed.Seconds())
	s.logger.Info("search served",
		logging.Int("n", params.N), logging.Int("k", params.K),
		logging.Uint64("checked", checked))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(searchResponse{
		N:            params.N,
		K:            params.K,
		X:            best.X,
		Y:            best.Y,
		Z:            best.Z,
		Side:         best.Side.String(),
		Sum:          best.Sum.String(),
		ClosestPower: best.ComparedPower.String(),
		AbsoluteMiss: best.AbsoluteMiss.String(),
		RelativeMiss: best.RelativeMiss,
		Checked:      checked,
		DurationMS:   float64(elapsed.Microseconds()) / 1000,
	})
}

// parseSearchParams reads and validates the n and k query parameters.
func (s *Server) parseSearchParams(r *http.Request) (search.Params, error) {
	q := r.URL.Query()
	n, err := strconv.Atoi(q.Get("n"))
	if err != nil {
		return search.Params{}, fmt.Errorf("invalid n: %q", q.Get("n"))
	}
	k, err := strconv.Atoi(q.Get("k"))
	if err != nil {
		return search.Params{}, fmt.Errorf("invalid k: %q", q.Get("k"))
	}

	params := search.Params{N: n, K: k}
	if err := params.Validate(); err != nil {
		return search.Params{}, err
	}
	if k > s.security.MaxK {
		return search.Params{}, fmt.Errorf("k must not exceed %d", s.security.MaxK)
	}
	return params, nil
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("method not allowed",
		logging.String("method", r.Method), logging.String("path", r.URL.Path))
	s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}
