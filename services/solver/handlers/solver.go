// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the gin handlers of the solver HTTP API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/AleutianAI/AleutianSolver/services/solver/observability"
	"github.com/AleutianAI/AleutianSolver/services/solver/search"
	"github.com/AleutianAI/AleutianSolver/services/solver/storage"
	"github.com/AleutianAI/AleutianSolver/services/solver/worker"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

var handlerTracer = otel.Tracer("aleutian.solver.handlers")

// Errors surfaced by the shared solve path.
var (
	// errBusy means no concurrency slot became free before the request
	// context ended.
	errBusy = errors.New("solver busy")

	// errNoSolution is the message of a failed 8-puzzle solve.
	errNoSolution = errors.New("no solution found")
)

// Config tunes the handlers. Zero values take defaults.
type Config struct {
	// MaxConcurrentSolves bounds searches running at once. Default: 4.
	MaxConcurrentSolves int64

	// SolveTimeout bounds one search. Default: 10s.
	SolveTimeout time.Duration

	// ShuffleMoves is the number of random moves used to generate a puzzle.
	// Default: 100.
	ShuffleMoves int

	// ReplayDelay is the pause between websocket replay frames.
	// Default: 0 (no pause).
	ReplayDelay time.Duration

	// HistoryLimit is the default page size of GET /v1/solutions.
	// Default: 20.
	HistoryLimit int
}

func (c Config) withDefaults() Config {
	if c.MaxConcurrentSolves <= 0 {
		c.MaxConcurrentSolves = 4
	}
	if c.SolveTimeout <= 0 {
		c.SolveTimeout = 10 * time.Second
	}
	if c.ShuffleMoves <= 0 {
		c.ShuffleMoves = 100
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 20
	}
	return c
}

// Solver holds the dependencies shared by the solve handlers.
//
// Thread Safety: Safe for concurrent use.
type Solver struct {
	cfg     Config
	archive *storage.Archive
	metrics *observability.SolverMetrics
	sem     *semaphore.Weighted
	flights singleflight.Group
	newRand func() *rand.Rand
	logger  *slog.Logger
}

// NewSolver creates the handler dependencies.
//
// Inputs:
//   - cfg: Limits and defaults.
//   - archive: Report and history store. May be nil, which disables
//     reports and the /v1/solutions endpoints.
//   - metrics: Prometheus metrics. May be nil.
//   - logger: Logger. Default: slog.Default().
func NewSolver(cfg Config, archive *storage.Archive, metrics *observability.SolverMetrics, logger *slog.Logger) *Solver {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Solver{
		cfg:     cfg,
		archive: archive,
		metrics: metrics,
		sem:     semaphore.NewWeighted(cfg.MaxConcurrentSolves),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		logger: logger.With(slog.String("component", "solver_handlers")),
	}
}

// WithRand replaces the random source factory used by the generators.
func (s *Solver) WithRand(factory func() *rand.Rand) *Solver {
	s.newRand = factory
	return s
}

// solveJob runs a search with a visit hook that enforces cancellation.
type solveJob[S any] func(ctx context.Context, onVisit func(S) error) (*search.Result[S], error)

// boundedSolve runs job under the concurrency limit, the solve timeout and
// a worker span, and records the outcome in metrics.
func boundedSolve[S any](ctx context.Context, s *Solver, puzzle observability.Puzzle, job solveJob[S]) (*search.Result[S], error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, errBusy
	}
	defer s.sem.Release(1)

	s.metrics.SolveStarted(puzzle)
	defer s.metrics.SolveEnded(puzzle)

	outcome := worker.Await(ctx, string(puzzle), func(ctx context.Context) (*search.Result[S], error) {
		return job(ctx, worker.Checkpoint[S](ctx))
	}, worker.Options{Timeout: s.cfg.SolveTimeout, Logger: s.logger})

	seconds := outcome.Duration.Seconds()
	switch {
	case outcome.Cancelled:
		s.metrics.RecordSolve(puzzle, observability.OutcomeCancelled, seconds, 0)
	case outcome.Err != nil:
		s.metrics.RecordSolve(puzzle, observability.OutcomeError, seconds, 0)
	case outcome.Value.Found:
		s.metrics.RecordSolve(puzzle, observability.OutcomeFound, seconds, outcome.Value.Stats.Visited)
	default:
		s.metrics.RecordSolve(puzzle, observability.OutcomeNotFound, seconds, outcome.Value.Stats.Visited)
	}

	if outcome.Err != nil {
		return nil, outcome.Err
	}
	return outcome.Value, nil
}

// writeSolveError maps a boundedSolve error to an HTTP response.
func (s *Solver) writeSolveError(c *gin.Context, endpoint string, err error) {
	switch {
	case errors.Is(err, errBusy):
		s.metrics.RecordRejected(endpoint, observability.RejectBusy)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "solver busy, try again later"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "solve timed out"})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "solve cancelled"})
	default:
		s.logger.Error("solve failed", slog.String("endpoint", endpoint), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal solver error"})
	}
}

// archiveSolve writes the report file for rec.ID and stores rec with its
// initial configuration. Without an archive it does nothing; an archive
// without a report directory stores the record only.
func (s *Solver) archiveSolve(rec storage.Record, initial any, render func(io.Writer) error) error {
	if s.archive == nil {
		return nil
	}
	path, err := s.archive.WriteReport(rec.ID, render)
	switch {
	case errors.Is(err, storage.ErrNoReportDir):
	case err != nil:
		return err
	default:
		rec.ReportPath = path
	}

	raw, err := json.Marshal(initial)
	if err != nil {
		return fmt.Errorf("failed to encode initial configuration: %w", err)
	}
	rec.Initial = raw
	rec.CreatedAt = time.Now().UTC()
	return s.archive.Put(rec)
}
