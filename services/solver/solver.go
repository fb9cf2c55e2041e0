// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package solver assembles the state-space search HTTP service.
package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/AleutianAI/AleutianSolver/services/solver/handlers"
	"github.com/AleutianAI/AleutianSolver/services/solver/middleware"
	"github.com/AleutianAI/AleutianSolver/services/solver/observability"
	"github.com/AleutianAI/AleutianSolver/services/solver/routes"
	"github.com/AleutianAI/AleutianSolver/services/solver/storage"
	"github.com/AleutianAI/AleutianSolver/services/solver/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the solver service.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and should
// only be called once per instance.
//
// # Assumptions
//
//   - Service is fully initialized before Run() is called
type Service interface {
	// Run starts the HTTP server and blocks until ctx is cancelled or the
	// server fails. Cancelling ctx shuts the server down gracefully and
	// releases the archive and telemetry.
	Run(ctx context.Context) error

	// Router returns the configured Gin engine, for tests.
	Router() *gin.Engine

	// Close releases resources without running. Safe to call after Run.
	Close() error
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds solver service configuration.
//
// # Examples
//
//	// Defaults: port 12230, reports in ./solutions, history in ./data/solver
//	svc, err := solver.New(solver.Config{})
//
//	// Test setup: no files outside the temp dir, isolated metrics
//	svc, err := solver.New(solver.Config{
//	    ReportDir:  t.TempDir(),
//	    InMemoryDB: true,
//	    Registry:   prometheus.NewRegistry(),
//	})
type Config struct {
	// Port is the HTTP server port. Default: 12230
	Port int

	// GinMode sets the Gin framework mode ("debug", "release", "test").
	// Default: leaves Gin's mode unchanged.
	GinMode string

	// ReportDir receives one <solution_id>.txt report per solve.
	// Default: "./solutions"
	ReportDir string

	// DBPath is the BadgerDB directory for solution history.
	// Default: "./data/solver"
	DBPath string

	// InMemoryDB keeps solution history in memory only.
	InMemoryDB bool

	// DBGCInterval is how often BadgerDB value-log GC runs.
	// Default: 10 minutes. Ignored for in-memory databases.
	DBGCInterval time.Duration

	// DBGCDiscardRatio is the discardable fraction of a value log file
	// that triggers a rewrite. Default: 0.5
	DBGCDiscardRatio float64

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration

	// Handlers tunes solve limits, generation and replay.
	Handlers handlers.Config

	// RateLimit throttles the solve endpoints per client IP. Zero disables.
	RateLimit middleware.RateLimitConfig

	// Telemetry configures tracing and OpenTelemetry metrics.
	// Default: telemetry.DefaultConfig()
	Telemetry *telemetry.Config

	// Registry isolates Prometheus service metrics. When nil the metrics
	// are registered once on the default registry.
	Registry *prometheus.Registry

	// Logger is the service logger. Default: slog.Default()
	Logger *slog.Logger
}

func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12230
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "./solutions"
	}
	if cfg.DBPath == "" && !cfg.InMemoryDB {
		cfg.DBPath = "./data/solver"
	}
	if cfg.DBGCInterval == 0 {
		cfg.DBGCInterval = 10 * time.Minute
	}
	if cfg.DBGCDiscardRatio == 0 {
		cfg.DBGCDiscardRatio = 0.5
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Telemetry == nil {
		tc := telemetry.DefaultConfig()
		cfg.Telemetry = &tc
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// =============================================================================
// Implementation
// =============================================================================

type service struct {
	config    Config
	router    *gin.Engine
	archive   *storage.Archive
	metrics   *observability.SolverMetrics
	telemetry func(context.Context) error
	logger    *slog.Logger
	closeOnce sync.Once
	closeErr  error
}

var (
	defaultMetricsOnce sync.Once
	defaultMetrics     *observability.SolverMetrics
)

// New creates a solver Service.
//
// # Description
//
// New initializes, in order:
//  1. Default configuration for missing values
//  2. OpenTelemetry tracer and meter providers
//  3. Prometheus service metrics
//  4. The solution archive (report directory and BadgerDB history)
//  5. HTTP routes with otelgin tracing
//
// # Outputs
//
//   - Service: Ready-to-run service
//   - error: Non-nil if telemetry or the archive cannot be initialized.
//     Anything already started is released.
func New(cfg Config) (Service, error) {
	s := &service{config: applyConfigDefaults(cfg)}
	s.logger = s.config.Logger.With(slog.String("component", "solver_service"))

	shutdown, err := telemetry.Init(context.Background(), *s.config.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	s.telemetry = shutdown

	metricsHandler := s.initMetrics()

	s.archive, err = storage.OpenArchive(storage.ArchiveConfig{
		ReportDir: s.config.ReportDir,
		DB: storage.Config{
			Path:       s.config.DBPath,
			InMemory:   s.config.InMemoryDB,
			SyncWrites: true,
			Logger:     s.config.Logger,
			GCInterval: s.config.DBGCInterval,

			GCDiscardRatio: s.config.DBGCDiscardRatio,
		},
	})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to open solution archive: %w", err)
	}

	s.initRouter(metricsHandler)
	return s, nil
}

func (s *service) initMetrics() http.Handler {
	if s.config.Registry != nil {
		s.metrics = observability.NewSolverMetrics(s.config.Registry)
		return promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{})
	}

	defaultMetricsOnce.Do(func() {
		defaultMetrics = observability.InitMetrics()
		slog.Info("Initialized Prometheus metrics for solver")
	})
	s.metrics = defaultMetrics
	if h := telemetry.MetricsHandler(); h != nil {
		return h
	}
	return promhttp.Handler()
}

func (s *service) initRouter(metricsHandler http.Handler) {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.New()
	s.router.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		s.router.Use(gin.Logger())
	}
	s.router.Use(otelgin.Middleware(s.config.Telemetry.ServiceName))

	solver := handlers.NewSolver(s.config.Handlers, s.archive, s.metrics, s.config.Logger)
	routes.SetupRoutes(s.router, solver, routes.Options{
		MetricsHandler: metricsHandler,
		RateLimit:      s.config.RateLimit,
		Metrics:        s.metrics,
	})
}

func (s *service) Run(ctx context.Context) error {
	defer s.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting solver server", slog.Int("port", s.config.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down solver server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func (s *service) Router() *gin.Engine {
	return s.router
}

func (s *service) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.archive != nil {
			if err := s.archive.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close archive: %w", err))
			}
		}
		if s.telemetry != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.telemetry(ctx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown telemetry: %w", err))
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
