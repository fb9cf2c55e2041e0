// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/AleutianAI/AleutianSolver/cmd/solver/config"
	"github.com/AleutianAI/AleutianSolver/services/solver"
	"github.com/AleutianAI/AleutianSolver/services/solver/handlers"
	"github.com/AleutianAI/AleutianSolver/services/solver/middleware"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	port      int
	reportDir string
	dbPath    string
	inMemory  bool
}

func newServeCmd(app *cli) *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the solver HTTP API",
		Long: `Serve the solver HTTP API: puzzle and grid generation, solving,
websocket replay, solution history and Prometheus metrics.

Stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcCfg, err := app.serviceConfig(cmd, flags)
			if err != nil {
				return err
			}

			svc, err := solver.New(svcCfg)
			if err != nil {
				return fmt.Errorf("failed to create solver service: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app.console.Success(fmt.Sprintf("Solver listening on :%d", svcCfg.Port))
			if err := svc.Run(ctx); err != nil {
				return fmt.Errorf("solver service: %w", err)
			}
			app.console.Info("Solver stopped")
			return nil
		},
	}

	cmd.Flags().IntVar(&flags.port, "port", 0, "HTTP port (default from config, or SOLVER_PORT)")
	cmd.Flags().StringVar(&flags.reportDir, "report-dir", "", "directory for solution reports")
	cmd.Flags().StringVar(&flags.dbPath, "db", "", "BadgerDB directory for solution history")
	cmd.Flags().BoolVar(&flags.inMemory, "in-memory", false, "keep solution history in memory only")
	return cmd
}

// serviceConfig merges config file, SOLVER_PORT and flags, in increasing
// precedence.
func (a *cli) serviceConfig(cmd *cobra.Command, flags *serveFlags) (solver.Config, error) {
	server := a.cfg.Server

	port := server.Port
	if env := os.Getenv("SOLVER_PORT"); env != "" {
		p, err := strconv.Atoi(env)
		if err != nil {
			return solver.Config{}, fmt.Errorf("invalid SOLVER_PORT %q: %w", env, err)
		}
		port = p
	}
	if cmd.Flags().Changed("port") {
		port = flags.port
	}
	if port < 1 || port > 65535 {
		return solver.Config{}, fmt.Errorf("port %d out of range", port)
	}

	reportDir := server.ReportDir
	if flags.reportDir != "" {
		reportDir = flags.reportDir
	}
	dbPath := server.DBPath
	if flags.dbPath != "" {
		dbPath = flags.dbPath
	}
	inMemory := server.InMemoryDB || flags.inMemory
	if inMemory {
		dbPath = ""
	}

	telemetryCfg := a.cfg.Telemetry
	return solver.Config{
		Port:       port,
		GinMode:    server.GinMode,
		ReportDir:  config.ExpandPath(reportDir),
		DBPath:     config.ExpandPath(dbPath),
		InMemoryDB: inMemory,
		Handlers: handlers.Config{
			MaxConcurrentSolves: server.MaxConcurrentSolves,
			SolveTimeout:        server.SolveTimeout,
			ShuffleMoves:        a.cfg.Puzzle.ShuffleMoves,
			ReplayDelay:         a.cfg.Puzzle.ReplayDelay,
			HistoryLimit:        server.HistoryLimit,
		},
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: server.RateLimitRPS,
			Burst:             server.RateLimitBurst,
			IdleTTL:           10 * time.Minute,
		},
		Telemetry: &telemetryCfg,
		Logger:    a.logger.Slog().With(slog.String("command", "serve")),
	}, nil
}
