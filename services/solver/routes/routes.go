// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"net/http"

	"github.com/AleutianAI/AleutianSolver/services/solver/handlers"
	"github.com/AleutianAI/AleutianSolver/services/solver/middleware"
	"github.com/AleutianAI/AleutianSolver/services/solver/observability"
	"github.com/gin-gonic/gin"
)

// Options carries the optional parts of the route table.
type Options struct {
	// MetricsHandler is served at GET /metrics when non-nil.
	MetricsHandler http.Handler

	// RateLimit throttles the solve endpoints per client IP.
	RateLimit middleware.RateLimitConfig

	// Metrics receives rate-limit rejections. May be nil.
	Metrics *observability.SolverMetrics
}

func SetupRoutes(router *gin.Engine, solver *handlers.Solver, opts Options) {
	router.GET("/health", handlers.HealthCheck)
	if opts.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	// API version 1 group
	v1 := router.Group("/v1")
	{
		puzzle := v1.Group("/puzzle")
		puzzle.Use(middleware.RateLimit("puzzle", opts.RateLimit, opts.Metrics))
		{
			puzzle.GET("/generate", handlers.HandleGeneratePuzzle(solver))
			puzzle.POST("/solve", handlers.HandleSolvePuzzle(solver))
			puzzle.GET("/solve/ws", handlers.HandleReplayPuzzle(solver))
		}

		grid := v1.Group("/grid")
		grid.Use(middleware.RateLimit("grid", opts.RateLimit, opts.Metrics))
		{
			grid.POST("/generate", handlers.HandleGenerateGrid(solver))
			grid.POST("/solve", handlers.HandleSolveGrid(solver))
		}

		// Solution history
		solutions := v1.Group("/solutions")
		{
			solutions.GET("", handlers.HandleListSolutions(solver))
			solutions.GET("/:id", handlers.HandleGetSolution(solver))
			solutions.GET("/:id/report", handlers.HandleGetReport(solver))
		}
	}
}
