// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"net/http"

	"github.com/AleutianAI/AleutianSolver/services/solver/datatypes"
	"github.com/AleutianAI/AleutianSolver/services/solver/grid"
	"github.com/AleutianAI/AleutianSolver/services/solver/observability"
	"github.com/AleutianAI/AleutianSolver/services/solver/report"
	"github.com/AleutianAI/AleutianSolver/services/solver/search"
	"github.com/AleutianAI/AleutianSolver/services/solver/storage"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const (
	endpointGridGenerate = "grid_generate"
	endpointGridSolve    = "grid_solve"
)

// HandleGenerateGrid returns a random vacuum world. The body is optional;
// it may override the board size and fix the random seed.
func HandleGenerateGrid(s *Solver) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := handlerTracer.Start(c.Request.Context(), "HandleGenerateGrid")
		defer span.End()

		// An empty body, chunked or not, means defaults.
		var req datatypes.GridGenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			s.metrics.RecordRejected(endpointGridGenerate, observability.RejectValidation)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			s.metrics.RecordRejected(endpointGridGenerate, observability.RejectValidation)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rng := s.newRand()
		if req.Seed != nil {
			rng = rand.New(rand.NewSource(*req.Seed))
			span.SetAttributes(attribute.Int64("grid.seed", *req.Seed))
		}
		cfg := grid.DefaultGenerateConfig()
		if req.Rows > 0 {
			cfg.Rows = req.Rows
		}
		if req.Cols > 0 {
			cfg.Cols = req.Cols
		}

		world, err := grid.Generate(rng, cfg)
		if err != nil {
			s.logger.Error("failed to generate grid", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate grid"})
			return
		}
		c.JSON(http.StatusOK, datatypes.NewGridGenerateResponse(world))
	}
}

// HandleSolveGrid runs breadth-first search from the vacuum to the dirt.
//
// # Responses
//
//   - 200: GridSolveResponse. An unreachable target is a valid answer with
//     found=false. The report file and history record are written in both
//     cases.
//   - 400: Malformed body or invalid world.
//   - 503: Solver busy, timed out or cancelled.
func HandleSolveGrid(s *Solver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := handlerTracer.Start(c.Request.Context(), "HandleSolveGrid")
		defer span.End()

		var req datatypes.GridSolveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.metrics.RecordRejected(endpointGridSolve, observability.RejectValidation)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		world, err := req.ToWorld()
		if err != nil {
			s.metrics.RecordRejected(endpointGridSolve, observability.RejectValidation)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		span.SetAttributes(
			attribute.Int("grid.rows", world.Rows()),
			attribute.Int("grid.cols", world.Cols()),
		)

		res, err := boundedSolve(ctx, s, observability.PuzzleGrid,
			func(ctx context.Context, onVisit func(grid.Coord) error) (*search.Result[grid.Coord], error) {
				return grid.Solve(ctx, world, onVisit)
			})
		if err != nil {
			s.writeSolveError(c, endpointGridSolve, err)
			return
		}

		id := datatypes.NewSolutionID()
		if err := s.archiveGrid(id, world, res); err != nil {
			s.logger.Error("failed to archive solution", slog.String("solution_id", id), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write solution report"})
			return
		}
		span.SetAttributes(attribute.String("solution.id", id), attribute.Bool("solution.found", res.Found))

		c.JSON(http.StatusOK, datatypes.NewGridSolveResponse(id, res))
	}
}

func (s *Solver) archiveGrid(id string, world *grid.World, res *search.Result[grid.Coord]) error {
	cost, _ := res.TotalCost()
	return s.archiveSolve(storage.Record{
		ID:        id,
		Kind:      string(observability.PuzzleGrid),
		Found:     res.Found,
		Steps:     len(res.Steps),
		TotalCost: cost,
		Visited:   res.Stats.Visited,
	}, datatypes.GridWorldFrom(world), func(w io.Writer) error {
		return report.WriteGrid(w, world, res)
	})
}
