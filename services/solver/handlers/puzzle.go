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
	"io"
	"log/slog"
	"net/http"

	"github.com/AleutianAI/AleutianSolver/services/solver/datatypes"
	"github.com/AleutianAI/AleutianSolver/services/solver/observability"
	"github.com/AleutianAI/AleutianSolver/services/solver/report"
	"github.com/AleutianAI/AleutianSolver/services/solver/search"
	"github.com/AleutianAI/AleutianSolver/services/solver/storage"
	"github.com/AleutianAI/AleutianSolver/services/solver/tiles"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const (
	endpointPuzzleGenerate = "puzzle_generate"
	endpointPuzzleSolve    = "puzzle_solve"
	endpointPuzzleReplay   = "puzzle_replay"
)

// HandleGeneratePuzzle returns a solvable 8-puzzle built by shuffling the
// goal configuration.
func HandleGeneratePuzzle(s *Solver) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := handlerTracer.Start(c.Request.Context(), "HandleGeneratePuzzle")
		defer span.End()

		board, err := tiles.Generate(s.newRand(), s.cfg.ShuffleMoves)
		if err != nil {
			s.logger.Error("failed to generate puzzle", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate puzzle"})
			return
		}

		c.JSON(http.StatusOK, datatypes.PuzzleGenerateResponse{
			Board:   board.Rows(),
			Message: datatypes.MessagePuzzleGenerated,
		})
	}
}

// HandleSolvePuzzle solves the submitted 8-puzzle with greedy best-first
// search.
//
// # Responses
//
//   - 200: PuzzleSolveResponse. The report file and history record are
//     written before responding.
//   - 400: Malformed body or invalid board. Nothing is written.
//   - 500: {"error": "no solution found"} when the frontier is exhausted.
//   - 503: Solver busy, timed out or cancelled.
func HandleSolvePuzzle(s *Solver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := handlerTracer.Start(c.Request.Context(), "HandleSolvePuzzle")
		defer span.End()

		var req datatypes.PuzzleSolveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.metrics.RecordRejected(endpointPuzzleSolve, observability.RejectValidation)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		board, err := req.ToBoard()
		if err != nil {
			s.metrics.RecordRejected(endpointPuzzleSolve, observability.RejectValidation)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		span.SetAttributes(attribute.String("puzzle.board", board.String()))

		res, err := s.solvePuzzle(ctx, board)
		if err != nil {
			s.writeSolveError(c, endpointPuzzleSolve, err)
			return
		}
		if !res.Found {
			s.logger.Error("no solution found", slog.String("board", board.String()),
				slog.Int("visited", res.Stats.Visited))
			c.JSON(http.StatusInternalServerError, gin.H{"error": errNoSolution.Error()})
			return
		}

		id := datatypes.NewSolutionID()
		if err := s.archivePuzzle(id, board, res); err != nil {
			s.logger.Error("failed to archive solution", slog.String("solution_id", id), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write solution report"})
			return
		}
		span.SetAttributes(attribute.String("solution.id", id), attribute.Int("solution.steps", res.Len()))

		c.JSON(http.StatusOK, datatypes.NewPuzzleSolveResponse(id, board, res))
	}
}

// solvePuzzle collapses concurrent solves of the same board into one search.
// The first caller's context governs the shared search.
func (s *Solver) solvePuzzle(ctx context.Context, board tiles.Board) (*search.Result[tiles.Board], error) {
	v, err, shared := s.flights.Do("tiles:"+board.String(), func() (any, error) {
		return boundedSolve(ctx, s, observability.PuzzleTiles,
			func(ctx context.Context, onVisit func(tiles.Board) error) (*search.Result[tiles.Board], error) {
				return tiles.Solve(ctx, board, onVisit)
			})
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("shared puzzle solve", slog.String("board", board.String()))
	}
	return v.(*search.Result[tiles.Board]), nil
}

// archivePuzzle writes the report file and the history record of a found
// solution.
func (s *Solver) archivePuzzle(id string, board tiles.Board, res *search.Result[tiles.Board]) error {
	cost, _ := res.TotalCost()
	return s.archiveSolve(storage.Record{
		ID:        id,
		Kind:      string(observability.PuzzleTiles),
		Found:     res.Found,
		Steps:     len(res.Steps),
		TotalCost: cost,
		Visited:   res.Stats.Visited,
	}, board.Rows(), func(w io.Writer) error {
		return report.WritePuzzle(w, board, res)
	})
}
