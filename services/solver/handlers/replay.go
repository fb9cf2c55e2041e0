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
	"log/slog"
	"net/http"
	"time"

	"github.com/AleutianAI/AleutianSolver/services/solver/datatypes"
	"github.com/AleutianAI/AleutianSolver/services/solver/observability"
	"github.com/AleutianAI/AleutianSolver/services/solver/search"
	"github.com/AleutianAI/AleutianSolver/services/solver/tiles"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// replayError is the frame sent when a request cannot be replayed. The
// connection stays open for the next request.
type replayError struct {
	Error string `json:"error"`
}

func sendJSON(ws *websocket.Conn, v any) error {
	err := ws.WriteJSON(v)
	if err != nil {
		slog.Warn("Failed to write WebSocket JSON", "error", err)
	}
	return err
}

// HandleReplayPuzzle streams 8-puzzle solutions over a websocket.
//
// # Protocol
//
// The client sends a PuzzleSolveRequest. The server answers with one
// ReplayFrame per configuration, step 0 being the initial board, paced by
// the configured replay delay, followed by a ReplayDone frame. Failures are
// reported as {"error": "..."}. The client may send further requests on the
// same connection.
func HandleReplayPuzzle(s *Solver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			s.logger.Error("failed to upgrade the websocket", slog.String("error", err.Error()))
			return
		}
		defer ws.Close()
		s.logger.Info("Replay client connected")

		for {
			var req datatypes.PuzzleSolveRequest
			if err := ws.ReadJSON(&req); err != nil {
				s.logger.Info("Replay client disconnected", slog.String("error", err.Error()))
				return
			}
			if err := s.replay(c.Request.Context(), ws, req); err != nil {
				return
			}
		}
	}
}

// replay serves one request. It returns an error only when the connection
// is no longer usable.
func (s *Solver) replay(ctx context.Context, ws *websocket.Conn, req datatypes.PuzzleSolveRequest) error {
	ctx, span := handlerTracer.Start(ctx, "HandleReplayPuzzle")
	defer span.End()

	board, err := req.ToBoard()
	if err != nil {
		s.metrics.RecordRejected(endpointPuzzleReplay, observability.RejectValidation)
		return sendJSON(ws, replayError{Error: err.Error()})
	}

	res, err := s.solvePuzzle(ctx, board)
	switch {
	case errors.Is(err, errBusy):
		s.metrics.RecordRejected(endpointPuzzleReplay, observability.RejectBusy)
		return sendJSON(ws, replayError{Error: "solver busy, try again later"})
	case err != nil:
		return sendJSON(ws, replayError{Error: err.Error()})
	case !res.Found:
		return sendJSON(ws, replayError{Error: errNoSolution.Error()})
	}

	id := datatypes.NewSolutionID()
	if err := s.archivePuzzle(id, board, res); err != nil {
		s.logger.Warn("failed to archive replayed solution", slog.String("solution_id", id), slog.String("error", err.Error()))
	}

	if err := s.streamFrames(ctx, ws, res); err != nil {
		return err
	}
	cost, _ := res.TotalCost()
	return sendJSON(ws, datatypes.ReplayDone{Done: true, SolutionID: id, TotalCost: cost})
}

func (s *Solver) streamFrames(ctx context.Context, ws *websocket.Conn, res *search.Result[tiles.Board]) error {
	labels := res.Labels()
	for i, b := range res.States() {
		if i > 0 && s.cfg.ReplayDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.cfg.ReplayDelay):
			}
		}
		frame := datatypes.ReplayFrame{Step: i, Board: b.Rows()}
		if i > 0 {
			frame.Move = labels[i-1]
		}
		if err := sendJSON(ws, frame); err != nil {
			return err
		}
		s.metrics.RecordReplayFrame()
	}
	return nil
}
