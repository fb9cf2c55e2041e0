// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the JSON request and response bodies of the
// solver HTTP API, together with their validation rules.
package datatypes

import (
	"fmt"

	"github.com/AleutianAI/AleutianSolver/services/solver/search"
	"github.com/AleutianAI/AleutianSolver/services/solver/tiles"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// solverValidate is the validator instance for solver datatypes.
var solverValidate *validator.Validate

func init() {
	solverValidate = validator.New()
}

// NewSolutionID returns a fresh solution identifier (UUID v4).
func NewSolutionID() string {
	return uuid.NewString()
}

// Messages returned alongside successful responses.
const (
	MessagePuzzleGenerated = "Random puzzle generated successfully"
	MessagePuzzleSolved    = "Puzzle solved successfully"
	MessageGridGenerated   = "Random grid generated successfully"
	MessageGridSolved      = "Dirt reached successfully"
	MessageGridNoSolution  = "No solution: the dirt cannot be reached because of obstacles"
)

// =============================================================================
// 8-Puzzle Types
// =============================================================================

// PuzzleGenerateResponse is the body of GET /v1/puzzle/generate.
type PuzzleGenerateResponse struct {
	Board   [][]int `json:"board"`
	Message string  `json:"message"`
}

// PuzzleSolveRequest is the body of POST /v1/puzzle/solve and the first
// websocket message of a replay.
//
// # Validation
//
//   - Board: required, exactly 3 rows of 3 cells, each cell in 0..8
//   - ToBoard additionally requires every tile to appear exactly once
type PuzzleSolveRequest struct {
	Board [][]int `json:"board" validate:"required,len=3,dive,len=3,dive,gte=0,lte=8"`
}

// Validate checks the request shape.
func (r *PuzzleSolveRequest) Validate() error {
	return solverValidate.Struct(r)
}

// ToBoard validates the request and converts it to a tiles.Board.
func (r *PuzzleSolveRequest) ToBoard() (tiles.Board, error) {
	if err := r.Validate(); err != nil {
		return tiles.Board{}, fmt.Errorf("%w: %v", tiles.ErrInvalidBoard, err)
	}
	return tiles.FromRows(r.Board)
}

// PuzzleSolveResponse is the body of a successful POST /v1/puzzle/solve.
//
// # Fields
//
//   - SolutionID: Identifier of the archived solution and its report file.
//   - InitialBoard: The submitted configuration.
//   - Steps: Every configuration from the initial board to the goal,
//     inclusive.
//   - Moves: The blank's move for each transition; len(Moves) ==
//     len(Steps)-1.
//   - TotalCost: Sum of move costs.
type PuzzleSolveResponse struct {
	SolutionID   string    `json:"solution_id"`
	InitialBoard [][]int   `json:"initial_board"`
	Steps        [][][]int `json:"steps"`
	Moves        []string  `json:"moves"`
	TotalCost    int       `json:"total_cost"`
	Message      string    `json:"message"`
}

// NewPuzzleSolveResponse builds the response for a found result.
func NewPuzzleSolveResponse(id string, start tiles.Board, res *search.Result[tiles.Board]) PuzzleSolveResponse {
	states := res.States()
	steps := make([][][]int, 0, len(states))
	for _, s := range states {
		steps = append(steps, s.Rows())
	}
	return PuzzleSolveResponse{
		SolutionID:   id,
		InitialBoard: start.Rows(),
		Steps:        steps,
		Moves:        res.Labels(),
		TotalCost:    res.Cost,
		Message:      MessagePuzzleSolved,
	}
}

// ReplayFrame is one websocket frame of a solution replay.
type ReplayFrame struct {
	Step  int     `json:"step"`
	Move  string  `json:"move,omitempty"`
	Board [][]int `json:"board"`
}

// ReplayDone is the final websocket frame of a replay.
type ReplayDone struct {
	Done       bool   `json:"done"`
	SolutionID string `json:"solution_id"`
	TotalCost  int    `json:"total_cost"`
}
