// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/AleutianSolver/services/solver/grid"
	"github.com/AleutianAI/AleutianSolver/services/solver/search"
)

// =============================================================================
// Vacuum World Types
// =============================================================================

// GridWorld is the wire form of a vacuum world. Coordinates are [row, col].
type GridWorld struct {
	Rows      int            `json:"rows" validate:"required,gte=1,lte=64"`
	Cols      int            `json:"cols" validate:"required,gte=1,lte=64"`
	Obstacles [][2]int       `json:"obstacles" validate:"lte=4096"`
	Start     *[2]int        `json:"start" validate:"required"`
	Target    *[2]int        `json:"target" validate:"required"`
	Costs     map[string]int `json:"costs,omitempty" validate:"omitempty,dive,keys,oneof=UP DOWN LEFT RIGHT up down left right,endkeys,gte=0,lte=1000"`
}

// GridWorldFrom converts a grid.World to its wire form.
func GridWorldFrom(w *grid.World) GridWorld {
	obstacles := make([][2]int, 0)
	for _, o := range w.Obstacles() {
		obstacles = append(obstacles, [2]int{o.Row, o.Col})
	}
	costs := make(map[string]int, len(grid.Directions))
	for _, d := range grid.Directions {
		costs[d.String()] = w.Costs().Of(d)
	}
	return GridWorld{
		Rows:      w.Rows(),
		Cols:      w.Cols(),
		Obstacles: obstacles,
		Start:     &[2]int{w.Start().Row, w.Start().Col},
		Target:    &[2]int{w.Target().Row, w.Target().Col},
		Costs:     costs,
	}
}

// Validate checks the field-level rules.
func (g *GridWorld) Validate() error {
	return solverValidate.Struct(g)
}

// ToWorld validates g and builds a grid.World. Missing cost entries keep
// their defaults (UP=2 DOWN=0 LEFT=1 RIGHT=1). Direction names are case
// insensitive, so "UP" and "up" together are rejected.
func (g *GridWorld) ToWorld() (*grid.World, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", grid.ErrInvalidWorld, err)
	}

	costs, err := grid.CostsFromNames(g.Costs)
	if err != nil {
		return nil, err
	}

	obstacles := make([]grid.Coord, 0, len(g.Obstacles))
	for _, o := range g.Obstacles {
		obstacles = append(obstacles, grid.Coord{Row: o[0], Col: o[1]})
	}
	return grid.NewWorld(g.Rows, g.Cols, obstacles,
		grid.Coord{Row: g.Start[0], Col: g.Start[1]},
		grid.Coord{Row: g.Target[0], Col: g.Target[1]},
		costs)
}

// GridGenerateRequest is the optional body of POST /v1/grid/generate.
type GridGenerateRequest struct {
	Rows int    `json:"rows" validate:"omitempty,gte=2,lte=64"`
	Cols int    `json:"cols" validate:"omitempty,gte=2,lte=64"`
	Seed *int64 `json:"seed,omitempty"`
}

// Validate checks the field-level rules.
func (r *GridGenerateRequest) Validate() error {
	return solverValidate.Struct(r)
}

// GridGenerateResponse is the body of POST /v1/grid/generate.
type GridGenerateResponse struct {
	World   GridWorld `json:"world"`
	Board   []string  `json:"board"`
	Message string    `json:"message"`
}

// NewGridGenerateResponse renders w for the response.
func NewGridGenerateResponse(w *grid.World) GridGenerateResponse {
	return GridGenerateResponse{
		World:   GridWorldFrom(w),
		Board:   strings.Split(w.Draw(w.Start()), "\n"),
		Message: MessageGridGenerated,
	}
}

// GridSolveRequest is the body of POST /v1/grid/solve.
type GridSolveRequest struct {
	GridWorld
}

// GridStep is one move of a grid solution.
type GridStep struct {
	Step     int    `json:"step"`
	Move     string `json:"move"`
	Position [2]int `json:"position"`
	Cost     int    `json:"cost"`
	Total    int    `json:"total"`
}

// GridSolveResponse is the body of POST /v1/grid/solve. No solution is a
// valid outcome: Found is false, Steps is empty and TotalCost is omitted.
type GridSolveResponse struct {
	SolutionID string     `json:"solution_id"`
	Found      bool       `json:"found"`
	Steps      []GridStep `json:"steps"`
	TotalCost  *int       `json:"total_cost,omitempty"`
	Visited    int        `json:"visited"`
	Message    string     `json:"message"`
}

// NewGridSolveResponse builds the response for res.
func NewGridSolveResponse(id string, res *search.Result[grid.Coord]) GridSolveResponse {
	resp := GridSolveResponse{
		SolutionID: id,
		Found:      res.Found,
		Steps:      []GridStep{},
		Visited:    res.Stats.Visited,
		Message:    MessageGridNoSolution,
	}
	cost, ok := res.TotalCost()
	if !ok {
		return resp
	}

	running := res.RunningCosts()
	for i, s := range res.Steps {
		resp.Steps = append(resp.Steps, GridStep{
			Step:     i + 1,
			Move:     s.Label,
			Position: [2]int{s.State.Row, s.State.Col},
			Cost:     s.Cost,
			Total:    running[i],
		})
	}
	resp.TotalCost = &cost
	resp.Message = MessageGridSolved
	return resp
}
