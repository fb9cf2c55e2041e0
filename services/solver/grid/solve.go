// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package grid

import (
	"context"

	"github.com/AleutianAI/AleutianSolver/services/solver/search"
)

// Solve runs a breadth-first search from the world's start to its dirt.
//
// onVisit may be nil; when set it is called with every dequeued position
// and a non-nil return aborts the search.
func Solve(ctx context.Context, w *World, onVisit func(Coord) error) (*search.Result[Coord], error) {
	if w == nil {
		return nil, search.ErrNilSpace
	}
	return search.Run[Coord, Coord](ctx, w, w.Start(), search.Options[Coord]{
		Strategy: search.BreadthFirst,
		OnVisit:  onVisit,
	})
}

// Manhattan returns |a.Row-b.Row| + |a.Col-b.Col|.
func Manhattan(a, b Coord) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
