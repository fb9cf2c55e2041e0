// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package search

// Transition is one legal move out of a state.
//
// Transitions are produced on demand by Space.Successors and are never
// stored apart from the state that generated them.
type Transition[S any] struct {
	// Label names the move (e.g. "UP", "RIGHT").
	Label string

	// Cost is the non-negative cost of taking this move.
	Cost int

	// State is the configuration reached by the move.
	State S
}

// Space describes an implicit graph of states.
//
// Description:
//
//	Implementations are pure: calling any method must not modify the
//	receiver or the argument. S is the state value; K is its canonical,
//	hashable key. Two states with the same key are treated as the same
//	node of the graph.
//
// Thread Safety: Implementations should be safe for concurrent reads, but
// a single search never calls a Space from more than one goroutine.
type Space[S any, K comparable] interface {
	// Successors returns the legal moves out of s in a deterministic order.
	Successors(s S) []Transition[S]

	// IsGoal reports whether s satisfies the goal test.
	IsGoal(s S) bool

	// Key returns the canonical key of s.
	Key(s S) K
}

// Heuristic estimates the remaining distance from a state to the goal.
//
// It must be deterministic and depend only on the state's content.
type Heuristic[S any] func(s S) int
