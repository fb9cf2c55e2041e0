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

import (
	"slices"
	"time"
)

// Step is one move of a reconstructed path.
type Step[S any] struct {
	// Label names the move taken.
	Label string `json:"move"`

	// Cost is the cost of this move alone.
	Cost int `json:"cost"`

	// State is the configuration after the move.
	State S `json:"state"`
}

// Stats describes how much work a search did.
type Stats struct {
	// Visited counts dequeued states, including the goal.
	Visited int `json:"visited"`

	// Expanded counts states whose successors were generated.
	Expanded int `json:"expanded"`

	// Generated counts states scheduled for the first time, including start.
	Generated int `json:"generated"`

	// MaxFrontier is the largest frontier size observed.
	MaxFrontier int `json:"max_frontier"`

	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration_ns"`
}

// Result is the outcome of a search.
//
// Description:
//
//	Either Found with a path and its total cost, or not found with no path
//	at all. A Result is never partially populated: when Found is false,
//	Steps is nil and Cost is zero, and TotalCost reports ok=false so the
//	absence of a cost cannot be mistaken for a zero cost.
type Result[S any] struct {
	Found    bool
	Start    S
	Steps    []Step[S]
	Cost     int
	Strategy Strategy
	Stats    Stats
}

// TotalCost returns the summed move cost. ok is false when no path exists.
func (r *Result[S]) TotalCost() (cost int, ok bool) {
	if r == nil || !r.Found {
		return 0, false
	}
	return r.Cost, true
}

// Len returns the number of moves in the path, or -1 when not found.
func (r *Result[S]) Len() int {
	if r == nil || !r.Found {
		return -1
	}
	return len(r.Steps)
}

// States returns the configurations from start to goal, both inclusive.
// Returns nil when not found.
func (r *Result[S]) States() []S {
	if r == nil || !r.Found {
		return nil
	}
	out := make([]S, 0, len(r.Steps)+1)
	out = append(out, r.Start)
	for _, s := range r.Steps {
		out = append(out, s.State)
	}
	return out
}

// Labels returns the move labels in path order. Returns nil when not found.
func (r *Result[S]) Labels() []string {
	if r == nil || !r.Found {
		return nil
	}
	out := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Label
	}
	return out
}

// RunningCosts returns the cumulative cost after each step.
func (r *Result[S]) RunningCosts() []int {
	if r == nil || !r.Found {
		return nil
	}
	out := make([]int, len(r.Steps))
	total := 0
	for i, s := range r.Steps {
		total += s.Cost
		out[i] = total
	}
	return out
}

// -----------------------------------------------------------------------------
// Path reconstruction
// -----------------------------------------------------------------------------

// link is the arena record for one scheduled state.
//
// The arena maps canonical keys to parent keys, so states never hold
// references to each other and stay trivially comparable.
type link[S any, K comparable] struct {
	parent K
	label  string
	cost   int
	state  S
	root   bool
}

// reconstruct walks parent links from goal back to the root and returns the
// steps in forward order together with their summed cost.
func reconstruct[S any, K comparable](arena map[K]link[S, K], goal K) ([]Step[S], int) {
	steps := make([]Step[S], 0)
	total := 0
	for key := goal; ; {
		l := arena[key]
		if l.root {
			break
		}
		steps = append(steps, Step[S]{Label: l.label, Cost: l.cost, State: l.state})
		total += l.cost
		key = l.parent
	}
	slices.Reverse(steps)
	return steps, total
}
