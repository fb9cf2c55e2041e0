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

import "errors"

// Sentinel errors for search operations.
var (
	// ErrNilSpace is returned when Run is called without a state space.
	ErrNilSpace = errors.New("state space is nil")

	// ErrMissingHeuristic is returned when GreedyBestFirst is requested
	// without a heuristic function.
	ErrMissingHeuristic = errors.New("greedy best-first requires a heuristic")

	// ErrUnknownStrategy is returned for a strategy value outside the
	// defined constants.
	ErrUnknownStrategy = errors.New("unknown search strategy")

	// ErrNegativeCost is returned when a space produces a transition with
	// a cost below zero.
	ErrNegativeCost = errors.New("transition cost is negative")

	// ErrExpansionLimit is returned when Options.MaxExpansions is reached
	// before the frontier is exhausted or a goal is found.
	ErrExpansionLimit = errors.New("expansion limit reached")
)

// AlgorithmError describes a failure inside a search run.
type AlgorithmError struct {
	Algorithm string
	Operation string
	Err       error
}

func (e *AlgorithmError) Error() string {
	return e.Algorithm + "." + e.Operation + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is / errors.As.
func (e *AlgorithmError) Unwrap() error {
	return e.Err
}
