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
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
)

// Options configures a single search run.
type Options[S any] struct {
	// Strategy selects the frontier order. Default: BreadthFirst.
	Strategy Strategy

	// Heuristic estimates the remaining distance of a state.
	// Required for GreedyBestFirst, ignored by BreadthFirst.
	Heuristic Heuristic[S]

	// MaxExpansions stops the search with ErrExpansionLimit after this many
	// expansions. Zero means unlimited.
	MaxExpansions int

	// OnVisit is called with every dequeued state, before the goal test.
	// Returning a non-nil error aborts the run with that error. This is the
	// cooperative cancellation point for callers running a search in the
	// background.
	OnVisit func(s S) error
}

// Run searches space from start until a goal state is dequeued or the
// frontier is exhausted.
//
// Description:
//
//	The start state is scheduled and marked visited before the loop. Each
//	iteration pops one entry, runs OnVisit, applies the goal test, and
//	schedules every successor whose key has not been seen. Keys are marked
//	visited when scheduled, not when expanded.
//
//	ctx is used only to parent the tracing span; the run does not observe
//	ctx cancellation.
//
// Inputs:
//   - ctx: Parent context for tracing.
//   - space: The state space. Must not be nil.
//   - start: The initial state.
//   - opts: Strategy and hooks.
//
// Outputs:
//   - *Result[S]: Found with path and cost, or not found. Never nil on
//     a nil error.
//   - error: Non-nil on invalid options, negative costs, an OnVisit abort,
//     or when MaxExpansions is exceeded.
//
// Thread Safety: Safe for concurrent calls with distinct inputs; all
// working state is local to the call.
func Run[S any, K comparable](ctx context.Context, space Space[S, K], start S, opts Options[S]) (*Result[S], error) {
	if space == nil {
		return nil, &AlgorithmError{Algorithm: opts.Strategy.String(), Operation: "Run", Err: ErrNilSpace}
	}
	if opts.Strategy == GreedyBestFirst && opts.Heuristic == nil {
		return nil, &AlgorithmError{Algorithm: opts.Strategy.String(), Operation: "Run", Err: ErrMissingHeuristic}
	}
	frontier, err := NewFrontier[K](opts.Strategy)
	if err != nil {
		return nil, &AlgorithmError{Algorithm: opts.Strategy.String(), Operation: "Run", Err: err}
	}

	ctx, span := startRunSpan(ctx, opts.Strategy)
	defer span.End()

	began := time.Now()
	result, err := explore(space, start, opts, frontier)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	result.Stats.Duration = elapsedSince(began)

	setRunSpanResult(span, result.Stats, result.Found, len(result.Steps))
	recordRunMetrics(ctx, opts.Strategy, result.Stats, result.Found)
	return result, nil
}

// explore is the engine loop shared by both strategies.
func explore[S any, K comparable](space Space[S, K], start S, opts Options[S], frontier Frontier[K]) (*Result[S], error) {
	algo := opts.Strategy.String()
	priority := func(s S) int {
		if opts.Strategy == GreedyBestFirst {
			return opts.Heuristic(s)
		}
		return 0
	}

	var seq uint64
	var stats Stats

	arena := make(map[K]link[S, K])
	startKey := space.Key(start)
	arena[startKey] = link[S, K]{state: start, root: true}
	frontier.Push(Entry[K]{Key: startKey, Priority: priority(start), Seq: seq})
	seq++
	stats.Generated = 1
	stats.MaxFrontier = 1

	for frontier.Len() > 0 {
		entry, _ := frontier.Pop()
		current := arena[entry.Key]
		stats.Visited++

		if opts.OnVisit != nil {
			if err := opts.OnVisit(current.state); err != nil {
				return nil, &AlgorithmError{Algorithm: algo, Operation: "Visit", Err: err}
			}
		}

		if space.IsGoal(current.state) {
			steps, cost := reconstruct(arena, entry.Key)
			return &Result[S]{
				Found:    true,
				Start:    start,
				Steps:    steps,
				Cost:     cost,
				Strategy: opts.Strategy,
				Stats:    stats,
			}, nil
		}

		if opts.MaxExpansions > 0 && stats.Expanded >= opts.MaxExpansions {
			return nil, &AlgorithmError{
				Algorithm: algo,
				Operation: "Expand",
				Err:       fmt.Errorf("%w: %d", ErrExpansionLimit, opts.MaxExpansions),
			}
		}
		stats.Expanded++

		for _, t := range space.Successors(current.state) {
			if t.Cost < 0 {
				return nil, &AlgorithmError{
					Algorithm: algo,
					Operation: "Expand",
					Err:       fmt.Errorf("%w: move %s costs %d", ErrNegativeCost, t.Label, t.Cost),
				}
			}
			key := space.Key(t.State)
			if _, seen := arena[key]; seen {
				continue
			}
			arena[key] = link[S, K]{
				parent: entry.Key,
				label:  t.Label,
				cost:   t.Cost,
				state:  t.State,
			}
			frontier.Push(Entry[K]{Key: key, Priority: priority(t.State), Seq: seq})
			seq++
			stats.Generated++
		}
		if n := frontier.Len(); n > stats.MaxFrontier {
			stats.MaxFrontier = n
		}
	}

	return &Result[S]{Found: false, Start: start, Strategy: opts.Strategy, Stats: stats}, nil
}
