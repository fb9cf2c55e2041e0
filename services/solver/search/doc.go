// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package search provides a generic discrete state-space search engine.
//
// A problem is described by a Space: a successor function with per-move
// costs, a goal test, and a canonical key used for duplicate detection.
// Run explores the implicit graph from a start state using one of two
// frontier strategies and reconstructs the path to the first goal state
// it dequeues.
//
// Architecture:
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                             Run                               │
//	│                                                               │
//	│   Frontier ──pop──► goal test ──► expand ──► Successors       │
//	│      ▲                  │                        │            │
//	│      │                  ▼                        ▼            │
//	│      └────push──── visited arena ◄──── new keys only          │
//	│                         │                                     │
//	│                         ▼                                     │
//	│                  reconstruct(goal) ──► Result                 │
//	└───────────────────────────────────────────────────────────────┘
//
// Strategies:
//
//   - BreadthFirst: FIFO order. Finds a path with the fewest moves; move
//     costs are summed for reporting but never influence order.
//   - GreedyBestFirst: lowest heuristic estimate of the state first, ties
//     broken by insertion order. The accumulated cost is NOT part of the
//     priority, so the path is neither cost- nor move-optimal.
//
// Visited Set:
//
//	A key enters the visited arena exactly once, when its state is
//	scheduled. The same state can therefore never be queued twice, and
//	no state is expanded more than once.
//
// Concurrency:
//
//	Run is synchronous and keeps all of its state local to the call. It
//	never checks the context for cancellation; callers that need to stop
//	a long search install an Options.OnVisit hook (see package worker).
package search
