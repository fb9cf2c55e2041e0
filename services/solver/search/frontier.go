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
	"container/heap"
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// Strategy
// -----------------------------------------------------------------------------

// Strategy selects the exploration order of a search.
type Strategy int

const (
	// BreadthFirst dequeues states in insertion order.
	BreadthFirst Strategy = iota

	// GreedyBestFirst dequeues the state with the lowest heuristic
	// estimate first. Ties are broken by insertion order.
	GreedyBestFirst
)

// String returns the canonical name of the strategy.
func (s Strategy) String() string {
	switch s {
	case BreadthFirst:
		return "bfs"
	case GreedyBestFirst:
		return "greedy"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a name into a Strategy.
//
// Accepts "bfs", "breadth-first", "greedy" and "best-first" (case
// insensitive).
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bfs", "breadth-first", "breadth_first":
		return BreadthFirst, nil
	case "greedy", "best-first", "best_first", "gbfs":
		return GreedyBestFirst, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// -----------------------------------------------------------------------------
// Frontier
// -----------------------------------------------------------------------------

// Entry is one scheduled state in a frontier.
//
// Only the key is stored; the state itself lives in the visited arena.
type Entry[K comparable] struct {
	Key      K
	Priority int
	Seq      uint64
}

// Frontier is an exploration-order abstraction.
//
// Thread Safety: Not safe for concurrent use.
type Frontier[K comparable] interface {
	// Push schedules an entry.
	Push(e Entry[K])

	// Pop removes and returns the next entry. ok is false when empty.
	Pop() (e Entry[K], ok bool)

	// Len returns the number of scheduled entries.
	Len() int
}

// NewFrontier returns the frontier implementation for a strategy.
func NewFrontier[K comparable](s Strategy) (Frontier[K], error) {
	switch s {
	case BreadthFirst:
		return NewFIFO[K](), nil
	case GreedyBestFirst:
		return NewPriority[K](), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
}

// FIFO is a first-in first-out frontier. Priority is ignored.
type FIFO[K comparable] struct {
	items []Entry[K]
	head  int
}

// NewFIFO creates an empty FIFO frontier.
func NewFIFO[K comparable]() *FIFO[K] {
	return &FIFO[K]{items: make([]Entry[K], 0, 64)}
}

// Push appends e to the back of the queue.
func (f *FIFO[K]) Push(e Entry[K]) {
	f.items = append(f.items, e)
}

// Pop removes the entry at the front of the queue.
func (f *FIFO[K]) Pop() (Entry[K], bool) {
	if f.head >= len(f.items) {
		var zero Entry[K]
		return zero, false
	}
	e := f.items[f.head]
	f.items[f.head] = Entry[K]{}
	f.head++

	// Reclaim the consumed prefix once it dominates the slice.
	if f.head > 1024 && f.head*2 > len(f.items) {
		n := copy(f.items, f.items[f.head:])
		f.items = f.items[:n]
		f.head = 0
	}
	return e, true
}

// Len returns the number of pending entries.
func (f *FIFO[K]) Len() int {
	return len(f.items) - f.head
}

// Priority is a min-heap frontier ordered by (Priority, Seq).
type Priority[K comparable] struct {
	h entryHeap[K]
}

// NewPriority creates an empty priority frontier.
func NewPriority[K comparable]() *Priority[K] {
	return &Priority[K]{h: make(entryHeap[K], 0, 64)}
}

// Push inserts e keeping heap order.
func (p *Priority[K]) Push(e Entry[K]) {
	heap.Push(&p.h, e)
}

// Pop removes the entry with the lowest priority; equal priorities come out
// in Seq order.
func (p *Priority[K]) Pop() (Entry[K], bool) {
	if len(p.h) == 0 {
		var zero Entry[K]
		return zero, false
	}
	return heap.Pop(&p.h).(Entry[K]), true
}

// Len returns the number of pending entries.
func (p *Priority[K]) Len() int {
	return len(p.h)
}

// entryHeap implements heap.Interface.
type entryHeap[K comparable] []Entry[K]

func (h entryHeap[K]) Len() int { return len(h) }

func (h entryHeap[K]) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].Seq < h[j].Seq
}

func (h entryHeap[K]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap[K]) Push(x any) { *h = append(*h, x.(Entry[K])) }

func (h *entryHeap[K]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = Entry[K]{}
	*h = old[:n-1]
	return e
}

var (
	_ Frontier[string] = (*FIFO[string])(nil)
	_ Frontier[string] = (*Priority[string])(nil)
)
