// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tiles implements the 8-puzzle state space.
//
// A Board is a 3x3 arrangement of the tiles 1..8 and a blank (0). A move
// slides a neighbouring tile into the blank; moves are named after the
// direction the blank travels and every move costs 1.
package tiles

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Size is the board edge length.
const Size = 3

// Blank is the tile id of the empty square.
const Blank = 0

var (
	// ErrInvalidBoard is returned when a configuration is not a 3x3
	// permutation of 0..8.
	ErrInvalidBoard = errors.New("invalid board")
)

// Board is a 3x3 puzzle configuration, comparable by value.
type Board [Size][Size]int

// Goal returns the solved configuration [[1,2,3],[4,5,6],[7,8,0]].
func Goal() Board {
	return Board{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 0},
	}
}

// FromRows converts nested rows into a Board and validates it.
func FromRows(rows [][]int) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("%w: want %d rows, got %d", ErrInvalidBoard, Size, len(rows))
	}
	for r, row := range rows {
		if len(row) != Size {
			return b, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, r, len(row), Size)
		}
		copy(b[r][:], row)
	}
	if err := b.Validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// Validate checks that every tile 0..8 appears exactly once.
func (b Board) Validate() error {
	var seen [Size * Size]bool
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := b[r][c]
			if v < 0 || v >= Size*Size {
				return fmt.Errorf("%w: tile %d at (%d, %d) out of range", ErrInvalidBoard, v, r, c)
			}
			if seen[v] {
				return fmt.Errorf("%w: tile %d appears more than once", ErrInvalidBoard, v)
			}
			seen[v] = true
		}
	}
	return nil
}

// Rows returns the board as freshly allocated nested slices.
func (b Board) Rows() [][]int {
	out := make([][]int, Size)
	for r := range b {
		out[r] = append([]int(nil), b[r][:]...)
	}
	return out
}

// BlankAt returns the row and column of the blank.
func (b Board) BlankAt() (row, col int) {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == Blank {
				return r, c
			}
		}
	}
	return -1, -1
}

// String renders the board as three space-separated rows with "_" for the
// blank.
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < Size; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			if b[r][c] == Blank {
				sb.WriteByte('_')
				continue
			}
			sb.WriteString(strconv.Itoa(b[r][c]))
		}
	}
	return sb.String()
}

// Solvable reports whether b can reach the goal. On a 3-wide board this
// holds iff the number of inversions among the non-blank tiles is even.
func (b Board) Solvable() bool {
	flat := make([]int, 0, Size*Size)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] != Blank {
				flat = append(flat, b[r][c])
			}
		}
	}
	inversions := 0
	for i := range flat {
		for j := i + 1; j < len(flat); j++ {
			if flat[i] > flat[j] {
				inversions++
			}
		}
	}
	return inversions%2 == 0
}
