// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/AleutianAI/AleutianSolver/services/solver/report"
	"github.com/AleutianAI/AleutianSolver/services/solver/search"
	"github.com/AleutianAI/AleutianSolver/services/solver/tiles"
	"github.com/AleutianAI/AleutianSolver/services/solver/worker"
	"github.com/spf13/cobra"
)

// errUnsolvable is returned for boards with an odd inversion count.
var errUnsolvable = errors.New("board cannot reach the goal")

func newPuzzleGenerateCmd(app *cli) *cobra.Command {
	var (
		moves int
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random solvable 8-puzzle board",
		Long: `Shuffle the goal board with random legal moves and print the result,
boxed and as a one-line argument for 'solver puzzle solve'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("moves") {
				moves = app.cfg.Puzzle.ShuffleMoves
			}
			rng, used := newRand(cmd, seed)
			board, err := tiles.Generate(rng, moves)
			if err != nil {
				return err
			}

			app.console.Info(fmt.Sprintf("seed=%d  moves=%d", used, moves))
			fmt.Fprintln(app.console.Writer(), report.Box(board))
			fmt.Fprintln(app.console.Writer(), boardArg(board))
			return nil
		},
	}
	cmd.Flags().IntVar(&moves, "moves", 0, "random moves applied to the goal (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	return cmd
}

func newPuzzleSolveCmd(app *cli) *cobra.Command {
	var (
		delay time.Duration
		out   string
	)
	cmd := &cobra.Command{
		Use:   "solve BOARD",
		Short: "Solve an 8-puzzle board with greedy best-first search",
		Long: `Solve an 8-puzzle board and replay the solution.

BOARD lists the nine tiles row by row, 0 or _ for the blank. Any
separator works: "1 2 3 4 5 6 0 7 8", "123/456/078" and
"1,2,3,4,5,6,_,7,8" are the same board.

Greedy search follows the Manhattan heuristic, so the path found is not
always the shortest.`,
		Example: `  solver puzzle solve "1 2 3 4 5 6 0 7 8" --delay 500ms
  solver puzzle solve 123/456/078 --out puzzle.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("delay") {
				delay = app.cfg.Puzzle.ReplayDelay
			}
			return app.runPuzzleSolve(cmd, args[0], delay, out)
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", 0, "pause between replayed steps (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "also write the report to this file")
	return cmd
}

func (a *cli) runPuzzleSolve(cmd *cobra.Command, arg string, delay time.Duration, out string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	board, err := parseBoard(arg)
	if err != nil {
		return err
	}
	a.console.Title(report.PuzzleTitle)
	fmt.Fprintln(a.console.Writer(), report.Box(board))

	if !board.Solvable() {
		a.console.Error("This board has an odd number of inversions and can never reach the goal")
		return errUnsolvable
	}

	var res *search.Result[tiles.Board]
	err = a.console.Spinner("Solving").While(func() error {
		outcome := worker.Await(ctx, "puzzle_cli", func(ctx context.Context) (*search.Result[tiles.Board], error) {
			return tiles.Solve(ctx, board, worker.Checkpoint[tiles.Board](ctx))
		}, worker.Options{Timeout: a.cfg.Server.SolveTimeout, Logger: a.logger.Slog()})
		res = outcome.Value
		return outcome.Err
	})
	if err != nil {
		return err
	}

	if res.Found {
		total := 0
		for i, step := range res.Steps {
			if err := pause(ctx, delay); err != nil {
				return err
			}
			total += step.Cost
			a.console.Step(i+1, step.Label, fmt.Sprintf("(+%d, total=%d)", step.Cost, total))
			fmt.Fprintln(a.console.Writer(), report.Box(step.State))
		}
	}
	a.console.Summary(res.Found, len(res.Steps), res.Cost, res.Stats.Visited)

	return a.writeReport(out, "", func(f *os.File) error {
		return report.WritePuzzle(f, board, res)
	})
}

// parseBoard reads nine tiles in row order. Digits are taken one at a
// time, so separators are optional; "_" marks the blank.
func parseBoard(s string) (tiles.Board, error) {
	var cells []int
	for _, r := range s {
		switch {
		case r == '_':
			cells = append(cells, tiles.Blank)
		case unicode.IsDigit(r):
			n, _ := strconv.Atoi(string(r))
			cells = append(cells, n)
		case unicode.IsSpace(r) || strings.ContainsRune(",;/|-", r):
		default:
			return tiles.Board{}, fmt.Errorf("%w: unexpected %q", tiles.ErrInvalidBoard, r)
		}
	}
	if len(cells) != tiles.Size*tiles.Size {
		return tiles.Board{}, fmt.Errorf("%w: want %d tiles, got %d", tiles.ErrInvalidBoard, tiles.Size*tiles.Size, len(cells))
	}

	rows := make([][]int, tiles.Size)
	for r := range rows {
		rows[r] = cells[r*tiles.Size : (r+1)*tiles.Size]
	}
	return tiles.FromRows(rows)
}

// boardArg formats b the way parseBoard reads it, "123/456/780".
func boardArg(b tiles.Board) string {
	var sb strings.Builder
	for r, row := range b {
		if r > 0 {
			sb.WriteByte('/')
		}
		for _, v := range row {
			sb.WriteString(strconv.Itoa(v))
		}
	}
	return sb.String()
}
