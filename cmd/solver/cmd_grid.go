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
	"fmt"
	"os"
	"time"

	"github.com/AleutianAI/AleutianSolver/services/solver/grid"
	"github.com/AleutianAI/AleutianSolver/services/solver/report"
	"github.com/AleutianAI/AleutianSolver/services/solver/search"
	"github.com/AleutianAI/AleutianSolver/services/solver/worker"
	"github.com/spf13/cobra"
)

type gridFlags struct {
	rows  int
	cols  int
	seed  int64
	out   string
	delay time.Duration
}

func newGridCmd(app *cli) *cobra.Command {
	flags := &gridFlags{}
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Generate a random vacuum world and solve it with BFS",
		Long: `Generate a random vacuum world, find a path from the vacuum to the
dirt with breadth-first search, replay it step by step and write the
full report to a file.

Moves cost UP=2 DOWN=0 LEFT=1 RIGHT=1 unless the config file overrides
them. Use --seed to reproduce a world.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runGrid(cmd, flags)
		},
	}

	cmd.Flags().IntVar(&flags.rows, "rows", 0, "board rows (default from config)")
	cmd.Flags().IntVar(&flags.cols, "cols", 0, "board columns (default from config)")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "random seed (default: time based)")
	cmd.Flags().StringVar(&flags.out, "out", "", "report file, \"-\" to skip (default from config)")
	cmd.Flags().DurationVar(&flags.delay, "delay", 0, "pause between replayed steps")
	return cmd
}

// generateConfig builds the world generator settings from the config file
// and flags.
func (a *cli) generateConfig(flags *gridFlags) (grid.GenerateConfig, error) {
	g := a.cfg.Grid
	gen := grid.GenerateConfig{
		Rows:         g.Rows,
		Cols:         g.Cols,
		MinObstacles: g.MinObstacles,
		MaxObstacles: g.MaxObstacles,
	}
	if flags.rows > 0 {
		gen.Rows = flags.rows
	}
	if flags.cols > 0 {
		gen.Cols = flags.cols
	}

	if len(g.Costs) > 0 {
		costs, err := grid.CostsFromNames(g.Costs)
		if err != nil {
			return gen, err
		}
		gen.Costs = &costs
	}
	return gen, nil
}

func (a *cli) runGrid(cmd *cobra.Command, flags *gridFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	gen, err := a.generateConfig(flags)
	if err != nil {
		return err
	}
	rng, seed := newRand(cmd, flags.seed)
	world, err := grid.Generate(rng, gen)
	if err != nil {
		return fmt.Errorf("failed to generate world: %w", err)
	}

	a.console.Title(report.GridTitle)
	a.console.Info(fmt.Sprintf("seed=%d  costs: %s", seed, world.Costs()))
	a.console.Box("Initial board", a.console.Board(world.Draw(world.Start())))

	var res *search.Result[grid.Coord]
	err = a.console.Spinner("Searching for the dirt").While(func() error {
		outcome := worker.Await(ctx, "grid_cli", func(ctx context.Context) (*search.Result[grid.Coord], error) {
			return grid.Solve(ctx, world, worker.Checkpoint[grid.Coord](ctx))
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
			if err := pause(ctx, flags.delay); err != nil {
				return err
			}
			total += step.Cost
			a.console.Step(i+1, step.Label, fmt.Sprintf("-> %s  (+%d, total=%d)", step.State, step.Cost, total))
			fmt.Fprintln(a.console.Writer(), a.console.Board(world.Draw(step.State)))
		}
	} else {
		a.console.Warning("No solution: obstacles keep the vacuum from the dirt")
	}
	a.console.Summary(res.Found, len(res.Steps), res.Cost, res.Stats.Visited)

	return a.writeReport(flags.out, a.cfg.Grid.ReportFile, func(f *os.File) error {
		return report.WriteGrid(f, world, res)
	})
}

// writeReport writes a report to out, falling back to def. An empty
// path or "-" skips it.
func (a *cli) writeReport(out, def string, render func(*os.File) error) error {
	path := out
	if path == "" {
		path = def
	}
	if path == "" || path == "-" {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	a.console.Success(fmt.Sprintf("Report written to %s", path))
	return nil
}
