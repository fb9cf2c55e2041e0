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
	"math/rand"
	"time"

	"github.com/AleutianAI/AleutianSolver/cmd/solver/config"
	"github.com/AleutianAI/AleutianSolver/pkg/logging"
	"github.com/AleutianAI/AleutianSolver/pkg/ux"
	"github.com/spf13/cobra"
)

// cli carries the global flags and everything PersistentPreRunE builds
// from them. One instance backs one command tree.
type cli struct {
	configPath string
	outputMode string
	logLevel   string

	cfg        config.SolverConfig
	configFile string
	logger     *logging.Logger
	console    *ux.Console
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	rootCmd := &cobra.Command{
		Use:   "solver",
		Short: "Solve vacuum-world and 8-puzzle search problems",
		Long: `Solver generates and solves two classic state-space search problems:
a vacuum world (breadth-first search with per-direction move costs) and
the 8-puzzle (greedy best-first search with the Manhattan heuristic).

Run it as an HTTP service with 'solver serve', or solve one problem in
the terminal with 'solver grid' and 'solver puzzle'.`,
		SilenceUsage:      true,
		PersistentPreRunE: app.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "",
		"config file (default ~/.aleutian/solver.yaml)")
	rootCmd.PersistentFlags().StringVarP(&app.outputMode, "output", "o", "",
		"output style: auto, color or plain (default from config)")
	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "",
		"log level: debug, info, warn or error (default from config)")

	puzzleCmd := &cobra.Command{
		Use:   "puzzle",
		Short: "Generate and solve 8-puzzle boards",
	}
	puzzleCmd.AddCommand(newPuzzleGenerateCmd(app), newPuzzleSolveCmd(app))

	rootCmd.AddCommand(
		newServeCmd(app),
		newGridCmd(app),
		puzzleCmd,
		newConfigCmd(app),
	)
	return rootCmd
}

// setup loads the config file, then applies --output and --log-level.
func (a *cli) setup(cmd *cobra.Command, args []string) error {
	path := a.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	cfg, created, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.configFile = path

	if a.outputMode == "" {
		a.outputMode = cfg.Output
	}
	mode, err := ux.ParseMode(a.outputMode)
	if err != nil {
		return err
	}
	a.console = ux.NewConsole(cmd.OutOrStdout(), mode)

	if a.logLevel == "" {
		a.logLevel = cfg.Logging.Level
	}
	level, err := logging.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	a.logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "solver",
		JSON:    cfg.Logging.JSON,
		Writer:  cmd.ErrOrStderr(),
	})
	a.logger.SetDefault()

	if created {
		a.console.Info(fmt.Sprintf("First run detected, created the config at %s", path))
	}
	return nil
}

// newRand returns a source seeded by seed, or by the clock when the flag
// was not set. The seed used is returned so runs can be reproduced.
func newRand(cmd *cobra.Command, seed int64) (*rand.Rand, int64) {
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

// pause waits d between playback frames. It returns early with the
// context error when ctx ends.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
