// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"time"

	"github.com/AleutianAI/AleutianSolver/services/solver/telemetry"
)

// CurrentConfigVersion is written into new config files.
const CurrentConfigVersion = "1"

// SolverConfig is the layout of ~/.aleutian/solver.yaml.
type SolverConfig struct {
	Meta      MetaConfig       `yaml:"meta"`
	Server    ServerConfig     `yaml:"server"`
	Puzzle    PuzzleConfig     `yaml:"puzzle"`
	Grid      GridConfig       `yaml:"grid"`
	Logging   LoggingConfig    `yaml:"logging"`
	Output    string           `yaml:"output" validate:"omitempty,oneof=auto color colour plain machine"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

type MetaConfig struct {
	Version string `yaml:"version"`
}

// ServerConfig configures `solver serve`.
type ServerConfig struct {
	Port                int           `yaml:"port" validate:"gte=1,lte=65535"`
	GinMode             string        `yaml:"gin_mode" validate:"omitempty,oneof=debug release test"`
	ReportDir           string        `yaml:"report_dir" validate:"required"`
	DBPath              string        `yaml:"db_path"`
	InMemoryDB          bool          `yaml:"in_memory_db"`
	MaxConcurrentSolves int64         `yaml:"max_concurrent_solves" validate:"gte=1,lte=1024"`
	SolveTimeout        time.Duration `yaml:"solve_timeout" validate:"gte=0"`
	RateLimitRPS        float64       `yaml:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst      int           `yaml:"rate_limit_burst" validate:"gte=0"`
	HistoryLimit        int           `yaml:"history_limit" validate:"gte=0,lte=100"`
}

// PuzzleConfig configures 8-puzzle generation and replay.
type PuzzleConfig struct {
	ShuffleMoves int           `yaml:"shuffle_moves" validate:"gte=0"`
	ReplayDelay  time.Duration `yaml:"replay_delay" validate:"gte=0"`
}

// GridConfig configures vacuum-world generation.
type GridConfig struct {
	Rows         int            `yaml:"rows" validate:"gte=2,lte=64"`
	Cols         int            `yaml:"cols" validate:"gte=2,lte=64"`
	MinObstacles int            `yaml:"min_obstacles" validate:"gte=0"`
	MaxObstacles int            `yaml:"max_obstacles" validate:"gtefield=MinObstacles"`
	Costs        map[string]int `yaml:"costs" validate:"omitempty,dive,keys,oneof=UP DOWN LEFT RIGHT up down left right,endkeys,gte=0,lte=1000"`
	ReportFile   string         `yaml:"report_file"`
}

// LoggingConfig configures pkg/logging.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	Dir   string `yaml:"dir"`
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() SolverConfig {
	return SolverConfig{
		Meta: MetaConfig{Version: CurrentConfigVersion},
		Server: ServerConfig{
			Port:                12230,
			GinMode:             "release",
			ReportDir:           "~/.aleutian/solutions",
			DBPath:              "~/.aleutian/solver-db",
			MaxConcurrentSolves: 4,
			SolveTimeout:        10 * time.Second,
			RateLimitBurst:      5,
			HistoryLimit:        20,
		},
		Puzzle: PuzzleConfig{
			ShuffleMoves: 100,
			ReplayDelay:  600 * time.Millisecond,
		},
		Grid: GridConfig{
			Rows:         6,
			Cols:         6,
			MinObstacles: 5,
			MaxObstacles: 10,
			Costs:        map[string]int{"UP": 2, "DOWN": 0, "LEFT": 1, "RIGHT": 1},
			ReportFile:   "solution.txt",
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "~/.aleutian/logs",
		},
		Output:    "auto",
		Telemetry: telemetry.DefaultConfig(),
	}
}
