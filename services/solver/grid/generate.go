// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package grid

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrNilRand is returned when Generate is called without a random source.
var ErrNilRand = errors.New("random source must not be nil")

// GenerateConfig controls random world generation.
type GenerateConfig struct {
	// Rows and Cols are the board dimensions. Default: 6x6.
	Rows int
	Cols int

	// MinObstacles and MaxObstacles bound the number of obstacles placed
	// (inclusive). Default: 5 and 10. The count is capped by the free cells
	// left after placing the vacuum and the dirt.
	MinObstacles int
	MaxObstacles int

	// Costs are the move costs of the generated world. Default: DefaultCosts.
	Costs *Costs
}

// DefaultGenerateConfig returns a 6x6 board with 5 to 10 obstacles.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Rows:         6,
		Cols:         6,
		MinObstacles: 5,
		MaxObstacles: 10,
	}
}

func (c GenerateConfig) withDefaults() GenerateConfig {
	d := DefaultGenerateConfig()
	if c.Rows == 0 {
		c.Rows = d.Rows
	}
	if c.Cols == 0 {
		c.Cols = d.Cols
	}
	if c.MinObstacles == 0 && c.MaxObstacles == 0 {
		c.MinObstacles = d.MinObstacles
		c.MaxObstacles = d.MaxObstacles
	}
	return c
}

// Generate builds a random world.
//
// Description:
//
//	All cells are shuffled; the first becomes the vacuum, the second the
//	dirt, and the next n the obstacles, with n drawn uniformly from
//	[MinObstacles, MaxObstacles]. The resulting world may have no solution
//	when obstacles enclose the dirt or the vacuum.
//
// Inputs:
//   - rng: Random source. The same seed and config always produce the same
//     world.
//   - cfg: Dimensions and obstacle bounds. Zero fields take defaults.
//
// Outputs:
//   - *World: The generated world.
//   - error: ErrNilRand, or ErrInvalidWorld (wrapped) for bad bounds or a
//     board with fewer than two cells.
func Generate(rng *rand.Rand, cfg GenerateConfig) (*World, error) {
	if rng == nil {
		return nil, ErrNilRand
	}
	cfg = cfg.withDefaults()

	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidWorld, cfg.Rows, cfg.Cols)
	}
	if cfg.Rows*cfg.Cols < 2 {
		return nil, fmt.Errorf("%w: board needs at least two cells", ErrInvalidWorld)
	}
	if cfg.MinObstacles < 0 || cfg.MaxObstacles < cfg.MinObstacles {
		return nil, fmt.Errorf("%w: obstacle bounds [%d, %d]", ErrInvalidWorld, cfg.MinObstacles, cfg.MaxObstacles)
	}

	costs := DefaultCosts()
	if cfg.Costs != nil {
		costs = *cfg.Costs
	}

	cells := make([]Coord, 0, cfg.Rows*cfg.Cols)
	for r := 0; r < cfg.Rows; r++ {
		for c := 0; c < cfg.Cols; c++ {
			cells = append(cells, Coord{Row: r, Col: c})
		}
	}
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	vacuum, dirt := cells[0], cells[1]
	free := cells[2:]

	n := cfg.MinObstacles + rng.Intn(cfg.MaxObstacles-cfg.MinObstacles+1)
	if n > len(free) {
		n = len(free)
	}

	return NewWorld(cfg.Rows, cfg.Cols, free[:n], vacuum, dirt, costs)
}
