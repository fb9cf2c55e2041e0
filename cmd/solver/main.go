// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command solver runs the Aleutian search solver, either as an HTTP
// service or as a one-shot CLI for the vacuum world and the 8-puzzle.
//
// # Usage
//
//	# Build
//	go build -o solver ./cmd/solver
//
//	# Serve the HTTP API on the configured port
//	./solver serve --port 12230
//
//	# Generate and solve a random vacuum world, writing solution.txt
//	./solver grid --seed 42 --delay 300ms
//
//	# Generate, then solve an 8-puzzle
//	./solver puzzle generate --seed 7
//	./solver puzzle solve "1 2 3 4 5 6 0 7 8"
//
// # Configuration
//
// Settings are read from ~/.aleutian/solver.yaml, which is created with
// defaults on first run. Flags override the file. SOLVER_PORT overrides the
// configured port for `serve`.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
