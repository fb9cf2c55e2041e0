// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation checks user-provided identifiers before they reach
// file paths or database keys.
package validation

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidSolutionID is returned for ids that could escape the report
// directory or break key ordering.
var ErrInvalidSolutionID = errors.New("invalid solution id")

// solutionIDPattern matches generated UUIDs and short hand-picked ids.
// Allows: letters, digits, hyphens and underscores, starting with a letter
// or digit. Max length: 64 characters.
var solutionIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateSolutionID validates a solution id used as a report file name
// and a BadgerDB key.
//
// Example:
//
//	if err := validation.ValidateSolutionID(id); err != nil {
//	    return nil, err
//	}
//	// Safe to join with the report directory
func ValidateSolutionID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSolutionID)
	}
	if !solutionIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q (must be 1-64 letters, digits, hyphens or underscores)", ErrInvalidSolutionID, id)
	}
	return nil
}
