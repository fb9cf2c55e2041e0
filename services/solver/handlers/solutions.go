// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AleutianAI/AleutianSolver/services/solver/storage"
	"github.com/gin-gonic/gin"
)

// maxHistoryLimit caps the page size of GET /v1/solutions.
const maxHistoryLimit = 100

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleListSolutions returns the most recent archived solutions, newest
// first. ?limit= overrides the page size, up to 100.
func HandleListSolutions(s *Solver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.archive == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "solution history is disabled"})
			return
		}

		limit := s.cfg.HistoryLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = min(n, maxHistoryLimit)
		}

		records, err := s.archive.Recent(limit)
		if err != nil {
			s.logger.Error("failed to list solutions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list solutions"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"solutions": records})
	}
}

// HandleGetSolution returns one archived solution record.
func HandleGetSolution(s *Solver) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, ok := s.lookup(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// HandleGetReport serves the text report of an archived solution.
func HandleGetReport(s *Solver) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, ok := s.lookup(c)
		if !ok {
			return
		}
		if rec.ReportPath == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "no report was written for this solution"})
			return
		}
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.File(rec.ReportPath)
	}
}

// lookup loads the record named by the :id path parameter, writing the
// error response itself when it cannot.
func (s *Solver) lookup(c *gin.Context) (storage.Record, bool) {
	if s.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "solution history is disabled"})
		return storage.Record{}, false
	}
	rec, err := s.archive.Get(c.Param("id"))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "solution not found"})
		return storage.Record{}, false
	case errors.Is(err, storage.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid solution id"})
		return storage.Record{}, false
	case err != nil:
		s.logger.Error("failed to load solution", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load solution"})
		return storage.Record{}, false
	}
	return rec, true
}
