// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides Gin middleware for the solver service.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/AleutianAI/AleutianSolver/services/solver/observability"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// =============================================================================
// Rate Limiting
// =============================================================================

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate allowed per client.
	// Zero or negative disables limiting.
	RequestsPerSecond float64

	// Burst is the number of requests a client may make at once.
	// Default: 1 when limiting is enabled.
	Burst int

	// IdleTTL evicts client buckets not seen for this long. Default: 10m.
	IdleTTL time.Duration
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters holds one token bucket per client IP.
type clientLimiters struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	lastGC  time.Time
}

func (l *clientLimiters) get(client string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastGC) > l.idleTTL {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.idleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastGC = now
	}

	b, ok := l.buckets[client]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[client] = b
	}
	b.lastSeen = now
	return b.limiter
}

// RateLimit creates a Gin middleware that throttles requests per client IP.
//
// # Description
//
// Each client IP gets a token bucket of cfg.Burst tokens refilled at
// cfg.RequestsPerSecond. A request arriving with an empty bucket is
// rejected with 429 and a Retry-After header, and counted in
// aleutian_solver_rejected_total{reason="rate_limited"}.
//
// # Inputs
//
//   - endpoint: Label used for the rejection metric.
//   - cfg: Limits. RequestsPerSecond <= 0 returns a pass-through middleware.
//   - metrics: May be nil.
//
// # Examples
//
//	solve := v1.Group("/puzzle")
//	solve.Use(middleware.RateLimit("puzzle", cfg, metrics))
//
// # Thread Safety
//
// Thread-safe. The returned middleware can be used concurrently.
func RateLimit(endpoint string, cfg RateLimitConfig, metrics *observability.SolverMetrics) gin.HandlerFunc {
	if cfg.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}

	limiters := &clientLimiters{
		buckets: make(map[string]*clientBucket),
		limit:   rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.Burst,
		idleTTL: cfg.IdleTTL,
		lastGC:  time.Now(),
	}
	retryAfter := strconv.Itoa(int(time.Duration(float64(time.Second)/cfg.RequestsPerSecond).Seconds()) + 1)

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP(), time.Now()).Allow() {
			metrics.RecordRejected(endpoint, observability.RejectRateLimited)
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
