// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AleutianAI/AleutianSolver/services/solver/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedRouter(cfg RateLimitConfig, metrics *observability.SolverMetrics) *gin.Engine {
	router := gin.New()
	router.Use(RateLimit("test", cfg, metrics))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func get(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	metrics := observability.NewSolverMetrics(prometheus.NewRegistry())
	router := newLimitedRouter(RateLimitConfig{RequestsPerSecond: 0.5, Burst: 2}, metrics)

	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1000").Code)

	w := get(router, "10.0.0.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RejectedTotal.WithLabelValues("test", "rate_limited")))
}

func TestRateLimit_PerClient(t *testing.T) {
	router := newLimitedRouter(RateLimitConfig{RequestsPerSecond: 0.1, Burst: 1}, nil)

	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, get(router, "10.0.0.2:1000").Code)
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	router := newLimitedRouter(RateLimitConfig{}, nil)

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1000").Code)
	}
}

func TestClientLimiters_EvictsIdleBuckets(t *testing.T) {
	l := &clientLimiters{
		buckets: make(map[string]*clientBucket),
		limit:   1,
		burst:   1,
		idleTTL: time.Minute,
		lastGC:  time.Unix(0, 0),
	}
	now := time.Unix(1000, 0)
	l.get("a", now)
	l.get("b", now.Add(2*time.Minute))
	l.get("c", now.Add(4*time.Minute))

	assert.NotContains(t, l.buckets, "a")
	assert.NotContains(t, l.buckets, "b")
	assert.Contains(t, l.buckets, "c")
}
