// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package worker runs a single search off the caller's goroutine.
//
// A job runs in its own goroutine and delivers exactly one Outcome on a
// buffered channel, so the worker never blocks on a caller that stopped
// listening. Cancellation is cooperative: jobs pass Checkpoint(ctx) as the
// search engine's visit hook and the engine aborts at the next dequeue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Job is the unit of work run by Go. It must honour ctx, typically by
// passing Checkpoint(ctx) to search.Options.OnVisit.
type Job[T any] func(ctx context.Context) (T, error)

// Outcome is the single message a worker delivers.
type Outcome[T any] struct {
	// Name identifies the job in logs and spans.
	Name string

	// Value is the job's return value. Zero when Err is set.
	Value T

	// Err is the job's error, or the context error when cancelled.
	Err error

	// Cancelled is true when the job stopped because ctx ended.
	Cancelled bool

	// Duration is the wall time of the job.
	Duration time.Duration
}

// Success reports whether the job finished without error.
func (o Outcome[T]) Success() bool {
	return o.Err == nil && !o.Cancelled
}

// Options configures a worker.
type Options struct {
	// Timeout bounds the job. Zero means no timeout beyond ctx.
	Timeout time.Duration

	// Logger receives completion logs. Default: slog.Default().
	Logger *slog.Logger
}

// Go starts job in a goroutine and returns the channel its Outcome will be
// delivered on.
//
// Description:
//
//	The job runs under a context derived from ctx (with Options.Timeout
//	applied) inside a "worker.<name>" span. Exactly one Outcome is sent
//	and the channel is then closed. The channel has capacity one, so the
//	worker exits even if nobody receives.
//
// Inputs:
//   - ctx: Parent context.
//   - name: Job name for logs and tracing.
//   - job: The work to run.
//   - opts: Timeout and logger.
//
// Outputs:
//   - <-chan Outcome[T]: Receives exactly one Outcome.
//
// Thread Safety: Safe for concurrent calls.
func Go[T any](ctx context.Context, name string, job Job[T], opts Options) <-chan Outcome[T] {
	out := make(chan Outcome[T], 1)
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "solver_worker"))

	go func() {
		defer close(out)
		out <- run(ctx, name, job, opts.Timeout, logger)
	}()
	return out
}

// Await starts job and blocks until its Outcome arrives.
func Await[T any](ctx context.Context, name string, job Job[T], opts Options) Outcome[T] {
	return <-Go(ctx, name, job, opts)
}

func run[T any](ctx context.Context, name string, job Job[T], timeout time.Duration, logger *slog.Logger) (outcome Outcome[T]) {
	start := time.Now()
	outcome.Name = name

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ctx, span := otel.Tracer("aleutian.solver.worker").Start(ctx, "worker."+name,
		trace.WithAttributes(
			attribute.String("worker.job", name),
			attribute.String("worker.timeout", timeout.String()),
		),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("worker %s panicked: %v", name, r)
			outcome.Duration = time.Since(start)
			span.RecordError(outcome.Err)
			span.SetStatus(codes.Error, outcome.Err.Error())
			logger.Error("job panicked", slog.String("job", name), slog.Any("panic", r))
		}
	}()

	value, err := job(ctx)
	outcome.Duration = time.Since(start)

	// A job that finished before noticing the deadline keeps its value.
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil && errors.Is(err, ctxErr) {
		outcome.Cancelled = true
		err = ctxErr
	}
	if err != nil {
		outcome.Err = err
	} else {
		outcome.Value = value
	}

	span.SetAttributes(
		attribute.Int64("duration_ms", outcome.Duration.Milliseconds()),
		attribute.Bool("success", outcome.Success()),
		attribute.Bool("cancelled", outcome.Cancelled),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if err != nil && !outcome.Cancelled {
		logger.Warn("job failed",
			slog.String("job", name),
			slog.Duration("duration", outcome.Duration),
			slog.String("error", err.Error()),
		)
	} else {
		logger.Debug("job completed",
			slog.String("job", name),
			slog.Duration("duration", outcome.Duration),
			slog.Bool("cancelled", outcome.Cancelled),
		)
	}
	return outcome
}

// Checkpoint returns a visit hook that fails once ctx is done.
func Checkpoint[S any](ctx context.Context) func(S) error {
	return func(S) error {
		return ctx.Err()
	}
}
