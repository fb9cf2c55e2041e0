// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{" warning ", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownLevel) {
				t.Errorf("ParseLevel(%q) error = %v, want ErrUnknownLevel", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

// =============================================================================
// Console Output Tests
// =============================================================================

func TestLogger_TextOutputWithService(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Service: "solver", Writer: &buf})

	logger.Info("solve finished", "puzzle", "grid", "visited", 9)

	out := buf.String()
	for _, want := range []string{"solve finished", "service=solver", "puzzle=grid", "visited=9"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, JSON: true, Writer: &buf})

	logger.Warn("archive write failed", "solution_id", "abc")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "archive write failed" || record["solution_id"] != "abc" || record["level"] != "WARN" {
		t.Errorf("unexpected record %v", record)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Writer: &buf})

	logger.Debug("debug line")
	logger.Info("info line")
	logger.Warn("warn line")
	logger.Error("error line")

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Errorf("records below WARN were written: %q", out)
	}
	if !strings.Contains(out, "warn line") || !strings.Contains(out, "error line") {
		t.Errorf("records at or above WARN missing: %q", out)
	}
}

func TestLogger_QuietWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Quiet: true, Writer: &buf})

	logger.Error("hidden")

	if buf.Len() != 0 {
		t.Errorf("quiet logger wrote %q", buf.String())
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Writer: &buf}).With("component", "solver_handlers")

	logger.Info("request")

	if !strings.Contains(buf.String(), "component=solver_handlers") {
		t.Errorf("With attribute missing: %q", buf.String())
	}
}

func TestLogger_SetDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	New(Config{Writer: &buf, Service: "solver"}).SetDefault()
	slog.Info("via default")

	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("slog.Default did not route to logger: %q", buf.String())
	}
}

// =============================================================================
// File Tests
// =============================================================================

func TestLogger_WritesDailyJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger := New(Config{Quiet: true, LogDir: dir, Service: "solver"})

	logger.Info("to file", "steps", 2)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "solver_*.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one log file, got %v (%v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("file line is not JSON: %v", err)
	}
	if record["msg"] != "to file" || record["service"] != "solver" {
		t.Errorf("unexpected record %v", record)
	}
}

func TestLogger_UnusableLogDirFallsBack(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := New(Config{LogDir: filepath.Join(blocker, "logs"), Writer: &buf})
	logger.Info("still logged")

	if logger.file != nil {
		t.Error("file handle set for unusable directory")
	}
	if !strings.Contains(buf.String(), "still logged") {
		t.Errorf("console output missing: %q", buf.String())
	}
}

func TestLogger_CloseTwice(t *testing.T) {
	logger := New(Config{Quiet: true, LogDir: t.TempDir(), Exporter: NewBufferedExporter()})
	if err := logger.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

// =============================================================================
// Exporter Tests
// =============================================================================

func TestLogger_ExportsThroughSlog(t *testing.T) {
	exp := NewBufferedExporter()
	logger := New(Config{Quiet: true, Service: "solver", Exporter: exp})

	logger.Slog().With("component", "worker").WithGroup("search").Error("failed", "visited", 4)

	entries := exp.Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Level != LevelError || e.Message != "failed" || e.Service != "solver" {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.Attrs["component"] != "worker" {
		t.Errorf("component attr = %v", e.Attrs["component"])
	}
	if e.Attrs["search.visited"] != int64(4) {
		t.Errorf("search.visited attr = %v (%T)", e.Attrs["search.visited"], e.Attrs["search.visited"])
	}
	if _, ok := e.Attrs["service"]; ok {
		t.Error("service should not be duplicated in attrs")
	}
}

func TestLogger_ExporterRespectsLevel(t *testing.T) {
	exp := NewBufferedExporter()
	logger := New(Config{Quiet: true, Level: LevelWarn, Exporter: exp})

	logger.Info("skip")
	logger.Warn("keep")

	entries := exp.Entries()
	if len(entries) != 1 || entries[0].Message != "keep" {
		t.Errorf("entries = %+v", entries)
	}
}

type failingExporter struct{ BufferedExporter }

func (f *failingExporter) Flush(context.Context) error { return errors.New("flush failed") }

func TestLogger_CloseReportsExporterError(t *testing.T) {
	logger := New(Config{Quiet: true, Exporter: &failingExporter{}})
	if err := logger.Close(); err == nil || !strings.Contains(err.Error(), "flush failed") {
		t.Errorf("Close() error = %v, want flush failure", err)
	}
}

func TestBufferedExporter_EntriesReturnsCopy(t *testing.T) {
	exp := NewBufferedExporter()
	_ = exp.Export(context.Background(), LogEntry{Message: "a"})

	entries := exp.Entries()
	entries[0].Message = "changed"

	if exp.Entries()[0].Message != "a" {
		t.Error("Entries() exposed internal slice")
	}
}

func TestLogger_ConcurrentUse(t *testing.T) {
	exp := NewBufferedExporter()
	logger := New(Config{Quiet: true, Exporter: exp})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.With("worker", i).Info("tick")
		}(i)
	}
	wg.Wait()

	if got := len(exp.Entries()); got != 20 {
		t.Errorf("got %d entries, want 20", got)
	}
}

// =============================================================================
// Helper Tests
// =============================================================================

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/.aleutian/logs"); got != filepath.Join(home, ".aleutian/logs") {
		t.Errorf("expandPath = %q", got)
	}
	if got := expandPath("/var/log"); got != "/var/log" {
		t.Errorf("expandPath = %q", got)
	}
}
