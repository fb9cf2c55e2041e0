// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/AleutianAI/AleutianSolver/pkg/validation"
	"github.com/dgraph-io/badger/v4"
)

var (
	// ErrNotFound is returned when no record exists for an id.
	ErrNotFound = errors.New("solution not found")

	// ErrInvalidID is returned for ids that are empty or contain path
	// elements.
	ErrInvalidID = errors.New("invalid solution id")

	// ErrNoReportDir is returned by WriteReport when reports are disabled.
	ErrNoReportDir = errors.New("report directory not configured")
)

const (
	recordPrefix = "sol/id/"
	timePrefix   = "sol/ts/"
)

// ReportExt is the file extension of written reports.
const ReportExt = ".txt"

// Record is one archived solve.
type Record struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	CreatedAt  time.Time       `json:"created_at"`
	Found      bool            `json:"found"`
	Steps      int             `json:"steps"`
	TotalCost  int             `json:"total_cost"`
	Visited    int             `json:"visited"`
	ReportPath string          `json:"report_path,omitempty"`
	Initial    json.RawMessage `json:"initial,omitempty"`
}

// ArchiveConfig configures an Archive.
type ArchiveConfig struct {
	// ReportDir receives one <id>.txt report per solution. Empty disables
	// report files.
	ReportDir string

	// DB configures the history database.
	DB Config
}

// Archive stores solution reports on disk and solution records in
// BadgerDB.
//
// Thread Safety: Safe for concurrent use.
type Archive struct {
	db        *badger.DB
	gc        *gcRunner
	reportDir string
	logger    *slog.Logger
}

// OpenArchive opens the history database and prepares the report
// directory.
func OpenArchive(cfg ArchiveConfig) (*Archive, error) {
	if cfg.ReportDir != "" {
		if err := os.MkdirAll(cfg.ReportDir, 0750); err != nil {
			return nil, fmt.Errorf("create report directory %s: %w", cfg.ReportDir, err)
		}
	}

	db, err := Open(cfg.DB)
	if err != nil {
		return nil, err
	}

	logger := cfg.DB.Logger
	if logger == nil {
		logger = slog.Default()
	}
	a := &Archive{
		db:        db,
		reportDir: cfg.ReportDir,
		logger:    logger.With(slog.String("component", "solution_archive")),
	}

	if cfg.DB.GCInterval > 0 && !cfg.DB.InMemory {
		if cfg.DB.GCDiscardRatio == 0 {
			cfg.DB.GCDiscardRatio = DefaultConfig().GCDiscardRatio
		}
		runner, err := newGCRunner(db, cfg.DB.GCInterval, cfg.DB.GCDiscardRatio, a.logger)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("create GC runner: %w", err)
		}
		a.gc = runner
		runner.start()
	}
	return a, nil
}

// Close stops background GC and closes the database.
func (a *Archive) Close() error {
	if a.gc != nil {
		a.gc.stop()
	}
	return a.db.Close()
}

// ReportDir returns the configured report directory.
func (a *Archive) ReportDir() string { return a.reportDir }

// ReportPath returns where the report for id is written.
func (a *Archive) ReportPath(id string) string {
	return filepath.Join(a.reportDir, id+ReportExt)
}

// WriteReport renders a report for id into <ReportDir>/<id>.txt.
//
// The report is rendered into a temporary file and renamed into place, so
// a failed render leaves no file behind.
func (a *Archive) WriteReport(id string, render func(io.Writer) error) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	if a.reportDir == "" {
		return "", ErrNoReportDir
	}

	tmp, err := os.CreateTemp(a.reportDir, id+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	tmpName := tmp.Name()

	if err := render(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("render report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close report: %w", err)
	}

	path := a.ReportPath(id)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("move report into place: %w", err)
	}
	return path, nil
}

// Put stores rec under its id.
func (a *Archive) Put(rec Record) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	return a.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(recordPrefix+rec.ID), data); err != nil {
			return err
		}
		return txn.Set(timeKey(rec.CreatedAt, rec.ID), []byte(rec.ID))
	})
}

// Get returns the record for id, or ErrNotFound.
func (a *Archive) Get(id string) (Record, error) {
	if err := validateID(id); err != nil {
		return Record{}, err
	}
	var rec Record
	err := a.db.View(func(txn *badger.Txn) error {
		return readRecord(txn, id, &rec)
	})
	return rec, err
}

// Recent returns up to limit records, newest first.
func (a *Archive) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}

	out := make([]Record, 0, limit)
	err := a.db.View(func(txn *badger.Txn) error {
		prefix := []byte(timePrefix)
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, prefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(out) < limit; it.Next() {
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var rec Record
			if err := readRecord(txn, string(id), &rec); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func readRecord(txn *badger.Txn, id string, rec *Record) error {
	item, err := txn.Get([]byte(recordPrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, rec)
	})
}

func timeKey(t time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d/%s", timePrefix, t.UnixNano(), id))
}

func validateID(id string) error {
	if err := validation.ValidateSolutionID(id); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return nil
}
