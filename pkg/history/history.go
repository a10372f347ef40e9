// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package history records corpus runs in a local SQLite database.
//
// 🎯 Purpose: the lock file only remembers the latest state. History keeps
// every run, so the maintainer of a digitization project can see whether a
// rule pack actually drives error counts down across re-scans.
//
// 📝 Schema: a `runs` row per pass plus ranked `run_patterns` rows holding
// that run's top error patterns. The schema is embedded and applied on
// open, so the database file needs no external setup.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

//go:embed migrations.sql
var migrationsSQL string

// DefaultName is the history database file name, kept beside the config
const DefaultName = ".ocrrc.db"

// Run kinds
const (
	KindAnalyze = "analyze"
	KindCorrect = "correct"
)

// 📊 Run is one recorded corpus pass
type Run struct {
	ID          int64
	Kind        string
	CorpusRoot  string
	RuleSetHash string
	StartedAt   time.Time
	FinishedAt  time.Time
	FileCount   int
	FailedCount int
	MatchCount  int
}

// 📈 RunPattern is one ranked error pattern within a run
type RunPattern struct {
	Rank    int
	Pattern string
	Scope   string
	Matches int
	Files   int
}

// 🗄️ Store wraps the SQLite connection
type Store struct {
	db *sql.DB
}

// 🆕 Open opens (or creates) the history database and applies migrations
func Open(ctx context.Context, path string) (*Store, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("opening history database")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Errorf("opening history database: %w", err)
	}

	if err := initDB(ctx, db); err != nil {
		db.Close()
		return nil, errors.Errorf("initializing history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// initDB applies the embedded schema statement by statement
func initDB(ctx context.Context, db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, s); err != nil {
			return errors.Errorf("applying migration: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
