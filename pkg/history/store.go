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

package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📝 RecordRun stores a run and its ranked patterns in one transaction
func (s *Store) RecordRun(ctx context.Context, run Run, patterns []RunPattern) (int64, error) {
	logger := zerolog.Ctx(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (kind, corpus_root, rule_set_hash, started_at, finished_at, file_count, failed_count, match_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Kind, run.CorpusRoot, run.RuleSetHash,
		run.StartedAt, run.FinishedAt,
		run.FileCount, run.FailedCount, run.MatchCount,
	)
	if err != nil {
		return 0, errors.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Errorf("reading run id: %w", err)
	}

	for _, p := range patterns {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO run_patterns (run_id, rank, pattern, scope, match_count, file_count)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, p.Rank, p.Pattern, p.Scope, p.Matches, p.Files,
		)
		if err != nil {
			return 0, errors.Errorf("inserting pattern %q: %w", p.Pattern, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Errorf("committing run: %w", err)
	}

	logger.Debug().
		Int64("run_id", runID).
		Str("kind", run.Kind).
		Int("patterns", len(patterns)).
		Msg("recorded run")

	return runID, nil
}

// 📜 ListRuns returns the most recent runs, newest first. limit <= 0 means all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, corpus_root, rule_set_hash, started_at, finished_at, file_count, failed_count, match_count
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.CorpusRoot, &r.RuleSetHash,
			&r.StartedAt, &r.FinishedAt, &r.FileCount, &r.FailedCount, &r.MatchCount); err != nil {
			return nil, errors.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating runs: %w", err)
	}
	return out, nil
}

// 🔍 LastRun returns the most recent run of the given kind, or nil when the
// history is empty. Empty kind matches any run.
func (s *Store) LastRun(ctx context.Context, kind string) (*Run, error) {
	query := `SELECT id, kind, corpus_root, rule_set_hash, started_at, finished_at, file_count, failed_count, match_count
		 FROM runs`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY started_at DESC, id DESC LIMIT 1`

	var r Run
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&r.ID, &r.Kind, &r.CorpusRoot, &r.RuleSetHash,
		&r.StartedAt, &r.FinishedAt, &r.FileCount, &r.FailedCount, &r.MatchCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Errorf("querying last run: %w", err)
	}
	return &r, nil
}

// 📈 TopPatterns returns a run's ranked patterns. n <= 0 means all.
func (s *Store) TopPatterns(ctx context.Context, runID int64, n int) ([]RunPattern, error) {
	if n <= 0 {
		n = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT rank, pattern, scope, match_count, file_count
		 FROM run_patterns WHERE run_id = ? ORDER BY rank ASC LIMIT ?`, runID, n)
	if err != nil {
		return nil, errors.Errorf("querying run patterns: %w", err)
	}
	defer rows.Close()

	var out []RunPattern
	for rows.Next() {
		var p RunPattern
		if err := rows.Scan(&p.Rank, &p.Pattern, &p.Scope, &p.Matches, &p.Files); err != nil {
			return nil, errors.Errorf("scanning pattern: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating patterns: %w", err)
	}
	return out, nil
}

// 📉 TrendPoint is one run's count for a tracked pattern
type TrendPoint struct {
	RunID     int64
	StartedAt time.Time
	Matches   int
}

// 📉 Trend returns a pattern's match counts across runs, oldest first, so
// a shrinking series shows the rule pack is working. limit <= 0 means all.
func (s *Store) Trend(ctx context.Context, pattern string, scope string, limit int) ([]TrendPoint, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.started_at, p.match_count
		 FROM run_patterns p JOIN runs r ON r.id = p.run_id
		 WHERE p.pattern = ? AND p.scope = ?
		 ORDER BY r.started_at ASC, r.id ASC LIMIT ?`, pattern, scope, limit)
	if err != nil {
		return nil, errors.Errorf("querying trend: %w", err)
	}
	defer rows.Close()

	var out []TrendPoint
	for rows.Next() {
		var tp TrendPoint
		if err := rows.Scan(&tp.RunID, &tp.StartedAt, &tp.Matches); err != nil {
			return nil, errors.Errorf("scanning trend point: %w", err)
		}
		out = append(out, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating trend: %w", err)
	}
	return out, nil
}
