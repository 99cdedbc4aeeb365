// Package store handles SQLite persistence of the attempt journal.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/digitdrill/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for journaled attempts.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			deadline_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			round INTEGER NOT NULL,
			challenge TEXT NOT NULL,
			input TEXT NOT NULL,
			selected_date TEXT NOT NULL,
			outcome TEXT NOT NULL,
			elapsed_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_session ON attempts(session_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// StartSession registers a practice session.
func (s *Store) StartSession(ctx context.Context, info model.SessionInfo) error {
	if info.ID == "" {
		return fmt.Errorf("session id is empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, deadline_ms) VALUES (?, ?, ?)`,
		info.ID,
		info.StartedAt.Format(time.RFC3339Nano),
		info.DeadlineMs,
	)
	return err
}

// RecordAttempt appends one submission or confirmation to the journal.
func (s *Store) RecordAttempt(ctx context.Context, rec model.AttemptRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (session_id, created_at, round, challenge, input, selected_date, outcome, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.CreatedAt.Format(time.RFC3339Nano),
		rec.Round,
		rec.Challenge,
		rec.Input,
		rec.SelectedDate,
		rec.Outcome,
		rec.ElapsedMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
// Sessions without any attempt are omitted.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "s.started_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	// Submissions are journaled as invalid or pending; confirmations add
	// success or timeout rows for an already counted pending submission.
	query := fmt.Sprintf(`SELECT s.id, s.started_at, s.deadline_ms,
			COALESCE(SUM(CASE WHEN a.outcome IN ('invalid', 'pending') THEN 1 ELSE 0 END), 0) AS attempts,
			COALESCE(SUM(CASE WHEN a.outcome = 'success' THEN 1 ELSE 0 END), 0) AS successes,
			COALESCE(SUM(CASE WHEN a.outcome = 'timeout' THEN 1 ELSE 0 END), 0) AS timeouts,
			COALESCE(SUM(CASE WHEN a.outcome = 'success' THEN a.elapsed_ms ELSE 0 END), 0) AS success_sum_ms,
			COALESCE(MIN(CASE WHEN a.outcome = 'success' THEN a.elapsed_ms END), 0) AS best_success_ms
		FROM sessions s
		JOIN attempts a ON a.session_id = s.id
		WHERE %s
		GROUP BY s.id
		ORDER BY s.started_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var startedAt string
		if err := rows.Scan(&agg.SessionID, &startedAt, &agg.DeadlineMs, &agg.Attempts, &agg.Successes, &agg.Timeouts, &agg.SuccessSumMs, &agg.BestSuccessMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, err
		}
		agg.StartedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListSuccesses returns successful rounds for the given sessions in time order.
func (s *Store) ListSuccesses(ctx context.Context, sessionIDs []string) ([]model.SuccessSample, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT session_id, created_at, elapsed_ms
		FROM attempts
		WHERE outcome = 'success' AND session_id IN (%s)
		ORDER BY created_at ASC, id ASC`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SuccessSample
	for rows.Next() {
		var sample model.SuccessSample
		var createdAt string
		if err := rows.Scan(&sample.SessionID, &createdAt, &sample.ElapsedMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		sample.CreatedAt = parsed
		result = append(result, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
