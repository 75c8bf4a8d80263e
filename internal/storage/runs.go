package storage

import (
	"fmt"

	"indesign-mcp/internal/domain"

	"github.com/google/uuid"
)

// RunStore persists script run history in SQLite.
type RunStore struct {
	db *DB
}

func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// RecordRun inserts a script run. A missing ID is filled in.
func (s *RunStore) RecordRun(r *domain.ScriptRun) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	_, err := s.db.Conn().Exec(
		`INSERT INTO script_runs (id, tool, script, output, success, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Tool, r.Script, r.Output, r.Success, r.DurationMs, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(limit int) ([]domain.ScriptRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Conn().Query(
		`SELECT id, tool, script, output, success, duration_ms, created_at
		 FROM script_runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ScriptRun
	for rows.Next() {
		var r domain.ScriptRun
		if err := rows.Scan(&r.ID, &r.Tool, &r.Script, &r.Output, &r.Success, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
