package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SnapshotStore persists exported session payloads so a session can be
// restored after a restart.
type SnapshotStore struct {
	db *DB
}

func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// SaveSnapshot stores a session payload.
func (s *SnapshotStore) SaveSnapshot(payload string) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO session_snapshots (id, payload, created_at) VALUES (?, ?, ?)`,
		uuid.New().String(), payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent payload. The second return is
// false when no snapshot exists.
func (s *SnapshotStore) LatestSnapshot() (string, bool, error) {
	var payload string
	err := s.db.Conn().QueryRow(
		`SELECT payload FROM session_snapshots ORDER BY created_at DESC LIMIT 1`,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("latest snapshot: %w", err)
	}
	return payload, true, nil
}

// Prune deletes all but the newest keep snapshots.
func (s *SnapshotStore) Prune(keep int) error {
	if keep <= 0 {
		keep = 10
	}
	_, err := s.db.Conn().Exec(
		`DELETE FROM session_snapshots WHERE id NOT IN (
			SELECT id FROM session_snapshots ORDER BY created_at DESC LIMIT ?
		)`, keep,
	)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
