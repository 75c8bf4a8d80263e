package domain

import "time"

// ScriptRun is one dispatched ExtendScript execution, recorded for
// diagnostics and the script history resource.
type ScriptRun struct {
	ID         string    `json:"id"`
	Tool       string    `json:"tool"`
	Script     string    `json:"script"`
	Output     string    `json:"output"`
	Success    bool      `json:"success"`
	DurationMs int       `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ScriptRunStore persists script run history.
type ScriptRunStore interface {
	RecordRun(r *ScriptRun) error
	ListRuns(limit int) ([]ScriptRun, error)
}

// SnapshotStore persists layout session snapshots across restarts.
type SnapshotStore interface {
	SaveSnapshot(payload string) error
	LatestSnapshot() (string, bool, error)
}
