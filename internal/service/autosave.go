package service

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"indesign-mcp/internal/domain"
	"indesign-mcp/internal/session"
)

// ─────────────────────────────────────────────────────────────
// Autosaver — periodic session snapshots
// ─────────────────────────────────────────────────────────────

// Autosaver periodically exports the layout session to the snapshot
// store so state survives a server restart.
type Autosaver struct {
	store *session.Store
	snaps domain.SnapshotStore
	sched *cron.Cron
}

// NewAutosaver creates an Autosaver.
func NewAutosaver(store *session.Store, snaps domain.SnapshotStore) *Autosaver {
	return &Autosaver{store: store, snaps: snaps}
}

// Start schedules snapshots using a cron expression.
func (a *Autosaver) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, a.SnapshotNow); err != nil {
		return fmt.Errorf("invalid autosave schedule %q: %w", spec, err)
	}
	c.Start()
	a.sched = c
	log.Printf("autosave: scheduled %q", spec)
	return nil
}

// Stop cancels scheduled snapshots.
func (a *Autosaver) Stop() {
	if a.sched != nil {
		a.sched.Stop()
		a.sched = nil
	}
}

// SnapshotNow exports the session and persists it. Failures are logged,
// not returned; a missed autosave must never interrupt tool handling.
func (a *Autosaver) SnapshotNow() {
	payload, err := a.store.Export()
	if err != nil {
		log.Printf("autosave: export failed: %v", err)
		return
	}
	if err := a.snaps.SaveSnapshot(payload); err != nil {
		log.Printf("autosave: save failed: %v", err)
	}
}

// RestoreLatest imports the most recent snapshot, if any. It reports
// whether a snapshot was applied.
func (a *Autosaver) RestoreLatest() (bool, error) {
	payload, ok, err := a.snaps.LatestSnapshot()
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		return false, nil
	}
	if !a.store.Import(payload) {
		return false, fmt.Errorf("snapshot payload rejected")
	}
	return true, nil
}
