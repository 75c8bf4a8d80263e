package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"indesign-mcp/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// ScriptRunner — decouples services from the osascript bridge
// ─────────────────────────────────────────────────────────────

// ScriptRunner executes ExtendScript against InDesign and returns its
// textual result. The indesign.Bridge implements this; services receive
// the interface so they are testable with a mock runner.
type ScriptRunner interface {
	Run(ctx context.Context, script string) (string, error)
}

// MockRunner is a test-friendly ScriptRunner that records every script
// it receives and replays queued outputs in order.
type MockRunner struct {
	Scripts []string
	Outputs []string
	Errs    []error
	calls   int
}

func (m *MockRunner) Run(_ context.Context, script string) (string, error) {
	m.Scripts = append(m.Scripts, script)
	i := m.calls
	m.calls++
	var out string
	var err error
	if i < len(m.Outputs) {
		out = m.Outputs[i]
	}
	if i < len(m.Errs) {
		err = m.Errs[i]
	}
	return out, err
}

// ─────────────────────────────────────────────────────────────
// Dispatcher — runs scripts and records run history
// ─────────────────────────────────────────────────────────────

// Dispatcher wraps a ScriptRunner and writes every execution to the
// run history store. A nil store disables history.
type Dispatcher struct {
	runner ScriptRunner
	runs   domain.ScriptRunStore
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(runner ScriptRunner, runs domain.ScriptRunStore) *Dispatcher {
	return &Dispatcher{runner: runner, runs: runs}
}

// Run executes a script on behalf of a named tool. The run is recorded
// whether it succeeds or fails; a history write failure is logged, not
// returned.
func (d *Dispatcher) Run(ctx context.Context, tool, script string) (string, error) {
	start := time.Now()
	out, err := d.runner.Run(ctx, script)
	elapsed := time.Since(start)

	if d.runs != nil {
		run := &domain.ScriptRun{
			ID:         uuid.NewString(),
			Tool:       tool,
			Script:     script,
			Output:     out,
			Success:    err == nil,
			DurationMs: int(elapsed.Milliseconds()),
			CreatedAt:  start,
		}
		if err != nil {
			run.Output = err.Error()
		}
		if recErr := d.runs.RecordRun(run); recErr != nil {
			log.Printf("dispatcher: failed to record run for %s: %v", tool, recErr)
		}
	}

	return out, err
}
