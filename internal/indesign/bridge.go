package indesign

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single script dispatch. InDesign scripts are
// slow: document opens and exports routinely take seconds.
const DefaultTimeout = 60 * time.Second

// DefaultApp is the application name osascript targets.
const DefaultApp = "Adobe InDesign 2025"

// Bridge runs ExtendScript inside a running InDesign instance. Each
// call serializes the script to a temp file and drives InDesign
// through osascript, one process per call.
type Bridge struct {
	app     string // application name, e.g. "Adobe InDesign 2025"
	tempDir string
	timeout time.Duration
}

// NewBridge creates a Bridge targeting the named InDesign application.
// tempDir defaults to the system temp directory; timeout defaults to
// DefaultTimeout.
func NewBridge(app, tempDir string, timeout time.Duration) *Bridge {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bridge{app: app, tempDir: tempDir, timeout: timeout}
}

// Run executes a script and returns its trimmed result value.
func (b *Bridge) Run(ctx context.Context, script string) (string, error) {
	path := filepath.Join(b.tempDir, "idmcp-"+uuid.New().String()+".jsx")
	if err := os.WriteFile(path, []byte(script), 0600); err != nil {
		return "", fmt.Errorf("write script file: %w", err)
	}
	defer os.Remove(path)

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	osa := fmt.Sprintf(`tell application %q to do script (POSIX file %q) language javascript`, b.app, path)
	cmd := exec.CommandContext(ctx, "osascript", "-e", osa)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("osascript error: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}
