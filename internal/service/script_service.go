package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ─────────────────────────────────────────────────────────────
// Script Service — raw execution and the user script library
// ─────────────────────────────────────────────────────────────

// ScriptService runs arbitrary ExtendScript and maintains a library of
// user scripts on disk. The library directory is watched, so scripts
// dropped in while the server runs become available without a restart.
type ScriptService struct {
	disp *Dispatcher
	dir  string

	mu      sync.RWMutex
	index   map[string]string // script name -> absolute path
	watcher *fsnotify.Watcher
}

// NewScriptService creates a ScriptService. An empty dir disables the
// script library; RunRaw still works.
func NewScriptService(disp *Dispatcher, dir string) *ScriptService {
	return &ScriptService{disp: disp, dir: dir, index: map[string]string{}}
}

// Start scans the library directory and begins watching it for changes.
func (s *ScriptService) Start() error {
	if s.dir == "" {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create script dir: %w", err)
	}
	if err := s.rescan(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create script watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch script dir: %w", err)
	}
	s.watcher = watcher

	go s.watchLoop(watcher)
	log.Printf("script library: watching %s (%d script(s))", s.dir, len(s.index))
	return nil
}

// Stop closes the directory watcher.
func (s *ScriptService) Stop() {
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}

// ListScripts returns the names of the available library scripts,
// sorted.
func (s *ScriptService) ListScripts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.index))
	for name := range s.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunLibraryScript runs a named script from the library.
func (s *ScriptService) RunLibraryScript(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	path, ok := s.index[name]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown script %q", name)
	}

	// Read at call time; the file may have changed since indexing.
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read script %q: %w", name, err)
	}
	out, err := s.disp.Run(ctx, "run_script:"+name, string(data))
	if err != nil {
		return "", fmt.Errorf("run script %q: %w", name, err)
	}
	return out, nil
}

// RunRaw executes ExtendScript source supplied by the caller.
func (s *ScriptService) RunRaw(ctx context.Context, script string) (string, error) {
	if strings.TrimSpace(script) == "" {
		return "", fmt.Errorf("script is empty")
	}
	return s.disp.Run(ctx, "execute_script", script)
}

// rescan rebuilds the name index from the library directory.
func (s *ScriptService) rescan() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read script dir: %w", err)
	}

	index := map[string]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".jsx" && ext != ".js" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		index[name] = filepath.Join(s.dir, e.Name())
	}

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()
	return nil
}

// watchLoop owns its watcher reference; Stop closes the watcher, which
// ends the loop through closed channels.
func (s *ScriptService) watchLoop(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.rescan(); err != nil {
				log.Printf("script library: rescan failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("script library: watcher error: %v", err)
		}
	}
}
