// Package watch notifies the engine when the working tree changes, so a
// long-lived shell refreshes its change list without polling.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"revu/internal/logging"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher observes a repository root recursively and invokes the
// callback after event bursts settle. Events under ignored directories
// (VCS metadata, dependency trees, build output) are dropped.
type Watcher struct {
	root       string
	watcher    *fsnotify.Watcher
	onChange   func()
	debounce   time.Duration
	ignoreDirs map[string]bool

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// New starts watching the repository root. The callback runs on the
// watcher's goroutine; keep it cheap (typically a refresh trigger).
func New(root string, onChange func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		watcher:  fsWatcher,
		onChange: onChange,
		debounce: defaultDebounce,
		ignoreDirs: map[string]bool{
			".git":         true,
			"node_modules": true,
			"vendor":       true,
			"dist":         true,
			"build":        true,
			"target":       true,
		},
	}

	if err := w.addRecursive(root); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}

	go w.loop()
	return w, nil
}

// Close stops the watcher. Pending debounced callbacks are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("adding directory to watcher: %w", err)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Logger.Error("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.shouldIgnore(event.Name) {
		return
	}

	// New directories need to be picked up for recursive coverage.
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				logging.Logger.Error("Adding new directory to watcher", "path", event.Name, "error", err)
			}
		}
	}

	w.scheduleCallback()
}

// scheduleCallback coalesces event bursts into one callback after the
// debounce window.
func (w *Watcher) scheduleCallback() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		closed := w.closed
		w.mu.Unlock()
		if !closed {
			w.onChange()
		}
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if w.ignoreDirs[part] {
			return true
		}
	}
	return false
}
