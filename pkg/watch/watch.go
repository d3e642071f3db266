// Package watch re-runs analysis when source files change, with debounce
// so editor save bursts trigger one run.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a tree and invokes a callback after changes settle.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	debounce  time.Duration
	callback  func()

	mu      sync.Mutex
	pending bool
}

// New creates a watcher over root. Debounce defaults to 500ms.
func New(root string, debounce time.Duration, callback func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		root:      root,
		debounce:  debounce,
		callback:  callback,
	}, nil
}

// relevant limits triggers to the files the analysis reads.
func relevant(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kt", ".kts", ".java", ".xml":
		return true
	}
	return false
}

// skipDir excludes build output and VCS metadata from the watch set.
func skipDir(name string) bool {
	switch name {
	case ".git", ".gradle", ".idea", "build", "generated", ".deadwood-cache":
		return true
	}
	return strings.HasPrefix(name, ".")
}

// Start blocks until ctx is canceled, dispatching debounced callbacks.
func (w *Watcher) Start(ctx context.Context) error {
	defer w.fsWatcher.Close()

	err := filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != w.root && skipDir(info.Name()) {
				return filepath.SkipDir
			}
			return w.fsWatcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// newly created directories join the watch set
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(filepath.Base(event.Name)) {
					w.fsWatcher.Add(event.Name)
					continue
				}
			}
			if !relevant(event.Name) {
				continue
			}
			w.mu.Lock()
			w.pending = true
			w.mu.Unlock()
			timer.Reset(w.debounce)
		case <-timer.C:
			w.mu.Lock()
			fire := w.pending
			w.pending = false
			w.mu.Unlock()
			if fire {
				w.callback()
			}
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}
