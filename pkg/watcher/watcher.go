// Package watcher monitors a local data directory for pipeline output. It
// only applies when dv reads straight from the producer's disk; over HTTP
// there is nothing to watch and refresh stays poll-driven.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is the polling interval for fallback mode.
const DefaultPollInterval = 5 * time.Second

// Common errors.
var (
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Subdirectories of the data root that hold refreshable artifacts.
var watchedSubdirs = []string{"papers", "news", "reports", "analysis", "analysis/deep"}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// WithOnChange sets the callback invoked when the data tree changes.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher monitors the data tree using fsnotify with polling fallback.
type Watcher struct {
	dataDir          string
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	onError          func(error)

	fsWatcher   *fsnotify.Watcher
	debouncer   *Debouncer
	useFallback bool
	lastStamp   time.Time

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// New creates a watcher for the given data directory (the directory that
// contains the data/ tree).
func New(dataDir string, opts ...Option) (*Watcher, error) {
	absDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		dataDir:          absDir,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.debouncer = NewDebouncer(w.debounceDuration)

	return w, nil
}

// Start begins watching. Directories that do not exist yet are skipped; a
// fresh deployment may not have produced every kind.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.useFallback = false
	w.lastStamp = w.latestModTime()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.useFallback = true
	} else {
		added := 0
		for _, dir := range w.watchDirs() {
			if addErr := fsw.Add(dir); addErr == nil {
				added++
			}
		}
		if added == 0 {
			fsw.Close()
			w.useFallback = true
		} else {
			w.fsWatcher = fsw
			go w.watchFsnotify()
		}
	}

	if w.useFallback {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// Stop stops watching. The change channel is intentionally left open;
// closing it would race with notifyChange.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}

	if w.cancel != nil {
		w.cancel()
	}

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}

	w.debouncer.Cancel()
	w.started = false
}

// IsPolling returns true if the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.useFallback
}

// Changed returns a channel that receives when the data tree changes.
// This is an alternative to using the OnChange callback.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// watchDirs lists the data root and the artifact subdirectories that
// currently exist.
func (w *Watcher) watchDirs() []string {
	root := filepath.Join(w.dataDir, "data")
	dirs := []string{root}
	for _, sub := range watchedSubdirs {
		dirs = append(dirs, filepath.Join(root, filepath.FromSlash(sub)))
	}
	var existing []string
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			existing = append(existing, dir)
		}
	}
	return existing
}

// isDataArtifact reports whether a changed path is one of the files dv
// reads, as opposed to producer temp files.
func isDataArtifact(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".jsonl", ".md":
		return true
	default:
		return false
	}
}

// watchFsnotify monitors using fsnotify events.
func (w *Watcher) watchFsnotify() {
	w.mu.RLock()
	if w.fsWatcher == nil {
		w.mu.RUnlock()
		return
	}
	events := w.fsWatcher.Events
	errs := w.fsWatcher.Errors
	w.mu.RUnlock()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if !isDataArtifact(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.debouncer.Trigger(w.notifyChange)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// watchPolling monitors using periodic scans of the data tree.
func (w *Watcher) watchPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			stamp := w.latestModTime()

			w.mu.Lock()
			changed := stamp.After(w.lastStamp)
			if changed {
				w.lastStamp = stamp
			}
			w.mu.Unlock()

			if changed {
				w.debouncer.Trigger(w.notifyChange)
			}
		}
	}
}

// latestModTime returns the newest mtime of any data artifact in the tree.
func (w *Watcher) latestModTime() time.Time {
	var latest time.Time
	for _, dir := range w.watchDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !isDataArtifact(e.Name()) {
				continue
			}
			if info, err := e.Info(); err == nil && info.ModTime().After(latest) {
				latest = info.ModTime()
			}
		}
	}
	return latest
}

// notifyChange invokes the onChange callback and signals the change channel.
func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()

	if !started {
		return
	}

	w.onChange()

	// Non-blocking send to change channel
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
