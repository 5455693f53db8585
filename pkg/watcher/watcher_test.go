package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var callCount atomic.Int32

	// Trigger rapidly 10 times
	for i := 0; i < 10; i++ {
		d.Trigger(func() {
			callCount.Add(1)
		})
		time.Sleep(10 * time.Millisecond)
	}

	// Wait for debounce to complete
	time.Sleep(150 * time.Millisecond)

	if count := callCount.Load(); count != 1 {
		t.Errorf("expected 1 callback invocation, got %d", count)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool

	d.Trigger(func() {
		called.Store(true)
	})

	// Cancel before debounce completes
	d.Cancel()

	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not have been invoked after cancel")
	}
}

func TestDebouncer_ZeroDurationFallsBackToDefault(t *testing.T) {
	d := NewDebouncer(0)
	if d.duration != DefaultDebounceDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDebounceDuration, d.duration)
	}
}

func TestIsDataArtifact(t *testing.T) {
	cases := map[string]bool{
		"2025-01-02.json":         true,
		"2025-01-02.jsonl":        true,
		"2501.00001.md":           true,
		"2025-01-02.JSON":         true,
		"2025-01-02.json.tmp":     false,
		".2025-01-02.json.swp":    false,
		"deep_analysis_status.db": false,
	}
	for name, want := range cases {
		if got := isDataArtifact(name); got != want {
			t.Errorf("isDataArtifact(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWatcher_DetectsArtifactWrite(t *testing.T) {
	tmpDir := t.TempDir()
	papersDir := filepath.Join(tmpDir, "data", "papers")
	if err := os.MkdirAll(papersDir, 0o755); err != nil {
		t.Fatal(err)
	}

	var changed atomic.Bool

	w, err := New(tmpDir,
		WithDebounceDuration(50*time.Millisecond),
		WithOnChange(func() {
			changed.Store(true)
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Let the watcher settle before writing
	time.Sleep(100 * time.Millisecond)

	file := filepath.Join(papersDir, "2025-01-02.json")
	if err := os.WriteFile(file, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for !changed.Load() {
		select {
		case <-deadline:
			t.Fatal("change not detected within deadline")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestWatcher_IgnoresTempFiles(t *testing.T) {
	tmpDir := t.TempDir()
	papersDir := filepath.Join(tmpDir, "data", "papers")
	if err := os.MkdirAll(papersDir, 0o755); err != nil {
		t.Fatal(err)
	}

	var changed atomic.Bool

	w, err := New(tmpDir,
		WithDebounceDuration(50*time.Millisecond),
		WithOnChange(func() {
			changed.Store(true)
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)

	file := filepath.Join(papersDir, "2025-01-02.json.tmp")
	if err := os.WriteFile(file, []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)

	if changed.Load() {
		t.Error("temp file write should not trigger a change")
	}
}

func TestWatcher_MissingTreeFallsBackToPolling(t *testing.T) {
	// No data/ tree at all: nothing for fsnotify to watch.
	w, err := New(t.TempDir(), WithPollInterval(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("expected polling fallback when no directories exist")
	}
}

func TestWatcher_PollingDetectsNewArtifact(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New(tmpDir,
		WithPollInterval(50*time.Millisecond),
		WithDebounceDuration(20*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling mode")
	}

	// The tree appears after the watcher starts.
	reportsDir := filepath.Join(tmpDir, "data", "reports")
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(reportsDir, "2025-01-02.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changed():
	case <-time.After(3 * time.Second):
		t.Fatal("polling did not detect the new artifact")
	}
}

func TestWatcher_StartTwiceErrors(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}
