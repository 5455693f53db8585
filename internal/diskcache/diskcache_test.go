package diskcache

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/vanderheijden86/dailyview/internal/source"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	store := openStore(t)

	if err := store.Put("papers", "2025-01-02.json", []byte("[]")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	body, at, ok, err := store.Get("papers", "2025-01-02.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Snapshot not found after Put")
	}
	if string(body) != "[]" {
		t.Errorf("Body = %q", body)
	}
	if at.IsZero() {
		t.Error("FetchedAt not recorded")
	}
}

func TestStore_GetMissingIsNotAnError(t *testing.T) {
	store := openStore(t)

	_, _, ok, err := store.Get("papers", "2025-01-02.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Found a snapshot in an empty store")
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	store := openStore(t)

	if err := store.Put("news", "2025-01-02.json", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := store.Put("news", "2025-01-02.json", []byte("new")); err != nil {
		t.Fatal(err)
	}

	body, _, _, err := store.Get("news", "2025-01-02.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "new" {
		t.Errorf("Body = %q, want the overwritten value", body)
	}

	n, err := store.Count("news")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestStore_EvictsOldestDatesPerKind(t *testing.T) {
	store := openStore(t)
	store.SetMaxEntries(2)

	for _, date := range []string{"2025-01-01.json", "2025-01-02.json", "2025-01-03.json"} {
		if err := store.Put("papers", date, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	// Another kind is untouched by papers eviction.
	if err := store.Put("reports", "2024-12-01.json", []byte("y")); err != nil {
		t.Fatal(err)
	}

	dates, err := store.Dates("papers")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2025-01-03.json", "2025-01-02.json"}
	if len(dates) != len(want) {
		t.Fatalf("Dates = %v, want %v", dates, want)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("Dates[%d] = %q, want %q", i, dates[i], want[i])
		}
	}

	if n, _ := store.Count("reports"); n != 1 {
		t.Errorf("reports Count = %d, want 1", n)
	}
}

func TestStore_PruneByFetchTime(t *testing.T) {
	store := openStore(t)

	if err := store.Put("papers", "2025-01-02.json", []byte("x")); err != nil {
		t.Fatal(err)
	}

	// Everything was just fetched, so a cutoff in the past removes nothing.
	n, err := store.Prune(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Pruned %d snapshots, want 0", n)
	}

	n, err = store.Prune(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Pruned %d snapshots, want 1", n)
	}
}

func TestSnapshotKey(t *testing.T) {
	cases := []struct {
		relPath string
		kind    string
		name    string
	}{
		{"data/papers/2025-01-02.json", "papers", "2025-01-02.json"},
		{"data/analysis/deep/2501.00001.md", "analysis", "deep/2501.00001.md"},
		{"data/analysis/deep_analysis_status.json?t=1735", "analysis", "deep_analysis_status.json"},
		{"data/file-list.json", "index", "file-list.json"},
	}
	for _, tc := range cases {
		kind, name := snapshotKey(tc.relPath)
		if kind != tc.kind || name != tc.name {
			t.Errorf("snapshotKey(%q) = (%q, %q), want (%q, %q)",
				tc.relPath, kind, name, tc.kind, tc.name)
		}
	}
}

// =============================================================================
// FallbackSource
// =============================================================================

type scriptedSource struct {
	files map[string]string
	errs  map[string]error
}

func (s *scriptedSource) Fetch(_ context.Context, relPath string) ([]byte, error) {
	if err, ok := s.errs[relPath]; ok {
		return nil, err
	}
	if body, ok := s.files[relPath]; ok {
		return []byte(body), nil
	}
	return nil, fmt.Errorf("fetch %s: %w", relPath, source.ErrNotFound)
}

func TestFallbackSource_MirrorsSuccessfulFetches(t *testing.T) {
	store := openStore(t)
	inner := &scriptedSource{files: map[string]string{
		"data/papers/2025-01-02.json": "[]",
	}}

	wrapped := WrapSource(inner, store)
	if _, err := wrapped.Fetch(context.Background(), "data/papers/2025-01-02.json"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	body, _, ok, err := store.Get("papers", "2025-01-02.json")
	if err != nil || !ok {
		t.Fatalf("Snapshot not mirrored: ok=%v err=%v", ok, err)
	}
	if string(body) != "[]" {
		t.Errorf("Snapshot body = %q", body)
	}
}

func TestFallbackSource_ServesSnapshotOnTransportFailure(t *testing.T) {
	store := openStore(t)
	inner := &scriptedSource{files: map[string]string{
		"data/papers/2025-01-02.json": "[]",
	}}
	wrapped := WrapSource(inner, store)

	// Warm the snapshot, then make the source unreachable.
	if _, err := wrapped.Fetch(context.Background(), "data/papers/2025-01-02.json"); err != nil {
		t.Fatal(err)
	}
	inner.errs = map[string]error{
		"data/papers/2025-01-02.json": errors.New("connection refused"),
	}

	body, err := wrapped.Fetch(context.Background(), "data/papers/2025-01-02.json")
	if err != nil {
		t.Fatalf("Fetch did not fall back to snapshot: %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("Body = %q", body)
	}
}

func TestFallbackSource_NotFoundPassesThrough(t *testing.T) {
	store := openStore(t)
	// A snapshot exists, but the source now says the artifact is gone.
	// Absence is a real answer and must not be masked.
	if err := store.Put("reports", "2025-01-02.json", []byte("{}")); err != nil {
		t.Fatal(err)
	}

	wrapped := WrapSource(&scriptedSource{}, store)
	_, err := wrapped.Fetch(context.Background(), "data/reports/2025-01-02.json")
	if !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Want ErrNotFound passed through, got %v", err)
	}
}

func TestFallbackSource_NoSnapshotPropagatesOriginalError(t *testing.T) {
	store := openStore(t)
	inner := &scriptedSource{errs: map[string]error{
		"data/papers/2025-01-02.json": errors.New("connection refused"),
	}}

	wrapped := WrapSource(inner, store)
	_, err := wrapped.Fetch(context.Background(), "data/papers/2025-01-02.json")
	if err == nil || errors.Is(err, source.ErrNotFound) {
		t.Errorf("Want the original transport error, got %v", err)
	}
}
