package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/vanderheijden86/dailyview/internal/source"
	"github.com/vanderheijden86/dailyview/pkg/catalog"
	"github.com/vanderheijden86/dailyview/pkg/model"
)

type fakeSource struct {
	body []byte
	err  error
}

func (f *fakeSource) Fetch(_ context.Context, relPath string) ([]byte, error) {
	if relPath != catalog.IndexPath {
		return nil, fmt.Errorf("fetch %s: %w", relPath, source.ErrNotFound)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

func TestGet_ParsesIndex(t *testing.T) {
	src := &fakeSource{body: []byte(`{
		"papers": ["2025-01-02.json", "2025-01-01.json"],
		"news": ["2025-01-02.json"],
		"reports": [],
		"last_updated": "2025-01-02T06:00:00Z"
	}`)}

	cat := catalog.New(src, catalog.Options{WarningHandler: func(string) {}}).Get(context.Background())
	if len(cat.Papers) != 2 || len(cat.News) != 1 || len(cat.Reports) != 0 {
		t.Errorf("Wrong catalog: %+v", cat)
	}
	if got := cat.LatestDate(model.KindPapers); got != "2025-01-02" {
		t.Errorf("LatestDate = %q, want 2025-01-02", got)
	}
	if cat.LastUpdated.IsZero() {
		t.Error("Expected last_updated to parse")
	}
}

func TestGet_FetchFailureYieldsEmptyCatalog(t *testing.T) {
	var warnings []string
	src := &fakeSource{err: errors.New("dns failure")}
	cat := catalog.New(src, catalog.Options{WarningHandler: func(msg string) {
		warnings = append(warnings, msg)
	}}).Get(context.Background())

	if !cat.IsEmpty() {
		t.Errorf("Expected empty catalog, got %+v", cat)
	}
	if len(warnings) != 1 {
		t.Errorf("Expected one warning, got %v", warnings)
	}
}

func TestGet_MalformedIndexYieldsEmptyCatalog(t *testing.T) {
	var warned bool
	src := &fakeSource{body: []byte("<html>502 Bad Gateway</html>")}
	cat := catalog.New(src, catalog.Options{WarningHandler: func(string) { warned = true }}).Get(context.Background())

	if !cat.IsEmpty() {
		t.Errorf("Expected empty catalog, got %+v", cat)
	}
	if !warned {
		t.Error("Expected a warning for the malformed index")
	}
}

func TestGet_NilSlicesNormalized(t *testing.T) {
	// An index that omits kinds entirely must still render as zero datasets,
	// not nils.
	src := &fakeSource{body: []byte(`{"last_updated": "2025-01-02T06:00:00Z"}`)}
	cat := catalog.New(src, catalog.Options{WarningHandler: func(string) {}}).Get(context.Background())

	if cat.Papers == nil || cat.News == nil || cat.Reports == nil {
		t.Errorf("Expected non-nil slices: %+v", cat)
	}
}
