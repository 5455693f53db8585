// Package loader fetches and parses per-day dataset files. Dataset bodies
// come in two on-disk conventions (a single JSON array, or newline-delimited
// records), sometimes under the wrong extension, so loading is a pair of
// ordered fallbacks: canonical extension before alternate, whole-array parse
// before line-at-a-time. One malformed record never discards the rest of a
// file; it is skipped with a warning.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/dailyview/internal/source"
	"github.com/vanderheijden86/dailyview/pkg/model"
)

// Extension conventions for dataset files. The pipeline writes .json, but
// older snapshots and some mirrors carry .jsonl; both hold the same records.
const (
	CanonicalExt = ".json"
	AlternateExt = ".jsonl"
)

// Options configures a Loader.
type Options struct {
	// WarningHandler receives diagnostics for skipped records and fallback
	// fetches. If nil, warnings are printed to os.Stderr.
	WarningHandler func(string)
}

// Loader loads datasets and reports from a Source.
type Loader struct {
	src  source.Source
	warn func(string)
}

// New creates a Loader over src.
func New(src source.Source, opts Options) *Loader {
	warn := opts.WarningHandler
	if warn == nil {
		warn = func(msg string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		}
	}
	return &Loader{src: src, warn: warn}
}

// LoadPapers loads the papers dataset for the given date (or filename),
// returning only records whose analysis succeeded. A missing dataset is a
// normal outcome and yields an empty slice; transport failures propagate.
func (l *Loader) LoadPapers(ctx context.Context, dateOrFilename string) ([]model.Paper, error) {
	body, err := l.fetchDataset(ctx, model.KindPapers, dateOrFilename)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return []model.Paper{}, nil
	}
	return filterAnalyzed(parseRecords[model.Paper](body, l.warn)), nil
}

// LoadNews loads the news dataset for the given date (or filename) with the
// same semantics as LoadPapers.
func (l *Loader) LoadNews(ctx context.Context, dateOrFilename string) ([]model.News, error) {
	body, err := l.fetchDataset(ctx, model.KindNews, dateOrFilename)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return []model.News{}, nil
	}
	return filterAnalyzed(parseRecords[model.News](body, l.warn)), nil
}

// LoadReport loads the generated report for the given date. Reports are
// single JSON objects with no alternate-extension convention. A missing
// report returns (nil, nil).
func (l *Loader) LoadReport(ctx context.Context, date string) (*model.Report, error) {
	relPath := "data/reports/" + model.NormalizeDate(date) + CanonicalExt
	body, err := l.src.Fetch(ctx, relPath)
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var report model.Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", relPath, err)
	}
	return &report, nil
}

// fetchDataset resolves the dataset filename and fetches it, trying the
// canonical extension first and the alternate exactly once. The order is
// fixed regardless of which extension the caller named. Returns (nil, nil)
// when neither file exists.
func (l *Loader) fetchDataset(ctx context.Context, kind model.Kind, dateOrFilename string) ([]byte, error) {
	date := model.NormalizeDate(dateOrFilename)
	if date == "" {
		return nil, fmt.Errorf("empty dataset date")
	}
	base := "data/" + string(kind) + "/" + date

	body, err := l.src.Fetch(ctx, base+CanonicalExt)
	if err == nil {
		return body, nil
	}

	l.warn(fmt.Sprintf("%s%s unavailable (%v), trying %s", base, CanonicalExt, err, AlternateExt))
	body, altErr := l.src.Fetch(ctx, base+AlternateExt)
	if altErr == nil {
		return body, nil
	}
	if errors.Is(altErr, source.ErrNotFound) {
		// Neither convention has data for this date. Absence is normal.
		return nil, nil
	}
	return nil, altErr
}

// parseRecords decodes a dataset body under format ambiguity. A body that
// parses as a JSON array is taken element by element; anything else is
// treated as newline-delimited records. In both modes a record that fails to
// decode is skipped with a warning rather than failing the dataset.
func parseRecords[T any](body []byte, warn func(string)) []T {
	records := make([]T, 0, 64)

	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err == nil {
		for i, raw := range elements {
			var rec T
			if err := json.Unmarshal(raw, &rec); err != nil {
				warn(fmt.Sprintf("skipping malformed element %d: %v", i, err))
				continue
			}
			records = append(records, rec)
		}
		return records
	}

	lineNum := 0
	for _, line := range strings.Split(string(body), "\n") {
		lineNum++
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec T
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			warn(fmt.Sprintf("skipping malformed JSON on line %d: %v", lineNum, err))
			continue
		}
		records = append(records, rec)
	}
	return records
}

// filterAnalyzed keeps only records whose light analysis succeeded,
// preserving order. The presentation layer never sees failed or pending
// records.
func filterAnalyzed[T model.Record](records []T) []T {
	kept := records[:0]
	for _, rec := range records {
		if rec.Status() == model.AnalysisSuccess {
			kept = append(kept, rec)
		}
	}
	return kept
}
