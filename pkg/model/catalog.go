package model

import (
	"strings"
	"time"
)

// Catalog is the index of available dataset dates per kind, decoded from
// data/file-list.json. The producer lists filenames ("2025-01-02.json") in
// descending order, but bare dates are accepted too; use Dates to get the
// normalized view.
type Catalog struct {
	Papers      []string `json:"papers"`
	News        []string `json:"news"`
	Reports     []string `json:"reports"`
	LastUpdated Time     `json:"last_updated"`
}

// EmptyCatalog returns the catalog used when the index is unavailable. The
// absence of an index must never block rendering, so this is a valid value,
// not an error.
func EmptyCatalog() Catalog {
	return Catalog{
		Papers:      []string{},
		News:        []string{},
		Reports:     []string{},
		LastUpdated: NewTime(time.Now().UTC()),
	}
}

// NormalizeDate strips a trailing .json or .jsonl extension so that catalog
// entries and caller-supplied filenames both reduce to a bare date.
func NormalizeDate(entry string) string {
	entry = strings.TrimSuffix(entry, ".jsonl")
	entry = strings.TrimSuffix(entry, ".json")
	return entry
}

// Dates returns the catalog entries for kind as normalized bare dates,
// preserving the producer's order (newest first).
func (c Catalog) Dates(kind Kind) []string {
	var entries []string
	switch kind {
	case KindPapers:
		entries = c.Papers
	case KindNews:
		entries = c.News
	case KindReports:
		entries = c.Reports
	}
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		if d := NormalizeDate(e); d != "" {
			dates = append(dates, d)
		}
	}
	return dates
}

// LatestDate returns the lexicographic maximum date for kind, or "" when the
// catalog has no entries for it. Dates are ISO-like, so lexicographic max is
// the newest day.
func (c Catalog) LatestDate(kind Kind) string {
	latest := ""
	for _, d := range c.Dates(kind) {
		if d > latest {
			latest = d
		}
	}
	return latest
}

// IsEmpty reports whether the catalog lists no datasets at all.
func (c Catalog) IsEmpty() bool {
	return len(c.Papers) == 0 && len(c.News) == 0 && len(c.Reports) == 0
}
