// Package model defines the wire-level types published by the daily
// crawl/analysis pipeline: papers, news items, daily reports, and the
// file-list catalog that indexes them. All types are plain data decoded from
// static JSON artifacts; nothing here performs I/O.
package model

// Kind selects one of the per-day dataset families.
type Kind string

const (
	KindPapers  Kind = "papers"
	KindNews    Kind = "news"
	KindReports Kind = "reports"
)

// Record is the common surface of Paper and News used by filtering and
// pagination. Category and CategorySet back the OR-matching category filter:
// a record matches a category when it equals the primary Category or is a
// member of CategorySet.
type Record interface {
	RecordID() string
	RecordTitle() string
	Status() AnalysisStatus
	Category() string
	CategorySet() []string
}

// MatchesCategory reports whether r matches the given category filter.
// The sentinel CategoryAll matches every record.
func MatchesCategory(r Record, category string) bool {
	if category == CategoryAll || category == "" {
		return true
	}
	if r.Category() == category {
		return true
	}
	for _, c := range r.CategorySet() {
		if c == category {
			return true
		}
	}
	return false
}

// CategoryAll is the sentinel category that matches every record.
const CategoryAll = "All"
