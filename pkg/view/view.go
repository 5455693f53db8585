// Package view derives the visible page of a dataset from UI selection
// state. Derivation is a pure function: no I/O, no retained state, the same
// inputs always produce the same page. The caller owns the selection state
// and must reset the page to 1 whenever the dataset or the category filter
// changes; the function only clamps.
package view

import (
	"github.com/vanderheijden86/dailyview/pkg/model"
)

// DefaultPageSize is the page size used when a caller passes 0.
const DefaultPageSize = 30

// Page is one derived view of a filtered dataset.
type Page[T model.Record] struct {
	// Items is the slice of records visible on the current page.
	Items []T
	// Page is the effective page number after clamping to [1, TotalPages]
	// (or 1 when there are no pages).
	Page int
	// TotalPages is ceil(TotalCount / pageSize); 0 when nothing matches.
	TotalPages int
	// TotalCount is the number of records matching the category filter.
	TotalCount int
}

// Derive filters records by category and slices out the requested page.
// Category matching is an OR over a record's primary category and its full
// category set; model.CategoryAll (or "") matches everything. The requested
// page is clamped rather than rejected so a stale page number from a
// previous, larger dataset degrades to the last page instead of an error.
func Derive[T model.Record](records []T, category string, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	filtered := Filter(records, category)
	totalCount := len(filtered)
	totalPages := (totalCount + pageSize - 1) / pageSize

	maxPage := totalPages
	if maxPage < 1 {
		maxPage = 1
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalCount {
		start = totalCount
	}
	if end > totalCount {
		end = totalCount
	}

	return Page[T]{
		Items:      filtered[start:end],
		Page:       page,
		TotalPages: totalPages,
		TotalCount: totalCount,
	}
}

// Filter returns the records matching category, order preserved. Filtering
// is idempotent: applying it twice with the same category is a no-op.
func Filter[T model.Record](records []T, category string) []T {
	if category == model.CategoryAll || category == "" {
		return records
	}
	filtered := make([]T, 0, len(records))
	for _, rec := range records {
		if model.MatchesCategory(rec, category) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// Categories returns the distinct categories present in records, in first
// seen order, prefixed with the model.CategoryAll sentinel. This is what a
// category selector should offer.
func Categories[T model.Record](records []T) []string {
	seen := make(map[string]bool)
	categories := []string{model.CategoryAll}
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}
	for _, rec := range records {
		add(rec.Category())
		for _, c := range rec.CategorySet() {
			add(c)
		}
	}
	return categories
}
