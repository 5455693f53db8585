package view_test

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/dailyview/pkg/model"
	"github.com/vanderheijden86/dailyview/pkg/view"
)

func genPapers(t *rapid.T) []model.Paper {
	categories := []string{"cs.AI", "cs.LG", "cs.CV", "stat.ML"}
	n := rapid.IntRange(0, 200).Draw(t, "n")
	papers := make([]model.Paper, n)
	for i := range papers {
		c := rapid.SampledFrom(categories).Draw(t, fmt.Sprintf("cat%d", i))
		papers[i] = model.Paper{
			ID:              fmt.Sprintf("p%03d", i),
			PrimaryCategory: c,
			Categories:      []string{c},
			AnalysisStatus:  model.AnalysisSuccess,
		}
	}
	return papers
}

func TestDerive_TotalPagesIsCeil(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		papers := genPapers(t)
		pageSize := rapid.IntRange(1, 50).Draw(t, "pageSize")
		page := rapid.IntRange(-5, 20).Draw(t, "page")

		result := view.Derive(papers, model.CategoryAll, page, pageSize)

		wantPages := (len(papers) + pageSize - 1) / pageSize
		if result.TotalPages != wantPages {
			t.Fatalf("TotalPages = %d, want ceil(%d/%d) = %d", result.TotalPages, len(papers), pageSize, wantPages)
		}
		if result.Page < 1 {
			t.Fatalf("Effective page %d below 1", result.Page)
		}
		if result.TotalPages > 0 && result.Page > result.TotalPages {
			t.Fatalf("Effective page %d beyond %d", result.Page, result.TotalPages)
		}
		if len(result.Items) > pageSize {
			t.Fatalf("Page holds %d items, page size %d", len(result.Items), pageSize)
		}
	})
}

func TestDerive_PagesPartitionFilteredSet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		papers := genPapers(t)
		pageSize := rapid.IntRange(1, 50).Draw(t, "pageSize")
		category := rapid.SampledFrom([]string{model.CategoryAll, "cs.AI", "cs.LG"}).Draw(t, "category")

		first := view.Derive(papers, category, 1, pageSize)

		var seen int
		for p := 1; ; p++ {
			page := view.Derive(papers, category, p, pageSize)
			seen += len(page.Items)
			if p >= page.TotalPages || page.TotalPages == 0 {
				break
			}
		}
		if seen != first.TotalCount {
			t.Fatalf("Pages held %d items, TotalCount %d", seen, first.TotalCount)
		}
	})
}

func TestFilter_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		papers := genPapers(t)
		category := rapid.SampledFrom([]string{model.CategoryAll, "cs.AI", "cs.CV", "absent"}).Draw(t, "category")

		once := view.Filter(papers, category)
		twice := view.Filter(once, category)

		if len(once) != len(twice) {
			t.Fatalf("Filter not idempotent: %d then %d", len(once), len(twice))
		}
		for i := range once {
			if once[i].ID != twice[i].ID {
				t.Fatalf("Filter reordered on second pass at %d", i)
			}
		}
	})
}

func TestFilter_EveryMatchKept(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		papers := genPapers(t)
		category := rapid.SampledFrom([]string{"cs.AI", "cs.LG", "stat.ML"}).Draw(t, "category")

		filtered := view.Filter(papers, category)

		want := 0
		for _, p := range papers {
			if model.MatchesCategory(p, category) {
				want++
			}
		}
		if len(filtered) != want {
			t.Fatalf("Filter kept %d, want %d", len(filtered), want)
		}
	})
}
