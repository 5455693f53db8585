package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/dailyview/pkg/jobs"
	"github.com/vanderheijden86/dailyview/pkg/model"
)

// detailContent renders the open detail record to viewport content.
func (m Model) detailContent() string {
	switch {
	case m.detailPaper != nil:
		return m.renderPaperDetail(*m.detailPaper)
	case m.detailNews != nil:
		return m.renderNewsDetail(*m.detailNews)
	default:
		return ""
	}
}

func (m Model) renderPaperDetail(p model.Paper) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", p.Title)
	if len(p.Authors) > 0 {
		fmt.Fprintf(&md, "**Authors:** %s\n\n", strings.Join(p.Authors, ", "))
	}
	fmt.Fprintf(&md, "**Category:** %s", p.PrimaryCategory)
	if len(p.Categories) > 1 {
		fmt.Fprintf(&md, " (%s)", strings.Join(p.Categories, ", "))
	}
	md.WriteString("\n\n")
	if !p.Published.IsZero() {
		fmt.Fprintf(&md, "**Published:** %s\n\n", p.Published.Format("2006-01-02"))
	}
	if p.AbsURL != "" {
		fmt.Fprintf(&md, "**Link:** %s\n\n", p.AbsURL)
	}
	if p.Comment != "" {
		fmt.Fprintf(&md, "*%s*\n\n", p.Comment)
	}

	if la := p.LightAnalysis; la != nil {
		md.WriteString("## Analysis\n\n")
		writeSection(&md, "Overview", la.Overview)
		writeSection(&md, "Motivation", la.Motivation)
		writeSection(&md, "Method", la.Method)
		writeSection(&md, "Result", la.Result)
		writeSection(&md, "Conclusion", la.Conclusion)
		if len(la.Tags) > 0 {
			fmt.Fprintf(&md, "**Tags:** %s\n\n", strings.Join(la.Tags, ", "))
		}
	} else {
		md.WriteString("## Abstract\n\n")
		md.WriteString(p.Abstract)
		md.WriteString("\n\n")
		if p.AnalysisStatus == model.AnalysisFailed && p.AnalysisError != "" {
			fmt.Fprintf(&md, "*Analysis failed: %s*\n\n", p.AnalysisError)
		}
	}

	rendered := m.renderer.Render(md.String())

	// The deep-analysis block lives below the glamour output so job state
	// changes re-render cheaply.
	return rendered + "\n\n" + m.renderJobBlock()
}

func (m Model) renderNewsDetail(n model.News) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", n.Title)
	meta := joinNonEmpty(" · ", n.SourceName, n.Company, n.Category())
	if meta != "" {
		fmt.Fprintf(&md, "**Source:** %s\n\n", meta)
	}
	if !n.Published.IsZero() {
		fmt.Fprintf(&md, "**Published:** %s\n\n", n.Published.Format("2006-01-02 15:04"))
	}
	if n.URL != "" {
		fmt.Fprintf(&md, "**Link:** %s\n\n", n.URL)
	}

	if la := n.LightAnalysis; la != nil {
		md.WriteString("## Analysis\n\n")
		writeSection(&md, "Summary", la.Summary)
		if la.Sentiment != "" {
			fmt.Fprintf(&md, "**Sentiment:** %s\n\n", la.Sentiment)
		}
		if len(la.Keywords) > 0 {
			fmt.Fprintf(&md, "**Keywords:** %s\n\n", strings.Join(la.Keywords, ", "))
		}
	} else if n.Summary != "" {
		md.WriteString("## Summary\n\n")
		md.WriteString(n.Summary)
		md.WriteString("\n\n")
	}

	return m.renderer.Render(md.String())
}

// renderJobBlock renders the deep-analysis state for the open paper.
func (m Model) renderJobBlock() string {
	if m.jobStatus == nil {
		if m.jobPolling {
			return "  " + spinnerFrames[m.spinnerIdx] + " checking deep analysis..."
		}
		return "  press d to fetch deep analysis"
	}

	switch m.jobStatus.State {
	case jobs.Completed:
		header := "  " + RenderJobBadge(jobs.Completed)
		return header + "\n\n" + m.renderer.Render(m.jobStatus.Artifact)
	case jobs.Processing:
		return "  " + RenderJobBadge(jobs.Processing) + " — press d to check again"
	default:
		return "  " + RenderJobBadge(jobs.Pending) + " — not queued yet; press d to check again"
	}
}

func writeSection(md *strings.Builder, heading, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintf(md, "### %s\n\n%s\n\n", heading, body)
}

// reportMarkdown composes the daily report into one markdown document.
func reportMarkdown(r *model.Report) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# Daily Report — %s\n\n", r.Date)
	if r.Summary != "" {
		md.WriteString(r.Summary)
		md.WriteString("\n\n")
	}

	if len(r.CategorySummaries) > 0 {
		md.WriteString("## By Category\n\n")
		categories := make([]string, 0, len(r.CategorySummaries))
		for c := range r.CategorySummaries {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Fprintf(&md, "### %s\n\n%s\n\n", c, r.CategorySummaries[c])
		}
	}

	if r.NewsSummary != "" {
		md.WriteString("## News\n\n")
		md.WriteString(r.NewsSummary)
		md.WriteString("\n\n")
	}

	md.WriteString("## Statistics\n\n")
	fmt.Fprintf(&md, "- Papers: %d\n", r.Stats.TotalPapers)
	fmt.Fprintf(&md, "- News items: %d\n", r.Stats.TotalNews)
	if len(r.Stats.TopKeywords) > 0 {
		fmt.Fprintf(&md, "- Top keywords: %s\n", strings.Join(r.Stats.TopKeywords, ", "))
	}
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&md, "\n*Generated %s*\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	}

	return md.String()
}
