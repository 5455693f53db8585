package model

// DailyStats summarizes one day's crawl volume per category.
type DailyStats struct {
	TotalPapers      int            `json:"total_papers"`
	PapersByCategory map[string]int `json:"papers_by_category,omitempty"`
	TotalNews        int            `json:"total_news"`
	NewsByCategory   map[string]int `json:"news_by_category,omitempty"`
	TopKeywords      []string       `json:"top_keywords,omitempty"`
}

// Report is the generated daily report for one date. At most one exists per
// date; absence of the file means no report was generated.
type Report struct {
	Date              string            `json:"date"`
	Summary           string            `json:"summary"`
	CategorySummaries map[string]string `json:"category_summaries,omitempty"`
	NewsSummary       string            `json:"news_summary,omitempty"`
	Stats             DailyStats        `json:"stats"`
	GeneratedAt       Time              `json:"generated_at"`
}
