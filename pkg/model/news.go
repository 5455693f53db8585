package model

// News is one news item as published in a daily news dataset. IDs are URL
// hashes assigned by the pipeline.
type News struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	SourceName     string  `json:"source_name"`
	SourceCategory string  `json:"source_category"`
	Language       string  `json:"language"`
	Published      Time    `json:"published"`
	Summary        string  `json:"summary,omitempty"`
	Weight         float64 `json:"weight"`
	FetchType      string  `json:"fetch_type,omitempty"`
	Company        string  `json:"company,omitempty"`

	LightAnalysis  *NewsLightAnalysis `json:"light_analysis,omitempty"`
	AnalyzedAt     *Time              `json:"analyzed_at,omitempty"`
	AnalysisStatus AnalysisStatus     `json:"analysis_status"`
	AnalysisError  string             `json:"analysis_error,omitempty"`
}

// NewsLightAnalysis is the structured short-form summary the pipeline
// attaches to a news item when analysis succeeds.
type NewsLightAnalysis struct {
	Summary   string   `json:"summary"`
	Category  string   `json:"category"`
	Sentiment string   `json:"sentiment"`
	Keywords  []string `json:"keywords"`
}

// IsAnalyzed reports whether the item carries a successful light analysis.
func (n News) IsAnalyzed() bool {
	return n.AnalysisStatus == AnalysisSuccess && n.LightAnalysis != nil
}

// RecordID implements Record.
func (n News) RecordID() string { return n.ID }

// RecordTitle implements Record.
func (n News) RecordTitle() string { return n.Title }

// Status implements Record.
func (n News) Status() AnalysisStatus { return n.AnalysisStatus }

// Category implements Record. The analyzed category is preferred over the
// coarse source category because that is what the category filter offers.
func (n News) Category() string {
	if n.LightAnalysis != nil && n.LightAnalysis.Category != "" {
		return n.LightAnalysis.Category
	}
	return n.SourceCategory
}

// CategorySet implements Record.
func (n News) CategorySet() []string {
	set := []string{n.SourceCategory}
	if n.LightAnalysis != nil && n.LightAnalysis.Category != "" {
		set = append(set, n.LightAnalysis.Category)
	}
	return set
}
