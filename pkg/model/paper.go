package model

// AnalysisStatus reports whether the pipeline's light analysis of a record
// succeeded. Records are published regardless of status; consumers filter.
type AnalysisStatus string

const (
	AnalysisSuccess AnalysisStatus = "success"
	AnalysisFailed  AnalysisStatus = "failed"
	AnalysisPending AnalysisStatus = "pending"
)

// Paper is one arXiv paper as published in a daily papers dataset.
type Paper struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Abstract        string   `json:"abstract"`
	Categories      []string `json:"categories"`
	PrimaryCategory string   `json:"primary_category"`
	PDFURL          string   `json:"pdf_url"`
	AbsURL          string   `json:"abs_url"`
	Published       Time     `json:"published"`
	Updated         *Time    `json:"updated,omitempty"`
	Comment         string   `json:"comment,omitempty"`

	LightAnalysis  *PaperLightAnalysis `json:"light_analysis,omitempty"`
	AnalyzedAt     *Time               `json:"analyzed_at,omitempty"`
	AnalysisStatus AnalysisStatus      `json:"analysis_status"`
	AnalysisError  string              `json:"analysis_error,omitempty"`
}

// PaperLightAnalysis is the structured short-form summary the pipeline
// attaches to a paper when analysis succeeds.
type PaperLightAnalysis struct {
	Overview   string   `json:"overview"`
	Motivation string   `json:"motivation"`
	Method     string   `json:"method"`
	Result     string   `json:"result"`
	Conclusion string   `json:"conclusion"`
	Tags       []string `json:"tags"`
}

// IsAnalyzed reports whether the paper carries a successful light analysis.
func (p Paper) IsAnalyzed() bool {
	return p.AnalysisStatus == AnalysisSuccess && p.LightAnalysis != nil
}

// RecordID implements Record.
func (p Paper) RecordID() string { return p.ID }

// RecordTitle implements Record.
func (p Paper) RecordTitle() string { return p.Title }

// Status implements Record.
func (p Paper) Status() AnalysisStatus { return p.AnalysisStatus }

// Category implements Record.
func (p Paper) Category() string { return p.PrimaryCategory }

// CategorySet implements Record.
func (p Paper) CategorySet() []string { return p.Categories }
