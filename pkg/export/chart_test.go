package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/dailyview/pkg/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		Date:    "2025-01-02",
		Summary: "busy day",
		Stats: model.DailyStats{
			TotalPapers: 12,
			TotalNews:   4,
			PapersByCategory: map[string]int{
				"cs.LG":   6,
				"cs.AI":   4,
				"stat.ML": 2,
			},
		},
	}
}

func TestBuildChartLayout_BarsSortedByCountThenLabel(t *testing.T) {
	report := sampleReport()
	report.Stats.PapersByCategory["cs.CV"] = 4

	layout := buildChartLayout(ChartOptions{Report: report})
	if !layout.HasData {
		t.Fatal("HasData = false")
	}

	var labels []string
	for _, b := range layout.Bars {
		labels = append(labels, b.Label)
	}
	want := []string{"cs.LG", "cs.AI", "cs.CV", "stat.ML"}
	if strings.Join(labels, ",") != strings.Join(want, ",") {
		t.Errorf("Bar order = %v, want %v", labels, want)
	}
}

func TestBuildChartLayout_TallestBarFillsPlot(t *testing.T) {
	layout := buildChartLayout(ChartOptions{Report: sampleReport()})

	if layout.MaxVal != 6 {
		t.Fatalf("MaxVal = %d, want 6", layout.MaxVal)
	}
	tallest := layout.Bars[0]
	for _, b := range layout.Bars[1:] {
		if b.H > tallest.H {
			t.Errorf("Bar %q taller than the max-count bar", b.Label)
		}
	}
	// The tallest bar spans the plot: its top sits plot-height above the base.
	if got := layout.BaseY - tallest.Y; got != 260 {
		t.Errorf("Tallest bar height = %v, want 260", got)
	}
}

func TestBuildChartLayout_FooterCarriesStats(t *testing.T) {
	layout := buildChartLayout(ChartOptions{Report: sampleReport()})

	// counts are 6, 4, 2: mean 4.0, sample stddev 2.0
	want := "papers: 12  news: 4  mean/category: 4.0  stddev: 2.0"
	if layout.Footer != want {
		t.Errorf("Footer = %q, want %q", layout.Footer, want)
	}
}

func TestBuildChartLayout_EmptyCategories(t *testing.T) {
	report := &model.Report{Date: "2025-01-02"}
	layout := buildChartLayout(ChartOptions{Report: report})

	if layout.HasData {
		t.Error("HasData = true for a report without categories")
	}
	if layout.Footer != "no category data" {
		t.Errorf("Footer = %q", layout.Footer)
	}
	if layout.Width < 560 {
		t.Errorf("Width = %d, want the minimum canvas width", layout.Width)
	}
}

func TestRenderChartSVG_WritesValidDocument(t *testing.T) {
	var buf bytes.Buffer
	layout := buildChartLayout(ChartOptions{Report: sampleReport(), Title: "Chart Title"})

	if err := renderChartSVGToWriter(&buf, layout); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"<svg", "</svg>", "Chart Title", "2025-01-02", "cs.LG"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}
}

func TestSaveDailyChart_InfersFormatFromExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.svg")

	err := SaveDailyChart(ChartOptions{Path: path, Report: sampleReport()})
	if err != nil {
		t.Fatalf("SaveDailyChart failed: %v", err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "<svg") {
		t.Error("Output is not SVG")
	}
}

func TestSaveDailyChart_ExtensionlessPathDefaultsToSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart")

	if err := SaveDailyChart(ChartOptions{Path: path, Report: sampleReport()}); err != nil {
		t.Fatalf("SaveDailyChart failed: %v", err)
	}
	if _, err := os.Stat(path + ".svg"); err != nil {
		t.Errorf("Expected %s.svg to exist: %v", path, err)
	}
}

func TestSaveDailyChart_RejectsBadInput(t *testing.T) {
	if err := SaveDailyChart(ChartOptions{Path: "out.svg"}); err == nil {
		t.Error("Want error without a report")
	}
	if err := SaveDailyChart(ChartOptions{Report: sampleReport()}); err == nil {
		t.Error("Want error without a path")
	}
	err := SaveDailyChart(ChartOptions{Path: "out.gif", Format: "gif", Report: sampleReport()})
	if err == nil {
		t.Error("Want error for an unsupported format")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("cs.LG", 12); got != "cs.LG" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("a-very-long-category-label", 12); got != "a-very-lo..." {
		t.Errorf("truncate long = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Errorf("truncate tiny = %q", got)
	}
}
