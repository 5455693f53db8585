package day_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/vanderheijden86/dailyview/internal/source"
	"github.com/vanderheijden86/dailyview/pkg/day"
	"github.com/vanderheijden86/dailyview/pkg/loader"
)

type fakeSource struct {
	files map[string]string
	errs  map[string]error
}

func (f *fakeSource) Fetch(_ context.Context, relPath string) ([]byte, error) {
	if err, ok := f.errs[relPath]; ok {
		return nil, err
	}
	if body, ok := f.files[relPath]; ok {
		return []byte(body), nil
	}
	return nil, fmt.Errorf("fetch %s: %w", relPath, source.ErrNotFound)
}

func newLoader(src source.Source) *day.AggregateLoader {
	return day.NewAggregateLoader(loader.New(src, loader.Options{WarningHandler: func(string) {}}))
}

const (
	paperBody  = `[{"id":"2501.00001","title":"T","analysis_status":"success"}]`
	newsBody   = `[{"id":"n1","title":"N","url":"https://example.org/n1","analysis_status":"success"}]`
	reportBody = `{"date":"2025-01-02","summary":"quiet day"}`
)

func TestLoad_AggregatesAllParts(t *testing.T) {
	src := &fakeSource{files: map[string]string{
		"data/papers/2025-01-02.json":  paperBody,
		"data/news/2025-01-02.json":    newsBody,
		"data/reports/2025-01-02.json": reportBody,
	}}

	result := newLoader(src).Load(context.Background(), "2025-01-02")
	if !result.Complete() {
		t.Fatalf("Complete() = false: %+v", result)
	}
	if len(result.Papers) != 1 || len(result.News) != 1 {
		t.Errorf("Papers = %d, News = %d, want 1 each", len(result.Papers), len(result.News))
	}
	if result.Report == nil || result.Report.Summary != "quiet day" {
		t.Errorf("Report = %+v", result.Report)
	}
}

func TestLoad_NormalizesDate(t *testing.T) {
	src := &fakeSource{files: map[string]string{
		"data/papers/2025-01-02.json": paperBody,
	}}

	result := newLoader(src).Load(context.Background(), "2025-01-02.json")
	if result.Date != "2025-01-02" {
		t.Errorf("Date = %q, want 2025-01-02", result.Date)
	}
}

func TestLoad_MissingPartsAreNormal(t *testing.T) {
	// A day with neither datasets nor report is still a complete, empty day.
	result := newLoader(&fakeSource{}).Load(context.Background(), "2025-01-02")
	if !result.Complete() {
		t.Fatalf("Complete() = false for an empty day: %+v", result)
	}
	if result.Papers == nil || result.News == nil {
		t.Error("Missing datasets must yield empty slices, not nil")
	}
	if result.Report != nil {
		t.Errorf("Report = %+v, want nil for an absent report", result.Report)
	}
}

func TestLoad_PartFailureIsIsolated(t *testing.T) {
	src := &fakeSource{
		files: map[string]string{
			"data/papers/2025-01-02.json": paperBody,
		},
		errs: map[string]error{
			"data/news/2025-01-02.json":  errors.New("connection refused"),
			"data/news/2025-01-02.jsonl": errors.New("connection refused"),
		},
	}

	result := newLoader(src).Load(context.Background(), "2025-01-02")
	if result.Complete() {
		t.Fatal("Complete() = true despite a news failure")
	}
	if result.NewsErr == nil {
		t.Error("NewsErr not recorded")
	}
	if result.PapersErr != nil || result.ReportErr != nil {
		t.Errorf("Unrelated parts failed: papers=%v report=%v", result.PapersErr, result.ReportErr)
	}
	// The healthy part still loaded.
	if len(result.Papers) != 1 {
		t.Errorf("Papers = %d, want 1", len(result.Papers))
	}
}

func TestLoad_LogsPartFailures(t *testing.T) {
	src := &fakeSource{errs: map[string]error{
		"data/reports/2025-01-02.json": errors.New("tls handshake timeout"),
	}}

	var buf bytes.Buffer
	agg := newLoader(src)
	agg.SetLogger(log.New(&buf, "", 0))

	agg.Load(context.Background(), "2025-01-02")
	if !strings.Contains(buf.String(), "report for 2025-01-02 failed") {
		t.Errorf("Log output missing report warning: %q", buf.String())
	}
}
