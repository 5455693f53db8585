// Package day aggregates everything published for one date: the papers
// dataset, the news dataset, and the generated report. The three artifacts
// are independent files, so they are fetched in parallel and a failure in
// one is recorded per part rather than sinking the whole day.
package day

import (
	"context"
	"io"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/dailyview/pkg/loader"
	"github.com/vanderheijden86/dailyview/pkg/model"
)

// Result is one day's worth of data. A nil Report with a nil ReportErr
// means no report was generated for the date, which is normal.
type Result struct {
	Date   string
	Papers []model.Paper
	News   []model.News
	Report *model.Report

	PapersErr error
	NewsErr   error
	ReportErr error
}

// Complete reports whether every part loaded without a transport failure.
func (r Result) Complete() bool {
	return r.PapersErr == nil && r.NewsErr == nil && r.ReportErr == nil
}

// AggregateLoader loads all artifacts for a date through one Loader.
type AggregateLoader struct {
	loader *loader.Loader
	logger *log.Logger
}

// NewAggregateLoader creates an aggregate loader.
func NewAggregateLoader(l *loader.Loader) *AggregateLoader {
	return &AggregateLoader{
		loader: l,
		// Silence by default. Callers can opt-in via SetLogger.
		logger: log.New(io.Discard, "", 0),
	}
}

// SetLogger sets a custom logger for per-part failure reporting.
func (a *AggregateLoader) SetLogger(logger *log.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// Load fetches papers, news, and the report for date concurrently. Per-part
// errors are captured in the Result, never returned: the caller decides
// which parts it can render without.
func (a *AggregateLoader) Load(ctx context.Context, date string) Result {
	result := Result{Date: model.NormalizeDate(date)}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result.Papers, result.PapersErr = a.loader.LoadPapers(ctx, date)
		if result.PapersErr != nil {
			a.logger.Printf("WARNING: papers for %s failed: %v", date, result.PapersErr)
		}
		return nil
	})

	g.Go(func() error {
		result.News, result.NewsErr = a.loader.LoadNews(ctx, date)
		if result.NewsErr != nil {
			a.logger.Printf("WARNING: news for %s failed: %v", date, result.NewsErr)
		}
		return nil
	})

	g.Go(func() error {
		result.Report, result.ReportErr = a.loader.LoadReport(ctx, date)
		if result.ReportErr != nil {
			a.logger.Printf("WARNING: report for %s failed: %v", date, result.ReportErr)
		}
		return nil
	})

	// Goroutines only record errors, so Wait cannot fail.
	_ = g.Wait()

	return result
}
