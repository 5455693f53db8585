package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/dailyview/pkg/cache"
	"github.com/vanderheijden86/dailyview/pkg/catalog"
	"github.com/vanderheijden86/dailyview/pkg/config"
	"github.com/vanderheijden86/dailyview/pkg/day"
	"github.com/vanderheijden86/dailyview/pkg/export"
	"github.com/vanderheijden86/dailyview/pkg/jobs"
	"github.com/vanderheijden86/dailyview/pkg/model"
	"github.com/vanderheijden86/dailyview/pkg/watcher"
)

// Services bundles the data layer handed to the UI by cmd/dv.
type Services struct {
	Cache   *cache.Store
	Catalog *catalog.Client
	Days    *day.AggregateLoader
	Jobs    *jobs.Tracker
	Watcher *watcher.Watcher // nil when reading over HTTP
	Config  config.Config
}

// catalogTTL returns the configured catalog staleness window.
func (s Services) catalogTTL() time.Duration {
	if s.Config.Staleness.Catalog > 0 {
		return s.Config.Staleness.Catalog
	}
	return cache.CatalogTTL
}

// datasetTTL returns the configured dataset staleness window.
func (s Services) datasetTTL() time.Duration {
	if s.Config.Staleness.Datasets > 0 {
		return s.Config.Staleness.Datasets
	}
	return cache.DatasetTTL
}

// jobTTL returns the configured job status staleness window.
func (s Services) jobTTL() time.Duration {
	if s.Config.Staleness.Jobs > 0 {
		return s.Config.Staleness.Jobs
	}
	return cache.JobTTL
}

// CatalogLoadedMsg carries a freshly loaded catalog. Seq identifies the
// request generation; stale generations are discarded by Update.
type CatalogLoadedMsg struct {
	Seq     int
	Catalog model.Catalog
}

// DayLoadedMsg carries one day's aggregate load result.
type DayLoadedMsg struct {
	Seq    int
	Result day.Result
}

// JobStatusMsg carries the latest poll of a deep-analysis job.
type JobStatusMsg struct {
	Status jobs.Status
}

// FileChangedMsg is sent when the local data tree changes on disk.
type FileChangedMsg struct{}

// ReadyTimeoutMsg is sent after a short delay to ensure the UI becomes ready
// even if the terminal doesn't send WindowSizeMsg promptly.
type ReadyTimeoutMsg struct{}

// spinnerTickMsg advances the loading spinner frame.
type spinnerTickMsg struct{}

// clearStatusMsg expires a transient status line message.
type clearStatusMsg struct {
	seq int
}

// ChartExportedMsg reports the outcome of a chart export.
type ChartExportedMsg struct {
	Path string
	Err  error
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ReadyTimeoutCmd returns a command that sends ReadyTimeoutMsg after 100ms.
// This ensures the TUI doesn't hang on "Initializing..." if the terminal
// is slow to report its size (common in tmux, SSH, some terminal emulators).
func ReadyTimeoutCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return ReadyTimeoutMsg{}
	})
}

func spinnerTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// WatchCmd returns a command that waits for data tree changes and sends
// FileChangedMsg.
func WatchCmd(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// LoadCatalogCmd fetches the catalog through the cache.
func LoadCatalogCmd(svc Services, seq int) tea.Cmd {
	return func() tea.Msg {
		// Catalog fetches never fail; the soft-fail empty catalog is a value.
		cat, _ := cache.Fetch(context.Background(), svc.Cache, cache.Key("catalog"), svc.catalogTTL(), cache.Foreground,
			func(ctx context.Context) (model.Catalog, error) {
				return svc.Catalog.Get(ctx), nil
			})
		return CatalogLoadedMsg{Seq: seq, Catalog: cat}
	}
}

// LoadDayCmd fetches one day's papers, news, and report through the cache.
func LoadDayCmd(svc Services, seq int, date string) tea.Cmd {
	return func() tea.Msg {
		result, err := cache.Fetch(context.Background(), svc.Cache, cache.Key("day", date), svc.datasetTTL(), cache.Foreground,
			func(ctx context.Context) (day.Result, error) {
				return svc.Days.Load(ctx, date), nil
			})
		if err != nil {
			// Cannot happen with an error-free producer; degrade to an
			// empty day rather than dropping the message.
			result = day.Result{Date: model.NormalizeDate(date)}
		}
		return DayLoadedMsg{Seq: seq, Result: result}
	}
}

// PrefetchDayCmd warms the cache for date without waiting on the result.
// Stale entries are served and refreshed off-path.
func PrefetchDayCmd(svc Services, date string) tea.Cmd {
	return func() tea.Msg {
		_, _ = cache.Fetch(context.Background(), svc.Cache, cache.Key("day", date), svc.datasetTTL(), cache.Background,
			func(ctx context.Context) (day.Result, error) {
				return svc.Days.Load(ctx, date), nil
			})
		return nil
	}
}

// PollJobCmd polls the deep-analysis state of jobID through the cache.
func PollJobCmd(svc Services, jobID string) tea.Cmd {
	return func() tea.Msg {
		status, _ := cache.Fetch(context.Background(), svc.Cache, cache.Key("job", jobID), svc.jobTTL(), cache.Foreground,
			func(ctx context.Context) (jobs.Status, error) {
				return svc.Jobs.Poll(ctx, jobID), nil
			})
		return JobStatusMsg{Status: status}
	}
}

// RepollJobCmd drops the cached status first, for refocus and manual
// refresh where the user expects current state.
func RepollJobCmd(svc Services, jobID string) tea.Cmd {
	return func() tea.Msg {
		svc.Cache.Invalidate(cache.Key("job", jobID))
		status, _ := cache.Fetch(context.Background(), svc.Cache, cache.Key("job", jobID), svc.jobTTL(), cache.Foreground,
			func(ctx context.Context) (jobs.Status, error) {
				return svc.Jobs.Poll(ctx, jobID), nil
			})
		return JobStatusMsg{Status: status}
	}
}

// CopyCmd copies text to the system clipboard and reports via the status line.
func CopyCmd(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsgEvent{text: fmt.Sprintf("copy failed: %v", err), isError: true}
		}
		return statusMsgEvent{text: what + " copied"}
	}
}

// statusMsgEvent sets a transient status line message.
type statusMsgEvent struct {
	text    string
	isError bool
}

// ExportChartCmd renders the report's category chart to path.
func ExportChartCmd(report *model.Report, path string) tea.Cmd {
	return func() tea.Msg {
		err := export.SaveDailyChart(export.ChartOptions{
			Path:   path,
			Title:  "Daily Papers by Category",
			Report: report,
		})
		return ChartExportedMsg{Path: path, Err: err}
	}
}
