package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/dailyview/internal/diskcache"
	"github.com/vanderheijden86/dailyview/internal/source"
	"github.com/vanderheijden86/dailyview/pkg/cache"
	"github.com/vanderheijden86/dailyview/pkg/catalog"
	"github.com/vanderheijden86/dailyview/pkg/config"
	"github.com/vanderheijden86/dailyview/pkg/day"
	"github.com/vanderheijden86/dailyview/pkg/debug"
	"github.com/vanderheijden86/dailyview/pkg/export"
	"github.com/vanderheijden86/dailyview/pkg/jobs"
	"github.com/vanderheijden86/dailyview/pkg/loader"
	"github.com/vanderheijden86/dailyview/pkg/model"
	"github.com/vanderheijden86/dailyview/pkg/ui"
	"github.com/vanderheijden86/dailyview/pkg/version"
	"github.com/vanderheijden86/dailyview/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	baseFlag := flag.String("base", "", "Data base (URL or local directory); overrides config and "+config.DataBaseEnvVar)
	debugFlag := flag.Bool("debug", false, "Enable debug logging to "+debugLogPath())
	offlineFlag := flag.Bool("offline", false, "Mirror fetches into the snapshot cache and fall back to it when the source is unreachable")
	exportChart := flag.String("export-chart", "", "Render the latest report's category chart to the given path (svg or png) and exit")
	exportDate := flag.String("date", "", "Date for --export-chart (default: latest)")
	flag.Parse()

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: dv [options]")
		fmt.Println("\nA TUI viewer for the daily AI papers and news datasets.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("dv %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	if *baseFlag != "" {
		cfg.Base = *baseFlag
	}
	if cfg.Base == "" {
		fmt.Fprintln(os.Stderr, "No data base configured.")
		fmt.Fprintf(os.Stderr, "Set 'base' in %s, export %s, or pass --base.\n", config.ConfigPath(), config.DataBaseEnvVar)
		os.Exit(1)
	}

	if *debugFlag {
		debug.SetEnabled(true)
	}
	// Debug output must not corrupt the TUI; route it to a file.
	if debug.Enabled() && *exportChart == "" {
		if err := debug.SetOutput(debugLogPath()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open debug log: %v\n", err)
		}
	}

	src, err := source.FromBase(cfg.Base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// When reading the producer's local tree, watch it for live reload.
	var w *watcher.Watcher
	if fs, ok := src.(*source.FileSource); ok {
		w, err = watcher.New(fs.Root())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: watcher disabled: %v\n", err)
			w = nil
		}
	}

	wrapped := source.WithRetries(src, cfg.Retries)

	var snapshots *diskcache.Store
	if cfg.Offline.Enabled || *offlineFlag {
		snapshots, err = diskcache.Open(cfg.OfflinePath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: snapshot cache disabled: %v\n", err)
		} else {
			defer snapshots.Close()
			wrapped = diskcache.WrapSource(wrapped, snapshots)
		}
	}

	svc := ui.Services{
		Cache:   cache.New(),
		Catalog: catalog.New(wrapped, catalog.Options{WarningHandler: logWarning}),
		Days:    day.NewAggregateLoader(loader.New(wrapped, loader.Options{WarningHandler: logWarning})),
		Jobs:    jobs.New(wrapped),
		Watcher: w,
		Config:  cfg,
	}

	if *exportChart != "" {
		if err := runExportChart(svc, *exportChart, *exportDate); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if w != nil {
		if err := w.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: watcher disabled: %v\n", err)
			svc.Watcher = nil
		} else {
			defer w.Stop()
		}
	}

	if err := runTUIProgram(ui.NewModel(svc)); err != nil {
		fmt.Printf("Error running dailyview: %v\n", err)
		os.Exit(1)
	}
}

// logWarning routes loader and catalog warnings to the debug log so they
// never write over the TUI.
func logWarning(msg string) {
	debug.Log("%s", msg)
}

func debugLogPath() string {
	return filepath.Join(config.CacheDir(), "dv-debug.log")
}

// runExportChart loads the report for the requested (or latest) date and
// writes its category chart, without entering the TUI.
func runExportChart(svc ui.Services, path, date string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if date == "" {
		cat := svc.Catalog.Get(ctx)
		date = cat.LatestDate(model.KindReports)
		if date == "" {
			return errors.New("catalog lists no reports")
		}
	}

	result := svc.Days.Load(ctx, date)
	if result.ReportErr != nil {
		return fmt.Errorf("loading report for %s: %w", date, result.ReportErr)
	}
	if result.Report == nil {
		return fmt.Errorf("no report was generated for %s", date)
	}

	if err := export.SaveDailyChart(export.ChartOptions{
		Path:   path,
		Report: result.Report,
	}); err != nil {
		return err
	}
	fmt.Printf("Chart for %s written to %s\n", date, path)
	return nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set DV_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("DV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
