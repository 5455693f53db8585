// Package export renders daily statistics to static images for sharing
// outside the terminal.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/dailyview/pkg/model"
)

// ChartOptions controls daily chart export behaviour.
type ChartOptions struct {
	Path   string        // Output path; format inferred from extension when Format empty
	Format string        // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title  string        // Optional title rendered in the header block
	Report *model.Report // Report whose statistics are charted
}

// SaveDailyChart renders a bar chart of per-category paper counts for a
// daily report, as SVG or PNG.
func SaveDailyChart(opts ChartOptions) error {
	if opts.Report == nil {
		return fmt.Errorf("report is required for chart export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildChartLayout(opts)

	switch format {
	case "svg":
		return renderChartSVG(opts.Path, layout)
	case "png":
		return renderChartPNG(opts.Path, layout)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// --- layout computation ----------------------------------------------------

type chartBar struct {
	Label string
	Count int
	X, Y  float64
	W, H  float64
}

type chartLayout struct {
	Bars    []chartBar
	Width   int
	Height  int
	Title   string
	Date    string
	Footer  string
	BaseY   float64
	MaxVal  int
	HasData bool
}

func buildChartLayout(opts ChartOptions) chartLayout {
	const (
		barW         = 64.0
		barGap       = 28.0
		padding      = 36.0
		headerHeight = 80.0
		footerHeight = 56.0
		plotHeight   = 260.0
	)

	stats := opts.Report.Stats

	// deterministic bar order: count descending, then label
	type entry struct {
		label string
		count int
	}
	var entries []entry
	for label, count := range stats.PapersByCategory {
		entries = append(entries, entry{label, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].label < entries[j].label
	})

	maxVal := 0
	counts := make([]float64, 0, len(entries))
	for _, e := range entries {
		if e.count > maxVal {
			maxVal = e.count
		}
		counts = append(counts, float64(e.count))
	}

	baseY := padding + headerHeight + plotHeight
	var bars []chartBar
	for i, e := range entries {
		h := 0.0
		if maxVal > 0 {
			h = plotHeight * float64(e.count) / float64(maxVal)
		}
		bars = append(bars, chartBar{
			Label: truncate(e.label, 12),
			Count: e.count,
			X:     padding + float64(i)*(barW+barGap),
			Y:     baseY - h,
			W:     barW,
			H:     h,
		})
	}

	width := int(padding*2 + float64(len(bars))*(barW+barGap))
	if width < 560 {
		width = 560
	}
	height := int(padding*2 + headerHeight + plotHeight + footerHeight)

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "Daily Papers by Category"
	}

	footer := "no category data"
	if len(counts) > 0 {
		mean := stat.Mean(counts, nil)
		dev := stat.StdDev(counts, nil)
		footer = fmt.Sprintf("papers: %d  news: %d  mean/category: %.1f  stddev: %.1f",
			stats.TotalPapers, stats.TotalNews, mean, dev)
	}

	return chartLayout{
		Bars:    bars,
		Width:   width,
		Height:  height,
		Title:   title,
		Date:    opts.Report.Date,
		Footer:  footer,
		BaseY:   baseY,
		MaxVal:  maxVal,
		HasData: len(bars) > 0,
	}
}

// --- rendering -------------------------------------------------------------

var (
	chartColorBar      = color.RGBA{0x90, 0xca, 0xf9, 0xff}
	chartColorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	chartColorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	chartColorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	chartColorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	chartColorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
)

func renderChartPNG(path string, layout chartLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(chartColorBackdrop)
	dc.Clear()

	dc.SetColor(chartColorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, 72, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(chartColorText)
	dc.DrawStringAnchored(layout.Title, 32, 40, 0, 0.5)
	dc.SetColor(chartColorSubtle)
	dc.DrawStringAnchored(layout.Date, 32, 60, 0, 0.5)

	// baseline
	dc.SetColor(chartColorStroke)
	dc.SetLineWidth(1.2)
	dc.DrawLine(24, layout.BaseY, float64(layout.Width)-24, layout.BaseY)
	dc.Stroke()

	for _, b := range layout.Bars {
		dc.SetColor(chartColorBar)
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		dc.Fill()
		dc.SetColor(chartColorStroke)
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		dc.Stroke()

		dc.SetColor(chartColorText)
		dc.DrawStringAnchored(fmt.Sprintf("%d", b.Count), b.X+b.W/2, b.Y-10, 0.5, 0.5)
		dc.SetColor(chartColorSubtle)
		dc.DrawStringAnchored(b.Label, b.X+b.W/2, layout.BaseY+16, 0.5, 0.5)
	}

	if !layout.HasData {
		dc.SetColor(chartColorSubtle)
		dc.DrawStringAnchored("no category data", float64(layout.Width)/2, layout.BaseY-60, 0.5, 0.5)
	}

	dc.SetColor(chartColorSubtle)
	dc.DrawStringAnchored(layout.Footer, 32, float64(layout.Height)-28, 0, 0.5)

	return dc.SavePNG(path)
}

func renderChartSVG(path string, layout chartLayout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderChartSVGToWriter(file, layout)
}

func renderChartSVGToWriter(w io.Writer, layout chartLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(chartColorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, 72, 10, 10, fmt.Sprintf("fill:%s", css(chartColorHeaderBG)))

	canvas.Text(32, 44, layout.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(chartColorText)))
	canvas.Text(32, 64, layout.Date, fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(chartColorSubtle)))

	canvas.Line(24, int(layout.BaseY), layout.Width-24, int(layout.BaseY),
		fmt.Sprintf("stroke:%s;stroke-width:1.2", css(chartColorStroke)))

	for _, b := range layout.Bars {
		canvas.Rect(int(b.X), int(b.Y), int(b.W), int(b.H),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(chartColorBar), css(chartColorStroke)))
		canvas.Text(int(b.X+b.W/2), int(b.Y)-6, fmt.Sprintf("%d", b.Count),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;text-anchor:middle", css(chartColorText)))
		canvas.Text(int(b.X+b.W/2), int(layout.BaseY)+18, b.Label,
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:middle", css(chartColorSubtle)))
	}

	if !layout.HasData {
		canvas.Text(layout.Width/2, int(layout.BaseY)-60, "no category data",
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;text-anchor:middle", css(chartColorSubtle)))
	}

	canvas.Text(32, layout.Height-24, layout.Footer,
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(chartColorSubtle)))

	canvas.End()
	return nil
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
