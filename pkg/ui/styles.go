package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/dailyview/pkg/jobs"
	"github.com/vanderheijden86/dailyview/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Adaptive colors for light and dark terminals
// Light mode colors tuned for WCAG AA compliance (contrast ratio >= 4.5:1)
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Base colors - Light mode uses darker colors for contrast on white backgrounds
	ColorBg          = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	// Primary accent colors
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	// Analysis status colors
	ColorAnalysisSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorAnalysisFailed  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	ColorAnalysisPending = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}

	// Analysis status background colors (for badges) - subtle backgrounds
	ColorAnalysisSuccessBg = lipgloss.AdaptiveColor{Light: "#D4EDDA", Dark: "#1A3D2A"}
	ColorAnalysisFailedBg  = lipgloss.AdaptiveColor{Light: "#F8D7DA", Dark: "#3D1A1A"}
	ColorAnalysisPendingBg = lipgloss.AdaptiveColor{Light: "#FFE8CC", Dark: "#3D2A1A"}

	// Job state colors
	ColorJobPending    = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorJobProcessing = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorJobCompleted  = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE RENDERING
// ══════════════════════════════════════════════════════════════════════════════

// RenderAnalysisBadge returns a styled badge for a record's analysis status
func RenderAnalysisBadge(status model.AnalysisStatus) string {
	var fg, bg lipgloss.AdaptiveColor
	var label string

	switch status {
	case model.AnalysisSuccess:
		fg, bg, label = ColorAnalysisSuccess, ColorAnalysisSuccessBg, "OK"
	case model.AnalysisFailed:
		fg, bg, label = ColorAnalysisFailed, ColorAnalysisFailedBg, "ERR"
	case model.AnalysisPending:
		fg, bg, label = ColorAnalysisPending, ColorAnalysisPendingBg, "PEND"
	default:
		fg, bg, label = ColorMuted, ColorBgSubtle, "????"
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Padding(0, 0).
		Render(label)
}

// RenderJobBadge returns a styled badge for a deep-analysis job state
func RenderJobBadge(state jobs.State) string {
	var fg lipgloss.AdaptiveColor
	var label string

	switch state {
	case jobs.Completed:
		fg, label = ColorJobCompleted, "● completed"
	case jobs.Processing:
		fg, label = ColorJobProcessing, "◉ processing"
	default:
		fg, label = ColorJobPending, "○ pending"
	}

	return lipgloss.NewStyle().Foreground(fg).Bold(true).Render(label)
}

// RenderTab renders one tab label, highlighted when active
func RenderTab(label string, active bool) string {
	if active {
		return lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Underline(true).
			Render(label)
	}
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(label)
}

// RenderDivider renders a horizontal divider line
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(ColorBgHighlight).
		Render(strings.Repeat("─", width))
}
