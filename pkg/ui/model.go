// Package ui implements the dv terminal interface: a date-navigable view of
// the daily papers and news datasets with category filtering, pagination,
// report rendering, and on-demand deep-analysis polling.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/dailyview/pkg/config"
	"github.com/vanderheijden86/dailyview/pkg/day"
	"github.com/vanderheijden86/dailyview/pkg/debug"
	"github.com/vanderheijden86/dailyview/pkg/jobs"
	"github.com/vanderheijden86/dailyview/pkg/model"
	"github.com/vanderheijden86/dailyview/pkg/view"
)

// Tab selects the active dataset pane.
type Tab int

const (
	TabPapers Tab = iota
	TabNews
	TabReport
	numTabs // Keep this last - used for cycling
)

// String returns a human-readable label for the tab.
func (t Tab) String() string {
	switch t {
	case TabNews:
		return "News"
	case TabReport:
		return "Report"
	default:
		return "Papers"
	}
}

// focus represents which UI element has keyboard focus
type focus int

const (
	focusList focus = iota
	focusDetail
	focusHelp
)

// tabState is the per-tab selection state that drives page derivation.
type tabState struct {
	category string
	page     int
	cursor   int
}

// Model is the main Bubble Tea model for dv
type Model struct {
	svc Services

	// Data
	catalog    model.Catalog
	catalogSeq int
	dates      []string // normalized, newest first
	dateIdx    int
	dayResult  day.Result
	daySeq     int
	loadingDay bool

	// Selection state
	tab    Tab
	papers tabState
	news   tabState

	// Detail view
	detailPaper *model.Paper
	detailNews  *model.News
	viewport    viewport.Model
	renderer    *MarkdownRenderer

	// Deep-analysis job state for the open paper detail
	jobStatus  *jobs.Status
	jobPolling bool

	// UI chrome
	focused       focus
	ready         bool
	width         int
	height        int
	spinnerIdx    int
	statusMsg     string
	statusIsError bool
	statusSeq     int
	showHelp      bool
}

// NewModel creates the initial model over the given services.
func NewModel(svc Services) Model {
	tab := TabPapers
	if svc.Config.UI.DefaultTab == "news" {
		tab = TabNews
	}
	return Model{
		svc:      svc,
		tab:      tab,
		papers:   tabState{category: model.CategoryAll, page: 1},
		news:     tabState{category: model.CategoryAll, page: 1},
		renderer: NewMarkdownRenderer(80, svc.Config.UI.GlamourStyle),
	}
}

// Init kicks off the catalog load, the spinner, and the file watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		LoadCatalogCmd(m.svc, m.catalogSeq),
		spinnerTickCmd(),
		ReadyTimeoutCmd(),
	}
	if cmd := WatchCmd(m.svc.Watcher); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m Model) pageSize() int {
	if m.svc.Config.UI.PageSize > 0 {
		return m.svc.Config.UI.PageSize
	}
	return view.DefaultPageSize
}

// activeState returns the selection state for the active tab.
func (m *Model) activeState() *tabState {
	if m.tab == TabNews {
		return &m.news
	}
	return &m.papers
}

// papersPage derives the current papers page.
func (m Model) papersPage() view.Page[model.Paper] {
	return view.Derive(m.dayResult.Papers, m.papers.category, m.papers.page, m.pageSize())
}

// newsPage derives the current news page.
func (m Model) newsPage() view.Page[model.News] {
	return view.Derive(m.dayResult.News, m.news.category, m.news.page, m.pageSize())
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		contentWidth := m.width - 4
		if contentWidth > 100 {
			contentWidth = 100
		}
		m.renderer = NewMarkdownRenderer(contentWidth, m.svc.Config.UI.GlamourStyle)
		m.viewport = viewport.New(m.width-2, m.bodyHeight())
		if m.focused == focusDetail {
			m.viewport.SetContent(m.detailContent())
		}
		return m, nil

	case ReadyTimeoutMsg:
		m.ready = true
		return m, nil

	case spinnerTickMsg:
		if m.loadingDay || m.jobPolling {
			m.spinnerIdx = (m.spinnerIdx + 1) % len(spinnerFrames)
		}
		return m, spinnerTickCmd()

	case CatalogLoadedMsg:
		if msg.Seq != m.catalogSeq {
			debug.Log("ui: discarding stale catalog (seq %d, want %d)", msg.Seq, m.catalogSeq)
			return m, nil
		}
		return m.applyCatalog(msg.Catalog)

	case DayLoadedMsg:
		if msg.Seq != m.daySeq {
			debug.Log("ui: discarding stale day %s (seq %d, want %d)", msg.Result.Date, msg.Seq, m.daySeq)
			return m, nil
		}
		m.loadingDay = false
		m.dayResult = msg.Result
		m.clampSelection()
		// Warm the cache for the next older day while the user reads.
		if next := m.adjacentDate(+1); next != "" {
			return m, PrefetchDayCmd(m.svc, next)
		}
		return m, nil

	case JobStatusMsg:
		if m.focused != focusDetail || m.detailPaper == nil || msg.Status.JobID != m.detailPaper.ID {
			return m, nil
		}
		m.jobStatus = &msg.Status
		m.viewport.SetContent(m.detailContent())
		if msg.Status.State == jobs.Completed {
			m.jobPolling = false
		}
		// A non-completed job is not re-polled on a timer: the next poll
		// happens on refocus or when the user presses d again.
		return m, nil

	case FileChangedMsg:
		debug.Log("ui: data tree changed, reloading")
		m.svc.Cache.InvalidateAll()
		cmds := []tea.Cmd{m.reloadCatalog()}
		if m.currentDate() != "" {
			cmds = append(cmds, m.reloadDay())
		}
		if cmd := WatchCmd(m.svc.Watcher); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.FocusMsg:
		// Re-poll a job on terminal refocus so the user sees current
		// state after being away.
		if m.focused == focusDetail && m.jobPolling && m.detailPaper != nil {
			return m, RepollJobCmd(m.svc, m.detailPaper.ID)
		}
		return m, nil

	case statusMsgEvent:
		m.statusMsg = msg.text
		m.statusIsError = msg.isError
		m.statusSeq++
		return m, clearStatusCmd(m.statusSeq)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
			m.statusIsError = false
		}
		return m, nil

	case ChartExportedMsg:
		if msg.Err != nil {
			return m, func() tea.Msg {
				return statusMsgEvent{text: fmt.Sprintf("export failed: %v", msg.Err), isError: true}
			}
		}
		return m, func() tea.Msg {
			return statusMsgEvent{text: "chart saved to " + msg.Path}
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applyCatalog installs a loaded catalog and selects the newest date.
func (m Model) applyCatalog(cat model.Catalog) (tea.Model, tea.Cmd) {
	m.catalog = cat
	previous := m.currentDate()
	m.dates = unionDates(cat)

	// Keep the selected date when it survives the reload.
	m.dateIdx = 0
	for i, d := range m.dates {
		if d == previous {
			m.dateIdx = i
			break
		}
	}

	if len(m.dates) == 0 {
		m.dayResult = day.Result{}
		return m, nil
	}
	return m, m.reloadDay()
}

// unionDates merges the per-kind catalog entries into one newest-first list.
func unionDates(cat model.Catalog) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, kind := range []model.Kind{model.KindPapers, model.KindNews, model.KindReports} {
		for _, d := range cat.Dates(kind) {
			if !seen[d] {
				seen[d] = true
				dates = append(dates, d)
			}
		}
	}
	// The producer lists newest first per kind; keep the overall list
	// sorted the same way.
	for i := 1; i < len(dates); i++ {
		for j := i; j > 0 && dates[j] > dates[j-1]; j-- {
			dates[j], dates[j-1] = dates[j-1], dates[j]
		}
	}
	return dates
}

func (m Model) currentDate() string {
	if m.dateIdx < 0 || m.dateIdx >= len(m.dates) {
		return ""
	}
	return m.dates[m.dateIdx]
}

// adjacentDate returns the date delta steps away in the list (+1 is older),
// or "" at the boundary.
func (m Model) adjacentDate(delta int) string {
	idx := m.dateIdx + delta
	if idx < 0 || idx >= len(m.dates) {
		return ""
	}
	return m.dates[idx]
}

// reloadDay starts a load of the selected date under a fresh sequence.
func (m *Model) reloadDay() tea.Cmd {
	m.daySeq++
	m.loadingDay = true
	return LoadDayCmd(m.svc, m.daySeq, m.currentDate())
}

// reloadCatalog starts a catalog load under a fresh sequence.
func (m *Model) reloadCatalog() tea.Cmd {
	m.catalogSeq++
	return LoadCatalogCmd(m.svc, m.catalogSeq)
}

// clampSelection resets cursors that point past the reloaded dataset.
func (m *Model) clampSelection() {
	pp := m.papersPage()
	if m.papers.cursor >= len(pp.Items) {
		m.papers.cursor = 0
	}
	m.papers.page = pp.Page
	np := m.newsPage()
	if m.news.cursor >= len(np.Items) {
		m.news.cursor = 0
	}
	m.news.page = np.Page
}

// selectDate moves date selection by delta and reloads.
func (m *Model) selectDate(delta int) tea.Cmd {
	idx := m.dateIdx + delta
	if idx < 0 || idx >= len(m.dates) {
		return nil
	}
	m.dateIdx = idx
	m.papers.page = 1
	m.papers.cursor = 0
	m.news.page = 1
	m.news.cursor = 0
	return m.reloadDay()
}

// cycleCategory advances the active tab's category filter.
func (m *Model) cycleCategory(backward bool) {
	var categories []string
	if m.tab == TabNews {
		categories = view.Categories(m.dayResult.News)
	} else {
		categories = view.Categories(m.dayResult.Papers)
	}
	if len(categories) == 0 {
		return
	}
	st := m.activeState()
	idx := 0
	for i, c := range categories {
		if c == st.category {
			idx = i
			break
		}
	}
	if backward {
		idx = (idx - 1 + len(categories)) % len(categories)
	} else {
		idx = (idx + 1) % len(categories)
	}
	st.category = categories[idx]
	st.page = 1
	st.cursor = 0
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global keys
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		m.focused = focusList
		return m, nil
	}

	if m.focused == focusDetail {
		return m.handleDetailKey(msg)
	}

	switch key {
	case "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		m.focused = focusHelp
		return m, nil

	case "tab":
		m.tab = (m.tab + 1) % numTabs
		return m, nil
	case "shift+tab":
		m.tab = (m.tab - 1 + numTabs) % numTabs
		return m, nil
	case "1":
		m.tab = TabPapers
		return m, nil
	case "2":
		m.tab = TabNews
		return m, nil
	case "3":
		m.tab = TabReport
		return m, nil

	case "h", "left":
		// Older day
		return m, m.selectDate(+1)
	case "l", "right":
		// Newer day
		return m, m.selectDate(-1)

	case "j", "down":
		m.moveCursor(+1)
		return m, nil
	case "k", "up":
		m.moveCursor(-1)
		return m, nil

	case "n", "]", "pgdown":
		m.movePage(+1)
		return m, nil
	case "p", "[", "pgup":
		m.movePage(-1)
		return m, nil

	case "f":
		if m.tab != TabReport {
			m.cycleCategory(false)
		}
		return m, nil
	case "F":
		if m.tab != TabReport {
			st := m.activeState()
			st.category = model.CategoryAll
			st.page = 1
			st.cursor = 0
		}
		return m, nil

	case "r":
		m.svc.Cache.InvalidateAll()
		cmds := []tea.Cmd{m.reloadCatalog()}
		if m.currentDate() != "" {
			cmds = append(cmds, m.reloadDay())
		}
		return m, tea.Batch(cmds...)

	case "e":
		if m.tab == TabReport && m.dayResult.Report != nil {
			path := filepath.Join(config.CacheDir(), "charts", m.dayResult.Report.Date+".svg")
			return m, ExportChartCmd(m.dayResult.Report, path)
		}
		return m, nil

	case "enter":
		return m.openDetail()
	}

	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.focused = focusList
		m.detailPaper = nil
		m.detailNews = nil
		m.jobStatus = nil
		m.jobPolling = false
		return m, nil

	case "d":
		// Deep analysis is only produced for papers.
		if m.detailPaper == nil {
			return m, nil
		}
		if m.jobPolling {
			// Manual re-check: drop the cached status so the user sees
			// current state.
			return m, RepollJobCmd(m.svc, m.detailPaper.ID)
		}
		m.jobPolling = true
		return m, PollJobCmd(m.svc, m.detailPaper.ID)

	case "y":
		if m.detailPaper != nil {
			url := m.detailPaper.AbsURL
			if url == "" {
				url = m.detailPaper.PDFURL
			}
			return m, CopyCmd(url, "paper URL")
		}
		if m.detailNews != nil {
			return m, CopyCmd(m.detailNews.URL, "article URL")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// moveCursor moves the list cursor within the current page.
func (m *Model) moveCursor(delta int) {
	var pageLen int
	switch m.tab {
	case TabPapers:
		pageLen = len(m.papersPage().Items)
	case TabNews:
		pageLen = len(m.newsPage().Items)
	default:
		return
	}
	if pageLen == 0 {
		return
	}
	st := m.activeState()
	st.cursor += delta
	if st.cursor < 0 {
		st.cursor = 0
	}
	if st.cursor >= pageLen {
		st.cursor = pageLen - 1
	}
}

// movePage moves the active tab one page and resets the cursor.
func (m *Model) movePage(delta int) {
	var totalPages int
	switch m.tab {
	case TabPapers:
		totalPages = m.papersPage().TotalPages
	case TabNews:
		totalPages = m.newsPage().TotalPages
	default:
		return
	}
	st := m.activeState()
	page := st.page + delta
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if page != st.page {
		st.page = page
		st.cursor = 0
	}
}

// openDetail opens the detail pane for the record under the cursor.
func (m Model) openDetail() (tea.Model, tea.Cmd) {
	switch m.tab {
	case TabPapers:
		page := m.papersPage()
		if m.papers.cursor >= len(page.Items) {
			return m, nil
		}
		paper := page.Items[m.papers.cursor]
		m.detailPaper = &paper
		m.detailNews = nil
	case TabNews:
		page := m.newsPage()
		if m.news.cursor >= len(page.Items) {
			return m, nil
		}
		item := page.Items[m.news.cursor]
		m.detailNews = &item
		m.detailPaper = nil
	default:
		return m, nil
	}

	m.focused = focusDetail
	m.jobStatus = nil
	m.jobPolling = false
	m.viewport = viewport.New(m.width-2, m.bodyHeight())
	m.viewport.SetContent(m.detailContent())
	return m, nil
}

// bodyHeight returns the available height for the main content area,
// accounting for the header, tab bar, and footer.
func (m Model) bodyHeight() int {
	h := m.height - 3
	if h < 3 {
		h = 3
	}
	return h
}

// ── rendering ──────────────────────────────────────────────────────────────

// View renders the whole screen.
func (m Model) View() string {
	if !m.ready || m.width == 0 {
		return "Initializing..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	switch {
	case m.focused == focusDetail:
		body = m.viewport.View()
	case m.tab == TabReport:
		body = m.renderReport()
	case m.tab == TabNews:
		body = m.renderNewsList()
	default:
		body = m.renderPapersList()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabBar(),
		lipgloss.NewStyle().Height(m.bodyHeight()).Render(body),
		m.renderFooter(),
	)
}

// renderHeader renders the single-line global header bar.
// Format:  dv | 2025-01-02 ‹3/9›     ⠋ loading | updated 2h ago
func (m Model) renderHeader() string {
	appName := lipgloss.NewStyle().Bold(true).Foreground(ColorText).Render("dv")
	sep := lipgloss.NewStyle().Foreground(ColorMuted).Render(" | ")

	dateLabel := m.currentDate()
	if dateLabel == "" {
		dateLabel = "no data"
	}
	if len(m.dates) > 1 {
		dateLabel = fmt.Sprintf("%s ‹%d/%d›", dateLabel, m.dateIdx+1, len(m.dates))
	}
	dateSection := lipgloss.NewStyle().Foreground(ColorSubtext).Render(dateLabel)

	leftParts := appName + sep + dateSection

	var rightParts string
	if m.loadingDay {
		rightParts = lipgloss.NewStyle().Foreground(ColorInfo).Render(spinnerFrames[m.spinnerIdx] + " loading")
	} else if !m.catalog.LastUpdated.IsZero() {
		rightParts = lipgloss.NewStyle().Foreground(ColorMuted).Render("updated " + FormatTimeRel(m.catalog.LastUpdated.Time))
	}

	leftWidth := lipgloss.Width(leftParts)
	rightWidth := lipgloss.Width(rightParts)
	fillerWidth := m.width - leftWidth - rightWidth
	if fillerWidth < 1 {
		fillerWidth = 1
	}
	filler := lipgloss.NewStyle().Width(fillerWidth).Render("")

	headerBg := lipgloss.NewStyle().
		Width(m.width).
		Background(ColorBgHighlight)

	return headerBg.Render(leftParts + filler + rightParts)
}

func (m Model) renderTabBar() string {
	var parts []string
	for t := TabPapers; t < numTabs; t++ {
		label := t.String()
		switch t {
		case TabPapers:
			label = fmt.Sprintf("%s (%d)", label, m.papersPage().TotalCount)
		case TabNews:
			label = fmt.Sprintf("%s (%d)", label, m.newsPage().TotalCount)
		}
		parts = append(parts, RenderTab(label, t == m.tab))
	}
	return " " + strings.Join(parts, "  ")
}

func (m Model) renderPapersList() string {
	page := m.papersPage()
	if m.loadingDay && len(page.Items) == 0 {
		return m.renderLoading("papers")
	}
	if len(page.Items) == 0 {
		return m.renderEmpty(m.dayResult.PapersErr, "No papers for this day.")
	}

	var sb strings.Builder
	for i, p := range page.Items {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(ColorText)
		if i == m.papers.cursor {
			cursor = lipgloss.NewStyle().Foreground(ColorPrimary).Render("❯ ")
			style = style.Bold(true)
		}
		title := truncate(p.Title, m.width-30)
		meta := lipgloss.NewStyle().Foreground(ColorMuted).Render(
			truncate(p.PrimaryCategory, 16))
		sb.WriteString(fmt.Sprintf("%s%s %s %s\n",
			cursor, RenderAnalysisBadge(p.AnalysisStatus), style.Render(title), meta))
	}
	return sb.String()
}

func (m Model) renderNewsList() string {
	page := m.newsPage()
	if m.loadingDay && len(page.Items) == 0 {
		return m.renderLoading("news")
	}
	if len(page.Items) == 0 {
		return m.renderEmpty(m.dayResult.NewsErr, "No news for this day.")
	}

	var sb strings.Builder
	for i, n := range page.Items {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(ColorText)
		if i == m.news.cursor {
			cursor = lipgloss.NewStyle().Foreground(ColorPrimary).Render("❯ ")
			style = style.Bold(true)
		}
		title := truncate(n.Title, m.width-34)
		meta := lipgloss.NewStyle().Foreground(ColorMuted).Render(
			joinNonEmpty(" · ", truncate(n.SourceName, 18), truncate(n.Category(), 14)))
		sb.WriteString(fmt.Sprintf("%s%s %s %s\n",
			cursor, RenderAnalysisBadge(n.AnalysisStatus), style.Render(title), meta))
	}
	return sb.String()
}

func (m Model) renderReport() string {
	if m.loadingDay && m.dayResult.Report == nil {
		return m.renderLoading("report")
	}
	if m.dayResult.Report == nil {
		return m.renderEmpty(m.dayResult.ReportErr, "No report was generated for this day.")
	}
	return m.renderer.Render(reportMarkdown(m.dayResult.Report))
}

func (m Model) renderLoading(what string) string {
	return lipgloss.NewStyle().
		Foreground(ColorInfo).
		Padding(1, 2).
		Render(spinnerFrames[m.spinnerIdx] + " Loading " + what + "...")
}

func (m Model) renderEmpty(err error, emptyText string) string {
	style := lipgloss.NewStyle().Foreground(ColorMuted).Padding(1, 2)
	if err != nil {
		return style.Foreground(ColorWarning).Render(
			fmt.Sprintf("Unavailable: %v\n\nPress r to retry.", err))
	}
	return style.Render(emptyText)
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		style := lipgloss.NewStyle().Foreground(ColorSuccess)
		if m.statusIsError {
			style = style.Foreground(ColorDanger)
		}
		return " " + style.Render(m.statusMsg)
	}

	if m.focused == focusDetail {
		hint := "esc back · y copy url · ↑/↓ scroll"
		if m.detailPaper != nil {
			hint = "d deep analysis · " + hint
		}
		return " " + lipgloss.NewStyle().Foreground(ColorMuted).Render(hint)
	}

	var left string
	switch m.tab {
	case TabPapers:
		page := m.papersPage()
		left = fmt.Sprintf("page %d/%d · %d papers", page.Page, maxInt(page.TotalPages, 1), page.TotalCount)
		if m.papers.category != model.CategoryAll {
			left += " · filter: " + m.papers.category
		}
	case TabNews:
		page := m.newsPage()
		left = fmt.Sprintf("page %d/%d · %d items", page.Page, maxInt(page.TotalPages, 1), page.TotalCount)
		if m.news.category != model.CategoryAll {
			left += " · filter: " + m.news.category
		}
	default:
		left = "e export chart"
	}

	hint := lipgloss.NewStyle().Foreground(ColorMuted).Render("  ·  ? help · q quit")
	return " " + lipgloss.NewStyle().Foreground(ColorSubtext).Render(left) + hint
}

func (m Model) renderHelp() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(ColorText).Render("  dv — daily AI papers and news viewer")
	dividerWidth := m.width - 4
	if dividerWidth > 60 {
		dividerWidth = 60
	}
	help := `
  Navigation
    tab / shift+tab   cycle panes (papers, news, report)
    1 / 2 / 3         jump to pane
    ← / →  (h / l)    older / newer day
    ↑ / ↓  (k / j)    move cursor
    [ / ]  (p / n)    previous / next page
    enter             open detail
    esc               close detail

  Filtering
    f                 cycle category filter
    F                 clear category filter

  Actions
    d                 fetch deep analysis (in paper detail)
    y                 copy URL (in detail)
    e                 export report chart (report pane)
    r                 refresh from source
    q                 quit

  Press any key to close.
`
	return "\n" + title + "\n  " + RenderDivider(dividerWidth) + "\n" +
		lipgloss.NewStyle().Foreground(ColorText).Render(help)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
