package tui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/runenames"

	"github.com/allnighter/allnighter/internal/engine"
	"github.com/allnighter/allnighter/internal/report"
	"github.com/allnighter/allnighter/internal/session"
	"github.com/allnighter/allnighter/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("232")).
			Background(lipgloss.Color("9")).
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const (
	defaultStatus = "q: quit | ?: help | j/k: navigate | /: search | y: copy | e: export | r: rescan"
	emptyStatus   = "q: quit | r: rescan | ?: help"
)

// SortColumn constants
const (
	SortDefault = ""
	SortFile    = "file"
	SortChar    = "char"
)

// RescanFunc re-runs the batch into the viewer's session.
type RescanFunc func(ctx context.Context) error

// Options configures a viewer model.
type Options struct {
	Baseline report.Baseline
	// BaselinePath is where 'b' records reviewed matches.
	BaselinePath string
	// ExportDir receives files written from the export menu.
	ExportDir string
	Rescan    RescanFunc
	Prefs     Prefs
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func baselineKey(m types.Match) string {
	return m.File + "|" + strconv.Itoa(m.Line) + "|" + strconv.Itoa(m.Position) + "|" + m.Character
}

// Model represents the main state of the viewer.
type Model struct {
	table        table.Model
	viewport     viewport.Model
	spinner      spinner.Model
	sess         *session.Aggregator
	results      []types.FileScanResult
	matches      []types.Match
	filtered     []types.Match // nil = no filter
	baselinedSet map[string]bool
	baselinePath string
	exportDir    string
	prefs        Prefs
	rescanFunc   RescanFunc

	quitting       bool
	ready          bool
	scanning       bool
	showEmpty      bool
	showHelp       bool
	showExportMenu bool
	height         int
	width          int
	statusMessage  string
	statusTimeout  *time.Time
	lastScanTime   time.Time

	searchMode  bool
	searchInput textinput.Model
	searchQuery string

	sortColumn  string
	sortReverse bool
}

// NewModel initializes a viewer over the current contents of sess.
func NewModel(sess *session.Aggregator, opts Options) Model {
	if sess == nil {
		sess = session.New()
	}
	columns := []table.Column{
		{Title: "File", Width: 40},
		{Title: "Line", Width: 6},
		{Title: "Pos", Width: 6},
		{Title: "Char", Width: 6},
		{Title: "Code Point", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)

	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)

	s.Cell = lipgloss.NewStyle().
		Padding(0, 1)

	t.SetStyles(s)

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "Search file, character or U+code..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	baselined := make(map[string]bool, len(opts.Baseline.Items))
	for k, v := range opts.Baseline.Items {
		if v {
			baselined[k] = true
		}
	}
	bp := opts.BaselinePath
	if bp == "" {
		bp = DefaultBaselinePath
	}
	prefs := opts.Prefs
	if prefs.ContextLines <= 0 {
		prefs = DefaultPrefs()
	}

	m := Model{
		table:        t,
		spinner:      sp,
		sess:         sess,
		baselinedSet: baselined,
		baselinePath: bp,
		exportDir:    opts.ExportDir,
		prefs:        prefs,
		rescanFunc:   opts.Rescan,
		searchInput:  ti,
		lastScanTime: time.Now(),
	}
	m.loadResults(sess.Results())
	if m.showEmpty {
		m.statusMessage = emptyStatus
	} else {
		m.statusMessage = defaultStatus
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Prefs returns the viewer preferences, including changes made while running.
func (m Model) Prefs() Prefs { return m.prefs }

type resultsMsg struct {
	results []types.FileScanResult
	err     error
}

type statusMsg string

func (m *Model) rescan() tea.Cmd {
	fn, sess := m.rescanFunc, m.sess
	return func() tea.Msg {
		if fn == nil {
			return statusMsg("Rescan not available")
		}
		if err := fn(context.Background()); err != nil {
			return resultsMsg{results: sess.Results(), err: err}
		}
		return resultsMsg{results: sess.Results()}
	}
}

func (m *Model) loadResults(results []types.FileScanResult) {
	m.results = results
	m.matches = report.SortedMatches(results)
	m.sortMatches()
}

func (m *Model) applyFilters() {
	if m.searchQuery == "" {
		m.filtered = nil
		m.rebuildTableRows()
		return
	}
	query := strings.ToLower(m.searchQuery)
	filtered := []types.Match{}
	for _, mt := range m.matches {
		if strings.Contains(strings.ToLower(mt.File), query) ||
			strings.Contains(mt.Character, m.searchQuery) ||
			strings.Contains(strings.ToLower(report.CodePoint(mt.Character)), query) ||
			strings.Contains(strings.ToLower(charName(mt.Character)), query) {
			filtered = append(filtered, mt)
		}
	}
	m.filtered = filtered
	m.rebuildTableRows()
}

func (m *Model) clearFilters() {
	m.searchQuery = ""
	m.filtered = nil
	m.rebuildTableRows()
}

func (m *Model) rebuildTableRows() {
	display := m.getDisplayMatches()
	rows := make([]table.Row, len(display))
	for i, mt := range display {
		file := mt.File
		if m.baselinedSet[baselineKey(mt)] {
			file = "(b) " + file
		}
		rows[i] = table.Row{
			file,
			strconv.Itoa(mt.Line),
			strconv.Itoa(mt.Position),
			mt.Character,
			report.CodePoint(mt.Character),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(display) {
		m.table.SetCursor(0)
	}
	m.showEmpty = len(display) == 0
	m.updateViewportContent()
}

func (m *Model) getDisplayMatches() []types.Match {
	if m.filtered != nil {
		return m.filtered
	}
	return m.matches
}

func (m *Model) getSelectedMatch() *types.Match {
	display := m.getDisplayMatches()
	idx := m.table.Cursor()
	if idx >= 0 && idx < len(display) {
		return &display[idx]
	}
	return nil
}

func (m *Model) cycleSortColumn() {
	switch m.sortColumn {
	case SortDefault:
		m.sortColumn = SortChar
	case SortChar:
		m.sortColumn = SortFile
	default:
		m.sortColumn = SortDefault
	}
	m.sortReverse = false
	m.sortMatches()
}

func (m *Model) toggleSortReverse() {
	m.sortReverse = !m.sortReverse
	m.sortMatches()
}

func (m *Model) sortMatches() {
	if m.sortColumn == SortDefault {
		m.matches = report.SortedMatches(m.results)
		if m.sortReverse {
			for i, j := 0, len(m.matches)-1; i < j; i, j = i+1, j-1 {
				m.matches[i], m.matches[j] = m.matches[j], m.matches[i]
			}
		}
		m.applyFilters()
		return
	}
	sort.SliceStable(m.matches, func(i, j int) bool {
		var less bool
		switch m.sortColumn {
		case SortChar:
			less = m.matches[i].Character < m.matches[j].Character
		case SortFile:
			less = strings.ToLower(m.matches[i].File) < strings.ToLower(m.matches[j].File)
		}
		if m.sortReverse {
			return !less
		}
		return less
	})
	m.applyFilters()
}

func (m *Model) getSortIndicator() string {
	if m.sortColumn == SortDefault && !m.sortReverse {
		return ""
	}
	col := m.sortColumn
	if col == "" {
		col = "position"
	}
	arrow := "^"
	if m.sortReverse {
		arrow = "v"
	}
	return fmt.Sprintf(" [%s %s]", col, arrow)
}

func (m *Model) expandContext() {
	if m.prefs.ContextLines < maxContextLines {
		m.prefs.ContextLines = min(m.prefs.ContextLines+2, maxContextLines)
		m.updateViewportContent()
	}
}

func (m *Model) contractContext() {
	if m.prefs.ContextLines > 1 {
		m.prefs.ContextLines = max(m.prefs.ContextLines-2, 1)
		m.updateViewportContent()
	}
}

// readFileContext returns up to contextLines lines on either side of
// targetLine, decoded the same way the scanner decodes them.
func readFileContext(path string, targetLine int, contextLines int) ([]string, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	text, err := engine.Decode(path, data, true)
	if err != nil {
		return nil, 0, err
	}
	all := strings.Split(text, "\n")
	startLine := max(targetLine-contextLines, 1)
	endLine := min(targetLine+contextLines, len(all))
	if startLine > endLine {
		return nil, startLine, nil
	}
	lines := make([]string, 0, endLine-startLine+1)
	for _, l := range all[startLine-1 : endLine] {
		lines = append(lines, strings.TrimSuffix(l, "\r"))
	}
	return lines, startLine, nil
}

// splitAtPosition cuts line around the character starting at the 1-based
// UTF-16 offset pos.
func splitAtPosition(line string, pos int) (before, ch, after string, ok bool) {
	unit := 1
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		if unit == pos {
			return line[:i], line[i : i+size], line[i+size:], true
		}
		if n := utf16.RuneLen(r); n > 0 {
			unit += n
		} else {
			unit++
		}
		if unit > pos {
			break
		}
		i += size
	}
	return line, "", "", false
}

// tailWidth keeps the rightmost cells of s that fit in w, prefixed with an
// ellipsis when anything was dropped.
func tailWidth(s string, w int) string {
	if runewidth.StringWidth(s) <= w {
		return s
	}
	rs := []rune(s)
	width := 1
	i := len(rs)
	for i > 0 {
		cw := runewidth.RuneWidth(rs[i-1])
		if width+cw > w {
			break
		}
		width += cw
		i--
	}
	return "…" + string(rs[i:])
}

func charName(c string) string {
	for _, r := range c {
		if name := runenames.Name(r); name != "" {
			return name
		}
	}
	return ""
}

func highlightCode(code string, filename, styleName string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		ext := filepath.Ext(filename)
		if ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil || code == "" {
		return code
	}

	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return code
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// renderMatchLine highlights line and marks the matched character. Long
// lines are clipped to width cells while keeping the character in view.
func (m *Model) renderMatchLine(line string, mt types.Match, width int) string {
	before, ch, after, ok := splitAtPosition(line, mt.Position)
	if !ok {
		return highlightCode(runewidth.Truncate(line, width, "…"), mt.File, m.prefs.Theme)
	}
	half := max(width/2, 8)
	before = tailWidth(before, half)
	after = runewidth.Truncate(after, max(width-runewidth.StringWidth(before)-runewidth.StringWidth(ch), 1), "…")
	return highlightCode(before, mt.File, m.prefs.Theme) + matchStyle.Render(ch) + highlightCode(after, mt.File, m.prefs.Theme)
}

func (m *Model) updateViewportContent() {
	display := m.getDisplayMatches()
	if len(display) == 0 || !m.ready {
		m.viewport.SetContent("")
		return
	}
	idx := m.table.Cursor()
	if idx >= 0 && idx < len(display) {
		m.updateViewportContentForMatch(display[idx])
	}
}

func (m *Model) updateViewportContentForMatch(mt types.Match) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\n\n", titleStyle.Render("Match Details")))

	if m.baselinedSet[baselineKey(mt)] {
		b.WriteString(dimStyle.Italic(true).Render("BASELINED: This match was reviewed and is suppressed in CI."))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render("File:"), mt.File))
	b.WriteString(fmt.Sprintf("%s %d\n", keyStyle.Render("Line:"), mt.Line))
	b.WriteString(fmt.Sprintf("%s %d\n", keyStyle.Render("Position:"), mt.Position))
	b.WriteString(fmt.Sprintf("%s %s  %s", keyStyle.Render("Character:"), matchStyle.Render(mt.Character), report.CodePoint(mt.Character)))
	if name := charName(mt.Character); name != "" {
		b.WriteString("  " + dimStyle.Render(name))
	}
	b.WriteString("\n")

	contextHint := fmt.Sprintf(" (+/- to expand/contract, showing %d lines)", m.prefs.ContextLines*2+1)
	b.WriteString(fmt.Sprintf("\n%s%s\n", keyStyle.Render("Context:"), dimStyle.Render(contextHint)))

	lines, startLine, err := readFileContext(mt.File, mt.Line, m.prefs.ContextLines)
	if err != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("source unavailable: %v", err)))
		m.viewport.SetContent(b.String())
		return
	}
	width := max(m.viewport.Width-8, 20)
	highlightLineStyle := lipgloss.NewStyle().Background(lipgloss.Color("236"))
	for i, line := range lines {
		lineNum := startLine + i
		lineNumStr := dimStyle.Render(fmt.Sprintf("%4d ", lineNum))
		if lineNum == mt.Line {
			b.WriteString(lineNumStr + highlightLineStyle.Render(m.renderMatchLine(line, mt, width)) + "\n")
			continue
		}
		b.WriteString(lineNumStr + highlightCode(runewidth.Truncate(line, width, "…"), mt.File, m.prefs.Theme) + "\n")
	}
	m.viewport.SetContent(b.String())
}

func (m *Model) setStatus(msg string, d time.Duration) {
	timeout := time.Now().Add(d)
	m.statusTimeout = &timeout
	m.statusMessage = msg
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if m.showExportMenu {
			m.showExportMenu = false
			switch msg.String() {
			case "1", "t":
				return m, m.exportResults(ExportText)
			case "2", "c":
				return m, m.exportResults(ExportCSV)
			case "3", "s":
				return m, m.exportResults(ExportSARIF)
			case "4", "j":
				return m, m.exportResults(ExportJSON)
			}
			return m, nil
		}

		if m.searchMode {
			switch msg.String() {
			case "enter":
				m.searchQuery = m.searchInput.Value()
				m.searchMode = false
				m.searchInput.Blur()
				return m, nil
			case "esc":
				m.searchMode = false
				m.searchInput.Blur()
				m.searchInput.SetValue(m.searchQuery)
				m.applyFilters()
				return m, nil
			default:
				m.searchInput, cmd = m.searchInput.Update(msg)
				m.searchQuery = m.searchInput.Value()
				m.applyFilters()
				return m, cmd
			}
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "/":
			if len(m.matches) > 0 {
				m.searchMode = true
				m.searchInput.SetValue(m.searchQuery)
				m.searchInput.Focus()
				return m, textinput.Blink
			}
		case "esc":
			if m.searchQuery != "" {
				m.clearFilters()
				m.setStatus("Filter cleared", 3*time.Second)
				return m, nil
			}
		case "s":
			if len(m.matches) > 0 {
				m.cycleSortColumn()
				if m.sortColumn == SortDefault {
					m.setStatus("Sort: file, line, position", 3*time.Second)
				} else {
					m.setStatus(fmt.Sprintf("Sort by %s (S to reverse)", m.sortColumn), 3*time.Second)
				}
				return m, nil
			}
		case "S":
			if len(m.matches) > 0 {
				m.toggleSortReverse()
				return m, nil
			}
		case "o", "enter":
			if !m.showEmpty {
				return m, m.openEditor()
			}
		case "i":
			if !m.showEmpty {
				return m, m.ignoreFile()
			}
		case "b":
			if !m.showEmpty {
				return m, m.addToBaseline()
			}
		case "e":
			m.showExportMenu = true
			return m, nil
		case "y":
			return m, m.copySessionToClipboard()
		case "Y":
			if !m.showEmpty {
				return m, m.copyMatchToClipboard()
			}
		case "+", "=":
			if !m.showEmpty {
				m.expandContext()
				m.setStatus(fmt.Sprintf("Context: %d lines", m.prefs.ContextLines*2+1), 2*time.Second)
				return m, nil
			}
		case "-", "_":
			if !m.showEmpty {
				m.contractContext()
				m.setStatus(fmt.Sprintf("Context: %d lines", m.prefs.ContextLines*2+1), 2*time.Second)
				return m, nil
			}
		case "r":
			if m.rescanFunc == nil {
				m.setStatus("Rescan not available", 3*time.Second)
				return m, nil
			}
			if !m.scanning {
				m.scanning = true
				m.statusMessage = "Rescanning..."
				return m, m.rescan()
			}
			return m, nil
		case "?", "h":
			m.showHelp = !m.showHelp
			return m, nil
		case "down", "j", "up", "k":
			if !m.showEmpty {
				m.table, cmd = m.table.Update(msg)
				m.updateViewportContent()
				return m, cmd
			}
			return m, nil
		case "ctrl+d":
			if !m.showEmpty {
				m.table.MoveDown(max(m.table.Height()/2, 1))
				m.updateViewportContent()
				return m, nil
			}
		case "ctrl+u":
			if !m.showEmpty {
				m.table.MoveUp(max(m.table.Height()/2, 1))
				m.updateViewportContent()
				return m, nil
			}
		case "ctrl+f", "pgdown":
			if !m.showEmpty {
				m.table.MoveDown(m.table.Height())
				m.updateViewportContent()
				return m, nil
			}
		case "ctrl+b", "pgup":
			if !m.showEmpty {
				m.table.MoveUp(m.table.Height())
				m.updateViewportContent()
				return m, nil
			}
		case "g", "home":
			if !m.showEmpty {
				m.table.GotoTop()
				m.updateViewportContent()
				return m, nil
			}
		case "G", "end":
			if !m.showEmpty {
				m.table.GotoBottom()
				m.updateViewportContent()
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		numWidth, charWidth, codeWidth := 6, 6, 10
		fileWidth := max(m.width-10-2*numWidth-charWidth-codeWidth, 20)
		cols := m.table.Columns()
		cols[0].Width = fileWidth
		cols[1].Width = numWidth
		cols[2].Width = numWidth
		cols[3].Width = charWidth
		cols[4].Width = codeWidth
		m.table.SetColumns(cols)

		statsHeaderHeight := 1
		availableHeight := m.height - lipgloss.Height(statusStyle.Render("")) - statsHeaderHeight
		tableHeight := int(float64(availableHeight) * 0.45)
		viewportHeight := availableHeight - tableHeight - detailPaneBorderStyle.GetVerticalFrameSize() - 1

		m.table.SetWidth(m.width)
		m.table.SetHeight(tableHeight)

		if m.viewport.Height == 0 {
			m.viewport = viewport.New(m.width, viewportHeight)
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()
		statusStyle = statusStyle.Width(m.width)

	case resultsMsg:
		m.scanning = false
		m.lastScanTime = time.Now()
		m.loadResults(msg.results)
		m.table.SetCursor(0)
		m.updateViewportContent()
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Rescan error: %v", msg.err), 5*time.Second)
		} else if len(m.matches) == 0 {
			m.setStatus(fmt.Sprintf("Rescan complete - %d files, no special characters", len(m.results)), 5*time.Second)
		} else {
			m.setStatus(fmt.Sprintf("Rescan complete - %d matches in %d files", len(m.matches), len(m.results)), 5*time.Second)
		}
		return m, nil

	case statusMsg:
		m.scanning = false
		m.setStatus(string(msg), 3*time.Second)
		return m, nil

	case spinner.TickMsg:
		var spinCmd tea.Cmd
		m.spinner, spinCmd = m.spinner.Update(msg)
		if m.statusTimeout != nil && time.Now().After(*m.statusTimeout) {
			m.statusTimeout = nil
			if m.showEmpty {
				m.statusMessage = emptyStatus
			} else {
				m.statusMessage = defaultStatus
			}
		}
		return m, spinCmd
	}

	if !m.quitting && !m.showEmpty {
		if _, ok := msg.(tea.KeyMsg); !ok {
			m.table, cmd = m.table.Update(msg)
		}
	}
	m.updateViewportContent()
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	if m.scanning {
		msgContent := fmt.Sprintf("%s  Rescanning...\n\nPlease wait", m.spinner.View())
		popupBox := popupStyle.
			Width(55).
			Align(lipgloss.Center).
			Render(msgContent)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupBox)
	}

	if m.showHelp {
		return m.helpView()
	}
	if m.showExportMenu {
		return m.exportView()
	}

	display := m.getDisplayMatches()
	var statsContent string
	if len(m.matches) == 0 {
		statsContent = okStyle.Render(fmt.Sprintf("[OK] No special characters in %d files", len(m.results)))
	} else {
		var filterInfo string
		if m.searchQuery != "" {
			filterInfo = fmt.Sprintf("  [FILTER: '%s' %d/%d]", m.searchQuery, len(display), len(m.matches))
		}
		statsContent = fmt.Sprintf("Files: %-4d  |  Matches: %-5d  |  Distinct: %-3d  |  Baselined: %d%s%s",
			len(m.results),
			len(m.matches),
			len(types.DistinctCharacters(m.results)),
			m.baselinedCount(),
			filterInfo,
			m.getSortIndicator(),
		)
	}

	statsHeader := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 2).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("237")).
		Render(statsContent)

	tableRender := tableBorderStyle.
		Width(m.width).
		Height(m.table.Height()).
		Render(m.table.View())

	var detailContent string
	if len(display) == 0 {
		emptyMsg := "Nothing to review.\n\nPress 'r' to rescan\nPress '?' for help"
		if len(m.matches) > 0 {
			emptyMsg = "No matches for filter.\n\nPress 'Esc' to clear filter"
		}
		detailContent = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, emptyTextStyle.Render(emptyMsg))
	} else {
		detailContent = m.viewport.View()
	}

	detailRender := detailPaneBorderStyle.
		Width(m.width).
		Height(m.viewport.Height).
		Render(detailContent)

	var timeInfo string
	if !m.lastScanTime.IsZero() {
		timeInfo = fmt.Sprintf("Scanned: %s ago", formatDuration(time.Since(m.lastScanTime)))
	}
	spacer := max(m.width-4-lipgloss.Width(m.statusMessage)-lipgloss.Width(timeInfo), 1)
	statusContent := m.statusMessage + strings.Repeat(" ", spacer) + timeInfo

	bottomBar := statusStyle.
		Width(m.width).
		Padding(0, 2).
		Render(statusContent)
	if m.searchMode {
		bottomBar = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("15")).
			Width(m.width).
			Padding(0, 1).
			Render(m.searchInput.View() + fmt.Sprintf(" (%d matches)", len(display)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statsHeader,
		tableRender,
		detailRender,
		bottomBar,
	)
}

func (m Model) baselinedCount() int {
	n := 0
	for _, mt := range m.matches {
		if m.baselinedSet[baselineKey(mt)] {
			n++
		}
	}
	return n
}

func (m Model) helpView() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	section := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyColor := lipgloss.Color("10")
	descColor := lipgloss.Color("250")

	formatRow := func(key, desc string) string {
		keyStyled := lipgloss.NewStyle().Foreground(keyColor).Render(key)
		descStyled := lipgloss.NewStyle().Foreground(descColor).Render(desc)
		return "  " + keyStyled + strings.Repeat(" ", max(12-len(key), 1)) + descStyled
	}

	lines := []string{
		title.Render("Keyboard Shortcuts"),
		"",
		section.Render("Navigation"),
		formatRow("j / k", "Move down / up"),
		formatRow("Ctrl+d/u", "Half-page down / up"),
		formatRow("g / G", "First / last row"),
		"",
		section.Render("Search & Sort"),
		formatRow("/", "Search file, char or code point"),
		formatRow("s / S", "Sort / reverse sort"),
		formatRow("Esc", "Clear filter"),
		"",
		section.Render("Copy & Export"),
		formatRow("y", "Copy session summary"),
		formatRow("Y", "Copy selected match"),
		formatRow("e", "Export (text/CSV/SARIF/JSON)"),
		"",
		section.Render("Actions"),
		formatRow("Enter / o", "Open in $EDITOR"),
		formatRow("+ / -", "Expand / contract context"),
		formatRow("b", "Baseline match"),
		formatRow("i", "Ignore file"),
		formatRow("r", "Rescan"),
		"",
		section.Render("Other"),
		formatRow("?", "Toggle help"),
		formatRow("q", "Quit"),
		"",
		dimStyle.Italic(true).Render("Press any key to close"),
	}
	helpBox := popupStyle.Width(48).Padding(1, 3).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBox)
}

func (m Model) exportView() string {
	key := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Export Results"),
		"",
		fmt.Sprintf("  %s  Text  (plain report)", key.Render("1/t")),
		fmt.Sprintf("  %s  CSV   (spreadsheet)", key.Render("2/c")),
		fmt.Sprintf("  %s  SARIF (CI/CD integration)", key.Render("3/s")),
		fmt.Sprintf("  %s  JSON  (per-match detail)", key.Render("4/j")),
		"",
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true).Render(fmt.Sprintf("Exporting %d files", len(m.results))),
		"",
		dimStyle.Italic(true).Render("Esc to cancel"),
	}
	exportBox := popupStyle.Width(44).Padding(1, 3).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, exportBox)
}
