package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/logpage/internal/config"
	"github.com/TimelordUK/logpage/internal/logerr"
	"github.com/TimelordUK/logpage/internal/pager"
	"github.com/TimelordUK/logpage/internal/render"
	"github.com/TimelordUK/logpage/internal/view"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeGoto
)

// rows reserved below the page for status and help
const chromeRows = 2

// Model pages through one log file using the pager
type Model struct {
	reader *pager.Reader
	fileID string
	path   string
	cfg    *config.Config

	page   *view.PageView
	input  textinput.Model
	mode   Mode
	width  int
	height int

	pageSize   int
	pageNumber int
	current    *pager.Page

	// Search state
	query  string
	result *pager.SearchResult

	status string
	err    error
}

// NewModel creates a viewer for fileID and loads its first page
func NewModel(reader *pager.Reader, fileID, path string, cfg *config.Config) (*Model, error) {
	ti := textinput.New()
	ti.CharLimit = 256

	pv := view.NewPageView(80, 24-chromeRows)
	pv.SetShowLineNumbers(cfg.Display.ShowLineNumbers)
	pv.SetLineNumberStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.LineNumbers)))
	pv.SetMarkStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.SearchMatch)).Bold(true))

	m := &Model{
		reader:     reader,
		fileID:     fileID,
		path:       path,
		cfg:        cfg,
		page:       pv,
		input:      ti,
		mode:       ModeNormal,
		width:      80,
		height:     24,
		pageSize:   24 - chromeRows,
		pageNumber: 1,
	}
	m.applyRenderer()

	if err := m.loadPage(1); err != nil {
		return nil, err
	}
	return m, nil
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}

	return m, nil
}

// resize keeps the first visible line on screen while the page size changes
func (m *Model) resize(width, height int) {
	firstLine := 0
	if m.current != nil {
		firstLine = m.current.Offset
	}

	m.width = width
	m.height = height
	m.pageSize = max(1, height-chromeRows)
	m.page.SetSize(width, m.pageSize)
	m.result = nil
	m.page.SetMarked(nil)

	m.setErr(m.loadPage(firstLine/m.pageSize + 1))
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeGoto:
		return m.handleGotoKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "n", "f", "pgdown", " ":
		m.gotoPage(m.pageNumber + 1)
	case "p", "b", "pgup":
		m.gotoPage(m.pageNumber - 1)

	case "g", "home":
		m.gotoPage(1)
	case "G", "end":
		m.gotoPage(m.totalPages())

	case "/":
		m.mode = ModeSearch
		m.input.Placeholder = "Search..."
		m.input.SetValue("")
		return m, m.input.Focus()

	case ":":
		m.mode = ModeGoto
		m.input.Placeholder = "Page number..."
		m.input.SetValue("")
		return m, m.input.Focus()

	case "ctrl+n", "N":
		m.nextMatch()

	case "esc":
		m.clearSearch()
	}

	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = ModeNormal
		m.input.Blur()
		m.search(m.input.Value())
		return m, nil

	case "esc":
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleGotoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = ModeNormal
		m.input.Blur()
		n, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err != nil {
			m.setErr(fmt.Errorf("%w: not a page number: %q", logerr.ErrInvalidArgument, m.input.Value()))
			return m, nil
		}
		m.gotoPage(n)
		return m, nil

	case "esc":
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) totalPages() int {
	if m.current == nil || m.current.TotalPages < 1 {
		return 1
	}
	return m.current.TotalPages
}

// gotoPage loads page n, clamped to the file
func (m *Model) gotoPage(n int) {
	n = min(max(n, 1), m.totalPages())
	if m.current != nil && n == m.pageNumber {
		return
	}
	m.setErr(m.loadPage(n))
}

func (m *Model) loadPage(n int) error {
	p, err := m.reader.Page(m.fileID, pager.WithPageNumber(n), pager.WithLimit(m.pageSize))
	if err != nil {
		return err
	}
	m.current = p
	m.pageNumber = n
	m.syncMarks()
	return nil
}

// search jumps to the first page containing query
func (m *Model) search(query string) {
	if query == "" {
		m.clearSearch()
		return
	}

	m.query = query
	m.applyRenderer()

	res, err := m.reader.SearchFirst(m.fileID, query, m.pageSize)
	if err != nil {
		m.result = nil
		m.syncMarks()
		m.setErr(err)
		return
	}
	m.showResult(res)
}

// nextMatch moves to the next page after the current one with a match
func (m *Model) nextMatch() {
	if m.query == "" {
		return
	}

	res, err := m.reader.SearchFromPage(m.fileID, m.query, m.pageNumber+1, m.pageSize)
	if err != nil {
		if errors.Is(err, logerr.ErrNoMatch) || errors.Is(err, logerr.ErrOutOfRange) {
			m.err = nil
			m.status = fmt.Sprintf("no more matches for %q", m.query)
			return
		}
		m.setErr(err)
		return
	}
	m.showResult(res)
}

func (m *Model) showResult(res *pager.SearchResult) {
	m.result = res
	m.current = res.Page
	m.pageNumber = res.MatchedPageNumber
	m.syncMarks()
	m.err = nil
	m.status = fmt.Sprintf("%d match(es) on page %d", len(res.Occurrences), res.MatchedPageNumber)
}

func (m *Model) clearSearch() {
	m.query = ""
	m.result = nil
	m.status = ""
	m.err = nil
	m.applyRenderer()
	m.syncMarks()
}

// syncMarks marks occurrences when the shown page is the matched page
func (m *Model) syncMarks() {
	if m.result != nil && m.result.MatchedPageNumber == m.pageNumber {
		m.page.SetMarked(m.result.Occurrences)
		return
	}
	m.page.SetMarked(nil)
}

func (m *Model) applyRenderer() {
	var base render.Renderer = render.NewLogLevelRenderer(m.cfg)
	if m.cfg.Display.SyntaxHighlight {
		if sr := render.NewSyntaxRenderer(m.path); sr != nil {
			base = sr
		}
	}
	match := lipgloss.NewStyle().
		Background(lipgloss.Color(m.cfg.Theme.SearchMatch)).
		Foreground(lipgloss.Color("0"))
	m.page.SetRenderer(render.NewMatchHighlighter(base, m.query, match))
}

func (m *Model) setErr(err error) {
	m.err = err
	if err != nil {
		m.status = ""
	}
}

// View implements tea.Model
func (m *Model) View() string {
	var builder strings.Builder

	builder.WriteString(m.page.Render(m.current))
	builder.WriteString("\n")

	statusStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(m.cfg.Theme.StatusBar)).
		Foreground(lipgloss.Color(m.cfg.Theme.StatusBarText)).
		Width(m.width)

	builder.WriteString(statusStyle.Render(m.statusLine()))
	builder.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.cfg.Theme.LineNumbers))
	help := "n/p:page  g/G:first/last  ::goto  /:search  N:next match  esc:clear  q:quit"
	builder.WriteString(helpStyle.Render(help))

	return builder.String()
}

func (m *Model) statusLine() string {
	switch m.mode {
	case ModeSearch:
		return "/" + m.input.View()
	case ModeGoto:
		return ":" + m.input.View()
	}

	line := fmt.Sprintf(" %s (%s)  page %d/%d", m.fileID, filepath.Base(m.path), m.pageNumber, m.totalPages())
	if m.current != nil {
		line += fmt.Sprintf("  %d lines", m.current.TotalLines)
	}
	switch {
	case m.err != nil:
		line += "  error: " + m.err.Error()
	case m.status != "":
		line += "  " + m.status
	}
	return line
}

// PageNumber returns the page currently shown
func (m *Model) PageNumber() int {
	return m.pageNumber
}

// CurrentPage returns the page currently shown
func (m *Model) CurrentPage() *pager.Page {
	return m.current
}

// Err returns the last error shown in the status bar
func (m *Model) Err() error {
	return m.err
}
