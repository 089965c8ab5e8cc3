// internal/tui/tui.go
// Package tui implements the interactive terminal report browser.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/evalview/internal/logging"
	"github.com/mwiater/evalview/internal/report"
	"github.com/mwiater/evalview/internal/report/termview"
	"github.com/mwiater/evalview/internal/results"
)

// viewState represents the current screen of the application.
type viewState int

const (
	// viewPicker lets the user choose a log file.
	viewPicker viewState = iota
	// viewLoading is shown while a file is being parsed.
	viewLoading
	// viewReport shows the rendered report in a viewport.
	viewReport
)

const (
	headerHeight = 2
	footerHeight = 2
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
	onStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(report.SuccessColor))
	offStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Options configures a terminal session.
type Options struct {
	// Path is loaded immediately when set; otherwise the file picker opens.
	Path string
	// Dir is where the file picker starts. Empty uses the working directory.
	Dir       string
	Selection results.Selection
}

type docLoadedMsg struct {
	path string
	doc  *results.Document
}

type docLoadErr struct {
	path string
	error
}

func loadDocCmd(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := results.Load(path)
		if err != nil {
			return docLoadErr{path: path, error: err}
		}
		return docLoadedMsg{path: path, doc: doc}
	}
}

// model is the Bubble Tea model for one viewing session.
type model struct {
	state      viewState
	picker     filepicker.Model
	viewport   viewport.Model
	path       string
	doc        *results.Document
	rep        report.Report
	selection  results.Selection
	showConfig bool
	cursor     int
	expanded   map[int]bool
	err        error
	width      int
	height     int
}

func initialModel(opts Options) *model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".json"}
	fp.CurrentDirectory = opts.Dir
	if fp.CurrentDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			fp.CurrentDirectory = wd
		} else {
			fp.CurrentDirectory = "."
		}
	}

	m := &model{
		state:     viewPicker,
		picker:    fp,
		viewport:  viewport.New(100, 20),
		path:      opts.Path,
		selection: opts.Selection,
		expanded:  map[int]bool{},
	}
	if opts.Path != "" {
		m.state = viewLoading
	}
	return m
}

func (m *model) Init() tea.Cmd {
	if m.path != "" {
		return loadDocCmd(m.path)
	}
	return m.picker.Init()
}

// Update handles key presses, window sizes and file loading results.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.state != viewPicker || m.err != nil {
				return m, tea.Quit
			}
		}
		if m.state == viewReport {
			if handled, cmd := m.handleReportKey(msg); handled {
				return m, cmd
			}
		}
		if m.err != nil && msg.String() == "o" {
			return m, m.openPicker()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		// The picker keeps its height even while a report is shown, so it
		// fills the screen when reopened with o.
		m.picker, _ = m.picker.Update(msg)
		if m.state == viewReport {
			m.refresh()
		}
		return m, nil

	case docLoadedMsg:
		logging.LogEvent("loaded %s (%d results)", msg.path, msg.doc.Len())
		m.path = msg.path
		m.doc = msg.doc
		m.err = nil
		m.state = viewReport
		m.cursor = 0
		m.expanded = map[int]bool{}
		m.refresh()
		m.viewport.GotoTop()
		return m, nil

	case docLoadErr:
		logging.LogEvent("failed to load %s: %v", msg.path, msg.error)
		m.err = msg.error
		m.doc = nil
		m.state = viewPicker
		return m, nil
	}

	switch m.state {
	case viewPicker:
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.state = viewLoading
			m.path = path
			m.err = nil
			return m, tea.Batch(cmd, loadDocCmd(path))
		}
		return m, cmd
	case viewReport:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleReportKey applies report-screen bindings. Keys it does not claim
// fall through to the viewport for scrolling.
func (m *model) handleReportKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "s":
		m.selection.IncludeSuccessful = !m.selection.IncludeSuccessful
		m.resetDetails()
	case "f":
		m.selection.IncludeFailed = !m.selection.IncludeFailed
		m.resetDetails()
	case "c":
		m.showConfig = !m.showConfig
	case "tab":
		if n := len(m.rep.Details); n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
	case "shift+tab":
		if n := len(m.rep.Details); n > 0 {
			m.cursor = (m.cursor - 1 + n) % n
		}
	case "enter":
		if len(m.rep.Details) > 0 {
			m.expanded[m.cursor] = !m.expanded[m.cursor]
		}
	case "o":
		return true, m.openPicker()
	default:
		return false, nil
	}
	m.refresh()
	return true, nil
}

// resetDetails clears cursor and expansion; indices refer to the filtered
// set, which just changed.
func (m *model) resetDetails() {
	logging.LogDebug("selection changed: successful=%t failed=%t",
		m.selection.IncludeSuccessful, m.selection.IncludeFailed)
	m.cursor = 0
	m.expanded = map[int]bool{}
}

func (m *model) openPicker() tea.Cmd {
	m.state = viewPicker
	m.err = nil
	if m.path != "" {
		m.picker.CurrentDirectory = filepath.Dir(m.path)
	}
	return m.picker.Init()
}

// refresh rebuilds the report from the document and current selection.
func (m *model) refresh() {
	m.rep = report.Build(m.doc, m.selection)
	if n := len(m.rep.Details); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	content, err := termview.Render(m.rep, termview.Options{
		Width:             m.viewport.Width,
		ShowConfiguration: m.showConfig,
		Expanded:          func(i int) bool { return m.expanded[i] },
		ShowCursor:        len(m.rep.Details) > 0,
		Cursor:            m.cursor,
	})
	if err != nil {
		m.err = err
		return
	}
	m.viewport.SetContent(content)
}

// View renders the current screen.
func (m *model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" +
			helpStyle.Render("o: open another file • q: quit")
	}

	switch m.state {
	case viewPicker:
		var b strings.Builder
		b.WriteString(titleStyle.Render(report.Title))
		if m.path != "" {
			b.WriteString("\n\nChoose another JSON file:\n\n")
		} else {
			b.WriteString("\n\n⚠️  No file specified. Choose a JSON file:\n\n")
		}
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter: open • ctrl+c: quit"))
		return b.String()
	case viewLoading:
		return fmt.Sprintf("\n  Loading %s...\n", m.path)
	case viewReport:
		header := titleStyle.Render(report.Title) + "  " + helpStyle.Render(filepath.Base(m.path)) + "  " +
			toggle("successful", m.selection.IncludeSuccessful) + " " + toggle("failed", m.selection.IncludeFailed)
		help := helpStyle.Render("s/f: filters • tab/enter: details • c: config • j/k: scroll • o: open • q: quit")
		return header + "\n\n" + m.viewport.View() + "\n" + help
	default:
		return "Unknown state"
	}
}

func toggle(name string, on bool) string {
	if on {
		return onStyle.Render("[x] " + name)
	}
	return offStyle.Render("[ ] " + name)
}

// Run starts the terminal UI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(initialModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
