// ============================================================================
// jackc - Jack Syntax Analyzer
// ============================================================================
//
// Package:     treeviewer
// Description: Bubbletea model for browsing parse trees
// Author:      Mike Stoffels
// Created:     2025-12-11
// License:     MIT
// ============================================================================

// Package treeviewer is a full-screen viewer for the parse tree and token
// stream of one Jack source file.
package treeviewer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	"github.com/msto63/jackc/internal/analyzer/service"
	"github.com/msto63/jackc/internal/jack/parser"
	"github.com/msto63/jackc/pkg/core/version"
)

// Mode selects what the viewer shows
type Mode int

const (
	ModeTree Mode = iota
	ModeTokens
)

func (m Mode) String() string {
	if m == ModeTokens {
		return "tokens"
	}
	return "tree"
}

// Config holds viewer configuration
type Config struct {
	Path     string
	Style    parser.Style
	Annotate bool
	Service  *service.Service
}

// Model is the Bubbletea model of the tree viewer
type Model struct {
	width   int
	height  int
	ready   bool
	loading bool
	mode    Mode

	viewport viewport.Model
	spinner  spinner.Model

	cfg  Config
	data sourceLoadedMsg
}

// New creates a new viewer model
func New(cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return Model{
		cfg:     cfg,
		spinner: sp,
		loading: true,
	}
}

// Init starts loading the file
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKeyPress(msg); handled {
			return next, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, 1)
			m.ready = true
		}
		m.resize()
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case sourceLoadedMsg:
		m.loading = false
		m.data = msg
		m.resize()
		m.updateViewportContent()
		m.viewport.GotoTop()

	case reloadMsg:
		m.loading = true
		cmds = append(cmds, m.load, m.spinner.Tick)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles the viewer's own keys. Scrolling keys are left to
// the viewport.
func (m Model) handleKeyPress(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit, true
	case "t":
		if m.mode == ModeTree {
			m.mode = ModeTokens
		} else {
			m.mode = ModeTree
		}
		m.resize()
		m.updateViewportContent()
		m.viewport.GotoTop()
		return m, nil, true
	case "r":
		return m, func() tea.Msg { return reloadMsg{} }, true
	case "g", "home":
		m.viewport.GotoTop()
		return m, nil, true
	case "G", "end":
		m.viewport.GotoBottom()
		return m, nil, true
	}
	return m, nil, false
}

// Mode returns what the viewer currently shows
func (m Model) Mode() Mode {
	return m.mode
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading " + m.cfg.Path + "..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(TreePanelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	if e := m.currentErr(); e != nil {
		b.WriteString(ErrorPanelStyle.Width(m.width - 2).Render(e.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHeader() string {
	logo := LogoStyle.Render(Logo)
	file := SubHeaderStyle.Render(filepath.Base(m.cfg.Path))

	var status string
	switch {
	case m.loading:
		status = m.spinner.View() + " analyzing"
	case m.currentErr() != nil:
		status = StatusFailedStyle.Render("failed")
	default:
		status = StatusOKStyle.Render("ok")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center, logo, "   ", file, "   ", status)
	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

func (m Model) renderStatusBar() string {
	left := ModeStyle.Render(m.mode.String())
	if m.mode == ModeTree {
		left += HelpDescStyle.Render(fmt.Sprintf("  style %s", m.cfg.Style))
		if m.data.stats.Class != "" {
			left += HelpDescStyle.Render("  class " + m.data.stats.Class)
		}
		left += HelpDescStyle.Render(fmt.Sprintf("  %d tokens  %d lines", m.data.stats.Tokens, m.data.stats.Lines))
	} else {
		left += HelpDescStyle.Render(fmt.Sprintf("  %d tokens", m.data.tokenN))
	}

	right := HelpDescStyle.Render(fmt.Sprintf("%3.f%%  jackc %s", m.viewport.ScrollPercent()*100, version.Tool))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 2 {
		gap = 2
	}
	return StatusBarStyle.Width(m.width - 2).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("t", "tree/tokens"),
		RenderKeyHint("r", "reload"),
		RenderKeyHint("↑/↓", "scroll"),
		RenderKeyHint("g/G", "top/bottom"),
		RenderKeyHint("q", "quit"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// currentErr returns the error belonging to the shown document.
func (m Model) currentErr() error {
	if m.data.err != nil {
		return m.data.err
	}
	if m.mode == ModeTokens {
		return m.data.tokensErr
	}
	return m.data.treeErr
}

// resize fits the viewport between the header and the bottom bars.
func (m *Model) resize() {
	if !m.ready {
		return
	}
	// header panel 3, tree panel border 2, status bar 1, help bar 1
	reserved := 7
	if e := m.currentErr(); e != nil {
		reserved += lipgloss.Height(ErrorPanelStyle.Width(m.width - 2).Render(e.Error()))
	}
	h := m.height - reserved
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.width - 4
	m.viewport.Height = h
}

func (m *Model) updateViewportContent() {
	doc := m.data.tree
	if m.mode == ModeTokens {
		doc = m.data.tokens
	}
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	for i, l := range lines {
		lines[i] = highlightLine(l)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// highlightLine colours one line of tree output. Lines that do not look
// like tags are returned unchanged.
func highlightLine(line string) string {
	body := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(body)]
	if !strings.HasPrefix(body, "<") {
		return line
	}
	if strings.HasPrefix(body, "</") {
		return indent + NonTerminalStyle.Render(body)
	}

	end := strings.IndexByte(body, '>')
	if end < 0 {
		return line
	}
	open, rest := body[:end+1], body[end+1:]
	name := strings.TrimSuffix(strings.TrimPrefix(open, "<"), ">")
	attrs := ""
	if sp := strings.IndexByte(name, ' '); sp >= 0 {
		name, attrs = name[:sp], name[sp:]
	}
	style := tagStyle(name)

	out := indent + style.Render("<"+name)
	if attrs != "" {
		out += AttrStyle.Render(attrs)
	}
	out += style.Render(">")
	if rest == "" {
		return out
	}

	closeAt := strings.LastIndex(rest, "</")
	if closeAt < 0 {
		return out + rest
	}
	return out + lipgloss.NewStyle().Foreground(ColorText).Render(rest[:closeAt]) + style.Render(rest[closeAt:])
}

// load reads and analyzes the file. It runs outside the update loop.
func (m Model) load() tea.Msg {
	src, err := os.ReadFile(m.cfg.Path)
	if err != nil {
		return sourceLoadedMsg{err: mdwerror.Wrap(err, "cannot read source").
			WithCode(mdwerror.CodeIOError).WithDetail("path", m.cfg.Path)}
	}

	ctx := context.Background()
	var msg sourceLoadedMsg
	msg.tree, msg.stats, msg.treeErr = m.cfg.Service.AnalyzeSource(ctx, string(src), m.cfg.Style, m.cfg.Annotate)
	msg.tokens, msg.tokenN, msg.tokensErr = m.cfg.Service.Tokenize(ctx, string(src))
	return msg
}

// Run starts the tree viewer TUI
func Run(cfg Config) error {
	if cfg.Service == nil {
		return mdwerror.New("tree viewer needs an analyzer service").WithCode(mdwerror.CodeInvalidConfig)
	}
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
