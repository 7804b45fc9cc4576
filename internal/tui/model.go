// Package tui is the terminal host for the formula editor Session: it maps
// keys to session edits, renders validation state, signature help, and the
// suggestion panel, and drives the asynchronous apply call.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gridleaf-labs/cellform/internal/editor"
	"github.com/gridleaf-labs/cellform/pkg/formula"
)

// keyMap defines the editor key bindings.
type keyMap struct {
	Submit   key.Binding
	Cancel   key.Binding
	Tab      key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Undo     key.Binding
	Redo     key.Binding
	Quit     key.Binding
	LoadNext key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply/insert")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss/clear")),
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "prev suggestion")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next suggestion")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "cursor left")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "cursor right")),
		Undo:     key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Redo:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		LoadNext: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "cycle examples")),
	}
}

// applyResultMsg carries the outcome of the asynchronous apply call.
type applyResultMsg struct{ err error }

// cursorMsg is the deferred cursor reposition after a programmatic text
// change. seq guards against a stale reposition: only the latest pending
// one may land.
type cursorMsg struct {
	pos int
	seq int
}

type styleSet struct {
	prompt    lipgloss.Style
	cursor    lipgloss.Style
	valid     lipgloss.Style
	warning   lipgloss.Style
	errMsg    lipgloss.Style
	signature lipgloss.Style
	activeArg lipgloss.Style
	selected  lipgloss.Style
	item      lipgloss.Style
	muted     lipgloss.Style
}

func newStyleSet() styleSet {
	return styleSet{
		prompt:    lipgloss.NewStyle().Bold(true),
		cursor:    lipgloss.NewStyle().Reverse(true),
		valid:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		errMsg:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		signature: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		activeArg: lipgloss.NewStyle().Bold(true).Underline(true),
		selected:  lipgloss.NewStyle().Reverse(true),
		item:      lipgloss.NewStyle().PaddingLeft(2),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Model is the bubbletea model wrapping an editor session.
type Model struct {
	session *editor.Session
	applier editor.Applier
	keys    keyMap
	styles  styleSet

	exampleIdx int

	// Single-slot deferred cursor reposition: each schedule replaces the
	// previous pending one.
	cursorSeq int

	width    int
	quitting bool
	status   string
}

// New creates a TUI model around a session and the applier it submits to.
func New(session *editor.Session, applier editor.Applier) Model {
	return Model{
		session: session,
		applier: applier,
		keys:    defaultKeyMap(),
		styles:  newStyleSet(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// scheduleCursor schedules the deferred reposition, superseding any pending
// one.
func (m *Model) scheduleCursor(pos int) tea.Cmd {
	m.cursorSeq++
	seq := m.cursorSeq
	return func() tea.Msg {
		return cursorMsg{pos: pos, seq: seq}
	}
}

func (m *Model) applyCmd() tea.Cmd {
	expr := m.session.Text()
	target := m.session.Target()
	applier := m.applier
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		return applyResultMsg{err: applier.Apply(ctx, expr, target)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case cursorMsg:
		if msg.seq == m.cursorSeq {
			m.session.SetCursor(msg.pos)
		}
		return m, nil

	case applyResultMsg:
		result := m.session.FinishApply(msg.err)
		if msg.err != nil {
			m.status = result.Error
		} else {
			m.status = fmt.Sprintf("applied to %s", m.session.Target())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		if m.session.AcceptSelection() {
			return m, m.scheduleCursor(m.session.Cursor())
		}
		if result, ok := m.session.BeginApply(); ok {
			m.status = "applying..."
			return m, m.applyCmd()
		} else if !result.IsValid {
			m.status = result.Error
		}
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.session.AcceptSelection() || m.session.TabComplete() {
			return m, m.scheduleCursor(m.session.Cursor())
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.session.Escape()
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.session.MoveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.session.MoveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.session.SetCursor(m.session.Cursor() - 1)
		return m, nil

	case key.Matches(msg, m.keys.Right):
		m.session.SetCursor(m.session.Cursor() + 1)
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		m.session.Undo()
		return m, nil

	case key.Matches(msg, m.keys.Redo):
		m.session.Redo()
		return m, nil

	case key.Matches(msg, m.keys.LoadNext):
		defs := formula.DefaultCatalog().Definitions()
		for range defs {
			def := &defs[m.exampleIdx%len(defs)]
			m.exampleIdx++
			if formula.CanonicalName(def.Syntax) != "" {
				m.session.LoadExample(def)
				return m, m.scheduleCursor(m.session.Cursor())
			}
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyBackspace:
		m.session.Backspace()
	case tea.KeyRunes, tea.KeySpace:
		text := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			text = " "
		}
		m.session.InsertText(text)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.prompt.Render(m.session.Target()+" = ") + m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if sig := m.session.Signature(); sig != nil {
		b.WriteString(m.renderSignature(sig))
		b.WriteString("\n")
	}

	if m.session.PanelOpen() {
		b.WriteString(m.renderSuggestions())
	}

	if def := m.session.Matched(); def != nil {
		b.WriteString(m.styles.muted.Render("formula: " + def.Name))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.muted.Render("enter apply · tab complete · ctrl+e examples · ctrl+z undo · ctrl+c quit"))
	b.WriteString("\n")
	return b.String()
}

// renderInput draws the text with a block cursor.
func (m Model) renderInput() string {
	text := m.session.Text()
	cur := m.session.Cursor()
	if cur >= len(text) {
		return text + m.styles.cursor.Render(" ")
	}
	return text[:cur] + m.styles.cursor.Render(string(text[cur])) + text[cur+1:]
}

func (m Model) renderStatus() string {
	if m.session.Applying() {
		return m.styles.warning.Render("⟳ " + m.status)
	}
	result := m.session.Result()
	switch {
	case m.status != "" && result.Clean():
		return m.styles.muted.Render(m.status)
	case result.Clean():
		return m.styles.valid.Render("✓")
	case result.IsValid:
		return m.styles.warning.Render("⚠ " + result.Error)
	default:
		return m.styles.errMsg.Render("✗ " + result.Error)
	}
}

// renderSignature draws the signature line with the active argument
// highlighted.
func (m Model) renderSignature(sig *formula.ActiveFunctionContext) string {
	parts := make([]string, len(sig.Arguments))
	for i, arg := range sig.Arguments {
		label := arg.Name
		if arg.Optional {
			label = "[" + label + "]"
		}
		if i == sig.ArgIndex {
			label = m.styles.activeArg.Render(label)
		}
		parts[i] = label
	}
	return m.styles.signature.Render(sig.FunctionName+"(") + strings.Join(parts, ", ") + m.styles.signature.Render(")")
}

func (m Model) renderSuggestions() string {
	var b strings.Builder
	for i, item := range m.session.Suggestions() {
		line := item.Label
		if item.Detail != "" {
			line += "  " + item.Detail
		}
		if i == m.session.Selection() {
			b.WriteString(m.styles.item.Render(m.styles.selected.Render(line)))
		} else {
			b.WriteString(m.styles.item.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Run starts the TUI and blocks until it exits.
func Run(session *editor.Session, applier editor.Applier) error {
	_, err := tea.NewProgram(New(session, applier)).Run()
	return err
}
