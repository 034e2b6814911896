// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/task"
)

// RunTUI starts the TUI over an already-constructed session. The initial
// load runs as the first command so the list screen can show a loading
// state.
func RunTUI(ctx context.Context, sess *session.Session) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newModel(sess)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// screen selects which of the two screens is active.
type screen int

const (
	screenList screen = iota
	screenForm
)

// confirmKind is the pending destructive action awaiting a yes/no.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmClear
)

type confirmState struct {
	kind   confirmKind
	taskID string
	title  string
}

type model struct {
	sess    *session.Session
	screen  screen
	cursor  int
	form    formState
	confirm confirmState
	loaded  bool
	opErr   error
	width   int
}

type loadedMsg struct{}

func newModel(sess *session.Session) *model {
	return &model{sess: sess}
}

func (m *model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m *model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		// The session retains a load failure in Err for the view.
		_ = m.sess.Load()
		return loadedMsg{}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case loadedMsg:
		m.loaded = true
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		if m.screen == screenForm {
			return m.updateForm(msg)
		}
		if m.confirm.kind != confirmNone {
			return m.updateConfirm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.sess.Tasks()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case "r":
		return m, m.loadCmd()
	case "a":
		m.openForm(nil)
	case "enter", "e":
		if t := m.selected(tasks); t != nil {
			m.openForm(t)
		}
	case " ", "space", "x":
		if t := m.selected(tasks); t != nil {
			done := !t.Done
			_, err := m.sess.UpdateTask(t.ID, task.Patch{Done: &done})
			m.opErr = err
		}
	case "d":
		if t := m.selected(tasks); t != nil {
			m.confirm = confirmState{kind: confirmDelete, taskID: t.ID, title: t.Title}
		}
	case "C":
		if len(tasks) > 0 {
			m.confirm = confirmState{kind: confirmClear}
		}
	}
	return m, nil
}

func (m *model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		switch m.confirm.kind {
		case confirmDelete:
			m.opErr = m.sess.RemoveTask(m.confirm.taskID)
		case confirmClear:
			m.opErr = m.sess.Clear()
		}
		m.confirm = confirmState{}
		m.clampCursor()
	case "n", "N", "esc", "q":
		m.confirm = confirmState{}
	}
	return m, nil
}

func (m *model) selected(tasks []task.Task) *task.Task {
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return nil
	}
	t := tasks[m.cursor]
	return &t
}

func (m *model) clampCursor() {
	n := len(m.sess.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.screen == screenForm {
		m.writeForm(&b)
		return b.String()
	}

	if err := m.sess.Err(); err != nil {
		b.WriteString(errStyle.Render("Error loading tasks:") + "\n")
		b.WriteString("  " + err.Error() + "\n\n")
		b.WriteString(footerStyle.Render("r retry | q quit") + "\n")
		return b.String()
	}
	if !m.loaded {
		b.WriteString("Loading...\n")
		return b.String()
	}

	m.writeList(&b)

	if m.confirm.kind != confirmNone {
		m.writeConfirm(&b)
	} else {
		writeListFooter(&b)
	}
	return b.String()
}

func (m *model) writeList(b *strings.Builder) {
	tasks := m.sess.Tasks()
	if len(tasks) == 0 {
		b.WriteString(dimStyle.Render("No tasks yet. Press a to add one.") + "\n\n")
	}
	for i, t := range tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		title := t.Title
		if t.Done {
			check = "[x]"
			title = doneStyle.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, check, title))
		if t.Description != "" && i == m.cursor {
			b.WriteString(dimStyle.Render("      "+t.Description) + "\n")
		}
	}
	b.WriteString("\n")

	stats := m.sess.Stats()
	b.WriteString(statsStyle.Render(fmt.Sprintf("%d total · %d done · %d pending",
		stats.Total, stats.Done, stats.Pending)) + "\n")

	if m.opErr != nil {
		b.WriteString(errStyle.Render("Last operation failed: "+m.opErr.Error()) + "\n")
	}
	b.WriteString("\n")
}

func (m *model) writeConfirm(b *strings.Builder) {
	switch m.confirm.kind {
	case confirmDelete:
		b.WriteString(errStyle.Render(fmt.Sprintf("Delete %q? (y/n)", m.confirm.title)) + "\n")
	case confirmClear:
		b.WriteString(errStyle.Render("Delete ALL tasks? This cannot be undone. (y/n)") + "\n")
	}
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("taskdeck") + "\n\n")
}

func writeListFooter(b *strings.Builder) {
	b.WriteString(footerStyle.Render(
		"a add | enter edit | space toggle | d delete | C clear all | r reload | q quit") + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
