package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/task"
)

// formState backs the create/edit screen. A nil editing pointer means the
// form creates a new task; otherwise it edits the carried task.
type formState struct {
	editing *task.Task
	title   textinput.Model
	desc    textinput.Model
	done    bool
	focus   int
}

const (
	focusTitle = iota
	focusDesc
	focusCount
)

func (m *model) openForm(editing *task.Task) {
	title := textinput.New()
	title.Placeholder = "What needs doing?"
	title.CharLimit = 200
	title.Width = 48
	title.Focus()

	desc := textinput.New()
	desc.Placeholder = "Details (optional)"
	desc.CharLimit = 500
	desc.Width = 48

	form := formState{editing: editing, title: title, desc: desc}
	if editing != nil {
		form.title.SetValue(editing.Title)
		form.desc.SetValue(editing.Description)
		form.done = editing.Done
	}

	m.form = form
	m.opErr = nil
	m.screen = screenForm
}

func (m *model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.screen = screenList
		return m, nil
	case "tab", "down":
		m.setFocus((m.form.focus + 1) % focusCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.form.focus + focusCount - 1) % focusCount)
		return m, nil
	case "ctrl+x":
		m.form.done = !m.form.done
		return m, nil
	case "enter":
		return m, m.submitForm()
	}

	var cmd tea.Cmd
	switch m.form.focus {
	case focusTitle:
		m.form.title, cmd = m.form.title.Update(msg)
	case focusDesc:
		m.form.desc, cmd = m.form.desc.Update(msg)
	}
	return m, cmd
}

func (m *model) setFocus(focus int) {
	m.form.focus = focus
	m.form.title.Blur()
	m.form.desc.Blur()
	switch focus {
	case focusTitle:
		m.form.title.Focus()
	case focusDesc:
		m.form.desc.Focus()
	}
}

// submitForm persists the form. Submission with an empty title is
// disabled here at the presentation boundary; the core would accept it.
func (m *model) submitForm() tea.Cmd {
	title := strings.TrimSpace(m.form.title.Value())
	if title == "" {
		return nil
	}
	desc := strings.TrimSpace(m.form.desc.Value())

	if m.form.editing == nil {
		_, err := m.sess.CreateTask(task.CreateInput{
			Title:       title,
			Description: desc,
			Done:        m.form.done,
		})
		m.opErr = err
	} else {
		done := m.form.done
		_, err := m.sess.UpdateTask(m.form.editing.ID, task.Patch{
			Title:       &title,
			Description: &desc,
			Done:        &done,
		})
		m.opErr = err
	}

	if m.opErr == nil {
		m.screen = screenList
		m.cursor = 0
		m.clampCursor()
	}
	return nil
}

func (m *model) writeForm(b *strings.Builder) {
	if m.form.editing == nil {
		b.WriteString(headingStyle.Render("New task") + "\n\n")
	} else {
		b.WriteString(headingStyle.Render("Edit task") + "\n\n")
	}

	b.WriteString("  Title\n")
	b.WriteString("  " + m.form.title.View() + "\n\n")
	b.WriteString("  Description\n")
	b.WriteString("  " + m.form.desc.View() + "\n\n")

	check := "[ ]"
	if m.form.done {
		check = "[x]"
	}
	b.WriteString("  " + check + " done (ctrl+x to toggle)\n\n")

	if strings.TrimSpace(m.form.title.Value()) == "" {
		b.WriteString(dimStyle.Render("  Title is required.") + "\n\n")
	}
	if m.opErr != nil {
		b.WriteString(errStyle.Render("  Save failed: "+m.opErr.Error()) + "\n\n")
	}

	b.WriteString(footerStyle.Render("enter save | tab next field | esc cancel") + "\n")
}
