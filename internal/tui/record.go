package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/worklog/internal/field"
	"github.com/sadopc/worklog/internal/form"
	"github.com/sadopc/worklog/internal/task"
)

// recordModel is the create flow: a dynamic form generated from the
// current field definitions.
type recordModel struct {
	fields *field.Store
	tasks  task.Repository
	width  int
	height int

	formActive bool
	session    *form.Session
	binding    *form.Binding
	huhForm    *huh.Form
}

func newRecordModel(fields *field.Store, tasks task.Repository) recordModel {
	return recordModel{fields: fields, tasks: tasks}
}

func (m *recordModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// start opens a fresh editing session over the current definition set.
func (m *recordModel) start() tea.Cmd {
	m.session = form.NewSession(m.fields.List())
	m.binding = form.Bind(m.session)
	m.huhForm = m.binding.Form()
	m.formActive = true
	return m.huhForm.Init()
}

func (m recordModel) update(msg tea.Msg) (recordModel, tea.Cmd) {
	if m.formActive && m.huhForm != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "n":
			cmd := m.start()
			return m, cmd
		}
	}
	return m, nil
}

func (m recordModel) updateForm(msg tea.Msg) (recordModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.session.Cancel()
			m.formActive = false
			m.huhForm = nil
			return m, nil
		}
	}

	f, cmd := m.huhForm.Update(msg)
	if hf, ok := f.(*huh.Form); ok {
		m.huhForm = hf
	}

	if m.huhForm.State == huh.StateCompleted {
		return m.submit()
	}
	return m, cmd
}

func (m recordModel) submit() (recordModel, tea.Cmd) {
	m.binding.Flush()
	rec, err := m.session.Submit()

	var verr *form.ValidationError
	if errors.As(err, &verr) {
		// Stay in the session; the holders keep what was typed.
		m.huhForm = m.binding.Form()
		return m, tea.Batch(m.huhForm.Init(), status(verr.Message, true))
	}

	// Fresh bag for the next entry.
	m.session.Reset()
	m.binding = form.Bind(m.session)
	m.huhForm = m.binding.Form()

	tasks := m.tasks
	return m, tea.Batch(m.huhForm.Init(), func() tea.Msg {
		if err := tasks.InsertRecord(rec); err != nil {
			return statusMsg{text: "Save failed: " + err.Error(), isError: true}
		}
		return recordSavedMsg{record: rec}
	})
}

func (m recordModel) view() string {
	w := m.width - 4

	if m.formActive && m.huhForm != nil {
		title := titleStyle.Render("Record Task")
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.huhForm.View()),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Record Task"),
		"",
		mutedStyle.Render("Press enter to log a unit of work."),
		"",
		mutedStyle.Render("The form follows your field setup; adjust it in the Fields view."),
	)
	return panelStyle.Width(w).Render(content)
}
