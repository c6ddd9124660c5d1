package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/worklog/internal/field"
	"github.com/sadopc/worklog/internal/form"
	"github.com/sadopc/worklog/internal/task"
)

// tasksModel lists logged records and hosts the edit flow.
type tasksModel struct {
	fields *field.Store
	tasks  task.Repository
	width  int
	height int

	records []task.Record
	cursor  int

	formActive bool
	session    *form.Session
	binding    *form.Binding
	huhForm    *huh.Form
}

func newTasksModel(fields *field.Store, tasks task.Repository) tasksModel {
	return tasksModel{fields: fields, tasks: tasks}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) refresh() tea.Cmd {
	tasks := m.tasks
	return func() tea.Msg {
		records, err := tasks.ListRecords()
		if err != nil {
			return statusMsg{text: "Load failed: " + err.Error(), isError: true}
		}
		return recordsDataMsg{records: records}
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.huhForm != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case recordsDataMsg:
		m.records = msg.records
		if m.cursor >= len(m.records) {
			m.cursor = max(0, len(m.records)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.records)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Edit):
			if len(m.records) > 0 {
				return m.showEditForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(m.records) > 0 {
				return m, m.deleteSelected()
			}
		}
	}
	return m, nil
}

func (m tasksModel) showEditForm() (tasksModel, tea.Cmd) {
	rec := m.records[m.cursor]
	m.session = form.EditSession(m.fields.List(), rec)
	m.binding = form.Bind(m.session)
	m.huhForm = m.binding.Form()
	m.formActive = true
	return m, m.huhForm.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
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
		return m.submitEdit()
	}
	return m, cmd
}

func (m tasksModel) submitEdit() (tasksModel, tea.Cmd) {
	m.binding.Flush()
	rec, err := m.session.Submit()

	var verr *form.ValidationError
	if errors.As(err, &verr) {
		m.huhForm = m.binding.Form()
		return m, tea.Batch(m.huhForm.Init(), status(verr.Message, true))
	}

	m.formActive = false
	m.huhForm = nil

	if err := m.tasks.UpdateRecord(rec); err != nil {
		return m, status("Update failed: "+err.Error(), true)
	}
	return m, tea.Batch(m.refresh(), status("Task updated", false))
}

func (m tasksModel) deleteSelected() tea.Cmd {
	rec := m.records[m.cursor]
	if err := m.tasks.DeleteRecord(rec.ID); err != nil {
		return status("Delete failed: "+err.Error(), true)
	}
	return tea.Batch(m.refresh(), status("Task deleted", false))
}

// status wraps a notification into a command.
func status(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.huhForm != nil {
		title := titleStyle.Render("Edit Task")
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.huhForm.View()),
		)
	}

	title := titleStyle.Render("Tasks")

	if len(m.records) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks logged yet. Record one from the Record view."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-12s %-18s %-24s %-16s %8s", "Date", "Project", "Task", "Type", "Hours"))
	rows = append(rows, header)

	for i, rec := range m.records {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-12s %-18s %-24s %-16s %8s",
			cursor, rec.Date, truncate(rec.Project, 18), truncate(rec.TaskName, 24),
			truncate(rec.TaskType, 16), formatHours(rec.TimeSpent),
		)))
	}

	// Notes and custom values of the selected record.
	if detail := m.renderDetail(); detail != "" {
		rows = append(rows, "", detail)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  e: edit  d: delete  x: export"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m tasksModel) renderDetail() string {
	rec := m.records[m.cursor]
	var parts []string
	if rec.Notes != "" {
		parts = append(parts, mutedStyle.Render("  Notes: ")+truncate(rec.Notes, m.width-16))
	}
	for _, d := range m.fields.List() {
		if field.IsDefault(d.ID) {
			continue
		}
		v, ok := rec.CustomFields[d.ID]
		if !ok {
			continue
		}
		s := task.BagString(v)
		if s == "" {
			continue
		}
		parts = append(parts, mutedStyle.Render("  "+d.Name+": ")+truncate(s, 40))
	}
	return strings.Join(parts, "\n")
}
