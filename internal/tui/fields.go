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
)

// fieldsModel manages the form customization: the ordered field
// definition set behind the Record form.
type fieldsModel struct {
	store  *field.Store
	width  int
	height int

	defs   []field.Definition
	cursor int

	formActive bool
	form       *huh.Form
	editingID  string // empty while adding

	// Form field pointers (survive value copies)
	fName     *string
	fType     *string
	fOptions  *string
	fRequired *bool
}

func newFieldsModel(s *field.Store) fieldsModel {
	name, ftype, opts := "", string(field.TypeText), ""
	required := false
	return fieldsModel{
		store:     s,
		fName:     &name,
		fType:     &ftype,
		fOptions:  &opts,
		fRequired: &required,
	}
}

func (m *fieldsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m fieldsModel) refresh() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return fieldsDataMsg{defs: store.List()}
	}
}

func (m fieldsModel) update(msg tea.Msg) (fieldsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case fieldsDataMsg:
		m.defs = msg.defs
		if m.cursor >= len(m.defs) {
			m.cursor = max(0, len(m.defs)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.defs)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showForm(nil)
		case key.Matches(msg, keys.Edit):
			if len(m.defs) > 0 {
				def := m.defs[m.cursor]
				return m.showForm(&def)
			}
		case key.Matches(msg, keys.Delete):
			if len(m.defs) > 0 {
				return m, m.deleteSelected()
			}
		case key.Matches(msg, keys.MoveUp):
			return m.move(field.MoveUp)
		case key.Matches(msg, keys.MoveDown):
			return m.move(field.MoveDown)
		}
	}
	return m, nil
}

// showForm opens the definition form, prefilled when editing.
func (m fieldsModel) showForm(def *field.Definition) (fieldsModel, tea.Cmd) {
	if def == nil {
		*m.fName = ""
		*m.fType = string(field.TypeText)
		*m.fOptions = ""
		*m.fRequired = false
		m.editingID = ""
	} else {
		*m.fName = def.Name
		*m.fType = string(def.Type)
		*m.fOptions = field.JoinOptions(def.Options)
		*m.fRequired = def.Required
		m.editingID = def.ID
	}

	types := field.Types()
	typeOptions := make([]huh.Option[string], len(types))
	for i, t := range types {
		typeOptions[i] = huh.NewOption(field.SpecFor(t).Label, string(t))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Field Name").Value(m.fName),
			huh.NewSelect[string]().Title("Field Type").Options(typeOptions...).Value(m.fType),
			huh.NewInput().Title("Options (comma-separated)").
				Description("Used by dropdown and radio fields").Value(m.fOptions),
			huh.NewConfirm().Title("Required").Value(m.fRequired),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m fieldsModel) updateForm(msg tea.Msg) (fieldsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	f, cmd := m.form.Update(msg)
	if hf, ok := f.(*huh.Form); ok {
		m.form = hf
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, m.saveForm()
	}
	return m, cmd
}

func (m fieldsModel) saveForm() tea.Cmd {
	draft := field.Draft{
		Name:     *m.fName,
		Type:     field.Type(*m.fType),
		Required: *m.fRequired,
		Options:  *m.fOptions,
	}

	var err error
	text := "Field added"
	if m.editingID == "" {
		_, err = m.store.Add(draft)
	} else {
		_, err = m.store.Update(m.editingID, draft)
		text = "Field updated"
	}
	return m.afterMutation(err, text)
}

func (m fieldsModel) deleteSelected() tea.Cmd {
	def := m.defs[m.cursor]
	err := m.store.Remove(def.ID)
	if errors.Is(err, field.ErrProtectedField) {
		return status("Default fields cannot be deleted", true)
	}
	return m.afterMutation(err, "Field deleted")
}

func (m fieldsModel) move(dir field.Direction) (fieldsModel, tea.Cmd) {
	if len(m.defs) == 0 {
		return m, nil
	}
	def := m.defs[m.cursor]
	err := m.store.Move(def.ID, dir)
	// Follow the moved row.
	if err == nil || isPersistence(err) {
		if dir == field.MoveUp && m.cursor > 0 {
			m.cursor--
		}
		if dir == field.MoveDown && m.cursor < len(m.defs)-1 {
			m.cursor++
		}
	}
	return m, m.afterMutation(err, "")
}

// afterMutation maps a store result to a status plus refresh. A
// persistence failure still refreshes: the in-memory set has moved on.
func (m fieldsModel) afterMutation(err error, text string) tea.Cmd {
	switch {
	case err == nil:
		if text == "" {
			return m.refresh()
		}
		return tea.Batch(m.refresh(), status(text, false))
	case isPersistence(err):
		return tea.Batch(m.refresh(), status("Saved locally, write failed: "+err.Error(), true))
	default:
		return status(err.Error(), true)
	}
}

func isPersistence(err error) bool {
	var perr *field.PersistenceError
	return errors.As(err, &perr)
}

func (m fieldsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Field")
		if m.editingID != "" {
			title = titleStyle.Render("Edit Field")
		}
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Form Customization")

	if len(m.defs) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No fields defined. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-26s %-18s %-9s %s", "Name", "Type", "Required", "Options"))
	rows = append(rows, header)

	for i, def := range m.defs {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		name := truncate(def.Name, 24)
		if field.IsDefault(def.ID) {
			name += " •"
		}
		required := ""
		if def.Required {
			required = "yes"
		}
		opts := truncate(field.JoinOptions(def.Options), 30)
		rows = append(rows, style.Render(fmt.Sprintf("%s%-26s %-18s %-9s",
			cursor, name, field.SpecFor(def.Type).Label, required,
		))+" "+mutedStyle.Render(opts))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  K/J: move  •: built-in"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
