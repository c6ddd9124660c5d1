package form

import (
	"github.com/charmbracelet/huh"

	"github.com/sadopc/worklog/internal/field"
	"github.com/sadopc/worklog/internal/task"
)

// Binding holds the value pointers that tie huh controls to a session's
// bag. Pointers survive the value copies Bubble Tea makes of its models.
type Binding struct {
	session *Session
	strs    map[string]*string
	bools   map[string]*bool
}

// Bind prepares value holders for every definition in the session,
// seeded from the current bag.
func Bind(s *Session) *Binding {
	b := &Binding{
		session: s,
		strs:    make(map[string]*string),
		bools:   make(map[string]*bool),
	}
	for _, d := range s.Definitions() {
		if field.SpecFor(d.Type).Widget == field.WidgetCheckbox {
			v, _ := s.Value(d.ID).(bool)
			b.bools[d.ID] = &v
			continue
		}
		v := task.BagString(s.Value(d.ID))
		b.strs[d.ID] = &v
	}
	return b
}

// Form renders the bound session as a single-group huh form. Types outside
// the registry fall back to the plain input widget.
func (b *Binding) Form() *huh.Form {
	var controls []huh.Field
	for _, d := range b.session.Definitions() {
		controls = append(controls, b.control(d))
	}
	return huh.NewForm(huh.NewGroup(controls...)).
		WithShowHelp(true).
		WithShowErrors(true)
}

func (b *Binding) control(d field.Definition) huh.Field {
	spec := field.SpecFor(d.Type)
	title := d.Name
	if d.Required {
		title += " *"
	}

	switch spec.Widget {
	case field.WidgetCheckbox:
		return huh.NewConfirm().Title(title).Value(b.bools[d.ID])
	case field.WidgetSelect:
		opts := make([]huh.Option[string], len(d.Options))
		for i, o := range d.Options {
			opts[i] = huh.NewOption(o, o)
		}
		return huh.NewSelect[string]().Title(title).Options(opts...).Value(b.strs[d.ID])
	case field.WidgetTextarea:
		return huh.NewText().Title(title).Value(b.strs[d.ID])
	default:
		return huh.NewInput().Title(title).Placeholder(spec.Placeholder).Value(b.strs[d.ID])
	}
}

// Flush copies the holder values back into the session bag, one key per
// field.
func (b *Binding) Flush() {
	for _, d := range b.session.Definitions() {
		if bv, ok := b.bools[d.ID]; ok {
			b.session.Set(d.ID, *bv)
			continue
		}
		if sv, ok := b.strs[d.ID]; ok {
			b.session.Set(d.ID, *sv)
		}
	}
}
