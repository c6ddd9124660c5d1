// Package form turns an ordered list of field definitions into an editing
// session: a value bag, validation on submit, and a rendered huh form.
package form

import (
	"math"
	"time"

	"github.com/sadopc/worklog/internal/field"
	"github.com/sadopc/worklog/internal/task"
)

// State tracks where an editing session is in its lifecycle. A session
// exists only while a form is open, so it starts out editing; the idle
// screen before that has no session at all.
type State int

const (
	StateEditing State = iota
	StateSubmitted
	StateCancelled
)

// ValidationError is a recoverable submit failure. The message is shown to
// the user verbatim; the session stays in StateEditing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

const (
	msgMissingRequired = "Please fill all required fields"
	msgInvalidTime     = "Please enter a valid time"
	msgMissingCustom   = "Please fill all required custom fields"
)

// Session is one create or edit flow over the current definition set. Each
// session owns its bag exclusively; nothing is shared across sessions.
type Session struct {
	defs     []field.Definition
	bag      task.Bag
	existing *task.Record // nil for the create flow
	state    State
}

// NewSession starts a create flow: every field gets its registry default,
// and the built-in date field starts at today.
func NewSession(defs []field.Definition) *Session {
	s := &Session{defs: defs, state: StateEditing}
	s.defaultBag()
	return s
}

// EditSession starts an edit flow over an existing record: the fixed
// columns map onto their default-* ids and the record's custom values
// merge over the registry defaults.
func EditSession(defs []field.Definition, rec task.Record) *Session {
	s := &Session{defs: defs, existing: &rec, state: StateEditing}
	s.bag = make(task.Bag, len(defs))
	for _, d := range defs {
		s.bag[d.ID] = field.DefaultValue(d.Type)
	}
	for k, v := range task.FromRecord(rec) {
		s.bag[k] = v
	}
	return s
}

// State reports the session lifecycle state.
func (s *Session) State() State { return s.state }

// Editing reports whether the session still accepts input.
func (s *Session) Editing() bool { return s.state == StateEditing }

// IsEdit reports whether the session mutates an existing record.
func (s *Session) IsEdit() bool { return s.existing != nil }

// Definitions returns the ordered definition list the session was built
// from.
func (s *Session) Definitions() []field.Definition { return s.defs }

// Value returns the current bag value for a field id.
func (s *Session) Value(id string) any { return s.bag[id] }

// Set updates exactly one key of the value bag.
func (s *Session) Set(id string, v any) {
	s.bag[id] = v
}

// Bag returns a copy of the value bag.
func (s *Session) Bag() task.Bag {
	out := make(task.Bag, len(s.bag))
	for k, v := range s.bag {
		out[k] = v
	}
	return out
}

// Submit validates the bag and shapes it into a record. On failure the
// session stays in StateEditing and the returned error is a
// *ValidationError; on success the session moves to StateSubmitted and
// create flows get a fresh id and creation time.
func (s *Session) Submit() (task.Record, error) {
	if err := s.validate(); err != nil {
		return task.Record{}, err
	}

	rec := task.ToRecord(s.bag, s.existing)
	if s.existing == nil {
		rec.ID = task.NewID()
		rec.CreatedAt = time.Now().UTC()
	}
	s.state = StateSubmitted
	return rec, nil
}

// Reset returns a submitted create session to editing with a freshly
// defaulted bag.
func (s *Session) Reset() {
	s.defaultBag()
	s.state = StateEditing
}

// Cancel discards the bag. No persistence side effect.
func (s *Session) Cancel() {
	s.bag = nil
	s.state = StateCancelled
}

func (s *Session) defaultBag() {
	s.bag = make(task.Bag, len(s.defs))
	for _, d := range s.defs {
		s.bag[d.ID] = field.DefaultValue(d.Type)
	}
	if _, ok := s.bag[field.DefaultDate]; ok {
		s.bag[field.DefaultDate] = time.Now().Format("2006-01-02")
	}
}

// validate runs the submit checks in source order, first failure wins.
// The legacy identifying-field check and the generic required sweep cover
// overlapping ground; both are kept.
func (s *Session) validate() *ValidationError {
	project := task.BagString(s.bag[field.DefaultProject])
	taskName := task.BagString(s.bag[field.DefaultTaskName])
	taskType := task.BagString(s.bag[field.DefaultTaskType])
	timeSpent := task.BagString(s.bag[field.DefaultTimeSpent])

	if project == "" || taskName == "" || taskType == "" || timeSpent == "" {
		return &ValidationError{Message: msgMissingRequired}
	}

	hours, ok := task.ParseHours(timeSpent)
	if !ok || math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return &ValidationError{Message: msgInvalidTime}
	}

	for _, d := range s.defs {
		if !d.Required {
			continue
		}
		if missing(s.bag[d.ID]) {
			return &ValidationError{Message: msgMissingCustom}
		}
	}
	return nil
}

// missing treats only nil and the empty string as absent. A false checkbox
// and a "0" number are present values.
func missing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
