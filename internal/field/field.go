package field

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultPrefix marks built-in definitions. They are seeded once, always
// exist, and cannot be deleted.
const DefaultPrefix = "default-"

// Built-in field ids. These map 1:1 onto the fixed task record columns.
const (
	DefaultDate      = "default-date"
	DefaultProject   = "default-project"
	DefaultTaskName  = "default-taskName"
	DefaultTaskType  = "default-taskType"
	DefaultTimeSpent = "default-timeSpent"
	DefaultNotes     = "default-notes"
)

var (
	ErrProtectedField = errors.New("default fields cannot be deleted")
	ErrNotFound       = errors.New("field not found")
	ErrEmptyName      = errors.New("field name is required")
)

// PersistenceError reports a failed write to the backing medium. The
// in-memory set has already been updated when it is returned; callers
// surface it as a notification rather than rolling back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist field definitions (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Definition describes one form field: what it is called, how it renders,
// whether it must be filled, and where it sits in the form.
type Definition struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     Type     `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
	Order    int      `json:"order"`
}

// Draft is the user-supplied shape of a new or edited definition. Options
// arrive as free text, one comma-separated string.
type Draft struct {
	Name     string
	Type     Type
	Required bool
	Options  string
}

// ParseOptions splits a comma-separated options string, trimming each
// token and dropping empties.
func ParseOptions(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// JoinOptions is the inverse of ParseOptions, used to prefill edit forms.
func JoinOptions(opts []string) string {
	return strings.Join(opts, ", ")
}

// Defaults returns the six built-in definitions seeded into an empty
// store. taskTypes populates the task type dropdown.
func Defaults(taskTypes []string) []Definition {
	opts := make([]string, len(taskTypes))
	copy(opts, taskTypes)
	return []Definition{
		{ID: DefaultDate, Name: "Date", Type: TypeDate, Required: true, Order: 0},
		{ID: DefaultProject, Name: "Project Name", Type: TypeText, Required: true, Order: 1},
		{ID: DefaultTaskName, Name: "Task Name", Type: TypeText, Required: true, Order: 2},
		{ID: DefaultTaskType, Name: "Task Type", Type: TypeDropdown, Required: true, Options: opts, Order: 3},
		{ID: DefaultTimeSpent, Name: "Time Spent (hours)", Type: TypeNumber, Required: true, Order: 4},
		{ID: DefaultNotes, Name: "Notes", Type: TypeTextarea, Order: 5},
	}
}

// IsDefault reports whether id names a built-in definition.
func IsDefault(id string) bool {
	return strings.HasPrefix(id, DefaultPrefix)
}
