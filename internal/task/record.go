package task

import (
	"time"

	"github.com/google/uuid"
)

// Types is the fixed task-type vocabulary behind the built-in Task Type
// dropdown.
var Types = []string{
	"UI Design",
	"UX Research",
	"Wireframing",
	"Prototyping",
	"User Testing",
	"Design Review",
	"Design System",
	"Meetings",
	"Documentation",
	"Other",
}

// Record is one logged unit of work. The six fixed columns are always
// present; values for user-defined fields live in CustomFields, keyed by
// field id.
type Record struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id,omitempty"`
	Date         string         `json:"date"` // calendar day, 2006-01-02
	Project      string         `json:"project"`
	TaskName     string         `json:"taskName"`
	TaskType     string         `json:"taskType"`
	TimeSpent    float64        `json:"timeSpent"` // hours, > 0
	Notes        string         `json:"notes"`
	CreatedAt    time.Time      `json:"createdAt"`
	CustomFields map[string]any `json:"customFields"`
}

// NewID returns a fresh record id.
func NewID() string {
	return uuid.NewString()
}
