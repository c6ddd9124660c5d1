package task

import (
	"fmt"
	"strconv"

	"github.com/sadopc/worklog/internal/field"
)

// Bag is the transient value bag of one editing session: field id to the
// value entered for that field. It exists only while the form is open.
type Bag map[string]any

// ToRecord shapes a value bag into a persisted record. The six default-*
// keys become the fixed columns; every other key lands in CustomFields.
// When existing is non-nil its identity (id, user, creation time) carries
// over; otherwise the caller assigns them.
func ToRecord(bag Bag, existing *Record) Record {
	var rec Record
	if existing != nil {
		rec = *existing
	}

	rec.Date = BagString(bag[field.DefaultDate])
	rec.Project = BagString(bag[field.DefaultProject])
	rec.TaskName = BagString(bag[field.DefaultTaskName])
	rec.TaskType = BagString(bag[field.DefaultTaskType])
	rec.Notes = BagString(bag[field.DefaultNotes])
	if hours, ok := ParseHours(bag[field.DefaultTimeSpent]); ok {
		rec.TimeSpent = hours
	}

	custom := make(map[string]any)
	for k, v := range bag {
		if !field.IsDefault(k) {
			custom[k] = v
		}
	}
	rec.CustomFields = custom
	return rec
}

// FromRecord is the inverse: it seeds the default-* keys from the fixed
// columns and merges CustomFields over them, so a custom value sharing a
// key wins. That collision cannot occur for store-generated ids.
func FromRecord(rec Record) Bag {
	bag := Bag{
		field.DefaultDate:      rec.Date,
		field.DefaultProject:   rec.Project,
		field.DefaultTaskName:  rec.TaskName,
		field.DefaultTaskType:  rec.TaskType,
		field.DefaultTimeSpent: FormatHours(rec.TimeSpent),
		field.DefaultNotes:     rec.Notes,
	}
	for k, v := range rec.CustomFields {
		bag[k] = v
	}
	return bag
}

// BagString renders a bag value as its string form. Nil is empty.
func BagString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return FormatHours(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(s)
	}
}

// ParseHours reads a bag value as a number of hours.
func ParseHours(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FormatHours renders hours the way the number widget holds them, with no
// trailing zeros.
func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
