package task

import (
	"errors"
	"sort"
	"time"
)

// ErrNotAuthenticated is returned by record operations on a user-scoped
// repository when no user is signed in.
var ErrNotAuthenticated = errors.New("not signed in")

// DailyTotal aggregates logged hours per day per task type.
type DailyTotal struct {
	Date     string
	TaskType string
	Hours    float64
	Count    int
}

// Repository is the persistence boundary for task records. Implementations
// are already scoped to the current user where that applies.
type Repository interface {
	ListRecords() ([]Record, error)
	InsertRecord(Record) error
	UpdateRecord(Record) error
	DeleteRecord(id string) error
	DailyTotals(from, to time.Time) ([]DailyTotal, error)
}

// Totals computes DailyTotals in memory from a record slice, for backends
// without server-side aggregation. Records outside [from, to) are skipped.
func Totals(records []Record, from, to time.Time) []DailyTotal {
	type key struct {
		date     string
		taskType string
	}
	acc := make(map[key]*DailyTotal)
	var order []key

	for _, r := range records {
		day, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}
		if day.Before(from) || !day.Before(to) {
			continue
		}
		k := key{date: r.Date, taskType: r.TaskType}
		t, ok := acc[k]
		if !ok {
			t = &DailyTotal{Date: r.Date, TaskType: r.TaskType}
			acc[k] = t
			order = append(order, k)
		}
		t.Hours += r.TimeSpent
		t.Count++
	}

	out := make([]DailyTotal, 0, len(order))
	for _, k := range order {
		out = append(out, *acc[k])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TaskType < out[j].TaskType
	})
	return out
}
