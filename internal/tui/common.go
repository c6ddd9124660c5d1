package tui

import (
	"fmt"

	"github.com/sadopc/worklog/internal/field"
	"github.com/sadopc/worklog/internal/store"
	"github.com/sadopc/worklog/internal/task"
)

// viewState represents the currently active view.
type viewState int

const (
	viewRecord viewState = iota
	viewTasks
	viewReports
	viewFields
	viewSettings
)

var viewNames = []string{"Record", "Tasks", "Reports", "Fields", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type recordSavedMsg struct {
	record task.Record
}

type recordsDataMsg struct {
	records []task.Record
}

type fieldsDataMsg struct {
	defs []field.Definition
}

type totalsDataMsg struct {
	totals []task.DailyTotal
}

type settingsDataMsg struct {
	settings []store.Setting
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatHours(hours float64) string {
	return fmt.Sprintf("%.1fh", hours)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
