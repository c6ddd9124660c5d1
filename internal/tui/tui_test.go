package tui

import (
	"testing"
	"time"

	"github.com/sadopc/worklog/internal/field"
	"github.com/sadopc/worklog/internal/form"
	"github.com/sadopc/worklog/internal/store"
	"github.com/sadopc/worklog/internal/task"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestFields(t *testing.T, s *store.Store) *field.Store {
	t.Helper()
	fs, err := field.NewStore(s.Fields())
	if err != nil {
		t.Fatalf("new field store: %v", err)
	}
	if err := fs.BootstrapIfEmpty(field.Defaults(task.Types)); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return fs
}

// ============================================================
// Record view
// ============================================================

func TestRecordStartAndCancel(t *testing.T) {
	s := newTestStore(t)
	fs := newTestFields(t, s)
	m := newRecordModel(fs, s.Tasks(""))

	if m.formActive {
		t.Fatal("form should start inactive")
	}

	m.start()
	if !m.formActive || m.session == nil || m.huhForm == nil {
		t.Fatal("start did not open the form")
	}
	if !m.session.Editing() {
		t.Fatal("session should be editing")
	}

	// The form shows every definition, built-ins included.
	if got := len(m.session.Definitions()); got != 6 {
		t.Fatalf("form built over %d definitions", got)
	}
}

func TestRecordSubmitPersists(t *testing.T) {
	s := newTestStore(t)
	fs := newTestFields(t, s)
	repo := s.Tasks("")
	m := newRecordModel(fs, repo)
	m.start()

	m.session.Set(field.DefaultProject, "Website")
	m.session.Set(field.DefaultTaskName, "Landing page")
	m.session.Set(field.DefaultTaskType, "UI Design")
	m.session.Set(field.DefaultTimeSpent, "3")

	rec, err := m.session.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.InsertRecord(rec); err != nil {
		t.Fatal(err)
	}

	records, err := repo.ListRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Project != "Website" {
		t.Fatalf("records: %+v", records)
	}
}

func TestRecordFormIncludesCustomFields(t *testing.T) {
	s := newTestStore(t)
	fs := newTestFields(t, s)
	if _, err := fs.Add(field.Draft{Name: "Mood", Type: field.TypeDropdown, Options: "Happy, Sad"}); err != nil {
		t.Fatal(err)
	}

	m := newRecordModel(fs, s.Tasks(""))
	m.start()
	if got := len(m.session.Definitions()); got != 7 {
		t.Fatalf("form built over %d definitions", got)
	}
}

// ============================================================
// Edit flow
// ============================================================

func TestEditFlowUpdatesRecord(t *testing.T) {
	s := newTestStore(t)
	fs := newTestFields(t, s)
	repo := s.Tasks("")

	orig := task.Record{
		ID: task.NewID(), Date: "2026-08-30", Project: "Website",
		TaskName: "Landing page", TaskType: "Coding", TimeSpent: 2,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.InsertRecord(orig); err != nil {
		t.Fatal(err)
	}

	sess := form.EditSession(fs.List(), orig)
	sess.Set(field.DefaultTimeSpent, "4")
	rec, err := sess.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.UpdateRecord(rec); err != nil {
		t.Fatal(err)
	}

	records, _ := repo.ListRecords()
	if records[0].TimeSpent != 4 || records[0].ID != orig.ID {
		t.Fatalf("after edit: %+v", records[0])
	}
}

// ============================================================
// Fields view
// ============================================================

func TestFieldsMoveFollowsCursor(t *testing.T) {
	s := newTestStore(t)
	fs := newTestFields(t, s)
	m := newFieldsModel(fs)
	m.defs = fs.List()
	m.cursor = 1

	m2, _ := m.move(field.MoveUp)
	if m2.cursor != 0 {
		t.Fatalf("cursor = %d", m2.cursor)
	}

	list := fs.List()
	if list[0].ID != field.DefaultProject {
		t.Fatalf("move did not reach the store: %v", list[0].ID)
	}
}

// ============================================================
// Reports date ranges
// ============================================================

func TestDailyRangeCoversSevenDays(t *testing.T) {
	r := reportsModel{mode: reportDaily}
	from, to := r.dateRange()
	if to.Sub(from) != 7*24*time.Hour {
		t.Fatalf("range %v .. %v", from, to)
	}
	// Today is inside the current window.
	now := time.Now().UTC()
	if now.Before(from) || !now.Before(to) {
		t.Fatalf("today outside %v .. %v", from, to)
	}
}

func TestWeeklyRangeStartsMonday(t *testing.T) {
	r := reportsModel{mode: reportWeekly, weekStart: time.Monday}
	from, to := r.dateRange()
	if from.Weekday() != time.Monday {
		t.Fatalf("week starts %v", from.Weekday())
	}
	if to.Sub(from) != 7*24*time.Hour {
		t.Fatalf("range %v .. %v", from, to)
	}
}

func TestWeekStartSettingShiftsRange(t *testing.T) {
	s := newTestStore(t)
	r := newReportsModel(s.Tasks(""))
	if r.weekStart != time.Monday {
		t.Fatalf("default week start = %v", r.weekStart)
	}

	r.applySettings([]store.Setting{{Key: "week_start", Value: "sunday"}})
	r.mode = reportWeekly

	from, to := r.dateRange()
	if from.Weekday() != time.Sunday {
		t.Fatalf("week starts %v", from.Weekday())
	}
	if to.Sub(from) != 7*24*time.Hour {
		t.Fatalf("range %v .. %v", from, to)
	}
	now := time.Now().UTC()
	if now.Before(from) || !now.Before(to) {
		t.Fatalf("today outside %v .. %v", from, to)
	}

	// Unrelated keys leave the configuration alone.
	r.applySettings([]store.Setting{{Key: "export_format", Value: "csv"}})
	if r.weekStart != time.Sunday {
		t.Fatalf("week start changed to %v", r.weekStart)
	}
}

func TestOffsetShiftsRangeBack(t *testing.T) {
	cur := reportsModel{mode: reportWeekly, weekStart: time.Monday}
	prev := reportsModel{mode: reportWeekly, weekStart: time.Monday, offset: 1}

	curFrom, _ := cur.dateRange()
	prevFrom, _ := prev.dateRange()
	if curFrom.Sub(prevFrom) != 7*24*time.Hour {
		t.Fatalf("offset moved range by %v", curFrom.Sub(prevFrom))
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatHours(t *testing.T) {
	if got := formatHours(2.5); got != "2.5h" {
		t.Fatalf("got %q", got)
	}
	if got := formatHours(3); got != "3.0h" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("a longer string", 8); got != "a longe…" {
		t.Fatalf("got %q", got)
	}
	// Multibyte strings must not split mid-rune.
	if got := truncate("çalışma kaydı", 5); got != "çalı…" {
		t.Fatalf("got %q", got)
	}
}

func TestTaskTypeColorIsStable(t *testing.T) {
	a := taskTypeColor("Coding")
	b := taskTypeColor("Coding")
	if a != b {
		t.Fatalf("%q != %q", a, b)
	}
}
