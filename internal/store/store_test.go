package store

import (
	"testing"
	"time"

	"github.com/sadopc/worklog/internal/field"
	"github.com/sadopc/worklog/internal/task"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertRecord(t *testing.T, repo task.Repository, id, date, taskType string, hours float64) {
	t.Helper()
	err := repo.InsertRecord(task.Record{
		ID:        id,
		Date:      date,
		Project:   "Website",
		TaskName:  "Task " + id,
		TaskType:  taskType,
		TimeSpent: hours,
		CreatedAt: time.Now().UTC(),
		CustomFields: map[string]any{
			"field-mood": "Happy",
		},
	})
	if err != nil {
		t.Fatalf("insert %s: %v", id, err)
	}
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/worklog.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen, should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

// ============================================================
// Field definitions
// ============================================================

func TestFieldDefinitionsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	defs := field.Defaults([]string{"UI Design", "Coding"})
	defs = append(defs, field.Definition{
		ID: "field-mood", Name: "Mood", Type: field.TypeDropdown,
		Required: true, Options: []string{"Happy", "Sad"}, Order: 6,
	})

	if err := s.SaveFieldDefinitions(defs); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadFieldDefinitions()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 7 {
		t.Fatalf("got %d defs", len(got))
	}
	// ORDER BY ord puts the built-in date field first.
	if got[0].ID != field.DefaultDate || !got[0].Required {
		t.Fatalf("first def: %+v", got[0])
	}
	mood := got[6]
	if mood.ID != "field-mood" || len(mood.Options) != 2 || mood.Options[1] != "Sad" {
		t.Fatalf("mood def: %+v", mood)
	}
}

func TestSaveFieldDefinitionsReplaces(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveFieldDefinitions(field.Defaults(nil)); err != nil {
		t.Fatal(err)
	}
	// Second save with a smaller set replaces, not appends.
	if err := s.SaveFieldDefinitions(field.Defaults(nil)[:2]); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadFieldDefinitions()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d defs", len(got))
	}
}

func TestFieldsPersisterDrivesStore(t *testing.T) {
	s := newTestStore(t)

	fs, err := field.NewStore(s.Fields())
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.BootstrapIfEmpty(field.Defaults([]string{"Coding"})); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Add(field.Draft{Name: "Mood", Type: field.TypeText}); err != nil {
		t.Fatal(err)
	}

	// A fresh store over the same database sees everything.
	fs2, err := field.NewStore(s.Fields())
	if err != nil {
		t.Fatal(err)
	}
	if fs2.Len() != 7 {
		t.Fatalf("reloaded %d defs", fs2.Len())
	}
}

// ============================================================
// Task records
// ============================================================

func TestTaskRecordCRUD(t *testing.T) {
	s := newTestStore(t)
	repo := s.Tasks("")

	insertRecord(t, repo, "task-1", "2026-08-30", "Coding", 3)

	records, err := repo.ListRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	rec := records[0]
	if rec.Project != "Website" || rec.TimeSpent != 3 {
		t.Fatalf("record: %+v", rec)
	}
	if rec.CustomFields["field-mood"] != "Happy" {
		t.Fatalf("customFields: %v", rec.CustomFields)
	}

	rec.Notes = "updated"
	rec.TimeSpent = 4.5
	if err := repo.UpdateRecord(rec); err != nil {
		t.Fatal(err)
	}
	records, _ = repo.ListRecords()
	if records[0].Notes != "updated" || records[0].TimeSpent != 4.5 {
		t.Fatalf("after update: %+v", records[0])
	}

	if err := repo.DeleteRecord("task-1"); err != nil {
		t.Fatal(err)
	}
	records, _ = repo.ListRecords()
	if len(records) != 0 {
		t.Fatalf("after delete: %d records", len(records))
	}
}

func TestListRecordsOrder(t *testing.T) {
	s := newTestStore(t)
	repo := s.Tasks("")

	insertRecord(t, repo, "task-old", "2026-08-01", "Coding", 1)
	insertRecord(t, repo, "task-new", "2026-08-30", "Coding", 1)

	records, err := repo.ListRecords()
	if err != nil {
		t.Fatal(err)
	}
	if records[0].ID != "task-new" {
		t.Fatalf("newest first expected, got %v", records[0].ID)
	}
}

func TestUserScoping(t *testing.T) {
	s := newTestStore(t)
	alice := s.Tasks("alice")
	bob := s.Tasks("bob")

	insertRecord(t, alice, "task-a", "2026-08-30", "Coding", 2)

	got, err := bob.ListRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("bob sees alice's records: %v", got)
	}
	if err := bob.DeleteRecord("task-a"); err != nil {
		t.Fatal(err)
	}
	got, _ = alice.ListRecords()
	if len(got) != 1 {
		t.Fatal("cross-user delete removed the record")
	}
}

func TestDailyTotals(t *testing.T) {
	s := newTestStore(t)
	repo := s.Tasks("")

	insertRecord(t, repo, "task-1", "2026-08-24", "Coding", 2)
	insertRecord(t, repo, "task-2", "2026-08-24", "Coding", 1.5)
	insertRecord(t, repo, "task-3", "2026-08-24", "Meeting", 1)
	insertRecord(t, repo, "task-4", "2026-08-25", "Coding", 4)
	insertRecord(t, repo, "task-5", "2026-09-01", "Coding", 8) // outside range

	from := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	totals, err := repo.DailyTotals(from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(totals) != 3 {
		t.Fatalf("got %d totals: %+v", len(totals), totals)
	}
	if totals[0].Date != "2026-08-24" || totals[0].TaskType != "Coding" ||
		totals[0].Hours != 3.5 || totals[0].Count != 2 {
		t.Fatalf("first total: %+v", totals[0])
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettings(t *testing.T) {
	s := newTestStore(t)

	// Migration seeds the defaults.
	format, err := s.GetSetting("export_format")
	if err != nil {
		t.Fatal(err)
	}
	if format != "xlsx" {
		t.Fatalf("export_format = %q", format)
	}

	if err := s.SetSetting("export_format", "csv"); err != nil {
		t.Fatal(err)
	}
	format, _ = s.GetSetting("export_format")
	if format != "csv" {
		t.Fatalf("after set: %q", format)
	}

	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d settings", len(all))
	}
}

func TestGetSettingUnknownKey(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("nope"); err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}
