package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sadopc/worklog/internal/task"
)

// Tasks returns a task repository scoped to userID. The local single-user
// deployment passes the empty user id.
func (s *Store) Tasks(userID string) task.Repository {
	return &taskRepo{s: s, userID: userID}
}

type taskRepo struct {
	s      *Store
	userID string
}

func (r *taskRepo) InsertRecord(rec task.Record) error {
	custom, err := encodeCustom(rec.CustomFields)
	if err != nil {
		return err
	}
	_, err = r.s.db.Exec(
		`INSERT INTO task_records (id, user_id, date, project, task_name, task_type, time_spent, notes, custom_fields, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, r.userID, rec.Date, rec.Project, rec.TaskName, rec.TaskType,
		rec.TimeSpent, rec.Notes, custom, rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert task record: %w", err)
	}
	return nil
}

func (r *taskRepo) UpdateRecord(rec task.Record) error {
	custom, err := encodeCustom(rec.CustomFields)
	if err != nil {
		return err
	}
	_, err = r.s.db.Exec(
		`UPDATE task_records SET date = ?, project = ?, task_name = ?, task_type = ?, time_spent = ?, notes = ?, custom_fields = ?
		 WHERE id = ? AND user_id = ?`,
		rec.Date, rec.Project, rec.TaskName, rec.TaskType, rec.TimeSpent,
		rec.Notes, custom, rec.ID, r.userID,
	)
	if err != nil {
		return fmt.Errorf("update task record: %w", err)
	}
	return nil
}

func (r *taskRepo) DeleteRecord(id string) error {
	_, err := r.s.db.Exec(
		`DELETE FROM task_records WHERE id = ? AND user_id = ?`, id, r.userID,
	)
	if err != nil {
		return fmt.Errorf("delete task record: %w", err)
	}
	return nil
}

func (r *taskRepo) ListRecords() ([]task.Record, error) {
	rows, err := r.s.db.Query(
		`SELECT id, user_id, date, project, task_name, task_type, time_spent, notes, custom_fields, created_at
		 FROM task_records WHERE user_id = ? ORDER BY date DESC, created_at DESC`,
		r.userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list task records: %w", err)
	}
	defer rows.Close()

	var records []task.Record
	for rows.Next() {
		var rec task.Record
		var custom, createdAt string
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Date, &rec.Project, &rec.TaskName,
			&rec.TaskType, &rec.TimeSpent, &rec.Notes, &custom, &createdAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(custom), &rec.CustomFields); err != nil {
			return nil, fmt.Errorf("decode custom fields for %q: %w", rec.ID, err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *taskRepo) DailyTotals(from, to time.Time) ([]task.DailyTotal, error) {
	rows, err := r.s.db.Query(`
		SELECT date, task_type, COALESCE(SUM(time_spent), 0), COUNT(*)
		FROM task_records
		WHERE user_id = ? AND date >= ? AND date < ?
		GROUP BY date, task_type
		ORDER BY date, task_type`,
		r.userID, from.Format("2006-01-02"), to.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	var totals []task.DailyTotal
	for rows.Next() {
		var t task.DailyTotal
		if err := rows.Scan(&t.Date, &t.TaskType, &t.Hours, &t.Count); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func encodeCustom(custom map[string]any) (string, error) {
	if custom == nil {
		custom = map[string]any{}
	}
	encoded, err := json.Marshal(custom)
	if err != nil {
		return "", fmt.Errorf("encode custom fields: %w", err)
	}
	return string(encoded), nil
}
