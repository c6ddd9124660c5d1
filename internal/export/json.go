package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/worklog/internal/task"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Tasks      []jsonEntry `json:"tasks"`
}

type jsonEntry struct {
	Date      string  `json:"date"`
	Project   string  `json:"project"`
	TaskName  string  `json:"task_name"`
	TaskType  string  `json:"task_type"`
	TimeSpent float64 `json:"time_spent_hours"`
	Notes     string  `json:"notes,omitempty"`
}

func ToJSON(records []task.Record, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
	}

	for _, rec := range records {
		out.Tasks = append(out.Tasks, jsonEntry{
			Date:      rec.Date,
			Project:   rec.Project,
			TaskName:  rec.TaskName,
			TaskType:  rec.TaskType,
			TimeSpent: rec.TimeSpent,
			Notes:     rec.Notes,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
