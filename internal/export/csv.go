package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/worklog/internal/task"
)

func ToCSV(records []task.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			rec.Date,
			rec.Project,
			rec.TaskName,
			rec.TaskType,
			strconv.FormatFloat(rec.TimeSpent, 'f', -1, 64),
			rec.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
