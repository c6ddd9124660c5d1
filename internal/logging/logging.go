// Package logging writes structured logs to a file under the user state
// dir. The TUI owns the terminal, so nothing may log to stdout.
package logging

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

const permission = 0o664

// New opens (or creates) the worklog log file and returns a logger writing
// to it, plus a close func.
func New() (zerolog.Logger, func(), error) {
	path, err := xdg.StateFile(filepath.Join("worklog", "worklog.log"))
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, permission)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	logger := zerolog.New(f).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}
