package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/sadopc/worklog/internal/field"
	"github.com/sadopc/worklog/internal/logging"
	"github.com/sadopc/worklog/internal/remote"
	"github.com/sadopc/worklog/internal/store"
	"github.com/sadopc/worklog/internal/task"
	"github.com/sadopc/worklog/internal/tui"
)

func main() {
	// Optional; absence of a .env file is fine.
	_ = godotenv.Load()

	log, closeLog, err := logging.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	// Field definitions and task records live on the remote backend when
	// one is configured, otherwise in the local database. Settings are
	// device-local either way.
	persister := s.Fields()
	repo := s.Tasks("")

	if url := os.Getenv("WORKLOG_REMOTE_URL"); url != "" {
		client, err := remote.Connect(remote.Config{
			URL:       url,
			Username:  os.Getenv("WORKLOG_REMOTE_USER"),
			Password:  os.Getenv("WORKLOG_REMOTE_PASS"),
			Namespace: os.Getenv("WORKLOG_REMOTE_NS"),
			Database:  os.Getenv("WORKLOG_REMOTE_DB"),
		}, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error connecting to %s: %v\n", url, err)
			os.Exit(1)
		}
		defer client.Close()
		persister = client.Fields()
		repo = client.Tasks()
		log.Info().Str("url", url).Str("user", client.CurrentUser()).Msg("using remote backend")
	}

	fields, err := field.NewStore(persister)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading field definitions: %v\n", err)
		os.Exit(1)
	}
	if err := fields.BootstrapIfEmpty(field.Defaults(task.Types)); err != nil {
		fmt.Fprintf(os.Stderr, "error seeding field definitions: %v\n", err)
		os.Exit(1)
	}

	app := tui.NewApp(fields, repo, s, log)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
