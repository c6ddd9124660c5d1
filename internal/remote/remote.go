// Package remote backs the field and task repositories with a SurrealDB
// server. Records are scoped by the authenticated user; every operation
// fails with task.ErrNotAuthenticated when no user is signed in.
package remote

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/sadopc/worklog/internal/field"
	"github.com/sadopc/worklog/internal/task"
)

// Config holds the connection and sign-in parameters, typically read from
// the environment.
type Config struct {
	URL       string // ws://host:port/rpc
	Username  string
	Password  string
	Namespace string
	Database  string
}

// Client is an authenticated SurrealDB connection.
type Client struct {
	db     *surrealdb.DB
	userID string
	log    zerolog.Logger
}

// Connect dials the server, signs in and selects the namespace/database.
func Connect(cfg Config, log zerolog.Logger) (*Client, error) {
	db, err := surrealdb.New(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.URL, err)
	}
	if _, err := db.Signin(map[string]any{
		"user": cfg.Username,
		"pass": cfg.Password,
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("signin: %w", err)
	}
	if _, err := db.Use(cfg.Namespace, cfg.Database); err != nil {
		db.Close()
		return nil, fmt.Errorf("use %s/%s: %w", cfg.Namespace, cfg.Database, err)
	}

	log.Info().Str("url", cfg.URL).Str("user", cfg.Username).Msg("connected to remote backend")
	return &Client{db: db, userID: cfg.Username, log: log}, nil
}

// CurrentUser returns the signed-in user id, or "" when unauthenticated.
func (c *Client) CurrentUser() string { return c.userID }

func (c *Client) Close() {
	c.db.Close()
}

// Fields persists the definition set as a single fieldset document.
func (c *Client) Fields() field.Persister {
	return fieldPersister{c}
}

type fieldset struct {
	ID     string             `json:"id,omitempty"`
	Fields []field.Definition `json:"fields"`
}

type fieldPersister struct {
	c *Client
}

func (p fieldPersister) Load() ([]field.Definition, error) {
	sets, err := surrealdb.SmartUnmarshal[[]fieldset](
		p.c.db.Query(`SELECT * FROM fieldset WHERE id = fieldset:current`, nil),
	)
	if err != nil {
		return nil, fmt.Errorf("load fieldset: %w", err)
	}
	if len(sets) == 0 {
		return nil, nil
	}
	return sets[0].Fields, nil
}

func (p fieldPersister) Save(defs []field.Definition) error {
	if _, err := p.c.db.Update("fieldset:current", map[string]any{
		"fields": defs,
	}); err != nil {
		return fmt.Errorf("save fieldset: %w", err)
	}
	return nil
}

// Tasks returns the task repository scoped to the signed-in user.
func (c *Client) Tasks() task.Repository {
	return &taskRepo{c}
}

type taskRepo struct {
	c *Client
}

func (r *taskRepo) guard() error {
	if r.c.userID == "" {
		return task.ErrNotAuthenticated
	}
	return nil
}

func (r *taskRepo) InsertRecord(rec task.Record) error {
	if err := r.guard(); err != nil {
		return err
	}
	rec.UserID = r.c.userID
	if _, err := r.c.db.Create(thing(rec.ID), recordData(rec)); err != nil {
		r.c.log.Error().Err(err).Str("record", rec.ID).Msg("insert failed")
		return fmt.Errorf("insert task record: %w", err)
	}
	return nil
}

func (r *taskRepo) UpdateRecord(rec task.Record) error {
	if err := r.guard(); err != nil {
		return err
	}
	rec.UserID = r.c.userID
	if _, err := r.c.db.Update(thing(rec.ID), recordData(rec)); err != nil {
		r.c.log.Error().Err(err).Str("record", rec.ID).Msg("update failed")
		return fmt.Errorf("update task record: %w", err)
	}
	return nil
}

func (r *taskRepo) DeleteRecord(id string) error {
	if err := r.guard(); err != nil {
		return err
	}
	if _, err := r.c.db.Delete(thing(id)); err != nil {
		r.c.log.Error().Err(err).Str("record", id).Msg("delete failed")
		return fmt.Errorf("delete task record: %w", err)
	}
	return nil
}

func (r *taskRepo) ListRecords() ([]task.Record, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	records, err := surrealdb.SmartUnmarshal[[]task.Record](r.c.db.Query(
		`SELECT * FROM task WHERE user_id = $user ORDER BY date DESC, createdAt DESC`,
		map[string]any{"user": r.c.userID},
	))
	if err != nil {
		return nil, fmt.Errorf("list task records: %w", err)
	}
	return records, nil
}

// DailyTotals aggregates client-side; the record counts here stay small.
func (r *taskRepo) DailyTotals(from, to time.Time) ([]task.DailyTotal, error) {
	records, err := r.ListRecords()
	if err != nil {
		return nil, err
	}
	return task.Totals(records, from, to), nil
}

// thing names a task row. Ids are uuids, so they need the escaped form.
func thing(id string) string {
	return fmt.Sprintf("task:⟨%s⟩", id)
}

// recordData shapes a record for the wire, dropping the id (it lives in
// the record name).
func recordData(rec task.Record) map[string]any {
	custom := rec.CustomFields
	if custom == nil {
		custom = map[string]any{}
	}
	return map[string]any{
		"user_id":      rec.UserID,
		"date":         rec.Date,
		"project":      rec.Project,
		"taskName":     rec.TaskName,
		"taskType":     rec.TaskType,
		"timeSpent":    rec.TimeSpent,
		"notes":        rec.Notes,
		"createdAt":    rec.CreatedAt,
		"customFields": custom,
	}
}
