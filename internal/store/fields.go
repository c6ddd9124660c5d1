package store

import (
	"encoding/json"
	"fmt"

	"github.com/sadopc/worklog/internal/field"
)

// Fields adapts the store to the field.Persister contract.
func (s *Store) Fields() field.Persister {
	return fieldPersister{s}
}

type fieldPersister struct {
	s *Store
}

func (p fieldPersister) Load() ([]field.Definition, error) {
	return p.s.LoadFieldDefinitions()
}

func (p fieldPersister) Save(defs []field.Definition) error {
	return p.s.SaveFieldDefinitions(defs)
}

// LoadFieldDefinitions returns the definition set ordered by rank.
func (s *Store) LoadFieldDefinitions() ([]field.Definition, error) {
	rows, err := s.db.Query(
		`SELECT id, name, type, required, options, ord FROM field_definitions ORDER BY ord`,
	)
	if err != nil {
		return nil, fmt.Errorf("load field definitions: %w", err)
	}
	defer rows.Close()

	var defs []field.Definition
	for rows.Next() {
		var d field.Definition
		var required int
		var options string
		if err := rows.Scan(&d.ID, &d.Name, &d.Type, &required, &options, &d.Order); err != nil {
			return nil, err
		}
		d.Required = required == 1
		if err := json.Unmarshal([]byte(options), &d.Options); err != nil {
			return nil, fmt.Errorf("decode options for %q: %w", d.ID, err)
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

// SaveFieldDefinitions replaces the full definition set in one transaction.
func (s *Store) SaveFieldDefinitions(defs []field.Definition) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save field definitions: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM field_definitions`); err != nil {
		return fmt.Errorf("clear field definitions: %w", err)
	}
	for _, d := range defs {
		opts := d.Options
		if opts == nil {
			opts = []string{}
		}
		encoded, err := json.Marshal(opts)
		if err != nil {
			return fmt.Errorf("encode options for %q: %w", d.ID, err)
		}
		required := 0
		if d.Required {
			required = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO field_definitions (id, name, type, required, options, ord) VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, d.Name, string(d.Type), required, string(encoded), d.Order,
		); err != nil {
			return fmt.Errorf("insert field definition %q: %w", d.ID, err)
		}
	}
	return tx.Commit()
}
