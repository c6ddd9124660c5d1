package field

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Persister is the backing medium for the definition set. The store is
// agnostic to whether it is a local database or a remote table; it only
// ever loads and saves the full set.
type Persister interface {
	Load() ([]Definition, error)
	Save([]Definition) error
}

// Direction moves a definition one position in the form.
type Direction int

const (
	MoveUp Direction = iota
	MoveDown
)

// Store owns the ordered set of field definitions. Every mutation updates
// memory first and then writes the full set through the Persister; a
// failed write is reported as *PersistenceError without reverting memory.
// Not safe for concurrent use; all operations run on the UI event loop.
type Store struct {
	p    Persister
	defs []Definition
}

// NewStore loads the current definition set from p.
func NewStore(p Persister) (*Store, error) {
	defs, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("load field definitions: %w", err)
	}
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].Order < defs[j].Order })
	for i := range defs {
		defs[i].Order = i
	}
	return &Store{p: p, defs: defs}, nil
}

// List returns the definitions sorted ascending by order. The returned
// slice is a copy.
func (s *Store) List() []Definition {
	out := make([]Definition, len(s.defs))
	copy(out, s.defs)
	return out
}

// Get returns the definition with the given id.
func (s *Store) Get(id string) (Definition, bool) {
	for _, d := range s.defs {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Len returns the number of definitions.
func (s *Store) Len() int { return len(s.defs) }

// Add appends a new definition from draft. The id is generated and never
// collides with the default- namespace; order is the count before
// insertion.
func (s *Store) Add(draft Draft) (Definition, error) {
	if draft.Name == "" {
		return Definition{}, ErrEmptyName
	}
	if _, err := Lookup(draft.Type); err != nil {
		return Definition{}, err
	}

	def := Definition{
		ID:       "field-" + uuid.NewString(),
		Name:     draft.Name,
		Type:     draft.Type,
		Required: draft.Required,
		Order:    len(s.defs),
	}
	if HasOptions(draft.Type) {
		def.Options = ParseOptions(draft.Options)
	}

	s.defs = append(s.defs, def)
	return def, s.persist("add")
}

// Update replaces name, type, required and options of the definition with
// the given id. Options are parsed from the draft's comma-separated text
// when the new type carries them, and cleared otherwise.
func (s *Store) Update(id string, draft Draft) (Definition, error) {
	if draft.Name == "" {
		return Definition{}, ErrEmptyName
	}
	if _, err := Lookup(draft.Type); err != nil {
		return Definition{}, err
	}

	i := s.index(id)
	if i < 0 {
		return Definition{}, fmt.Errorf("update %q: %w", id, ErrNotFound)
	}

	s.defs[i].Name = draft.Name
	s.defs[i].Type = draft.Type
	s.defs[i].Required = draft.Required
	if HasOptions(draft.Type) {
		s.defs[i].Options = ParseOptions(draft.Options)
	} else {
		s.defs[i].Options = nil
	}
	return s.defs[i], s.persist("update")
}

// Remove deletes the definition with the given id and renumbers the rest.
// Built-in default- definitions are rejected before any mutation.
func (s *Store) Remove(id string) error {
	if IsDefault(id) {
		return fmt.Errorf("remove %q: %w", id, ErrProtectedField)
	}
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}
	s.defs = append(s.defs[:i], s.defs[i+1:]...)
	s.renumber()
	return s.persist("remove")
}

// Move swaps the definition with its immediate neighbor. Moving the first
// element up or the last element down is a no-op.
func (s *Store) Move(id string, dir Direction) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("move %q: %w", id, ErrNotFound)
	}
	j := i - 1
	if dir == MoveDown {
		j = i + 1
	}
	if j < 0 || j >= len(s.defs) {
		return nil
	}
	s.defs[i], s.defs[j] = s.defs[j], s.defs[i]
	s.renumber()
	return s.persist("move")
}

// BootstrapIfEmpty seeds defaults into the store exactly once, only when
// it currently holds no definitions.
func (s *Store) BootstrapIfEmpty(defaults []Definition) error {
	if len(s.defs) > 0 {
		return nil
	}
	s.defs = make([]Definition, len(defaults))
	copy(s.defs, defaults)
	s.renumber()
	return s.persist("bootstrap")
}

func (s *Store) index(id string) int {
	for i, d := range s.defs {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) renumber() {
	for i := range s.defs {
		s.defs[i].Order = i
	}
}

func (s *Store) persist(op string) error {
	if err := s.p.Save(s.List()); err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}
