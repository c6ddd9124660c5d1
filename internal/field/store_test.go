package field

import (
	"errors"
	"testing"
)

// memPersister keeps the saved set in memory and can be told to fail.
type memPersister struct {
	defs    []Definition
	failing bool
	saves   int
}

func (p *memPersister) Load() ([]Definition, error) {
	out := make([]Definition, len(p.defs))
	copy(out, p.defs)
	return out, nil
}

func (p *memPersister) Save(defs []Definition) error {
	if p.failing {
		return errors.New("disk full")
	}
	p.saves++
	p.defs = make([]Definition, len(defs))
	copy(p.defs, defs)
	return nil
}

func newTestStore(t *testing.T) (*Store, *memPersister) {
	t.Helper()
	p := &memPersister{}
	s, err := NewStore(p)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.BootstrapIfEmpty(Defaults([]string{"UI Design", "Coding", "Other"})); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return s, p
}

// assertDense fails unless orders are exactly 0..n-1 in list position.
func assertDense(t *testing.T, s *Store) {
	t.Helper()
	for i, d := range s.List() {
		if d.Order != i {
			t.Fatalf("position %d has order %d", i, d.Order)
		}
	}
}

// ============================================================
// Bootstrap
// ============================================================

func TestBootstrapSeedsDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	if s.Len() != 6 {
		t.Fatalf("expected 6 defaults, got %d", s.Len())
	}
	assertDense(t, s)

	tt, ok := s.Get(DefaultTaskType)
	if !ok {
		t.Fatal("missing default-taskType")
	}
	if len(tt.Options) != 3 || tt.Options[0] != "UI Design" {
		t.Fatalf("task type options = %v", tt.Options)
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	s, p := newTestStore(t)
	saves := p.saves

	if err := s.BootstrapIfEmpty(Defaults(nil)); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 6 {
		t.Fatalf("re-bootstrap changed set: %d defs", s.Len())
	}
	if p.saves != saves {
		t.Fatal("re-bootstrap wrote to the persister")
	}
}

func TestNewStoreNormalizesOrders(t *testing.T) {
	// Sparse, shuffled orders from an older on-disk set.
	p := &memPersister{defs: []Definition{
		{ID: "field-b", Name: "B", Type: TypeText, Order: 7},
		{ID: "field-a", Name: "A", Type: TypeText, Order: 2},
		{ID: "field-c", Name: "C", Type: TypeText, Order: 9},
	}}
	s, err := NewStore(p)
	if err != nil {
		t.Fatal(err)
	}

	list := s.List()
	if list[0].ID != "field-a" || list[1].ID != "field-b" || list[2].ID != "field-c" {
		t.Fatalf("wrong sort: %v %v %v", list[0].ID, list[1].ID, list[2].ID)
	}
	assertDense(t, s)
}

// ============================================================
// Add / Update
// ============================================================

func TestAdd(t *testing.T) {
	s, p := newTestStore(t)

	def, err := s.Add(Draft{Name: "Mood", Type: TypeDropdown, Options: "Happy, Neutral , Sad,,"})
	if err != nil {
		t.Fatal(err)
	}
	if def.Order != 6 {
		t.Fatalf("new field order = %d", def.Order)
	}
	if IsDefault(def.ID) {
		t.Fatalf("generated id %q collides with the built-in namespace", def.ID)
	}
	if len(def.Options) != 3 || def.Options[1] != "Neutral" {
		t.Fatalf("options = %v", def.Options)
	}
	if len(p.defs) != 7 {
		t.Fatalf("persisted %d defs", len(p.defs))
	}
}

func TestAddRejectsEmptyName(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Add(Draft{Name: "", Type: TypeText}); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("got %v", err)
	}
}

func TestAddRejectsUnknownType(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Add(Draft{Name: "X", Type: "button"}); !errors.Is(err, ErrUnknownFieldType) {
		t.Fatalf("got %v", err)
	}
}

func TestAddIgnoresOptionsForPlainTypes(t *testing.T) {
	s, _ := newTestStore(t)
	def, err := s.Add(Draft{Name: "Note", Type: TypeText, Options: "a, b"})
	if err != nil {
		t.Fatal(err)
	}
	if def.Options != nil {
		t.Fatalf("text field kept options %v", def.Options)
	}
}

func TestUpdateClearsOptionsOnTypeChange(t *testing.T) {
	s, _ := newTestStore(t)
	def, err := s.Add(Draft{Name: "Mood", Type: TypeDropdown, Options: "Happy, Sad"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Update(def.ID, Draft{Name: "Mood", Type: TypeCheckbox})
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != TypeCheckbox || got.Options != nil {
		t.Fatalf("after change: type=%v options=%v", got.Type, got.Options)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Update("field-nope", Draft{Name: "X", Type: TypeText}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

// ============================================================
// Remove
// ============================================================

func TestRemoveRenumbers(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add(Draft{Name: "A", Type: TypeText})
	b, _ := s.Add(Draft{Name: "B", Type: TypeText})

	if err := s.Remove(a.ID); err != nil {
		t.Fatal(err)
	}
	assertDense(t, s)

	got, ok := s.Get(b.ID)
	if !ok || got.Order != 6 {
		t.Fatalf("B should have slid into order 6, got %+v", got)
	}
}

func TestRemoveProtectsDefaults(t *testing.T) {
	s, p := newTestStore(t)
	saves := p.saves

	err := s.Remove(DefaultDate)
	if !errors.Is(err, ErrProtectedField) {
		t.Fatalf("got %v", err)
	}
	if s.Len() != 6 {
		t.Fatal("default field was removed")
	}
	if p.saves != saves {
		t.Fatal("rejected remove still wrote to the persister")
	}
}

func TestRemoveUnknownID(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.Remove("field-nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

// ============================================================
// Move
// ============================================================

func TestMoveSwapsNeighbors(t *testing.T) {
	s, _ := newTestStore(t)

	// default-project sits at order 1; moving it up swaps with default-date.
	if err := s.Move(DefaultProject, MoveUp); err != nil {
		t.Fatal(err)
	}
	list := s.List()
	if list[0].ID != DefaultProject || list[1].ID != DefaultDate {
		t.Fatalf("after move: %v %v", list[0].ID, list[1].ID)
	}
	assertDense(t, s)
}

func TestMoveBoundaryIsNoOp(t *testing.T) {
	s, p := newTestStore(t)
	before := s.List()
	saves := p.saves

	if err := s.Move(before[0].ID, MoveUp); err != nil {
		t.Fatal(err)
	}
	if err := s.Move(before[len(before)-1].ID, MoveDown); err != nil {
		t.Fatal(err)
	}

	after := s.List()
	for i := range before {
		if before[i].ID != after[i].ID {
			t.Fatalf("boundary move reordered position %d", i)
		}
	}
	if p.saves != saves {
		t.Fatal("boundary move wrote to the persister")
	}
}

// ============================================================
// Persistence failures
// ============================================================

func TestFailedSaveKeepsMemory(t *testing.T) {
	s, p := newTestStore(t)
	p.failing = true

	def, err := s.Add(Draft{Name: "Mood", Type: TypeText})

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("got %T %v", err, err)
	}
	if perr.Op != "add" {
		t.Fatalf("op = %q", perr.Op)
	}

	// The set keeps the new field even though the write failed.
	if _, ok := s.Get(def.ID); !ok {
		t.Fatal("failed save rolled back memory")
	}
	if len(p.defs) != 6 {
		t.Fatal("failed save still reached the persister")
	}
}

func TestListReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	list := s.List()
	list[0].Name = "mutated"

	got, _ := s.Get(list[0].ID)
	if got.Name == "mutated" {
		t.Fatal("List exposed internal storage")
	}
}
