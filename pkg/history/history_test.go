package history

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/staticanalysis"
)

// newTestStore opens a store in a temp directory and closes it with the test.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// Store Tests
// =============================================================================

func TestStore_PutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)

	rec := &Record{
		Source: "print('hi')\n",
		Static: &staticanalysis.StaticReport{SyntaxValid: true},
	}
	id, err := store.Put(rec)
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("expected a timestamp to be assigned")
	}

	got, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != id {
		t.Errorf("expected id %q, got %q", id, got.ID)
	}
	if got.Source != rec.Source {
		t.Errorf("expected source round-tripped, got %q", got.Source)
	}
	if got.Static == nil || !got.Static.SyntaxValid {
		t.Errorf("expected static report round-tripped, got %+v", got.Static)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Get("01ARZ3NDEKTSV4RRFFQ69G5FAV"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListChronological(t *testing.T) {
	store := newTestStore(t)

	var ids []string
	for _, src := range []string{"a = 1\n", "b = 2\n", "c = 3\n"} {
		id, err := store.Put(&Record{Source: src})
		if err != nil {
			t.Fatalf("Put error: %v", err)
		}
		ids = append(ids, id)
	}

	recs, err := store.List()
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	// ULID keys keep bbolt iteration in insertion order.
	for i, rec := range recs {
		if rec.ID != ids[i] {
			t.Errorf("record %d: expected id %q, got %q", i, ids[i], rec.ID)
		}
	}
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Put(&Record{Source: "x = 1\n"}); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	recs, err := store.List()
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty history after clear, got %d records", len(recs))
	}

	// The store stays usable after a clear.
	if _, err := store.Put(&Record{Source: "y = 2\n"}); err != nil {
		t.Errorf("Put after clear: %v", err)
	}
}
