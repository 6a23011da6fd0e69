package registry

import (
	"testing"

	"github.com/turbofold/foldengine/internal/reducer/puzzle"
)

func newTestRegistry() *Registry[*puzzle.State, puzzle.Private] {
	return New(puzzle.Reduce, puzzle.NewState, puzzle.NewPrivate)
}

func TestCreateThenGetRoundTrips(t *testing.T) {
	r := newTestRegistry()
	id, created, err := r.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := r.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != created {
		t.Fatalf("Get returned a different handle than Create produced")
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
}

func TestGetUnknownIDIsSessionNotFound(t *testing.T) {
	r := newTestRegistry()
	if _, err := r.Get("does-not-exist"); err == nil {
		t.Fatalf("expected SessionNotFound for an unknown id")
	}
}

func TestEvictRemovesSession(t *testing.T) {
	r := newTestRegistry()
	id, _, err := r.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	r.Evict(id)

	if _, err := r.Get(id); err == nil {
		t.Fatalf("expected Get to fail after Evict")
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d, want 0 after evict", r.Len())
	}
}

func TestCreateProducesDistinctIDs(t *testing.T) {
	r := newTestRegistry()
	id1, _, _ := r.Create()
	id2, _, _ := r.Create()
	if id1 == id2 {
		t.Fatalf("expected distinct session ids, got %q twice", id1)
	}
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
}
