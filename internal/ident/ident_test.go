package ident

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator(t *testing.T) {
	gen := NewUUIDGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.NewID()
		parsed, err := uuid.Parse(id)
		if err != nil {
			t.Fatalf("expected a uuid, got %q: %v", id, err)
		}
		if parsed.Version() != 4 {
			t.Fatalf("expected version 4, got %d", parsed.Version())
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestSequence(t *testing.T) {
	s := &Sequence{Prefix: "item"}
	if got := s.NewID(); got != "item-1" {
		t.Fatalf("expected item-1, got %s", got)
	}
	if got := s.NewID(); got != "item-2" {
		t.Fatalf("expected item-2, got %s", got)
	}

	var empty Sequence
	if got := empty.NewID(); got != "id-1" {
		t.Fatalf("expected id-1, got %s", got)
	}
}
