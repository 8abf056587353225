package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/andy/invoicer/internal/db"
)

func openSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	database, err := db.OpenPlain(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := database.RunMigrations(); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return NewSQLStore(database)
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "data")),
		"sql":    openSQLStore(t),
	}
}

func TestStore_LoadMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(context.Background(), "invoices")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_SaveOverwritesWholeBlob(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Save(ctx, "invoices", []byte(`[{"id":"a"},{"id":"b"}]`)); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := s.Save(ctx, "invoices", []byte(`[]`)); err != nil {
				t.Fatalf("second save: %v", err)
			}
			got, err := s.Load(ctx, "invoices")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if string(got) != "[]" {
				t.Fatalf("expected overwritten blob, got %s", got)
			}
		})
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Save(ctx, "a", []byte("1")); err != nil {
				t.Fatal(err)
			}
			if err := s.Save(ctx, "b", []byte("2")); err != nil {
				t.Fatal(err)
			}
			got, err := s.Load(ctx, "a")
			if err != nil || string(got) != "1" {
				t.Fatalf("expected 1, got %s (%v)", got, err)
			}
		})
	}
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	if err := s.Save(context.Background(), "invoices", []byte("[]")); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "invoices.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only invoices.json, got %v", names)
	}
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s := NewFileStore(t.TempDir())
	if err := s.Save(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatalf("expected error for key with path separator")
	}
}

func TestMemoryStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	data := []byte("abc")
	if err := s.Save(ctx, "k", data); err != nil {
		t.Fatal(err)
	}
	data[0] = 'z'
	got, _ := s.Load(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("store kept a reference to caller's slice: %s", got)
	}
}
