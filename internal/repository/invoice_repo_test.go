package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/logging"
	"github.com/andy/invoicer/internal/storage"
	"github.com/shopspring/decimal"
)

// failingStore fails every call
type failingStore struct{}

func (failingStore) Load(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}
func (failingStore) Save(ctx context.Context, key string, data []byte) error {
	return errors.New("disk on fire")
}

func sampleInvoices() []domain.Invoice {
	return []domain.Invoice{
		{
			ID:            "a",
			Number:        "INV-2026-7",
			Date:          "2026-01-02",
			DueDate:       "2026-01-16",
			ClientName:    "ACME",
			ClientEmail:   "billing@acme.test",
			ClientAddress: "1 Road\nTown",
			Items: []domain.Item{
				{ID: "i1", Description: "Widget", Quantity: decimal.NewFromInt(2), Price: decimal.RequireFromString("9.99")},
				{ID: "i2", Description: "Shipping", Quantity: decimal.NewFromInt(1), Price: decimal.RequireFromString("5.00")},
			},
			Notes: "Thanks!",
		},
		{
			ID:         "b",
			Number:     "INV-2026-8",
			Date:       "2026-02-01",
			DueDate:    "2026-02-15",
			ClientName: "Globex",
			Items:      []domain.Item{},
		},
	}
}

func assertSameInvoices(t *testing.T, want, got []domain.Invoice) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("expected %d invoices, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.ID != g.ID || w.Number != g.Number || w.Date != g.Date || w.DueDate != g.DueDate ||
			w.ClientName != g.ClientName || w.ClientEmail != g.ClientEmail ||
			w.ClientAddress != g.ClientAddress || w.Notes != g.Notes {
			t.Fatalf("invoice %d differs:\nwant %+v\ngot  %+v", i, w, g)
		}
		if len(w.Items) != len(g.Items) {
			t.Fatalf("invoice %d: expected %d items, got %d", i, len(w.Items), len(g.Items))
		}
		for j := range w.Items {
			wi, gi := w.Items[j], g.Items[j]
			if wi.ID != gi.ID || wi.Description != gi.Description ||
				!wi.Quantity.Equal(gi.Quantity) || !wi.Price.Equal(gi.Price) {
				t.Fatalf("invoice %d item %d differs: want %+v got %+v", i, j, wi, gi)
			}
		}
	}
}

func TestLoadAll_NoDataReturnsEmpty(t *testing.T) {
	repo := NewInvoiceRepo(storage.NewMemoryStore(), "", logging.Discard())

	invoices, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invoices == nil || len(invoices) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", invoices)
	}
}

func TestSaveAllLoadAll_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(storage.NewMemoryStore(), "invoices", logging.Discard())

	want := sampleInvoices()
	if err := repo.SaveAll(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSameInvoices(t, want, got)
}

func TestSaveAll_OverwritesWholeCollection(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(storage.NewMemoryStore(), "invoices", logging.Discard())

	if err := repo.SaveAll(ctx, sampleInvoices()); err != nil {
		t.Fatal(err)
	}
	only := sampleInvoices()[1:]
	if err := repo.SaveAll(ctx, only); err != nil {
		t.Fatal(err)
	}

	got, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assertSameInvoices(t, only, got)
}

func TestSaveAll_WireFormat(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewInvoiceRepo(store, "invoices", logging.Discard())

	if err := repo.SaveAll(ctx, sampleInvoices()[:1]); err != nil {
		t.Fatal(err)
	}
	data, err := store.Load(ctx, "invoices")
	if err != nil {
		t.Fatal(err)
	}

	s := string(data)
	for _, field := range []string{
		`"id":"a"`, `"number":"INV-2026-7"`, `"date":"2026-01-02"`, `"dueDate":"2026-01-16"`,
		`"clientName":"ACME"`, `"clientEmail":"billing@acme.test"`, `"clientAddress":"1 Road\nTown"`,
		`"description":"Widget"`, `"quantity":2`, `"price":9.99`, `"notes":"Thanks!"`,
	} {
		if !strings.Contains(s, field) {
			t.Fatalf("expected %s in %s", field, s)
		}
	}
}

func TestLoadAll_ReadsOriginalFormat(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	raw := `[{"id":"x","number":"INV-2025-3","date":"2025-05-01","dueDate":"2025-05-15",
		"clientName":"Initech","clientEmail":"a@b.c","clientAddress":"Here",
		"items":[{"id":"it","description":"Consulting","quantity":3,"price":120.5}],"notes":""}]`
	if err := store.Save(ctx, "invoices", []byte(raw)); err != nil {
		t.Fatal(err)
	}

	repo := NewInvoiceRepo(store, "invoices", logging.Discard())
	got, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || len(got[0].Items) != 1 {
		t.Fatalf("unexpected result %+v", got)
	}
	if want := decimal.RequireFromString("361.5"); !got[0].Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, got[0].Total())
	}
}

func TestLoadAll_MalformedDataReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{
		"not json",
		`{"id":"object-not-array"}`,
		`[{"id":"a","items":[{"id":"i","quantity":"lots"}]}]`,
	} {
		store := storage.NewMemoryStore()
		if err := store.Save(ctx, "invoices", []byte(raw)); err != nil {
			t.Fatal(err)
		}
		repo := NewInvoiceRepo(store, "invoices", logging.Discard())

		got, err := repo.LoadAll(ctx)
		if err != nil {
			t.Fatalf("%q: expected no error, got %v", raw, err)
		}
		if len(got) != 0 {
			t.Fatalf("%q: expected empty collection, got %d", raw, len(got))
		}
	}
}

func TestRepo_BackendFailuresSurface(t *testing.T) {
	repo := NewInvoiceRepo(failingStore{}, "invoices", logging.Discard())

	if _, err := repo.LoadAll(context.Background()); err == nil {
		t.Fatalf("expected load error from broken backend")
	}
	if err := repo.SaveAll(context.Background(), sampleInvoices()); err == nil {
		t.Fatalf("expected save error from broken backend")
	}
}
