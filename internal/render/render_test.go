package render

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/andy/invoicer/internal/domain"
	"github.com/shopspring/decimal"
)

func sampleInvoice() domain.Invoice {
	return domain.Invoice{
		ID:            "a",
		Number:        "INV-2026-7",
		Date:          "2026-01-02",
		DueDate:       "2026-01-16",
		ClientName:    "ACME",
		ClientEmail:   "billing@acme.test",
		ClientAddress: "1 Road\nSpringfield",
		Items: []domain.Item{
			{ID: "1", Description: "Widget", Quantity: decimal.NewFromInt(2), Price: decimal.RequireFromString("9.99")},
			{ID: "2", Description: "Shipping", Quantity: decimal.NewFromInt(1), Price: decimal.RequireFromString("5")},
		},
	}
}

var issuer = Issuer{Name: "Your Company Name", Address: []string{"123 Business Street", "City, State 12345"}}

func TestRender_Projection(t *testing.T) {
	inv := sampleInvoice()
	doc := Render(inv, issuer)

	if doc.Number != inv.Number || doc.Date != inv.Date || doc.DueDate != inv.DueDate {
		t.Fatalf("header mismatch: %+v", doc)
	}
	if doc.BillTo.Name != "ACME" || doc.BillTo.Email != "billing@acme.test" {
		t.Fatalf("bill-to mismatch: %+v", doc.BillTo)
	}
	if len(doc.BillTo.Address) != 2 || doc.BillTo.Address[1] != "Springfield" {
		t.Fatalf("address not split into lines: %v", doc.BillTo.Address)
	}
	if len(doc.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(doc.Rows))
	}
	if !doc.Rows[0].Amount.Equal(decimal.RequireFromString("19.98")) {
		t.Fatalf("expected row amount 19.98, got %s", doc.Rows[0].Amount)
	}
	if !doc.Total.Equal(inv.Total()) {
		t.Fatalf("document total %s differs from invoice total %s", doc.Total, inv.Total())
	}
	if doc.HasNotes() {
		t.Fatalf("expected no notes section")
	}
}

func TestRender_DoesNotMutate(t *testing.T) {
	inv := sampleInvoice()
	doc := Render(inv, issuer)
	doc.Rows[0].Description = "changed"
	if inv.Items[0].Description != "Widget" {
		t.Fatalf("render shares state with the invoice")
	}
}

func TestText_Layout(t *testing.T) {
	inv := sampleInvoice()
	inv.Notes = "Thank you for your business"
	out := Render(inv, issuer).Text()

	for _, want := range []string{
		"INVOICE",
		"Invoice #:  INV-2026-7",
		"Due Date:   2026-01-16",
		"Your Company Name",
		"123 Business Street",
		"Bill To:",
		"  Springfield",
		"Widget",
		"$9.99",
		"$19.98",
		"$24.98",
		"Notes:",
		"Thank you for your business",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestText_OmitsEmptyNotes(t *testing.T) {
	inv := sampleInvoice()
	out := Render(inv, issuer).Text()
	if strings.Contains(out, "Notes:") {
		t.Fatalf("notes section should be omitted:\n%s", out)
	}
}

func TestText_KeepsWhitespaceOnlyNotes(t *testing.T) {
	inv := sampleInvoice()
	inv.Notes = "   "
	doc := Render(inv, issuer)
	if !doc.HasNotes() || doc.Notes != "   " {
		t.Fatalf("non-empty notes should be kept, got %q", doc.Notes)
	}
	if !strings.Contains(doc.Text(), "Notes:") {
		t.Fatalf("notes section should be shown:\n%s", doc.Text())
	}
}

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":           "$0.00",
		"5":           "$5.00",
		"19.98":       "$19.98",
		"1234.5":      "$1,234.50",
		"1234567.891": "$1,234,567.89",
		"-42.1":       "-$42.10",
	}
	for in, want := range tests {
		if got := FormatMoney(decimal.RequireFromString(in)); got != want {
			t.Fatalf("%s: expected %s, got %s", in, want, got)
		}
	}
}

func TestWritePDF(t *testing.T) {
	inv := sampleInvoice()
	inv.Notes = "Net 14, café on us"

	var buf bytes.Buffer
	if err := WritePDF(&buf, Render(inv, issuer)); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"ACME", 10, "ACME"},
		{"Müller & Söhne GmbH", 10, "Müller ..."},
		{"日本語の請求書", 5, "日本..."},
		{"ééééé", 3, "ééé"},
	}
	for _, tt := range tests {
		got := Truncate(tt.in, tt.max)
		if got != tt.want {
			t.Fatalf("Truncate(%q, %d): expected %q, got %q", tt.in, tt.max, tt.want, got)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("Truncate(%q, %d) produced invalid UTF-8", tt.in, tt.max)
		}
	}
}
