package printer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/logging"
	"github.com/andy/invoicer/internal/render"
	"github.com/shopspring/decimal"
)

func sampleDoc() render.Document {
	inv := domain.Invoice{
		ID:         "a",
		Number:     "INV/2026 7",
		Date:       "2026-01-02",
		DueDate:    "2026-01-16",
		ClientName: "ACME",
		Items: []domain.Item{
			{ID: "1", Description: "Widget", Quantity: decimal.NewFromInt(2), Price: decimal.RequireFromString("9.99")},
		},
	}
	return render.Render(inv, render.Issuer{Name: "Me"})
}

func TestFilePrinter_PDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	p := NewFilePrinter(dir, "")

	path, err := p.Print(context.Background(), sampleDoc())
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if filepath.Base(path) != "INV_2026_7.pdf" {
		t.Fatalf("unexpected file name %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("expected pdf content")
	}
}

func TestFilePrinter_Text(t *testing.T) {
	p := NewFilePrinter(t.TempDir(), FormatText)

	path, err := p.Print(context.Background(), sampleDoc())
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "$19.98") {
		t.Fatalf("expected rendered text, got:\n%s", b)
	}
}

func TestFilePrinter_UnknownFormat(t *testing.T) {
	p := NewFilePrinter(t.TempDir(), "docx")
	if _, err := p.Print(context.Background(), sampleDoc()); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestNew_WithoutCommandIsFilePrinter(t *testing.T) {
	if _, ok := New(t.TempDir(), FormatText, "  ", logging.Discard()).(*FilePrinter); !ok {
		t.Fatalf("expected a file printer when no command is configured")
	}
}

func TestCommandPrinter_HandsOffFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell command")
	}
	dir := t.TempDir()
	marker := filepath.Join(dir, "printed")

	// the fake print command copies the file it receives to marker
	script := filepath.Join(dir, "fakeprint.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\ncp \"$1\" "+marker+"\n"), 0755); err != nil {
		t.Fatal(err)
	}

	p := New(filepath.Join(dir, "out"), FormatText, script, logging.Discard())
	path, err := p.Print(context.Background(), sampleDoc())
	if err != nil {
		t.Fatalf("print: %v", err)
	}

	got, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("print command did not run: %v", err)
	}
	want, _ := os.ReadFile(path)
	if !bytes.Equal(got, want) {
		t.Fatalf("print command received a different file")
	}
}

func TestCommandPrinter_CommandFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX command")
	}
	p := New(t.TempDir(), FormatText, "false", logging.Discard())
	path, err := p.Print(context.Background(), sampleDoc())
	if err == nil {
		t.Fatalf("expected error from failing print command")
	}
	if path == "" {
		t.Fatalf("expected file path even when the hand-off fails")
	}
}
