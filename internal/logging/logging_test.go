package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"info":    zapcore.InfoLevel,
		"DEBUG":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown", zap.String("key", "invoices"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"key":"invoices"`) {
		t.Fatalf("expected warn message with fields: %s", out)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "invoicer.log")
	l, closer, err := OpenFile(path, "info")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	l.Info("saved invoices", zap.Int("count", 2))
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"count":2`) {
		t.Fatalf("expected log line in file, got %s", b)
	}
}

func TestOpenFile_EmptyPathRejectsBadLevel(t *testing.T) {
	if _, _, err := OpenFile("", "loud"); err == nil {
		t.Fatalf("expected level error")
	}
	l, closer, err := OpenFile("", "debug")
	if err != nil {
		t.Fatal(err)
	}
	l.Info("dropped")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
}
