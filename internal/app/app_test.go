package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andy/invoicer/internal/config"
	"github.com/andy/invoicer/internal/controller"
	"github.com/andy/invoicer/internal/crypto"
	"github.com/andy/invoicer/internal/editor"
	"github.com/andy/invoicer/internal/ident"
	"github.com/andy/invoicer/internal/logging"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = backend
	cfg.Storage.Path = filepath.Join(dir, "data")
	if backend == config.BackendSQLite || backend == config.BackendSQLCipher {
		cfg.Storage.Path = filepath.Join(dir, "invoicer.db")
	}
	cfg.Invoice.OutputDir = filepath.Join(dir, "out")
	cfg.Log.Path = filepath.Join(dir, "invoicer.log")
	return cfg
}

// createOne drives the controller through a full create and submit
func createOne(t *testing.T, a *App, client string) {
	t.Helper()
	ed, err := a.Controller.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ed.UpdateField(editor.FieldClientName, client)
	if _, err := a.Controller.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func TestNewWithConfig_PersistsAcrossRestarts(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t, backend)

			a, err := NewWithConfig(ctx, cfg, Options{Logger: logging.Discard()})
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			createOne(t, a, "ACME")
			if err := a.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}

			b, err := NewWithConfig(ctx, cfg, Options{Logger: logging.Discard()})
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer b.Close()

			all := b.Controller.Invoices()
			if len(all) != 1 || all[0].ClientName != "ACME" {
				t.Fatalf("expected persisted invoice, got %+v", all)
			}
		})
	}
}

func TestNewWithConfig_SQLCipherUsesKeyring(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLCipher)
	kr := &crypto.StaticKeyring{Key: "correct horse"}

	a, err := NewWithConfig(ctx, cfg, Options{Keyring: kr, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	createOne(t, a, "Initech")
	a.Close()

	b, err := NewWithConfig(ctx, cfg, Options{Keyring: kr, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	if n := len(b.Controller.Invoices()); n != 1 {
		t.Fatalf("expected 1 invoice, got %d", n)
	}
}

func TestNewWithConfig_MemoryBackendWritesLogAndPrints(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendMemory)
	cfg.Print.Format = "txt"

	a, err := NewWithConfig(ctx, cfg, Options{IDs: &ident.Sequence{Prefix: "inv"}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	if a.DB != nil {
		t.Fatalf("memory backend should not open a database")
	}
	if _, ok := a.Controller.State().(controller.Listing); !ok {
		t.Fatalf("expected listing")
	}

	createOne(t, a, "Globex")
	if err := a.Controller.Select("inv-1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	out, err := a.Controller.Print(ctx)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if filepath.Dir(out) != cfg.Invoice.OutputDir || filepath.Ext(out) != ".txt" {
		t.Fatalf("unexpected print output %s", out)
	}
}

func TestIssuer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Issuer.Email = "me@example.test"
	iss := Issuer(cfg)
	if iss.Name != "Your Company Name" || len(iss.Address) != 2 || iss.Email != "me@example.test" {
		t.Fatalf("unexpected issuer %+v", iss)
	}
}

func noTerminal(t *testing.T) {
	t.Helper()
	prev := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = prev })
}

func TestEncryptionKey_UsesKeyring(t *testing.T) {
	noTerminal(t)
	got, err := encryptionKey(&crypto.StaticKeyring{Key: "k"}, filepath.Join(t.TempDir(), "x.db"))
	if err != nil || got != "k" {
		t.Fatalf("expected keyring key, got %q (%v)", got, err)
	}
}

func TestEncryptionKey_MissingKeyForExistingDatabase(t *testing.T) {
	noTerminal(t)
	path := filepath.Join(t.TempDir(), "invoicer.db")
	if err := os.WriteFile(path, []byte("encrypted"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := encryptionKey(&crypto.StaticKeyring{}, path)
	if err == nil {
		t.Fatalf("expected error without a key")
	}
	if !strings.Contains(err.Error(), "is encrypted") || !strings.Contains(err.Error(), crypto.KeyEnv) {
		t.Fatalf("error should point at the existing database and %s: %v", crypto.KeyEnv, err)
	}
}

func TestEncryptionKey_MissingKeyOnFirstRun(t *testing.T) {
	noTerminal(t)
	_, err := encryptionKey(&crypto.StaticKeyring{}, filepath.Join(t.TempDir(), "invoicer.db"))
	if err == nil || !strings.Contains(err.Error(), crypto.KeyEnv) {
		t.Fatalf("expected error naming %s, got %v", crypto.KeyEnv, err)
	}
	if strings.Contains(err.Error(), "is encrypted") {
		t.Fatalf("first run should not claim a database exists: %v", err)
	}
}
