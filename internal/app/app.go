package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/andy/invoicer/internal/config"
	"github.com/andy/invoicer/internal/controller"
	"github.com/andy/invoicer/internal/crypto"
	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/ident"
	"github.com/andy/invoicer/internal/logging"
	"github.com/andy/invoicer/internal/printer"
	"github.com/andy/invoicer/internal/render"
	"github.com/andy/invoicer/internal/repository"
	"github.com/andy/invoicer/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Logger *zap.Logger

	// DB is nil for the file and memory backends
	DB    *db.DB
	Store storage.Store

	InvoiceRepo repository.InvoiceRepository
	Printer     printer.Printer
	Controller  *controller.Controller

	logCloser io.Closer
}

// Options override collaborators that are normally derived from the config
type Options struct {
	Keyring crypto.Keyring
	Logger  *zap.Logger
	IDs     ident.Generator
}

// New creates a new App instance from the default config file
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(ctx, cfg, Options{})
}

// NewWithConfig wires everything for cfg:
// 1. Logging
// 2. Storage backend (getting the encryption key for sqlcipher)
// 3. Migrations
// 4. Repository, printer and controller (the collection is loaded once here)
func NewWithConfig(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	a := &App{Config: cfg}

	if opts.Logger != nil {
		a.Logger = opts.Logger
	} else {
		logger, closer, err := logging.OpenFile(cfg.Log.Path, cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to open log: %w", err)
		}
		a.Logger, a.logCloser = logger, closer
	}

	if err := a.openStore(opts.Keyring); err != nil {
		a.Close()
		return nil, err
	}

	a.InvoiceRepo = repository.NewInvoiceRepo(a.Store, cfg.Storage.Key, a.Logger)
	a.Printer = printer.New(cfg.Invoice.OutputDir, cfg.Print.Format, cfg.Print.Command, a.Logger)

	ctrl, err := controller.NewController(ctx, controller.Deps{
		Repo:         a.InvoiceRepo,
		IDs:          opts.IDs,
		Printer:      a.Printer,
		Issuer:       Issuer(cfg),
		Logger:       a.Logger,
		DueDays:      cfg.Invoice.DefaultDueDays,
		NumberPrefix: cfg.Invoice.NumberPrefix,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Controller = ctrl

	a.Logger.Info("invoicer started",
		zap.String("backend", cfg.Storage.Backend),
		zap.Int("invoices", len(ctrl.Invoices())),
	)
	return a, nil
}

// Issuer returns the "From" block configured for printed invoices
func Issuer(cfg *config.Config) render.Issuer {
	return render.Issuer{
		Name:    cfg.Issuer.Name,
		Address: cfg.Issuer.Address,
		Email:   cfg.Issuer.Email,
	}
}

func (a *App) openStore(kr crypto.Keyring) error {
	cfg := a.Config.Storage

	switch cfg.Backend {
	case config.BackendMemory:
		a.Store = storage.NewMemoryStore()
		return nil
	case config.BackendFile:
		a.Store = storage.NewFileStore(cfg.Path)
		return nil
	case config.BackendSQLite:
		database, err := db.OpenPlain(cfg.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return a.useDB(database)
	case config.BackendSQLCipher:
		if kr == nil {
			kr = crypto.NewKeyring()
		}
		password, err := encryptionKey(kr, cfg.Path)
		if err != nil {
			return err
		}
		database, err := db.Open(cfg.Path, password)
		if err != nil {
			return fmt.Errorf("failed to open database (wrong encryption key?): %w", err)
		}
		return a.useDB(database)
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// useDB runs migrations and puts the blob table behind the store
func (a *App) useDB(database *db.DB) error {
	if err := database.RunMigrations(); err != nil {
		database.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	a.DB = database
	a.Store = storage.NewSQLStore(database)
	return nil
}

var isTerminal = func() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// encryptionKey gets the key from the keyring. Without one it asks on the
// terminal: a new password when dbPath does not exist yet, otherwise the
// password of the existing database.
func encryptionKey(kr crypto.Keyring, dbPath string) (string, error) {
	password, err := kr.GetKey()
	if err == nil {
		return password, nil
	}

	_, statErr := os.Stat(dbPath)
	existing := statErr == nil

	if !isTerminal() {
		if existing {
			return "", fmt.Errorf("%s is encrypted and no key was found (set %s): %w", dbPath, crypto.KeyEnv, err)
		}
		return "", fmt.Errorf("no database encryption key (set %s or use the sqlite backend): %w", crypto.KeyEnv, err)
	}

	if existing {
		password, err = promptForExistingPassword(dbPath)
	} else {
		fmt.Println("Setting up database encryption for the first time...")
		password, err = promptForPassword()
	}
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if err := kr.SetKey(password); err != nil {
		if !errors.Is(err, crypto.ErrNoKeyring) {
			return "", fmt.Errorf("failed to store encryption key: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Note: %v\n", err)
	}
	return password, nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.logCloser != nil {
		errs = append(errs, a.logCloser.Close())
	}
	return errors.Join(errs...)
}

// promptForPassword prompts user for a new database password (first run)
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your invoices will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// promptForExistingPassword asks for the password of an existing database
func promptForExistingPassword(dbPath string) (string, error) {
	fmt.Printf("Enter the password for %s: ", dbPath)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}
	return string(password), nil
}
