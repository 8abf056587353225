package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mutecomm/go-sqlcipher/v4"
	_ "modernc.org/sqlite"
)

// Driver names registered by the imported SQLite drivers
const (
	DriverSQLCipher = "sqlite3"
	DriverSQLite    = "sqlite"
)

type DB struct {
	*sql.DB
	driver string
}

// Open opens an encrypted SQLite database with the given password.
// dbPath is the full path to the database file.
func Open(dbPath, password string) (*DB, error) {
	if password == "" {
		return nil, fmt.Errorf("encryption password is required")
	}
	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(DriverSQLCipher, cipherDSN(dbPath, password))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return setup(sqlDB, DriverSQLCipher)
}

// cipherDSN builds the connection string carrying the encryption key
func cipherDSN(dbPath, password string) string {
	return fmt.Sprintf("%s?_key=%s", dbPath, url.QueryEscape(password))
}

// OpenPlain opens an unencrypted SQLite database (pure Go driver).
// Pass ":memory:" for a throwaway in-memory database.
func OpenPlain(dbPath string) (*DB, error) {
	if dbPath != ":memory:" {
		if err := ensureDir(dbPath); err != nil {
			return nil, err
		}
	}

	sqlDB, err := sql.Open(DriverSQLite, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		sqlDB.SetMaxOpenConns(1)
	}

	return setup(sqlDB, DriverSQLite)
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

func setup(sqlDB *sql.DB, driver string) (*DB, error) {
	// Enable WAL mode
	if _, err := sqlDB.Exec("PRAGMA journal_mode = WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB, driver: driver}, nil
}

// Driver returns the name of the driver backing this handle
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
