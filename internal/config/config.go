package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendSQLCipher = "sqlcipher"
	BackendSQLite    = "sqlite"
	BackendFile      = "file"
	BackendMemory    = "memory"
)

type Config struct {
	// Storage settings
	Storage StorageConfig `yaml:"storage" envPrefix:"STORAGE_"`

	// Invoice defaults
	Invoice InvoiceConfig `yaml:"invoice"`

	// Issuer shown in the "From" block of printed invoices
	Issuer IssuerConfig `yaml:"issuer"`

	Print PrintConfig `yaml:"print" envPrefix:"PRINT_"`

	Log LogConfig `yaml:"log" envPrefix:"LOG_"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" env:"BACKEND"` // sqlcipher, sqlite, file or memory
	Path    string `yaml:"path" env:"PATH"`       // database file, or directory for the file backend
	Key     string `yaml:"key" env:"KEY"`         // key the invoice collection is stored under
}

type InvoiceConfig struct {
	DefaultDueDays int    `yaml:"default_due_days"` // Days until invoice due
	NumberPrefix   string `yaml:"number_prefix"`    // Suggested number prefix (e.g., "INV")
	OutputDir      string `yaml:"output_dir" env:"OUTPUT_DIR"`
}

type IssuerConfig struct {
	Name    string   `yaml:"name"`
	Address []string `yaml:"address"`
	Email   string   `yaml:"email"`
}

type PrintConfig struct {
	Format  string `yaml:"format" env:"FORMAT"`   // pdf or txt
	Command string `yaml:"command" env:"COMMAND"` // e.g. "lp"; empty writes the file only
}

type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"` // debug, info, warn, error
	Path  string `yaml:"path" env:"PATH"`
}

// EnvPrefix is prepended to every environment override
const EnvPrefix = "INVOICER_"

// Dir returns ~/.config/invoicer
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", "invoicer")
}

// DefaultConfigPath returns ~/.config/invoicer/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := Dir()

	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLCipher,
			Path:    filepath.Join(dir, "invoicer.db"),
			Key:     "invoices",
		},
		Invoice: InvoiceConfig{
			DefaultDueDays: 14,
			NumberPrefix:   "INV",
			OutputDir:      filepath.Join(dir, "invoices"),
		},
		Issuer: IssuerConfig{
			Name:    "Your Company Name",
			Address: []string{"123 Business Street", "City, State 12345"},
		},
		Print: PrintConfig{
			Format: "pdf",
		},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(dir, "invoicer.log"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// ApplyEnv overrides fields from INVOICER_* environment variables
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate returns an error if the config cannot be used
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLCipher, BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage key is required")
	}
	switch c.Print.Format {
	case "pdf", "txt":
	default:
		return fmt.Errorf("unknown print format %q", c.Print.Format)
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates all necessary directories (for storage, printed invoices, logs)
func (c *Config) EnsureDirectories() error {
	storageDir := filepath.Dir(c.Storage.Path)
	if c.Storage.Backend == BackendFile {
		storageDir = c.Storage.Path
	}
	if c.Storage.Backend != BackendMemory {
		if err := os.MkdirAll(storageDir, 0700); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(c.Invoice.OutputDir, 0755); err != nil {
		return err
	}

	if c.Log.Path != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.Path), 0755); err != nil {
			return err
		}
	}

	return nil
}
