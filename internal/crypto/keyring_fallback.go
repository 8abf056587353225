//go:build !darwin

package crypto

import (
	"fmt"
	"os"
)

type envKeyring struct{}

func newPlatformKeyring() Keyring {
	return &envKeyring{}
}

// GetKey reads the key from INVOICER_DB_KEY
func (k *envKeyring) GetKey() (string, error) {
	key := os.Getenv(KeyEnv)
	if key == "" {
		return "", fmt.Errorf("%w: %s is not set", errNoKey, KeyEnv)
	}
	return key, nil
}

// SetKey cannot persist anything here; the user has to export the variable
func (k *envKeyring) SetKey(password string) error {
	if password == "" {
		return errEmptyPassword
	}
	return fmt.Errorf("%w: export %s with your database password to keep it between runs", ErrNoKeyring, KeyEnv)
}
