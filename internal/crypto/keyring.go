// Package crypto stores the database encryption key outside the database
package crypto

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
}

const (
	ServiceName = "invoicer"
	KeyName     = "db-encryption-key"

	// KeyEnv holds the key on platforms without a system keyring
	KeyEnv = "INVOICER_DB_KEY"
)

// NewKeyring returns the best available keyring implementation
func NewKeyring() Keyring {
	return newPlatformKeyring()
}

// StaticKeyring serves a key supplied up front (scripted runs, tests)
type StaticKeyring struct {
	Key string
}

func (k *StaticKeyring) GetKey() (string, error) {
	if k.Key == "" {
		return "", errNoKey
	}
	return k.Key, nil
}

func (k *StaticKeyring) SetKey(password string) error {
	if password == "" {
		return errEmptyPassword
	}
	k.Key = password
	return nil
}
