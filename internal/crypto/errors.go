package crypto

import "errors"

// ErrNoKeyring is returned by SetKey where the key can only come from the
// environment
var ErrNoKeyring = errors.New("no system keyring on this platform")

var (
	errNoKey         = errors.New("encryption key not set")
	errEmptyPassword = errors.New("password cannot be empty")
)
