// Package auth holds the session token store and the gateway that drives
// login, logout and current-user checks against the data source.
package auth

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ServiceName is the keychain service the session token is filed under.
	ServiceName = "vitalmetrics"

	sessionAccount = "session"
)

// Backend names accepted by NewStore.
const (
	BackendKeyring = "keyring"
	BackendFile    = "file"
)

var (
	ErrTokenNotFound = errors.New("auth token not found")
	ErrEmptyToken    = errors.New("auth token cannot be empty")
)

// Store holds at most one bearer token. Get returns ErrTokenNotFound when
// no token is stored; Clear is a no-op in that case. Concurrent writers
// are last-write-wins.
type Store interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}

// DefaultStore returns the standard session store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NewStore returns the store for the named backend. An empty name selects
// the keychain.
func NewStore(backend string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendKeyring:
		return NewKeyringStore(ServiceName), nil
	case BackendFile:
		path, err := DefaultFilePath()
		if err != nil {
			return nil, err
		}
		return NewFileStore(path), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q (expected %q or %q)", backend, BackendKeyring, BackendFile)
	}
}

// ClearIfCurrent clears store only while it still holds token. A rejection
// of an older token must not remove a session stored since it was read.
// It reports whether the store was cleared.
func ClearIfCurrent(store Store, token string) (bool, error) {
	current, err := store.Get()
	switch {
	case errors.Is(err, ErrTokenNotFound):
		return false, nil
	case err != nil:
		return false, err
	case current != token:
		return false, nil
	}
	if err := store.Clear(); err != nil {
		return false, err
	}
	return true, nil
}
