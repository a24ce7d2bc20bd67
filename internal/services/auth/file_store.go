package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const sessionFile = "session"

// FileStore keeps the token in a 0600 file. It is the fallback for hosts
// without a usable keychain (CI, containers, headless servers).
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath returns <UserConfigDir>/vitalmetrics/session.
func DefaultFilePath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("auth: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, ServiceName, sessionFile), nil
}

func (f *FileStore) Get() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("auth: failed to read %s: %w", f.path, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (f *FileStore) Set(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("auth: failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, sessionFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("auth: failed to write session: %w", err)
	}
	name := tmp.Name()

	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("auth: failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("auth: failed to write session: %w", err)
	}
	if err := os.Chmod(name, 0o600); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("auth: failed to write session: %w", err)
	}
	return os.Rename(name, f.path)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("auth: failed to remove %s: %w", f.path, err)
	}
	return nil
}
