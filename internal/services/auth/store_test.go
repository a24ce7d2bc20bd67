package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	keyring.MockInit()
	return map[string]Store{
		"keyring": NewKeyringStore("vitalmetrics-test"),
		"file":    NewFileStore(filepath.Join(t.TempDir(), "nested", "session")),
		"mock":    NewMockStore(),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(); !errors.Is(err, ErrTokenNotFound) {
				t.Fatalf("Get on empty store: expected ErrTokenNotFound, got %v", err)
			}

			if err := s.Set("tok-1"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			got, err := s.Get()
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got != "tok-1" {
				t.Errorf("Get = %q, want %q", got, "tok-1")
			}

			if err := s.Set("tok-2"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if got, _ := s.Get(); got != "tok-2" {
				t.Errorf("after overwrite Get = %q, want %q", got, "tok-2")
			}

			if err := s.Clear(); err != nil {
				t.Fatalf("Clear failed: %v", err)
			}
			if _, err := s.Get(); !errors.Is(err, ErrTokenNotFound) {
				t.Errorf("Get after Clear: expected ErrTokenNotFound, got %v", err)
			}
		})
	}
}

func TestStore_ClearWhenEmpty(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Clear(); err != nil {
				t.Errorf("Clear on empty store: %v", err)
			}
		})
	}
}

func TestStore_SetEmptyToken(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(""); !errors.Is(err, ErrEmptyToken) {
				t.Errorf("expected ErrEmptyToken, got %v", err)
			}
		})
	}
}

func TestFileStore_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	s := NewFileStore(path)
	if err := s.Set("secret"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected mode 0600, got %o", perm)
	}
}

func TestFileStore_BlankFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Get(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		backend string
		want    string
		wantErr bool
	}{
		{backend: "", want: "*auth.KeyringStore"},
		{backend: "keyring", want: "*auth.KeyringStore"},
		{backend: " FILE ", want: "*auth.FileStore"},
		{backend: "redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := NewStore(tt.backend)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewStore failed: %v", err)
			}
			switch s.(type) {
			case *KeyringStore:
				if tt.want != "*auth.KeyringStore" {
					t.Errorf("got KeyringStore, want %s", tt.want)
				}
			case *FileStore:
				if tt.want != "*auth.FileStore" {
					t.Errorf("got FileStore, want %s", tt.want)
				}
			default:
				t.Errorf("unexpected store type %T", s)
			}
		})
	}
}

func TestClearIfCurrent(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if cleared, err := ClearIfCurrent(s, "tok-1"); err != nil || cleared {
				t.Fatalf("empty store: cleared=%v err=%v, want false, nil", cleared, err)
			}

			if err := s.Set("tok-2"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if cleared, err := ClearIfCurrent(s, "tok-1"); err != nil || cleared {
				t.Fatalf("other token: cleared=%v err=%v, want false, nil", cleared, err)
			}
			if got, _ := s.Get(); got != "tok-2" {
				t.Errorf("Get = %q, want tok-2 to survive", got)
			}

			if cleared, err := ClearIfCurrent(s, "tok-2"); err != nil || !cleared {
				t.Fatalf("same token: cleared=%v err=%v, want true, nil", cleared, err)
			}
			if _, err := s.Get(); !errors.Is(err, ErrTokenNotFound) {
				t.Errorf("expected ErrTokenNotFound after clear, got %v", err)
			}
		})
	}
}
