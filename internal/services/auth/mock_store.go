package auth

import "sync"

// MockStore is an in-memory session store for testing.
type MockStore struct {
	mu    sync.Mutex
	token string

	// SetErr and ClearErr, when set, are returned by Set and Clear.
	SetErr   error
	ClearErr error
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

// NewMockStoreWithToken returns a MockStore already holding token.
func NewMockStoreWithToken(token string) *MockStore {
	return &MockStore{token: token}
}

func (m *MockStore) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	if token == "" {
		return ErrEmptyToken
	}
	m.token = token
	return nil
}

func (m *MockStore) Get() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ErrTokenNotFound
	}
	return m.token, nil
}

func (m *MockStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.token = ""
	return nil
}
