package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) Set(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	return keyring.Set(k.serviceName, sessionAccount, token)
}

func (k *KeyringStore) Get() (string, error) {
	token, err := keyring.Get(k.serviceName, sessionAccount)
	if err == nil {
		return token, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrTokenNotFound
	}
	return "", err
}

func (k *KeyringStore) Clear() error {
	err := keyring.Delete(k.serviceName, sessionAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
