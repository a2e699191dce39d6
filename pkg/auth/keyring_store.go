package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "videobatch"
	keyringUser    = "youtube_api_key"
)

// KeyringStore implements CredentialStore using the system keychain
type KeyringStore struct {
	service string
	user    string
}

// NewKeyringStore creates a new keyring-based credential store
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: keyringService, user: keyringUser}
}

func (k *KeyringStore) Name() string { return "keyring" }

// Get reads the key from the system keychain
func (k *KeyringStore) Get() (string, error) {
	key, err := keyring.Get(k.service, k.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrCredentialsNotFound
		}
		return "", fmt.Errorf("failed to retrieve from keyring: %w", err)
	}
	return key, nil
}

// Set saves the key to the system keychain
func (k *KeyringStore) Set(apiKey string) error {
	if apiKey == "" {
		return ErrInvalidCredentials
	}
	if err := keyring.Set(k.service, k.user, apiKey); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}
	return nil
}

// Delete removes the key from the system keychain
func (k *KeyringStore) Delete() error {
	err := keyring.Delete(k.service, k.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}
