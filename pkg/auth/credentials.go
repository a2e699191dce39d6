package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)

// CredentialStore is a source of the YouTube API key
type CredentialStore interface {
	// Name identifies the store in status output
	Name() string

	// Get returns the stored key or ErrCredentialsNotFound
	Get() (string, error)

	// Set saves the key; read-only stores return ErrStoreUnavailable
	Set(apiKey string) error

	// Delete removes the key; read-only stores return ErrStoreUnavailable
	Delete() error
}

// Credential is a resolved API key and the store it came from
type Credential struct {
	APIKey string
	Source string
}

// Masked returns the key with all but its edges hidden
func (c *Credential) Masked() string {
	return MaskKey(c.APIKey)
}

// Manager resolves the API key from an ordered chain of stores
type Manager struct {
	stores []CredentialStore
}

// NewManager creates the default chain: environment, system keyring, the
// encrypted credentials file, then the key from the config file if one is set
func NewManager(configKey string) *Manager {
	stores := []CredentialStore{
		NewEnvironmentStore(),
		NewKeyringStore(),
	}
	if path, err := DefaultEncryptedFilePath(); err == nil {
		stores = append(stores, NewEncryptedFileStore(path))
	}
	if configKey != "" {
		stores = append(stores, NewStaticStore("config", configKey))
	}
	return NewManagerWithStores(stores...)
}

// NewManagerWithStores creates a manager over an explicit chain
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Resolve returns the key from the first store that has one
func (m *Manager) Resolve() (*Credential, error) {
	var lookupErrs []error
	for _, store := range m.stores {
		key, err := store.Get()
		if err == nil && key != "" {
			return &Credential{APIKey: key, Source: store.Name()}, nil
		}
		if err != nil && !errors.Is(err, ErrCredentialsNotFound) {
			lookupErrs = append(lookupErrs, fmt.Errorf("%s: %w", store.Name(), err))
		}
	}

	if len(lookupErrs) > 0 {
		return nil, fmt.Errorf("%w (%v)", ErrCredentialsNotFound, errors.Join(lookupErrs...))
	}
	return nil, ErrCredentialsNotFound
}

// SetKey saves the key in the first store that accepts writes
func (m *Manager) SetKey(apiKey string) (string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return "", ErrInvalidCredentials
	}

	var lastErr error
	for _, store := range m.stores {
		err := store.Set(apiKey)
		if err == nil {
			return store.Name(), nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return "", fmt.Errorf("failed to store api key: %w", lastErr)
	}
	return "", errors.New("no available credential stores")
}

// ClearKey removes the key from every writable store
func (m *Manager) ClearKey() error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		err := store.Delete()
		switch {
		case err == nil:
			deleted = true
		case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrCredentialsNotFound):
		default:
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to delete api key: %w", lastErr)
	}
	if !deleted {
		return ErrCredentialsNotFound
	}
	return nil
}

// MaskKey masks all but the first 4 and last 4 characters of a key
func MaskKey(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
