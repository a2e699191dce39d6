package auth

import "os"

// APIKeyEnvVars are read in order; the second is the name used by older deployments
var APIKeyEnvVars = []string{"VIDEOBATCH_API_KEY", "NUXT_GOOGLE_API_KEY"}

// EnvironmentStore reads the API key from environment variables
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func (e *EnvironmentStore) Name() string { return "environment" }

// Get returns the first non-empty API key variable
func (e *EnvironmentStore) Get() (string, error) {
	for _, name := range APIKeyEnvVars {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}
	return "", ErrCredentialsNotFound
}

// Set is not supported for environment variables
func (e *EnvironmentStore) Set(string) error {
	return ErrStoreUnavailable
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete() error {
	return ErrStoreUnavailable
}

// StaticStore holds a key supplied at construction, such as one from a config file
type StaticStore struct {
	name string
	key  string
}

// NewStaticStore creates a read-only store for key
func NewStaticStore(name, key string) *StaticStore {
	return &StaticStore{name: name, key: key}
}

func (s *StaticStore) Name() string { return s.name }

func (s *StaticStore) Get() (string, error) {
	if s.key == "" {
		return "", ErrCredentialsNotFound
	}
	return s.key, nil
}

func (s *StaticStore) Set(string) error { return ErrStoreUnavailable }

func (s *StaticStore) Delete() error { return ErrStoreUnavailable }
