package keyring

import (
	"errors"
	"os"
	"strings"

	gokeyring "github.com/zalando/go-keyring"
)

const (
	// ServiceName is the keyring service name for storing secrets.
	// Uses reverse domain notation for proper namespacing.
	ServiceName = "com.snfs.cli"

	// passwordKeyPrefix namespaces remembered passwords by username.
	passwordKeyPrefix = "password:"

	// EnvPassword is the environment variable name for the login password.
	// When set, it overrides keyring lookups for CI/headless environments.
	EnvPassword = "SNFS_PASSWORD"
)

// ErrNotFound is returned when a secret is not found in the keyring.
var ErrNotFound = errors.New("secret not found")

// PasswordKey returns the keyring key holding username's password.
func PasswordKey(username string) string {
	return passwordKeyPrefix + username
}

// Store provides an interface for secure secret storage.
type Store interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// SavePassword remembers the password for username.
func SavePassword(store Store, username, password string) error {
	return store.Set(ServiceName, PasswordKey(username), password)
}

// LoadPassword returns the remembered password for username.
// Returns ErrNotFound when none is stored.
func LoadPassword(store Store, username string) (string, error) {
	return store.Get(ServiceName, PasswordKey(username))
}

// ForgetPassword removes the remembered password for username.
func ForgetPassword(store Store, username string) error {
	return store.Delete(ServiceName, PasswordKey(username))
}

// SystemStore implements Store using the system keyring.
type SystemStore struct{}

// NewSystemStore creates a new system keyring store.
func NewSystemStore() *SystemStore {
	return &SystemStore{}
}

// Get retrieves a secret from the system keyring.
func (s *SystemStore) Get(service, key string) (string, error) {
	secret, err := gokeyring.Get(service, key)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return secret, nil
}

// Set stores a secret in the system keyring.
func (s *SystemStore) Set(service, key, value string) error {
	return gokeyring.Set(service, key, value)
}

// Delete removes a secret from the system keyring.
func (s *SystemStore) Delete(service, key string) error {
	err := gokeyring.Delete(service, key)
	if err != nil && errors.Is(err, gokeyring.ErrNotFound) {
		return nil // Deleting non-existent key is not an error
	}
	return err
}

// EnvStore wraps another Store and checks environment variables first.
// This enables CI/headless environments to provide credentials via env vars.
type EnvStore struct {
	underlying Store
}

// NewEnvStore creates a new EnvStore wrapping the given store.
func NewEnvStore(underlying Store) *EnvStore {
	return &EnvStore{underlying: underlying}
}

// Get retrieves a secret, checking the env var first for password lookups.
func (e *EnvStore) Get(service, key string) (string, error) {
	if strings.HasPrefix(key, passwordKeyPrefix) {
		if envVal := os.Getenv(EnvPassword); envVal != "" {
			return envVal, nil
		}
	}
	return e.underlying.Get(service, key)
}

// Set stores a secret in the underlying store.
func (e *EnvStore) Set(service, key, value string) error {
	return e.underlying.Set(service, key, value)
}

// Delete removes a secret from the underlying store.
func (e *EnvStore) Delete(service, key string) error {
	return e.underlying.Delete(service, key)
}
