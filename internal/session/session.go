// Package session persists the logged-in user between invocations.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/snfs-app/snfs/internal/config"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// ErrNotLoggedIn is returned when no usable session exists.
var ErrNotLoggedIn = errors.New("not logged in: run 'snfs login' first")

// Session identifies the current user. The backend has no tokens; every
// request names the acting user by id.
type Session struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// Path returns the session file location under the config directory.
func Path() string {
	return filepath.Join(config.ConfigDir(), "session.json")
}

// Save writes the session file.
// Creates parent directories if needed with 0700 permissions.
// The file is written with 0600 permissions.
func Save(path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Load reads the session file.
// Returns an error if the file doesn't exist or contains invalid JSON.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes the session file.
// Returns nil if the file doesn't exist.
func Delete(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Require loads the session or returns ErrNotLoggedIn.
// A file that cannot be parsed or names no user is removed.
func Require(path string) (*Session, error) {
	s, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		_ = Delete(path)
		return nil, ErrNotLoggedIn
	}
	if s.UserID <= 0 || s.Username == "" {
		_ = Delete(path)
		return nil, ErrNotLoggedIn
	}
	return s, nil
}

// Login authenticates against the backend and persists the session at path.
func Login(ctx context.Context, client *snfsapi.Client, path, username, password string) (*Session, error) {
	resp, err := client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	s := &Session{UserID: resp.User.UserID, Username: resp.User.Username}
	if err := Save(path, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}
