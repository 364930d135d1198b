// Package session persists the logged-in user's token and profile snapshot
// between CLI invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"storefront/internal/model"
)

var (
	// ErrNotLoggedIn is returned by RequireSession when no token is stored.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrCorrupt is returned by Load when the session file cannot be decoded.
	ErrCorrupt = errors.New("session file is corrupt")
)

// MsgNotLoggedIn is what a user is told when ErrNotLoggedIn occurs.
const MsgNotLoggedIn = "Please login first to access this page"

// Session is what login leaves behind.
type Session struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

// Store reads and writes a Session file.
type Store struct {
	path string
}

// NewStore returns a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is $XDG_CONFIG_HOME/storefront/session.json, or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "storefront", "session.json"), nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored session, or nil when none exists.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	return &sess, nil
}

// Save writes sess with owner-only permissions.
func (s *Store) Save(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// RequireSession gates views that need a login. It only checks that a
// token is present; the server decides whether the token is any good.
func RequireSession(s *Store) (*Session, error) {
	sess, err := s.Load()
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Token == "" {
		return nil, ErrNotLoggedIn
	}
	return sess, nil
}
