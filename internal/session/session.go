package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/skillgate/skillgate/internal/skillgate"
)

// Session holds the bearer token and the cached user identity. The user
// record is read-only here: it is whatever the backend returned at login or
// registration.
type Session struct {
	Token string          `json:"token,omitempty"`
	User  *skillgate.User `json:"user,omitempty"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}

func (s *Session) CurrentUser() *skillgate.User {
	if s == nil {
		return nil
	}
	return s.User
}

// Store persists the session to a single local file. It is mutated by exactly
// three events: login/registration (Save), explicit logout (Clear), and the
// HTTP client's 401 hook (Clear).
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath places the session file under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".skillgate", "session.json"), nil
}

// Load reads the stored session. A missing file is not an error: it means
// nobody is logged in.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, fmt.Errorf("reading session file %q: %w", s.path, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing session file %q: %w", s.path, err)
	}

	return &session, nil
}

func (s *Store) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file %q: %w", s.path, err)
	}

	return nil
}

// Clear discards stored credentials. Clearing an absent session is a no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file %q: %w", s.path, err)
	}
	return nil
}
