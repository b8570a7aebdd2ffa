package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/existflow/taskdeck/internal/model"
)

// Session holds the authenticated user and bearer token. It is persisted
// to ~/.taskdeck/session.json so logins survive restarts.
type Session struct {
	Token   string     `json:"token"`
	User    model.User `json:"user"`
	SavedAt time.Time  `json:"saved_at"`

	path string
}

// DefaultPath returns the session file location
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskdeck", "session.json"), nil
}

// Load reads the persisted session. A missing file is not an error:
// it returns (nil, nil), meaning no one is logged in.
func Load() (*Session, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a session from an explicit path
func LoadFrom(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	s := &Session{path: path}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, nil
	}
	return s, nil
}

// New creates a session ready to be saved
func New(token string, user model.User) (*Session, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user, SavedAt: time.Now(), path: path}, nil
}

// Save persists the session to disk
func (s *Session) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the persisted session
func Clear() error {
	path, err := DefaultPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
