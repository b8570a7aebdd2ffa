package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/existflow/taskdeck/internal/model"
)

func TestLoadFromMissingFile(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if s != nil {
		t.Errorf("missing file should mean logged out, got %+v", s)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := &Session{
		Token:   "tok-123",
		User:    model.User{ID: "u1", Name: "Tester", Email: "t@example.com", Verified: true},
		SavedAt: time.Now().UTC().Truncate(time.Second),
		path:    path,
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("session file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("session file mode = %o, want 0600", perm)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if got == nil {
		t.Fatal("saved session should load")
	}
	if got.Token != "tok-123" || got.User.Email != "t@example.com" || !got.User.Verified {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestLoadFromEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"token":""}`), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if s != nil {
		t.Error("a session without a token means logged out")
	}
}

func TestLoadFromCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("corrupt session file should surface an error")
	}
}
