package model

import (
	"testing"
	"time"
)

func TestIDKinds(t *testing.T) {
	remote := RemoteID("abc123")
	if remote.Local {
		t.Error("RemoteID must not be local")
	}
	if remote.String() != "abc123" {
		t.Errorf("String = %q, want abc123", remote.String())
	}

	local := NewLocalID()
	if !local.Local {
		t.Error("NewLocalID must be local")
	}
	if local.IsZero() {
		t.Error("minted ID must not be zero")
	}

	other := NewLocalID()
	if local.Value == other.Value {
		t.Error("minted IDs must be unique")
	}

	var zero ID
	if !zero.IsZero() {
		t.Error("zero value must report IsZero")
	}
}

func TestTaskToggle(t *testing.T) {
	now := time.Now()
	task := NewLocalTask(NewLocalID(), "flip me")

	completed := task.Toggle(now)
	if !completed.Completed {
		t.Error("first toggle should complete")
	}
	if completed.CompletedAt == nil || !completed.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt = %v, want %v", completed.CompletedAt, now)
	}

	reopened := completed.Toggle(now.Add(time.Minute))
	if reopened.Completed {
		t.Error("second toggle should reopen")
	}
	if reopened.CompletedAt != nil {
		t.Error("reopening must clear CompletedAt")
	}

	// Toggle returns a copy; the original is untouched
	if task.Completed {
		t.Error("Toggle must not mutate the receiver")
	}
}

func TestNewLocalProject(t *testing.T) {
	p := NewLocalProject("Work", "day job", "#4ECDC4")
	if !p.ID.Local {
		t.Error("new project must carry a local ID")
	}
	if p.Title != "Work" || p.Subtitle != "day job" || p.Color != "#4ECDC4" {
		t.Errorf("content mismatch: %+v", p)
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt must be set")
	}
}
