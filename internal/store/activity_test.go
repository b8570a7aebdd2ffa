package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/existflow/taskdeck/internal/model"
)

// Entries are logged through the offline paths so the store records
// them itself.

func TestActivityNewestFirst(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	s := New(newFakeGateway(), WithClock(func() time.Time { return clock }))

	s.CreateProject(ctx, "P", "")
	pid := s.Projects()[0].ID.Value

	clock = clock.Add(2 * time.Second)
	s.CreateTask(ctx, pid, "first")
	clock = clock.Add(2 * time.Second)
	s.CreateTask(ctx, pid, "second")

	acts := s.Activity()
	if len(acts) != 3 {
		t.Fatalf("got %d entries, want 3", len(acts))
	}
	if acts[0].Subject != "second" || acts[1].Subject != "first" {
		t.Errorf("entries must be newest first, got %q then %q", acts[0].Subject, acts[1].Subject)
	}
	if acts[2].Kind != model.ActivityProjectCreated {
		t.Errorf("oldest should be the project creation, got %q", acts[2].Kind)
	}
}

func TestActivityCap(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	s := New(newFakeGateway(), WithClock(func() time.Time { return clock }))

	s.CreateProject(ctx, "P", "")
	pid := s.Projects()[0].ID.Value

	for i := 0; i < 25; i++ {
		clock = clock.Add(2 * time.Second)
		s.CreateTask(ctx, pid, fmt.Sprintf("task %d", i))
	}

	acts := s.Activity()
	if len(acts) != activityCap {
		t.Fatalf("log should be capped at %d, got %d", activityCap, len(acts))
	}
	if acts[0].Subject != "task 24" {
		t.Errorf("newest entry should survive the cap, got %q", acts[0].Subject)
	}
}

func TestActivityDedupWindow(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	s := New(newFakeGateway(), WithClock(func() time.Time { return clock }))

	s.CreateProject(ctx, "P", "")
	pid := s.Projects()[0].ID.Value
	clock = clock.Add(2 * time.Second)
	s.CreateTask(ctx, pid, "flip")
	tid := s.Tasks(pid)[0].ID.Value

	// Complete, then reopen and complete again within the window. The
	// second completion duplicates the first and is suppressed.
	clock = clock.Add(2 * time.Second)
	s.ToggleTask(ctx, pid, tid)
	clock = clock.Add(200 * time.Millisecond)
	s.ToggleTask(ctx, pid, tid)
	clock = clock.Add(200 * time.Millisecond)
	s.ToggleTask(ctx, pid, tid)

	completions := 0
	for _, e := range s.Activity() {
		if e.Kind == model.ActivityTaskCompleted && e.Subject == "flip" {
			completions++
		}
	}
	if completions != 1 {
		t.Errorf("got %d completed entries inside the window, want 1", completions)
	}

	// Outside the window the same entry is recorded again
	clock = clock.Add(2 * time.Second)
	s.ToggleTask(ctx, pid, tid) // reopen
	clock = clock.Add(2 * time.Second)
	s.ToggleTask(ctx, pid, tid) // complete

	completions = 0
	for _, e := range s.Activity() {
		if e.Kind == model.ActivityTaskCompleted && e.Subject == "flip" {
			completions++
		}
	}
	if completions != 2 {
		t.Errorf("got %d completed entries after the window passed, want 2", completions)
	}
}

func TestActivityDedupDistinguishesKind(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	s := New(newFakeGateway(), WithClock(func() time.Time { return clock }))

	s.CreateProject(ctx, "P", "")
	pid := s.Projects()[0].ID.Value
	clock = clock.Add(2 * time.Second)
	s.CreateTask(ctx, pid, "flip")
	tid := s.Tasks(pid)[0].ID.Value

	// complete then reopen back to back: different kinds, both kept
	clock = clock.Add(2 * time.Second)
	s.ToggleTask(ctx, pid, tid)
	clock = clock.Add(100 * time.Millisecond)
	s.ToggleTask(ctx, pid, tid)

	acts := s.Activity()
	if acts[0].Kind != model.ActivityTaskReopened || acts[1].Kind != model.ActivityTaskCompleted {
		t.Errorf("different kinds must not dedup each other, got %q then %q", acts[0].Kind, acts[1].Kind)
	}
}
