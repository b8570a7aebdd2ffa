package store

import (
	"context"
	"testing"
)

func TestSyncPendingRequiresSession(t *testing.T) {
	s := New(newFakeGateway())
	if _, err := s.SyncPending(context.Background()); err == nil {
		t.Fatal("expected an error when not logged in")
	}
}

func TestSyncPendingPromotesProjectAndTasks(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()

	// Build state offline, then "log in" and reconcile
	s := New(gw)
	s.CreateProject(ctx, "Offline", "built on a plane")
	pid := s.Projects()[0].ID.Value
	s.CreateTask(ctx, pid, "todo one")
	s.CreateTask(ctx, pid, "todo two")
	s.ToggleTask(ctx, pid, s.Tasks(pid)[0].ID.Value)

	s.SetSession(testSession())
	promoted, err := s.SyncPending(ctx)
	if err != nil {
		t.Fatalf("SyncPending failed: %v", err)
	}
	if promoted != 3 {
		t.Fatalf("promoted = %d, want 3 (project + 2 tasks)", promoted)
	}

	projects := s.Projects()
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	p := projects[0]
	if p.ID.Local {
		t.Error("promoted project should carry the server ID")
	}
	if p.Title != "Offline" || p.Subtitle != "built on a plane" {
		t.Errorf("promotion must preserve content, got %+v", p)
	}

	tasks := s.Tasks(p.ID.Value)
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks under the promoted ID, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.ID.Local {
			t.Errorf("task %q still has a local ID after promotion", task.Text)
		}
		if task.ProjectID.Value != p.ID.Value {
			t.Errorf("task %q not re-parented to the promoted project", task.Text)
		}
	}

	// Completion state survives the round trip
	if !tasks[0].Completed {
		t.Error("completed pending task should stay completed after promotion")
	}

	// Activity entries referencing the old ID are rewritten
	for _, e := range s.Activity() {
		if e.ProjectID == pid {
			t.Errorf("activity entry %q still references the pending project ID", e.Subject)
		}
	}

	// Server received everything, completion state included
	if len(gw.projects) != 1 {
		t.Errorf("server has %d projects, want 1", len(gw.projects))
	}
	serverTasks := gw.tasks[p.ID.Value]
	if len(serverTasks) != 2 {
		t.Fatalf("server has %d tasks, want 2", len(serverTasks))
	}
	serverCompleted := 0
	for _, st := range serverTasks {
		if st.Completed {
			serverCompleted++
		}
	}
	if serverCompleted != 1 {
		t.Errorf("server has %d completed tasks, want 1", serverCompleted)
	}

	// A re-fetch right after promotion must not undo the completion
	if got := s.LoadTasks(ctx, p.ID.Value); got != OutcomeApplied {
		t.Fatalf("LoadTasks outcome = %v, want applied", got)
	}
	completed := 0
	for _, task := range s.Tasks(p.ID.Value) {
		if task.Completed {
			completed++
			if task.CompletedAt == nil {
				t.Error("completed task lost its completion timestamp")
			}
		}
	}
	if completed != 1 {
		t.Errorf("%d tasks completed after re-fetch, want 1", completed)
	}
}

func TestSyncPendingPromotesStrayTask(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	s := newTestStore(gw)

	// Remote project, then a task created during an outage
	s.CreateProject(ctx, "Stable", "")
	pid := s.Projects()[0].ID.Value

	gw.failAll = true
	s.CreateTask(ctx, pid, "written in the dark")
	gw.failAll = false

	promoted, err := s.SyncPending(ctx)
	if err != nil {
		t.Fatalf("SyncPending failed: %v", err)
	}
	if promoted != 1 {
		t.Fatalf("promoted = %d, want 1", promoted)
	}

	tasks := s.Tasks(pid)
	if len(tasks) != 1 || tasks[0].ID.Local {
		t.Fatalf("stray task should now carry a server ID, got %+v", tasks)
	}
}

func TestSyncPendingNothingToDo(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	s := newTestStore(gw)
	s.CreateProject(ctx, "Clean", "")

	promoted, err := s.SyncPending(ctx)
	if err != nil {
		t.Fatalf("SyncPending failed: %v", err)
	}
	if promoted != 0 {
		t.Errorf("promoted = %d, want 0", promoted)
	}
}

func TestSyncPendingStopsOnError(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	s := New(gw)
	s.CreateProject(ctx, "One", "")
	s.CreateProject(ctx, "Two", "")
	s.SetSession(testSession())

	gw.failAll = true
	promoted, err := s.SyncPending(ctx)
	if err == nil {
		t.Fatal("expected an error when the server is down")
	}
	if promoted != 0 {
		t.Errorf("promoted = %d, want 0", promoted)
	}

	// Both projects survive as pending for the next pass
	for _, p := range s.Projects() {
		if !p.ID.Local {
			t.Errorf("project %q should still be pending", p.Title)
		}
	}
}
