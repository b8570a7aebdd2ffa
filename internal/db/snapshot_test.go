package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/existflow/taskdeck/internal/model"
	"github.com/existflow/taskdeck/internal/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestSnapshotRoundTrip(t *testing.T) {
	database := openTestDB(t)

	now := time.Now().UTC().Truncate(time.Millisecond)
	done := now.Add(30 * time.Minute)

	remote := model.Project{
		ID:        model.RemoteID("p1"),
		Title:     "Work",
		Subtitle:  "day job",
		Color:     "#4ECDC4",
		Status:    "active",
		CreatedAt: now,
	}
	local := model.Project{
		ID:        model.ID{Value: "pending-1", Local: true},
		Title:     "Offline",
		Color:     "#FF6B6B",
		CreatedAt: now.Add(time.Minute),
	}

	snap := store.Snapshot{
		Projects: []model.Project{remote, local},
		Tasks: map[string][]model.Task{
			"p1": {
				{
					ID:          model.RemoteID("t1"),
					ProjectID:   remote.ID,
					Text:        "review PR",
					Completed:   true,
					Priority:    1,
					CreatedAt:   now,
					CompletedAt: &done,
				},
			},
			"pending-1": {
				{
					ID:        model.ID{Value: "t-pending", Local: true},
					ProjectID: local.ID,
					Text:      "offline note",
					CreatedAt: now.Add(2 * time.Minute),
				},
			},
		},
		Activity: []model.ActivityEntry{
			{ID: "a1", Kind: "task_completed", Subject: "review PR", ProjectID: "p1", ProjectName: "Work", Timestamp: now.Add(time.Hour)},
			{ID: "a2", Kind: "project_created", Subject: "Work", ProjectID: "p1", ProjectName: "Work", Timestamp: now},
		},
	}

	if err := database.SaveSnapshot(snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	got, err := database.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if len(got.Projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(got.Projects))
	}
	if got.Projects[0].Title != "Work" || got.Projects[1].Title != "Offline" {
		t.Errorf("projects out of creation order: %q, %q", got.Projects[0].Title, got.Projects[1].Title)
	}
	if got.Projects[0].ID.Local {
		t.Error("remote project must not come back local")
	}
	if !got.Projects[1].ID.Local {
		t.Error("local flag must survive the round trip")
	}
	if !got.Projects[0].CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", got.Projects[0].CreatedAt, now)
	}

	workTasks := got.Tasks["p1"]
	if len(workTasks) != 1 {
		t.Fatalf("got %d tasks for p1, want 1", len(workTasks))
	}
	task := workTasks[0]
	if !task.Completed || task.CompletedAt == nil || !task.CompletedAt.Equal(done) {
		t.Errorf("completion state lost: %+v", task)
	}
	if task.ProjectID.Value != "p1" || task.ProjectID.Local {
		t.Errorf("ProjectID = %+v, want remote p1", task.ProjectID)
	}

	pendingTasks := got.Tasks["pending-1"]
	if len(pendingTasks) != 1 || !pendingTasks[0].ID.Local {
		t.Fatalf("pending task state lost: %+v", pendingTasks)
	}
	if !pendingTasks[0].ProjectID.Local {
		t.Error("task of a local project should reference a local project ID")
	}

	if len(got.Activity) != 2 {
		t.Fatalf("got %d activity entries, want 2", len(got.Activity))
	}
	if got.Activity[0].ID != "a1" || got.Activity[1].ID != "a2" {
		t.Errorf("activity order lost: %q, %q", got.Activity[0].ID, got.Activity[1].ID)
	}
}

func TestSaveSnapshotReplacesWholesale(t *testing.T) {
	database := openTestDB(t)

	first := store.Snapshot{
		Projects: []model.Project{{ID: model.RemoteID("old"), Title: "Old", CreatedAt: time.Now()}},
		Tasks:    map[string][]model.Task{"old": {}},
	}
	if err := database.SaveSnapshot(first); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	second := store.Snapshot{
		Projects: []model.Project{{ID: model.RemoteID("new"), Title: "New", CreatedAt: time.Now()}},
		Tasks:    map[string][]model.Task{"new": {}},
	}
	if err := database.SaveSnapshot(second); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	got, err := database.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(got.Projects) != 1 || got.Projects[0].Title != "New" {
		t.Errorf("old snapshot leaked through: %+v", got.Projects)
	}
}

func TestLoadSnapshotEmptyDatabase(t *testing.T) {
	database := openTestDB(t)

	got, err := database.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(got.Projects) != 0 || len(got.Activity) != 0 {
		t.Errorf("fresh database should load an empty snapshot, got %+v", got)
	}
	if got.Tasks == nil {
		t.Error("task map should be initialized even when empty")
	}
}
