package gateway

import (
	"testing"
	"time"

	"github.com/existflow/taskdeck/internal/model"
)

func TestProjectWireRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	p := model.Project{
		ID:             model.RemoteID("p1"),
		Title:          "Side Quest",
		Subtitle:       "weekend hacking",
		Color:          "#B39DDB",
		Status:         "active",
		CreatedAt:      now,
		TaskCount:      7,
		CompletedCount: 3,
	}

	got := projectToWire(p).toModel()
	if got != p {
		t.Errorf("round trip changed the project:\n got %+v\nwant %+v", got, p)
	}

	// The subtitle travels in the description field
	if w := projectToWire(p); w.Description != "weekend hacking" {
		t.Errorf("Description = %q, want the subtitle", w.Description)
	}
}

func TestTaskWireRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	done := now.Add(time.Hour)
	task := model.Task{
		ID:          model.RemoteID("t1"),
		ProjectID:   model.RemoteID("p1"),
		Text:        "water the plants",
		Completed:   true,
		Priority:    2,
		CreatedAt:   now,
		CompletedAt: &done,
	}

	got := taskToWire(task).toModel()
	if got.ID != task.ID || got.ProjectID != task.ProjectID {
		t.Errorf("identifiers changed: %+v", got)
	}
	if got.Text != task.Text || got.Completed != task.Completed || got.Priority != task.Priority {
		t.Errorf("content changed: %+v", got)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(done) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, done)
	}

	// The text travels in the title field
	if w := taskToWire(task); w.Title != "water the plants" {
		t.Errorf("Title = %q, want the task text", w.Title)
	}
}

func TestActivitySubjectSelection(t *testing.T) {
	tests := []struct {
		name string
		wire wireActivity
		want string
	}{
		{
			name: "task kinds use the task field",
			wire: wireActivity{Type: "task_completed", Task: "ship it", ProjectName: "Work"},
			want: "ship it",
		},
		{
			name: "project kinds use the project field",
			wire: wireActivity{Type: "project_created", Project: "Work", ProjectName: "Work"},
			want: "Work",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.wire.toModel().Subject; got != tt.want {
				t.Errorf("Subject = %q, want %q", got, tt.want)
			}
		})
	}
}
