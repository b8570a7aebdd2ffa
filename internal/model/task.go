package model

import "time"

// Task represents a single todo item belonging to one project
type Task struct {
	ID          ID         `json:"id"`
	ProjectID   ID         `json:"project_id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Status      string     `json:"status,omitempty"`
	Priority    int        `json:"priority,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewLocalTask creates a task with a local identifier
func NewLocalTask(projectID ID, text string) Task {
	return Task{
		ID:        NewLocalID(),
		ProjectID: projectID,
		Text:      text,
		Completed: false,
		CreatedAt: time.Now(),
	}
}

// Toggle returns a copy of the task with its completion flipped. The
// completion timestamp is set when completing and cleared on reopen.
func (t Task) Toggle(now time.Time) Task {
	t.Completed = !t.Completed
	if t.Completed {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	return t
}
