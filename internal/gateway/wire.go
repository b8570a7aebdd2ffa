package gateway

import (
	"time"

	"github.com/existflow/taskdeck/internal/model"
)

// Wire formats of the API server. Conversions to and from the internal
// model are pure: given a well-formed wire object they always produce a
// well-formed internal object, and unknown extra fields are dropped by
// the JSON decoder.

type wireProject struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Color          string    `json:"color,omitempty"`
	Status         string    `json:"status,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	TaskCount      int       `json:"taskCount"`
	CompletedCount int       `json:"completedCount"`
}

type wireTask struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	ProjectID   string     `json:"projectId"`
	Completed   bool       `json:"completed"`
	Status      string     `json:"status,omitempty"`
	Priority    int        `json:"priority,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type wireActivity struct {
	ID          string    `json:"_id"`
	Type        string    `json:"type"`
	Task        string    `json:"task,omitempty"`
	Project     string    `json:"project,omitempty"`
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	Timestamp   time.Time `json:"timestamp"`
}

func (w wireProject) toModel() model.Project {
	return model.Project{
		ID:             model.RemoteID(w.ID),
		Title:          w.Title,
		Subtitle:       w.Description,
		Color:          w.Color,
		Status:         w.Status,
		CreatedAt:      w.CreatedAt,
		TaskCount:      w.TaskCount,
		CompletedCount: w.CompletedCount,
	}
}

func projectToWire(p model.Project) wireProject {
	return wireProject{
		ID:             p.ID.Value,
		Title:          p.Title,
		Description:    p.Subtitle,
		Color:          p.Color,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		TaskCount:      p.TaskCount,
		CompletedCount: p.CompletedCount,
	}
}

func (w wireTask) toModel() model.Task {
	return model.Task{
		ID:          model.RemoteID(w.ID),
		ProjectID:   model.RemoteID(w.ProjectID),
		Text:        w.Title,
		Completed:   w.Completed,
		Status:      w.Status,
		Priority:    w.Priority,
		CreatedAt:   w.CreatedAt,
		CompletedAt: w.CompletedAt,
	}
}

func taskToWire(t model.Task) wireTask {
	return wireTask{
		ID:          t.ID.Value,
		Title:       t.Text,
		ProjectID:   t.ProjectID.Value,
		Completed:   t.Completed,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func (w wireActivity) toModel() model.ActivityEntry {
	subject := w.Task
	if subject == "" {
		subject = w.Project
	}
	return model.ActivityEntry{
		ID:          w.ID,
		Kind:        w.Type,
		Subject:     subject,
		ProjectID:   w.ProjectID,
		ProjectName: w.ProjectName,
		Timestamp:   w.Timestamp,
	}
}

func projectsToModel(ws []wireProject) []model.Project {
	out := make([]model.Project, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toModel())
	}
	return out
}

func tasksToModel(ws []wireTask) []model.Task {
	out := make([]model.Task, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toModel())
	}
	return out
}

func activitiesToModel(ws []wireActivity) []model.ActivityEntry {
	out := make([]model.ActivityEntry, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toModel())
	}
	return out
}
