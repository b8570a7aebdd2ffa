package model

import "time"

// Project is a user-created container for tasks
type Project struct {
	ID             ID        `json:"id"`
	Title          string    `json:"title"`
	Subtitle       string    `json:"subtitle,omitempty"`
	Color          string    `json:"color"`
	Status         string    `json:"status,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	TaskCount      int       `json:"task_count"`
	CompletedCount int       `json:"completed_count"`
}

// NewLocalProject creates a project with a local identifier, used when
// the server cannot be reached or no session exists
func NewLocalProject(title, subtitle, color string) Project {
	return Project{
		ID:        NewLocalID(),
		Title:     title,
		Subtitle:  subtitle,
		Color:     color,
		CreatedAt: time.Now(),
	}
}
