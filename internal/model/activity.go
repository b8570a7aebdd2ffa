package model

import "time"

// Activity kinds, matching the server feed
const (
	ActivityProjectCreated = "project_created"
	ActivityProjectDeleted = "project_deleted"
	ActivityTaskCreated    = "task_created"
	ActivityTaskCompleted  = "task_completed"
	ActivityTaskReopened   = "task_reopened"
	ActivityTaskDeleted    = "task_deleted"
)

// ActivityEntry is one record in the recent-activity feed. ProjectName
// is a snapshot so the entry stays readable after the project is gone.
type ActivityEntry struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Subject     string    `json:"subject"`
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	Timestamp   time.Time `json:"timestamp"`
}
