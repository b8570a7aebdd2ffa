// Package gateway wraps outbound requests to the project, task, and auth
// endpoints of the API server. It attaches bearer-token headers, parses
// the {success, message, payload} response envelope, and converts between
// the server's wire representation and the internal model. It never
// retries; every failure surfaces as a *RequestError.
package gateway

import (
	"context"

	"github.com/existflow/taskdeck/internal/model"
)

// ProjectUpdate holds the fields of a partial project update. Nil fields
// are omitted from the request body.
type ProjectUpdate struct {
	Title    *string
	Subtitle *string
	Color    *string
	Status   *string
}

// TaskUpdate holds the fields of a partial task update
type TaskUpdate struct {
	Text      *string
	Completed *bool
	Priority  *int
}

// Gateway is the remote data surface the state store depends on. The
// store takes it as an injected dependency so tests can substitute a
// fake without network plumbing.
type Gateway interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	CreateProject(ctx context.Context, title, subtitle, color string) (model.Project, error)
	UpdateProject(ctx context.Context, id string, upd ProjectUpdate) (model.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListTasks(ctx context.Context, projectID string) ([]model.Task, error)
	CreateTask(ctx context.Context, projectID, text string) (model.Task, error)
	UpdateTask(ctx context.Context, id string, upd TaskUpdate) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ToggleTask(ctx context.Context, id string) (model.Task, error)

	ActivityFeed(ctx context.Context, limit, page int) ([]model.ActivityEntry, error)
}
