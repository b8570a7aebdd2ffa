package store

import (
	"context"
	"fmt"

	"github.com/existflow/taskdeck/internal/logger"
	"github.com/existflow/taskdeck/internal/model"
)

// pendingItem is one local-only entity queued for promotion
type pendingItem struct {
	project model.Project
	task    model.Task
	isTask  bool
}

// SyncPending pushes local-only entities to the server and promotes
// their identifiers to permanent ones on confirmation. Returns the
// number of promoted entities. This is the reconciliation pass for
// state created offline or through the failure fallback.
func (s *Store) SyncPending(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.sess == nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("not logged in")
	}

	var items []pendingItem
	for _, p := range s.projects {
		if p.ID.Local {
			items = append(items, pendingItem{project: p})
		}
	}
	for _, p := range s.projects {
		if p.ID.Local {
			continue // its tasks go up with the project below
		}
		for _, t := range s.tasks[p.ID.Value] {
			if t.ID.Local {
				items = append(items, pendingItem{project: p, task: t, isTask: true})
			}
		}
	}
	s.mu.Unlock()

	promoted := 0
	for _, item := range items {
		if item.isTask {
			created, err := s.gw.CreateTask(ctx, item.project.ID.Value, item.task.Text)
			if err != nil {
				return promoted, err
			}
			if item.task.Completed {
				// Completion state travels separately; a failed toggle
				// leaves the task pending-complete until the next pass
				if _, err := s.gw.ToggleTask(ctx, created.ID.Value); err == nil {
					created.Completed = true
				}
			}
			s.promoteTask(item.project.ID.Value, item.task.ID.Value, created)
			promoted++
			continue
		}

		created, err := s.gw.CreateProject(ctx, item.project.Title, item.project.Subtitle, item.project.Color)
		if err != nil {
			return promoted, err
		}
		s.promoteProject(item.project.ID.Value, created)
		promoted++

		// Push the tasks that were created under the pending project
		for _, t := range s.tasksOf(created.ID.Value) {
			if !t.ID.Local {
				continue
			}
			childTask, err := s.gw.CreateTask(ctx, created.ID.Value, t.Text)
			if err != nil {
				return promoted, err
			}
			if t.Completed {
				// Completion state travels separately; a failed toggle
				// leaves the task pending-complete until the next pass
				if toggled, err := s.gw.ToggleTask(ctx, childTask.ID.Value); err == nil {
					childTask.Completed = toggled.Completed
					childTask.CompletedAt = toggled.CompletedAt
				}
			}
			s.promoteTask(created.ID.Value, t.ID.Value, childTask)
			promoted++
		}
	}

	if promoted > 0 {
		logger.Info("Promoted pending entities", logger.F("count", promoted))
	}
	return promoted, nil
}

func (s *Store) tasksOf(projectID string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks[projectID]))
	copy(out, s.tasks[projectID])
	return out
}

// promoteProject replaces a pending project identifier with the
// server-assigned one everywhere it appears
func (s *Store) promoteProject(oldID string, created model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.projects {
		if p.ID.Value == oldID {
			created.CreatedAt = p.CreatedAt // keep local ordering stable
			s.projects[i] = created
			break
		}
	}

	tasks := s.tasks[oldID]
	delete(s.tasks, oldID)
	for i := range tasks {
		tasks[i].ProjectID = created.ID
	}
	s.tasks[created.ID.Value] = tasks

	for i := range s.activity {
		if s.activity[i].ProjectID == oldID {
			s.activity[i].ProjectID = created.ID.Value
		}
	}

	s.persistLocked()
}

// promoteTask replaces a pending task identifier with the confirmed one
func (s *Store) promoteTask(projectID, oldID string, created model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks[projectID] {
		if t.ID.Value == oldID {
			created.CompletedAt = t.CompletedAt
			created.Completed = t.Completed
			s.tasks[projectID][i] = created
			break
		}
	}
	s.persistLocked()
}
