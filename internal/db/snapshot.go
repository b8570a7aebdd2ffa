package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/existflow/taskdeck/internal/model"
	"github.com/existflow/taskdeck/internal/store"
)

// SaveSnapshot replaces the cached state wholesale. It implements
// store.Persister.
func (db *DB) SaveSnapshot(snap store.Snapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"activity", "tasks", "projects"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, p := range snap.Projects {
		_, err := tx.Exec(`
			INSERT INTO projects (id, local, title, subtitle, color, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID.Value, boolInt(p.ID.Local), p.Title, p.Subtitle, p.Color, p.Status,
			p.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("failed to insert project: %w", err)
		}
	}

	for projectID, tasks := range snap.Tasks {
		for _, t := range tasks {
			var completedAt sql.NullString
			if t.CompletedAt != nil {
				completedAt = sql.NullString{String: t.CompletedAt.Format(time.RFC3339Nano), Valid: true}
			}
			_, err := tx.Exec(`
				INSERT INTO tasks (id, local, project_id, text, completed, status, priority, created_at, completed_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				t.ID.Value, boolInt(t.ID.Local), projectID, t.Text, boolInt(t.Completed),
				t.Status, t.Priority, t.CreatedAt.Format(time.RFC3339Nano), completedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert task: %w", err)
			}
		}
	}

	for i, e := range snap.Activity {
		_, err := tx.Exec(`
			INSERT INTO activity (id, position, kind, subject, project_id, project_name, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, i, e.Kind, e.Subject, e.ProjectID, e.ProjectName,
			e.Timestamp.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("failed to insert activity entry: %w", err)
		}
	}

	return tx.Commit()
}

// LoadSnapshot reads the cached state back, in the same order it was
// saved: projects by creation time, activity newest first
func (db *DB) LoadSnapshot() (store.Snapshot, error) {
	snap := store.Snapshot{
		Tasks: make(map[string][]model.Task),
	}

	projectRows, err := db.Query(`
		SELECT id, local, title, subtitle, color, status, created_at
		FROM projects ORDER BY created_at ASC`)
	if err != nil {
		return snap, fmt.Errorf("failed to load projects: %w", err)
	}
	defer projectRows.Close()

	for projectRows.Next() {
		var p model.Project
		var local int
		var createdAt string
		if err := projectRows.Scan(&p.ID.Value, &local, &p.Title, &p.Subtitle, &p.Color, &p.Status, &createdAt); err != nil {
			return snap, fmt.Errorf("failed to scan project: %w", err)
		}
		p.ID.Local = local != 0
		p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		snap.Projects = append(snap.Projects, p)
		snap.Tasks[p.ID.Value] = []model.Task{}
	}
	if err := projectRows.Err(); err != nil {
		return snap, err
	}

	taskRows, err := db.Query(`
		SELECT id, local, project_id, text, completed, status, priority, created_at, completed_at
		FROM tasks ORDER BY created_at ASC`)
	if err != nil {
		return snap, fmt.Errorf("failed to load tasks: %w", err)
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var t model.Task
		var local, completed int
		var projectID, createdAt string
		var completedAt sql.NullString
		if err := taskRows.Scan(&t.ID.Value, &local, &projectID, &t.Text, &completed, &t.Status, &t.Priority, &createdAt, &completedAt); err != nil {
			return snap, fmt.Errorf("failed to scan task: %w", err)
		}
		t.ID.Local = local != 0
		t.Completed = completed != 0
		t.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		if completedAt.Valid {
			ts, err := time.Parse(time.RFC3339Nano, completedAt.String)
			if err == nil {
				t.CompletedAt = &ts
			}
		}

		// Tasks of projects that vanished from the cache are dropped
		if _, ok := snap.Tasks[projectID]; !ok {
			continue
		}
		t.ProjectID = model.ID{Value: projectID}
		for _, p := range snap.Projects {
			if p.ID.Value == projectID {
				t.ProjectID = p.ID
				break
			}
		}
		snap.Tasks[projectID] = append(snap.Tasks[projectID], t)
	}
	if err := taskRows.Err(); err != nil {
		return snap, err
	}

	activityRows, err := db.Query(`
		SELECT id, kind, subject, project_id, project_name, timestamp
		FROM activity ORDER BY position ASC`)
	if err != nil {
		return snap, fmt.Errorf("failed to load activity: %w", err)
	}
	defer activityRows.Close()

	for activityRows.Next() {
		var e model.ActivityEntry
		var timestamp string
		if err := activityRows.Scan(&e.ID, &e.Kind, &e.Subject, &e.ProjectID, &e.ProjectName, &timestamp); err != nil {
			return snap, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
		snap.Activity = append(snap.Activity, e)
	}
	return snap, activityRows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
