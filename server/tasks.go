package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

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

type createTaskRequest struct {
	Title     string `json:"title"`
	ProjectID string `json:"projectId"`
}

type updateTaskRequest struct {
	Title    *string `json:"title"`
	Priority *int    `json:"priority"`
	Status   *string `json:"status"`
}

const (
	taskColumns     = `t.id, t.title, t.project_id, t.completed, t.status, t.priority, t.created_at, t.completed_at`
	taskColumnsBare = `id, title, project_id, completed, status, priority, created_at, completed_at`
)

func scanTask(row interface{ Scan(...interface{}) error }) (wireTask, error) {
	var t wireTask
	err := row.Scan(&t.ID, &t.Title, &t.ProjectID, &t.Completed, &t.Status,
		&t.Priority, &t.CreatedAt, &t.CompletedAt)
	return t, err
}

// projectOwned verifies the project belongs to the user and returns its title.
func (s *Server) projectOwned(userID, projectID string) (string, bool) {
	var title string
	err := s.db.QueryRow(`
		SELECT title FROM projects WHERE id = $1 AND user_id = $2`,
		projectID, userID,
	).Scan(&title)
	return title, err == nil
}

// handleListTasks returns every task in a project, oldest first
func (s *Server) handleListTasks(c echo.Context) error {
	userID := c.Get("user_id").(string)
	projectID := c.Param("projectId")

	if _, owned := s.projectOwned(userID, projectID); !owned {
		return fail(c, http.StatusNotFound, "project not found")
	}

	rows, err := s.db.Query(`
		SELECT `+taskColumns+`
		FROM tasks t
		WHERE t.project_id = $1
		ORDER BY t.created_at ASC`,
		projectID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return fail(c, http.StatusInternalServerError, "failed to fetch tasks")
	}
	defer rows.Close()

	tasks := []wireTask{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			c.Logger().Error("db error:", err)
			return fail(c, http.StatusInternalServerError, "failed to fetch tasks")
		}
		tasks = append(tasks, t)
	}

	return ok(c, map[string]interface{}{"tasks": tasks})
}

// handleCreateTask adds a task to a project and records the activity
func (s *Server) handleCreateTask(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}
	if req.Title == "" {
		return fail(c, http.StatusBadRequest, "title required")
	}

	projectTitle, owned := s.projectOwned(userID, req.ProjectID)
	if !owned {
		return fail(c, http.StatusNotFound, "project not found")
	}

	row := s.db.QueryRow(`
		INSERT INTO tasks (user_id, project_id, title)
		VALUES ($1, $2, $3)
		RETURNING `+taskColumnsBare,
		userID, req.ProjectID, req.Title,
	)
	t, err := scanTask(row)
	if err != nil {
		c.Logger().Error("db error:", err)
		return fail(c, http.StatusInternalServerError, "failed to create task")
	}

	s.recordActivity(c, userID, "task_created", t.Title, req.ProjectID, projectTitle)

	return ok(c, map[string]interface{}{"task": t})
}

// handleUpdateTask applies a partial update to a task the user owns
func (s *Server) handleUpdateTask(c echo.Context) error {
	userID := c.Get("user_id").(string)
	taskID := c.Param("id")

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}

	row := s.db.QueryRow(`
		UPDATE tasks t SET
			title = COALESCE($1, t.title),
			priority = COALESCE($2, t.priority),
			status = COALESCE($3, t.status),
			updated_at = NOW()
		FROM projects p
		WHERE t.id = $4 AND t.project_id = p.id AND p.user_id = $5
		RETURNING `+taskColumns,
		req.Title, req.Priority, req.Status, taskID, userID,
	)
	t, err := scanTask(row)
	if err != nil {
		return fail(c, http.StatusNotFound, "task not found")
	}

	return ok(c, map[string]interface{}{"task": t})
}

// handleDeleteTask removes a task and records the activity
func (s *Server) handleDeleteTask(c echo.Context) error {
	userID := c.Get("user_id").(string)
	taskID := c.Param("id")

	var title, projectID, projectTitle string
	err := s.db.QueryRow(`
		SELECT t.title, p.id, p.title
		FROM tasks t JOIN projects p ON t.project_id = p.id
		WHERE t.id = $1 AND p.user_id = $2`,
		taskID, userID,
	).Scan(&title, &projectID, &projectTitle)
	if err != nil {
		return fail(c, http.StatusNotFound, "task not found")
	}

	if _, err := s.db.Exec(`DELETE FROM tasks WHERE id = $1`, taskID); err != nil {
		c.Logger().Error("db error:", err)
		return fail(c, http.StatusInternalServerError, "failed to delete task")
	}

	s.recordActivity(c, userID, "task_deleted", title, projectID, projectTitle)

	return ok(c, nil)
}

// handleToggleTask flips completion, stamping or clearing completed_at
func (s *Server) handleToggleTask(c echo.Context) error {
	userID := c.Get("user_id").(string)
	taskID := c.Param("id")

	row := s.db.QueryRow(`
		UPDATE tasks t SET
			completed = NOT t.completed,
			completed_at = CASE WHEN t.completed THEN NULL ELSE NOW() END,
			updated_at = NOW()
		FROM projects p
		WHERE t.id = $1 AND t.project_id = p.id AND p.user_id = $2
		RETURNING `+taskColumns,
		taskID, userID,
	)
	t, err := scanTask(row)
	if err != nil {
		return fail(c, http.StatusNotFound, "task not found")
	}

	kind := "task_reopened"
	if t.Completed {
		kind = "task_completed"
	}
	projectTitle, _ := s.projectOwned(userID, t.ProjectID)
	s.recordActivity(c, userID, kind, t.Title, t.ProjectID, projectTitle)

	return ok(c, map[string]interface{}{"task": t})
}
