package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type wireProject struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Color          string    `json:"color"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	TaskCount      int       `json:"taskCount"`
	CompletedCount int       `json:"completedCount"`
}

type createProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type updateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Status      *string `json:"status"`
}

// handleListProjects returns all of the user's projects with task counts
func (s *Server) handleListProjects(c echo.Context) error {
	userID := c.Get("user_id").(string)

	rows, err := s.db.Query(`
		SELECT p.id, p.title, p.description, p.color, p.status, p.created_at,
		       COUNT(t.id), COUNT(t.id) FILTER (WHERE t.completed)
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		WHERE p.user_id = $1
		GROUP BY p.id
		ORDER BY p.created_at ASC`,
		userID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return fail(c, http.StatusInternalServerError, "failed to fetch projects")
	}
	defer rows.Close()

	projects := []wireProject{}
	for rows.Next() {
		var p wireProject
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Color, &p.Status,
			&p.CreatedAt, &p.TaskCount, &p.CompletedCount); err != nil {
			c.Logger().Error("db error:", err)
			return fail(c, http.StatusInternalServerError, "failed to fetch projects")
		}
		projects = append(projects, p)
	}

	return ok(c, map[string]interface{}{"projects": projects})
}

// handleCreateProject creates a project and records the activity
func (s *Server) handleCreateProject(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}

	if req.Title == "" {
		return fail(c, http.StatusBadRequest, "title required")
	}
	if req.Color == "" {
		req.Color = "#4ECDC4"
	}

	var p wireProject
	err := s.db.QueryRow(`
		INSERT INTO projects (user_id, title, description, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, description, color, status, created_at`,
		userID, req.Title, req.Description, req.Color,
	).Scan(&p.ID, &p.Title, &p.Description, &p.Color, &p.Status, &p.CreatedAt)
	if err != nil {
		c.Logger().Error("db error:", err)
		return fail(c, http.StatusInternalServerError, "failed to create project")
	}

	s.recordActivity(c, userID, "project_created", p.Title, p.ID, p.Title)

	return ok(c, map[string]interface{}{"project": p})
}

// handleUpdateProject applies a partial update
func (s *Server) handleUpdateProject(c echo.Context) error {
	userID := c.Get("user_id").(string)
	projectID := c.Param("id")

	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}

	var p wireProject
	err := s.db.QueryRow(`
		UPDATE projects SET
			title = COALESCE($1, title),
			description = COALESCE($2, description),
			color = COALESCE($3, color),
			status = COALESCE($4, status),
			updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING id, title, description, color, status, created_at`,
		req.Title, req.Description, req.Color, req.Status, projectID, userID,
	).Scan(&p.ID, &p.Title, &p.Description, &p.Color, &p.Status, &p.CreatedAt)
	if err != nil {
		return fail(c, http.StatusNotFound, "project not found")
	}

	return ok(c, map[string]interface{}{"project": p})
}

// handleDeleteProject removes a project; tasks cascade with it
func (s *Server) handleDeleteProject(c echo.Context) error {
	userID := c.Get("user_id").(string)
	projectID := c.Param("id")

	var title string
	err := s.db.QueryRow(`
		SELECT title FROM projects WHERE id = $1 AND user_id = $2`,
		projectID, userID,
	).Scan(&title)
	if err != nil {
		return fail(c, http.StatusNotFound, "project not found")
	}

	if _, err := s.db.Exec(`
		DELETE FROM projects WHERE id = $1 AND user_id = $2`,
		projectID, userID,
	); err != nil {
		c.Logger().Error("db error:", err)
		return fail(c, http.StatusInternalServerError, "failed to delete project")
	}

	s.recordActivity(c, userID, "project_deleted", title, projectID, title)

	return ok(c, nil)
}
