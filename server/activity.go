package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// wireActivity carries an activity entry. The subject rides in "task"
// for task kinds and "project" for project kinds.
type wireActivity struct {
	ID          string    `json:"_id"`
	Kind        string    `json:"type"`
	Task        string    `json:"task,omitempty"`
	Project     string    `json:"project,omitempty"`
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	Timestamp   time.Time `json:"timestamp"`
}

// recordActivity appends an entry to the user's activity log. Failures are
// logged and swallowed: the triggering mutation already succeeded.
func (s *Server) recordActivity(c echo.Context, userID, kind, subject, projectID, projectName string) {
	_, err := s.db.Exec(`
		INSERT INTO activities (user_id, kind, subject, project_id, project_name)
		VALUES ($1, $2, $3, $4, $5)`,
		userID, kind, subject, projectID, projectName,
	)
	if err != nil {
		c.Logger().Error("failed to record activity:", err)
	}
}

// handleActivityFeed returns the user's activity, newest first, paginated
func (s *Server) handleActivityFeed(c echo.Context) error {
	userID := c.Get("user_id").(string)

	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}

	rows, err := s.db.Query(`
		SELECT id, kind, subject, project_id, project_name, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, (page-1)*limit,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return fail(c, http.StatusInternalServerError, "failed to fetch activity")
	}
	defer rows.Close()

	activities := []wireActivity{}
	for rows.Next() {
		var a wireActivity
		var subject string
		if err := rows.Scan(&a.ID, &a.Kind, &subject, &a.ProjectID, &a.ProjectName, &a.Timestamp); err != nil {
			c.Logger().Error("db error:", err)
			return fail(c, http.StatusInternalServerError, "failed to fetch activity")
		}
		if strings.HasPrefix(a.Kind, "task_") {
			a.Task = subject
		} else {
			a.Project = subject
		}
		activities = append(activities, a)
	}

	return ok(c, map[string]interface{}{"activities": activities})
}
