package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/existflow/taskdeck/internal/logger"
	"github.com/existflow/taskdeck/internal/model"
)

// Palette projects cycle through when no color is chosen explicitly
var projectColors = [6]string{
	"#95E1A3", // green
	"#FFE66D", // yellow
	"#FF6B6B", // red
	"#4ECDC4", // blue
	"#B39DDB", // purple
	"#F48FB1", // pink
}

// PickColor assigns a palette color from the current time. Deterministic
// enough to avoid an extra round trip, nothing more.
func PickColor() string {
	return projectColors[time.Now().UnixMilli()%int64(len(projectColors))]
}

// TokenSource supplies the current bearer token, or "" when logged out
type TokenSource func() string

// Client is the HTTP implementation of Gateway
type Client struct {
	baseURL    string
	token      TokenSource
	httpClient *http.Client
}

var _ Gateway = (*Client)(nil)

// NewClient creates a gateway client for the given API base URL
func NewClient(baseURL string, token TokenSource) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// apiResponse is the envelope every endpoint wraps its payload in
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// do performs one request and decodes the body into out. out must embed
// apiResponse so the envelope can be checked.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}, fallback string) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.Debug("HTTP Request", logger.F("method", method), logger.F("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("HTTP request failed", logger.F("path", path), logger.F("error", err))
		return requestErr(0, err.Error(), fallback)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	logger.Debug("HTTP Response", logger.F("path", path), logger.F("status", resp.StatusCode))

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return requestErr(resp.StatusCode, "", fallback)
	}

	env := envelopeOf(out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		logger.Warn("API call rejected",
			logger.F("path", path),
			logger.F("status", resp.StatusCode),
			logger.F("message", env.Message))
		return requestErr(resp.StatusCode, env.Message, fallback)
	}

	return nil
}

// envelopeOf extracts the embedded apiResponse from a decoded body
func envelopeOf(out interface{}) apiResponse {
	type enveloped interface{ envelope() apiResponse }
	if e, ok := out.(enveloped); ok {
		return e.envelope()
	}
	return apiResponse{}
}

func (r *apiResponse) envelope() apiResponse { return *r }

// ListProjects fetches all of the user's projects
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var out struct {
		apiResponse
		Projects []wireProject `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &out, "Failed to fetch projects"); err != nil {
		return nil, err
	}
	return projectsToModel(out.Projects), nil
}

// CreateProject creates a project. When color is empty a palette color
// is assigned client-side.
func (c *Client) CreateProject(ctx context.Context, title, subtitle, color string) (model.Project, error) {
	if color == "" {
		color = PickColor()
	}

	body := map[string]string{
		"title":       title,
		"description": subtitle,
		"color":       color,
	}

	var out struct {
		apiResponse
		Project wireProject `json:"project"`
	}
	if err := c.do(ctx, http.MethodPost, "/projects", body, &out, "Failed to create project"); err != nil {
		return model.Project{}, err
	}
	return out.Project.toModel(), nil
}

// UpdateProject applies a partial update to a project
func (c *Client) UpdateProject(ctx context.Context, id string, upd ProjectUpdate) (model.Project, error) {
	body := map[string]interface{}{}
	if upd.Title != nil {
		body["title"] = *upd.Title
	}
	if upd.Subtitle != nil {
		body["description"] = *upd.Subtitle
	}
	if upd.Color != nil {
		body["color"] = *upd.Color
	}
	if upd.Status != nil {
		body["status"] = *upd.Status
	}

	var out struct {
		apiResponse
		Project wireProject `json:"project"`
	}
	if err := c.do(ctx, http.MethodPut, "/projects/"+url.PathEscape(id), body, &out, "Failed to update project"); err != nil {
		return model.Project{}, err
	}
	return out.Project.toModel(), nil
}

// DeleteProject deletes a project and, server-side, all of its tasks
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	var out struct {
		apiResponse
	}
	return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, &out, "Failed to delete project")
}

// ListTasks fetches all tasks of one project
func (c *Client) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	var out struct {
		apiResponse
		Tasks []wireTask `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/tasks/project/"+url.PathEscape(projectID), nil, &out, "Failed to fetch tasks"); err != nil {
		return nil, err
	}
	return tasksToModel(out.Tasks), nil
}

// CreateTask creates a task under a project
func (c *Client) CreateTask(ctx context.Context, projectID, text string) (model.Task, error) {
	body := map[string]string{
		"title":     text,
		"projectId": projectID,
	}

	var out struct {
		apiResponse
		Task wireTask `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &out, "Failed to create task"); err != nil {
		return model.Task{}, err
	}
	return out.Task.toModel(), nil
}

// UpdateTask applies a partial update to a task
func (c *Client) UpdateTask(ctx context.Context, id string, upd TaskUpdate) (model.Task, error) {
	body := map[string]interface{}{}
	if upd.Text != nil {
		body["title"] = *upd.Text
	}
	if upd.Completed != nil {
		body["completed"] = *upd.Completed
	}
	if upd.Priority != nil {
		body["priority"] = *upd.Priority
	}

	var out struct {
		apiResponse
		Task wireTask `json:"task"`
	}
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), body, &out, "Failed to update task"); err != nil {
		return model.Task{}, err
	}
	return out.Task.toModel(), nil
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	var out struct {
		apiResponse
	}
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, &out, "Failed to delete task")
}

// ToggleTask flips a task's completion server-side and returns the result
func (c *Client) ToggleTask(ctx context.Context, id string) (model.Task, error) {
	var out struct {
		apiResponse
		Task wireTask `json:"task"`
	}
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id)+"/toggle", nil, &out, "Failed to toggle task"); err != nil {
		return model.Task{}, err
	}
	return out.Task.toModel(), nil
}

// ActivityFeed fetches a page of the recent-activity feed, newest first
func (c *Client) ActivityFeed(ctx context.Context, limit, page int) ([]model.ActivityEntry, error) {
	path := fmt.Sprintf("/tasks/activity/feed?limit=%d&page=%d", limit, page)

	var out struct {
		apiResponse
		Activities []wireActivity `json:"activities"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out, "Failed to fetch activity feed"); err != nil {
		return nil, err
	}
	return activitiesToModel(out.Activities), nil
}
