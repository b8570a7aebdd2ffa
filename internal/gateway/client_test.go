package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, func() string { return "test-token" })
	return srv, client
}

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"projects": []interface{}{},
		})
	})

	if _, err := client.ListProjects(context.Background()); err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want Bearer test-token", gotAuth)
	}
}

func TestClientOmitsAuthWhenLoggedOut(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"projects": []interface{}{},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	if _, err := client.ListProjects(context.Background()); err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty when logged out", gotAuth)
	}
}

func TestClientDecodesProjects(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects" {
			t.Errorf("path = %q, want /projects", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"projects": []map[string]interface{}{
				{
					"_id":            "p1",
					"title":          "Work",
					"description":    "day job",
					"color":          "#4ECDC4",
					"createdAt":      created.Format(time.RFC3339),
					"taskCount":      5,
					"completedCount": 2,
				},
			},
		})
	})

	projects, err := client.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}

	p := projects[0]
	if p.ID.Value != "p1" || p.ID.Local {
		t.Errorf("ID = %+v, want remote p1", p.ID)
	}
	if p.Title != "Work" || p.Subtitle != "day job" {
		t.Errorf("content mismatch: %+v", p)
	}
	if !p.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", p.CreatedAt, created)
	}
	if p.TaskCount != 5 || p.CompletedCount != 2 {
		t.Errorf("counts = (%d, %d), want (5, 2)", p.TaskCount, p.CompletedCount)
	}
}

func TestClientFalsySuccessIsError(t *testing.T) {
	// 200 OK but success:false still counts as failure, carrying the
	// server's message
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "quota exceeded",
		})
	})

	_, err := client.CreateProject(context.Background(), "X", "", "#FF6B6B")
	if err == nil {
		t.Fatal("expected an error for success:false")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
	if reqErr.Message != "quota exceeded" {
		t.Errorf("message = %q, want the server's message", reqErr.Message)
	}
}

func TestClientHTTPErrorStatus(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "project not found",
		})
	})

	err := client.DeleteProject(context.Background(), "nope")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
	if reqErr.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", reqErr.Status)
	}
	if reqErr.Message != "project not found" {
		t.Errorf("message = %q, want server message", reqErr.Message)
	}
}

func TestClientGarbledBodyUsesFallbackMessage(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := client.ListTasks(context.Background(), "p1")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
	if reqErr.Message != "Failed to fetch tasks" {
		t.Errorf("message = %q, want the fallback", reqErr.Message)
	}
}

func TestClientTransportErrorIsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	client := NewClient(srv.URL, nil)
	_, err := client.ListProjects(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
	if reqErr.Status != 0 {
		t.Errorf("status = %d, want 0 for transport errors", reqErr.Status)
	}
}

func TestCreateTaskRequestBody(t *testing.T) {
	var got map[string]string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks" {
			t.Errorf("got %s %s, want POST /tasks", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"task": map[string]interface{}{
				"_id":       "t1",
				"title":     got["title"],
				"projectId": got["projectId"],
			},
		})
	})

	task, err := client.CreateTask(context.Background(), "p1", "write docs")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if got["title"] != "write docs" || got["projectId"] != "p1" {
		t.Errorf("request body = %v", got)
	}
	if task.ID.Value != "t1" || task.ProjectID.Value != "p1" {
		t.Errorf("decoded task = %+v", task)
	}
}

func TestToggleTaskPath(t *testing.T) {
	var gotPath, gotMethod string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"task": map[string]interface{}{
				"_id":       "t1",
				"title":     "done deal",
				"projectId": "p1",
				"completed": true,
			},
		})
	})

	task, err := client.ToggleTask(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/tasks/t1/toggle" {
		t.Errorf("got %s %s, want PATCH /tasks/t1/toggle", gotMethod, gotPath)
	}
	if !task.Completed {
		t.Error("decoded task should be completed")
	}
}

func TestActivityFeedQuery(t *testing.T) {
	var gotQuery string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"activities": []map[string]interface{}{
				{
					"_id":         "a1",
					"type":        "task_completed",
					"task":        "ship it",
					"projectId":   "p1",
					"projectName": "Work",
					"timestamp":   time.Now().Format(time.RFC3339),
				},
				{
					"_id":         "a2",
					"type":        "project_created",
					"project":     "Work",
					"projectId":   "p1",
					"projectName": "Work",
					"timestamp":   time.Now().Format(time.RFC3339),
				},
			},
		})
	})

	entries, err := client.ActivityFeed(context.Background(), 15, 1)
	if err != nil {
		t.Fatalf("ActivityFeed failed: %v", err)
	}
	if gotQuery != "limit=15&page=1" {
		t.Errorf("query = %q, want limit=15&page=1", gotQuery)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Subject != "ship it" {
		t.Errorf("task entry subject = %q, want the task field", entries[0].Subject)
	}
	if entries[1].Subject != "Work" {
		t.Errorf("project entry subject = %q, want the project field", entries[1].Subject)
	}
}

func TestPickColorInPalette(t *testing.T) {
	color := PickColor()
	found := false
	for _, c := range projectColors {
		if c == color {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("PickColor returned %q, not in the palette", color)
	}
}
