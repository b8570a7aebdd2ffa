package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/taskdeck/internal/config"
	"github.com/existflow/taskdeck/internal/db"
	"github.com/existflow/taskdeck/internal/gateway"
	"github.com/existflow/taskdeck/internal/logger"
	"github.com/existflow/taskdeck/internal/model"
	"github.com/existflow/taskdeck/internal/session"
	"github.com/existflow/taskdeck/internal/store"
)

// App bundles everything a command needs: config, the local cache
// database, the gateway client, and the store restored from the last
// snapshot.
type App struct {
	Cfg    *config.Config
	DB     *db.DB
	Client *gateway.Client
	Store  *store.Store
}

// openApp wires config, session, gateway, cache database, and store.
// The store starts from the last persisted snapshot so commands work
// offline.
func openApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("Failed to load config, using defaults", logger.F("error", err))
		cfg = config.DefaultConfig()
	}

	sess, err := session.Load()
	if err != nil {
		logger.Warn("Failed to load session", logger.F("error", err))
	}

	// The token source reads through the store so a login or logout
	// during the run takes effect immediately
	var st *store.Store
	client := gateway.NewClient(cfg.ServerURL, func() string {
		if st == nil {
			return ""
		}
		if s := st.Session(); s != nil {
			return s.Token
		}
		return ""
	})

	database, err := db.OpenDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	st = store.New(client,
		store.WithSession(sess),
		store.WithPersister(database),
	)

	snap, err := database.LoadSnapshot()
	if err != nil {
		logger.Warn("Failed to load snapshot", logger.F("error", err))
	} else {
		st.Restore(snap)
	}

	return &App{Cfg: cfg, DB: database, Client: client, Store: st}, nil
}

// Close releases the cache database
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

// LoggedIn reports whether a session is active
func (a *App) LoggedIn() bool {
	return a.Store.Session() != nil
}

// shortID trims identifiers for display
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveProject matches a project by full ID, unique ID prefix, or
// exact title
func resolveProject(a *App, ref string) (model.Project, bool) {
	projects := a.Store.Projects()

	for _, p := range projects {
		if p.ID.Value == ref || p.Title == ref {
			return p, true
		}
	}

	var match model.Project
	count := 0
	for _, p := range projects {
		if strings.HasPrefix(p.ID.Value, ref) {
			match = p
			count++
		}
	}
	if count == 1 {
		return match, true
	}
	return model.Project{}, false
}

// findTaskRef locates a task from a command-line reference. With a
// project given the search is scoped to it; otherwise the context
// project is tried first, then every project.
func findTaskRef(a *App, projectRef, taskRef string) (model.Project, model.Task, error) {
	if projectRef == "" {
		projectRef = GetCurrentContext()
	}

	if projectRef != "" {
		p, ok := resolveProject(a, projectRef)
		if !ok {
			return model.Project{}, model.Task{}, fmt.Errorf("project not found: %s", projectRef)
		}
		t, ok := resolveTask(a, p.ID.Value, taskRef)
		if !ok {
			return model.Project{}, model.Task{}, fmt.Errorf("task not found: %s", taskRef)
		}
		return p, t, nil
	}

	for _, p := range a.Store.Projects() {
		if t, ok := resolveTask(a, p.ID.Value, taskRef); ok {
			return p, t, nil
		}
	}
	return model.Project{}, model.Task{}, fmt.Errorf("task not found: %s", taskRef)
}

// resolveTask matches a task within a project by full ID, unique ID
// prefix, or exact text
func resolveTask(a *App, projectID, ref string) (model.Task, bool) {
	tasks := a.Store.Tasks(projectID)

	for _, t := range tasks {
		if t.ID.Value == ref || t.Text == ref {
			return t, true
		}
	}

	var match model.Task
	count := 0
	for _, t := range tasks {
		if strings.HasPrefix(t.ID.Value, ref) {
			match = t
			count++
		}
	}
	if count == 1 {
		return match, true
	}
	return model.Task{}, false
}
