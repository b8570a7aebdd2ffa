// Package store holds the authoritative in-memory copy of projects,
// tasks, and the recent-activity log. Operations are remote-first:
// they attempt the gateway, commit its result on success, and fall
// back to an equivalent local-only mutation on failure or when no
// session exists, so the user's intent is never silently lost. The
// local fallback can diverge from server state when a call succeeds
// server-side but the response is lost; re-fetching via LoadProjects/
// LoadTasks and promoting pending entities via SyncPending are the
// reconciliation paths.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/existflow/taskdeck/internal/gateway"
	"github.com/existflow/taskdeck/internal/logger"
	"github.com/existflow/taskdeck/internal/model"
	"github.com/existflow/taskdeck/internal/session"
)

// Persister saves the full store state between runs
type Persister interface {
	SaveSnapshot(Snapshot) error
}

// Errs holds the per-category error messages shown in the UI banner
type Errs struct {
	Project  string
	Task     string
	Activity string
}

// Loading reports which remote operations are in flight
type Loading struct {
	Projects bool
	Tasks    map[string]bool
	Activity bool
}

// Store is the single owner of client state. No other component
// mutates the collections directly; the UI reads snapshots and calls
// operations.
type Store struct {
	mu   sync.Mutex
	gw   gateway.Gateway
	sess *session.Session

	projects []model.Project         // sorted by CreatedAt ascending
	tasks    map[string][]model.Task // keyed by project ID
	activity []model.ActivityEntry   // newest first, capped

	errs    Errs
	loading Loading

	now     func() time.Time
	persist Persister
}

// Option configures a Store
type Option func(*Store)

// WithSession sets the active session; nil means logged out
func WithSession(sess *session.Session) Option {
	return func(s *Store) { s.sess = sess }
}

// WithPersister enables snapshot persistence after every mutation
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

// WithClock overrides the time source, used by tests to probe the
// activity dedup window
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store with an injected gateway
func New(gw gateway.Gateway, opts ...Option) *Store {
	s := &Store{
		gw:    gw,
		tasks: make(map[string][]model.Task),
		now:   time.Now,
	}
	s.loading.Tasks = make(map[string]bool)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the active session, or nil when logged out
func (s *Store) Session() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

// SetSession switches the active session
func (s *Store) SetSession(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
}

// Projects returns a copy of the project list, creation order
func (s *Store) Projects() []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Tasks returns a copy of one project's task list
func (s *Store) Tasks(projectID string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.tasks[projectID]
	out := make([]model.Task, len(ts))
	copy(out, ts)
	return out
}

// Activity returns a copy of the recent-activity log, newest first
func (s *Store) Activity() []model.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ActivityEntry, len(s.activity))
	copy(out, s.activity)
	return out
}

// Counts returns the task and completed totals for a project, computed
// from the task list rather than stored counters
func (s *Store) Counts(projectID string) (total, completed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks[projectID] {
		total++
		if t.Completed {
			completed++
		}
	}
	return total, completed
}

// Errors returns the current error banner messages
func (s *Store) Errors() Errs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs
}

// ClearErrors dismisses all error banners
func (s *Store) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = Errs{}
}

// LoadProjects replaces the project list with the server's, keeping
// local-only projects in place. Requires a session.
func (s *Store) LoadProjects(ctx context.Context) Outcome {
	s.mu.Lock()
	if s.sess == nil {
		s.mu.Unlock()
		return OutcomeRejected
	}
	s.loading.Projects = true
	s.mu.Unlock()

	remote, err := s.gw.ListProjects(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Projects = false

	if err != nil {
		s.errs.Project = errMessage(err)
		return OutcomeRejected
	}

	sort.SliceStable(remote, func(i, j int) bool {
		return remote[i].CreatedAt.Before(remote[j].CreatedAt)
	})

	// Local-only projects are not known to the server; carry them over
	var locals []model.Project
	for _, p := range s.projects {
		if p.ID.Local {
			locals = append(locals, p)
		}
	}

	s.projects = remote
	for _, p := range locals {
		s.insertProjectLocked(p)
	}

	// Every project gets a task list entry; lists for projects that no
	// longer exist are dropped
	next := make(map[string][]model.Task, len(s.projects))
	for _, p := range s.projects {
		if ts, ok := s.tasks[p.ID.Value]; ok {
			next[p.ID.Value] = ts
		} else {
			next[p.ID.Value] = []model.Task{}
		}
	}
	s.tasks = next

	s.persistLocked()
	return OutcomeApplied
}

// CreateProject creates a project remotely, falling back to a
// local-only project with a pending identifier
func (s *Store) CreateProject(ctx context.Context, title, subtitle string) Outcome {
	title = strings.TrimSpace(title)
	subtitle = strings.TrimSpace(subtitle)
	if title == "" {
		return OutcomeRejected
	}

	s.mu.Lock()
	if s.sess == nil {
		defer s.mu.Unlock()
		s.createProjectLocalLocked(title, subtitle)
		return OutcomeAppliedLocally
	}
	s.loading.Projects = true
	s.mu.Unlock()

	p, err := s.gw.CreateProject(ctx, title, subtitle, "")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Projects = false

	if err != nil {
		s.errs.Project = errMessage(err)
		s.createProjectLocalLocked(title, subtitle)
		return OutcomeAppliedLocally
	}

	s.insertProjectLocked(p)
	s.tasks[p.ID.Value] = []model.Task{}
	s.persistLocked()
	return OutcomeApplied
}

func (s *Store) createProjectLocalLocked(title, subtitle string) {
	p := model.NewLocalProject(title, subtitle, gateway.PickColor())
	p.CreatedAt = s.now()
	s.insertProjectLocked(p)
	s.tasks[p.ID.Value] = []model.Task{}
	s.logActivity(model.ActivityProjectCreated, p.Title, p.ID.Value, p.Title)
	s.persistLocked()
}

// DeleteProject removes a project and all of its tasks. On the
// confirmed remote path the server records the activity entry; the
// local path logs it here.
func (s *Store) DeleteProject(ctx context.Context, id string) Outcome {
	s.mu.Lock()
	p, ok := s.findProjectLocked(id)
	if !ok {
		s.mu.Unlock()
		return OutcomeRejected
	}

	if s.sess == nil || p.ID.Local {
		defer s.mu.Unlock()
		s.removeProjectLocked(id, true)
		return OutcomeAppliedLocally
	}
	s.loading.Projects = true
	s.mu.Unlock()

	err := s.gw.DeleteProject(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Projects = false

	if err != nil {
		s.errs.Project = errMessage(err)
		s.removeProjectLocked(id, true)
		return OutcomeAppliedLocally
	}

	s.removeProjectLocked(id, false)
	return OutcomeApplied
}

func (s *Store) removeProjectLocked(id string, logEntry bool) {
	p, ok := s.findProjectLocked(id)
	if !ok {
		return
	}

	kept := s.projects[:0]
	for _, existing := range s.projects {
		if existing.ID.Value != id {
			kept = append(kept, existing)
		}
	}
	s.projects = kept
	delete(s.tasks, id)

	if logEntry {
		s.logActivity(model.ActivityProjectDeleted, p.Title, id, p.Title)
	}
	s.persistLocked()
}

// LoadTasks replaces one project's task list with the server's,
// verbatim, even when empty
func (s *Store) LoadTasks(ctx context.Context, projectID string) Outcome {
	s.mu.Lock()
	p, ok := s.findProjectLocked(projectID)
	if !ok || s.sess == nil || p.ID.Local {
		s.mu.Unlock()
		return OutcomeRejected
	}
	s.loading.Tasks[projectID] = true
	s.mu.Unlock()

	remote, err := s.gw.ListTasks(ctx, projectID)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loading.Tasks, projectID)

	if err != nil {
		s.errs.Task = errMessage(err)
		return OutcomeRejected
	}

	// A response for a project deleted in the meantime is discarded
	if _, ok := s.findProjectLocked(projectID); !ok {
		return OutcomeRejected
	}

	s.tasks[projectID] = remote
	s.persistLocked()
	return OutcomeApplied
}

// CreateTask appends a task to a project's list
func (s *Store) CreateTask(ctx context.Context, projectID, text string) Outcome {
	text = strings.TrimSpace(text)
	if text == "" {
		return OutcomeRejected
	}

	s.mu.Lock()
	p, ok := s.findProjectLocked(projectID)
	if !ok {
		s.mu.Unlock()
		return OutcomeRejected
	}

	if s.sess == nil || p.ID.Local {
		defer s.mu.Unlock()
		s.createTaskLocalLocked(p, text)
		return OutcomeAppliedLocally
	}
	s.loading.Tasks[projectID] = true
	s.mu.Unlock()

	t, err := s.gw.CreateTask(ctx, projectID, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loading.Tasks, projectID)

	if err != nil {
		s.errs.Task = errMessage(err)
		if p, ok := s.findProjectLocked(projectID); ok {
			s.createTaskLocalLocked(p, text)
		}
		return OutcomeAppliedLocally
	}

	if _, ok := s.findProjectLocked(projectID); !ok {
		return OutcomeRejected
	}
	s.tasks[projectID] = append(s.tasks[projectID], t)
	s.persistLocked()
	return OutcomeApplied
}

func (s *Store) createTaskLocalLocked(p model.Project, text string) {
	t := model.NewLocalTask(p.ID, text)
	t.CreatedAt = s.now()
	s.tasks[p.ID.Value] = append(s.tasks[p.ID.Value], t)
	s.logActivity(model.ActivityTaskCreated, t.Text, p.ID.Value, p.Title)
	s.persistLocked()
}

// ToggleTask flips a task's completion, replacing it in place
func (s *Store) ToggleTask(ctx context.Context, projectID, taskID string) Outcome {
	s.mu.Lock()
	p, okP := s.findProjectLocked(projectID)
	t, idx, okT := s.findTaskLocked(projectID, taskID)
	if !okP || !okT {
		s.mu.Unlock()
		return OutcomeRejected
	}

	if s.sess == nil || t.ID.Local {
		defer s.mu.Unlock()
		s.toggleTaskLocalLocked(p, idx, t)
		return OutcomeAppliedLocally
	}
	s.loading.Tasks[projectID] = true
	s.mu.Unlock()

	updated, err := s.gw.ToggleTask(ctx, taskID)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loading.Tasks, projectID)

	if err != nil {
		s.errs.Task = errMessage(err)
		if p, ok := s.findProjectLocked(projectID); ok {
			if t, idx, ok := s.findTaskLocked(projectID, taskID); ok {
				s.toggleTaskLocalLocked(p, idx, t)
			}
		}
		return OutcomeAppliedLocally
	}

	if _, idx, ok := s.findTaskLocked(projectID, taskID); ok {
		s.tasks[projectID][idx] = updated
		s.persistLocked()
		return OutcomeApplied
	}
	return OutcomeRejected
}

func (s *Store) toggleTaskLocalLocked(p model.Project, idx int, t model.Task) {
	toggled := t.Toggle(s.now())
	s.tasks[p.ID.Value][idx] = toggled

	kind := model.ActivityTaskReopened
	if toggled.Completed {
		kind = model.ActivityTaskCompleted
	}
	s.logActivity(kind, toggled.Text, p.ID.Value, p.Title)
	s.persistLocked()
}

// DeleteTask removes a task from a project's list
func (s *Store) DeleteTask(ctx context.Context, projectID, taskID string) Outcome {
	s.mu.Lock()
	p, okP := s.findProjectLocked(projectID)
	t, _, okT := s.findTaskLocked(projectID, taskID)
	if !okP || !okT {
		s.mu.Unlock()
		return OutcomeRejected
	}

	if s.sess == nil || t.ID.Local {
		defer s.mu.Unlock()
		s.removeTaskLocked(p, taskID, true)
		return OutcomeAppliedLocally
	}
	s.loading.Tasks[projectID] = true
	s.mu.Unlock()

	err := s.gw.DeleteTask(ctx, taskID)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loading.Tasks, projectID)

	if p, ok := s.findProjectLocked(projectID); ok {
		if err != nil {
			s.errs.Task = errMessage(err)
			s.removeTaskLocked(p, taskID, true)
			return OutcomeAppliedLocally
		}
		s.removeTaskLocked(p, taskID, false)
		return OutcomeApplied
	}
	return OutcomeRejected
}

func (s *Store) removeTaskLocked(p model.Project, taskID string, logEntry bool) {
	t, idx, ok := s.findTaskLocked(p.ID.Value, taskID)
	if !ok {
		return
	}
	list := s.tasks[p.ID.Value]
	s.tasks[p.ID.Value] = append(list[:idx], list[idx+1:]...)

	if logEntry {
		s.logActivity(model.ActivityTaskDeleted, t.Text, p.ID.Value, p.Title)
	}
	s.persistLocked()
}

// FetchActivity replaces the activity log with the newest server
// entries. Local-only entries not yet known to the server are
// discarded, not merged.
func (s *Store) FetchActivity(ctx context.Context) Outcome {
	s.mu.Lock()
	if s.sess == nil {
		s.mu.Unlock()
		return OutcomeRejected
	}
	s.loading.Activity = true
	s.mu.Unlock()

	entries, err := s.gw.ActivityFeed(ctx, activityCap, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Activity = false

	if err != nil {
		s.errs.Activity = errMessage(err)
		return OutcomeRejected
	}

	if len(entries) > activityCap {
		entries = entries[:activityCap]
	}
	s.activity = entries
	s.persistLocked()
	return OutcomeApplied
}

// InFlight reports the current loading flags
func (s *Store) InFlight() Loading {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Loading{
		Projects: s.loading.Projects,
		Activity: s.loading.Activity,
		Tasks:    make(map[string]bool, len(s.loading.Tasks)),
	}
	for k, v := range s.loading.Tasks {
		out.Tasks[k] = v
	}
	return out
}

// insertProjectLocked inserts p before the first project with a
// strictly later creation time: a stable insert, not a re-sort
func (s *Store) insertProjectLocked(p model.Project) {
	idx := len(s.projects)
	for i, existing := range s.projects {
		if existing.CreatedAt.After(p.CreatedAt) {
			idx = i
			break
		}
	}
	s.projects = append(s.projects, model.Project{})
	copy(s.projects[idx+1:], s.projects[idx:])
	s.projects[idx] = p
}

func (s *Store) findProjectLocked(id string) (model.Project, bool) {
	for _, p := range s.projects {
		if p.ID.Value == id {
			return p, true
		}
	}
	return model.Project{}, false
}

func (s *Store) findTaskLocked(projectID, taskID string) (model.Task, int, bool) {
	for i, t := range s.tasks[projectID] {
		if t.ID.Value == taskID {
			return t, i, true
		}
	}
	return model.Task{}, 0, false
}

func (s *Store) persistLocked() {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveSnapshot(s.snapshotLocked()); err != nil {
		logger.Warn("Failed to persist snapshot", logger.F("error", err))
	}
}

// errMessage extracts the server message from a gateway error
func errMessage(err error) string {
	var reqErr *gateway.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	return err.Error()
}
