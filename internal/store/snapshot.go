package store

import "github.com/existflow/taskdeck/internal/model"

// Snapshot is the full serializable store state, persisted wholesale
// between sessions for offline-first continuity
type Snapshot struct {
	Projects []model.Project         `json:"projects"`
	Tasks    map[string][]model.Task `json:"tasks"`
	Activity []model.ActivityEntry   `json:"activity"`
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Projects: make([]model.Project, len(s.projects)),
		Tasks:    make(map[string][]model.Task, len(s.tasks)),
		Activity: make([]model.ActivityEntry, len(s.activity)),
	}
	copy(snap.Projects, s.projects)
	copy(snap.Activity, s.activity)
	for id, ts := range s.tasks {
		list := make([]model.Task, len(ts))
		copy(list, ts)
		snap.Tasks[id] = list
	}
	return snap
}

// Snapshot returns a copy of the full store state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Restore replaces store state with a previously saved snapshot,
// typically at startup before any remote load
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = snap.Projects
	s.activity = snap.Activity
	s.tasks = snap.Tasks
	if s.tasks == nil {
		s.tasks = make(map[string][]model.Task)
	}

	// Every project keeps an (possibly empty) task list entry
	for _, p := range s.projects {
		if _, ok := s.tasks[p.ID.Value]; !ok {
			s.tasks[p.ID.Value] = []model.Task{}
		}
	}
}
