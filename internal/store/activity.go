package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/existflow/taskdeck/internal/model"
)

const (
	// activityCap bounds the recent-activity log
	activityCap = 15
	// dedupWindow suppresses identical entries logged in quick
	// succession, e.g. from a double-clicked toggle
	dedupWindow = time.Second
)

// logActivity appends an entry to the front of the activity log. An
// entry is dropped when one with the same kind, subject, and project
// was already logged within the dedup window. The log is truncated to
// activityCap. Caller must hold s.mu.
func (s *Store) logActivity(kind, subject, projectID, projectName string) {
	now := s.now()

	// The log is newest-first, so only the head can be inside the window
	for _, e := range s.activity {
		if now.Sub(e.Timestamp) > dedupWindow {
			break
		}
		if e.Kind == kind && e.Subject == subject && e.ProjectID == projectID {
			return
		}
	}

	entry := model.ActivityEntry{
		ID:          uuid.New().String(),
		Kind:        kind,
		Subject:     subject,
		ProjectID:   projectID,
		ProjectName: projectName,
		Timestamp:   now,
	}

	s.activity = append([]model.ActivityEntry{entry}, s.activity...)
	if len(s.activity) > activityCap {
		s.activity = s.activity[:activityCap]
	}
}
