package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/existflow/taskdeck/internal/config"
	"github.com/existflow/taskdeck/internal/logger"
	"github.com/existflow/taskdeck/internal/model"
	"github.com/existflow/taskdeck/internal/store"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneSidebar Pane = iota
	PaneTaskList
	PaneActivity
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeAddProject
	ModeConfirmDelete
	ModeHelp
)

// deleteTarget remembers what a pending confirmation would remove
type deleteTarget struct {
	isProject bool
	projectID string
	taskID    string
	label     string
}

// Model is the main TUI model
type Model struct {
	store     *store.Store
	refresher *store.FeedRefresher
	cfg       *config.Config

	// Snapshots read from the store after every change
	projects []model.Project
	tasks    []model.Task
	activity []model.ActivityEntry

	// Channel to trigger UI refresh when the background feed poll
	// pulls new activity
	feedChan chan struct{}

	// UI state
	width      int
	height     int
	pane       Pane
	mode       Mode
	projCursor int
	taskCursor int

	input   textinput.Model
	pending deleteTarget
	message string
}

// NewModel creates a new TUI model
func NewModel(st *store.Store, refresher *store.FeedRefresher, cfg *config.Config) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Enter task..."
	ti.CharLimit = 256
	ti.Width = 50

	m := Model{
		store:     st,
		refresher: refresher,
		cfg:       cfg,
		pane:      PaneSidebar,
		mode:      ModeNormal,
		input:     ti,
		feedChan:  make(chan struct{}, 1), // Buffered to avoid blocking
	}

	if refresher != nil {
		feedChan := m.feedChan
		refresher.SetOnUpdate(func() {
			select {
			case feedChan <- struct{}{}:
			default:
			}
		})
	}

	m.reload()
	logger.Debug("TUI model initialized",
		logger.F("projects", len(m.projects)),
		logger.F("tasks", len(m.tasks)))
	return m
}

// reload re-reads snapshots from the store and clamps cursors
func (m *Model) reload() {
	m.projects = m.store.Projects()
	if m.projCursor >= len(m.projects) {
		m.projCursor = 0
	}

	m.tasks = nil
	if p := m.currentProject(); p != nil {
		m.tasks = m.store.Tasks(p.ID.Value)
	}
	if m.taskCursor >= len(m.tasks) {
		m.taskCursor = 0
	}

	m.activity = m.store.Activity()
}

func (m *Model) currentProject() *model.Project {
	if m.projCursor < len(m.projects) {
		return &m.projects[m.projCursor]
	}
	return nil
}

func (m *Model) currentTask() *model.Task {
	if m.taskCursor < len(m.tasks) {
		return &m.tasks[m.taskCursor]
	}
	return nil
}

// loggedIn reports whether remote operations are possible
func (m *Model) loggedIn() bool {
	return m.store.Session() != nil
}
