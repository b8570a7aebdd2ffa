package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/taskdeck/internal/store"
)

// mutatedMsg is sent when a store operation finished
type mutatedMsg struct {
	outcome store.Outcome
	what    string
}

// loadedMsg is sent when the initial server fetch finished
type loadedMsg struct{}

// feedMsg is sent when the background feed poll pulled new activity
type feedMsg struct{}

// Init starts the initial load and the feed listener
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitForFeed())
}

// loadCmd fetches projects, their tasks, and the activity feed
func (m Model) loadCmd() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if st.LoadProjects(ctx) == store.OutcomeApplied {
			for _, p := range st.Projects() {
				if !p.ID.Local {
					st.LoadTasks(ctx, p.ID.Value)
				}
			}
		}
		st.FetchActivity(ctx)
		return loadedMsg{}
	}
}

// waitForFeed listens for background activity refreshes
func (m Model) waitForFeed() tea.Cmd {
	if m.feedChan == nil {
		return nil
	}
	feedChan := m.feedChan
	return func() tea.Msg {
		<-feedChan
		return feedMsg{}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.reload()
		m.showErrors()
		return m, nil

	case feedMsg:
		m.reload()
		return m, m.waitForFeed()

	case mutatedMsg:
		m.reload()
		switch msg.outcome {
		case store.OutcomeApplied:
			m.message = msg.what
		case store.OutcomeAppliedLocally:
			m.message = msg.what + " (saved locally)"
			m.showErrors()
		default:
			m.message = ""
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAddTask, ModeAddProject:
			return m.updateInput(msg)
		case ModeConfirmDelete:
			return m.handleConfirmKeys(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// showErrors moves any store error banner into the status message
func (m *Model) showErrors() {
	errs := m.store.Errors()
	for _, msg := range []string{errs.Project, errs.Task, errs.Activity} {
		if msg != "" {
			m.message = "⚠ " + msg
			m.store.ClearErrors()
			return
		}
	}
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		switch m.pane {
		case PaneSidebar:
			m.pane = PaneTaskList
		case PaneTaskList:
			m.pane = PaneActivity
		default:
			m.pane = PaneSidebar
		}

	case key.Matches(msg, keys.Left):
		if m.pane == PaneActivity {
			m.pane = PaneTaskList
		} else {
			m.pane = PaneSidebar
		}

	case key.Matches(msg, keys.Right):
		if m.pane == PaneSidebar {
			m.pane = PaneTaskList
		} else {
			m.pane = PaneActivity
		}

	case key.Matches(msg, keys.Up):
		m.handleUp()

	case key.Matches(msg, keys.Down):
		m.handleDown()

	case key.Matches(msg, keys.GoBottom):
		m.handleGoBottom()

	case key.Matches(msg, keys.Add):
		return m.startAddTask()

	case key.Matches(msg, keys.Project):
		return m.startAddProject()

	case key.Matches(msg, keys.Done), key.Matches(msg, keys.Enter):
		return m.handleToggleDone()

	case key.Matches(msg, keys.Delete):
		return m.handleDelete()

	case key.Matches(msg, keys.Refresh):
		m.message = "Refreshing..."
		return m, m.loadCmd()

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Escape):
		m.message = ""
	}

	return m, nil
}

func (m *Model) handleUp() {
	switch m.pane {
	case PaneSidebar:
		if m.projCursor > 0 {
			m.projCursor--
			m.taskCursor = 0
			m.reload()
		}
	case PaneTaskList:
		if m.taskCursor > 0 {
			m.taskCursor--
		}
	}
}

func (m *Model) handleDown() {
	switch m.pane {
	case PaneSidebar:
		if m.projCursor < len(m.projects)-1 {
			m.projCursor++
			m.taskCursor = 0
			m.reload()
		}
	case PaneTaskList:
		if m.taskCursor < len(m.tasks)-1 {
			m.taskCursor++
		}
	}
}

func (m *Model) handleGoBottom() {
	switch m.pane {
	case PaneSidebar:
		if len(m.projects) > 0 {
			m.projCursor = len(m.projects) - 1
			m.taskCursor = 0
			m.reload()
		}
	case PaneTaskList:
		if len(m.tasks) > 0 {
			m.taskCursor = len(m.tasks) - 1
		}
	}
}

func (m Model) startAddTask() (tea.Model, tea.Cmd) {
	if m.currentProject() == nil {
		m.message = "Create a project first (press p)"
		return m, nil
	}
	m.mode = ModeAddTask
	m.input.Placeholder = "Enter task..."
	m.input.SetValue("")
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) startAddProject() (tea.Model, tea.Cmd) {
	m.mode = ModeAddProject
	m.input.Placeholder = "Project name..."
	m.input.SetValue("")
	m.input.Focus()
	return m, textinput.Blink
}

// updateInput handles key presses while the input modal is open
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = ModeNormal
		m.input.Blur()

		if value == "" {
			return m, nil
		}

		if mode == ModeAddProject {
			return m, m.createProjectCmd(value)
		}
		if p := m.currentProject(); p != nil {
			return m, m.createTaskCmd(p.ID.Value, value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleToggleDone() (tea.Model, tea.Cmd) {
	if m.pane != PaneTaskList {
		return m, nil
	}
	p := m.currentProject()
	t := m.currentTask()
	if p == nil || t == nil {
		return m, nil
	}
	return m, m.toggleTaskCmd(p.ID.Value, t.ID.Value, !t.Completed)
}

func (m Model) handleDelete() (tea.Model, tea.Cmd) {
	switch m.pane {
	case PaneSidebar:
		p := m.currentProject()
		if p == nil {
			return m, nil
		}
		m.pending = deleteTarget{isProject: true, projectID: p.ID.Value, label: p.Title}
	case PaneTaskList:
		p := m.currentProject()
		t := m.currentTask()
		if p == nil || t == nil {
			return m, nil
		}
		m.pending = deleteTarget{projectID: p.ID.Value, taskID: t.ID.Value, label: t.Text}
	default:
		return m, nil
	}

	if !m.cfg.ConfirmDelete {
		return m.confirmDelete()
	}
	m.mode = ModeConfirmDelete
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = ModeNormal
		return m.confirmDelete()
	default:
		m.mode = ModeNormal
		m.pending = deleteTarget{}
		m.message = "Cancelled"
		return m, nil
	}
}

func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	target := m.pending
	m.pending = deleteTarget{}
	if target.isProject {
		return m, m.deleteProjectCmd(target.projectID, target.label)
	}
	return m, m.deleteTaskCmd(target.projectID, target.taskID, target.label)
}

// Store operation commands run off the UI goroutine so a slow server
// never freezes the interface.

func (m Model) createProjectCmd(title string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		outcome := st.CreateProject(context.Background(), title, "")
		return mutatedMsg{outcome: outcome, what: "Created " + title}
	}
}

func (m Model) createTaskCmd(projectID, text string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		outcome := st.CreateTask(context.Background(), projectID, text)
		return mutatedMsg{outcome: outcome, what: "Added task"}
	}
}

func (m Model) toggleTaskCmd(projectID, taskID string, nowDone bool) tea.Cmd {
	st := m.store
	what := "Reopened task"
	if nowDone {
		what = "Completed task"
	}
	return func() tea.Msg {
		outcome := st.ToggleTask(context.Background(), projectID, taskID)
		return mutatedMsg{outcome: outcome, what: what}
	}
}

func (m Model) deleteProjectCmd(projectID, label string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		outcome := st.DeleteProject(context.Background(), projectID)
		return mutatedMsg{outcome: outcome, what: "Deleted " + label}
	}
}

func (m Model) deleteTaskCmd(projectID, taskID, label string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		outcome := st.DeleteTask(context.Background(), projectID, taskID)
		return mutatedMsg{outcome: outcome, what: "Deleted task"}
	}
}
