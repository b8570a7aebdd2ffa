package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	sidebarWidth  = 24
	activityWidth = 32
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebar := m.renderSidebar()
	taskList := m.renderTaskList()
	activityPanel := m.renderActivity()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, taskList, activityPanel)

	if m.mode == ModeAddTask || m.mode == ModeAddProject {
		modal := m.renderModal()
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeConfirmDelete {
		modal := m.renderConfirmModal()
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeHelp {
		mainContent = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) renderSidebar() string {
	var s string

	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("TaskDeck") + "\n"
	if m.loggedIn() {
		s += HelpStyle.Render(m.store.Session().User.Name) + "\n"
	} else {
		s += PendingStyle.Render("offline") + "\n"
	}
	s += lipgloss.NewStyle().Foreground(Border).Render("───────────────────") + "\n\n"

	if len(m.projects) == 0 {
		s += HelpStyle.Render("No projects yet")
	}

	for i, p := range m.projects {
		total, completed := m.store.Counts(p.ID.Value)

		cursor := "  "
		style := ItemStyle
		if i == m.projCursor {
			cursor = "❯ "
			if m.pane == PaneSidebar {
				style = ItemSelectedStyle
			}
		}

		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("●")
		name := truncate(p.Title, 10)
		if p.ID.Local {
			name = PendingStyle.Render(name)
		}

		line := fmt.Sprintf("%s%s %-10s %d/%d", cursor, dot, name, completed, total)
		s += style.Render(line) + "\n"
	}

	s += "\n" + lipgloss.NewStyle().Foreground(Border).Render("───────────────────") + "\n"
	s += HelpStyle.Render("p new project")

	return SidebarStyle.Width(sidebarWidth).Height(m.height - 2).Render(s)
}

func (m Model) renderTaskList() string {
	width := m.width - sidebarWidth - activityWidth
	if width < 20 {
		width = 20
	}
	var s string

	proj := m.currentProject()
	if proj == nil {
		return TaskListStyle.Width(width).Height(m.height - 2).Render("No project selected")
	}

	pending := 0
	for _, t := range m.tasks {
		if !t.Completed {
			pending++
		}
	}
	header := fmt.Sprintf("%s (%d pending)", proj.Title, pending)
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(header) + "\n"
	if proj.Subtitle != "" {
		s += HelpStyle.Render(proj.Subtitle) + "\n"
	}
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", width-4)) + "\n\n"

	if len(m.tasks) == 0 {
		s += HelpStyle.Render("  No tasks. Press 'a' to add one.")
	}

	for i, t := range m.tasks {
		cursor := "  "
		style := ItemStyle
		if i == m.taskCursor && m.pane == PaneTaskList {
			cursor = "❯ "
			style = ItemSelectedStyle
		}

		icon := "[ ]"
		if t.Completed {
			icon = "[x]"
			style = TaskDoneStyle
		}

		text := truncate(t.Text, width-16)
		line := style.Render(fmt.Sprintf("%s%s %s", cursor, icon, text))

		if t.ID.Local {
			line += PendingStyle.Render(" ◌")
		}

		s += line + "\n"
	}

	return TaskListStyle.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderActivity() string {
	var s string

	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Activity") + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render("─────────────────────") + "\n\n"

	if len(m.activity) == 0 {
		s += HelpStyle.Render("Nothing yet")
	}

	for _, e := range m.activity {
		s += HelpStyle.Render(relativeTime(e.Timestamp)) + "\n"
		s += fmt.Sprintf("%s %s\n", activityIcon(e.Kind), truncate(e.Subject, activityWidth-8))
		if e.ProjectName != "" {
			s += HelpStyle.Render("  in "+truncate(e.ProjectName, activityWidth-10)) + "\n"
		}
	}

	return ActivityStyle.Width(activityWidth).Height(m.height - 2).Render(s)
}

func activityIcon(kind string) string {
	switch kind {
	case "project_created":
		return lipgloss.NewStyle().Foreground(Primary).Render("+")
	case "project_deleted", "task_deleted":
		return ErrorStyle.Render("-")
	case "task_completed":
		return lipgloss.NewStyle().Foreground(Completed).Render("✓")
	case "task_reopened":
		return PendingStyle.Render("○")
	default:
		return "•"
	}
}

// relativeTime renders an activity timestamp the way the feed shows it
func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2")
	}
}

func (m Model) renderStatusBar() string {
	help := "tab:pane  a:add  x:done  d:del  p:project  r:refresh  ?:help  q:quit"
	if m.message != "" {
		help = m.message
	}

	flight := m.store.InFlight()
	busy := flight.Projects || flight.Activity || len(flight.Tasks) > 0
	if busy {
		avail := m.width - len(help) - 12
		if avail > 0 {
			help += repeat(" ", avail)
		}
		help += "Syncing..."
	}

	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	title := "New Project"
	if m.mode == ModeAddTask {
		if proj := m.currentProject(); proj != nil {
			title = fmt.Sprintf("Add Task to: %s", proj.Title)
		} else {
			title = "Add Task"
		}
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:save  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderConfirmModal() string {
	what := "task"
	if m.pending.isProject {
		what = "project and all its tasks"
	}

	content := ErrorStyle.Render("Delete "+what+"?") + "\n\n"
	content += fmt.Sprintf("  %s\n\n", truncate(m.pending.label, 40))
	content += HelpStyle.Render("y:delete  any other key:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ───╮
│                          │
│  Navigation              │
│  ──────────              │
│  j/↓    Move down        │
│  k/↑    Move up          │
│  h/l    Switch pane      │
│  Tab    Cycle panes      │
│  G      Go to bottom     │
│                          │
│  Actions                 │
│  ───────                 │
│  a       Add task        │
│  x/Enter Toggle done     │
│  d       Delete          │
│  p       New project     │
│  r       Refresh         │
│                          │
│  Other                   │
│  ─────                   │
│  ?       Toggle help     │
│  q       Quit            │
│                          │
╰──────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}
