package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/taskdeck/internal/model"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks, optionally filtered by project.

Examples:
  taskdeck list
  taskdeck list --project work
  taskdeck list --done`,
	RunE: runList,
}

var (
	listProject     string
	listIncludeDone bool
)

func init() {
	listCmd.Flags().StringVarP(&listProject, "project", "P", "", "Filter by project")
	listCmd.Flags().BoolVar(&listIncludeDone, "done", false, "Include completed tasks")
}

func runList(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if app.LoggedIn() {
		app.Store.LoadProjects(context.Background())
	}

	ref := listProject
	if ref == "" {
		ref = GetCurrentContext()
	}

	projects := app.Store.Projects()
	if ref != "" {
		p, ok := resolveProject(app, ref)
		if !ok {
			return fmt.Errorf("project not found: %s", ref)
		}
		projects = []model.Project{p}
	}

	if len(projects) == 0 {
		fmt.Println("No projects found. Create one with: taskdeck project new \"Name\"")
		return nil
	}

	shown := 0
	for _, p := range projects {
		if app.LoggedIn() && !p.ID.Local {
			app.Store.LoadTasks(context.Background(), p.ID.Value)
		}
		tasks := app.Store.Tasks(p.ID.Value)
		if len(tasks) == 0 && ref == "" {
			continue
		}
		printTasks(p, tasks)
		shown++
	}

	if shown == 0 {
		fmt.Println("No tasks found. Add one with: taskdeck add \"Your task\"")
	}
	return nil
}

func printTasks(p model.Project, tasks []model.Task) {
	pending := 0
	for _, t := range tasks {
		if !t.Completed {
			pending++
		}
	}

	fmt.Printf("\n📁 %s (%d pending)\n", p.Title, pending)
	fmt.Println(strings.Repeat("─", 60))

	for _, t := range tasks {
		if t.Completed && !listIncludeDone {
			continue
		}
		printTask(t)
	}
	fmt.Println()
}

func printTask(t model.Task) {
	icon := "[ ]"
	if t.Completed {
		icon = "[x]"
	}

	text := t.Text
	if len(text) > 48 {
		text = text[:45] + "..."
	}

	marker := ""
	if t.ID.Local {
		marker = "  (pending sync)"
	}

	fmt.Printf("  %s  %-8s  %-48s%s\n", icon, shortID(t.ID.Value), text, marker)
}
