package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/taskdeck/internal/store"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `Create, list, and manage projects for organizing tasks.`,
}

var projectNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new project",
	Long: `Create a new project for organizing tasks.

Examples:
  taskdeck project new "Work"
  taskdeck project new "Personal" --subtitle "errands and chores"`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectNew,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all projects",
	RunE:    runProjectList,
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete [project-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a project and all its tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectDelete,
}

var projectSubtitle string

func init() {
	projectNewCmd.Flags().StringVarP(&projectSubtitle, "subtitle", "s", "", "Project subtitle")

	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	title := args[0]
	outcome := app.Store.CreateProject(context.Background(), title, projectSubtitle)

	switch outcome {
	case store.OutcomeApplied:
		fmt.Printf("✓ Created project: %s\n", title)
	case store.OutcomeAppliedLocally:
		fmt.Printf("✓ Created project locally: %s (will sync when online)\n", title)
		warnStoreErrors(app)
	default:
		return fmt.Errorf("project title cannot be empty")
	}
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	// Refresh from the server when possible; offline we show the cache
	if app.LoggedIn() {
		app.Store.LoadProjects(context.Background())
		for _, p := range app.Store.Projects() {
			if !p.ID.Local {
				app.Store.LoadTasks(context.Background(), p.ID.Value)
			}
		}
	}

	projects := app.Store.Projects()
	if len(projects) == 0 {
		fmt.Println("No projects found. Create one with: taskdeck project new \"Name\"")
		return nil
	}

	fmt.Println()
	fmt.Printf("  %-10s  %-25s  %s\n", "ID", "Title", "Done")
	fmt.Println(strings.Repeat("─", 50))

	for _, p := range projects {
		total, completed := app.Store.Counts(p.ID.Value)
		marker := ""
		if p.ID.Local {
			marker = " (pending sync)"
		}
		fmt.Printf("  %-10s  %-25s  %d/%d%s\n", shortID(p.ID.Value), p.Title, completed, total, marker)
	}

	fmt.Println(strings.Repeat("─", 50))
	fmt.Printf("  %d projects\n\n", len(projects))
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	p, ok := resolveProject(app, args[0])
	if !ok {
		return fmt.Errorf("project not found: %s", args[0])
	}

	outcome := app.Store.DeleteProject(context.Background(), p.ID.Value)
	if !outcome.Mutated() {
		return fmt.Errorf("failed to delete project: %s", p.Title)
	}

	if outcome == store.OutcomeAppliedLocally {
		warnStoreErrors(app)
	}
	fmt.Printf("🗑️  Deleted project: %s\n", p.Title)

	if GetCurrentContext() == p.ID.Value {
		_ = ClearContext()
	}
	return nil
}

// warnStoreErrors surfaces any error banner left by a fallback path
func warnStoreErrors(app *App) {
	errs := app.Store.Errors()
	for _, msg := range []string{errs.Project, errs.Task, errs.Activity} {
		if msg != "" {
			fmt.Printf("⚠️  %s\n", msg)
		}
	}
	app.Store.ClearErrors()
}
