package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/taskdeck/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a new task",
	Long: `Add a new task to a project.

Examples:
  taskdeck add "Buy groceries"
  taskdeck add "Meeting notes" --project work`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var addProject string

func init() {
	addCmd.Flags().StringVarP(&addProject, "project", "P", "", "Project to add the task to")
}

func runAdd(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	text := strings.Join(args, " ")

	ref := addProject
	if ref == "" {
		ref = GetCurrentContext()
	}
	if ref == "" {
		return fmt.Errorf("no project given: use --project or set a context")
	}

	p, ok := resolveProject(app, ref)
	if !ok {
		return fmt.Errorf("project not found: %s", ref)
	}

	outcome := app.Store.CreateTask(context.Background(), p.ID.Value, text)
	switch outcome {
	case store.OutcomeApplied:
		fmt.Printf("✓ Added to [%s]: %q\n", p.Title, text)
	case store.OutcomeAppliedLocally:
		fmt.Printf("✓ Added to [%s] locally: %q (will sync when online)\n", p.Title, text)
		warnStoreErrors(app)
	default:
		return fmt.Errorf("task text cannot be empty")
	}
	return nil
}
