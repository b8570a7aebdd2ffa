package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/taskdeck/internal/store"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Toggle a task's completion",
	Long: `Mark a task as done, or reopen it if already done.

Examples:
  taskdeck done a1b2c3
  taskdeck done "Buy groceries" --project home`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var doneProject string

func init() {
	doneCmd.Flags().StringVarP(&doneProject, "project", "P", "", "Project the task belongs to")
}

func runDone(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	p, t, err := findTaskRef(app, doneProject, args[0])
	if err != nil {
		return err
	}

	outcome := app.Store.ToggleTask(context.Background(), p.ID.Value, t.ID.Value)
	if !outcome.Mutated() {
		return fmt.Errorf("failed to toggle task: %s", t.Text)
	}
	if outcome == store.OutcomeAppliedLocally {
		warnStoreErrors(app)
	}

	// Re-read: the store holds the toggled copy
	if updated, ok := resolveTask(app, p.ID.Value, t.ID.Value); ok {
		t = updated
	}

	if t.Completed {
		fmt.Printf("✓ Done: %s\n", t.Text)
	} else {
		fmt.Printf("○ Reopened: %s\n", t.Text)
	}
	return nil
}
