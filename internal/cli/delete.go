package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/taskdeck/internal/store"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var (
	deleteProject string
	deleteForce   bool
)

func init() {
	deleteCmd.Flags().StringVarP(&deleteProject, "project", "P", "", "Project the task belongs to")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	p, t, err := findTaskRef(app, deleteProject, args[0])
	if err != nil {
		return err
	}

	if app.Cfg.ConfirmDelete && !deleteForce {
		fmt.Printf("Delete %q from [%s]? [y/N] ", t.Text, p.Title)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	outcome := app.Store.DeleteTask(context.Background(), p.ID.Value, t.ID.Value)
	if !outcome.Mutated() {
		return fmt.Errorf("failed to delete task: %s", t.Text)
	}
	if outcome == store.OutcomeAppliedLocally {
		warnStoreErrors(app)
	}

	fmt.Printf("🗑️  Deleted: %s\n", t.Text)
	return nil
}
