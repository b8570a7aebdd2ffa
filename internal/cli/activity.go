package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/taskdeck/internal/model"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent activity",
	Long:  `Show the recent-activity feed, newest first.`,
	RunE:  runActivity,
}

func runActivity(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if app.LoggedIn() {
		app.Store.FetchActivity(context.Background())
		warnStoreErrors(app)
	}

	entries := app.Store.Activity()
	if len(entries) == 0 {
		fmt.Println("No recent activity.")
		return nil
	}

	fmt.Println()
	for _, e := range entries {
		fmt.Printf("  %s  %-12s  %-30s  %s\n",
			e.Timestamp.Format("Jan 02 15:04"),
			activityVerb(e.Kind),
			e.Subject,
			e.ProjectName)
	}
	fmt.Println()
	return nil
}

func activityVerb(kind string) string {
	switch kind {
	case model.ActivityProjectCreated:
		return "project +"
	case model.ActivityProjectDeleted:
		return "project -"
	case model.ActivityTaskCreated:
		return "added"
	case model.ActivityTaskCompleted:
		return "completed"
	case model.ActivityTaskReopened:
		return "reopened"
	case model.ActivityTaskDeleted:
		return "deleted"
	default:
		return strings.ReplaceAll(kind, "_", " ")
	}
}
