package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/taskdeck/internal/store"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"refresh"},
	Short:   "Push pending changes and refresh from the server",
	Long: `Push locally created projects and tasks to the server, then pull a
fresh copy of everything.

Commands:
  taskdeck sync              # Sync now
  taskdeck sync status       # Show sync status`,
	RunE: runSync,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE:  runSyncStatus,
}

var syncConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure the server URL",
	RunE:  runSyncConfig,
}

func init() {
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncConfigCmd)

	syncConfigCmd.Flags().String("server", "", "Set server URL")
}

func runSync(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.LoggedIn() {
		return fmt.Errorf("not logged in: run 'taskdeck auth login' first")
	}

	ctx := context.Background()

	fmt.Println("🔄 Pushing pending changes...")
	pushed, err := app.Store.SyncPending(ctx)
	if err != nil {
		fmt.Printf("⚠️  Some changes could not be pushed: %v\n", err)
	}

	fmt.Println("🔄 Refreshing from server...")
	if app.Store.LoadProjects(ctx) != store.OutcomeApplied {
		warnStoreErrors(app)
		return fmt.Errorf("failed to fetch projects")
	}
	for _, p := range app.Store.Projects() {
		if !p.ID.Local {
			app.Store.LoadTasks(ctx, p.ID.Value)
		}
	}
	app.Store.FetchActivity(ctx)
	warnStoreErrors(app)

	if pushed > 0 {
		fmt.Printf("✓ Sync complete! Pushed %d pending item(s).\n", pushed)
	} else {
		fmt.Println("✓ Sync complete! Already up to date.")
	}
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Printf("Server:    %s\n", app.Cfg.ServerURL)

	if sess := app.Store.Session(); sess != nil {
		fmt.Printf("User:      %s <%s>\n", sess.User.Name, sess.User.Email)
		fmt.Println("Status:    ✓ Logged in")
	} else {
		fmt.Println("Status:    Not logged in")
	}

	pending := 0
	for _, p := range app.Store.Projects() {
		if p.ID.Local {
			pending++
		}
		for _, t := range app.Store.Tasks(p.ID.Value) {
			if t.ID.Local {
				pending++
			}
		}
	}
	fmt.Printf("Pending:   %d item(s) awaiting sync\n", pending)
	return nil
}

func runSyncConfig(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		fmt.Printf("Server: %s\n", app.Cfg.ServerURL)
		return nil
	}

	app.Cfg.ServerURL = server
	if err := app.Cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("✓ Server set to: %s\n", server)
	return nil
}
