package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage project context",
	Long: `Set or view the current project context.

When a context is set, new tasks are added to that project by default.

Examples:
  taskdeck context              # Show current context
  taskdeck context set a1b2c3   # Set context to a project
  taskdeck context clear        # Clear context`,
	RunE: runContextShow,
}

var contextSetCmd = &cobra.Command{
	Use:   "set [project-id]",
	Short: "Set the current project context",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextSet,
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the current context",
	RunE:  runContextClear,
}

func init() {
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextClearCmd)
}

func contextFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskdeck", "context"), nil
}

// GetCurrentContext returns the current project context, empty when unset
func GetCurrentContext() string {
	path, err := contextFilePath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetContext saves the current context
func SetContext(projectID string) error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(projectID), 0644)
}

// ClearContext removes the context file
func ClearContext() error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func runContextShow(cmd *cobra.Command, args []string) error {
	ctx := GetCurrentContext()
	if ctx == "" {
		fmt.Println("📥 No context set. New tasks need --project.")
		return nil
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	for _, p := range app.Store.Projects() {
		if p.ID.Value == ctx {
			total, completed := app.Store.Counts(ctx)
			fmt.Printf("📁 Current context: %s (%d/%d tasks)\n", p.Title, completed, total)
			return nil
		}
	}

	fmt.Printf("⚠️  Context set to '%s' but project not found\n", shortID(ctx))
	return nil
}

func runContextSet(cmd *cobra.Command, args []string) error {
	projectID := args[0]

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	p, ok := resolveProject(app, projectID)
	if !ok {
		return fmt.Errorf("project not found: %s", projectID)
	}

	if err := SetContext(p.ID.Value); err != nil {
		return fmt.Errorf("failed to set context: %w", err)
	}

	fmt.Printf("📁 Switched to: %s\n", p.Title)
	return nil
}

func runContextClear(cmd *cobra.Command, args []string) error {
	if err := ClearContext(); err != nil {
		return fmt.Errorf("failed to clear context: %w", err)
	}
	fmt.Println("📥 Context cleared")
	return nil
}
