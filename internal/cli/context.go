package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/existflow/awaree/internal/config"
	"github.com/existflow/awaree/internal/studio"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var useCmd = &cobra.Command{
	Use:   "use [project]",
	Short: "Set or show the current project",
	Long: `Set or view the current project.

When a project is current, task, note, mood and version commands apply to it
unless another project is named with --project.

Examples:
  awaree use                 # Show the current project
  awaree use "Affiche"       # Switch by name or id prefix
  awaree use --clear         # Forget the current project`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUse,
}

var useClear bool

func init() {
	useCmd.Flags().BoolVar(&useClear, "clear", false, "Clear the current project")
}

// Context file path
func contextFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "context"), nil
}

// GetCurrentContext returns the current project id, empty when none is set
func GetCurrentContext() string {
	path, err := contextFilePath()
	if err != nil {
		return ""
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetContext saves the current project id
func SetContext(projectID string) error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return afero.WriteFile(fsys, path, []byte(projectID), 0644)
}

// ClearContext removes the context file
func ClearContext() error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := fsys.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func runUse(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if useClear {
		if err := ClearContext(); err != nil {
			return fmt.Errorf("failed to clear context: %w", err)
		}
		fmt.Fprintln(out, "📥 Context cleared")
		return nil
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	if len(args) == 0 {
		current := GetCurrentContext()
		if current == "" {
			fmt.Fprintln(out, "📥 No current project (see 'awaree use <project>')")
			return nil
		}
		idx := studio.IndexOf(sess.state.Projects, current)
		if idx < 0 {
			fmt.Fprintf(out, "⚠️  Context set to '%s' but project not found\n", current)
			return nil
		}
		p := sess.state.Projects[idx]
		fmt.Fprintf(out, "📁 Current project: %s (%d/%d tasks)\n", p.Name, p.CompletedTasks(), len(p.Tasks))
		return nil
	}

	p, err := studio.ResolveProject(sess.state.Projects, args[0])
	if err != nil {
		return err
	}
	if err := SetContext(p.ID); err != nil {
		return fmt.Errorf("failed to set context: %w", err)
	}
	fmt.Fprintf(out, "📁 Switched to: %s\n", p.Name)
	return nil
}
