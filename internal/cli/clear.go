package cli

import (
	"fmt"

	"github.com/existflow/awaree/internal/logger"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase the local studio",
	Long: `Erase every project, event, creation and tag color from the local store.
Export a backup first if you may need the data again.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().Bool("force", false, "Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	if !force {
		if !confirm(cmd, "Are you sure you want to erase the whole studio?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	fmt.Fprintln(cmd.OutOrStdout(), "🧹 Clearing local data...")
	if err := sess.store.Clear(cmdContext(cmd)); err != nil {
		return fmt.Errorf("failed to clear local data: %w", err)
	}
	if err := ClearContext(); err != nil {
		logger.Warn("Failed to clear context", logger.F("error", err))
	}

	logger.Info("Studio cleared")
	fmt.Fprintln(cmd.OutOrStdout(), "Local data cleared.")
	return nil
}
