package cli

import (
	"fmt"
	"time"

	"github.com/existflow/awaree/internal/logger"
	"github.com/existflow/awaree/internal/report"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Save or inspect the whole studio",
	Long: `Write every project, event, creation and tag color to a JSON backup.
Restore one with 'awaree import <file>'.`,
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a backup file",
	Long: `Write a backup file. With --seal the backup is encrypted with a
passphrase and can only be imported with it.

Examples:
  awaree backup export --out ~/Dropbox
  awaree backup export --seal`,
	Args: cobra.NoArgs,
	RunE: runBackupExport,
}

var backupInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what the local store holds",
	Args:  cobra.NoArgs,
	RunE:  runBackupInfo,
}

var (
	backupOut  string
	backupSeal bool
)

func init() {
	backupExportCmd.Flags().StringVarP(&backupOut, "out", "o", "", "Output directory (defaults to report_dir)")
	backupExportCmd.Flags().BoolVar(&backupSeal, "seal", false, "Encrypt the backup with a passphrase")

	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupInfoCmd)
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	now := time.Now()
	data, err := report.EncodeBackup(sess.state, now)
	if err != nil {
		return err
	}

	if backupSeal {
		pass, err := readPassphrase(cmd, "🔒 Passphrase: ")
		if err != nil {
			return err
		}
		again, err := readPassphrase(cmd, "🔒 Repeat passphrase: ")
		if err != nil {
			return err
		}
		if pass == "" || pass != again {
			return fmt.Errorf("passphrases are empty or do not match")
		}
		if data, err = report.Seal(data, pass); err != nil {
			return err
		}
	}

	dir := backupOut
	if dir == "" {
		dir = cfg.ReportDir
	}
	path, err := report.WriteFile(fsys, dir, report.BackupFileName(now), data)
	if err != nil {
		return err
	}

	logger.Info("Backup exported", logger.F("path", path), logger.F("sealed", backupSeal))
	fmt.Fprintf(cmd.OutOrStdout(), "💾 Backup written: %s (%d projects, %d events, %d creations)\n",
		path, len(sess.state.Projects), len(sess.state.Events), len(sess.state.Creations))
	return nil
}

func runBackupInfo(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	slots, err := sess.store.Slots(cmdContext(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n  %s\n\n", cfg.DBPath)
	if len(slots) == 0 {
		fmt.Fprintln(out, "  Store is empty.")
	}
	for _, s := range slots {
		fmt.Fprintf(out, "  %-20s  %8d bytes  %s\n", s.Key, s.Bytes, s.UpdatedAt)
	}
	fmt.Fprintln(out)
	return nil
}
