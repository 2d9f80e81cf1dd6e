package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/existflow/awaree/internal/logger"
	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/report"
	"github.com/existflow/awaree/internal/studio"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a report, a project export or a backup",
	Long: `Import a file produced by Awaree: an HTML report, a single project as
JSON, or a backup. A project that already exists is only replaced after
confirmation; a backup replaces the collections it contains.

Examples:
  awaree import awaree_rapport_affiche.html
  awaree import awaree_backup_2026-03-01.json --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	importYes        bool
	importNo         bool
	importPassphrase string
)

const importDiffLines = 40

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Replace existing data without asking")
	importCmd.Flags().BoolVar(&importNo, "no", false, "Never replace existing data")
	importCmd.Flags().StringVar(&importPassphrase, "passphrase", "", "Passphrase of a sealed backup")
}

func runImport(cmd *cobra.Command, args []string) error {
	if importYes && importNo {
		return fmt.Errorf("--yes and --no cannot be combined")
	}
	data, kind, err := report.ReadFile(fsys, args[0])
	if err != nil {
		return err
	}

	payload, err := report.DecodeSealed(data, kind, importPassphrase)
	if errors.Is(err, report.ErrSealed) {
		pass, perr := readPassphrase(cmd, "🔒 Backup passphrase: ")
		if perr != nil {
			return perr
		}
		payload, err = report.DecodeSealed(data, kind, pass)
	}
	if err != nil {
		logger.Warn("Import rejected", logger.F("file", args[0]), logger.F("error", err))
		return fmt.Errorf("cannot import %s: %w", args[0], err)
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	if !applyImport(cmd, sess, payload) {
		return nil
	}
	return sess.commit(cmd.Context())
}

// applyImport merges payload into the session state and reports whether
// anything changed
func applyImport(cmd *cobra.Command, sess *session, payload *report.Payload) bool {
	out := cmd.OutOrStdout()

	if payload.Backup != nil {
		keys := payload.Backup.Collections()
		if len(keys) == 0 {
			fmt.Fprintln(out, "Backup is empty, nothing to restore.")
			return false
		}
		if importNo {
			fmt.Fprintln(out, "Skipped backup restore.")
			return false
		}
		if !importYes && cfg.ConfirmImport {
			if !confirm(cmd, fmt.Sprintf("Replace %s with the backup?", strings.Join(keys, ", "))) {
				fmt.Fprintln(out, "Aborted.")
				return false
			}
		}
		sess.state = studio.RestoreBackup(sess.state, *payload.Backup)
		logger.Info("Backup restored", logger.F("collections", keys))
		fmt.Fprintf(out, "♻️  Restored %s\n", strings.Join(keys, ", "))
		return true
	}

	incoming := *payload.Project
	incoming.Normalize()
	result := studio.MergeProject(sess.state.Projects, incoming, importConfirmer(cmd))
	sess.state.Projects = result.Projects

	logger.Info("Project imported", logger.F("project", incoming.ID), logger.F("action", result.Action.String()))
	switch result.Action {
	case studio.MergeInsert:
		fmt.Fprintf(out, "📥 Imported: %s\n", incoming.Name)
	case studio.MergeReplace:
		fmt.Fprintf(out, "🔄 Replaced: %s\n", incoming.Name)
	default:
		fmt.Fprintf(out, "Kept the existing %s.\n", incoming.Name)
		return false
	}
	return true
}

func importConfirmer(cmd *cobra.Command) studio.Confirmer {
	switch {
	case importNo:
		return studio.Never
	case importYes || !cfg.ConfirmImport:
		return studio.Always
	}
	return func(existing, incoming model.Project) bool {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "⚠️  %s already exists (id %s).\n", existing.Name, shortID(existing.ID))
		if diff := projectDiff(existing, incoming, importDiffLines); diff != "" {
			fmt.Fprintln(out, diff)
		}
		return confirm(cmd, "Replace it with the imported version?")
	}
}

// projectDiff lists the changed lines between two projects as JSON, capped
// at limit lines
func projectDiff(existing, incoming model.Project, limit int) string {
	before, _ := json.MarshalIndent(existing, "", "  ")
	after, _ := json.MarshalIndent(incoming, "", "  ")
	if string(before) == string(after) {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(string(before), string(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var lines []string
	for _, d := range diffs {
		prefix := ""
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			lines = append(lines, prefix+truncate(strings.TrimSpace(line), 100))
		}
	}
	if len(lines) > limit {
		more := len(lines) - limit
		lines = append(lines[:limit], fmt.Sprintf("  … %d more changed lines", more))
	}
	return strings.Join(lines, "\n")
}
