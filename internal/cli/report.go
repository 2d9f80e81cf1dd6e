package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/existflow/awaree/internal/logger"
	"github.com/existflow/awaree/internal/report"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export and read project reports",
	Long: `Export a project as a standalone HTML report. The report embeds the full
project so it can be imported back with 'awaree import'.`,
}

var reportExportCmd = &cobra.Command{
	Use:   "export [project]",
	Short: "Write the HTML report of a project",
	Long: `Write the HTML report of a project.

Examples:
  awaree report export
  awaree report export "Affiche Festival" --out ~/Bureau`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReportExport,
}

var reportViewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Read a report in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportView,
}

var reportOut string

func init() {
	reportExportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Output directory (defaults to report_dir)")

	reportCmd.AddCommand(reportExportCmd)
	reportCmd.AddCommand(reportViewCmd)
}

func runReportExport(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(argOrEmpty(args))
	if err != nil {
		return err
	}
	data, err := report.Encode(p, time.Now())
	if err != nil {
		return err
	}

	dir := reportOut
	if dir == "" {
		dir = cfg.ReportDir
	}
	path, err := report.WriteFile(fsys, dir, report.FileName(p), data)
	if err != nil {
		return err
	}

	logger.Info("Report exported", logger.F("project", p.ID), logger.F("path", path))
	fmt.Fprintf(cmd.OutOrStdout(), "📄 Report written: %s\n", path)
	return nil
}

func runReportView(cmd *cobra.Command, args []string) error {
	data, _, err := report.ReadFile(fsys, args[0])
	if err != nil {
		return err
	}
	md, err := report.Preview(data)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderMarkdown(md, terminalWidth()))
	return nil
}

// renderMarkdown falls back to the raw text when glamour cannot render
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w - 4
	}
	return 80
}
