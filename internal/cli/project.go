package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/existflow/awaree/internal/logger"
	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/studio"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"p"},
	Short:   "Manage projects",
	Long:    `Create, list, edit, archive and delete studio projects.`,
}

var projectNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new project",
	Long: `Create a new project. Task suggestions are fetched from Gemini when an
API key is configured (GEMINI_API_KEY).

Examples:
  awaree project new "Affiche Festival" --subject Typographie --deadline 2026-03-14
  awaree project new "Logo Café" --type Group --urgent --no-suggest`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProjectNew,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	RunE:    runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show [project]",
	Short: "Show a project with its tasks and journal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProjectShow,
}

var projectEditCmd = &cobra.Command{
	Use:   "edit [project]",
	Short: "Edit project details",
	Long: `Edit project details. Only the flags given are changed.

Examples:
  awaree project edit logo --status "en cours"
  awaree project edit logo --deadline +7d --urgent=false`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProjectEdit,
}

var projectArchiveCmd = &cobra.Command{
	Use:   "archive [project]",
	Short: "Move a project to the archive",
	Args:  cobra.MaximumNArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runProjectArchive(cmd, args, true) },
}

var projectRestoreCmd = &cobra.Command{
	Use:     "unarchive [project]",
	Aliases: []string{"restore"},
	Short:   "Bring a project back from the archive",
	Args:    cobra.MaximumNArgs(1),
	RunE:    func(cmd *cobra.Command, args []string) error { return runProjectArchive(cmd, args, false) },
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete [project]",
	Aliases: []string{"rm"},
	Short:   "Delete a project permanently",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectDelete,
}

var projectStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the studio dashboard",
	RunE:  runProjectStats,
}

var (
	projectSubject   string
	projectDesc      string
	projectType      string
	projectStatus    string
	projectUrgent    bool
	projectStart     string
	projectDeadline  string
	projectNoSuggest bool
	projectName      string

	listArchived bool
	listSort     string
	deleteForce  bool
)

func init() {
	for _, c := range []*cobra.Command{projectNewCmd, projectEditCmd} {
		c.Flags().StringVarP(&projectSubject, "subject", "s", "", "Course subject (e.g. Typographie, Branding, WEB)")
		_ = c.RegisterFlagCompletionFunc("subject", completeSubjects)
		c.Flags().StringVarP(&projectDesc, "desc", "d", "", "Description")
		c.Flags().StringVarP(&projectType, "type", "t", "", "Solo or Group")
		c.Flags().StringVar(&projectStatus, "status", "", "Status (à faire, en cours, à livrer, terminé)")
		c.Flags().BoolVarP(&projectUrgent, "urgent", "u", false, "Mark as urgent")
		c.Flags().StringVar(&projectStart, "start", "", "Start date")
		c.Flags().StringVar(&projectDeadline, "deadline", "", "Deadline (e.g. 2026-03-14, +7d, 'none' to clear)")
	}
	projectNewCmd.Flags().BoolVar(&projectNoSuggest, "no-suggest", false, "Do not ask for task suggestions")
	projectEditCmd.Flags().StringVarP(&projectName, "name", "n", "", "New name")

	projectListCmd.Flags().BoolVarP(&listArchived, "archived", "a", false, "Show archived projects")
	projectListCmd.Flags().StringVar(&listSort, "sort", "", "Sort by recent, deadline, progress or name")

	projectDeleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Do not ask for confirmation")

	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectEditCmd)
	projectCmd.AddCommand(projectArchiveCmd)
	projectCmd.AddCommand(projectRestoreCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectStatsCmd)
}

// canonicalSubject maps a case-insensitive match on the course list to its
// listed spelling. Other subjects are kept as typed.
func canonicalSubject(s string) string {
	s = strings.TrimSpace(s)
	for _, subject := range model.Subjects {
		if strings.EqualFold(s, subject) {
			return subject
		}
	}
	return s
}

func completeSubjects(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	prefix := strings.ToLower(toComplete)
	for _, subject := range model.Subjects {
		if strings.HasPrefix(strings.ToLower(subject), prefix) {
			out = append(out, subject)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func parseProjectType(s string) (model.ProjectType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "solo":
		return model.TypeSolo, nil
	case "group", "groupe":
		return model.TypeGroup, nil
	}
	return "", fmt.Errorf("unknown project type %q (Solo or Group)", s)
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	form := studio.ProjectForm{
		Name:        joinArgs(args),
		Subject:     canonicalSubject(projectSubject),
		Description: projectDesc,
		IsUrgent:    projectUrgent,
	}
	if form.Subject == "" {
		form.Subject = cfg.DefaultSubject
	}
	if form.Type, err = parseProjectType(projectType); err != nil {
		return err
	}
	if projectStatus != "" {
		if form.Status, err = model.ParseStatus(projectStatus); err != nil {
			return err
		}
	}
	if form.StartDate, err = optionalDate(projectStart); err != nil {
		return err
	}
	if form.Deadline, err = optionalDate(projectDeadline); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}

	var suggestions []string
	if !projectNoSuggest {
		fmt.Fprintln(cmd.OutOrStdout(), "✨ Asking for task suggestions...")
		ctx, cancel := context.WithTimeout(cmdContext(cmd), cfg.Suggest.Timeout+5*time.Second)
		suggestions = newSuggester().Suggest(ctx, form.Name, form.Subject)
		cancel()
	}

	p, err := sess.studio.CreateProject(form, suggestions)
	if err != nil {
		return err
	}
	sess.state.Projects = studio.AddProject(sess.state.Projects, p)
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	logger.Info("Project created", logger.F("project", p.ID), logger.F("tasks", len(p.Tasks)))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created project: %s (id: %s)\n", p.Name, shortID(p.ID))
	for _, t := range p.Tasks {
		fmt.Fprintf(cmd.OutOrStdout(), "   ○ %s\n", t.Title)
	}
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	sortName := listSort
	if sortName == "" {
		sortName = cfg.SortBy
	}
	by, err := studio.ParseSortBy(sortName)
	if err != nil {
		return err
	}

	projects := studio.SortProjects(sess.state.Projects, listArchived, by)
	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		if listArchived {
			fmt.Fprintln(out, "No archived projects.")
		} else {
			fmt.Fprintln(out, "No projects found. Create one with: awaree project new \"Name\"")
		}
		return nil
	}

	now := model.SystemClock()
	current := GetCurrentContext()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-10s  %-28s  %-18s  %-9s  %5s  %s\n", "ID", "Name", "Subject", "Status", "Done", "Due")
	fmt.Fprintln(out, strings.Repeat("─", 90))
	for _, p := range projects {
		marker := "  "
		if p.ID == current {
			marker = "❯ "
		}
		flag := ""
		if p.IsUrgent {
			flag = " ⚡"
		}
		fmt.Fprintf(out, "%s%-10s  %-28s  %-18s  %-9s  %4d%%  %s%s\n",
			marker, shortID(p.ID), truncate(p.Name, 28), truncate(p.Subject, 18), p.Status, p.Progress, dueLabel(p.Deadline, now), flag)
	}
	fmt.Fprintln(out, strings.Repeat("─", 90))
	fmt.Fprintf(out, "  %d projects\n\n", len(projects))
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(argOrEmpty(args))
	if err != nil {
		return err
	}
	printProject(cmd.OutOrStdout(), p, sess.state.TagColors)
	return nil
}

func printProject(out io.Writer, p model.Project, colors model.TagColors) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "📁 %s  (%s)\n", p.Name, p.ID)
	fmt.Fprintf(out, "   %s • %s • %d%% • %s [%s]", p.Subject, p.Type, p.Progress, p.Status, colors.ColorFor(string(p.Status)))
	if p.IsUrgent {
		fmt.Fprintf(out, " • urgent [%s]", colors.ColorFor(model.TagUrgent))
	}
	if p.IsArchived {
		fmt.Fprint(out, " • archived")
	}
	fmt.Fprintln(out)
	if p.StartDate != nil || p.Deadline != nil {
		start, due := "—", "—"
		if p.StartDate != nil {
			start = formatDay(*p.StartDate)
		}
		if p.Deadline != nil {
			due = formatDay(*p.Deadline) + " (" + dueLabel(p.Deadline, model.SystemClock()) + ")"
		}
		fmt.Fprintf(out, "   %s → %s\n", start, due)
	}
	if p.Description != "" {
		fmt.Fprintf(out, "\n   %s\n", p.Description)
	}

	fmt.Fprintf(out, "\n   Tasks (%d/%d)\n", p.CompletedTasks(), len(p.Tasks))
	for _, t := range p.Tasks {
		fmt.Fprintf(out, "   %s %-8s %s\n", checkbox(t.IsCompleted), shortID(t.ID), t.Title)
		for _, sub := range t.SubTasks {
			fmt.Fprintf(out, "       %s %-8s %s\n", checkbox(sub.IsCompleted), shortID(sub.ID), sub.Title)
		}
	}

	if len(p.Notes) > 0 {
		fmt.Fprintln(out, "\n   Journal")
		for _, n := range p.Notes {
			content := n.Content
			if len(n.Attachments) > 0 {
				content = strings.TrimSpace(content + fmt.Sprintf(" [%d image(s)]", len(n.Attachments)))
			}
			fmt.Fprintf(out, "   • %s  %s\n", formatDay(n.Timestamp), content)
		}
	}
	if len(p.Versions) > 0 {
		fmt.Fprintln(out, "\n   Versions")
		for _, v := range p.Versions {
			fmt.Fprintf(out, "   • %-6s %s  %s\n", v.Label, formatDay(v.CreatedAt), v.Notes)
		}
	}
	if len(p.Inspirations) > 0 {
		fmt.Fprintf(out, "\n   Moodboard: %d item(s)\n", len(p.Inspirations))
	}
	fmt.Fprintln(out)
}

func runProjectEdit(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(argOrEmpty(args))
	if err != nil {
		return err
	}

	form := studio.FormOf(p)
	flags := cmd.Flags()
	if flags.Changed("name") {
		form.Name = projectName
	}
	if flags.Changed("subject") {
		form.Subject = canonicalSubject(projectSubject)
	}
	if flags.Changed("desc") {
		form.Description = projectDesc
	}
	if flags.Changed("type") {
		if form.Type, err = parseProjectType(projectType); err != nil {
			return err
		}
	}
	if flags.Changed("status") {
		if form.Status, err = model.ParseStatus(projectStatus); err != nil {
			return err
		}
	}
	if flags.Changed("urgent") {
		form.IsUrgent = projectUrgent
	}
	if flags.Changed("start") {
		if form.StartDate, err = optionalDate(clearable(projectStart)); err != nil {
			return err
		}
	}
	if flags.Changed("deadline") {
		if form.Deadline, err = optionalDate(clearable(projectDeadline)); err != nil {
			return err
		}
	}

	p, err = sess.studio.EditProject(p, form)
	if err != nil {
		return err
	}
	if err := sess.update(p); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated project: %s\n", p.Name)
	return nil
}

func runProjectArchive(cmd *cobra.Command, args []string, archived bool) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(argOrEmpty(args))
	if err != nil {
		return err
	}
	p = sess.studio.ArchiveProject(p, archived)
	if err := sess.update(p); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}
	if archived {
		fmt.Fprintf(cmd.OutOrStdout(), "📦 Archived: %s\n", p.Name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "📂 Restored: %s\n", p.Name)
	}
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(args[0])
	if err != nil {
		return err
	}

	if cfg.ConfirmDelete && !deleteForce {
		if !confirm(cmd, fmt.Sprintf("Delete %q permanently? This cannot be undone.", p.Name)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	if sess.state.Projects, err = studio.DeleteProject(sess.state.Projects, p.ID); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}
	if GetCurrentContext() == p.ID {
		_ = ClearContext()
	}

	logger.Info("Project deleted", logger.F("project", p.ID))
	fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted project: %s\n", p.Name)
	return nil
}

func runProjectStats(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	st := studio.ComputeStats(sess.state.Projects)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	if cfg.UserEmail != "" {
		fmt.Fprintf(out, "  👤 %s\n\n", cfg.UserEmail)
	}
	fmt.Fprintf(out, "  Tasks done     %3d%%  %s\n", st.TaskRatio, bar(st.TaskRatio, 20))
	fmt.Fprintf(out, "  Active         %3d   / %d total\n", st.Active, st.Total)
	fmt.Fprintf(out, "  Urgent         %3d\n", st.Urgent)
	fmt.Fprintf(out, "  Solo / Group   %3d   / %d\n", st.Solo, st.Group)
	if len(st.TopSubjects) > 0 {
		fmt.Fprintln(out, "\n  Top subjects")
		for _, s := range st.TopSubjects {
			fmt.Fprintf(out, "    %-24s %d\n", s.Subject, s.Count)
		}
	}
	fmt.Fprintln(out)
	return nil
}

// clearable maps the "none" keyword to an empty date
func clearable(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "aucune", "-":
		return ""
	}
	return s
}

func dueLabel(deadline *int64, now int64) string {
	if deadline == nil {
		return "no due"
	}
	days := studio.DaysLeft(*deadline, now)
	switch {
	case days < 0:
		return "overdue"
	case days == 0:
		return "now"
	default:
		return fmt.Sprintf("%dd", days)
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func bar(percent, width int) string {
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
