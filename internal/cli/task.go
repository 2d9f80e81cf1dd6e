package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/awaree/internal/model"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"t"},
	Short:   "Manage the tasks of a project",
	Long: `Manage the production steps of a project. Commands apply to the
current project (see 'awaree use') unless --project is given.

Examples:
  awaree task add "Recherches typographiques"
  awaree task done 3f2a
  awaree task due 3f2a +5d -P logo
  awaree task sub add 3f2a "Tester Garamond"`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskAdd,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task]",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskDeleteCmd = &cobra.Command{
	Use:     "rm [task]",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskDelete,
}

var taskDueCmd = &cobra.Command{
	Use:   "due [task] [date]",
	Short: "Set or clear the due date of a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskDue,
}

var taskSubCmd = &cobra.Command{
	Use:   "sub",
	Short: "Manage the checklist of a task",
}

var taskSubAddCmd = &cobra.Command{
	Use:   "add [task] [title]",
	Short: "Add a checklist entry to a task",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTaskSubAdd,
}

var taskSubDoneCmd = &cobra.Command{
	Use:   "done [task] [entry]",
	Short: "Toggle a checklist entry",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskSubDone,
}

var (
	taskProject string
	taskUndo    bool
)

func init() {
	taskCmd.PersistentFlags().StringVarP(&taskProject, "project", "P", "", "Project (defaults to the current one)")
	taskDoneCmd.Flags().BoolVar(&taskUndo, "undo", false, "Mark the task as not done")

	taskSubCmd.AddCommand(taskSubAddCmd)
	taskSubCmd.AddCommand(taskSubDoneCmd)

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskDueCmd)
	taskCmd.AddCommand(taskSubCmd)
}

// findTask matches a task by id, id prefix or title
func findTask(p model.Project, query string) (model.Task, error) {
	query = strings.TrimSpace(query)
	var matches []model.Task
	for _, t := range p.Tasks {
		if t.ID == query || strings.EqualFold(t.Title, query) {
			return t, nil
		}
		if query != "" && strings.HasPrefix(t.ID, query) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return model.Task{}, fmt.Errorf("task not found in %s: %s", p.Name, query)
	case 1:
		return matches[0], nil
	}
	return model.Task{}, fmt.Errorf("task id %q is ambiguous (%d matches)", query, len(matches))
}

func findSubTask(t model.Task, query string) (model.SubTask, error) {
	query = strings.TrimSpace(query)
	var matches []model.SubTask
	for _, sub := range t.SubTasks {
		if sub.ID == query || strings.EqualFold(sub.Title, query) {
			return sub, nil
		}
		if query != "" && strings.HasPrefix(sub.ID, query) {
			matches = append(matches, sub)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return model.SubTask{}, fmt.Errorf("checklist entry not found in %s: %s", t.Title, query)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(taskProject)
	if err != nil {
		return err
	}
	p, task, err := sess.studio.AddTask(p, joinArgs(args))
	if err != nil {
		return err
	}
	if err := sess.update(p); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added to [%s]: \"%s\" (%s) • %d%%\n", p.Name, task.Title, shortID(task.ID), p.Progress)
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(taskProject)
	if err != nil {
		return err
	}
	task, err := findTask(p, args[0])
	if err != nil {
		return err
	}

	done := !taskUndo
	if p, err = sess.studio.SetTaskCompleted(p, task.ID, done); err != nil {
		return err
	}
	if err := sess.update(p); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	if done {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Completed: \"%s\" • %s %d%%\n", task.Title, p.Name, p.Progress)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "○ Reopened: \"%s\" • %s %d%%\n", task.Title, p.Name, p.Progress)
	}
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(taskProject)
	if err != nil {
		return err
	}
	task, err := findTask(p, args[0])
	if err != nil {
		return err
	}
	if p, err = sess.studio.DeleteTask(p, task.ID); err != nil {
		return err
	}
	if err := sess.update(p); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted: \"%s\"\n", task.Title)
	return nil
}

func runTaskDue(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(taskProject)
	if err != nil {
		return err
	}
	task, err := findTask(p, args[0])
	if err != nil {
		return err
	}
	due, err := optionalDate(clearable(args[1]))
	if err != nil {
		return err
	}
	if p, err = sess.studio.SetTaskDue(p, task.ID, due); err != nil {
		return err
	}
	if err := sess.update(p); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	if due == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "📅 Cleared due date: \"%s\"\n", task.Title)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "📅 \"%s\" due %s\n", task.Title, formatDay(*due))
	}
	return nil
}

func runTaskSubAdd(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(taskProject)
	if err != nil {
		return err
	}
	task, err := findTask(p, args[0])
	if err != nil {
		return err
	}
	p, sub, err := sess.studio.AddSubTask(p, task.ID, joinArgs(args[1:]))
	if err != nil {
		return err
	}
	if err := sess.update(p); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added to \"%s\": \"%s\" (%s)\n", task.Title, sub.Title, shortID(sub.ID))
	return nil
}

func runTaskSubDone(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(taskProject)
	if err != nil {
		return err
	}
	task, err := findTask(p, args[0])
	if err != nil {
		return err
	}
	sub, err := findSubTask(task, args[1])
	if err != nil {
		return err
	}
	if p, err = sess.studio.ToggleSubTask(p, task.ID, sub.ID); err != nil {
		return err
	}
	if err := sess.update(p); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	if sub.IsCompleted {
		fmt.Fprintf(cmd.OutOrStdout(), "○ Reopened: \"%s\"\n", sub.Title)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Checked: \"%s\"\n", sub.Title)
	}
	return nil
}
