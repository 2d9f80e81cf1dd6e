package studio

import (
	"fmt"
	"strings"

	"github.com/existflow/awaree/internal/model"
)

func taskIndex(tasks []model.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// withTasks installs tasks on p and keeps progress in step with them
func (s *Studio) withTasks(p model.Project, tasks []model.Task) model.Project {
	p.Tasks = tasks
	p.Progress = model.RecomputeProgress(tasks)
	return s.touch(p)
}

// AddTask appends an open task
func (s *Studio) AddTask(p model.Project, title string) (model.Project, model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return p, model.Task{}, fmt.Errorf("%w: task title is required", ErrInvalidInput)
	}
	task := model.NewTask(s.ids.NewID(), title)
	tasks := make([]model.Task, 0, len(p.Tasks)+1)
	tasks = append(tasks, p.Tasks...)
	tasks = append(tasks, task)
	return s.withTasks(p, tasks), task, nil
}

// ToggleTask flips the completion of a task and recomputes progress
func (s *Studio) ToggleTask(p model.Project, taskID string) (model.Project, error) {
	idx := taskIndex(p.Tasks, taskID)
	if idx < 0 {
		return p, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	return s.SetTaskCompleted(p, taskID, !p.Tasks[idx].IsCompleted)
}

// SetTaskCompleted marks a task done or open and recomputes progress
func (s *Studio) SetTaskCompleted(p model.Project, taskID string, completed bool) (model.Project, error) {
	idx := taskIndex(p.Tasks, taskID)
	if idx < 0 {
		return p, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	tasks := make([]model.Task, len(p.Tasks))
	copy(tasks, p.Tasks)
	tasks[idx].IsCompleted = completed
	tasks[idx].Status = model.TaskStatusFor(completed)
	return s.withTasks(p, tasks), nil
}

// SetTaskDue sets or clears the due date of a task
func (s *Studio) SetTaskDue(p model.Project, taskID string, due *int64) (model.Project, error) {
	idx := taskIndex(p.Tasks, taskID)
	if idx < 0 {
		return p, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	tasks := make([]model.Task, len(p.Tasks))
	copy(tasks, p.Tasks)
	tasks[idx].DueDate = due
	p.Tasks = tasks
	return s.touch(p), nil
}

// DeleteTask removes a task and recomputes progress
func (s *Studio) DeleteTask(p model.Project, taskID string) (model.Project, error) {
	idx := taskIndex(p.Tasks, taskID)
	if idx < 0 {
		return p, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	tasks := make([]model.Task, 0, len(p.Tasks)-1)
	tasks = append(tasks, p.Tasks[:idx]...)
	tasks = append(tasks, p.Tasks[idx+1:]...)
	return s.withTasks(p, tasks), nil
}

// AddSubTask appends a checklist entry under a task
func (s *Studio) AddSubTask(p model.Project, taskID, title string) (model.Project, model.SubTask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return p, model.SubTask{}, fmt.Errorf("%w: sub-task title is required", ErrInvalidInput)
	}
	idx := taskIndex(p.Tasks, taskID)
	if idx < 0 {
		return p, model.SubTask{}, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	sub := model.SubTask{ID: s.ids.NewID(), Title: title}

	tasks := make([]model.Task, len(p.Tasks))
	copy(tasks, p.Tasks)
	subs := make([]model.SubTask, 0, len(tasks[idx].SubTasks)+1)
	subs = append(subs, tasks[idx].SubTasks...)
	tasks[idx].SubTasks = append(subs, sub)

	p.Tasks = tasks
	return s.touch(p), sub, nil
}

// ToggleSubTask flips a checklist entry. The parent task and the project
// progress are left as they are.
func (s *Studio) ToggleSubTask(p model.Project, taskID, subTaskID string) (model.Project, error) {
	idx := taskIndex(p.Tasks, taskID)
	if idx < 0 {
		return p, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	subIdx := -1
	for i, sub := range p.Tasks[idx].SubTasks {
		if sub.ID == subTaskID {
			subIdx = i
			break
		}
	}
	if subIdx < 0 {
		return p, fmt.Errorf("sub-task %s: %w", subTaskID, ErrNotFound)
	}

	tasks := make([]model.Task, len(p.Tasks))
	copy(tasks, p.Tasks)
	subs := make([]model.SubTask, len(tasks[idx].SubTasks))
	copy(subs, tasks[idx].SubTasks)
	subs[subIdx].IsCompleted = !subs[subIdx].IsCompleted
	tasks[idx].SubTasks = subs

	p.Tasks = tasks
	return s.touch(p), nil
}
