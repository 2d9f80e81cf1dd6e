package model

import (
	"fmt"
	"math"
)

// Task is a production step of a project
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"isCompleted"`
	Status      Status    `json:"status,omitempty"`
	DueDate     *int64    `json:"dueDate,omitempty"`
	SubTasks    []SubTask `json:"subTasks"`
}

// SubTask is a checklist entry under a task. Its completion is tracked on
// its own and does not complete the parent task.
type SubTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

// NewTask creates an open task
func NewTask(id, title string) Task {
	return Task{
		ID:       id,
		Title:    title,
		Status:   StatusTodo,
		SubTasks: []SubTask{},
	}
}

// Validate checks ids and the optional status
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: task without id", ErrInvalid)
	}
	if t.Status != "" && !t.Status.Valid() {
		return fmt.Errorf("%w: task %s has unknown status %q", ErrInvalid, t.ID, t.Status)
	}
	for _, s := range t.SubTasks {
		if s.ID == "" {
			return fmt.Errorf("%w: task %s has a sub-task without id", ErrInvalid, t.ID)
		}
	}
	return nil
}

// TaskStatusFor derives a task status from its completion flag
func TaskStatusFor(completed bool) Status {
	if completed {
		return StatusDone
	}
	return StatusTodo
}

// RecomputeProgress returns the rounded percentage of completed tasks, 0 when
// there are none
func RecomputeProgress(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.IsCompleted {
			done++
		}
	}
	return Percent(done, len(tasks))
}

// Percent returns done/total as a whole percentage with halves rounded up
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(done)*100/float64(total) + 0.5))
}
