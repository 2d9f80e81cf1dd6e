package model

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned when an entity fails schema validation
var ErrInvalid = errors.New("invalid entity")

// Status is the workflow state of a project or a task
type Status string

const (
	StatusTodo       Status = "à faire"
	StatusInProgress Status = "en cours"
	StatusToDeliver  Status = "à livrer"
	StatusDone       Status = "terminé"
)

// Statuses lists every workflow state in board order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusToDeliver, StatusDone}

// Valid reports whether s is one of the known workflow states
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus accepts a workflow state as typed on the command line
func ParseStatus(s string) (Status, error) {
	switch s {
	case "todo", string(StatusTodo), "a faire":
		return StatusTodo, nil
	case "doing", string(StatusInProgress):
		return StatusInProgress, nil
	case "deliver", string(StatusToDeliver), "a livrer":
		return StatusToDeliver, nil
	case "done", string(StatusDone), "termine":
		return StatusDone, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalid, s)
}

// ProjectType tells whether a project is worked on alone or in a group
type ProjectType string

const (
	TypeSolo  ProjectType = "Solo"
	TypeGroup ProjectType = "Group"
)

// Valid reports whether t is Solo or Group
func (t ProjectType) Valid() bool {
	return t == TypeSolo || t == TypeGroup
}

// Subjects is the fixed list of course subjects offered when creating a project
var Subjects = []string{
	"Studio Créa", "Illustration", "Branding", "WEB", "MOTION",
	"Économie de projets", "Méthodologie de projets", "Droit du design",
	"Typographie", "Semiologie", "Anglais",
}

// DefaultSubject is preselected in the project form
const DefaultSubject = "Studio Créa"

// Project is a student project with everything it owns serialized inline
type Project struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Subject      string            `json:"subject"`
	Description  string            `json:"description"`
	Progress     int               `json:"progress"`
	Type         ProjectType       `json:"type"`
	Status       Status            `json:"status"`
	IsUrgent     bool              `json:"isUrgent"`
	Tasks        []Task            `json:"tasks"`
	Versions     []Version         `json:"versions"`
	Notes        []ProjectNote     `json:"notes"`
	Inspirations []InspirationItem `json:"inspirations"`
	StartDate    *int64            `json:"startDate,omitempty"`
	Deadline     *int64            `json:"deadline,omitempty"`
	CreatedAt    int64             `json:"createdAt"`
	UpdatedAt    int64             `json:"updatedAt"`
	IsArchived   bool              `json:"isArchived"`
}

// CompletedTasks counts the tasks marked completed
func (p Project) CompletedTasks() int {
	n := 0
	for _, t := range p.Tasks {
		if t.IsCompleted {
			n++
		}
	}
	return n
}

// Normalize fills collections that older exports left out
func (p *Project) Normalize() {
	if p.Tasks == nil {
		p.Tasks = []Task{}
	}
	if p.Versions == nil {
		p.Versions = []Version{}
	}
	if p.Notes == nil {
		p.Notes = []ProjectNote{}
	}
	if p.Inspirations == nil {
		p.Inspirations = []InspirationItem{}
	}
}

// Validate checks that p has the shape the studio relies on
func (p Project) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: project without id", ErrInvalid)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: project %s has no name", ErrInvalid, p.ID)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: project %s has unknown status %q", ErrInvalid, p.ID, p.Status)
	}
	if !p.Type.Valid() {
		return fmt.Errorf("%w: project %s has unknown type %q", ErrInvalid, p.ID, p.Type)
	}
	if p.Progress < 0 || p.Progress > 100 {
		return fmt.Errorf("%w: project %s progress %d out of range", ErrInvalid, p.ID, p.Progress)
	}
	for _, t := range p.Tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("project %s: %w", p.ID, err)
		}
	}
	for _, v := range p.Versions {
		if v.ID == "" {
			return fmt.Errorf("%w: project %s has a version without id", ErrInvalid, p.ID)
		}
	}
	for _, n := range p.Notes {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("project %s: %w", p.ID, err)
		}
	}
	for _, i := range p.Inspirations {
		if err := i.Validate(); err != nil {
			return fmt.Errorf("project %s: %w", p.ID, err)
		}
	}
	return nil
}
