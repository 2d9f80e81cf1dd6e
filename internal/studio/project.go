package studio

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/existflow/awaree/internal/model"
)

// ProjectForm carries the user-editable fields of a project
type ProjectForm struct {
	Name        string
	Subject     string
	Description string
	Type        model.ProjectType
	Status      model.Status
	IsUrgent    bool
	StartDate   *int64
	Deadline    *int64
}

// Validate fills defaults and rejects a form without a name
func (f *ProjectForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if f.Subject == "" {
		f.Subject = model.DefaultSubject
	}
	if f.Type == "" {
		f.Type = model.TypeSolo
	}
	if f.Status == "" {
		f.Status = model.StatusTodo
	}
	if !f.Type.Valid() {
		return fmt.Errorf("%w: unknown project type %q", ErrInvalidInput, f.Type)
	}
	if !f.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	return nil
}

// CreateProject builds a new project from a form. Suggested task titles
// become open tasks; an empty list simply yields a project without tasks.
func (s *Studio) CreateProject(form ProjectForm, suggestions []string) (model.Project, error) {
	if err := form.Validate(); err != nil {
		return model.Project{}, err
	}
	now := s.now()

	tasks := make([]model.Task, 0, len(suggestions))
	for _, title := range suggestions {
		tasks = append(tasks, model.NewTask(s.ids.NewID(), title))
	}

	notes := []model.ProjectNote{}
	if form.Description != "" {
		notes = append(notes, model.ProjectNote{ID: "init", Content: form.Description, Timestamp: now})
	}

	start := form.StartDate
	if start == nil {
		start = model.Ptr(now)
	}

	return model.Project{
		ID:           s.ids.NewID(),
		Name:         form.Name,
		Subject:      form.Subject,
		Description:  form.Description,
		Progress:     0,
		Type:         form.Type,
		Status:       form.Status,
		IsUrgent:     form.IsUrgent,
		Tasks:        tasks,
		Versions:     []model.Version{},
		Notes:        notes,
		Inspirations: []model.InspirationItem{},
		StartDate:    start,
		Deadline:     form.Deadline,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// EditProject applies the form to p
func (s *Studio) EditProject(p model.Project, form ProjectForm) (model.Project, error) {
	if err := form.Validate(); err != nil {
		return p, err
	}
	p.Name = form.Name
	p.Subject = form.Subject
	p.Description = form.Description
	p.Type = form.Type
	p.Status = form.Status
	p.IsUrgent = form.IsUrgent
	p.StartDate = form.StartDate
	p.Deadline = form.Deadline
	return s.touch(p), nil
}

// FormOf returns the editable fields of p
func FormOf(p model.Project) ProjectForm {
	return ProjectForm{
		Name:        p.Name,
		Subject:     p.Subject,
		Description: p.Description,
		Type:        p.Type,
		Status:      p.Status,
		IsUrgent:    p.IsUrgent,
		StartDate:   p.StartDate,
		Deadline:    p.Deadline,
	}
}

// ArchiveProject moves p in or out of the archive
func (s *Studio) ArchiveProject(p model.Project, archived bool) model.Project {
	p.IsArchived = archived
	return s.touch(p)
}

// AddProject prepends p to the collection
func AddProject(projects []model.Project, p model.Project) []model.Project {
	out := make([]model.Project, 0, len(projects)+1)
	out = append(out, p)
	return append(out, projects...)
}

// ReplaceProject swaps the project sharing p's id, keeping its position
func ReplaceProject(projects []model.Project, p model.Project) ([]model.Project, error) {
	idx := IndexOf(projects, p.ID)
	if idx < 0 {
		return projects, fmt.Errorf("project %s: %w", p.ID, ErrNotFound)
	}
	out := make([]model.Project, len(projects))
	copy(out, projects)
	out[idx] = p
	return out, nil
}

// DeleteProject removes the project with the given id
func DeleteProject(projects []model.Project, id string) ([]model.Project, error) {
	idx := IndexOf(projects, id)
	if idx < 0 {
		return projects, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	out := make([]model.Project, 0, len(projects)-1)
	out = append(out, projects[:idx]...)
	return append(out, projects[idx+1:]...), nil
}

// IndexOf returns the position of the project with the given id, or -1
func IndexOf(projects []model.Project, id string) int {
	for i, p := range projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// maxSuggestDistance bounds how far a typo can be from a real project name
const maxSuggestDistance = 3

// ResolveProject finds a project by id, unique id prefix or name
func ResolveProject(projects []model.Project, query string) (model.Project, error) {
	query = strings.TrimSpace(query)
	if idx := IndexOf(projects, query); idx >= 0 {
		return projects[idx], nil
	}

	var matches []model.Project
	for _, p := range projects {
		if strings.EqualFold(p.Name, query) {
			return p, nil
		}
		if query != "" && strings.HasPrefix(p.ID, query) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return model.Project{}, fmt.Errorf("%w: %q matches %d projects", ErrInvalidInput, query, len(matches))
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, p := range projects {
		d := levenshtein.ComputeDistance(strings.ToLower(query), strings.ToLower(p.Name))
		if d < bestDist {
			best, bestDist = p.Name, d
		}
	}
	if best != "" {
		return model.Project{}, fmt.Errorf("project %q: %w (did you mean %q?)", query, ErrNotFound, best)
	}
	return model.Project{}, fmt.Errorf("project %q: %w", query, ErrNotFound)
}
