package studio

import (
	"time"

	"github.com/existflow/awaree/internal/model"
)

// MergeAction is what importing a project did to the collection
type MergeAction int

const (
	MergeInsert MergeAction = iota
	MergeReplace
	MergeNoOp
)

func (a MergeAction) String() string {
	switch a {
	case MergeInsert:
		return "insert"
	case MergeReplace:
		return "replace"
	default:
		return "no-op"
	}
}

// Confirmer decides whether incoming may overwrite the existing project with
// the same id
type Confirmer func(existing, incoming model.Project) bool

// Always is a Confirmer that accepts every overwrite
func Always(model.Project, model.Project) bool { return true }

// Never is a Confirmer that refuses every overwrite
func Never(model.Project, model.Project) bool { return false }

// MergeResult carries the collection after an import
type MergeResult struct {
	Action   MergeAction
	Projects []model.Project
}

// MergeProject folds an imported project into the collection. A new id is
// prepended. A known id is replaced in place only when confirm accepts it;
// otherwise the collection is returned as it was. existing is never modified.
// A nil confirm refuses.
func MergeProject(existing []model.Project, incoming model.Project, confirm Confirmer) MergeResult {
	idx := IndexOf(existing, incoming.ID)
	if idx < 0 {
		return MergeResult{Action: MergeInsert, Projects: AddProject(existing, incoming)}
	}
	if confirm == nil || !confirm(existing[idx], incoming) {
		return MergeResult{Action: MergeNoOp, Projects: existing}
	}
	out := make([]model.Project, len(existing))
	copy(out, existing)
	out[idx] = incoming
	return MergeResult{Action: MergeReplace, Projects: out}
}

// Backup is a full or partial copy of the studio. A nil field means the key
// was absent and the matching collection is left alone on restore.
type Backup struct {
	Projects   *[]model.Project  `json:"projects,omitempty"`
	Events     *[]model.AppEvent `json:"events,omitempty"`
	Creations  *[]model.Creation `json:"creations,omitempty"`
	TagColors  *model.TagColors  `json:"tagColors,omitempty"`
	ExportedAt string            `json:"exportedAt,omitempty"`
}

// NewBackup captures every collection of state
func NewBackup(state State, exportedAt time.Time) Backup {
	projects := state.Projects
	if projects == nil {
		projects = []model.Project{}
	}
	events := state.Events
	if events == nil {
		events = []model.AppEvent{}
	}
	creations := state.Creations
	if creations == nil {
		creations = []model.Creation{}
	}
	colors := state.TagColors
	if colors == nil {
		colors = model.TagColors{}
	}
	return Backup{
		Projects:   &projects,
		Events:     &events,
		Creations:  &creations,
		TagColors:  &colors,
		ExportedAt: exportedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Collections lists the keys present in b
func (b Backup) Collections() []string {
	var keys []string
	if b.Projects != nil {
		keys = append(keys, "projects")
	}
	if b.Events != nil {
		keys = append(keys, "events")
	}
	if b.Creations != nil {
		keys = append(keys, "creations")
	}
	if b.TagColors != nil {
		keys = append(keys, "tagColors")
	}
	return keys
}

// RestoreBackup replaces each collection present in b and keeps the others
func RestoreBackup(state State, b Backup) State {
	if b.Projects != nil {
		projects := make([]model.Project, len(*b.Projects))
		copy(projects, *b.Projects)
		for i := range projects {
			projects[i].Normalize()
		}
		state.Projects = projects
	}
	if b.Events != nil {
		state.Events = append([]model.AppEvent{}, *b.Events...)
	}
	if b.Creations != nil {
		state.Creations = append([]model.Creation{}, *b.Creations...)
	}
	if b.TagColors != nil {
		colors := make(model.TagColors, len(*b.TagColors))
		for k, v := range *b.TagColors {
			colors[k] = v
		}
		state.TagColors = colors
	}
	return state
}
