// Package studio holds the state of the student's studio and every action
// that changes it. Actions are pure: they take the current value and return a
// new one, leaving persistence to the caller.
package studio

import (
	"errors"

	"github.com/existflow/awaree/internal/model"
)

var (
	// ErrNotFound is returned when an id does not match any entity
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when a form is missing required values
	ErrInvalidInput = errors.New("invalid input")
)

// State is the whole persisted studio: four independent collections
type State struct {
	Projects  []model.Project
	Events    []model.AppEvent
	Creations []model.Creation
	TagColors model.TagColors
}

// EmptyState returns a studio with no entities and the default palette
func EmptyState() State {
	return State{
		Projects:  []model.Project{},
		Events:    []model.AppEvent{},
		Creations: []model.Creation{},
		TagColors: model.DefaultTagColors(),
	}
}

// Studio creates entities. Ids and time are injected so that actions can be
// replayed deterministically.
type Studio struct {
	ids model.IDGenerator
	now model.Clock
}

// New returns a Studio using ids and now
func New(ids model.IDGenerator, now model.Clock) *Studio {
	if ids == nil {
		ids = model.UUIDGenerator{}
	}
	if now == nil {
		now = model.SystemClock
	}
	return &Studio{ids: ids, now: now}
}

// Default returns a Studio backed by random UUIDs and the wall clock
func Default() *Studio {
	return New(model.UUIDGenerator{}, model.SystemClock)
}

// Now returns the studio clock reading in epoch milliseconds
func (s *Studio) Now() int64 {
	return s.now()
}

func (s *Studio) touch(p model.Project) model.Project {
	p.UpdatedAt = s.now()
	return p
}
