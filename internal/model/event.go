package model

import "fmt"

// EventType tags a calendar event
type EventType string

const (
	EventMeeting  EventType = "RDV"
	EventExam     EventType = "Partiel"
	EventDelivery EventType = "Rendu"
	EventClass    EventType = "Cours"
	EventPersonal EventType = "Perso"
	EventAdmin    EventType = "Admin"
	EventOther    EventType = "Autre"
)

// EventTypes lists every event tag
var EventTypes = []EventType{
	EventMeeting, EventExam, EventDelivery, EventClass, EventPersonal, EventAdmin, EventOther,
}

// Valid reports whether t is a known tag
func (t EventType) Valid() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AppEvent is a dated calendar entry, independent of projects
type AppEvent struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Date  int64       `json:"date"`
	Types []EventType `json:"types"`
	Notes string      `json:"notes,omitempty"`
}

// Validate checks the id, title and tags
func (e AppEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: event without id", ErrInvalid)
	}
	if e.Title == "" {
		return fmt.Errorf("%w: event %s has no title", ErrInvalid, e.ID)
	}
	for _, t := range e.Types {
		if !t.Valid() {
			return fmt.Errorf("%w: event %s has unknown tag %q", ErrInvalid, e.ID, t)
		}
	}
	return nil
}

// Creation is a portfolio entry
type Creation struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ImageURL  string `json:"imageUrl"`
	Category  string `json:"category"`
	CreatedAt int64  `json:"createdAt"`
}

// Validate checks the id and title
func (c Creation) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: creation without id", ErrInvalid)
	}
	if c.Title == "" {
		return fmt.Errorf("%w: creation %s has no title", ErrInvalid, c.ID)
	}
	return nil
}

// DefaultCategory is preselected when adding a creation
const DefaultCategory = "Branding"
