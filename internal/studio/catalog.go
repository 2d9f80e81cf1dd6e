package studio

import (
	"fmt"
	"strings"

	"github.com/existflow/awaree/internal/model"
)

// EventForm describes a calendar entry to add
type EventForm struct {
	Title string
	Date  int64
	Types []model.EventType
	Notes string
}

// AddEvent appends a calendar entry
func (s *Studio) AddEvent(events []model.AppEvent, form EventForm) ([]model.AppEvent, model.AppEvent, error) {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return events, model.AppEvent{}, fmt.Errorf("%w: event title is required", ErrInvalidInput)
	}
	types := form.Types
	if len(types) == 0 {
		types = []model.EventType{model.EventOther}
	}
	ev := model.AppEvent{
		ID:    s.ids.NewID(),
		Title: title,
		Date:  form.Date,
		Types: append([]model.EventType(nil), types...),
		Notes: form.Notes,
	}
	if err := ev.Validate(); err != nil {
		return events, model.AppEvent{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	out := make([]model.AppEvent, 0, len(events)+1)
	out = append(out, events...)
	return append(out, ev), ev, nil
}

// DeleteEvent removes a calendar entry
func DeleteEvent(events []model.AppEvent, id string) ([]model.AppEvent, error) {
	for i, ev := range events {
		if ev.ID != id {
			continue
		}
		out := make([]model.AppEvent, 0, len(events)-1)
		out = append(out, events[:i]...)
		return append(out, events[i+1:]...), nil
	}
	return events, fmt.Errorf("event %s: %w", id, ErrNotFound)
}

// AddCreation prepends a portfolio entry
func (s *Studio) AddCreation(creations []model.Creation, title, category, imageURL string) ([]model.Creation, model.Creation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return creations, model.Creation{}, fmt.Errorf("%w: creation title is required", ErrInvalidInput)
	}
	if category == "" {
		category = model.DefaultCategory
	}
	c := model.Creation{
		ID:        s.ids.NewID(),
		Title:     title,
		ImageURL:  imageURL,
		Category:  category,
		CreatedAt: s.now(),
	}
	out := make([]model.Creation, 0, len(creations)+1)
	out = append(out, c)
	return append(out, creations...), c, nil
}

// DeleteCreation removes a portfolio entry
func DeleteCreation(creations []model.Creation, id string) ([]model.Creation, error) {
	for i, c := range creations {
		if c.ID != id {
			continue
		}
		out := make([]model.Creation, 0, len(creations)-1)
		out = append(out, creations[:i]...)
		return append(out, creations[i+1:]...), nil
	}
	return creations, fmt.Errorf("creation %s: %w", id, ErrNotFound)
}

// SetTagColor returns a copy of colors with tag painted in color
func SetTagColor(colors model.TagColors, tag, color string) (model.TagColors, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return colors, fmt.Errorf("%w: tag is required", ErrInvalidInput)
	}
	if _, ok := model.ThemeColors[color]; !ok {
		return colors, fmt.Errorf("%w: unknown color %q", ErrInvalidInput, color)
	}
	out := make(model.TagColors, len(colors)+1)
	for k, v := range colors {
		out[k] = v
	}
	out[tag] = color
	return out, nil
}
