package model

import "fmt"

// Version is an archived snapshot of the work. Versions are only ever
// prepended to a project.
type Version struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Notes     string `json:"notes"`
	ImageURL  string `json:"imageUrl,omitempty"`
	FileName  string `json:"fileName,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// AttachmentType is the kind of file attached to a note
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentGIF   AttachmentType = "gif"
)

// Attachment is an image embedded in a note, usually as a data URI
type Attachment struct {
	Type AttachmentType `json:"type"`
	URL  string         `json:"url"`
}

// ProjectNote is a workshop journal entry
type ProjectNote struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	Timestamp   int64        `json:"timestamp"`
	Attachments []Attachment `json:"attachments"`
}

// Validate checks the id and attachment kinds
func (n ProjectNote) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("%w: note without id", ErrInvalid)
	}
	for _, a := range n.Attachments {
		if a.Type != AttachmentImage && a.Type != AttachmentGIF {
			return fmt.Errorf("%w: note %s has attachment of unknown type %q", ErrInvalid, n.ID, a.Type)
		}
	}
	return nil
}

// InspirationType is the kind of moodboard entry
type InspirationType string

const (
	InspirationImage InspirationType = "image"
	InspirationColor InspirationType = "color"
	InspirationText  InspirationType = "text"
)

// Valid reports whether t is a known moodboard kind
func (t InspirationType) Valid() bool {
	return t == InspirationImage || t == InspirationColor || t == InspirationText
}

// InspirationItem is a moodboard entry. Content is a data URI, a CSS color or
// free text depending on Type.
type InspirationItem struct {
	ID        string          `json:"id"`
	Type      InspirationType `json:"type"`
	Content   string          `json:"content"`
	Label     string          `json:"label,omitempty"`
	CreatedAt int64           `json:"createdAt"`
}

// Validate checks the id and kind
func (i InspirationItem) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("%w: inspiration without id", ErrInvalid)
	}
	if !i.Type.Valid() {
		return fmt.Errorf("%w: inspiration %s has unknown type %q", ErrInvalid, i.ID, i.Type)
	}
	return nil
}
