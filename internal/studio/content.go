package studio

import (
	"fmt"
	"strings"

	"github.com/existflow/awaree/internal/model"
)

// AddNote prepends a journal entry to p
func (s *Studio) AddNote(p model.Project, content string, attachments ...model.Attachment) (model.Project, model.ProjectNote, error) {
	content = strings.TrimSpace(content)
	if content == "" && len(attachments) == 0 {
		return p, model.ProjectNote{}, fmt.Errorf("%w: note is empty", ErrInvalidInput)
	}
	note := model.ProjectNote{
		ID:        s.ids.NewID(),
		Content:   content,
		Timestamp: s.now(),
	}
	if len(attachments) > 0 {
		note.Attachments = append([]model.Attachment(nil), attachments...)
	}
	if err := note.Validate(); err != nil {
		return p, model.ProjectNote{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	notes := make([]model.ProjectNote, 0, len(p.Notes)+1)
	notes = append(notes, note)
	p.Notes = append(notes, p.Notes...)
	return s.touch(p), note, nil
}

// AddAttachmentNote prepends a note holding a single image and no text
func (s *Studio) AddAttachmentNote(p model.Project, kind model.AttachmentType, url string) (model.Project, model.ProjectNote, error) {
	if url == "" {
		return p, model.ProjectNote{}, fmt.Errorf("%w: attachment url is required", ErrInvalidInput)
	}
	return s.AddNote(p, "", model.Attachment{Type: kind, URL: url})
}

// AddInspiration prepends a moodboard entry to p
func (s *Studio) AddInspiration(p model.Project, kind model.InspirationType, content, label string) (model.Project, model.InspirationItem, error) {
	if !kind.Valid() {
		return p, model.InspirationItem{}, fmt.Errorf("%w: unknown inspiration type %q", ErrInvalidInput, kind)
	}
	if strings.TrimSpace(content) == "" {
		return p, model.InspirationItem{}, fmt.Errorf("%w: inspiration content is required", ErrInvalidInput)
	}
	item := model.InspirationItem{
		ID:        s.ids.NewID(),
		Type:      kind,
		Content:   content,
		Label:     label,
		CreatedAt: s.now(),
	}
	items := make([]model.InspirationItem, 0, len(p.Inspirations)+1)
	items = append(items, item)
	p.Inspirations = append(items, p.Inspirations...)
	return s.touch(p), item, nil
}

// DeleteInspiration removes a moodboard entry
func (s *Studio) DeleteInspiration(p model.Project, id string) (model.Project, error) {
	for i, item := range p.Inspirations {
		if item.ID != id {
			continue
		}
		items := make([]model.InspirationItem, 0, len(p.Inspirations)-1)
		items = append(items, p.Inspirations[:i]...)
		p.Inspirations = append(items, p.Inspirations[i+1:]...)
		return s.touch(p), nil
	}
	return p, fmt.Errorf("inspiration %s: %w", id, ErrNotFound)
}

// VersionForm describes a snapshot to archive
type VersionForm struct {
	Label    string
	Notes    string
	ImageURL string
	FileName string
}

// NextVersionLabel proposes a label numbered after the existing versions
func NextVersionLabel(p model.Project) string {
	return fmt.Sprintf("V%d", len(p.Versions)+1)
}

// AddVersion prepends a snapshot to p. Versions are never edited afterwards.
func (s *Studio) AddVersion(p model.Project, form VersionForm) (model.Project, model.Version, error) {
	label := strings.TrimSpace(form.Label)
	if label == "" {
		return p, model.Version{}, fmt.Errorf("%w: version label is required", ErrInvalidInput)
	}
	v := model.Version{
		ID:        s.ids.NewID(),
		Label:     label,
		Notes:     form.Notes,
		ImageURL:  form.ImageURL,
		FileName:  form.FileName,
		CreatedAt: s.now(),
	}
	versions := make([]model.Version, 0, len(p.Versions)+1)
	versions = append(versions, v)
	p.Versions = append(versions, p.Versions...)
	return s.touch(p), v, nil
}
