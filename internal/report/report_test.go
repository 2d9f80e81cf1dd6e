package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/studio"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func richProject() model.Project {
	return model.Project{
		ID:          "p-1",
		Name:        `Affiche </script><b>"Jazz" & Co</b>`,
		Subject:     "Typographie",
		Description: "Brief <!-- secret --> '   fin",
		Progress:    50,
		Type:        model.TypeGroup,
		Status:      model.StatusInProgress,
		IsUrgent:    true,
		Tasks: []model.Task{
			{ID: "t1", Title: "Recherches <i>", IsCompleted: true, Status: model.StatusDone, SubTasks: []model.SubTask{{ID: "s1", Title: "moodboard"}}},
			{ID: "t2", Title: "Maquette", Status: model.StatusTodo, DueDate: model.Ptr(int64(1_750_000_000_000)), SubTasks: []model.SubTask{}},
		},
		Versions: []model.Version{{ID: "v1", Label: "V1", Notes: "premier jet", FileName: "v1.png", CreatedAt: 1}},
		Notes: []model.ProjectNote{
			{ID: "init", Content: "</script><script>alert(1)</script>", Timestamp: 1_700_000_000_000},
			{ID: "n2", Content: "photo", Timestamp: 2, Attachments: []model.Attachment{{Type: model.AttachmentImage, URL: "data:image/png;base64,iVBO"}}},
		},
		Inspirations: []model.InspirationItem{{ID: "i1", Type: model.InspirationColor, Content: "#0052FF", Label: "bleu", CreatedAt: 3}},
		StartDate:    model.Ptr(int64(1_690_000_000_000)),
		CreatedAt:    1_690_000_000_000,
		UpdatedAt:    1_700_000_000_000,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := richProject()
	html, err := Encode(p, generatedAt)
	require.NoError(t, err)

	payload, err := Decode(html, KindHTML)
	require.NoError(t, err)
	require.NotNil(t, payload.Project)
	assert.Nil(t, payload.Backup)
	assert.Equal(t, p, *payload.Project)

	t.Run("empty attachments", func(t *testing.T) {
		p := richProject()
		p.Notes[0].Attachments = []model.Attachment{}
		html, err := Encode(p, generatedAt)
		require.NoError(t, err)

		payload, err := Decode(html, KindHTML)
		require.NoError(t, err)
		require.NotNil(t, payload.Project)
		assert.Equal(t, p, *payload.Project)
		assert.NotNil(t, payload.Project.Notes[0].Attachments)
		assert.Nil(t, payload.Project.Notes[1].Attachments)
	})
}

func TestImportedJSONReexportsUnchanged(t *testing.T) {
	doc := `{"id":"p-9","name":"Logo","subject":"Branding","status":"à faire","type":"Solo","tasks":[],` +
		`"notes":[{"id":"n1","content":"brief","timestamp":4,"attachments":[]}]}`
	first, err := Decode([]byte(doc), KindJSON)
	require.NoError(t, err)
	require.NotNil(t, first.Project)
	require.Len(t, first.Project.Notes, 1)
	assert.NotNil(t, first.Project.Notes[0].Attachments)

	html, err := Encode(*first.Project, generatedAt)
	require.NoError(t, err)
	second, err := Decode(html, KindHTML)
	require.NoError(t, err)
	assert.Equal(t, *first.Project, *second.Project)
}

func TestEncodeEscapesReadablePart(t *testing.T) {
	html, err := Encode(richProject(), generatedAt)
	require.NoError(t, err)
	out := string(html)

	assert.Equal(t, 1, strings.Count(out, "</script>"), "only the data island closes a script")
	assert.NotContains(t, out, "<b>")
	assert.NotContains(t, out, "<script>alert")
	assert.Contains(t, out, "&lt;b&gt;")
	assert.Contains(t, out, `id="awaree-project-data" type="application/json"`)
	assert.Contains(t, out, "50% ACHEVÉ")
	assert.Contains(t, out, "01/06/2026")
}

func TestEncodeWithoutDescription(t *testing.T) {
	p := richProject()
	p.Description = ""
	html, err := Encode(p, generatedAt)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Pas de description.")
}

func TestDecodeFindsIslandByID(t *testing.T) {
	p := richProject()
	island, err := Encode(p, generatedAt)
	require.NoError(t, err)

	// move the island after an unrelated JSON script
	doc := strings.Replace(string(island), "<head>",
		`<head><script type="application/json">{"id":"decoy","name":"x"}</script>`, 1)

	payload, err := Decode([]byte(doc), KindHTML)
	require.NoError(t, err)
	assert.Equal(t, "p-1", payload.Project.ID)
}

func TestDecodeInvalidReport(t *testing.T) {
	_, err := Decode([]byte("<html><body><h1>Rapport</h1></body></html>"), KindHTML)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidReport)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, KindHTML, de.Kind)
}

func TestDecodeCorruptPayload(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"id": "p-1", "name": `},
		{"missing id", `{"name":"Logo","status":"à faire","type":"Solo"}`},
		{"wrong field type", `{"id":"p-1","name":"Logo","progress":"half","status":"à faire","type":"Solo"}`},
		{"unknown status", `{"id":"p-1","name":"Logo","status":"paused","type":"Solo"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<html><head><script id="awaree-project-data" type="application/json">` + tt.data + `</script></head></html>`
			_, err := Decode([]byte(doc), KindHTML)
			assert.ErrorIs(t, err, ErrCorruptPayload)
			assert.False(t, errors.Is(err, ErrInvalidReport))
		})
	}
}

func TestDecodeJSONProject(t *testing.T) {
	payload, err := Decode([]byte(`{"id":"p-9","name":"Logo","status":"à faire","type":"Solo","tasks":[]}`), KindJSON)
	require.NoError(t, err)
	require.NotNil(t, payload.Project)
	assert.Equal(t, "p-9", payload.Project.ID)
}

func TestDecodeJSONRejectsNonObjects(t *testing.T) {
	for _, doc := range []string{`[1,2]`, `"text"`, `nope`} {
		_, err := Decode([]byte(doc), KindJSON)
		assert.ErrorIs(t, err, ErrCorruptPayload, doc)
	}
}

func TestBackupWithOnlyEvents(t *testing.T) {
	payload, err := Decode([]byte(`{"events":[{"id":"e1","title":"Jury","date":5,"types":["Partiel"]}],"projects":null}`), KindJSON)
	require.NoError(t, err)
	require.NotNil(t, payload.Backup)
	assert.Nil(t, payload.Project)
	assert.Equal(t, []string{"events"}, payload.Backup.Collections())

	state := studio.EmptyState()
	state.Projects = []model.Project{richProject()}
	state.Creations = []model.Creation{{ID: "c1", Title: "Poster"}}

	restored := studio.RestoreBackup(state, *payload.Backup)
	assert.Equal(t, state.Projects, restored.Projects)
	assert.Equal(t, state.Creations, restored.Creations)
	assert.Equal(t, state.TagColors, restored.TagColors)
	require.Len(t, restored.Events, 1)
	assert.Equal(t, "Jury", restored.Events[0].Title)
}

func TestBackupRejectsInvalidEntries(t *testing.T) {
	_, err := Decode([]byte(`{"creations":[{"title":"no id"}]}`), KindJSON)
	assert.ErrorIs(t, err, ErrCorruptPayload)
}

func TestEncodeBackupRoundTrip(t *testing.T) {
	state := studio.EmptyState()
	state.Projects = []model.Project{richProject()}
	state.Events = []model.AppEvent{{ID: "e1", Title: "Jury", Date: 5, Types: []model.EventType{model.EventExam}}}

	data, err := EncodeBackup(state, generatedAt)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exportedAt": "2026-06-01T10:00:00Z"`)

	payload, err := Decode(data, KindJSON)
	require.NoError(t, err)
	require.NotNil(t, payload.Backup)
	assert.Equal(t, state, studio.RestoreBackup(studio.State{}, *payload.Backup))
}

func TestSealedBackup(t *testing.T) {
	data, err := EncodeBackup(studio.EmptyState(), generatedAt)
	require.NoError(t, err)

	sealed, err := Seal(data, "correct horse")
	require.NoError(t, err)
	assert.True(t, IsSealed(sealed))
	assert.NotContains(t, string(sealed), "tagColors")

	_, err = Decode(sealed, KindJSON)
	assert.ErrorIs(t, err, ErrSealed)

	_, err = DecodeSealed(sealed, KindJSON, "wrong")
	assert.ErrorIs(t, err, ErrCorruptPayload)

	payload, err := DecodeSealed(sealed, KindJSON, "correct horse")
	require.NoError(t, err)
	require.NotNil(t, payload.Backup)
	assert.Len(t, payload.Backup.Collections(), 4)

	_, err = Seal(data, "")
	assert.Error(t, err)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "awaree_rapport_affiche_festival_2026.html", FileName(model.Project{Name: "Affiche  Festival\t2026"}))
	assert.Equal(t, "awaree_backup_2026-06-01.json", BackupFileName(generatedAt))

	assert.Equal(t, KindHTML, KindFromName("awaree_rapport_logo.HTML"))
	assert.Equal(t, KindHTML, KindFromName("report.htm"))
	assert.Equal(t, KindJSON, KindFromName("awaree_backup.json"))
	assert.Equal(t, KindJSON, KindFromName("noext"))
}

func TestPreview(t *testing.T) {
	p := richProject()
	p.Name = "Affiche Jazz"
	html, err := Encode(p, generatedAt)
	require.NoError(t, err)

	out, err := Preview(html)
	require.NoError(t, err)
	assert.Contains(t, out, "# Affiche Jazz")
	assert.Contains(t, out, "Maquette")
	assert.NotContains(t, out, `"id"`)

	_, err = Preview([]byte("<html><body>plain</body></html>"))
	assert.ErrorIs(t, err, ErrInvalidReport)
}

func TestReadWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	html, err := Encode(richProject(), generatedAt)
	require.NoError(t, err)

	path, err := WriteFile(fs, "/exports", FileName(richProject()), html)
	require.NoError(t, err)

	data, kind, err := ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, KindHTML, kind)
	assert.Equal(t, html, data)

	_, _, err = ReadFile(fs, "/exports/missing.json")
	assert.Error(t, err)
}
