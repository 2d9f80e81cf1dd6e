package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/existflow/awaree/internal/config"
	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/report"
	"github.com/existflow/awaree/internal/studio"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cliProject(id, name string) model.Project {
	p := model.Project{
		ID:        id,
		Name:      name,
		Subject:   "Typographie",
		Type:      model.TypeSolo,
		Status:    model.StatusInProgress,
		CreatedAt: 1_700_000_000_000,
		UpdatedAt: 1_700_000_000_000,
		Tasks: []model.Task{
			{ID: "task-a1", Title: "Croquis", IsCompleted: true, Status: model.StatusDone, SubTasks: []model.SubTask{}},
			{ID: "task-a2", Title: "Maquette", Status: model.StatusTodo, SubTasks: []model.SubTask{
				{ID: "sub-1", Title: "Grille"},
			}},
			{ID: "task-b1", Title: "Impression", Status: model.StatusTodo, SubTasks: []model.SubTask{}},
		},
	}
	p.Normalize()
	return p
}

// importFixture resets the flags and config import reads, and returns a
// command whose input answers prompts with answer
func importFixture(t *testing.T, answer string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	oldCfg, oldYes, oldNo := cfg, importYes, importNo
	cfg = config.DefaultConfig()
	importYes, importNo = false, false
	t.Cleanup(func() {
		cfg, importYes, importNo = oldCfg, oldYes, oldNo
	})

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(answer))
	return cmd, &out
}

func sessionWith(projects ...model.Project) *session {
	state := studio.EmptyState()
	state.Projects = projects
	return &session{studio: studio.Default(), before: state, state: state}
}

func TestApplyImportInsertsNewProject(t *testing.T) {
	cmd, out := importFixture(t, "")
	sess := sessionWith(cliProject("p1", "Affiche"))

	incoming := cliProject("p2", "Logo")
	changed := applyImport(cmd, sess, &report.Payload{Project: &incoming})

	assert.True(t, changed)
	require.Len(t, sess.state.Projects, 2)
	assert.Equal(t, "p2", sess.state.Projects[0].ID)
	assert.Contains(t, out.String(), "Imported: Logo")
}

func TestReportImportsIntoEmptyStudio(t *testing.T) {
	p := model.Project{
		ID:     "p1",
		Name:   "Logo",
		Type:   model.TypeSolo,
		Status: model.StatusInProgress,
		Tasks: []model.Task{
			{ID: "t1", Title: "Sketch", IsCompleted: true, Status: model.StatusDone, SubTasks: []model.SubTask{}},
			{ID: "t2", Title: "Vector", Status: model.StatusTodo, SubTasks: []model.SubTask{}},
		},
	}
	p.Normalize()
	p.Progress = model.RecomputeProgress(p.Tasks)
	require.Equal(t, 50, p.Progress)

	html, err := report.Encode(p, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	payload, err := report.Decode(html, report.KindHTML)
	require.NoError(t, err)
	require.NotNil(t, payload.Project)
	assert.Equal(t, p, *payload.Project)

	cmd, out := importFixture(t, "")
	sess := sessionWith()
	assert.True(t, applyImport(cmd, sess, payload))
	assert.Equal(t, []model.Project{p}, sess.state.Projects)
	assert.Contains(t, out.String(), "Imported: Logo")
}

func TestApplyImportAsksBeforeReplacing(t *testing.T) {
	incoming := cliProject("p1", "Affiche v2")

	t.Run("declined", func(t *testing.T) {
		cmd, out := importFixture(t, "n\n")
		sess := sessionWith(cliProject("p1", "Affiche"))

		assert.False(t, applyImport(cmd, sess, &report.Payload{Project: &incoming}))
		assert.Equal(t, "Affiche", sess.state.Projects[0].Name)
		assert.Contains(t, out.String(), `+ "name": "Affiche v2",`)
		assert.Contains(t, out.String(), "Kept the existing")
	})

	t.Run("accepted", func(t *testing.T) {
		cmd, out := importFixture(t, "oui\n")
		sess := sessionWith(cliProject("p1", "Affiche"))

		assert.True(t, applyImport(cmd, sess, &report.Payload{Project: &incoming}))
		require.Len(t, sess.state.Projects, 1)
		assert.Equal(t, "Affiche v2", sess.state.Projects[0].Name)
		assert.Contains(t, out.String(), "Replaced: Affiche v2")
	})

	t.Run("no flag", func(t *testing.T) {
		cmd, out := importFixture(t, "")
		importNo = true
		sess := sessionWith(cliProject("p1", "Affiche"))

		assert.False(t, applyImport(cmd, sess, &report.Payload{Project: &incoming}))
		assert.Equal(t, "Affiche", sess.state.Projects[0].Name)
		assert.NotContains(t, out.String(), "(y/N)")
	})

	t.Run("yes flag", func(t *testing.T) {
		cmd, out := importFixture(t, "")
		importYes = true
		sess := sessionWith(cliProject("p1", "Affiche"))

		assert.True(t, applyImport(cmd, sess, &report.Payload{Project: &incoming}))
		assert.Equal(t, "Affiche v2", sess.state.Projects[0].Name)
		assert.NotContains(t, out.String(), "(y/N)")
	})
}

func TestApplyImportRestoresBackup(t *testing.T) {
	events := []model.AppEvent{{ID: "e1", Title: "Jury", Date: 1_700_000_000_000, Types: []model.EventType{model.EventExam}}}

	cmd, out := importFixture(t, "y\n")
	sess := sessionWith(cliProject("p1", "Affiche"))

	changed := applyImport(cmd, sess, &report.Payload{Backup: &report.Backup{Events: &events}})
	assert.True(t, changed)
	assert.Equal(t, events, sess.state.Events)
	assert.Len(t, sess.state.Projects, 1, "collections missing from the backup stay")
	assert.Contains(t, out.String(), "Replace events with the backup?")

	cmd, _ = importFixture(t, "n\n")
	sess = sessionWith()
	assert.False(t, applyImport(cmd, sess, &report.Payload{Backup: &report.Backup{Events: &events}}))
	assert.Empty(t, sess.state.Events)

	cmd, out = importFixture(t, "")
	assert.False(t, applyImport(cmd, sessionWith(), &report.Payload{Backup: &report.Backup{}}))
	assert.Contains(t, out.String(), "nothing to restore")
}

func TestProjectDiff(t *testing.T) {
	a := cliProject("p1", "Affiche")
	assert.Empty(t, projectDiff(a, a, 10))

	b := a
	b.Name = "Affiche v2"
	diff := projectDiff(a, b, 10)
	assert.Contains(t, diff, `- "name": "Affiche",`)
	assert.Contains(t, diff, `+ "name": "Affiche v2",`)

	b.Subject = "Édition"
	b.Description = "Nouvelle direction"
	diff = projectDiff(a, b, 2)
	lines := strings.Split(diff, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "more changed lines")
}

func TestFindTask(t *testing.T) {
	p := cliProject("p1", "Affiche")

	task, err := findTask(p, "maquette")
	require.NoError(t, err)
	assert.Equal(t, "task-a2", task.ID)

	task, err = findTask(p, "task-b")
	require.NoError(t, err)
	assert.Equal(t, "Impression", task.Title)

	_, err = findTask(p, "task-a")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = findTask(p, "Reliure")
	assert.ErrorContains(t, err, "not found")

	_, err = findSubTask(task, "Grille")
	assert.Error(t, err, "Impression has no checklist")

	maquette, err := findTask(p, "task-a2")
	require.NoError(t, err)
	sub, err := findSubTask(maquette, "grille")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub.ID)
}

func TestParseEventTypes(t *testing.T) {
	types, err := parseEventTypes([]string{"partiel", "RENDU"})
	require.NoError(t, err)
	assert.Equal(t, []model.EventType{model.EventExam, model.EventDelivery}, types)

	_, err = parseEventTypes([]string{"Vacances"})
	assert.ErrorContains(t, err, "Vacances")
}
