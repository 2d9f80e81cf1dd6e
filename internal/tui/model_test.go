package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/studio"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const t0 = int64(1_700_000_000_000)

type fakeSaver struct {
	saves int
	last  studio.State
	err   error
}

func (f *fakeSaver) Save(_ context.Context, _, after studio.State) error {
	if f.err != nil {
		return f.err
	}
	f.saves++
	f.last = after
	return nil
}

func newTestModel(t *testing.T, saver Saver) (Model, afero.Fs) {
	t.Helper()
	s := studio.New(&model.SequenceGenerator{Prefix: "id-"}, model.FixedClock(t0))

	p, err := s.CreateProject(studio.ProjectForm{Name: "Affiche"}, []string{"Recherches", "Croquis"})
	require.NoError(t, err)
	state := studio.EmptyState()
	state.Projects = studio.AddProject(state.Projects, p)

	fs := afero.NewMemMapFs()
	m := NewModel(saver, state, Options{Studio: s, ReportDir: "/exports", Fs: fs})
	mAny, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return mAny.(Model), fs
}

// press feeds keys to the model; "enter" and "esc" are special keys, anything
// else is typed as runes
func press(t *testing.T, m Model, inputs ...string) Model {
	t.Helper()
	for _, in := range inputs {
		var msg tea.KeyMsg
		switch in {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(in)}
		}
		mAny, _ := m.Update(msg)
		m = mAny.(Model)
	}
	return m
}

func TestNewModelSelectsFirstProject(t *testing.T) {
	m, _ := newTestModel(t, &fakeSaver{})

	require.NotNil(t, m.currentProject())
	assert.Equal(t, "Affiche", m.currentProject().Name)
	assert.Len(t, m.tasks, 2)
	assert.Equal(t, PaneSidebar, m.pane)
	assert.Contains(t, m.View(), "Affiche")
}

func TestViewBeforeWindowSize(t *testing.T) {
	m := NewModel(nil, studio.EmptyState(), Options{})
	assert.Equal(t, "Loading...", m.View())
}

func TestToggleTaskSavesProgress(t *testing.T) {
	saver := &fakeSaver{}
	m, _ := newTestModel(t, saver)

	m = press(t, m, "l", "x")

	assert.Equal(t, 1, saver.saves)
	require.Len(t, saver.last.Projects, 1)
	assert.Equal(t, 50, saver.last.Projects[0].Progress)
	assert.Equal(t, 50, m.currentProject().Progress)

	// toggled task stays in place for a moment
	assert.True(t, m.tasks[0].IsCompleted)
	assert.Equal(t, "Recherches", m.tasks[0].Title)
}

func TestAddTaskFromInput(t *testing.T) {
	saver := &fakeSaver{}
	m, _ := newTestModel(t, saver)

	m = press(t, m, "a")
	assert.Equal(t, ModeAddTask, m.mode)
	m = press(t, m, "M", "a", "q", "u", "e", "t", "t", "e", "enter")

	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 1, saver.saves)
	require.Len(t, m.tasks, 3)
	assert.Equal(t, "Maquette", m.tasks[2].Title)
}

func TestEscapeCancelsInput(t *testing.T) {
	saver := &fakeSaver{}
	m, _ := newTestModel(t, saver)

	m = press(t, m, "a", "x", "esc")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Zero(t, saver.saves)
	assert.Len(t, m.tasks, 2)
}

func TestAddProjectSelectsIt(t *testing.T) {
	saver := &fakeSaver{}
	m, _ := newTestModel(t, saver)

	m = press(t, m, "p", "L", "o", "g", "o", "enter")

	require.Len(t, m.projects, 2)
	assert.Equal(t, "Logo", m.currentProject().Name)
	assert.Equal(t, 1, saver.saves)
}

func TestAddNote(t *testing.T) {
	saver := &fakeSaver{}
	m, _ := newTestModel(t, saver)

	m = press(t, m, "w", "o", "k", "enter")

	require.Len(t, m.currentProject().Notes, 1)
	assert.Equal(t, "ok", m.currentProject().Notes[0].Content)
}

func TestDeleteProjectNeedsConfirmation(t *testing.T) {
	saver := &fakeSaver{}
	m, _ := newTestModel(t, saver)

	m = press(t, m, "d")
	assert.Equal(t, ModeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "Delete project")

	m = press(t, m, "n")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Len(t, m.projects, 1)
	assert.Zero(t, saver.saves)

	m = press(t, m, "d", "y")
	assert.Empty(t, m.projects)
	assert.Equal(t, 1, saver.saves)
	assert.Empty(t, saver.last.Projects)
}

func TestSaveFailureKeepsState(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	m, _ := newTestModel(t, saver)

	m = press(t, m, "l", "x")

	assert.Equal(t, 0, m.currentProject().Progress)
	assert.False(t, m.tasks[0].IsCompleted)
	assert.Contains(t, m.message, "disk full")
}

func TestArchiveMovesProjectOutOfList(t *testing.T) {
	m, _ := newTestModel(t, &fakeSaver{})

	m = press(t, m, "A")
	assert.Empty(t, m.projects)

	m = press(t, m, "v")
	require.Len(t, m.projects, 1)
	assert.True(t, m.projects[0].IsArchived)
}

func TestExportWritesReport(t *testing.T) {
	m, fs := newTestModel(t, &fakeSaver{})

	m = press(t, m, "E")

	path := filepath.Join("/exports", "awaree_rapport_affiche.html")
	assert.Contains(t, m.message, path)
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Affiche")
}

func TestFilterJumpsToMatch(t *testing.T) {
	m, _ := newTestModel(t, &fakeSaver{})

	m = press(t, m, "/", "c", "r", "o")
	assert.Equal(t, []int{1}, m.matchIndices)

	m = press(t, m, "enter")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 1, m.taskCursor)
	assert.Equal(t, PaneTaskList, m.pane)
}

func TestSortCycles(t *testing.T) {
	m, _ := newTestModel(t, &fakeSaver{})
	assert.Equal(t, studio.SortRecent, m.sortBy)

	m = press(t, m, "s")
	assert.Equal(t, studio.SortDeadline, m.sortBy)
	m = press(t, m, "s", "s", "s")
	assert.Equal(t, studio.SortRecent, m.sortBy)
}
