package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/existflow/awaree/internal/logger"
	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/studio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "studio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadEmptyStore(t *testing.T) {
	s := openTestStore(t)
	state := s.Load(context.Background())

	assert.NotNil(t, state.Projects)
	assert.Empty(t, state.Projects)
	assert.Empty(t, state.Events)
	assert.Empty(t, state.Creations)
	assert.Equal(t, model.DefaultTagColors(), state.TagColors)
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	state := studio.EmptyState()
	state.Projects = []model.Project{{
		ID: "p1", Name: "Logo", Status: model.StatusTodo, Type: model.TypeSolo,
		Tasks:        []model.Task{{ID: "t1", Title: "Sketch", SubTasks: []model.SubTask{}}},
		Versions:     []model.Version{},
		Notes:        []model.ProjectNote{},
		Inspirations: []model.InspirationItem{},
		Deadline:     model.Ptr(int64(42)),
	}}
	state.Events = []model.AppEvent{{ID: "e1", Title: "Jury", Date: 7, Types: []model.EventType{model.EventExam}}}
	state.TagColors["urgent"] = model.ColorPurple

	require.NoError(t, s.Save(ctx, studio.State{}, state))
	assert.Equal(t, state, s.Load(ctx))
}

func TestSaveWritesOnlyChangedSlots(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	before := studio.EmptyState()
	after := before
	after.Events = []model.AppEvent{{ID: "e1", Title: "Jury", Types: []model.EventType{}}}

	require.NoError(t, s.Save(ctx, before, after))

	slots, err := s.Slots(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, KeyEvents, slots[0].Key)
}

func TestCorruptSlotFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	var logs bytes.Buffer
	s.log = logger.NewWriter(&logs, logger.DEBUG)

	require.NoError(t, s.SaveCreations(ctx, []model.Creation{{ID: "c1", Title: "Poster"}}))
	_, err := s.db.Exec(`INSERT INTO slots (key, value) VALUES (?, ?)`, KeyProjects, "{not json")
	require.NoError(t, err)

	state := s.Load(ctx)
	assert.Empty(t, state.Projects)
	require.Len(t, state.Creations, 1)
	assert.Contains(t, logs.String(), KeyProjects)
}

func TestLoadNormalizesLegacyProjects(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.db.Exec(`INSERT INTO slots (key, value) VALUES (?, ?)`, KeyProjects,
		`[{"id":"p1","name":"Old","status":"à faire","type":"Solo","tasks":[]}]`)
	require.NoError(t, err)

	state := s.Load(ctx)
	require.Len(t, state.Projects, 1)
	assert.NotNil(t, state.Projects[0].Notes)
	assert.NotNil(t, state.Projects[0].Inspirations)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.Save(ctx, studio.State{}, studio.EmptyState()))

	require.NoError(t, s.Clear(ctx))
	slots, err := s.Slots(ctx)
	require.NoError(t, err)
	assert.Empty(t, slots)
}
