package tui

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/awaree/internal/logger"
	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/studio"
	"github.com/spf13/afero"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneSidebar Pane = iota
	PaneTaskList
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeAddProject
	ModeAddNote
	ModeConfirmDelete
	ModeFilter
	ModeHelp
)

// Saver persists the collections that changed between two states
type Saver interface {
	Save(ctx context.Context, before, after studio.State) error
}

// Options configures the TUI
type Options struct {
	Studio    *studio.Studio
	ReportDir string
	SortBy    string
	UserEmail string
	Fs        afero.Fs
}

// Model is the main TUI model
type Model struct {
	store  Saver
	studio *studio.Studio
	opts   Options

	state    studio.State
	projects []model.Project
	tasks    []model.Task

	archived bool
	sortBy   studio.SortBy

	// UI state
	width      int
	height     int
	pane       Pane
	mode       Mode
	projCursor int
	taskCursor int

	// Input
	input textinput.Model

	// Done tasks stay in place for a moment before sinking
	recentlyDone map[string]time.Time

	// Filter (vim-style)
	filterText   string
	matchIndices []int
	matchCursor  int

	message string
}

// NewModel creates a new TUI model over a loaded studio
func NewModel(store Saver, state studio.State, opts Options) Model {
	logger.Info("Initializing TUI model")

	if opts.Studio == nil {
		opts.Studio = studio.Default()
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	sortBy, err := studio.ParseSortBy(opts.SortBy)
	if err != nil {
		sortBy = studio.SortRecent
	}

	ti := textinput.New()
	ti.Placeholder = "Enter task..."
	ti.CharLimit = 256
	ti.Width = 50

	m := Model{
		store:        store,
		studio:       opts.Studio,
		opts:         opts,
		state:        state,
		sortBy:       sortBy,
		pane:         PaneSidebar,
		mode:         ModeNormal,
		input:        ti,
		recentlyDone: make(map[string]time.Time),
	}

	m.loadData()
	logger.Debug("TUI model initialized",
		logger.F("projects", len(m.projects)),
		logger.F("tasks", len(m.tasks)))
	return m
}

func (m *Model) loadData() {
	m.projects = studio.SortProjects(m.state.Projects, m.archived, m.sortBy)
	if m.projCursor >= len(m.projects) {
		m.projCursor = 0
	}
	m.tasks = nil
	if len(m.projects) == 0 {
		return
	}

	m.tasks = append([]model.Task(nil), m.projects[m.projCursor].Tasks...)

	// Active first, done last (with delay)
	sort.SliceStable(m.tasks, func(i, j int) bool {
		return !m.effectivelyDone(m.tasks[i]) && m.effectivelyDone(m.tasks[j])
	})
	if m.taskCursor >= len(m.tasks) {
		m.taskCursor = max(len(m.tasks)-1, 0)
	}
}

func (m *Model) effectivelyDone(t model.Task) bool {
	if !t.IsCompleted {
		return false
	}
	if doneTime, ok := m.recentlyDone[t.ID]; ok && time.Since(doneTime) < 10*time.Second {
		return false
	}
	return true
}

func (m *Model) currentProject() *model.Project {
	if m.projCursor < len(m.projects) {
		return &m.projects[m.projCursor]
	}
	return nil
}

func (m *Model) currentTask() *model.Task {
	if m.taskCursor < len(m.tasks) {
		return &m.tasks[m.taskCursor]
	}
	return nil
}

// commit saves next and makes it the current state
func (m *Model) commit(next studio.State) bool {
	if m.store != nil {
		if err := m.store.Save(context.Background(), m.state, next); err != nil {
			logger.Error("Failed to save studio", logger.F("error", err))
			m.message = "Save failed: " + err.Error()
			return false
		}
	}
	m.state = next
	m.loadData()
	return true
}

// commitProject replaces p in the studio and saves
func (m *Model) commitProject(p model.Project) bool {
	projects, err := studio.ReplaceProject(m.state.Projects, p)
	if err != nil {
		m.message = err.Error()
		return false
	}
	next := m.state
	next.Projects = projects
	return m.commit(next)
}

// selectProject moves the sidebar cursor to the project with id
func (m *Model) selectProject(id string) {
	for i, p := range m.projects {
		if p.ID == id {
			m.projCursor = i
			m.taskCursor = 0
			m.loadData()
			return
		}
	}
}

// State returns the studio as edited in the TUI
func (m Model) State() studio.State {
	return m.state
}
