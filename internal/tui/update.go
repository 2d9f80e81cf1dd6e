package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/awaree/internal/logger"
	"github.com/existflow/awaree/internal/report"
	"github.com/existflow/awaree/internal/studio"
)

// tickMsg drives the recently-done reordering
type tickMsg time.Time

// Init starts the tick
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update routes messages by mode
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// settle tasks toggled long enough ago
		needsRefresh := false
		for id, doneTime := range m.recentlyDone {
			if time.Since(doneTime) >= 10*time.Second {
				delete(m.recentlyDone, id)
				needsRefresh = true
			}
		}
		if needsRefresh {
			m.loadData()
		}
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAddTask, ModeAddProject, ModeAddNote:
			return m.updateInput(msg)
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeConfirmDelete:
			return m.updateConfirm(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys maps keys outside of any modal
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneSidebar {
			m.pane = PaneTaskList
		} else {
			m.pane = PaneSidebar
		}

	case key.Matches(msg, keys.Left):
		m.pane = PaneSidebar

	case key.Matches(msg, keys.Right):
		m.pane = PaneTaskList

	case key.Matches(msg, keys.Up):
		m.handleUp()

	case key.Matches(msg, keys.Down):
		m.handleDown()

	case msg.String() == "G":
		m.handleGoBottom()

	case key.Matches(msg, keys.Add):
		return m.startInput(ModeAddTask, "Enter task...")

	case key.Matches(msg, keys.Project):
		return m.startInput(ModeAddProject, "Enter project name...")

	case key.Matches(msg, keys.Note):
		return m.startInput(ModeAddNote, "Write in the journal...")

	case key.Matches(msg, keys.Done), key.Matches(msg, keys.Enter):
		if m.pane == PaneSidebar {
			m.pane = PaneTaskList
		} else {
			m.handleToggleDone()
		}

	case key.Matches(msg, keys.Delete):
		if m.pane == PaneSidebar {
			if m.currentProject() != nil {
				m.mode = ModeConfirmDelete
			}
		} else {
			m.handleDeleteTask()
		}

	case key.Matches(msg, keys.Urgent):
		m.handleUrgent()

	case key.Matches(msg, keys.Archive):
		m.handleArchive()

	case key.Matches(msg, keys.Archived):
		m.archived = !m.archived
		m.projCursor, m.taskCursor = 0, 0
		m.loadData()
		if m.archived {
			m.message = "Showing archive"
		} else {
			m.message = "Showing active projects"
		}

	case key.Matches(msg, keys.Sort):
		m.sortBy = nextSort(m.sortBy)
		m.loadData()
		m.message = fmt.Sprintf("Sorted by %s", m.sortBy)

	case key.Matches(msg, keys.Export):
		m.handleExport()

	case msg.String() == "/":
		return m.startFilter()

	case msg.String() == "n":
		m.handleNextMatch()

	case msg.String() == "N":
		m.handlePrevMatch()

	case key.Matches(msg, keys.Escape):
		if m.filterText != "" {
			m.filterText = ""
			m.matchIndices = nil
			m.message = "Filter cleared"
		}

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

func (m *Model) handleUp() {
	if m.pane == PaneSidebar {
		if m.projCursor > 0 {
			m.projCursor--
			m.taskCursor = 0
			m.loadData()
		}
	} else if m.taskCursor > 0 {
		m.taskCursor--
	}
}

func (m *Model) handleDown() {
	if m.pane == PaneSidebar {
		if m.projCursor < len(m.projects)-1 {
			m.projCursor++
			m.taskCursor = 0
			m.loadData()
		}
	} else if m.taskCursor < len(m.tasks)-1 {
		m.taskCursor++
	}
}

func (m *Model) handleGoBottom() {
	if m.pane == PaneSidebar {
		m.projCursor = max(len(m.projects)-1, 0)
		m.taskCursor = 0
		m.loadData()
	} else {
		m.taskCursor = max(len(m.tasks)-1, 0)
	}
}

func (m Model) startInput(mode Mode, placeholder string) (tea.Model, tea.Cmd) {
	if mode != ModeAddProject && m.currentProject() == nil {
		m.message = "Create a project first (p)"
		return m, nil
	}
	m.mode = mode
	m.input.SetValue("")
	m.input.Placeholder = placeholder
	m.input.Focus()
	return m, textinput.Blink
}

func (m *Model) handleToggleDone() {
	proj, task := m.currentProject(), m.currentTask()
	if proj == nil || task == nil {
		return
	}
	p, err := m.studio.ToggleTask(*proj, task.ID)
	if err != nil {
		m.message = err.Error()
		return
	}
	if !task.IsCompleted {
		m.recentlyDone[task.ID] = time.Now()
	} else {
		delete(m.recentlyDone, task.ID)
	}
	if m.commitProject(p) {
		m.message = fmt.Sprintf("%s • %d%%", p.Name, p.Progress)
	}
}

func (m *Model) handleDeleteTask() {
	proj, task := m.currentProject(), m.currentTask()
	if proj == nil || task == nil {
		return
	}
	p, err := m.studio.DeleteTask(*proj, task.ID)
	if err != nil {
		m.message = err.Error()
		return
	}
	if m.commitProject(p) {
		m.message = fmt.Sprintf("Deleted: %s", task.Title)
		if m.taskCursor >= len(m.tasks) && m.taskCursor > 0 {
			m.taskCursor--
		}
	}
}

func (m *Model) handleUrgent() {
	proj := m.currentProject()
	if proj == nil {
		return
	}
	form := studio.FormOf(*proj)
	form.IsUrgent = !form.IsUrgent
	p, err := m.studio.EditProject(*proj, form)
	if err != nil {
		m.message = err.Error()
		return
	}
	m.commitProject(p)
}

func (m *Model) handleArchive() {
	proj := m.currentProject()
	if proj == nil {
		return
	}
	p := m.studio.ArchiveProject(*proj, !proj.IsArchived)
	if m.commitProject(p) {
		if p.IsArchived {
			m.message = fmt.Sprintf("Archived: %s", p.Name)
		} else {
			m.message = fmt.Sprintf("Restored: %s", p.Name)
		}
	}
}

func (m *Model) handleExport() {
	proj := m.currentProject()
	if proj == nil {
		return
	}
	data, err := report.Encode(*proj, time.Now())
	if err != nil {
		m.message = fmt.Sprintf("Export failed: %v", err)
		return
	}
	path, err := report.WriteFile(m.opts.Fs, m.opts.ReportDir, report.FileName(*proj), data)
	if err != nil {
		m.message = fmt.Sprintf("Export failed: %v", err)
		return
	}
	logger.Info("Report exported", logger.F("project", proj.ID), logger.F("path", path))
	m.message = "Report written: " + path
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	proj := m.currentProject()
	if proj == nil {
		return m, nil
	}
	switch strings.ToLower(msg.String()) {
	case "y", "o":
		projects, err := studio.DeleteProject(m.state.Projects, proj.ID)
		if err != nil {
			m.message = err.Error()
			return m, nil
		}
		name := proj.Name
		next := m.state
		next.Projects = projects
		if m.commit(next) {
			m.taskCursor = 0
			m.message = fmt.Sprintf("Deleted project: %s", name)
		}
	default:
		m.message = "Aborted"
	}
	return m, nil
}

func (m Model) startFilter() (tea.Model, tea.Cmd) {
	m.mode = ModeFilter
	m.input.SetValue(m.filterText)
	m.input.Placeholder = "/"
	m.input.Focus()
	return m, textinput.Blink
}

func (m *Model) handleNextMatch() {
	if len(m.matchIndices) > 0 {
		m.matchCursor = (m.matchCursor + 1) % len(m.matchIndices)
		m.taskCursor = m.matchIndices[m.matchCursor]
		m.message = fmt.Sprintf("[%d/%d] matches", m.matchCursor+1, len(m.matchIndices))
	}
}

func (m *Model) handlePrevMatch() {
	if len(m.matchIndices) > 0 {
		m.matchCursor--
		if m.matchCursor < 0 {
			m.matchCursor = len(m.matchIndices) - 1
		}
		m.taskCursor = m.matchIndices[m.matchCursor]
		m.message = fmt.Sprintf("[%d/%d] matches", m.matchCursor+1, len(m.matchIndices))
	}
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		return m, nil

	case msg.Type == tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = ModeNormal
		if value == "" {
			return m, nil
		}

		switch mode {
		case ModeAddTask:
			proj := m.currentProject()
			if proj == nil {
				return m, nil
			}
			p, _, err := m.studio.AddTask(*proj, value)
			if err != nil {
				m.message = fmt.Sprintf("Error adding task: %v", err)
			} else if m.commitProject(p) {
				m.message = fmt.Sprintf("Added: %s", value)
			}

		case ModeAddNote:
			proj := m.currentProject()
			if proj == nil {
				return m, nil
			}
			p, _, err := m.studio.AddNote(*proj, value)
			if err != nil {
				m.message = fmt.Sprintf("Error adding note: %v", err)
			} else if m.commitProject(p) {
				m.message = fmt.Sprintf("Journal: %d entries", len(p.Notes))
			}

		case ModeAddProject:
			p, err := m.studio.CreateProject(studio.ProjectForm{Name: value}, nil)
			if err != nil {
				m.message = fmt.Sprintf("Error creating project: %v", err)
				return m, nil
			}
			next := m.state
			next.Projects = studio.AddProject(m.state.Projects, p)
			if m.commit(next) {
				m.archived = false
				m.loadData()
				m.selectProject(p.ID)
				m.message = fmt.Sprintf("Created project: %s", value)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.filterText = ""
		m.matchIndices = nil
		return m, nil

	case msg.Type == tea.KeyUp:
		if len(m.matchIndices) > 0 && m.matchCursor > 0 {
			m.matchCursor--
		}
		return m, nil

	case msg.Type == tea.KeyDown:
		if len(m.matchIndices) > 0 && m.matchCursor < len(m.matchIndices)-1 {
			m.matchCursor++
		}
		return m, nil

	case msg.Type == tea.KeyEnter:
		// Jump to selected match
		if len(m.matchIndices) > 0 && m.matchCursor < len(m.matchIndices) {
			m.taskCursor = m.matchIndices[m.matchCursor]
			m.pane = PaneTaskList
		}
		m.mode = ModeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// Live filter as user types
	m.filterText = m.input.Value()
	m.applyFilter()
	return m, cmd
}

func (m *Model) applyFilter() {
	m.matchIndices = nil
	m.matchCursor = 0

	if m.filterText == "" {
		return
	}
	filter := strings.ToLower(m.filterText)
	for i, t := range m.tasks {
		if strings.Contains(strings.ToLower(t.Title), filter) {
			m.matchIndices = append(m.matchIndices, i)
		}
	}
}
