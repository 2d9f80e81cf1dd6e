package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/studio"
)

// View lays out sidebar, task list and status bar
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebar := m.renderSidebar()
	taskList := m.renderTaskList()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, taskList)

	var modal string
	switch m.mode {
	case ModeAddTask, ModeAddProject, ModeAddNote:
		modal = m.renderModal()
	case ModeConfirmDelete:
		modal = m.renderConfirmModal()
	case ModeFilter:
		modal = m.renderFilterModal()
	case ModeHelp:
		mainContent = m.renderHelp()
	}
	if modal != "" {
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) renderSidebar() string {
	sidebarWidth := 26
	var s string

	title := "Awaree"
	if m.archived {
		title = "Awaree · archive"
	}
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(title) + "\n"
	s += HelpStyle.Render(time.Now().Format("02/01 15:04:05")) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", sidebarWidth-5)) + "\n\n"

	if len(m.projects) == 0 {
		s += HelpStyle.Render("No projects") + "\n"
	}
	for i, p := range m.projects {
		cursor := "  "
		style := ProjectItemStyle
		if i == m.projCursor {
			cursor = "❯ "
			if m.pane == PaneSidebar {
				style = ProjectItemSelectedStyle
			}
		}
		flag := " "
		if p.IsUrgent {
			flag = "!"
		}

		line := fmt.Sprintf("%s%s%-13s %3d%%", cursor, flag, truncate(p.Name, 13), p.Progress)
		s += style.Render(line) + "\n"
	}

	s += "\n" + lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", sidebarWidth-5)) + "\n"
	s += HelpStyle.Render(fmt.Sprintf("sort: %s", m.sortBy))

	return SidebarStyle.Width(sidebarWidth).Height(m.height - 2).Render(s)
}

func (m Model) renderTaskList() string {
	width := m.width - 28
	var s string

	proj := m.currentProject()
	if proj == nil {
		return TaskListStyle.Width(width).Height(m.height - 2).Render("No project selected. Press 'p' to create one.")
	}

	colors := m.state.TagColors
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(proj.Name) + "  "
	s += HelpStyle.Render(fmt.Sprintf("%s · %s", proj.Subject, proj.Type)) + "\n"

	meta := FormatTag(colors, string(proj.Status))
	if proj.IsUrgent {
		meta += "  " + FormatTag(colors, model.TagUrgent)
	}
	if due := dueLabel(proj.Deadline, model.SystemClock()); due != "" {
		style := HelpStyle
		if strings.HasPrefix(due, "overdue") {
			style = lipgloss.NewStyle().Foreground(Overdue)
		}
		meta += "  " + style.Render(due)
	}
	s += meta + "\n"
	s += fmt.Sprintf("%s %d%% (%d/%d)\n", progressBar(proj.Progress, 20), proj.Progress, proj.CompletedTasks(), len(proj.Tasks))
	s += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(width-4, 1))) + "\n\n"

	if len(m.tasks) == 0 {
		s += HelpStyle.Render("  No tasks. Press 'a' to add one.") + "\n"
	}

	for i, t := range m.tasks {
		cursor := "  "
		style := TaskItemStyle
		if i == m.taskCursor && m.pane == PaneTaskList {
			cursor = "❯ "
			style = TaskItemSelectedStyle
		}

		isMatch := false
		for _, idx := range m.matchIndices {
			if idx == i {
				isMatch = true
				break
			}
		}
		if isMatch && i != m.taskCursor {
			style = lipgloss.NewStyle().Foreground(Highlight)
		}

		icon := "[ ]"
		if t.IsCompleted {
			icon = "[x]"
			style = TaskDoneStyle
		}

		extra := ""
		if len(t.SubTasks) > 0 {
			done := 0
			for _, sub := range t.SubTasks {
				if sub.IsCompleted {
					done++
				}
			}
			extra = fmt.Sprintf("(%d/%d)", done, len(t.SubTasks))
		}
		if t.DueDate != nil {
			extra += " " + model.Time(*t.DueDate).Format("02/01")
		}

		content := truncate(t.Title, max(width-24, 8))
		check := style.Render(cursor + icon)
		desc := style.Render(fmt.Sprintf(" %-*s ", max(width-24, 8), content))
		s += check + desc + HelpStyle.Render(extra) + "\n"
	}

	if len(proj.Notes) > 0 {
		latest := proj.Notes[0]
		s += "\n" + HelpStyle.Render(fmt.Sprintf("📝 %s  %s", model.Time(latest.Timestamp).Format("02/01"), truncate(latest.Content, max(width-16, 8)))) + "\n"
	}

	return TaskListStyle.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderStatusBar() string {
	// filter mode replaces the bar with the search input
	if m.mode == ModeFilter {
		matches := ""
		if len(m.matchIndices) > 0 {
			matches = fmt.Sprintf(" [%d/%d]", m.matchCursor+1, len(m.matchIndices))
		} else if m.filterText != "" {
			matches = " [no match]"
		}
		return StatusBarStyle.Width(m.width).Render("/" + m.input.View() + matches)
	}

	help := "a:add  x:done  d:del  w:journal  p:project  E:export  /:search  ?:help  q:quit"
	if m.filterText != "" {
		if len(m.matchIndices) > 0 {
			help = fmt.Sprintf("/%s  [%d/%d matches]  n:next  N:prev  Esc:clear",
				m.filterText, m.matchCursor+1, len(m.matchIndices))
		} else {
			help = fmt.Sprintf("/%s  [no matches]  Esc:clear", m.filterText)
		}
	} else if m.message != "" {
		help = m.message
	}

	// Dashboard summary (right aligned)
	st := studio.ComputeStats(m.state.Projects)
	summary := fmt.Sprintf("%d active · %d%% tasks · %d urgent", st.Active, st.TaskRatio, st.Urgent)
	if m.opts.UserEmail != "" {
		summary += " · " + m.opts.UserEmail
	}
	avail := m.width - lipgloss.Width(help) - lipgloss.Width(summary) - 4
	if avail > 0 {
		help += strings.Repeat(" ", avail) + summary
	}

	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	title := "New Project"
	proj := m.currentProject()
	switch {
	case m.mode == ModeAddTask && proj != nil:
		title = fmt.Sprintf("Add Task to: %s", proj.Name)
	case m.mode == ModeAddNote && proj != nil:
		title = fmt.Sprintf("Journal of: %s", proj.Name)
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:save  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderConfirmModal() string {
	proj := m.currentProject()
	if proj == nil {
		return ""
	}
	content := lipgloss.NewStyle().Bold(true).Foreground(Overdue).Render("Delete project") + "\n\n"
	content += fmt.Sprintf("%s\n%d tasks, %d journal entries, %d versions\n\n", proj.Name, len(proj.Tasks), len(proj.Notes), len(proj.Versions))
	content += HelpStyle.Render("y:delete permanently  any other key:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderFilterModal() string {
	modalWidth := 55
	maxResults := 8

	var content string
	content += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Search tasks") + "\n\n"
	content += "/" + m.input.View() + "\n\n"
	content += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", modalWidth-6)) + "\n\n"

	if m.filterText == "" {
		content += HelpStyle.Render("Type to search...") + "\n"
	} else if len(m.matchIndices) == 0 {
		content += HelpStyle.Render("No matches found") + "\n"
	} else {
		content += fmt.Sprintf("%d matches\n\n", len(m.matchIndices))

		for i, idx := range m.matchIndices {
			if i >= maxResults {
				content += HelpStyle.Render(fmt.Sprintf("... +%d more", len(m.matchIndices)-maxResults)) + "\n"
				break
			}
			if idx >= len(m.tasks) {
				continue
			}

			t := m.tasks[idx]
			icon := "[ ]"
			if t.IsCompleted {
				icon = "[x]"
			}

			marker := "  "
			style := lipgloss.NewStyle()
			if i == m.matchCursor {
				marker = "❯ "
				style = lipgloss.NewStyle().Bold(true).Foreground(Primary)
			}
			content += style.Render(fmt.Sprintf("%s%s %s", marker, icon, truncate(t.Title, modalWidth-12))) + "\n"
		}
	}

	content += "\n" + HelpStyle.Render("↑↓:nav  Enter:select  Esc:close")

	return ModalStyle.Width(modalWidth).Render(content)
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ───╮
│                          │
│  Navigation              │
│  ──────────              │
│  j/↓    Move down        │
│  k/↑    Move up          │
│  h/l    Switch pane      │
│  Tab    Switch pane      │
│  G      Go to bottom     │
│                          │
│  Tasks                   │
│  ─────                   │
│  a       Add task        │
│  x/Enter Toggle done     │
│  d       Delete          │
│  /       Search          │
│                          │
│  Projects                │
│  ────────                │
│  p       New project     │
│  w       Write journal   │
│  u       Toggle urgent   │
│  A       Archive/restore │
│  v       Show archive    │
│  s       Cycle sort      │
│  E       Export report   │
│                          │
│  ?       Toggle help     │
│  q       Quit            │
│                          │
╰──────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}
