package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/awaree/internal/model"
)

var (
	// Terminal renditions of the theme color keys
	tagPalette = map[string]lipgloss.Color{
		model.ColorBlue:   lipgloss.Color("#6FA8FF"),
		model.ColorOrange: lipgloss.Color("#FFB347"),
		model.ColorPink:   lipgloss.Color("#F78FB3"),
		model.ColorPurple: lipgloss.Color("#B39DDB"),
		model.ColorRed:    lipgloss.Color("#FF6B6B"),
		model.ColorSlate:  lipgloss.Color("#94A3B8"),
	}

	Overdue = lipgloss.Color("#FF6B6B")

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Highlight = lipgloss.Color("#4ECDC4")
)

// Styles
var (
	// Sidebar
	SidebarStyle = lipgloss.NewStyle().
			Width(20).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	// Task list
	TaskListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	// Project item
	ProjectItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	ProjectItemSelectedStyle = lipgloss.NewStyle().
					Padding(0, 1).
					Background(Surface).
					Bold(true)

	// Task item
	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// GetTagStyle returns the style a tag is painted with
func GetTagStyle(colors model.TagColors, tag string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(tagPalette[colors.ColorFor(tag)]).Bold(true)
}

// FormatTag renders a tag label in its color
func FormatTag(colors model.TagColors, tag string) string {
	return GetTagStyle(colors, tag).Render(tag)
}
