package tui

import (
	"fmt"
	"strings"

	"github.com/existflow/awaree/internal/studio"
)

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if max < 2 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// progressBar draws percent as a bar of width cells
func progressBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// dueLabel reads a deadline relative to now
func dueLabel(deadline *int64, now int64) string {
	if deadline == nil {
		return ""
	}
	switch days := studio.DaysLeft(*deadline, now); {
	case days < 0:
		return "overdue"
	case days == 0:
		return "due today"
	default:
		return fmt.Sprintf("%dd left", days)
	}
}

var sortCycle = []studio.SortBy{studio.SortRecent, studio.SortDeadline, studio.SortProgress, studio.SortName}

func nextSort(by studio.SortBy) studio.SortBy {
	for i, s := range sortCycle {
		if s == by {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return studio.SortRecent
}
