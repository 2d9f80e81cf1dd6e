package studio

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/existflow/awaree/internal/model"
)

// SortBy selects the ordering of the project list
type SortBy string

const (
	SortRecent   SortBy = "recent"
	SortDeadline SortBy = "deadline"
	SortProgress SortBy = "progress"
	SortName     SortBy = "name"
)

// ParseSortBy accepts the sort names used on the command line
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortRecent:
		return SortRecent, nil
	case SortDeadline:
		return SortDeadline, nil
	case SortProgress:
		return SortProgress, nil
	case SortName:
		return SortName, nil
	}
	return "", fmt.Errorf("%w: unknown sort %q (recent, deadline, progress, name)", ErrInvalidInput, s)
}

// SortProjects returns the archived or active projects in the requested order.
// Projects without a deadline sort last when ordering by deadline.
func SortProjects(projects []model.Project, archived bool, by SortBy) []model.Project {
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if p.IsArchived == archived {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch by {
		case SortDeadline:
			if a.Deadline == nil || b.Deadline == nil {
				return a.Deadline != nil && b.Deadline == nil
			}
			return *a.Deadline < *b.Deadline
		case SortProgress:
			return a.Progress > b.Progress
		case SortName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		default:
			return a.CreatedAt > b.CreatedAt
		}
	})
	return out
}

// SubjectCount is the number of active projects in a subject
type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

// Stats summarizes the dashboard. Everything except Total covers active
// projects only.
type Stats struct {
	Active      int            `json:"active"`
	Total       int            `json:"total"`
	TaskRatio   int            `json:"taskRatio"`
	Urgent      int            `json:"urgent"`
	TopSubjects []SubjectCount `json:"topSubjects"`
	Solo        int            `json:"solo"`
	Group       int            `json:"group"`
}

// ComputeStats builds the dashboard summary
func ComputeStats(projects []model.Project) Stats {
	st := Stats{Total: len(projects), TopSubjects: []SubjectCount{}}

	var done, total int
	counts := map[string]int{}
	var order []string
	for _, p := range projects {
		if p.IsArchived {
			continue
		}
		st.Active++
		total += len(p.Tasks)
		done += p.CompletedTasks()
		if p.IsUrgent {
			st.Urgent++
		}
		switch p.Type {
		case model.TypeSolo:
			st.Solo++
		case model.TypeGroup:
			st.Group++
		}
		if _, seen := counts[p.Subject]; !seen {
			order = append(order, p.Subject)
		}
		counts[p.Subject]++
	}
	st.TaskRatio = model.Percent(done, total)

	for _, subject := range order {
		st.TopSubjects = append(st.TopSubjects, SubjectCount{Subject: subject, Count: counts[subject]})
	}
	sort.SliceStable(st.TopSubjects, func(i, j int) bool {
		return st.TopSubjects[i].Count > st.TopSubjects[j].Count
	})
	if len(st.TopSubjects) > 3 {
		st.TopSubjects = st.TopSubjects[:3]
	}
	return st
}

// Period restricts events relative to today
type Period string

const (
	PeriodAll      Period = "all"
	PeriodToday    Period = "today"
	PeriodUpcoming Period = "upcoming"
	PeriodPast     Period = "past"
)

// ParsePeriod accepts all, today, upcoming and past
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodToday, PeriodUpcoming, PeriodPast:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown period %q (all, today, upcoming, past)", ErrInvalidInput, s)
}

// EventFilter narrows the calendar list
type EventFilter struct {
	Tags   []model.EventType
	Period Period
	Query  string
}

// FilterEvents returns matching events sorted by date. Events match when they
// carry any of the tags, fall in the period and mention the query in their
// title or notes.
func FilterEvents(events []model.AppEvent, f EventFilter, now time.Time) []model.AppEvent {
	start := startOfDay(now)
	end := start.AddDate(0, 0, 1)
	startMs, endMs := model.Millis(start), model.Millis(end)
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]model.AppEvent, 0, len(events))
	for _, ev := range events {
		if len(f.Tags) > 0 && !hasAnyTag(ev, f.Tags) {
			continue
		}
		switch f.Period {
		case PeriodToday:
			if ev.Date < startMs || ev.Date >= endMs {
				continue
			}
		case PeriodUpcoming:
			if ev.Date < startMs {
				continue
			}
		case PeriodPast:
			if ev.Date >= startMs {
				continue
			}
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(ev.Title), query) &&
			!strings.Contains(strings.ToLower(ev.Notes), query) {
			continue
		}
		out = append(out, ev)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func hasAnyTag(ev model.AppEvent, tags []model.EventType) bool {
	for _, want := range tags {
		for _, have := range ev.Types {
			if have == want {
				return true
			}
		}
	}
	return false
}

// SearchCreations returns creations whose title or category contains query
func SearchCreations(creations []model.Creation, query string) []model.Creation {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Creation, 0, len(creations))
	for _, c := range creations {
		if query == "" ||
			strings.Contains(strings.ToLower(c.Title), query) ||
			strings.Contains(strings.ToLower(c.Category), query) {
			out = append(out, c)
		}
	}
	return out
}

// Agenda is what falls on one calendar day
type Agenda struct {
	Day       time.Time
	Deadlines []model.Project
	Events    []model.AppEvent
}

// Deadlines collects the active projects due on day and the events of day
func Deadlines(projects []model.Project, events []model.AppEvent, day time.Time) Agenda {
	start := startOfDay(day)
	end := start.AddDate(0, 0, 1)
	startMs, endMs := model.Millis(start), model.Millis(end)

	agenda := Agenda{Day: start, Deadlines: []model.Project{}, Events: []model.AppEvent{}}
	for _, p := range projects {
		if p.IsArchived || p.Deadline == nil {
			continue
		}
		if *p.Deadline >= startMs && *p.Deadline < endMs {
			agenda.Deadlines = append(agenda.Deadlines, p)
		}
	}
	for _, ev := range events {
		if ev.Date >= startMs && ev.Date < endMs {
			agenda.Events = append(agenda.Events, ev)
		}
	}
	sort.SliceStable(agenda.Events, func(i, j int) bool { return agenda.Events[i].Date < agenda.Events[j].Date })
	return agenda
}

const dayMillis = 24 * 60 * 60 * 1000

// DaysLeft returns the whole days until deadline, rounded up. Zero means due
// today and negative means overdue.
func DaysLeft(deadline, now int64) int {
	return int(math.Ceil(float64(deadline-now) / dayMillis))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
