package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/studio"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:     "event",
	Aliases: []string{"e"},
	Short:   "Manage calendar events",
}

var eventAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a calendar event",
	Long: `Add a calendar event.

Examples:
  awaree event add "Jury de typo" --date "2026-03-14 09:30" --type Partiel
  awaree event add "Cours de motion" --date demain --type Cours --type RDV`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEventAdd,
}

var eventListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List calendar events",
	Long: `List calendar events sorted by date.

Examples:
  awaree event list --period upcoming
  awaree event list --tag Rendu --tag Partiel
  awaree event list --search jury`,
	RunE: runEventList,
}

var eventDeleteCmd = &cobra.Command{
	Use:     "rm [event-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a calendar event",
	Args:    cobra.ExactArgs(1),
	RunE:    runEventDelete,
}

var calendarCmd = &cobra.Command{
	Use:     "calendar [date]",
	Aliases: []string{"cal", "agenda"},
	Short:   "Show deadlines and events day by day",
	Long: `Show what falls on a day: project deadlines and calendar events.

Examples:
  awaree calendar
  awaree calendar demain
  awaree calendar 2026-03-09 --days 7`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCalendar,
}

var (
	eventDate  string
	eventTypes []string
	eventNotes string

	eventPeriod string
	eventTags   []string
	eventSearch string

	calendarDays int
)

func init() {
	eventAddCmd.Flags().StringVarP(&eventDate, "date", "d", "today", "Date and time")
	eventAddCmd.Flags().StringArrayVarP(&eventTypes, "type", "t", nil, "Tag (RDV, Partiel, Rendu, Cours, Perso, Admin, Autre)")
	eventAddCmd.Flags().StringVarP(&eventNotes, "notes", "n", "", "Notes")

	eventListCmd.Flags().StringVar(&eventPeriod, "period", "all", "all, today, upcoming or past")
	eventListCmd.Flags().StringArrayVarP(&eventTags, "tag", "t", nil, "Only events with this tag (repeatable)")
	eventListCmd.Flags().StringVarP(&eventSearch, "search", "s", "", "Search titles and notes")

	calendarCmd.Flags().IntVar(&calendarDays, "days", 1, "Number of days to show")

	eventCmd.AddCommand(eventAddCmd)
	eventCmd.AddCommand(eventListCmd)
	eventCmd.AddCommand(eventDeleteCmd)
}

func parseEventTypes(values []string) ([]model.EventType, error) {
	out := make([]model.EventType, 0, len(values))
	for _, v := range values {
		found := false
		for _, t := range model.EventTypes {
			if strings.EqualFold(v, string(t)) {
				out = append(out, t)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown event tag %q", v)
		}
	}
	return out, nil
}

func runEventAdd(cmd *cobra.Command, args []string) error {
	when, err := parseDate(eventDate, time.Now())
	if err != nil {
		return err
	}
	types, err := parseEventTypes(eventTypes)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	events, ev, err := sess.studio.AddEvent(sess.state.Events, studio.EventForm{
		Title: joinArgs(args),
		Date:  model.Millis(when),
		Types: types,
		Notes: eventNotes,
	})
	if err != nil {
		return err
	}
	sess.state.Events = events
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "📅 Added: %s on %s %v\n", ev.Title, when.Format("02/01/2006 15:04"), ev.Types)
	return nil
}

func runEventList(cmd *cobra.Command, args []string) error {
	period, err := studio.ParsePeriod(eventPeriod)
	if err != nil {
		return err
	}
	tags, err := parseEventTypes(eventTags)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	events := studio.FilterEvents(sess.state.Events, studio.EventFilter{
		Tags:   tags,
		Period: period,
		Query:  eventSearch,
	}, time.Now())

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(out, "No events found.")
		return nil
	}
	fmt.Fprintln(out)
	for _, ev := range events {
		printEvent(out, ev)
	}
	fmt.Fprintf(out, "\n  %d events\n\n", len(events))
	return nil
}

func printEvent(out io.Writer, ev model.AppEvent) {
	tags := make([]string, len(ev.Types))
	for i, t := range ev.Types {
		tags[i] = string(t)
	}
	fmt.Fprintf(out, "  %-8s  %s  %-30s  [%s]\n", shortID(ev.ID), model.Time(ev.Date).Format("02/01 15:04"), truncate(ev.Title, 30), strings.Join(tags, ", "))
	if ev.Notes != "" {
		fmt.Fprintf(out, "            %s\n", ev.Notes)
	}
}

func runEventDelete(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	id, title := args[0], ""
	for _, ev := range sess.state.Events {
		if ev.ID == id || strings.HasPrefix(ev.ID, id) {
			id, title = ev.ID, ev.Title
			break
		}
	}
	if sess.state.Events, err = studio.DeleteEvent(sess.state.Events, id); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted event: %s\n", title)
	return nil
}

func runCalendar(cmd *cobra.Command, args []string) error {
	day := time.Now()
	if len(args) == 1 {
		var err error
		if day, err = parseDate(args[0], day); err != nil {
			return err
		}
	}
	if calendarDays < 1 {
		calendarDays = 1
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	for i := 0; i < calendarDays; i++ {
		agenda := studio.Deadlines(sess.state.Projects, sess.state.Events, day.AddDate(0, 0, i))
		fmt.Fprintf(out, "  %s\n", agenda.Day.Format("Mon 02/01/2006"))
		if len(agenda.Deadlines) == 0 && len(agenda.Events) == 0 {
			fmt.Fprintln(out, "    —")
		}
		for _, p := range agenda.Deadlines {
			fmt.Fprintf(out, "    🎯 %s (%s) %d%%\n", p.Name, p.Subject, p.Progress)
		}
		for _, ev := range agenda.Events {
			fmt.Fprintf(out, "    • %s %s\n", model.Time(ev.Date).Format("15:04"), ev.Title)
		}
		fmt.Fprintln(out)
	}
	return nil
}
