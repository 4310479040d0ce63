package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/theakshaypant/opscal/internal/core"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next upcoming event",
	Long: `Show detailed information about the next upcoming maintenance window,
release, sprint milestone, request or meeting.

Honors --types. Looks ahead --days days from today.`,
	RunE: runNext,
}

func init() {
	rootCmd.AddCommand(nextCmd)
	nextCmd.Flags().IntP("days", "n", 30, "Number of days to look ahead")
	nextCmd.Flags().Bool("no-allday", false, "Skip all-day events")
}

func runNext(cmd *cobra.Command, _ []string) error {
	days, _ := cmd.Flags().GetInt("days")
	noAllDay, _ := cmd.Flags().GetBool("no-allday")
	if days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}

	now := time.Now()
	today := core.DateOf(now)
	opts := core.FetchOptions{
		Start:     today,
		End:       today.AddDays(days - 1),
		Types:     ctrl.State().Filters.Types(),
		RequestID: uuid.NewString(),
	}
	log.WithField("request_id", opts.RequestID).Debug("fetching upcoming events")

	events, err := provider.FetchEvents(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	upcoming := nextEvents(events, now, noAllDay)
	printNext(cmd.OutOrStdout(), upcoming, now)
	return nil
}

// nextEvents returns the earliest-starting events that are in progress or
// yet to start. Several are returned when they share the start time.
// events must be sorted by start.
func nextEvents(events []core.Event, now time.Time, noAllDay bool) []core.Event {
	var eligible []core.Event
	for _, e := range events {
		if noAllDay && e.AllDay {
			continue
		}
		if e.Start.After(now) || (e.InProgress(now) && !e.AllDay) {
			eligible = append(eligible, e)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	nextStart := eligible[0].Start
	var concurrent []core.Event
	for _, e := range eligible {
		if !e.Start.Equal(nextStart) {
			break
		}
		concurrent = append(concurrent, e)
	}
	return concurrent
}

func printNext(w io.Writer, events []core.Event, now time.Time) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No upcoming events found.")
		return
	}

	first := events[0]
	fmt.Fprintln(w, rule)
	if len(events) > 1 {
		fmt.Fprintf(w, "  ⚠️  %d EVENTS AT THE SAME TIME\n", len(events))
	}
	if first.InProgress(now) {
		fmt.Fprintf(w, "  🟢 IN PROGRESS - %s remaining\n", formatDurationCompact(first.End.Sub(now)))
	} else {
		fmt.Fprintf(w, "  ⏳ STARTS IN: %s\n", formatCountdown(first.Start.Sub(now)))
	}
	fmt.Fprintln(w, rule)

	for i, e := range events {
		fmt.Fprintln(w)
		if len(events) > 1 {
			fmt.Fprintf(w, "  EVENT %d of %d\n", i+1, len(events))
		}
		printEventDetail(w, e)
	}
	fmt.Fprintln(w)
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		return "NOW"
	}
	if d < time.Minute {
		return "less than a minute"
	}
	return formatDurationCompact(d)
}
