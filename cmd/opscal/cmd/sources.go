package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:     "sources",
	Aliases: []string{"calendars", "cals"},
	Short:   "List meeting calendars",
	Long: `List the calendars of the configured meeting source (meetings.provider).

Put names or IDs under meetings.calendars to limit which ones are merged in.`,
	RunE: runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if meetings == nil {
		return fmt.Errorf("no meeting source configured\n\nSet meetings.provider to google, outlook or ics")
	}
	if err := meetings.Login(cmd.Context()); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	calendars := meetings.Calendars()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "📅 %s calendars:\n", meetings.Name())
	fmt.Fprintln(out, rule)
	for _, id := range slices.Sorted(maps.Keys(calendars)) {
		fmt.Fprintf(out, "\n  • %s\n", calendars[id])
		fmt.Fprintf(out, "    ID: %s\n", id)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total: %d calendars\n", len(calendars))
	return nil
}
