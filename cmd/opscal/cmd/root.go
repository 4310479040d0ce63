package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theakshaypant/opscal/internal/adapter/merged"
	"github.com/theakshaypant/opscal/internal/adapter/portal"
	"github.com/theakshaypant/opscal/internal/calendar"
	"github.com/theakshaypant/opscal/internal/core"
	"github.com/theakshaypant/opscal/internal/logging"
	"github.com/theakshaypant/opscal/internal/storage"
)

var (
	cfgFile string
	profile string

	log      = logrus.NewEntry(logrus.StandardLogger())
	closeLog = func() error { return nil }
	ctrl     *calendar.Controller
	provider core.Provider
	meetings core.MeetingSource
)

var rootCmd = &cobra.Command{
	Use:   "opscal",
	Short: "Maintenance windows, releases, sprints and requests in your terminal",
	Long: `opscal shows the operations calendar (maintenance windows, code freezes and
releases, sprint schedules, request milestones) as a month, week, day or
agenda view. Meetings from Google, Outlook or an ICS feed can be merged in.

Run without a subcommand to print the current view, or 'opscal ui' to browse
interactively.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: func(*cobra.Command, []string) error { return closeLog() },
	RunE:               runShow,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/opscal/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "config profile to use (e.g., prod, staging)")

	rootCmd.PersistentFlags().String("endpoint", "", "Events API URL")
	rootCmd.PersistentFlags().String("api-token", "", "Bearer token for the events API")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP timeout per fetch (0 = none)")
	rootCmd.PersistentFlags().String("state-file", "", "File remembering the last view (default is $HOME/.config/opscal/state.yaml)")
	rootCmd.PersistentFlags().StringP("types", "t", "", "Comma-separated event types to show (default: all)")
	rootCmd.PersistentFlags().StringP("view", "v", "", "View to open: month, week, day or agenda (default: last used)")
	rootCmd.PersistentFlags().String("date", "", "Date to open on (YYYY-MM-DD, 'today', 'tomorrow', 'monday', etc.)")
	rootCmd.PersistentFlags().String("log-file", "", "Write JSON logs to this file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	for _, key := range flagKeys {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flagName(key)))
	}
}

// flagKeys are the config keys that have a persistent flag of the same
// name with dashes.
var flagKeys = []string{
	"endpoint",
	"api_token",
	"timeout",
	"state_file",
	"types",
	"view",
	"date",
	"log_file",
	"log_level",
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("OPSCAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("timeout", time.Duration(0))
	viper.SetDefault("log_level", "info")
	viper.SetDefault("meetings.credentials_file", "credentials.json")
	viper.SetDefault("meetings.token_file", "token.json")
	viper.SetDefault("meetings.tenant_id", "common")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	applyProfile()
}

// profileKeys lists the settings a profile may override.
var profileKeys = append([]string{
	"meetings.provider",
	"meetings.credentials_file",
	"meetings.token_file",
	"meetings.client_id",
	"meetings.tenant_id",
	"meetings.ics_url",
	"meetings.calendars",
	"meetings.color",
}, flagKeys...)

// applyProfile merges profile-specific settings over the file values,
// unless the user set the same thing with a flag.
func applyProfile() {
	activeProfile := profile
	if activeProfile == "" {
		activeProfile = viper.GetString("default_profile")
	}
	if activeProfile == "" {
		return
	}

	profileKey := "profiles." + activeProfile
	if !viper.IsSet(profileKey) {
		fmt.Fprintf(os.Stderr, "Warning: profile '%s' not found in config\n", activeProfile)
		return
	}
	fmt.Fprintf(os.Stderr, "Using profile: %s\n", activeProfile)

	for _, key := range profileKeys {
		profileSettingKey := profileKey + "." + key
		if viper.IsSet(profileSettingKey) && !isFlagExplicitlySet(key) {
			viper.Set(key, viper.Get(profileSettingKey))
		}
	}
}

func isFlagExplicitlySet(viperKey string) bool {
	f := rootCmd.PersistentFlags().Lookup(flagName(viperKey))
	return f != nil && f.Changed
}

// setup builds logging, the events provider and the calendar controller
// for commands that show the calendar.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "profile" ||
		cmd.Parent() != nil && cmd.Parent().Name() == "profile" {
		return nil
	}

	entry, closer, err := logging.New(logOptions(cmd.Name() == "ui"))
	if err != nil {
		return err
	}
	log, closeLog = entry, closer

	meetings, err = newMeetingSource()
	if cmd.Name() == "auth" || cmd.Name() == "sources" {
		return err
	}
	if err != nil {
		log.WithError(err).Warn("meeting source not available, showing portal events only")
		meetings = nil
	}

	provider, err = buildProvider(cmd)
	if err != nil {
		return err
	}
	ctrl, err = buildController(time.Now())
	return err
}

// logOptions sends CLI logs to stderr as text. The TUI owns the screen, so
// it logs JSON to log_file or nowhere.
func logOptions(interactive bool) logging.Options {
	opts := logging.Options{
		Level: viper.GetString("log_level"),
		File:  expandPath(viper.GetString("log_file")),
	}
	if interactive && opts.File == "" {
		opts.Discard = true
	}
	return opts
}

func buildProvider(cmd *cobra.Command) (core.Provider, error) {
	client, err := portal.New(portal.Config{
		Endpoint: viper.GetString("endpoint"),
		APIToken: viper.GetString("api_token"),
		Timeout:  viper.GetDuration("timeout"),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("%w\n\nSet 'endpoint' in %s or pass --endpoint", err, getConfigPath())
	}
	if meetings == nil {
		return client, nil
	}
	if err := meetings.Login(cmd.Context()); err != nil {
		log.WithError(err).WithField("provider", meetings.ID()).Warn("meeting source login failed, showing portal events only")
		return client, nil
	}
	return merged.New(client, log, meetings), nil
}

// buildController restores the saved view and applies --types, --view and
// --date on top.
func buildController(now time.Time) (*calendar.Controller, error) {
	opts := []calendar.Option{calendar.WithLogger(log)}

	if types := stringList("types"); len(types) > 0 {
		opts = append(opts, calendar.WithFilters(core.ParseEventTypes(strings.Join(types, ","))...))
	}
	if v := viper.GetString("view"); v != "" {
		view, err := core.ParseView(v)
		if err != nil {
			return nil, fmt.Errorf("--view: %w", err)
		}
		opts = append(opts, calendar.WithView(view))
	}
	if s := viper.GetString("date"); s != "" {
		d, err := parseDate(s, now)
		if err != nil {
			return nil, err
		}
		opts = append(opts, calendar.WithAnchor(d))
	}

	statePath := expandPath(viper.GetString("state_file"))
	if statePath == "" {
		statePath = storage.DefaultStatePath()
	}
	return calendar.NewController(storage.NewFilePrefs(statePath), opts...), nil
}

// stringList reads a setting given either as a YAML list or a
// comma-separated string.
func stringList(key string) []string {
	var out []string
	for _, v := range viper.GetStringSlice(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseDate parses a date string in various formats.
// Supports: YYYY-MM-DD, MM-DD, MM/DD, MM/DD/YYYY, "today", "tomorrow",
// "yesterday" and weekday names ("friday", "next monday").
func parseDate(s string, now time.Time) (core.Date, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := core.DateOf(now)

	switch s {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}

	weekdays := map[string]time.Weekday{
		"sunday": time.Sunday, "sun": time.Sunday,
		"monday": time.Monday, "mon": time.Monday,
		"tuesday": time.Tuesday, "tue": time.Tuesday,
		"wednesday": time.Wednesday, "wed": time.Wednesday,
		"thursday": time.Thursday, "thu": time.Thursday,
		"friday": time.Friday, "fri": time.Friday,
		"saturday": time.Saturday, "sat": time.Saturday,
	}
	if wd, ok := weekdays[strings.TrimPrefix(s, "next ")]; ok {
		daysUntil := int(wd - today.Weekday())
		if daysUntil <= 0 {
			daysUntil += 7
		}
		return today.AddDays(daysUntil), nil
	}

	if d, err := core.ParseDate(s); err == nil {
		return d, nil
	}
	for _, layout := range []string{"01-02", "01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return core.NewDate(now.Year(), t.Month(), t.Day()), nil
		}
	}
	if t, err := time.Parse("01/02/2006", s); err == nil {
		return core.DateOf(t), nil
	}

	return core.Date{}, fmt.Errorf("unable to parse date: %s (use YYYY-MM-DD, 'today', 'tomorrow', or weekday names)", s)
}

func configDir() string {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	return filepath.Join(home, ".config", "opscal")
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
