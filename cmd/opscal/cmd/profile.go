package cmd

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage configuration profiles",
	Long: `Manage configuration profiles for different portals and meeting accounts.

Profiles let you switch between, say, the production and staging portals,
each with its own filters and meeting source.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfileShow,
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new profile",
	Long: `Add a new profile from flags.

Example:
  opscal profile add staging --endpoint=https://staging.example.com/api/events/ --types=maintenance,release
  opscal profile add work --meetings-provider=google --token-file=~/.config/opscal/work-token.json`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileAdd,
}

var profileSetDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileSetDefault,
}

// profileFlags maps profile add flags to their config keys.
var profileFlags = map[string]string{
	"endpoint":          "endpoint",
	"api-token":         "api_token",
	"timeout":           "timeout",
	"types":             "types",
	"view":              "view",
	"meetings-provider": "meetings.provider",
	"credentials-file":  "meetings.credentials_file",
	"token-file":        "meetings.token_file",
	"client-id":         "meetings.client_id",
	"tenant-id":         "meetings.tenant_id",
	"ics-url":           "meetings.ics_url",
	"calendars":         "meetings.calendars",
	"meeting-color":     "meetings.color",
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileSetDefaultCmd)

	for _, flag := range slices.Sorted(maps.Keys(profileFlags)) {
		profileAddCmd.Flags().String(flag, "", "Sets "+profileFlags[flag])
	}
}

func runProfileList(cmd *cobra.Command, _ []string) error {
	profiles := viper.GetStringMap("profiles")
	defaultProfile := viper.GetString("default_profile")
	out := cmd.OutOrStdout()

	if len(profiles) == 0 {
		fmt.Fprintln(out, "No profiles configured.")
		fmt.Fprintln(out, "\nAdd one with: opscal profile add <name> --endpoint=<url>")
		return nil
	}

	fmt.Fprintln(out, "Available profiles:")
	fmt.Fprintln(out, rule)
	for _, name := range slices.Sorted(maps.Keys(profiles)) {
		marker := "  "
		if name == defaultProfile {
			marker = "* "
		}
		fmt.Fprintf(out, "%s%s\n", marker, name)
	}
	fmt.Fprintln(out, rule)
	if defaultProfile != "" {
		fmt.Fprintf(out, "Default: %s\n", defaultProfile)
	}
	fmt.Fprintln(out, "\nUse 'opscal profile show <name>' for details")
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	var profileName string
	if len(args) > 0 {
		profileName = args[0]
	} else {
		profileName = viper.GetString("default_profile")
		if profileName == "" {
			return fmt.Errorf("no profile specified and no default profile set")
		}
	}

	profileKey := "profiles." + profileName
	if !viper.IsSet(profileKey) {
		return fmt.Errorf("profile '%s' not found", profileName)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Profile: %s\n", profileName)
	if profileName == viper.GetString("default_profile") {
		fmt.Fprintln(out, "(default)")
	}
	fmt.Fprintln(out, rule)

	sections := []struct {
		title string
		keys  []string
	}{
		{"🌐 Portal:", []string{"endpoint", "api_token", "timeout"}},
		{"🗓️  Calendar:", []string{"types", "view", "state_file"}},
		{"📹 Meetings:", []string{
			"meetings.provider", "meetings.credentials_file", "meetings.token_file",
			"meetings.client_id", "meetings.tenant_id", "meetings.ics_url",
			"meetings.calendars", "meetings.color",
		}},
	}
	for _, s := range sections {
		fmt.Fprintf(out, "\n%s\n", s.title)
		for _, key := range s.keys {
			if !viper.IsSet(profileKey + "." + key) {
				continue
			}
			val := viper.Get(profileKey + "." + key)
			if key == "api_token" {
				val = "********"
			}
			fmt.Fprintf(out, "  %s: %v\n", key, val)
		}
	}
	fmt.Fprintln(out)
	return nil
}

func runProfileAdd(cmd *cobra.Command, args []string) error {
	profileName := args[0]

	if viper.IsSet("profiles." + profileName) {
		return fmt.Errorf("profile '%s' already exists", profileName)
	}

	profile := make(map[string]interface{})
	for flag, key := range profileFlags {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		val, _ := cmd.Flags().GetString(flag)
		setNested(profile, key, val)
	}

	if err := saveProfileToConfig(profileName, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Profile '%s' created\n", profileName)
	fmt.Fprintf(out, "\nUse it with: opscal -p %s\n", profileName)
	fmt.Fprintf(out, "Set as default: opscal profile default %s\n", profileName)
	return nil
}

func runProfileSetDefault(cmd *cobra.Command, args []string) error {
	profileName := args[0]

	if !viper.IsSet("profiles." + profileName) {
		return fmt.Errorf("profile '%s' not found", profileName)
	}
	if err := setDefaultProfileInConfig(profileName); err != nil {
		return fmt.Errorf("failed to set default profile: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Default profile set to '%s'\n", profileName)
	return nil
}

// setNested stores val under a dotted key ("meetings.provider").
func setNested(m map[string]interface{}, key, val string) {
	for {
		head, rest, found := strings.Cut(key, ".")
		if !found {
			m[key] = val
			return
		}
		child, ok := m[head].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			m[head] = child
		}
		m, key = child, rest
	}
}

// Config file manipulation functions

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(configDir(), "config.yaml")
}

func readConfigFile() (map[string]interface{}, error) {
	data, err := os.ReadFile(getConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]interface{}), nil
		}
		return nil, err
	}

	var config map[string]interface{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	if config == nil {
		config = make(map[string]interface{})
	}
	return config, nil
}

func writeConfigFile(config map[string]interface{}) error {
	configPath := getConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0600)
}

func saveProfileToConfig(name string, profile map[string]interface{}) error {
	config, err := readConfigFile()
	if err != nil {
		return err
	}

	profiles, ok := config["profiles"].(map[string]interface{})
	if !ok {
		profiles = make(map[string]interface{})
	}
	profiles[name] = profile
	config["profiles"] = profiles

	return writeConfigFile(config)
}

func setDefaultProfileInConfig(name string) error {
	config, err := readConfigFile()
	if err != nil {
		return err
	}
	config["default_profile"] = name
	return writeConfigFile(config)
}
