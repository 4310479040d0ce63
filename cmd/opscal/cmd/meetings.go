package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/theakshaypant/opscal/internal/adapter/google"
	"github.com/theakshaypant/opscal/internal/adapter/ics"
	"github.com/theakshaypant/opscal/internal/adapter/outlook"
	"github.com/theakshaypant/opscal/internal/core"
)

// newMeetingSource builds the meeting source named by meetings.provider,
// or returns nil when none is configured. It does not log in.
func newMeetingSource() (core.MeetingSource, error) {
	switch p := viper.GetString("meetings.provider"); p {
	case "":
		return nil, nil
	case "google":
		return newGoogleSource()
	case "outlook":
		return newOutlookSource()
	case "ics":
		return newICSSource()
	default:
		return nil, fmt.Errorf("unknown meetings provider: %s (supported: google, outlook, ics): %w", p, core.ErrInvalidConfiguration)
	}
}

func meetingColor() string {
	if c := viper.GetString("meetings.color"); c != "" {
		return c
	}
	return core.DefaultColor(core.TypeMeeting)
}

func newGoogleSource() (*google.GoogleAdapter, error) {
	credsFile := expandPath(viper.GetString("meetings.credentials_file"))
	if _, err := os.Stat(credsFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("credentials file not found: %s\n\nDownload an OAuth client for a desktop app from the Google Cloud console", credsFile)
	}
	return google.NewGoogleAdapter(
		"google",
		"Google Calendar",
		credsFile,
		expandPath(viper.GetString("meetings.token_file")),
		meetingColor(),
		stringList("meetings.calendars"),
		log.WithField("provider", "google"),
	), nil
}

func newOutlookSource() (*outlook.OutlookAdapter, error) {
	clientID := viper.GetString("meetings.client_id")
	if clientID == "" {
		return nil, fmt.Errorf("meetings.client_id not configured for Outlook\n\nAdd it to your config:\n  meetings:\n    client_id: \"your-azure-app-client-id\"")
	}
	return outlook.NewOutlookAdapter(
		"outlook",
		"Outlook Calendar",
		clientID,
		viper.GetString("meetings.tenant_id"),
		expandPath(viper.GetString("meetings.token_file")),
		meetingColor(),
		stringList("meetings.calendars"),
		log.WithField("provider", "outlook"),
	), nil
}

func newICSSource() (*ics.ICSAdapter, error) {
	url := viper.GetString("meetings.ics_url")
	if url == "" {
		return nil, fmt.Errorf("meetings.ics_url not configured: %w", core.ErrInvalidConfiguration)
	}
	return ics.NewICSAdapter(
		"ics",
		"ICS feed",
		expandPath(url),
		meetingColor(),
		viper.GetDuration("timeout"),
		log.WithField("provider", "ics"),
	), nil
}
