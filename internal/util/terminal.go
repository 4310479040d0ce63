package util

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/x/ansi"
)

// MakeHyperlink wraps displayText in an OSC 8 hyperlink to url.
func MakeHyperlink(url, displayText string) string {
	return ansi.SetHyperlink(url) + displayText + ansi.ResetHyperlink()
}

// TruncateText cuts s to maxLen cells, ending with "…". Escape sequences
// in s are kept intact. maxLen <= 0 leaves s unchanged.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 || ansi.StringWidth(s) <= maxLen {
		return s
	}
	return ansi.Truncate(s, maxLen, "…")
}

// BrowserCommand returns the command that opens url with the desktop's
// default handler.
func BrowserCommand(url string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	}
	return nil, fmt.Errorf("opening links is not supported on %s", runtime.GOOS)
}
