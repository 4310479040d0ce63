package outlook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/oauth2"
)

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}

// defaultCalendar selects the mailbox's primary calendar view.
const defaultCalendar = "default"

// pickCalendars returns the selected IDs that exist on the account, or every
// calendar (sorted) when nothing is selected.
func pickCalendars(all map[string]string, selected []string) []string {
	if len(selected) > 0 {
		var ids []string
		for _, id := range selected {
			if _, ok := all[id]; ok || id == defaultCalendar {
				ids = append(ids, id)
			}
		}
		return ids
	}
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
