package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theakshaypant/opscal/internal/core"
)

func TestFilePrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	p := NewFilePrefs(path)

	if _, ok, err := p.LoadView(); ok || err != nil {
		t.Fatalf("LoadView on missing file = %v, %v", ok, err)
	}
	for _, v := range core.Views() {
		if err := p.SaveView(v); err != nil {
			t.Fatalf("SaveView(%s) error = %v", v, err)
		}
		got, ok, err := p.LoadView()
		if err != nil || !ok || got != v {
			t.Fatalf("LoadView after saving %s = %s, %v, %v", v, got, ok, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "calendar_view: agenda" {
		t.Fatalf("state file = %q", data)
	}
}

func TestFilePrefsLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantOK  bool
		wantErr bool
	}{
		{"empty file", "", false, false},
		{"other keys only", "theme: dark\n", false, false},
		{"unknown view", "calendar_view: year\n", false, true},
		{"not yaml", "calendar_view: [\n", false, true},
		{"valid", "calendar_view: week\n", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "state.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, ok, err := NewFilePrefs(path).LoadView()
			if ok != tt.wantOK || (err != nil) != tt.wantErr {
				t.Fatalf("LoadView() = ok %v, err %v", ok, err)
			}
		})
	}
}
