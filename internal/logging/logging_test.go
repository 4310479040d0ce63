package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log, closeLog, err := New(Options{Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closeLog()

	log.WithField("view", "month").Debug("rendering")
	out := buf.String()
	for _, want := range []string{"component=opscal", "view=month", "msg=rendering"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

func TestNewLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written at default level: %q", buf.String())
	}
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("New() accepted an unknown level")
	}
}

func TestNewJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "opscal.log")
	log, closeLog, err := New(Options{File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.WithField("request_id", "abc").Warn("fetch failed")
	if err := closeLog(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var line map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(data), &line); err != nil {
		t.Fatalf("log file is not JSON: %v (%q)", err, data)
	}
	if line["component"] != "opscal" || line["request_id"] != "abc" || line["level"] != "warning" {
		t.Fatalf("unexpected entry %v", line)
	}
}
