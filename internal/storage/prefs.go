// Package storage persists user preferences between sessions.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/theakshaypant/opscal/internal/core"
)

// DefaultStatePath is ~/.config/opscal/state.yaml.
func DefaultStatePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "opscal", "state.yaml")
}

type state struct {
	CalendarView string `yaml:"calendar_view,omitempty"`
}

// FilePrefs keeps the last chosen view in a small YAML file.
// Unknown keys in the file are dropped on the next save.
type FilePrefs struct {
	path string
	mu   sync.Mutex
}

func NewFilePrefs(path string) *FilePrefs {
	if path == "" {
		path = DefaultStatePath()
	}
	return &FilePrefs{path: path}
}

func (p *FilePrefs) Path() string {
	return p.path
}

// LoadView returns the saved view. A missing file or key is (0, false, nil);
// an unparsable file or view name is an error.
func (p *FilePrefs) LoadView() (core.View, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read state file: %w", err)
	}

	var s state
	if err := yaml.Unmarshal(data, &s); err != nil {
		return 0, false, fmt.Errorf("parse state file %s: %w", p.path, err)
	}
	if s.CalendarView == "" {
		return 0, false, nil
	}
	v, err := core.ParseView(s.CalendarView)
	if err != nil {
		return 0, false, fmt.Errorf("state file %s: %w", p.path, err)
	}
	return v, true, nil
}

// SaveView writes v, creating the parent directory when needed.
func (p *FilePrefs) SaveView(v core.View) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := yaml.Marshal(state{CalendarView: v.String()})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return os.Rename(tmp, p.path)
}
