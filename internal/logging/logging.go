// Package logging builds the logrus logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

type Options struct {
	// Level is a logrus level name; empty means info.
	Level string
	// File receives JSON logs when set. Otherwise text goes to Output.
	File string
	// Output defaults to os.Stderr.
	Output io.Writer
	// Discard silences logging entirely (used by the TUI without a log file).
	Discard bool
}

// New returns an entry tagged component=opscal and a close func for the
// log file, if one was opened.
func New(opts Options) (*logrus.Entry, func() error, error) {
	logger := logrus.New()
	closer := func() error { return nil }

	level := logrus.InfoLevel
	if opts.Level != "" {
		l, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, closer, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	logger.SetLevel(level)

	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, closer, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		logger.SetOutput(f)
		logger.SetFormatter(&logrus.JSONFormatter{})
		closer = f.Close
	case opts.Discard:
		logger.SetOutput(io.Discard)
	default:
		out := opts.Output
		if out == nil {
			out = os.Stderr
		}
		logger.SetOutput(out)
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	return logger.WithField("component", "opscal"), closer, nil
}
