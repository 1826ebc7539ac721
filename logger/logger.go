// Package logger builds the slog logger used by the command line tool.
package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// ParseLevel maps a level name (debug, info, warn, error) to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, errors.Wrapf(err, "invalid log level %q", name)
	}
	return level, nil
}

// New returns a logger writing to w in the given format ("text" or "json")
// at the given level.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errors.Errorf("unsupported log format %q", format)
	}
}
