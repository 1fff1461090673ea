package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// BuildLogger returns a text logger writing to w at the named level.
// An unknown level falls back to INFO and is reported in the returned error.
func BuildLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), err
}

func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q, using INFO", level)
}

func ErrAttr(err error) slog.Attr {
	return slog.Any("error", err)
}
