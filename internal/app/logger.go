package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func parseLogLevel(s string) (slog.Level, error) {
	level, ok := logLevels[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", s)
	}
	return level, nil
}

func checkLogFormat(s string) error {
	switch s {
	case LogFormatText, LogFormatJSON:
		return nil
	}
	return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", s)
}

// newLogger builds the logger described by a validated Config. Debug
// records carry their source position. It does not set the global logger.
func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.LogFormat == LogFormatJSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler).With("mode", cfg.Mode)
}
