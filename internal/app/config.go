package app

import (
	"errors"
	"fmt"
)

// Run modes.
const (
	ModeCheck = "check"
	ModeBuild = "build"
	ModePlay  = "play"
	ModeServe = "serve"
	ModeRelay = "relay"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProjectPath string // tami.hcl or a directory
	Mode        string

	OutPath string // build output, stdout when empty
	Listing bool   // build a readable listing instead of JSON
	Resume  bool   // play from the newest save slot

	// ProgramPath names a program built with the build mode. When set it
	// is played instead of compiling the project's scripts.
	ProgramPath string

	// Overrides of the project file. Zero values keep the project setting.
	Port     int
	RelayURL string
	Saves    string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults for the mode and logging.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectPath == "" {
		return nil, errors.New("ProjectPath is a required configuration field and cannot be empty")
	}
	switch cfg.Mode {
	case ModeCheck, ModeBuild, ModePlay, ModeServe, ModeRelay:
	case "":
		cfg.Mode = ModePlay
	default:
		return nil, fmt.Errorf("unknown mode %q: must be one of check, build, play, serve, relay", cfg.Mode)
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port %d is out of range", cfg.Port)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = LogFormatText
	}
	if err := checkLogFormat(cfg.LogFormat); err != nil {
		return nil, err
	}
	return &cfg, nil
}
