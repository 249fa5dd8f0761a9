package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/tamigo/internal/config"
	"github.com/vk/tamigo/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	inR     io.Reader
	logger  *slog.Logger
	config  *Config
	project *config.Project
}

// NewApp is the constructor for the main application. Logs go to logW,
// player-facing output to outW. A project that fails to load is a fatal
// startup error and panics.
func NewApp(outW, logW io.Writer, inR io.Reader, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	project, err := loader.Load(ctx, cfg.ProjectPath)
	if err != nil {
		panic(fmt.Errorf("failed to load project: %w", err))
	}
	applyOverrides(project, cfg)
	if err := project.Validate(); err != nil {
		panic(fmt.Errorf("invalid project settings: %w", err))
	}
	logger.Debug("Project loaded.", "name", project.Name, "root", project.Root)

	return &App{
		outW:    outW,
		inR:     inR,
		logger:  logger,
		config:  cfg,
		project: project,
	}
}

// applyOverrides lets command-line flags win over the project file.
func applyOverrides(p *config.Project, cfg *Config) {
	if cfg.Port > 0 {
		p.Server.Port = cfg.Port
	}
	if cfg.RelayURL != "" {
		p.Relay.URL = cfg.RelayURL
	}
	if cfg.Saves != "" {
		p.Saves.Backend = cfg.Saves
	}
}

// Project returns the loaded project. This is primarily for testing.
func (a *App) Project() *config.Project {
	return a.project
}
