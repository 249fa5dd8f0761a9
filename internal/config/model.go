package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/vk/tamigo/internal/analyzer"
	"github.com/vk/tamigo/internal/vm"
)

// Project is the unified representation of a game project.
type Project struct {
	Name  string
	Title string
	// Root is the directory the project file lives in. Relative paths are
	// resolved against it.
	Root string
	// Scripts is the directory holding the .tami files.
	Scripts string
	// Setup is the setup script, relative to Scripts. Empty disables it.
	Setup string

	Parser  Parser
	Runtime Runtime
	Saves   Saves
	Server  Server
	Relay   Relay
}

// Parser holds the script dialect settings.
type Parser struct {
	IndentSpaces    int
	CommentCommands bool
}

// Runtime holds interpreter settings.
type Runtime struct {
	LoopProtection      int
	Duplication         string
	CombineOrderMatters bool
	// Overrides are assigned after the setup script runs.
	Overrides map[string]int64
}

// Saves selects the save slot backend. Path is a directory for "file", a
// database file for "sqlite" and a DSN for "mysql" and "postgres".
type Saves struct {
	Backend string
	Path    string
}

// Server configures the websocket server.
type Server struct {
	Port int
}

// Relay configures the socket.io relay client.
type Relay struct {
	URL       string
	Namespace string
	Event     string
	Input     string
}

// Save backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
)

// Default returns a project with every setting at its default, rooted at
// the current directory.
func Default() *Project {
	return &Project{
		Name:    "tami",
		Root:    ".",
		Scripts: ".",
		Setup:   "setup.tami",
		Parser:  Parser{IndentSpaces: 4},
		Runtime: Runtime{
			LoopProtection: vm.DefaultLoopProtection,
			Duplication:    "last_line",
		},
		Saves:  Saves{Backend: BackendFile, Path: "saves"},
		Server: Server{Port: 8080},
		Relay: Relay{
			Namespace: "/",
			Event:     "tami:event",
			Input:     "tami:input",
		},
	}
}

// Validate reports every invalid setting.
func (p *Project) Validate() error {
	var errs []error
	if p.Parser.IndentSpaces <= 0 {
		errs = append(errs, fmt.Errorf("parser.indent_spaces must be positive, got %d", p.Parser.IndentSpaces))
	}
	if p.Runtime.LoopProtection <= 0 {
		errs = append(errs, fmt.Errorf("runtime.loop_protection must be positive, got %d", p.Runtime.LoopProtection))
	}
	if _, err := vm.ParseDuplication(p.Runtime.Duplication); err != nil {
		errs = append(errs, fmt.Errorf("runtime.duplication: %w", err))
	}
	for name := range p.Runtime.Overrides {
		if analyzer.IsReadOnly(name) {
			errs = append(errs, fmt.Errorf("runtime.overrides: variable %q is read-only", name))
		}
	}
	switch p.Saves.Backend {
	case BackendMemory:
	case BackendFile, BackendSQLite, BackendMySQL, BackendPostgres:
		if p.Saves.Path == "" {
			errs = append(errs, fmt.Errorf("saves.path is required for the %s backend", p.Saves.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("saves.backend %q is not one of memory, file, sqlite, mysql, postgres", p.Saves.Backend))
	}
	if p.Server.Port < 0 || p.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", p.Server.Port))
	}
	return errors.Join(errs...)
}

// ScriptsDir returns the scripts directory resolved against Root.
func (p *Project) ScriptsDir() string {
	return p.resolve(p.Scripts)
}

// SavesLocation returns Saves.Path, resolved against Root for the file
// based backends.
func (p *Project) SavesLocation() string {
	switch p.Saves.Backend {
	case BackendFile, BackendSQLite:
		return p.resolve(p.Saves.Path)
	}
	return p.Saves.Path
}

func (p *Project) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}
