package hcl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/tamigo/internal/config"
	"github.com/vk/tamigo/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL project loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a project file, or the tami.hcl inside a directory, on top of
// config.Default(). The result is validated.
func (l *Loader) Load(ctx context.Context, path string) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)

	file, root, err := locate(path)
	if err != nil {
		return nil, err
	}

	project := config.Default()
	project.Root = root
	if file == "" {
		logger.Debug("No project file found, using defaults.", "root", root)
		return project, project.Validate()
	}
	logger.Debug("HCL loader started.", "file", file)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
	}

	var doc fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &doc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	if err := l.apply(ctx, project, &doc); err != nil {
		return nil, fmt.Errorf("invalid project file %s: %w", file, err)
	}
	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project file %s: %w", file, err)
	}

	logger.Debug("HCL loading complete.", "project", project.Name, "scripts", project.ScriptsDir())
	return project, nil
}

// locate resolves path to the project file (empty when a directory has
// none) and the project root.
func locate(path string) (file, root string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", "", fmt.Errorf("error accessing path %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, filepath.Dir(path), nil
	}

	candidate := filepath.Join(path, config.ProjectFile)
	if _, err := os.Stat(candidate); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", path, nil
		}
		return "", "", fmt.Errorf("error accessing path %s: %w", candidate, err)
	}
	return candidate, path, nil
}

// apply overlays every attribute present in the file on the defaults.
func (l *Loader) apply(ctx context.Context, p *config.Project, doc *fileRoot) error {
	if b := doc.Project; b != nil {
		p.Name = b.Name
		p.Title = b.Title
		if b.Scripts != "" {
			p.Scripts = b.Scripts
		}
		if b.Setup != nil {
			p.Setup = *b.Setup
		}
	}

	if b := doc.Parser; b != nil {
		if b.IndentSpaces != 0 {
			p.Parser.IndentSpaces = b.IndentSpaces
		}
		p.Parser.CommentCommands = b.CommentCommands
	}

	if b := doc.Runtime; b != nil {
		if b.LoopProtection != 0 {
			p.Runtime.LoopProtection = b.LoopProtection
		}
		if b.Duplication != "" {
			p.Runtime.Duplication = b.Duplication
		}
		p.Runtime.CombineOrderMatters = b.CombineOrderMatters
		overrides, err := decodeOverrides(ctx, b.Overrides)
		if err != nil {
			return fmt.Errorf("failed to decode runtime.overrides: %w", err)
		}
		p.Runtime.Overrides = overrides
	}

	if b := doc.Saves; b != nil {
		if b.Backend != "" {
			p.Saves.Backend = b.Backend
		}
		if b.Path != "" {
			p.Saves.Path = b.Path
		}
	}

	if b := doc.Server; b != nil && b.Port != 0 {
		p.Server.Port = b.Port
	}

	if b := doc.Relay; b != nil {
		p.Relay.URL = b.URL
		if b.Namespace != "" {
			p.Relay.Namespace = b.Namespace
		}
		if b.Event != "" {
			p.Relay.Event = b.Event
		}
		if b.Input != "" {
			p.Relay.Input = b.Input
		}
	}
	return nil
}
