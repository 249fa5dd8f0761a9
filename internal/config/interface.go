package config

import "context"

// ProjectFile is the file name a Loader looks for when given a directory.
const ProjectFile = "tami.hcl"

// Loader is the interface for a format-specific project loader.
type Loader interface {
	// Load reads the project at path, which is either a project file or a
	// directory. A directory without a project file yields Default() rooted
	// at that directory.
	Load(ctx context.Context, path string) (*Project, error)
}
