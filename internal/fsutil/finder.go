// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files
// ending with the specified extension. Paths listed in exclude are skipped.
// The result is sorted so callers see a stable order.
func FindFilesByExtension(rootPath string, extension string, exclude ...string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	skip := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		skip[filepath.Clean(p)] = true
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) && !skip[filepath.Clean(path)] {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}
