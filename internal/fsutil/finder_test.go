package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	// Arrange
	root := t.TempDir()
	for _, name := range []string{"b.tami", "a.tami", "setup.tami", "notes.txt", "rooms/cellar.tami"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	// Act
	files, err := FindFilesByExtension(root, ".tami", filepath.Join(root, "setup.tami"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.tami"),
		filepath.Join(root, "b.tami"),
		filepath.Join(root, "rooms", "cellar.tami"),
	}, files)
}

func TestFindFilesByExtension_MissingRoot(t *testing.T) {
	_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "nope"), ".tami")

	assert.Error(t, err)
}
