package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(p *Project)
		errContains string
	}{
		{
			name:        "indent",
			mutate:      func(p *Project) { p.Parser.IndentSpaces = 0 },
			errContains: "parser.indent_spaces",
		},
		{
			name:        "loop protection",
			mutate:      func(p *Project) { p.Runtime.LoopProtection = -1 },
			errContains: "runtime.loop_protection",
		},
		{
			name:        "duplication",
			mutate:      func(p *Project) { p.Runtime.Duplication = "sometimes" },
			errContains: "runtime.duplication",
		},
		{
			name:        "read-only override",
			mutate:      func(p *Project) { p.Runtime.Overrides = map[string]int64{"LOOK": 1} },
			errContains: `"LOOK" is read-only`,
		},
		{
			name:        "unknown backend",
			mutate:      func(p *Project) { p.Saves.Backend = "s3" },
			errContains: "saves.backend",
		},
		{
			name:        "missing saves path",
			mutate:      func(p *Project) { p.Saves = Saves{Backend: BackendPostgres} },
			errContains: "saves.path is required",
		},
		{
			name:        "port",
			mutate:      func(p *Project) { p.Server.Port = 70000 },
			errContains: "server.port",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			p := Default()
			tc.mutate(p)

			// Act
			err := p.Validate()

			// Assert
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestValidate_MemoryBackendNeedsNoPath(t *testing.T) {
	p := Default()
	p.Saves = Saves{Backend: BackendMemory}

	assert.NoError(t, p.Validate())
}

func TestPaths(t *testing.T) {
	p := Default()
	p.Root = filepath.Join("games", "haunted")
	p.Scripts = "script"

	assert.Equal(t, filepath.Join("games", "haunted", "script"), p.ScriptsDir())
	assert.Equal(t, filepath.Join("games", "haunted", "saves"), p.SavesLocation())

	p.Saves = Saves{Backend: BackendPostgres, Path: "postgres://localhost/tami"}
	assert.Equal(t, "postgres://localhost/tami", p.SavesLocation())
}
