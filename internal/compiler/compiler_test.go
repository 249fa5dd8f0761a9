package compiler

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tamigo/internal/diag"
	"github.com/vk/tamigo/internal/program"
	"github.com/vk/tamigo/internal/testutil"
	"github.com/vk/tamigo/internal/vm"
)

func TestCompileDir(t *testing.T) {
	// Arrange
	ctx, logs := testutil.LogContext(t)
	dir := testutil.WriteProject(t, map[string]string{
		"b_rooms.tami": `
			[hall]
				A long hall.
				jump start
				Never.
		`,
		"a_main.tami": `
			[start]
				gold = 1
				Go to the [hall].
		`,
		"setup.tami": `
			gold = 5
			jump hall
		`,
		"notes.txt": "ignored",
	})

	// Act
	art, err := CompileDir(ctx, dir, "setup.tami", Options{})

	// Assert
	require.NoError(t, err)
	first := art.Program.At(0).(program.Label)
	assert.Equal(t, "start", first.Name)
	assert.Equal(t, "a_main.tami", first.Position().File)
	_, ok := art.Program.Label("hall")
	assert.True(t, ok)
	require.Len(t, art.Setup, 2)
	assert.Equal(t, "setup.tami", art.Setup[0].Position().File)
	require.Len(t, art.Report.Unreachable, 1)
	assert.Equal(t, "b_rooms.tami", art.Report.Unreachable[0].File)
	assert.Contains(t, logs.String(), "Unreachable code.")
}

func TestCompileDir_WithoutSetupFile(t *testing.T) {
	dir := testutil.WriteProject(t, map[string]string{
		"main.tami": "[start]\n\thello",
	})

	art, err := CompileDir(context.Background(), dir, "setup.tami", Options{})

	require.NoError(t, err)
	assert.Nil(t, art.Setup)
}

func TestCompile_MenusOnTheSameLineInDifferentFiles(t *testing.T) {
	// Arrange
	sources := []Source{
		{Name: "a.tami", Text: "[start]\n\t+ Go:\n\t\tjump room\n"},
		{Name: "b.tami", Text: "[room]\n\t+ Stay:\n\t\tYou stay.\n"},
	}
	art, err := Compile(context.Background(), sources, nil, Options{})
	require.NoError(t, err)
	ctx := context.Background()
	m := vm.New(art.Program, vm.Options{Sink: &testutil.Recorder{}})
	require.NoError(t, m.Run(ctx))
	require.Equal(t, vm.AwaitingMenuChoice, m.Status())

	// Act
	err = m.ChooseMenu(ctx, 0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, vm.AwaitingMenuChoice, m.Status(), "the second file's menu is presented")
	menu := m.View().Menu
	require.Len(t, menu, 1)
	assert.Equal(t, "Stay", menu[0].Title)
}

func TestCompile_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		main   string
		setup  string
		kind   diag.Kind
		code   string
		inFile string
	}{
		{
			name:   "syntax",
			main:   "[start]\n\tx = 1\n\tif x +:\n\t\thello",
			kind:   diag.Syntax,
			code:   diag.CodeLowStack,
			inFile: "main.tami",
		},
		{
			name: "analysis",
			main: "[hall]\n\thello",
			kind: diag.Analyze,
			code: diag.CodeNoEntryPointFound,
		},
		{
			name:   "setup call",
			main:   "[start]\n\thello",
			setup:  "call start",
			kind:   diag.Analyze,
			code:   diag.CodeCallIsNotAllowedInSetup,
			inFile: "setup.tami",
		},
		{
			name:   "setup syntax",
			main:   "[start]\n\thello",
			setup:  "\tgold = 1",
			kind:   diag.Syntax,
			code:   diag.CodeNonZeroIndentation,
			inFile: "setup.tami",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var setup *Source
			if tc.setup != "" {
				setup = &Source{Name: "setup.tami", Text: tc.setup}
			}

			// Act
			_, err := Compile(context.Background(), []Source{{Name: "main.tami", Text: tc.main}}, setup, Options{})

			// Assert
			testutil.RequireCode(t, err, tc.kind, tc.code)
			var e *diag.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tc.inFile, e.File)
		})
	}
}

func TestDiscover_NoScripts(t *testing.T) {
	dir := testutil.WriteProject(t, map[string]string{"readme.md": "x"})

	_, _, err := Discover(dir, "")

	assert.ErrorContains(t, err, "no .tami scripts")
}

func TestFromProgramFile(t *testing.T) {
	// Arrange
	ctx := context.Background()
	src := []Source{{Name: "main.tami", Text: "[start]\n\tgold is [:gold:]\n\t+{key}\n"}}
	built, err := Compile(ctx, src, nil, Options{})
	require.NoError(t, err)
	data, err := program.Encode(built.Program.Instructions())
	require.NoError(t, err)
	dir := testutil.WriteProject(t, map[string]string{
		"game.json":  string(data),
		"setup.tami": "gold = 7\njump start\n",
	})

	// Act
	art, err := FromProgramFile(ctx, filepath.Join(dir, "game.json"), dir, "setup.tami", Options{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, built.Program.Instructions(), art.Program.Instructions())
	require.Len(t, art.Setup, 2)
	assert.Equal(t, built.Report, art.Report)
}

func TestFromProgram_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		data        string
		errContains string
		code        string
	}{
		{name: "not a program", data: "{", errContains: "decoding program"},
		{name: "no entry point", data: `[{"op": 3, "a": "hall", "b": "Hall"}]`, code: diag.CodeNoEntryPointFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			_, err := FromProgram(context.Background(), []byte(tc.data), nil, Options{})

			// Assert
			if tc.code != "" {
				testutil.RequireCode(t, err, diag.Analyze, tc.code)
				return
			}
			assert.ErrorContains(t, err, tc.errContains)
		})
	}
}

func TestFromProgramFile_MissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := FromProgramFile(context.Background(), filepath.Join(dir, "nope.json"), dir, "", Options{})

	assert.ErrorContains(t, err, "reading program")
}
