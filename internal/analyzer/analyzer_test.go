package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tamigo/internal/diag"
	"github.com/vk/tamigo/internal/parser"
	"github.com/vk/tamigo/internal/program"
)

func compile(t *testing.T, lines ...string) []program.Instruction {
	t.Helper()
	instrs, err := parser.Parser{}.Parse(context.Background(), "main.tami", strings.Join(lines, "\n"))
	require.NoError(t, err)
	return instrs
}

func TestAnalyze_Report(t *testing.T) {
	// Arrange
	instrs := compile(t,
		"[start]",
		"    character bob = Bob",
		"    character ann = Ann",
		"    bob: Hi.",
		"    gold = 1",
		"    spare = 2",
		"    +{key}",
		"    +{coin}",
		"    if gold > 0 && {key} && LOOK:",
		"        Look at the [chest].",
		"    jump hall",
		"[hall (Hall)]",
		"    Empty.",
		"[unused]",
		"    Nobody comes here.",
		"> chest:",
		"    It is locked.",
	)

	// Act
	report, err := Analyze(context.Background(), instrs)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "start", Used: true, File: "main.tami", Line: 0, IsLocation: true},
		{Name: "hall", Used: true, File: "main.tami", Line: 11, IsLocation: true},
		{Name: "unused", Used: false, File: "main.tami", Line: 13, IsLocation: true},
		{Name: "chest", Used: true, File: "main.tami", Line: 15},
	}, report.Locations)
	assert.Equal(t, []Entry{
		{Name: "gold", Used: true, File: "main.tami", Line: 4},
		{Name: "spare", Used: false, File: "main.tami", Line: 5},
	}, report.Variables)
	assert.Equal(t, []Entry{
		{Name: "key", Used: true, File: "main.tami", Line: 6},
		{Name: "coin", Used: false, File: "main.tami", Line: 7},
	}, report.Items)
	assert.Equal(t, []Entry{
		{Name: "bob", Used: true, File: "main.tami", Line: 1},
		{Name: "ann", Used: false, File: "main.tami", Line: 2},
	}, report.Characters)
	assert.Empty(t, report.Unreachable)
}

func TestAnalyze_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		lines []string
		code  string
	}{
		{
			name:  "assigning action",
			lines: []string{"[start]", "    action = 1"},
			code:  diag.CodeVariableIsReadOnly,
		},
		{
			name:  "assigning LOOK",
			lines: []string{"[start]", "    LOOK = 0"},
			code:  diag.CodeVariableIsReadOnly,
		},
		{
			name:  "reading an unassigned variable",
			lines: []string{"[start]", "    if ghost:", "        Boo."},
			code:  diag.CodeUnknownVariable,
		},
		{
			name:  "item never added",
			lines: []string{"[start]", "    x = {sword}"},
			code:  diag.CodeUnknownItem,
		},
		{
			name:  "removing an item never added",
			lines: []string{"[start]", "    -{sword}"},
			code:  diag.CodeUnknownItem,
		},
		{
			name:  "character declared twice",
			lines: []string{"[start]", "    character bob = Bob", "    character bob = Robert"},
			code:  diag.CodeRedefinedCharacter,
		},
		{
			name:  "undeclared speaker",
			lines: []string{"[start]", "    eve: Hello."},
			code:  diag.CodeUnknownCharacter,
		},
		{
			name:  "two kitchens",
			lines: []string{"[start]", "    x", "[kitchen]", "    a", "[kitchen]", "    b"},
			code:  diag.CodeRedefined,
		},
		{
			name:  "no start label",
			lines: []string{"[hall]", "    x"},
			code:  diag.CodeNoEntryPointFound,
		},
		{
			name:  "link to missing action",
			lines: []string{"[start]", "    Open the [box]."},
			code:  diag.CodeUnknownAction,
		},
		{
			name:  "jump to missing label",
			lines: []string{"[start]", "    jump nowhere"},
			code:  diag.CodeUnknownDestination,
		},
		{
			name:  "call to missing label",
			lines: []string{"[start]", "    call nowhere"},
			code:  diag.CodeUnknownDestination,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			instrs := compile(t, tc.lines...)

			// Act
			_, err := Analyze(context.Background(), instrs)

			// Assert
			require.Error(t, err)
			assert.True(t, diag.IsCode(err, tc.code), "got %v", err)
			assert.Equal(t, diag.Analyze, diag.KindOf(err))
		})
	}
}

func TestAnalyze_SpeakerDeclaredLater(t *testing.T) {
	instrs := compile(t,
		"[start]",
		"    bob: Hi.",
		"> meet:",
		"    character bob = Bob",
	)

	_, err := Characters(instrs)

	assert.NoError(t, err)
}

func TestAnalyze_ErrorLocation(t *testing.T) {
	instrs := compile(t, "[start]", "    x", "    jump nowhere")

	_, err := Labels(instrs)

	var e *diag.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "main.tami", e.File)
	assert.Equal(t, 2, e.Line)
}

func TestReachability(t *testing.T) {
	// Arrange
	instrs := compile(t,
		"[start]",
		"    if x:",
		"        jump start",
		"    + Go:",
		"        jump start",
		"    + Stay:",
		"        call start",
		"        Never shown.",
		"    jump start",
		"> poke:",
		"    jump start",
		"    Dead.",
	)

	// Act
	warnings := Reachability(instrs)

	// Assert
	assert.Equal(t, []Warning{
		{File: "main.tami", Line: 7},
		{File: "main.tami", Line: 11},
	}, warnings)
}

func TestAnalyzeSetup(t *testing.T) {
	labels := []Entry{{Name: "start"}, {Name: "cellar"}}
	parse := func(text string) []program.Instruction {
		instrs, err := parser.Parser{}.ParseSetup(context.Background(), "setup", text)
		require.NoError(t, err)
		return instrs
	}

	testCases := []struct {
		name string
		text string
		code string
	}{
		{name: "valid", text: "gold = 3\n+{lamp}\njump cellar"},
		{name: "call rejected", text: "call cellar", code: diag.CodeCallIsNotAllowedInSetup},
		{name: "unknown jump target", text: "jump attic", code: diag.CodeUnknownDestination},
		{name: "read-only variable", text: "APPLY = 1", code: diag.CodeVariableIsReadOnly},
		{name: "unknown variable", text: "gold = silver", code: diag.CodeUnknownVariable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := AnalyzeSetup(context.Background(), parse(tc.text), labels)
			if tc.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, diag.IsCode(err, tc.code), "got %v", err)
		})
	}
}
