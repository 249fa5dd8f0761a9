package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/tamigo/internal/parser"
	"github.com/vk/tamigo/internal/program"
)

// Unindent removes common leading whitespace from a multi-line string, so
// scripts can be written as indented raw strings in Go tests. Leading and
// trailing blank lines are dropped.
func Unindent(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.Join(lines, "\n")
	}

	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = strings.TrimSpace(line)
		}
	}
	return strings.Join(lines, "\n")
}

// Instructions parses an unindented script named main.tami.
func Instructions(t *testing.T, script string) []program.Instruction {
	t.Helper()
	instrs, err := parser.Parser{}.Parse(context.Background(), "main.tami", Unindent(script))
	require.NoError(t, err, "script should parse")
	return instrs
}

// Program parses a script and builds a Program from it.
func Program(t *testing.T, script string) *program.Program {
	t.Helper()
	return program.New(Instructions(t, script))
}

// Setup parses an unindented setup script.
func Setup(t *testing.T, script string) []program.Instruction {
	t.Helper()
	instrs, err := parser.Parser{}.ParseSetup(context.Background(), "setup.tami", Unindent(script))
	require.NoError(t, err, "setup should parse")
	return instrs
}
