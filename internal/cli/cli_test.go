package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tamigo/internal/app"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		want     *app.Config
		wantExit bool
		wantCode int
	}{
		{
			name: "positional path with defaults",
			args: []string{"games/cellar"},
			want: &app.Config{ProjectPath: "games/cellar", Mode: app.ModePlay, LogFormat: "text", LogLevel: "warn"},
		},
		{
			name: "every flag",
			args: []string{"-p", "x", "-mode", "BUILD", "-out", "p.json", "-listing", "-continue", "-program", "game.json", "-port", "9000",
				"-relay-url", "http://h", "-saves", "SQLite", "-log-format", "json", "-log-level", "debug"},
			want: &app.Config{
				ProjectPath: "x", Mode: app.ModeBuild, OutPath: "p.json", Listing: true, Resume: true, ProgramPath: "game.json", Port: 9000,
				RelayURL: "http://h", Saves: "sqlite", LogFormat: "json", LogLevel: "debug",
			},
		},
		{
			name: "project flag wins over positional",
			args: []string{"-project", "a", "b"},
			want: &app.Config{ProjectPath: "a", Mode: app.ModePlay, LogFormat: "text", LogLevel: "warn"},
		},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "no path", args: nil, wantExit: true},
		{name: "unknown flag", args: []string{"-nope"}, wantCode: 2},
		{name: "bad log format", args: []string{"-log-format", "xml", "x"}, wantCode: 2},
		{name: "bad log level", args: []string{"-log-level", "loud", "x"}, wantCode: 2},
		{name: "bad mode", args: []string{"-mode", "dance", "x"}, wantCode: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			out := &bytes.Buffer{}

			// Act
			cfg, exit, err := Parse(tc.args, out)

			// Assert
			if tc.wantCode != 0 {
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, tc.wantCode, exitErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, exit)
			assert.Equal(t, tc.want, cfg)
			if tc.wantExit {
				assert.Contains(t, out.String(), "Usage:")
			}
		})
	}
}
