package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/tamigo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("tami", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Tami - compiler and player for Tami interactive fiction scripts.

Usage:
  tami [options] [PROJECT_PATH]

Arguments:
  PROJECT_PATH
    Path to a tami.hcl project file or a directory containing one, or a
    directory of .tami scripts.

Modes:
  check   compile and print the analyzer report
  build   compile and write the program as JSON (or a listing)
  play    play in the terminal
  serve   serve the game over websockets
  relay   connect the game to a socket.io presentation host

  play, serve and relay run a built program instead of the scripts when
  -program is given; the project still supplies settings and setup.

Options:
`)
		flagSet.PrintDefaults()
	}

	projectFlag := flagSet.String("project", "", "Path to the project file or directory.")
	pFlag := flagSet.String("p", "", "Path to the project file or directory (shorthand).")
	modeFlag := flagSet.String("mode", app.ModePlay, "Run mode: check, build, play, serve or relay.")
	outFlag := flagSet.String("out", "", "Output file for build mode. Defaults to stdout.")
	listingFlag := flagSet.Bool("listing", false, "Build a readable instruction listing instead of JSON.")
	programFlag := flagSet.String("program", "", "Play a program written by build mode instead of compiling the scripts.")
	resumeFlag := flagSet.Bool("continue", false, "Play from the newest save slot.")
	portFlag := flagSet.Int("port", 0, "Port for serve mode. 0 keeps the project setting.")
	relayFlag := flagSet.String("relay-url", "", "socket.io host URL for relay mode.")
	savesFlag := flagSet.String("saves", "", "Save backend: memory, file, sqlite, mysql or postgres.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *projectFlag != "" {
		path = *projectFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Project path determined.", "path", path)

	if path == "" {
		slog.Debug("No project path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		ProjectPath: path,
		Mode:        strings.ToLower(*modeFlag),
		OutPath:     *outFlag,
		Listing:     *listingFlag,
		Resume:      *resumeFlag,
		Port:        *portFlag,
		RelayURL:    *relayFlag,
		Saves:       strings.ToLower(*savesFlag),
		ProgramPath: *programFlag,
		LogFormat:   strings.ToLower(*logFormatFlag),
		LogLevel:    strings.ToLower(*logLevelFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
