package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tebeka/atexit"
	"github.com/vk/tamigo/internal/app"
	"github.com/vk/tamigo/internal/cli"
	"github.com/vk/tamigo/internal/hcl"
)

// main is the entrypoint for the tami command.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// atexit.Exit runs the registered store closers before leaving.
	if err := run(ctx, os.Stdout, os.Stderr, os.Stdin, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			stop()
			atexit.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		atexit.Exit(1)
	}
	stop()
	atexit.Exit(0)
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, inR io.Reader, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical config errors.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	loader := hcl.NewLoader()
	tamiApp := app.NewApp(outW, errW, inR, appConfig, loader)

	return tamiApp.Run(ctx)
}
