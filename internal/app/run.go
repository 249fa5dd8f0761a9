package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vk/tamigo/internal/compiler"
	"github.com/vk/tamigo/internal/console"
	"github.com/vk/tamigo/internal/ctxlog"
	"github.com/vk/tamigo/internal/parser"
	"github.com/vk/tamigo/internal/program"
	"github.com/vk/tamigo/internal/relay"
	"github.com/vk/tamigo/internal/server"
	"github.com/vk/tamigo/internal/session"
	"github.com/vk/tamigo/internal/vm"
)

// Run executes the configured mode. Serve and relay block until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "mode", a.config.Mode)

	art, err := a.artifact(ctx)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	switch a.config.Mode {
	case ModeCheck:
		console.RenderReport(a.outW, art.Report)
		return nil
	case ModeBuild:
		return a.build(art)
	case ModePlay:
		return a.play(ctx, art)
	case ModeServe:
		return a.serve(ctx, art)
	case ModeRelay:
		return a.relay(ctx, art)
	}
	return fmt.Errorf("unknown mode %q", a.config.Mode)
}

// artifact compiles the project's scripts, or loads the built program
// named by ProgramPath. The project's setup script applies to both.
func (a *App) artifact(ctx context.Context) (*compiler.Artifact, error) {
	opts := compiler.Options{
		Parser: parser.Parser{
			IndentSpaces:    a.project.Parser.IndentSpaces,
			CommentCommands: a.project.Parser.CommentCommands,
		},
	}
	if a.config.ProgramPath != "" {
		return compiler.FromProgramFile(ctx, a.config.ProgramPath, a.project.ScriptsDir(), a.project.Setup, opts)
	}
	return compiler.CompileDir(ctx, a.project.ScriptsDir(), a.project.Setup, opts)
}

func (a *App) build(art *compiler.Artifact) error {
	var data []byte
	if a.config.Listing {
		data = []byte(program.Listing(art.Program.Instructions()))
	} else {
		encoded, err := program.Encode(art.Program.Instructions())
		if err != nil {
			return fmt.Errorf("failed to encode program: %w", err)
		}
		data = append(encoded, '\n')
	}

	if a.config.OutPath == "" {
		_, err := a.outW.Write(data)
		return err
	}
	if err := os.WriteFile(a.config.OutPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.config.OutPath, err)
	}
	a.logger.Info("✅ Program written.", "path", a.config.OutPath, "instructions", art.Program.Len())
	return nil
}

// machineOptions translates the project runtime block. The sink is set by
// the caller.
func (a *App) machineOptions(sink vm.Sink) vm.Options {
	dup, _ := vm.ParseDuplication(a.project.Runtime.Duplication)
	return vm.Options{
		LoopProtection:      a.project.Runtime.LoopProtection,
		Duplication:         dup,
		CombineOrderMatters: a.project.Runtime.CombineOrderMatters,
		Sink:                sink,
	}
}

func (a *App) sessionOptions(sink vm.Sink) session.Options {
	return session.Options{
		Machine:   a.machineOptions(sink),
		Overrides: a.project.Runtime.Overrides,
	}
}

func (a *App) play(ctx context.Context, art *compiler.Artifact) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	in := a.inR
	if in == nil {
		in = strings.NewReader("")
	}
	c := console.New(in, a.outW)
	sess := session.New(art, store, a.sessionOptions(c))
	return c.Play(ctx, sess, a.config.Resume)
}

func (a *App) serve(ctx context.Context, art *compiler.Artifact) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := server.New(ctx, a.project.Server.Port, func(sink vm.Sink) *session.Session {
		return session.New(art, store, a.sessionOptions(sink))
	})
	if err := srv.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return srv.Shutdown()
}

func (a *App) relay(ctx context.Context, art *compiler.Artifact) error {
	if a.project.Relay.URL == "" {
		return fmt.Errorf("relay mode needs relay.url in the project file or -relay-url")
	}
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	r, err := relay.Dial(ctx, relay.Options{
		URL:       a.project.Relay.URL,
		Namespace: a.project.Relay.Namespace,
		Event:     a.project.Relay.Event,
		Input:     a.project.Relay.Input,
	})
	if err != nil {
		return err
	}
	defer r.Close()

	sess := session.New(art, store, a.sessionOptions(r))
	return r.Serve(ctx, sess)
}
