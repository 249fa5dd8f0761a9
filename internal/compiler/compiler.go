// Package compiler turns a project's script files into a runnable artifact:
// every script is parsed, the instruction sequences are joined into one
// program, and the analyzer checks the program and the setup script.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vk/tamigo/internal/analyzer"
	"github.com/vk/tamigo/internal/ctxlog"
	"github.com/vk/tamigo/internal/fsutil"
	"github.com/vk/tamigo/internal/parser"
	"github.com/vk/tamigo/internal/program"
)

// Extension is the suffix of script files.
const Extension = ".tami"

// Source is one script file. Name is recorded on every instruction.
type Source struct {
	Name string
	Text string
}

// Options tune compilation.
type Options struct {
	Parser parser.Parser
}

// Artifact is a compiled project.
type Artifact struct {
	Program *program.Program
	Setup   []program.Instruction
	Report  *analyzer.Report
}

// Compile parses sources in order, analyzes the joined program and, when
// setup is not nil, parses and checks the setup script. The first error
// aborts compilation.
func Compile(ctx context.Context, sources []Source, setup *Source, opts Options) (*Artifact, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Compiling scripts.", "files", len(sources))

	var instrs []program.Instruction
	for _, src := range sources {
		part, err := opts.Parser.Parse(ctx, src.Name, src.Text)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, part...)
	}

	return link(ctx, instrs, setup, opts)
}

// FromProgram builds an artifact from a program in the external
// representation produced by program.Encode. The program is analyzed again
// so a hand-edited file cannot bypass the checks; the setup script, when
// given, is parsed and checked against it.
func FromProgram(ctx context.Context, data []byte, setup *Source, opts Options) (*Artifact, error) {
	instrs, err := program.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Loading compiled program.", "instructions", len(instrs))
	return link(ctx, instrs, setup, opts)
}

// FromProgramFile reads a compiled program from path and the optional
// setup script setupFile from dir.
func FromProgramFile(ctx context.Context, path, dir, setupFile string, opts Options) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	setup, err := readSetup(dir, setupFile)
	if err != nil {
		return nil, err
	}
	return FromProgram(ctx, data, setup, opts)
}

func link(ctx context.Context, instrs []program.Instruction, setup *Source, opts Options) (*Artifact, error) {
	logger := ctxlog.FromContext(ctx)
	report, err := analyzer.Analyze(ctx, instrs)
	if err != nil {
		return nil, err
	}
	for _, w := range report.Unreachable {
		logger.Warn("Unreachable code.", "file", w.File, "line", w.Line+1)
	}

	art := &Artifact{Program: program.New(instrs), Report: report}
	if setup != nil {
		art.Setup, err = opts.Parser.ParseSetup(ctx, setup.Name, setup.Text)
		if err != nil {
			return nil, err
		}
		if err := analyzer.AnalyzeSetup(ctx, art.Setup, report.Locations); err != nil {
			return nil, err
		}
	}

	logger.Info("✅ Compilation finished.", "instructions", art.Program.Len(), "warnings", len(report.Unreachable))
	return art, nil
}

// Discover reads every script under dir except the setup file, sorted by
// path. Source names are relative to dir. setupFile is relative to dir; the
// returned setup is nil when it is empty or the file does not exist.
func Discover(dir, setupFile string) ([]Source, *Source, error) {
	var setupPath string
	if setupFile != "" {
		setupPath = filepath.Join(dir, setupFile)
	}
	paths, err := fsutil.FindFilesByExtension(dir, Extension, setupPath)
	if err != nil {
		return nil, nil, fmt.Errorf("finding scripts in %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no %s scripts found in %s", Extension, dir)
	}

	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		src, err := readSource(dir, p)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}

	setup, err := readSetup(dir, setupFile)
	if err != nil {
		return nil, nil, err
	}
	return sources, setup, nil
}

// readSetup returns nil when setupFile is empty or does not exist.
func readSetup(dir, setupFile string) (*Source, error) {
	if setupFile == "" {
		return nil, nil
	}
	setup, err := readSource(dir, filepath.Join(dir, setupFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setup, nil
}

func readSource(dir, path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("reading script: %w", err)
	}
	name, err := filepath.Rel(dir, path)
	if err != nil {
		name = path
	}
	return Source{Name: filepath.ToSlash(name), Text: string(data)}, nil
}

// CompileDir discovers and compiles the scripts under dir.
func CompileDir(ctx context.Context, dir, setupFile string, opts Options) (*Artifact, error) {
	sources, setup, err := Discover(dir, setupFile)
	if err != nil {
		return nil, err
	}
	return Compile(ctx, sources, setup, opts)
}
