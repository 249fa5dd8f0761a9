package diag

import (
	"errors"
	"fmt"
)

// Kind identifies the pipeline stage that produced an error.
type Kind int

const (
	// Syntax errors come from the structural parser and the expression compiler.
	Syntax Kind = iota + 1
	// Analyze errors come from the static analyzer.
	Analyze
	// Runtime errors come from the interpreter.
	Runtime
)

// String returns the conventional name of the error kind.
func (k Kind) String() string {
	switch k {
	case Syntax:
		return "SyntaxError"
	case Analyze:
		return "AnalyzeError"
	case Runtime:
		return "RuntimeError"
	default:
		return "Error"
	}
}

// Error is a script error with a machine-readable code and a location.
type Error struct {
	Kind   Kind
	Code   string
	Detail string

	// File and Line locate syntax and analysis errors. Line is 0-based.
	File string
	Line int

	// Address locates runtime errors. It is -1 when unknown.
	Address int
}

// Error renders the error the way authors see it, with a 1-based line.
func (e *Error) Error() string {
	msg := e.Code
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Kind == Runtime {
		if e.Address < 0 {
			return fmt.Sprintf("%s: %s", e.Kind, msg)
		}
		return fmt.Sprintf("%s: %s at position %d", e.Kind, msg, e.Address)
	}
	return fmt.Sprintf("%s: %s at %s:%d", e.Kind, msg, e.File, e.Line+1)
}

// NewSyntax returns a syntax error located at file:line.
func NewSyntax(code, file string, line int, detail string) *Error {
	return &Error{Kind: Syntax, Code: code, File: file, Line: line, Detail: detail, Address: -1}
}

// NewAnalyze returns an analysis error located at file:line.
func NewAnalyze(code, file string, line int, detail string) *Error {
	return &Error{Kind: Analyze, Code: code, File: file, Line: line, Detail: detail, Address: -1}
}

// NewRuntime returns a runtime error located at an instruction address.
func NewRuntime(code string, address int, detail string) *Error {
	return &Error{Kind: Runtime, Code: code, Address: address, Detail: detail}
}

// IsCode reports whether err is, or wraps, a script error with the given code.
func IsCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// KindOf returns the kind of a script error, or 0 if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Relocate fills in the file and line of a syntax error produced without
// position information, such as one raised while compiling an expression.
// Errors of other types are returned unchanged.
func Relocate(err error, file string, line int) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	relocated := *e
	relocated.File = file
	relocated.Line = line
	return &relocated
}

// AtAddress fills in the address of a runtime error raised without one, such
// as a failed expression evaluation. Other errors are returned unchanged.
func AtAddress(err error, address int) error {
	var e *Error
	if !errors.As(err, &e) || e.Kind != Runtime || e.Address >= 0 {
		return err
	}
	located := *e
	located.Address = address
	return &located
}
