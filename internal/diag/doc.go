// Package diag defines the error taxonomy shared by every stage of the script
// toolchain.
//
// Each failure is an *Error carrying a Kind (syntax, analysis or runtime), a
// machine-readable Code and the place it happened: a source file and 0-based
// line for compile-time problems, or an instruction address for runtime
// problems. Callers inspect failures with errors.As, IsCode or KindOf.
package diag
