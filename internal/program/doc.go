// Package program holds the compiled form of a script: a flat, immutable
// sequence of instructions addressed by position, plus the label table
// derived from it.
//
// Instructions form a closed set of concrete types that all satisfy the
// Instruction interface; the interpreter and the analyzer dispatch on them
// with type switches. Conditionals and menus are not nested in this form.
// Their start, else, end, option and menu-end markers share a block id (the
// source line of the opening construct) and are paired with Find.
//
// The package also implements the external representation of a program, a
// JSON array of {op, a, b, file, line} records, and a human-readable listing
// used for debugging.
package program
