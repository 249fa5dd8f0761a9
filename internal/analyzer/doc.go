// Package analyzer performs the static checks run between parsing and
// execution.
//
// Four independent passes (labels, variables, items and characters) each
// fail on the first structural violation and otherwise return a usage list
// of the entities they collected. Reachability reports instructions that
// directly follow a jump or call and can never run; those findings are
// warnings and do not block execution. A restricted variant validates setup
// scripts against the label set of the main script.
package analyzer
