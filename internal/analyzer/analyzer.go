package analyzer

import (
	"context"

	"github.com/vk/tamigo/internal/ctxlog"
	"github.com/vk/tamigo/internal/diag"
	"github.com/vk/tamigo/internal/expr"
	"github.com/vk/tamigo/internal/markup"
	"github.com/vk/tamigo/internal/program"
)

// EntryPoint is the label execution starts from.
const EntryPoint = "start"

// readOnly lists the variables maintained by the interpreter.
var readOnly = map[string]bool{
	"action":   true,
	"LOOK":     true,
	"INTERACT": true,
	"APPLY":    true,
}

// IsReadOnly reports whether scripts may not assign the variable.
func IsReadOnly(name string) bool {
	return readOnly[name]
}

// Entry is one declared entity and whether anything references it.
type Entry struct {
	Name       string
	Used       bool
	File       string
	Line       int
	IsLocation bool
}

// Warning locates an unreachable instruction.
type Warning struct {
	File string
	Line int
}

// Report is the combined result of all passes.
type Report struct {
	Locations   []Entry
	Variables   []Entry
	Items       []Entry
	Characters  []Entry
	Unreachable []Warning
}

func fail(code string, in program.Instruction, detail string) error {
	pos := in.Position()
	return diag.NewAnalyze(code, pos.File, pos.Line, detail)
}

// Analyze runs every pass over a main script.
func Analyze(ctx context.Context, instrs []program.Instruction) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Analyzing script.", "instructions", len(instrs))

	var r Report
	var err error
	if r.Locations, err = Labels(instrs); err != nil {
		return nil, err
	}
	if r.Variables, err = Variables(instrs); err != nil {
		return nil, err
	}
	if r.Items, err = Items(instrs); err != nil {
		return nil, err
	}
	if r.Characters, err = Characters(instrs); err != nil {
		return nil, err
	}
	r.Unreachable = Reachability(instrs)

	logger.Debug("Analysis complete.",
		"labels", len(r.Locations),
		"variables", len(r.Variables),
		"items", len(r.Items),
		"characters", len(r.Characters),
		"unreachable", len(r.Unreachable),
	)
	return &r, nil
}

// AnalyzeSetup checks a setup script against the labels of the main script.
func AnalyzeSetup(ctx context.Context, setup []program.Instruction, labels []Entry) error {
	ctxlog.FromContext(ctx).Debug("Analyzing setup script.", "instructions", len(setup))
	if _, err := Variables(setup); err != nil {
		return err
	}
	return SetupLabels(setup, labels)
}

// Variables collects assigned variables and checks every variable
// reference in conditions and assignments.
func Variables(instrs []program.Instruction) ([]Entry, error) {
	var entries []Entry
	index := make(map[string]int)
	for _, in := range instrs {
		v, ok := in.(program.VarSet)
		if !ok {
			continue
		}
		if IsReadOnly(v.Name) {
			return nil, fail(diag.CodeVariableIsReadOnly, in, v.Name)
		}
		if _, seen := index[v.Name]; !seen {
			pos := v.Position()
			index[v.Name] = len(entries)
			entries = append(entries, Entry{Name: v.Name, File: pos.File, Line: pos.Line})
		}
	}

	for _, in := range instrs {
		s, ok := statementOf(in)
		if !ok {
			continue
		}
		for _, name := range s.Variables() {
			if i, ok := index[name]; ok {
				entries[i].Used = true
				continue
			}
			if !IsReadOnly(name) {
				return nil, fail(diag.CodeUnknownVariable, in, name)
			}
		}
	}
	return entries, nil
}

// Items collects items added to the inventory and checks item references in
// expressions and removals.
func Items(instrs []program.Instruction) ([]Entry, error) {
	var entries []Entry
	index := make(map[string]int)
	for _, in := range instrs {
		add, ok := in.(program.InventoryAdd)
		if !ok {
			continue
		}
		if _, seen := index[add.Item]; !seen {
			pos := add.Position()
			index[add.Item] = len(entries)
			entries = append(entries, Entry{Name: add.Item, File: pos.File, Line: pos.Line})
		}
	}

	for _, in := range instrs {
		if s, ok := statementOf(in); ok {
			for _, t := range s.Items() {
				i, ok := index[t.ItemName()]
				if !ok {
					return nil, fail(diag.CodeUnknownItem, in, t.Text)
				}
				entries[i].Used = true
			}
		}
		if v, ok := in.(program.InventoryRemove); ok {
			if _, ok := index[v.Item]; !ok {
				return nil, fail(diag.CodeUnknownItem, in, v.Item)
			}
		}
	}
	return entries, nil
}

// Characters checks that characters are declared once and that every
// dialogue speaker is declared somewhere in the script.
func Characters(instrs []program.Instruction) ([]Entry, error) {
	var entries []Entry
	index := make(map[string]int)
	for _, in := range instrs {
		c, ok := in.(program.Character)
		if !ok {
			continue
		}
		if _, seen := index[c.Name]; seen {
			return nil, fail(diag.CodeRedefinedCharacter, in, c.Name)
		}
		pos := c.Position()
		index[c.Name] = len(entries)
		entries = append(entries, Entry{Name: c.Name, File: pos.File, Line: pos.Line})
	}

	for _, in := range instrs {
		d, ok := in.(program.Dialogue)
		if !ok {
			continue
		}
		i, ok := index[d.Speaker]
		if !ok {
			return nil, fail(diag.CodeUnknownCharacter, in, d.Speaker)
		}
		entries[i].Used = true
	}
	return entries, nil
}

// Labels checks label uniqueness, the entry point, and every jump, call and
// inline action link target.
func Labels(instrs []program.Instruction) ([]Entry, error) {
	var entries []Entry
	index := make(map[string]int)
	for _, in := range instrs {
		l, ok := in.(program.Label)
		if !ok {
			continue
		}
		if _, seen := index[l.Name]; seen {
			return nil, fail(diag.CodeRedefined, in, l.Name)
		}
		pos := l.Position()
		index[l.Name] = len(entries)
		entries = append(entries, Entry{Name: l.Name, File: pos.File, Line: pos.Line, IsLocation: l.IsLocation()})
	}

	start, ok := index[EntryPoint]
	if !ok {
		return nil, diag.NewAnalyze(diag.CodeNoEntryPointFound, "", 0, "")
	}
	entries[start].Used = true

	for _, in := range instrs {
		switch v := in.(type) {
		case program.Sentence:
			for _, name := range markup.Actions(v.Text) {
				i, ok := index[name]
				if !ok {
					return nil, fail(diag.CodeUnknownAction, in, name)
				}
				entries[i].Used = true
			}
		case program.Jump, program.Call:
			target := targetOf(v)
			i, ok := index[target]
			if !ok {
				return nil, fail(diag.CodeUnknownDestination, in, target)
			}
			entries[i].Used = true
		}
	}
	return entries, nil
}

// statementOf returns the expression carried by conditions and assignments.
func statementOf(in program.Instruction) (expr.Statement, bool) {
	switch v := in.(type) {
	case program.ConditionStart:
		return v.Cond, true
	case program.VarSet:
		return v.Value, true
	}
	return nil, false
}

func targetOf(in program.Instruction) string {
	switch v := in.(type) {
	case program.Jump:
		return v.Target
	case program.Call:
		return v.Target
	}
	return ""
}

// SetupLabels rejects calls in a setup script and checks jump targets
// against the main script's labels.
func SetupLabels(setup []program.Instruction, labels []Entry) error {
	known := make(map[string]bool, len(labels))
	for _, l := range labels {
		known[l.Name] = true
	}
	for _, in := range setup {
		switch v := in.(type) {
		case program.Call:
			return fail(diag.CodeCallIsNotAllowedInSetup, in, v.Target)
		case program.Jump:
			if !known[v.Target] {
				return fail(diag.CodeUnknownDestination, in, v.Target)
			}
		}
	}
	return nil
}

// Reachability warns about every instruction that directly follows a jump
// or call without being a label or a block marker control can land on.
func Reachability(instrs []program.Instruction) []Warning {
	var warnings []Warning
	for i := 0; i+1 < len(instrs); i++ {
		switch instrs[i].(type) {
		case program.Jump, program.Call:
		default:
			continue
		}
		switch instrs[i+1].(type) {
		case program.Label, program.ConditionElse, program.ConditionEnd, program.MenuEnd, program.MenuOption:
			continue
		}
		pos := instrs[i+1].Position()
		warnings = append(warnings, Warning{File: pos.File, Line: pos.Line})
	}
	return warnings
}
