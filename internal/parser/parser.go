package parser

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vk/tamigo/internal/ctxlog"
	"github.com/vk/tamigo/internal/diag"
	"github.com/vk/tamigo/internal/expr"
	"github.com/vk/tamigo/internal/program"
)

// DefaultIndentSpaces is the number of spaces that form one indentation unit.
const DefaultIndentSpaces = 4

// Parser holds the dialect settings. The zero value uses the defaults and a
// Parser is safe for concurrent use.
type Parser struct {
	// IndentSpaces is the number of spaces equivalent to one tab.
	IndentSpaces int
	// CommentCommands turns comment lines inside blocks into Command
	// instructions instead of dropping them.
	CommentCommands bool
}

// Parse parses a full script. file is recorded on every instruction.
func (p Parser) Parse(ctx context.Context, file, text string) ([]program.Instruction, error) {
	s := p.newState(ctx, file, text)
	s.log.Debug("Parsing script.", "lines", len(s.lines))

	var out []program.Instruction
	for s.cur < len(s.lines) {
		if isBlank(s.lines[s.cur]) {
			s.cur++
			continue
		}
		level, err := s.indentOf(s.cur)
		if err != nil {
			return nil, err
		}
		if level > 0 {
			return nil, s.errorf(diag.CodeInvalidIndentation, s.cur, "")
		}
		line := s.text(s.cur)
		var block []program.Instruction
		switch {
		case commentRe.MatchString(line):
			s.cur++
			continue
		case locationRe.MatchString(line):
			block, err = s.location(line)
		case actionRe.MatchString(line):
			block, err = s.action(line)
		default:
			return nil, s.errorf(diag.CodeUnexpectedLine, s.cur, line)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	s.log.Debug("Script parsed.", "instructions", len(out))
	return out, nil
}

// ParseSetup parses a setup script: unindented comments, assignments,
// inventory additions and jumps only. Comments always become Command
// instructions.
func (p Parser) ParseSetup(ctx context.Context, file, text string) ([]program.Instruction, error) {
	s := p.newState(ctx, file, text)
	s.log.Debug("Parsing setup script.", "lines", len(s.lines))

	var out []program.Instruction
	for s.cur < len(s.lines) {
		if isBlank(s.lines[s.cur]) {
			s.cur++
			continue
		}
		level, err := s.indentOf(s.cur)
		if err != nil {
			return nil, err
		}
		if level > 0 {
			return nil, s.errorf(diag.CodeNonZeroIndentation, s.cur, "")
		}
		line := s.text(s.cur)
		var in program.Instruction
		switch {
		case commentRe.MatchString(line):
			in = s.command(line)
		case varSetRe.MatchString(line):
			in, err = s.varSet(line)
		case inventoryAddRe.MatchString(line):
			in = s.inventoryAdd(line)
		case gotoRe.MatchString(line):
			in = s.jumpOrCall(line)
		default:
			return nil, s.errorf(diag.CodeUnexpectedLine, s.cur, line)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, in)
		s.cur++
	}
	return out, nil
}

// state is the cursor over one script. level is the indentation expected
// for the block being parsed.
type state struct {
	Parser
	log   *slog.Logger
	file  string
	lines []string
	cur   int
	level int
}

func (p Parser) newState(ctx context.Context, file, text string) *state {
	if p.IndentSpaces <= 0 {
		p.IndentSpaces = DefaultIndentSpaces
	}
	text = strings.ReplaceAll(text, "\r", "")
	return &state{
		Parser: p,
		log:    ctxlog.FromContext(ctx).With("file", file),
		file:   file,
		lines:  strings.Split(text, "\n"),
	}
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func (s *state) pos(line int) program.Pos {
	return program.Pos{File: s.file, Line: line}
}

func (s *state) errorf(code string, line int, detail string) error {
	return diag.NewSyntax(code, s.file, line, detail)
}

// text returns line n without indentation or trailing blanks.
func (s *state) text(n int) string {
	return strings.TrimSpace(s.lines[n])
}

// indentOf counts leading indentation units of line n. Each unit is a tab
// or IndentSpaces spaces; a shorter run of spaces left over is an error.
func (s *state) indentOf(n int) (int, error) {
	line := s.lines[n]
	unit := strings.Repeat(" ", s.IndentSpaces)
	level := 0
	for {
		switch {
		case strings.HasPrefix(line, "\t"):
			line = line[1:]
		case strings.HasPrefix(line, unit):
			line = line[len(unit):]
		default:
			if strings.HasPrefix(line, " ") {
				return 0, s.errorf(diag.CodeInconsistentIndentation, n, "")
			}
			return level, nil
		}
		level++
	}
}

func (s *state) header(label program.Label, emptyCode string) ([]program.Instruction, error) {
	start := s.cur
	out := []program.Instruction{label}
	s.level++
	s.cur++
	block, err := s.block()
	if err != nil {
		return nil, err
	}
	if len(block) == 0 {
		return nil, s.errorf(emptyCode, start, label.Name)
	}
	s.level--
	return append(out, block...), nil
}

func (s *state) location(line string) ([]program.Instruction, error) {
	m := locationRe.FindStringSubmatchIndex(line)
	name := strings.TrimSpace(line[m[2]:m[3]])
	title := name
	if m[4] >= 0 {
		title = strings.TrimSpace(line[m[4]:m[5]])
	}
	s.log.Debug("Location header.", "line", s.cur, "name", name)
	label := program.Label{Pos: s.pos(s.cur), Name: name, Title: title, HasTitle: true}
	return s.header(label, diag.CodeEmptyLocation)
}

func (s *state) action(line string) ([]program.Instruction, error) {
	name := strings.TrimSpace(actionRe.FindStringSubmatch(line)[1])
	s.log.Debug("Action header.", "line", s.cur, "name", name)
	return s.header(program.Label{Pos: s.pos(s.cur), Name: name}, diag.CodeEmptyAction)
}

// block parses sibling lines at the current level until a shallower line or
// the end of input.
func (s *state) block() ([]program.Instruction, error) {
	var out []program.Instruction
	for s.cur < len(s.lines) {
		if isBlank(s.lines[s.cur]) {
			s.cur++
			continue
		}
		level, err := s.indentOf(s.cur)
		if err != nil {
			return nil, err
		}
		if level > s.level {
			return nil, s.errorf(diag.CodeInvalidIndentation, s.cur, "")
		}
		if level < s.level {
			break
		}

		line := s.text(s.cur)
		var produced []program.Instruction
		switch {
		case commentRe.MatchString(line):
			if s.CommentCommands {
				produced = append(produced, s.command(line))
			}
			s.cur++
		case gotoRe.MatchString(line):
			produced = append(produced, s.jumpOrCall(line))
			s.cur++
		case conditionRe.MatchString(line):
			produced, err = s.condition(line)
		case varSetRe.MatchString(line):
			var in program.Instruction
			in, err = s.varSet(line)
			produced = append(produced, in)
			s.cur++
		case inventoryAddRe.MatchString(line):
			produced = append(produced, s.inventoryAdd(line))
			s.cur++
		case inventoryRemRe.MatchString(line):
			item := strings.TrimSpace(inventoryRemRe.FindStringSubmatch(line)[1])
			produced = append(produced, program.InventoryRemove{Pos: s.pos(s.cur), Item: item})
			s.cur++
		case inventoryClearRe.MatchString(line):
			produced = append(produced, program.InventoryClear{Pos: s.pos(s.cur)})
			s.cur++
		case dialogueRe.MatchString(line):
			m := dialogueRe.FindStringSubmatch(line)
			produced = append(produced, program.Dialogue{Pos: s.pos(s.cur), Speaker: m[1], Text: m[2]})
			s.cur++
		case clearRe.MatchString(line):
			produced = append(produced, program.ClearScreen{Pos: s.pos(s.cur)})
			s.cur++
		case pauseRe.MatchString(line):
			produced = append(produced, program.Pause{Pos: s.pos(s.cur)})
			s.cur++
		case stopRe.MatchString(line):
			produced = append(produced, program.Stop{Pos: s.pos(s.cur)})
			s.cur++
		case characterRe.MatchString(line):
			m := characterRe.FindStringSubmatch(line)
			produced = append(produced, program.Character{Pos: s.pos(s.cur), Name: m[1], Title: strings.TrimSpace(m[2])})
			s.cur++
		case menuRe.MatchString(line):
			produced, err = s.menu()
		case line == elseLine:
			return nil, s.errorf(diag.CodeUnexpectedElse, s.cur, "")
		default:
			produced = append(produced, program.Sentence{Pos: s.pos(s.cur), Text: line})
			s.cur++
		}
		if err != nil {
			return nil, err
		}
		out = append(out, produced...)
	}
	return out, nil
}

func (s *state) command(line string) program.Instruction {
	return program.Command{Pos: s.pos(s.cur), Name: commentRe.FindStringSubmatch(line)[1]}
}

func (s *state) jumpOrCall(line string) program.Instruction {
	m := gotoRe.FindStringSubmatch(line)
	target := strings.TrimSpace(m[2])
	if m[1] == "call" {
		return program.Call{Pos: s.pos(s.cur), Target: target}
	}
	return program.Jump{Pos: s.pos(s.cur), Target: target}
}

func (s *state) varSet(line string) (program.Instruction, error) {
	m := varSetRe.FindStringSubmatch(line)
	value, err := expr.Compile(m[2])
	if err != nil {
		return nil, diag.Relocate(err, s.file, s.cur)
	}
	return program.VarSet{Pos: s.pos(s.cur), Name: m[1], Value: value}, nil
}

func (s *state) inventoryAdd(line string) program.Instruction {
	m := inventoryAddRe.FindStringSubmatch(line)
	return program.InventoryAdd{Pos: s.pos(s.cur), Item: strings.TrimSpace(m[1]), Title: strings.TrimSpace(m[2])}
}

// condition parses an if line, its body and an optional else branch. The
// else line must sit at the indentation of its if; a shallower else belongs
// to an enclosing conditional and is left for it.
func (s *state) condition(line string) ([]program.Instruction, error) {
	start := s.cur
	cond, err := expr.Compile(conditionRe.FindStringSubmatch(line)[1])
	if err != nil {
		return nil, diag.Relocate(err, s.file, start)
	}
	s.log.Debug("Condition.", "line", start)

	out := []program.Instruction{program.ConditionStart{Pos: s.pos(start), Block: start, Cond: cond}}
	s.level++
	s.cur++
	body, err := s.block()
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, s.errorf(diag.CodeEmptyIf, start, "")
	}
	s.level--
	out = append(out, body...)
	out = append(out, program.ConditionElse{Pos: s.pos(s.cur), Block: start})

	if s.cur < len(s.lines) && s.text(s.cur) == elseLine {
		level, err := s.indentOf(s.cur)
		if err != nil {
			return nil, err
		}
		if level == s.level {
			elseAt := s.cur
			s.level++
			s.cur++
			body, err := s.block()
			if err != nil {
				return nil, err
			}
			if len(body) == 0 {
				return nil, s.errorf(diag.CodeEmptyElse, elseAt, "")
			}
			s.level--
			out = append(out, body...)
		}
	}
	return append(out, program.ConditionEnd{Pos: s.pos(s.cur), Block: start}), nil
}

// menu parses a run of sibling "+ option:" lines. All options and the
// closing MenuEnd share the line of the first option as block id.
func (s *state) menu() ([]program.Instruction, error) {
	id := s.cur
	s.log.Debug("Menu.", "line", id)

	var out []program.Instruction
	for s.cur < len(s.lines) {
		level, err := s.indentOf(s.cur)
		if err != nil {
			return nil, err
		}
		if level != s.level {
			break
		}
		m := menuRe.FindStringSubmatch(s.text(s.cur))
		if m == nil {
			break
		}
		optionAt := s.cur
		out = append(out, program.MenuOption{Pos: s.pos(optionAt), Text: m[1], Block: id})
		s.level++
		s.cur++
		body, err := s.block()
		if err != nil {
			return nil, err
		}
		if len(body) == 0 {
			return nil, s.errorf(diag.CodeEmptyMenuOption, optionAt, m[1])
		}
		s.level--
		out = append(out, body...)
	}
	return append(out, program.MenuEnd{Pos: s.pos(s.cur), Block: id}), nil
}
