package vm

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/vk/tamigo/internal/ctxlog"
	"github.com/vk/tamigo/internal/diag"
	"github.com/vk/tamigo/internal/markup"
	"github.com/vk/tamigo/internal/program"
)

// Machine executes a Program against a RuntimeState.
type Machine struct {
	prog *program.Program
	opts Options
	st   *RuntimeState
}

// New returns a machine positioned at the first instruction of prog.
func New(prog *program.Program, opts Options) *Machine {
	return &Machine{
		prog: prog,
		opts: opts.withDefaults(),
		st:   newState(),
	}
}

// Reset discards the runtime state and starts over at address 0.
func (m *Machine) Reset() {
	m.st = newState()
}

// Program returns the program being executed.
func (m *Machine) Program() *program.Program { return m.prog }

// State returns a copy of the runtime state.
func (m *Machine) State() *RuntimeState { return m.st.clone() }

// Status returns where the machine is in its run cycle.
func (m *Machine) Status() Suspension { return m.st.Suspension }

// View returns the presentation state.
func (m *Machine) View() View { return m.st.view() }

// Variable returns the value of a variable, 0 when unset.
func (m *Machine) Variable(name string) int64 { return m.st.Variables[name] }

// env adapts the machine state to expression evaluation.
type env struct{ m *Machine }

func (e env) Variable(name string) int64 { return e.m.st.Variables[name] }

func (e env) Item(name string) int64 {
	if e.m.st.itemIndex(name) < 0 {
		return 0
	}
	if e.m.st.SelectedItem == name {
		return 2
	}
	return 1
}

func (e env) Random(n int64) int64 { return e.m.opts.Random(n) }

// Run executes from the current position until the program suspends, ends
// or fails. Runtime errors leave the state as it was after the last
// completed instruction.
func (m *Machine) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	m.st.Suspension = Running
	visits := make(map[int]int)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pc := m.st.Position
		if pc >= m.prog.Len() {
			m.halt(logger)
			return nil
		}
		visits[pc]++
		if visits[pc] > m.opts.LoopProtection {
			return m.fail(logger, diag.NewRuntime(diag.CodeEndlessLoop, pc, ""))
		}

		in := m.prog.At(pc)
		if in == nil {
			return m.fail(logger, diag.NewRuntime(diag.CodeUnknownOpcode, pc, "no instruction at this address"))
		}
		if logger.Enabled(ctx, slog.LevelDebug) {
			logger.Debug("Executing instruction.", "addr", pc, "instruction", program.Format(in))
		}
		suspended, err := m.step(pc, in)
		if err != nil {
			return m.fail(logger, diag.AtAddress(err, pc))
		}
		if suspended {
			logger.Debug("Execution suspended.", "addr", m.st.Position, "status", m.st.Suspension)
			return nil
		}
	}
}

func (m *Machine) halt(logger *slog.Logger) {
	m.st.Suspension = Halted
	logger.Debug("Execution halted.", "addr", m.st.Position)
	m.emit(Ended{})
}

func (m *Machine) fail(logger *slog.Logger, err error) error {
	logger.Error("Execution failed.", "error", err)
	m.emit(errorEvent(err))
	return err
}

func (m *Machine) emit(e Event) { m.opts.Sink.Emit(e) }

// step executes one instruction and reports whether execution suspended.
func (m *Machine) step(pc int, in program.Instruction) (bool, error) {
	st := m.st
	next := pc + 1
	switch v := in.(type) {
	case program.Sentence:
		m.sentence(v.Text)

	case program.Dialogue:
		if m.dialogue(v.Speaker, v.Text) {
			st.Position = next
			st.Suspension = AwaitingDialogueAck
			return true, nil
		}

	case program.Label:
		if v.IsLocation() {
			m.enterLocation(v.Name, v.Title)
		}

	case program.ClearScreen:
		if m.clearScreen() {
			m.emit(ScreenCleared{})
		}

	case program.ConditionStart:
		val, err := v.Cond.Eval(env{m})
		if err != nil {
			return false, err
		}
		if val == 0 {
			addr, found := m.prog.Find(pc, program.Forward, program.OpConditionElse, v.Block)
			if !found {
				return false, diag.NewRuntime(diag.CodeUnmatchedBlock, pc, "else")
			}
			next = addr + 1
		}

	case program.ConditionElse:
		addr, found := m.prog.Find(pc, program.Forward, program.OpConditionEnd, v.Block)
		if !found {
			return false, diag.NewRuntime(diag.CodeUnmatchedBlock, pc, "end")
		}
		next = addr + 1

	case program.ConditionEnd, program.MenuEnd:

	case program.Jump:
		addr, ok := m.prog.Label(v.Target)
		if !ok {
			return false, diag.NewRuntime(diag.CodeUnknownDestination, pc, v.Target)
		}
		next = addr

	case program.Call:
		addr, ok := m.prog.Label(v.Target)
		if !ok {
			return false, diag.NewRuntime(diag.CodeUnknownDestination, pc, v.Target)
		}
		if err := m.pushFrame(pc, in); err != nil {
			return false, err
		}
		next = addr

	case program.VarSet:
		val, err := v.Value.Eval(env{m})
		if err != nil {
			return false, err
		}
		m.setVariable(v.Name, val)

	case program.InventoryAdd:
		m.addItem(v.Item, v.Title)

	case program.InventoryRemove:
		m.removeItem(v.Item)

	case program.InventoryClear:
		m.clearInventory()

	case program.Character:
		if _, ok := st.characterTitle(v.Name); !ok {
			st.Characters = append(st.Characters, Character{Name: v.Name, Title: v.Title})
		}

	case program.Pause:
		st.Suspension = AwaitingPauseAck
		m.emit(PauseShown{})
		return true, nil

	case program.Stop:
		n := len(st.CallStack)
		if n == 0 {
			st.Suspension = Halted
			m.emit(Ended{})
			return true, nil
		}
		top := st.CallStack[n-1]
		st.CallStack = st.CallStack[:n-1]
		m.emit(CallStackChanged{Frames: slices.Clone(st.CallStack)})
		next = top.ReturnAddress + 1

	case program.MenuOption:
		if _, revisit := m.prog.Find(pc, program.Backward, program.OpMenuOption, v.Block); revisit {
			end, found := m.prog.Find(pc, program.Forward, program.OpMenuEnd, v.Block)
			if !found {
				return false, diag.NewRuntime(diag.CodeUnmatchedBlock, pc, "menu")
			}
			next = end + 1
			break
		}
		addrs, _, found := m.prog.Collect(pc, program.OpMenuOption, program.OpMenuEnd, v.Block)
		if !found {
			return false, diag.NewRuntime(diag.CodeUnmatchedBlock, pc, "menu")
		}
		st.Menu = make([]MenuEntry, len(addrs))
		for i, addr := range addrs {
			st.Menu[i] = MenuEntry{Title: m.prog.At(addr).(program.MenuOption).Text, Address: addr + 1}
		}
		st.Suspension = AwaitingMenuChoice
		m.emit(MenuShown{Options: slices.Clone(st.Menu)})
		return true, nil

	case program.Command:
		m.command(v.Name)

	default:
		return false, diag.NewRuntime(diag.CodeUnknownOpcode, pc, in.Op().String())
	}
	st.Position = next
	return false, nil
}

func (m *Machine) interpolate(text string) string {
	return markup.Interpolate(text, m.Variable)
}

func (m *Machine) duplicate(key string) bool {
	msgs := m.st.ScreenMessages
	switch m.opts.Duplication {
	case DupEntire:
		return slices.Contains(msgs, key)
	case DupLastLine:
		return len(msgs) > 0 && msgs[len(msgs)-1] == key
	}
	return false
}

func (m *Machine) sentence(raw string) {
	text := m.interpolate(raw)
	if m.duplicate(text) {
		return
	}
	m.st.ScreenMessages = append(m.st.ScreenMessages, text)
	m.st.Transcript = append(m.st.Transcript, Line{Text: text})
	m.emit(SentenceShown{Text: text, Segments: markup.Parse(text)})
}

// dialogue shows a line and reports whether it was shown.
func (m *Machine) dialogue(speaker, raw string) bool {
	text := m.interpolate(raw)
	key := speaker + ":" + text
	if m.duplicate(key) {
		return false
	}
	direction, rest := markup.SplitDirection(text)
	title, ok := m.st.characterTitle(speaker)
	if !ok {
		title = speaker
	}
	m.st.ScreenMessages = append(m.st.ScreenMessages, key)
	m.st.Transcript = append(m.st.Transcript, Line{Speaker: title, Direction: direction, Text: rest})
	m.emit(DialogueShown{
		Speaker:   speaker,
		Title:     title,
		Direction: direction,
		Text:      rest,
		Segments:  markup.Parse(rest),
	})
	m.emit(PauseShown{})
	m.setPanel(m.st.PanelVisible, true)
	return true
}

func (m *Machine) enterLocation(name, title string) {
	m.st.LocationTitle = title
	m.clearScreen()
	m.emit(LocationChanged{Label: name, Title: title})
}

// clearScreen reports whether there was anything to clear.
func (m *Machine) clearScreen() bool {
	had := len(m.st.ScreenMessages) > 0
	m.st.ScreenMessages = m.st.ScreenMessages[:0]
	m.st.Transcript = m.st.Transcript[:0]
	return had
}

func (m *Machine) setVariable(name string, val int64) {
	m.st.Variables[name] = val
	m.emit(VariableChanged{Variable: name, Value: val})
}

func (m *Machine) addItem(name, title string) {
	if m.st.itemIndex(name) >= 0 {
		return
	}
	if title == "" {
		title = name
	}
	m.st.Inventory = append(m.st.Inventory, Item{Name: name, Title: title})
	m.emit(ItemAdded{Item: name, Title: title})
}

func (m *Machine) removeItem(name string) {
	i := m.st.itemIndex(name)
	if i < 0 {
		return
	}
	removed := m.st.Inventory[i]
	m.st.Inventory = slices.Delete(m.st.Inventory, i, i+1)
	if m.st.SelectedItem == name {
		m.selectItem("")
	}
	m.emit(ItemRemoved{Item: removed.Name, Title: removed.Title})
}

func (m *Machine) clearInventory() {
	had := len(m.st.Inventory) > 0
	m.st.Inventory = m.st.Inventory[:0]
	if m.st.SelectedItem != "" {
		m.selectItem("")
	}
	if had {
		m.emit(InventoryCleared{})
	}
}

func (m *Machine) command(name string) {
	switch name {
	case "hide_panel":
		m.setPanel(false, m.st.PanelBlocked)
	case "show_panel":
		m.setPanel(true, m.st.PanelBlocked)
	}
	m.emit(CommandIssued{Command: name})
}

func (m *Machine) setPanel(visible, blocked bool) {
	if m.st.PanelVisible == visible && m.st.PanelBlocked == blocked {
		return
	}
	m.st.PanelVisible, m.st.PanelBlocked = visible, blocked
	m.emit(PanelChanged{Visible: visible, Blocked: blocked})
}

// pushFrame records a return address. If the address is already on the
// stack, every frame from it upward is dropped first so cycles do not grow
// the stack.
func (m *Machine) pushFrame(ret int, in program.Instruction) error {
	stack := m.st.CallStack
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].ReturnAddress == ret {
			stack = stack[:i]
			break
		}
	}
	var code json.RawMessage
	if in != nil {
		var err error
		if code, err = json.Marshal(program.ToRecord(in)); err != nil {
			return err
		}
	}
	m.st.CallStack = append(stack, Frame{ReturnAddress: ret, Code: code})
	m.emit(CallStackChanged{Frames: slices.Clone(m.st.CallStack)})
	return nil
}
