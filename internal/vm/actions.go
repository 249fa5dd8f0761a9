package vm

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/vk/tamigo/internal/ctxlog"
	"github.com/vk/tamigo/internal/diag"
	"github.com/vk/tamigo/internal/program"
)

// Acknowledge dismisses a pause or a dialogue line and resumes execution.
func (m *Machine) Acknowledge(ctx context.Context) error {
	switch m.st.Suspension {
	case AwaitingPauseAck:
		m.st.Position++
	case AwaitingDialogueAck:
		m.setPanel(m.st.PanelVisible, false)
	default:
		return m.reject(diag.NewRuntime(diag.CodeNotSuspended, m.st.Position, m.st.Suspension.String()))
	}
	return m.Run(ctx)
}

// ChooseMenu resumes a presented menu at the option with the given index.
func (m *Machine) ChooseMenu(ctx context.Context, index int) error {
	if m.st.Suspension != AwaitingMenuChoice {
		return m.reject(diag.NewRuntime(diag.CodeNotSuspended, m.st.Position, m.st.Suspension.String()))
	}
	if index < 0 || index >= len(m.st.Menu) {
		return m.reject(diag.NewRuntime(diag.CodeInvalidState, m.st.Position, fmt.Sprintf("menu option %d of %d", index, len(m.st.Menu))))
	}
	opt := m.st.Menu[index]
	m.st.Menu = nil
	m.st.Position = opt.Address
	m.emit(MenuOptionChosen{Title: opt.Title})
	return m.Run(ctx)
}

// reject reports input that does not fit the current suspension. The state
// is left untouched.
func (m *Machine) reject(err error) error {
	m.emit(errorEvent(err))
	return err
}

// Interact runs the action label the player clicked. When the action stops,
// execution returns to the point where the machine was suspended. It
// reports false when no such label exists.
func (m *Machine) Interact(ctx context.Context, label string) (bool, error) {
	ctxlog.FromContext(ctx).Debug("Player interaction.", "label", label)
	m.emit(CharacterInteracted{Label: label})
	return m.callLabel(ctx, label)
}

// Combine runs the action "first + second", falling back to
// "second + first" unless the order matters.
func (m *Machine) Combine(ctx context.Context, first, second string) (bool, error) {
	ctxlog.FromContext(ctx).Debug("Player combination.", "first", first, "second", second)
	m.emit(ItemsCombined{First: first, Second: second})
	if _, ok := m.prog.Label(first + " + " + second); ok || m.opts.CombineOrderMatters {
		return m.callLabel(ctx, first+" + "+second)
	}
	return m.callLabel(ctx, second+" + "+first)
}

func (m *Machine) callLabel(ctx context.Context, label string) (bool, error) {
	addr, ok := m.prog.Label(label)
	if !ok {
		return false, nil
	}
	pc := m.st.Position
	if err := m.pushFrame(pc-1, m.prog.At(pc)); err != nil {
		return false, err
	}
	if m.st.Suspension == AwaitingDialogueAck {
		m.setPanel(m.st.PanelVisible, false)
	}
	m.st.Menu = nil
	m.st.Position = addr
	return true, m.Run(ctx)
}

// SetAction switches the interaction mode. Unknown modes are ignored.
func (m *Machine) SetAction(a Action) {
	if a != Look && a != Interact && a != Apply {
		return
	}
	m.setAction(a)
}

func (m *Machine) setAction(a Action) {
	m.st.setAction(a)
	for _, name := range []string{"action", "LOOK", "INTERACT", "APPLY"} {
		m.emit(VariableChanged{Variable: name, Value: m.st.Variables[name]})
	}
}

// SelectItem selects an inventory item, or clears the selection when name
// is empty. Items not in the inventory are ignored and reported as false.
func (m *Machine) SelectItem(name string) bool {
	return m.selectItem(name)
}

func (m *Machine) selectItem(name string) bool {
	if name != "" && m.st.itemIndex(name) < 0 {
		return false
	}
	m.st.SelectedItem = name
	if name == "" && m.st.action() == Apply {
		m.setAction(Interact)
	}
	return true
}

// RunSetup executes a setup script against the current state. Only
// assignments, inventory additions, commands and jumps are allowed; a jump
// moves the start position.
func (m *Machine) RunSetup(ctx context.Context, instrs []program.Instruction) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running setup.", "instructions", len(instrs))
	for i, in := range instrs {
		switch v := in.(type) {
		case program.VarSet:
			val, err := v.Value.Eval(env{m})
			if err != nil {
				return diag.AtAddress(err, i)
			}
			m.setVariable(v.Name, val)
		case program.InventoryAdd:
			m.addItem(v.Item, v.Title)
		case program.Command:
			m.command(v.Name)
		case program.Jump:
			addr, ok := m.prog.Label(v.Target)
			if !ok {
				return diag.NewRuntime(diag.CodeUnknownDestination, i, v.Target)
			}
			m.st.Position = addr
		default:
			return diag.NewRuntime(diag.CodeUnknownSetupOpcode, i, in.Op().String())
		}
	}
	return nil
}

// ApplyOverrides assigns variables from configuration, in name order.
func (m *Machine) ApplyOverrides(values map[string]int64) {
	for _, name := range slices.Sorted(maps.Keys(values)) {
		m.setVariable(name, values[name])
	}
}
