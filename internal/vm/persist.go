package vm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/tamigo/internal/ctxlog"
)

// Save serializes the runtime state, presentation state included.
func (m *Machine) Save() ([]byte, error) {
	data, err := json.Marshal(m.st)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// Load replaces the runtime state with a saved one and emits Restored. A
// following Run, Acknowledge or ChooseMenu continues exactly where the saved
// session was.
func (m *Machine) Load(ctx context.Context, data []byte) error {
	st := newState()
	if err := json.Unmarshal(data, st); err != nil {
		return fmt.Errorf("decoding state: %w", err)
	}
	if st.Position < 0 || st.Position > m.prog.Len() {
		return fmt.Errorf("saved position %d is outside the program (%d instructions)", st.Position, m.prog.Len())
	}
	for _, f := range st.CallStack {
		if f.ReturnAddress < -1 || f.ReturnAddress >= m.prog.Len() {
			return fmt.Errorf("saved return address %d is outside the program", f.ReturnAddress)
		}
	}
	for _, e := range st.Menu {
		if e.Address < 0 || e.Address > m.prog.Len() {
			return fmt.Errorf("saved menu option %q points outside the program", e.Title)
		}
	}
	if st.Suspension == AwaitingMenuChoice && len(st.Menu) == 0 {
		return fmt.Errorf("saved state awaits a menu choice without options")
	}
	m.st = st
	ctxlog.FromContext(ctx).Debug("State restored.", "addr", st.Position, "status", st.Suspension)
	m.emit(Restored{View: st.view()})
	return nil
}
