package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/tamigo/internal/savestore"
	"github.com/vk/tamigo/internal/vm"
)

// Input types.
const (
	InputNewGame     = "new_game"
	InputContinue    = "continue"
	InputAct         = "act"
	InputCombine     = "combine"
	InputChoose      = "choose"
	InputAcknowledge = "acknowledge"
	InputSetAction   = "set_action"
	InputSelect      = "select"
	InputSave        = "save"
	InputReplace     = "replace"
	InputLoad        = "load"
	InputDelete      = "delete"
	InputSlots       = "slots"
)

// Input is one player command as sent by a remote presentation layer, e.g.
// {"type":"choose","index":1} or {"type":"combine","first":"key","second":"door"}.
type Input struct {
	Type   string `json:"type"`
	Label  string `json:"label,omitempty"`
	First  string `json:"first,omitempty"`
	Second string `json:"second,omitempty"`
	Index  int    `json:"index,omitempty"`
	Action string `json:"action,omitempty"`
	Item   string `json:"item,omitempty"`
	Slot   int64  `json:"slot,omitempty"`
}

// SlotInfo describes a save slot without its data.
type SlotInfo struct {
	Slot int64  `json:"slot"`
	Name string `json:"name"`
}

// DecodeInput parses and validates a JSON input.
func DecodeInput(data []byte) (Input, error) {
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return Input{}, fmt.Errorf("invalid input: %w", err)
	}
	switch in.Type {
	case InputNewGame, InputContinue, InputAcknowledge, InputSave, InputSlots:
	case InputAct:
		if in.Label == "" {
			return Input{}, fmt.Errorf("input %q requires a label", in.Type)
		}
	case InputCombine:
		if in.First == "" || in.Second == "" {
			return Input{}, fmt.Errorf("input %q requires first and second", in.Type)
		}
	case InputChoose:
		if in.Index < 0 {
			return Input{}, fmt.Errorf("input %q requires a non-negative index", in.Type)
		}
	case InputSetAction:
		if _, err := vm.ParseAction(in.Action); err != nil {
			return Input{}, fmt.Errorf("input %q: %w", in.Type, err)
		}
	case InputSelect:
	case InputReplace, InputLoad, InputDelete:
		if in.Slot <= 0 {
			return Input{}, fmt.Errorf("input %q requires a slot", in.Type)
		}
	case "":
		return Input{}, fmt.Errorf("input has no type")
	default:
		return Input{}, fmt.Errorf("unknown input type %q", in.Type)
	}
	return in, nil
}

// Apply executes a decoded input. Save and replace return the new SlotInfo,
// slots returns []SlotInfo; every other input returns nil.
func (s *Session) Apply(ctx context.Context, in Input) (any, error) {
	switch in.Type {
	case InputNewGame:
		return nil, s.NewGame(ctx)
	case InputContinue:
		return nil, s.Continue(ctx)
	case InputAct:
		ok, err := s.Act(ctx, in.Label)
		if err == nil && !ok {
			err = fmt.Errorf("unknown action %q", in.Label)
		}
		return nil, err
	case InputCombine:
		if _, err := s.Combine(ctx, in.First, in.Second); err != nil {
			return nil, err
		}
		return nil, nil
	case InputChoose:
		return nil, s.Choose(ctx, in.Index)
	case InputAcknowledge:
		return nil, s.Acknowledge(ctx)
	case InputSetAction:
		a, err := vm.ParseAction(in.Action)
		if err != nil {
			return nil, err
		}
		s.SetAction(a)
		return nil, nil
	case InputSelect:
		if !s.Select(in.Item) {
			return nil, fmt.Errorf("item %q is not in the inventory", in.Item)
		}
		return nil, nil
	case InputSave:
		slot, err := s.Save(ctx)
		if err != nil {
			return nil, err
		}
		return infoOf(slot), nil
	case InputReplace:
		slot, err := s.Replace(ctx, in.Slot)
		if err != nil {
			return nil, err
		}
		return infoOf(slot), nil
	case InputLoad:
		return nil, s.Load(ctx, in.Slot)
	case InputDelete:
		return nil, s.Delete(ctx, in.Slot)
	case InputSlots:
		slots, err := s.Slots(ctx)
		if err != nil {
			return nil, err
		}
		infos := make([]SlotInfo, 0, len(slots))
		for _, slot := range slots {
			infos = append(infos, infoOf(slot))
		}
		return infos, nil
	}
	return nil, fmt.Errorf("unknown input type %q", in.Type)
}

func infoOf(slot savestore.Slot) SlotInfo {
	return SlotInfo{Slot: slot.Timestamp, Name: slot.Name()}
}
