package vm

import (
	"errors"

	"github.com/vk/tamigo/internal/diag"
	"github.com/vk/tamigo/internal/markup"
)

// Event is a notification for the presentation layer. Name identifies the
// event on the wire.
type Event interface {
	Name() string
}

// Sink receives events in the order the machine produces them.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

type discard struct{}

func (discard) Emit(Event) {}

type LocationChanged struct {
	Label string `json:"label"`
	Title string `json:"title"`
}

type SentenceShown struct {
	Text     string           `json:"text"`
	Segments []markup.Segment `json:"segments"`
}

type DialogueShown struct {
	Speaker   string           `json:"speaker"`
	Title     string           `json:"title"`
	Direction string           `json:"direction,omitempty"`
	Text      string           `json:"text"`
	Segments  []markup.Segment `json:"segments"`
}

type ScreenCleared struct{}

type ItemAdded struct {
	Item  string `json:"item"`
	Title string `json:"title"`
}

type ItemRemoved struct {
	Item  string `json:"item"`
	Title string `json:"title"`
}

type InventoryCleared struct{}

type VariableChanged struct {
	Variable string `json:"variable"`
	Value    int64  `json:"value"`
}

type MenuShown struct {
	Options []MenuEntry `json:"options"`
}

type MenuOptionChosen struct {
	Title string `json:"title"`
}

type PauseShown struct{}

type CharacterInteracted struct {
	Label string `json:"label"`
}

type ItemsCombined struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

type CommandIssued struct {
	Command string `json:"command"`
}

type CallStackChanged struct {
	Frames []Frame `json:"frames"`
}

type PanelChanged struct {
	Visible bool `json:"visible"`
	Blocked bool `json:"blocked"`
}

// ErrorRaised reports a runtime error. Kind and Code are empty for errors
// that are not script errors.
type ErrorRaised struct {
	Kind    string `json:"kind,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Address int    `json:"address"`
}

// Restored carries the presentation state after a save was loaded so the
// collaborator can redraw everything and re-attach its handlers.
type Restored struct {
	View View `json:"view"`
}

// Ended reports that the program stopped with an empty call stack. No
// further input is accepted until a new game or a load.
type Ended struct{}

func (LocationChanged) Name() string     { return "location_changed" }
func (SentenceShown) Name() string       { return "sentence_shown" }
func (DialogueShown) Name() string       { return "dialogue_shown" }
func (ScreenCleared) Name() string       { return "screen_cleared" }
func (ItemAdded) Name() string           { return "item_added" }
func (ItemRemoved) Name() string         { return "item_removed" }
func (InventoryCleared) Name() string    { return "inventory_cleared" }
func (VariableChanged) Name() string     { return "variable_changed" }
func (MenuShown) Name() string           { return "menu_shown" }
func (MenuOptionChosen) Name() string    { return "menu_option_chosen" }
func (PauseShown) Name() string          { return "pause_shown" }
func (CharacterInteracted) Name() string { return "character_interacted" }
func (ItemsCombined) Name() string       { return "items_combined" }
func (CommandIssued) Name() string       { return "command_issued" }
func (CallStackChanged) Name() string    { return "call_stack_changed" }
func (PanelChanged) Name() string        { return "panel_changed" }
func (ErrorRaised) Name() string         { return "error" }
func (Restored) Name() string            { return "restored" }
func (Ended) Name() string               { return "ended" }

func errorEvent(err error) ErrorRaised {
	ev := ErrorRaised{Message: err.Error(), Address: -1}
	var e *diag.Error
	if errors.As(err, &e) {
		ev.Kind = e.Kind.String()
		ev.Code = e.Code
		ev.Address = e.Address
	}
	return ev
}
