package vm

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Suspension is the machine's position in its run cycle.
type Suspension int

const (
	Running Suspension = iota
	AwaitingPauseAck
	AwaitingDialogueAck
	AwaitingMenuChoice
	Halted
)

var suspensionNames = [...]string{
	Running:             "running",
	AwaitingPauseAck:    "awaiting_pause_ack",
	AwaitingDialogueAck: "awaiting_dialogue_ack",
	AwaitingMenuChoice:  "awaiting_menu_choice",
	Halted:              "halted",
}

func (s Suspension) String() string {
	if s < 0 || int(s) >= len(suspensionNames) {
		return fmt.Sprintf("Suspension(%d)", int(s))
	}
	return suspensionNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Suspension) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Suspension) UnmarshalText(text []byte) error {
	for i, name := range suspensionNames {
		if name == string(text) {
			*s = Suspension(i)
			return nil
		}
	}
	return fmt.Errorf("unknown suspension %q", text)
}

// Action is the player's interaction mode.
type Action int64

const (
	Look Action = iota
	Interact
	Apply
)

var actionNames = [...]string{"look", "interact", "apply"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int64(a))
	}
	return actionNames[a]
}

// ParseAction accepts "look", "interact" and "apply".
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Item is an inventory entry.
type Item struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Character is a declared speaker.
type Character struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Frame is a call stack entry: where to return to and the encoded
// instruction that pushed it.
type Frame struct {
	ReturnAddress int             `json:"addr"`
	Code          json.RawMessage `json:"code,omitempty"`
}

// MenuEntry is one option of a presented menu. Address is where execution
// resumes when it is chosen.
type MenuEntry struct {
	Title   string `json:"title"`
	Address int    `json:"addr"`
}

// Line is one displayed transcript entry since the screen was last cleared.
type Line struct {
	Speaker   string `json:"speaker,omitempty"`
	Direction string `json:"direction,omitempty"`
	Text      string `json:"text"`
}

// View is the presentation state a collaborator needs to redraw the screen.
type View struct {
	Title        string      `json:"locationTitle"`
	Transcript   []Line      `json:"transcript"`
	Menu         []MenuEntry `json:"menu,omitempty"`
	Paused       bool        `json:"paused"`
	PanelVisible bool        `json:"sidePanelVisible"`
	PanelBlocked bool        `json:"sidePanelBlocked"`
	Inventory    []Item      `json:"inventory"`
	SelectedItem string      `json:"selectedItem"`
	Action       Action      `json:"action"`
}

// RuntimeState is everything a save slot records.
type RuntimeState struct {
	Inventory      []Item           `json:"inventory"`
	Variables      map[string]int64 `json:"variables"`
	ScreenMessages []string         `json:"screenMessages"`
	Position       int              `json:"currentPosition"`
	SelectedItem   string           `json:"selectedItem"`
	CallStack      []Frame          `json:"callStack"`
	Characters     []Character      `json:"characters"`

	Suspension    Suspension  `json:"suspension"`
	Menu          []MenuEntry `json:"menu,omitempty"`
	LocationTitle string      `json:"locationTitle"`
	Transcript    []Line      `json:"transcript"`
	PanelVisible  bool        `json:"sidePanelVisible"`
	PanelBlocked  bool        `json:"sidePanelBlocked"`
}

func newState() *RuntimeState {
	s := &RuntimeState{
		Inventory:      []Item{},
		Variables:      make(map[string]int64),
		ScreenMessages: []string{},
		CallStack:      []Frame{},
		Characters:     []Character{},
		Transcript:     []Line{},
		PanelVisible:   true,
	}
	s.setAction(Look)
	return s
}

// clone returns a deep copy.
func (s *RuntimeState) clone() *RuntimeState {
	c := *s
	c.Inventory = slices.Clone(s.Inventory)
	c.Variables = make(map[string]int64, len(s.Variables))
	for k, v := range s.Variables {
		c.Variables[k] = v
	}
	c.ScreenMessages = slices.Clone(s.ScreenMessages)
	c.CallStack = slices.Clone(s.CallStack)
	c.Characters = slices.Clone(s.Characters)
	c.Menu = slices.Clone(s.Menu)
	c.Transcript = slices.Clone(s.Transcript)
	return &c
}

func (s *RuntimeState) view() View {
	return View{
		Title:        s.LocationTitle,
		Transcript:   slices.Clone(s.Transcript),
		Menu:         slices.Clone(s.Menu),
		Paused:       s.Suspension == AwaitingPauseAck || s.Suspension == AwaitingDialogueAck,
		PanelVisible: s.PanelVisible,
		PanelBlocked: s.PanelBlocked,
		Inventory:    slices.Clone(s.Inventory),
		SelectedItem: s.SelectedItem,
		Action:       s.action(),
	}
}

func (s *RuntimeState) action() Action {
	return Action(s.Variables["action"])
}

// setAction writes the mode and its three derived flags together.
func (s *RuntimeState) setAction(a Action) {
	s.Variables["action"] = int64(a)
	s.Variables["LOOK"] = flag(a == Look)
	s.Variables["INTERACT"] = flag(a == Interact)
	s.Variables["APPLY"] = flag(a == Apply)
}

func flag(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (s *RuntimeState) itemIndex(name string) int {
	return slices.IndexFunc(s.Inventory, func(it Item) bool { return it.Name == name })
}

func (s *RuntimeState) characterTitle(name string) (string, bool) {
	i := slices.IndexFunc(s.Characters, func(c Character) bool { return c.Name == name })
	if i < 0 {
		return "", false
	}
	return s.Characters[i].Title, true
}
