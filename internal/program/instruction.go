package program

import "github.com/vk/tamigo/internal/expr"

// OpCode is the numeric instruction kind used by the external representation.
type OpCode int

const (
	OpSentence        OpCode = 1
	OpDialogue        OpCode = 2
	OpLabel           OpCode = 3
	OpJump            OpCode = 4
	OpCall            OpCode = 5
	OpConditionStart  OpCode = 6
	OpConditionElse   OpCode = 7
	OpConditionEnd    OpCode = 8
	OpVarSet          OpCode = 9
	OpInventoryAdd    OpCode = 10
	OpInventoryRemove OpCode = 11
	OpInventoryClear  OpCode = 12
	OpClearScreen     OpCode = 13
	OpPause           OpCode = 14
	OpStop            OpCode = 15
	OpCharacter       OpCode = 16
	OpMenuOption      OpCode = 17
	OpMenuEnd         OpCode = 18
	OpCommand         OpCode = 19
)

var opNames = map[OpCode]string{
	OpSentence:        "SENTENCE",
	OpDialogue:        "DIALOG",
	OpLabel:           "LABEL",
	OpJump:            "JUMP",
	OpCall:            "CALL",
	OpConditionStart:  "CONDITION_START",
	OpConditionElse:   "CONDITION_ELSE",
	OpConditionEnd:    "CONDITION_END",
	OpVarSet:          "VAR_SET",
	OpInventoryAdd:    "INVENTORY_ADD",
	OpInventoryRemove: "INVENTORY_REM",
	OpInventoryClear:  "INVENTORY_CLEAR",
	OpClearScreen:     "CLEAR",
	OpPause:           "PAUSE",
	OpStop:            "STOP",
	OpCharacter:       "CHARACTER",
	OpMenuOption:      "MENU_OPTION",
	OpMenuEnd:         "MENU_END",
	OpCommand:         "COMMAND",
}

func (o OpCode) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "UNKNOWN"
}

// Pos is the source location of an instruction. Line is 0-based.
type Pos struct {
	File string
	Line int
}

// Position returns the source location.
func (p Pos) Position() Pos { return p }

func (Pos) isInstruction() {}

// Instruction is one compiled unit. The set of implementations is closed.
type Instruction interface {
	Op() OpCode
	Position() Pos
	isInstruction()
}

// Sentence is a line of narrative text. It may embed action links and
// variable interpolations.
type Sentence struct {
	Pos
	Text string
}

// Dialogue is a line spoken by a declared character.
type Dialogue struct {
	Pos
	Speaker string
	Text    string
}

// Label names an address. Location labels carry a title and clear the
// screen when entered; action labels do not.
type Label struct {
	Pos
	Name     string
	Title    string
	HasTitle bool
}

// IsLocation reports whether the label was declared with a location header.
func (l Label) IsLocation() bool { return l.HasTitle }

// Jump transfers control without touching the call stack.
type Jump struct {
	Pos
	Target string
}

// Call transfers control and records a return frame.
type Call struct {
	Pos
	Target string
}

// ConditionStart opens an if construct.
type ConditionStart struct {
	Pos
	Block int
	Cond  expr.Statement
}

// ConditionElse separates the then branch from the optional else branch.
// It is emitted for every conditional, with or without an else body.
type ConditionElse struct {
	Pos
	Block int
}

// ConditionEnd closes an if construct.
type ConditionEnd struct {
	Pos
	Block int
}

// VarSet assigns the value of an expression to a variable.
type VarSet struct {
	Pos
	Name  string
	Value expr.Statement
}

// InventoryAdd puts an item into the inventory. An empty Title means the
// item is shown by its name.
type InventoryAdd struct {
	Pos
	Item  string
	Title string
}

// InventoryRemove takes an item out of the inventory.
type InventoryRemove struct {
	Pos
	Item string
}

// InventoryClear empties the inventory.
type InventoryClear struct{ Pos }

// ClearScreen clears the message log.
type ClearScreen struct{ Pos }

// Pause waits for the player to continue.
type Pause struct{ Pos }

// Stop returns from the innermost call, or ends the run.
type Stop struct{ Pos }

// Character declares a speaker and the title shown for it.
type Character struct {
	Pos
	Name  string
	Title string
}

// MenuOption is one choice of a menu. Its body follows it directly.
type MenuOption struct {
	Pos
	Text  string
	Block int
}

// MenuEnd closes a menu.
type MenuEnd struct {
	Pos
	Block int
}

// Command is an opaque instruction forwarded to the presentation layer.
type Command struct {
	Pos
	Name string
}

func (Sentence) Op() OpCode        { return OpSentence }
func (Dialogue) Op() OpCode        { return OpDialogue }
func (Label) Op() OpCode           { return OpLabel }
func (Jump) Op() OpCode            { return OpJump }
func (Call) Op() OpCode            { return OpCall }
func (ConditionStart) Op() OpCode  { return OpConditionStart }
func (ConditionElse) Op() OpCode   { return OpConditionElse }
func (ConditionEnd) Op() OpCode    { return OpConditionEnd }
func (VarSet) Op() OpCode          { return OpVarSet }
func (InventoryAdd) Op() OpCode    { return OpInventoryAdd }
func (InventoryRemove) Op() OpCode { return OpInventoryRemove }
func (InventoryClear) Op() OpCode  { return OpInventoryClear }
func (ClearScreen) Op() OpCode     { return OpClearScreen }
func (Pause) Op() OpCode           { return OpPause }
func (Stop) Op() OpCode            { return OpStop }
func (Character) Op() OpCode       { return OpCharacter }
func (MenuOption) Op() OpCode      { return OpMenuOption }
func (MenuEnd) Op() OpCode         { return OpMenuEnd }
func (Command) Op() OpCode         { return OpCommand }

// BlockOf returns the block id of a conditional or menu marker.
func BlockOf(in Instruction) (int, bool) {
	switch v := in.(type) {
	case ConditionStart:
		return v.Block, true
	case ConditionElse:
		return v.Block, true
	case ConditionEnd:
		return v.Block, true
	case MenuOption:
		return v.Block, true
	case MenuEnd:
		return v.Block, true
	}
	return 0, false
}
