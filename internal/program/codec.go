package program

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vk/tamigo/internal/expr"
)

// Record is one element of the external program representation.
type Record struct {
	Op   OpCode `json:"op"`
	A    any    `json:"a,omitempty"`
	B    any    `json:"b,omitempty"`
	File string `json:"file,omitempty"`
	Line int    `json:"line"`
}

// TokenRecord is the external form of an expression token.
type TokenRecord struct {
	Kind expr.Kind `json:"t_type"`
	Text string    `json:"token"`
}

func tokenRecords(s expr.Statement) []TokenRecord {
	out := make([]TokenRecord, len(s))
	for i, t := range s {
		out[i] = TokenRecord{Kind: t.Kind, Text: t.Text}
	}
	return out
}

// ToRecord converts an instruction to its external form.
func ToRecord(in Instruction) Record {
	pos := in.Position()
	r := Record{Op: in.Op(), File: pos.File, Line: pos.Line}
	switch v := in.(type) {
	case Sentence:
		r.A = v.Text
	case Dialogue:
		r.A, r.B = v.Speaker, v.Text
	case Label:
		r.A = v.Name
		if v.HasTitle {
			r.B = v.Title
		}
	case Jump:
		r.A = v.Target
	case Call:
		r.A = v.Target
	case ConditionStart:
		r.A, r.B = v.Block, tokenRecords(v.Cond)
	case ConditionElse:
		r.A = v.Block
	case ConditionEnd:
		r.A = v.Block
	case VarSet:
		r.A, r.B = v.Name, tokenRecords(v.Value)
	case InventoryAdd:
		r.A = v.Item
		if v.Title != "" {
			r.B = v.Title
		}
	case InventoryRemove:
		r.A = v.Item
	case Character:
		r.A, r.B = v.Name, v.Title
	case MenuOption:
		r.A, r.B = v.Text, v.Block
	case MenuEnd:
		r.A = v.Block
	case Command:
		r.A = v.Name
	}
	return r
}

// Encode renders instructions as a JSON array of records, one per line.
func Encode(instrs []Instruction) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("[\n")
	for i, in := range instrs {
		line, err := json.Marshal(ToRecord(in))
		if err != nil {
			return nil, fmt.Errorf("encoding instruction %d: %w", i, err)
		}
		buf.Write(line)
		if i < len(instrs)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}

type rawRecord struct {
	Op   OpCode          `json:"op"`
	A    json.RawMessage `json:"a"`
	B    json.RawMessage `json:"b"`
	File string          `json:"file"`
	Line int             `json:"line"`
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func decodeString(raw json.RawMessage) (string, error) {
	if !present(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

func decodeInt(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	return n, nil
}

func decodeStatement(raw json.RawMessage) (expr.Statement, error) {
	var recs []TokenRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, err
	}
	s := make(expr.Statement, len(recs))
	for i, r := range recs {
		s[i] = expr.Token{Kind: r.Kind, Text: r.Text}
	}
	return s, nil
}

// fromRaw converts a decoded record back into an instruction.
func fromRaw(r rawRecord) (Instruction, error) {
	pos := Pos{File: r.File, Line: r.Line}
	var err error
	str := func(raw json.RawMessage) string {
		if err != nil {
			return ""
		}
		var s string
		s, err = decodeString(raw)
		return s
	}
	num := func(raw json.RawMessage) int {
		if err != nil {
			return 0
		}
		var n int
		n, err = decodeInt(raw)
		return n
	}
	stmt := func(raw json.RawMessage) expr.Statement {
		if err != nil {
			return nil
		}
		var s expr.Statement
		s, err = decodeStatement(raw)
		return s
	}

	var in Instruction
	switch r.Op {
	case OpSentence:
		in = Sentence{Pos: pos, Text: str(r.A)}
	case OpDialogue:
		in = Dialogue{Pos: pos, Speaker: str(r.A), Text: str(r.B)}
	case OpLabel:
		in = Label{Pos: pos, Name: str(r.A), Title: str(r.B), HasTitle: present(r.B)}
	case OpJump:
		in = Jump{Pos: pos, Target: str(r.A)}
	case OpCall:
		in = Call{Pos: pos, Target: str(r.A)}
	case OpConditionStart:
		in = ConditionStart{Pos: pos, Block: num(r.A), Cond: stmt(r.B)}
	case OpConditionElse:
		in = ConditionElse{Pos: pos, Block: num(r.A)}
	case OpConditionEnd:
		in = ConditionEnd{Pos: pos, Block: num(r.A)}
	case OpVarSet:
		in = VarSet{Pos: pos, Name: str(r.A), Value: stmt(r.B)}
	case OpInventoryAdd:
		in = InventoryAdd{Pos: pos, Item: str(r.A), Title: str(r.B)}
	case OpInventoryRemove:
		in = InventoryRemove{Pos: pos, Item: str(r.A)}
	case OpInventoryClear:
		in = InventoryClear{Pos: pos}
	case OpClearScreen:
		in = ClearScreen{Pos: pos}
	case OpPause:
		in = Pause{Pos: pos}
	case OpStop:
		in = Stop{Pos: pos}
	case OpCharacter:
		in = Character{Pos: pos, Name: str(r.A), Title: str(r.B)}
	case OpMenuOption:
		in = MenuOption{Pos: pos, Text: str(r.A), Block: num(r.B)}
	case OpMenuEnd:
		in = MenuEnd{Pos: pos, Block: num(r.A)}
	case OpCommand:
		in = Command{Pos: pos, Name: str(r.A)}
	default:
		return nil, fmt.Errorf("unknown opcode %d", r.Op)
	}
	if err != nil {
		return nil, fmt.Errorf("%s operands: %w", r.Op, err)
	}
	return in, nil
}

// Decode parses the external representation produced by Encode.
func Decode(data []byte) ([]Instruction, error) {
	var raws []rawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}
	instrs := make([]Instruction, 0, len(raws))
	for i, r := range raws {
		in, err := fromRaw(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		instrs = append(instrs, in)
	}
	return instrs, nil
}
