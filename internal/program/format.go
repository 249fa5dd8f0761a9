package program

import (
	"fmt"
	"strings"
)

// Format renders one instruction for debugging, e.g.
// "CONDITION_START: 12: x 1 >".
func Format(in Instruction) string {
	if in == nil {
		return "UNKNOWN"
	}
	r := ToRecord(in)
	var b strings.Builder
	b.WriteString(r.Op.String())
	for _, operand := range []any{r.A, r.B} {
		switch v := operand.(type) {
		case nil:
		case []TokenRecord:
			b.WriteString(":")
			for _, t := range v {
				b.WriteString(" " + t.Text)
			}
		default:
			fmt.Fprintf(&b, ": %v", v)
		}
	}
	return b.String()
}

// Listing renders a whole instruction sequence, one addressed line per
// instruction with its source location.
func Listing(instrs []Instruction) string {
	var b strings.Builder
	for addr, in := range instrs {
		pos := in.Position()
		fmt.Fprintf(&b, "%4d  %-48s %s:%d\n", addr, Format(in), pos.File, pos.Line+1)
	}
	return b.String()
}
