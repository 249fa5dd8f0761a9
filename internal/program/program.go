package program

// Direction selects which way Find scans.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Program is an immutable instruction sequence with its label table.
type Program struct {
	instrs []Instruction
	labels map[string]int
}

// New builds a Program. When a label name is declared more than once the
// first declaration wins; the analyzer reports duplicates.
func New(instrs []Instruction) *Program {
	p := &Program{
		instrs: append([]Instruction(nil), instrs...),
		labels: make(map[string]int),
	}
	for addr, in := range p.instrs {
		if l, ok := in.(Label); ok {
			if _, seen := p.labels[l.Name]; !seen {
				p.labels[l.Name] = addr
			}
		}
	}
	return p
}

// Len returns the number of instructions.
func (p *Program) Len() int { return len(p.instrs) }

// At returns the instruction at addr, or nil when addr is out of range.
func (p *Program) At(addr int) Instruction {
	if addr < 0 || addr >= len(p.instrs) {
		return nil
	}
	return p.instrs[addr]
}

// Instructions returns a copy of the instruction sequence.
func (p *Program) Instructions() []Instruction {
	return append([]Instruction(nil), p.instrs...)
}

// Label returns the address of the named label.
func (p *Program) Label(name string) (int, bool) {
	addr, ok := p.labels[name]
	return addr, ok
}

// Find scans from the address from (exclusive) in the given direction for
// the first instruction with opcode op whose block id equals block. Block
// ids are source lines, so only markers from the same file as the
// instruction at from match.
func (p *Program) Find(from int, dir Direction, op OpCode, block int) (int, bool) {
	file := p.fileAt(from)
	for addr := from + int(dir); addr >= 0 && addr < len(p.instrs); addr += int(dir) {
		in := p.instrs[addr]
		if in.Op() != op || in.Position().File != file {
			continue
		}
		if id, ok := BlockOf(in); ok && id == block {
			return addr, true
		}
	}
	return 0, false
}

// Collect returns the addresses of every instruction with opcode op and the
// given block id between from (inclusive) and the next instruction with
// opcode until and the same block id. The second result is the address of
// that terminating instruction. Like Find, it ignores other files.
func (p *Program) Collect(from int, op, until OpCode, block int) ([]int, int, bool) {
	file := p.fileAt(from)
	var found []int
	for addr := from; addr < len(p.instrs); addr++ {
		in := p.instrs[addr]
		id, ok := BlockOf(in)
		if !ok || id != block || in.Position().File != file {
			continue
		}
		switch in.Op() {
		case op:
			found = append(found, addr)
		case until:
			return found, addr, true
		}
	}
	return found, 0, false
}

func (p *Program) fileAt(addr int) string {
	if in := p.At(addr); in != nil {
		return in.Position().File
	}
	return ""
}
