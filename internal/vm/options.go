package vm

import (
	"fmt"
	"math/rand/v2"
)

// DefaultLoopProtection is how many times one address may execute within a
// single run before the machine reports an endless loop.
const DefaultLoopProtection = 100

// Duplication selects which earlier messages suppress a repeated one.
type Duplication int

const (
	// DupLastLine suppresses a message equal to the last one shown.
	DupLastLine Duplication = iota
	// DupOff never suppresses.
	DupOff
	// DupEntire suppresses a message shown anywhere since the last clear.
	DupEntire
)

// ParseDuplication maps a configuration value to a Duplication.
func ParseDuplication(s string) (Duplication, error) {
	switch s {
	case "", "last_line":
		return DupLastLine, nil
	case "off":
		return DupOff, nil
	case "entire":
		return DupEntire, nil
	}
	return 0, fmt.Errorf("unknown duplication policy %q (want off, last_line or entire)", s)
}

// Options tune a Machine. The zero value is usable.
type Options struct {
	// LoopProtection defaults to DefaultLoopProtection when zero.
	LoopProtection int
	Duplication    Duplication
	// CombineOrderMatters disables the "second + first" fallback of Combine.
	CombineOrderMatters bool
	// Random returns a value in [0, n). Defaults to math/rand/v2.
	Random func(n int64) int64
	// Sink receives events. Defaults to discarding them.
	Sink Sink
}

func (o Options) withDefaults() Options {
	if o.LoopProtection <= 0 {
		o.LoopProtection = DefaultLoopProtection
	}
	if o.Random == nil {
		o.Random = rand.Int64N
	}
	if o.Sink == nil {
		o.Sink = discard{}
	}
	return o
}
