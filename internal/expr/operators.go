package expr

// UnaryMinus is the operator text the compiler substitutes for a prefix "-".
const UnaryMinus = "-u"

const maxOperatorLength = 4

// mnemonics maps word operators to their symbolic form. min and max share
// the shift family's symbols but select the smaller or larger operand.
var mnemonics = map[string]string{
	"add": "+",
	"sub": "-",
	"mul": "*",
	"div": "/",
	"mod": "%",
	"pow": "**",

	"and": "&&",
	"or":  "||",
	"not": "!",

	"gt": ">",
	"ge": ">=",
	"lt": "<",
	"le": "<=",
	"eq": "==",
	"ne": "!=",

	"rsh":  ">>",
	"lsh":  "<<",
	"bor":  "|",
	"band": "&",
	"xor":  "^",
	"comp": "~",

	"min":  "<<=",
	"max":  ">>=",
	"abs":  ":",
	"rand": "@",
}

var symbols = func() map[string]bool {
	set := make(map[string]bool, len(mnemonics))
	for _, sym := range mnemonics {
		set[sym] = true
	}
	return set
}()

var unary = map[string]bool{
	"!":        true,
	"~":        true,
	":":        true,
	"@":        true,
	UnaryMinus: true,
}

// IsUnary reports whether op takes a single operand.
func IsUnary(op string) bool {
	return unary[op]
}

func priority(op string) int {
	switch op {
	case UnaryMinus, "!", "~", ":", "@":
		return 11
	case "*", "/", "%", "**":
		return 10
	case "+", "-":
		return 9
	case "<<", ">>", "<<=", ">>=":
		return 8
	case ">", ">=", "<", "<=":
		return 7
	case "==", "!=":
		return 6
	case "&":
		return 5
	case "^":
		return 4
	case "|":
		return 3
	case "&&":
		return 2
	case "||":
		return 1
	}
	return 0
}
