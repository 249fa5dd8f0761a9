package expr

import "strings"

// Kind is the lexical class of a token. The numeric values are part of the
// compiled program format.
type Kind int

const (
	Number   Kind = 1
	Operator Kind = 2
	Variable Kind = 3
	Item     Kind = 4
	Paren    Kind = 5
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Operator:
		return "operator"
	case Variable:
		return "variable"
	case Item:
		return "item"
	case Paren:
		return "parenthesis"
	default:
		return "unknown"
	}
}

// Token is one lexical unit. Item tokens keep their braces, e.g. "{key}".
type Token struct {
	Kind Kind
	Text string
}

// ItemName returns the inventory name referenced by an Item token.
func (t Token) ItemName() string {
	return strings.TrimSuffix(strings.TrimPrefix(t.Text, "{"), "}")
}

// Statement is a compiled expression in postfix order. It contains no
// parentheses.
type Statement []Token

// String renders the postfix stream separated by spaces.
func (s Statement) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// Variables returns the variable names referenced by the statement in order
// of appearance, including repeats.
func (s Statement) Variables() []string {
	var names []string
	for _, t := range s {
		if t.Kind == Variable {
			names = append(names, t.Text)
		}
	}
	return names
}

// Items returns the item tokens referenced by the statement.
func (s Statement) Items() []Token {
	var items []Token
	for _, t := range s {
		if t.Kind == Item {
			items = append(items, t)
		}
	}
	return items
}
