package expr

import (
	"strconv"

	"github.com/vk/tamigo/internal/diag"
)

// Compile turns expression text into a validated postfix Statement. Errors
// are *diag.Error values of kind Syntax without a source position; the
// caller relocates them to the line being parsed.
func Compile(text string) (Statement, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	postfix, err := toPostfix(tokens)
	if err != nil {
		return nil, err
	}
	if err := validate(postfix); err != nil {
		return nil, err
	}
	return postfix, nil
}

func syntaxError(code, detail string) error {
	return diag.NewSyntax(code, "", 0, detail)
}

func isLetter(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordChar(c byte) bool {
	return isLetter(c) || isDigit(c)
}

func tokenize(text string) ([]Token, error) {
	var tokens []Token
	for i := 0; i < len(text); {
		c := text[i]
		if c == ' ' || c == '\t' {
			i++
			continue
		}
		if op, n := matchOperator(text, i); n > 0 {
			tokens = append(tokens, Token{Kind: Operator, Text: op})
			i += n
			continue
		}
		switch {
		case isLetter(c):
			j := i
			for j < len(text) && isWordChar(text[j]) {
				j++
			}
			tokens = append(tokens, Token{Kind: Variable, Text: text[i:j]})
			i = j
		case isDigit(c):
			j := i
			for j < len(text) && isDigit(text[j]) {
				j++
			}
			if _, err := strconv.ParseInt(text[i:j], 10, 64); err != nil {
				return nil, syntaxError(diag.CodeInvalidStatement, "number out of range: "+text[i:j])
			}
			tokens = append(tokens, Token{Kind: Number, Text: text[i:j]})
			i = j
		case c == '(' || c == ')':
			tokens = append(tokens, Token{Kind: Paren, Text: string(c)})
			i++
		case c == '{':
			j := i
			for j < len(text) && text[j] != '}' {
				j++
			}
			if j == len(text) {
				return nil, syntaxError(diag.CodeInvalidItem, text[i:]+" (pos "+strconv.Itoa(i)+")")
			}
			tokens = append(tokens, Token{Kind: Item, Text: text[i : j+1]})
			i = j + 1
		default:
			return nil, syntaxError(diag.CodeUnexpectedCharacter, string(c)+" (pos "+strconv.Itoa(i)+")")
		}
	}
	return tokens, nil
}

// matchOperator returns the longest operator starting at pos and the number
// of bytes it spans. A mnemonic only matches as a whole word.
func matchOperator(text string, pos int) (string, int) {
	for n := maxOperatorLength; n > 0; n-- {
		if pos+n > len(text) {
			continue
		}
		s := text[pos : pos+n]
		if sym, ok := mnemonics[s]; ok {
			if pos > 0 && isWordChar(text[pos-1]) {
				continue
			}
			if pos+n < len(text) && isWordChar(text[pos+n]) {
				continue
			}
			return sym, n
		}
		if symbols[s] {
			return s, n
		}
	}
	return "", 0
}

// isUnaryMinus decides whether the "-" at index i is a prefix operator. It is
// prefix at the start of the expression or after another operator or an
// opening parenthesis, and binary when it is the last token or is directly
// followed by another operator.
func isUnaryMinus(tokens []Token, i int) bool {
	if i == 0 {
		return true
	}
	if len(tokens) > 1 {
		if i > len(tokens)-2 {
			return false
		}
		if tokens[i+1].Kind == Operator {
			return false
		}
	}
	prev := tokens[i-1]
	switch prev.Kind {
	case Number, Variable, Item:
		return false
	case Paren:
		return prev.Text == "("
	}
	return true
}

func toPostfix(tokens []Token) (Statement, error) {
	var out Statement
	var stack []Token
	for i, t := range tokens {
		switch t.Kind {
		case Number, Variable, Item:
			out = append(out, t)
		case Operator:
			if t.Text == "-" && isUnaryMinus(tokens, i) {
				t.Text = UnaryMinus
			}
			// A prefix operator has no left operand to reduce.
			if !IsUnary(t.Text) {
				for len(stack) > 0 {
					top := stack[len(stack)-1]
					if top.Kind != Operator || priority(top.Text) < priority(t.Text) {
						break
					}
					out = append(out, top)
					stack = stack[:len(stack)-1]
				}
			}
			stack = append(stack, t)
		case Paren:
			if t.Text == "(" {
				stack = append(stack, t)
				continue
			}
			for len(stack) > 0 && stack[len(stack)-1].Kind != Paren {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return nil, syntaxError(diag.CodeOddParentheses, "")
			}
			stack = stack[:len(stack)-1]
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.Kind != Operator {
			return nil, syntaxError(diag.CodeOddParentheses, "")
		}
		out = append(out, top)
	}
	return out, nil
}

// validate replays the postfix stream with a depth counter.
func validate(s Statement) error {
	depth := 0
	for _, t := range s {
		switch t.Kind {
		case Number, Variable, Item:
			depth++
		case Operator:
			if IsUnary(t.Text) {
				if depth < 1 {
					return syntaxError(diag.CodeEmptyStack, t.Text)
				}
				continue
			}
			if depth < 2 {
				return syntaxError(diag.CodeLowStack, t.Text)
			}
			depth--
		default:
			return syntaxError(diag.CodeInvalidStatement, "unexpected "+t.Kind.String())
		}
	}
	if depth != 1 {
		return syntaxError(diag.CodeInvalidStatement, "")
	}
	return nil
}
