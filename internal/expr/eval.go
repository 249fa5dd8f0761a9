package expr

import (
	"strconv"

	"github.com/vk/tamigo/internal/diag"
)

// Env supplies the runtime values an expression can reference.
type Env interface {
	// Variable returns the value of a variable, 0 when unset.
	Variable(name string) int64
	// Item returns 0 when the item is absent, 1 when it is in the inventory
	// and 2 when it is also the selected item.
	Item(name string) int64
	// Random returns a value in [0, n) for n > 0.
	Random(n int64) int64
}

func runtimeError(code, detail string) error {
	return diag.NewRuntime(code, -1, detail)
}

// Eval runs the statement on a value stack. Runtime errors carry no address;
// the interpreter fills it in.
func (s Statement) Eval(env Env) (int64, error) {
	stack := make([]int64, 0, len(s))
	pop := func() (int64, bool) {
		if len(stack) == 0 {
			return 0, false
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, true
	}

	for _, t := range s {
		switch t.Kind {
		case Number:
			v, err := strconv.ParseInt(t.Text, 10, 64)
			if err != nil {
				return 0, runtimeError(diag.CodeInvalidToken, t.Text)
			}
			stack = append(stack, v)
		case Variable:
			stack = append(stack, env.Variable(t.Text))
		case Item:
			stack = append(stack, env.Item(t.ItemName()))
		case Operator:
			right, ok := pop()
			if !ok {
				return 0, runtimeError(diag.CodeInvalidStatement, "stack underflow")
			}
			if IsUnary(t.Text) {
				v, err := applyUnary(t.Text, right, env)
				if err != nil {
					return 0, err
				}
				stack = append(stack, v)
				continue
			}
			left, ok := pop()
			if !ok {
				return 0, runtimeError(diag.CodeInvalidStatement, "stack underflow")
			}
			v, err := applyBinary(t.Text, left, right)
			if err != nil {
				return 0, err
			}
			stack = append(stack, v)
		default:
			return 0, runtimeError(diag.CodeInvalidToken, t.Kind.String())
		}
	}
	if len(stack) != 1 {
		return 0, runtimeError(diag.CodeInvalidStatement, "unbalanced stack")
	}
	return stack[0], nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func applyUnary(op string, v int64, env Env) (int64, error) {
	switch op {
	case UnaryMinus:
		return -v, nil
	case "!":
		return boolInt(v == 0), nil
	case "~":
		return ^v, nil
	case ":":
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case "@":
		if v <= 0 {
			return 0, nil
		}
		return env.Random(v), nil
	}
	return 0, runtimeError(diag.CodeUnknownOperator, op)
}

func applyBinary(op string, l, r int64) (int64, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, runtimeError(diag.CodeDivisionByZero, "")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return 0, runtimeError(diag.CodeDivisionByZero, "")
		}
		return l % r, nil
	case "**":
		return power(l, r)

	case ">":
		return boolInt(l > r), nil
	case ">=":
		return boolInt(l >= r), nil
	case "<":
		return boolInt(l < r), nil
	case "<=":
		return boolInt(l <= r), nil
	case "==":
		return boolInt(l == r), nil
	case "!=":
		return boolInt(l != r), nil

	case "&&":
		return boolInt(l != 0 && r != 0), nil
	case "||":
		return boolInt(l != 0 || r != 0), nil

	case "<<":
		return l << uint64(r&63), nil
	case ">>":
		return l >> uint64(r&63), nil
	case "&":
		return l & r, nil
	case "|":
		return l | r, nil
	case "^":
		return l ^ r, nil

	case "<<=":
		return min(l, r), nil
	case ">>=":
		return max(l, r), nil
	}
	return 0, runtimeError(diag.CodeUnknownOperator, op)
}

// power computes base**exp in integers. Negative exponents truncate toward
// zero, so only bases 1 and -1 give a non-zero result.
func power(base, exp int64) (int64, error) {
	if exp < 0 {
		switch base {
		case 0:
			return 0, runtimeError(diag.CodeDivisionByZero, "")
		case 1:
			return 1, nil
		case -1:
			if exp%2 == 0 {
				return 1, nil
			}
			return -1, nil
		}
		return 0, nil
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result, nil
}
