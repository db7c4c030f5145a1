package query

import "fmt"

// ArithmeticOp is the operator of an arithmetic expression
type ArithmeticOp int

const (
	OpAdd ArithmeticOp = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
)

func (op ArithmeticOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpModulo:
		return "%"
	default:
		return "?"
	}
}

// ArithmeticExpression combines two numeric expressions. A null
// operand makes the whole result null. Integer pairs stay integers;
// mixing an integer with a float promotes to float. + also
// concatenates strings.
type ArithmeticExpression struct {
	Op    ArithmeticOp
	Left  Expression
	Right Expression
}

func (e *ArithmeticExpression) EvalValue(binding map[string]any) (any, error) {
	left, err := e.Left.EvalValue(binding)
	if err != nil {
		return nil, err
	}
	right, err := e.Right.EvalValue(binding)
	if err != nil {
		return nil, err
	}

	if left == nil || right == nil {
		return nil, nil
	}

	if e.Op == OpAdd {
		ls, lok := left.(string)
		rs, rok := right.(string)
		if lok && rok {
			return ls + rs, nil
		}
	}

	li, lIsInt := toInt(left)
	ri, rIsInt := toInt(right)
	if lIsInt && rIsInt {
		return e.applyInt(li, ri)
	}

	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, fmt.Errorf("cannot apply %s to %T and %T", e.Op, left, right)
	}
	return e.applyFloat(lf, rf)
}

func (e *ArithmeticExpression) applyInt(l, r int64) (any, error) {
	switch e.Op {
	case OpAdd:
		return l + r, nil
	case OpSubtract:
		return l - r, nil
	case OpMultiply:
		return l * r, nil
	case OpDivide:
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return l / r, nil
	case OpModulo:
		if r == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}
		return l % r, nil
	}
	return nil, fmt.Errorf("unsupported arithmetic operator")
}

func (e *ArithmeticExpression) applyFloat(l, r float64) (any, error) {
	switch e.Op {
	case OpAdd:
		return l + r, nil
	case OpSubtract:
		return l - r, nil
	case OpMultiply:
		return l * r, nil
	case OpDivide:
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return l / r, nil
	case OpModulo:
		return nil, fmt.Errorf("modulo requires integer operands")
	}
	return nil, fmt.Errorf("unsupported arithmetic operator")
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func (e *ArithmeticExpression) String() string {
	return e.Left.String() + " " + e.Op.String() + " " + e.Right.String()
}
