package query

import (
	"fmt"
	"strings"
)

// Expression is any evaluable fragment of a query. EvalValue returns
// the expression's value against a binding; nil means null.
type Expression interface {
	EvalValue(binding map[string]any) (any, error)
	String() string
}

// LiteralExpression is a constant value: 42, 'hello', true, null
type LiteralExpression struct {
	Value any
}

func (e *LiteralExpression) EvalValue(binding map[string]any) (any, error) {
	return e.Value, nil
}

func (e *LiteralExpression) String() string {
	if e.Value == nil {
		return "null"
	}
	if s, ok := e.Value.(string); ok {
		return "'" + s + "'"
	}
	return fmt.Sprintf("%v", e.Value)
}

// VariableExpression references a bound variable: n
type VariableExpression struct {
	Name string
}

func (e *VariableExpression) EvalValue(binding map[string]any) (any, error) {
	val, ok := binding[e.Name]
	if !ok {
		return nil, fmt.Errorf("variable %q is not bound", e.Name)
	}
	return val, nil
}

func (e *VariableExpression) String() string {
	return e.Name
}

// PropertyExpression reads a property off a bound entity: n.age
type PropertyExpression struct {
	Variable string
	Property string
}

func (e *PropertyExpression) EvalValue(binding map[string]any) (any, error) {
	entity, ok := binding[e.Variable]
	if !ok {
		return nil, fmt.Errorf("variable %q is not bound", e.Variable)
	}
	return propertyValue(entity, e.Property)
}

func (e *PropertyExpression) String() string {
	return e.Variable + "." + e.Property
}

// ParameterExpression reads a query parameter: $name
type ParameterExpression struct {
	Name string
}

func (e *ParameterExpression) EvalValue(binding map[string]any) (any, error) {
	val, ok := binding["$"+e.Name]
	if !ok {
		return nil, fmt.Errorf("parameter $%s was not supplied", e.Name)
	}
	return val, nil
}

func (e *ParameterExpression) String() string {
	return "$" + e.Name
}

// BinaryOp is the operator of a binary expression
type BinaryOp int

const (
	OpAnd BinaryOp = iota
	OpOr
	OpEquals
	OpNotEquals
	OpLessThan
	OpLessEquals
	OpGreaterThan
	OpGreaterEquals
	OpIn
	OpNotIn
	OpIsNull
	OpIsNotNull
)

func (op BinaryOp) String() string {
	switch op {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpEquals:
		return "="
	case OpNotEquals:
		return "<>"
	case OpLessThan:
		return "<"
	case OpLessEquals:
		return "<="
	case OpGreaterThan:
		return ">"
	case OpGreaterEquals:
		return ">="
	case OpIn:
		return "IN"
	case OpNotIn:
		return "NOT IN"
	case OpIsNull:
		return "IS NULL"
	case OpIsNotNull:
		return "IS NOT NULL"
	default:
		return "?"
	}
}

// BinaryExpression combines two expressions with a logical or
// comparison operator. Comparisons with a null operand evaluate to
// null; AND and OR follow three-valued logic. IS NULL and IS NOT NULL
// are the only predicates that always produce true or false.
type BinaryExpression struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (e *BinaryExpression) EvalValue(binding map[string]any) (any, error) {
	switch e.Op {
	case OpIsNull, OpIsNotNull:
		val, err := e.Left.EvalValue(binding)
		if err != nil {
			return nil, err
		}
		if e.Op == OpIsNull {
			return val == nil, nil
		}
		return val != nil, nil
	}

	left, err := e.Left.EvalValue(binding)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpAnd:
		lt, err := truthOf(left)
		if err != nil {
			return nil, err
		}
		// short circuit only on a definite false
		if lt == TruthFalse {
			return false, nil
		}
		right, err := e.Right.EvalValue(binding)
		if err != nil {
			return nil, err
		}
		rt, err := truthOf(right)
		if err != nil {
			return nil, err
		}
		return truthValue(truthAnd(lt, rt)), nil

	case OpOr:
		lt, err := truthOf(left)
		if err != nil {
			return nil, err
		}
		if lt == TruthTrue {
			return true, nil
		}
		right, err := e.Right.EvalValue(binding)
		if err != nil {
			return nil, err
		}
		rt, err := truthOf(right)
		if err != nil {
			return nil, err
		}
		return truthValue(truthOr(lt, rt)), nil
	}

	right, err := e.Right.EvalValue(binding)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpEquals:
		return truthValue(valueEquals(left, right)), nil
	case OpNotEquals:
		return truthValue(truthNot(valueEquals(left, right))), nil
	case OpLessThan:
		cmp, ok := compareValues(left, right)
		if !ok {
			return nil, nil
		}
		return cmp < 0, nil
	case OpLessEquals:
		cmp, ok := compareValues(left, right)
		if !ok {
			return nil, nil
		}
		return cmp <= 0, nil
	case OpGreaterThan:
		cmp, ok := compareValues(left, right)
		if !ok {
			return nil, nil
		}
		return cmp > 0, nil
	case OpGreaterEquals:
		cmp, ok := compareValues(left, right)
		if !ok {
			return nil, nil
		}
		return cmp >= 0, nil
	case OpIn:
		return truthValue(evalIn(left, right)), nil
	case OpNotIn:
		return truthValue(truthNot(evalIn(left, right))), nil
	}

	return nil, fmt.Errorf("unsupported operator %s", e.Op)
}

// evalIn tests list membership. A null needle or a null element in
// the list without a definite match makes the result unknown.
func evalIn(needle, haystack any) Truth {
	if haystack == nil {
		return TruthUnknown
	}
	list, ok := haystack.([]any)
	if !ok {
		return TruthUnknown
	}
	if needle == nil {
		if len(list) == 0 {
			return TruthFalse
		}
		return TruthUnknown
	}

	sawUnknown := false
	for _, elem := range list {
		switch valueEquals(needle, elem) {
		case TruthTrue:
			return TruthTrue
		case TruthUnknown:
			sawUnknown = true
		}
	}
	if sawUnknown {
		return TruthUnknown
	}
	return TruthFalse
}

func (e *BinaryExpression) String() string {
	switch e.Op {
	case OpIsNull, OpIsNotNull:
		return e.Left.String() + " " + e.Op.String()
	}
	return e.Left.String() + " " + e.Op.String() + " " + e.Right.String()
}

// UnaryOp is the operator of a unary expression
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNegate
)

// UnaryExpression is NOT or unary minus. NOT of null is null.
type UnaryExpression struct {
	Op      UnaryOp
	Operand Expression
}

func (e *UnaryExpression) EvalValue(binding map[string]any) (any, error) {
	val, err := e.Operand.EvalValue(binding)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpNot:
		t, err := truthOf(val)
		if err != nil {
			return nil, err
		}
		return truthValue(truthNot(t)), nil
	case OpNegate:
		if val == nil {
			return nil, nil
		}
		switch n := val.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		default:
			return nil, fmt.Errorf("cannot negate %T", val)
		}
	}

	return nil, fmt.Errorf("unsupported unary operator")
}

func (e *UnaryExpression) String() string {
	if e.Op == OpNot {
		return "NOT " + e.Operand.String()
	}
	return "-" + e.Operand.String()
}

// ListExpression is a literal list: [1, 2, 3]
type ListExpression struct {
	Elements []Expression
}

func (e *ListExpression) EvalValue(binding map[string]any) (any, error) {
	result := make([]any, len(e.Elements))
	for i, elem := range e.Elements {
		val, err := elem.EvalValue(binding)
		if err != nil {
			return nil, err
		}
		result[i] = val
	}
	return result, nil
}

func (e *ListExpression) String() string {
	parts := make([]string, len(e.Elements))
	for i, elem := range e.Elements {
		parts[i] = elem.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FunctionExpression is a registered function call: toUpper(n.name)
type FunctionExpression struct {
	Name string
	Args []Expression
}

func (e *FunctionExpression) EvalValue(binding map[string]any) (any, error) {
	fn, ok := GetFunction(e.Name)
	if !ok {
		return nil, fmt.Errorf("unknown function %q", e.Name)
	}

	args := make([]any, len(e.Args))
	for i, arg := range e.Args {
		val, err := arg.EvalValue(binding)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}

	return fn(args)
}

func (e *FunctionExpression) String() string {
	parts := make([]string, len(e.Args))
	for i, arg := range e.Args {
		parts[i] = arg.String()
	}
	return e.Name + "(" + strings.Join(parts, ", ") + ")"
}
