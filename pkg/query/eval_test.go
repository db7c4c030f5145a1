package query

import "testing"

func lit(v any) Expression { return &LiteralExpression{Value: v} }

func evalExpr(t *testing.T, expr Expression) any {
	t.Helper()
	val, err := expr.EvalValue(map[string]any{})
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	return val
}

func TestThreeValuedAnd(t *testing.T) {
	tests := []struct {
		left, right any
		want        any
	}{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, false},
		{true, nil, nil},
		{nil, true, nil},
		{false, nil, false},
		{nil, false, false},
		{nil, nil, nil},
	}
	for _, tt := range tests {
		expr := &BinaryExpression{Op: OpAnd, Left: lit(tt.left), Right: lit(tt.right)}
		if got := evalExpr(t, expr); got != tt.want {
			t.Errorf("%v AND %v = %v, want %v", tt.left, tt.right, got, tt.want)
		}
	}
}

func TestThreeValuedOr(t *testing.T) {
	tests := []struct {
		left, right any
		want        any
	}{
		{true, true, true},
		{true, false, true},
		{false, true, true},
		{false, false, false},
		{true, nil, true},
		{nil, true, true},
		{false, nil, nil},
		{nil, false, nil},
		{nil, nil, nil},
	}
	for _, tt := range tests {
		expr := &BinaryExpression{Op: OpOr, Left: lit(tt.left), Right: lit(tt.right)}
		if got := evalExpr(t, expr); got != tt.want {
			t.Errorf("%v OR %v = %v, want %v", tt.left, tt.right, got, tt.want)
		}
	}
}

func TestThreeValuedNot(t *testing.T) {
	tests := []struct {
		operand any
		want    any
	}{
		{true, false},
		{false, true},
		{nil, nil},
	}
	for _, tt := range tests {
		expr := &UnaryExpression{Op: OpNot, Operand: lit(tt.operand)}
		if got := evalExpr(t, expr); got != tt.want {
			t.Errorf("NOT %v = %v, want %v", tt.operand, got, tt.want)
		}
	}
}

func TestNullEquality(t *testing.T) {
	tests := []struct {
		left, right any
		want        any
	}{
		{nil, nil, nil},
		{nil, int64(1), nil},
		{int64(1), nil, nil},
		{int64(1), int64(1), true},
		{int64(1), int64(2), false},
		{"a", "a", true},
		{"a", "b", false},
		{int64(2), 2.0, true},
		{2.0, int64(3), false},
	}
	for _, tt := range tests {
		expr := &BinaryExpression{Op: OpEquals, Left: lit(tt.left), Right: lit(tt.right)}
		if got := evalExpr(t, expr); got != tt.want {
			t.Errorf("%v = %v evaluated to %v, want %v", tt.left, tt.right, got, tt.want)
		}
	}
}

func TestLargeIntegerEquality(t *testing.T) {
	// 2^53 and its neighbors collapse to the same float64; integer
	// pairs must compare exactly.
	tests := []struct {
		left, right any
		want        any
	}{
		{int64(9007199254740992), int64(9007199254740993), false},
		{int64(9007199254740993), int64(9007199254740993), true},
		{int64(-9007199254740993), int64(-9007199254740992), false},
	}
	for _, tt := range tests {
		expr := &BinaryExpression{Op: OpEquals, Left: lit(tt.left), Right: lit(tt.right)}
		if got := evalExpr(t, expr); got != tt.want {
			t.Errorf("%v = %v evaluated to %v, want %v", tt.left, tt.right, got, tt.want)
		}
	}
}

func TestLargeIntegerOrdering(t *testing.T) {
	expr := &BinaryExpression{
		Op:    OpLessThan,
		Left:  lit(int64(9007199254740992)),
		Right: lit(int64(9007199254740993)),
	}
	if got := evalExpr(t, expr); got != true {
		t.Errorf("9007199254740992 < 9007199254740993 evaluated to %v, want true", got)
	}
}

func TestNullComparisonsAreUnknown(t *testing.T) {
	for _, op := range []BinaryOp{OpLessThan, OpLessEquals, OpGreaterThan, OpGreaterEquals, OpNotEquals} {
		expr := &BinaryExpression{Op: op, Left: lit(nil), Right: lit(int64(5))}
		if got := evalExpr(t, expr); got != nil {
			t.Errorf("null %s 5 = %v, want null", op, got)
		}
	}
}

func TestIsNullPredicates(t *testing.T) {
	isNull := &BinaryExpression{Op: OpIsNull, Left: lit(nil)}
	if got := evalExpr(t, isNull); got != true {
		t.Errorf("null IS NULL = %v, want true", got)
	}

	isNotNull := &BinaryExpression{Op: OpIsNotNull, Left: lit(nil)}
	if got := evalExpr(t, isNotNull); got != false {
		t.Errorf("null IS NOT NULL = %v, want false", got)
	}

	valueIsNull := &BinaryExpression{Op: OpIsNull, Left: lit(int64(5))}
	if got := evalExpr(t, valueIsNull); got != false {
		t.Errorf("5 IS NULL = %v, want false", got)
	}
}

func TestInWithNulls(t *testing.T) {
	tests := []struct {
		needle any
		list   []any
		want   any
	}{
		{int64(2), []any{int64(1), int64(2)}, true},
		{int64(3), []any{int64(1), int64(2)}, false},
		{int64(3), []any{int64(1), nil}, nil},
		{int64(1), []any{int64(1), nil}, true},
		{nil, []any{int64(1)}, nil},
		{nil, []any{}, false},
	}
	for _, tt := range tests {
		elems := make([]Expression, len(tt.list))
		for i, v := range tt.list {
			elems[i] = lit(v)
		}
		expr := &BinaryExpression{
			Op:    OpIn,
			Left:  lit(tt.needle),
			Right: &ListExpression{Elements: elems},
		}
		if got := evalExpr(t, expr); got != tt.want {
			t.Errorf("%v IN %v = %v, want %v", tt.needle, tt.list, got, tt.want)
		}
	}
}

func TestArithmeticNullPropagation(t *testing.T) {
	for _, op := range []ArithmeticOp{OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulo} {
		expr := &ArithmeticExpression{Op: op, Left: lit(nil), Right: lit(int64(5))}
		if got := evalExpr(t, expr); got != nil {
			t.Errorf("null %s 5 = %v, want null", op, got)
		}
	}
}

func TestArithmeticIntAndFloat(t *testing.T) {
	sum := &ArithmeticExpression{Op: OpAdd, Left: lit(int64(2)), Right: lit(int64(3))}
	if got := evalExpr(t, sum); got != int64(5) {
		t.Errorf("2 + 3 = %v, want int64 5", got)
	}

	mixed := &ArithmeticExpression{Op: OpAdd, Left: lit(int64(2)), Right: lit(0.5)}
	if got := evalExpr(t, mixed); got != 2.5 {
		t.Errorf("2 + 0.5 = %v, want 2.5", got)
	}

	intDiv := &ArithmeticExpression{Op: OpDivide, Left: lit(int64(7)), Right: lit(int64(2))}
	if got := evalExpr(t, intDiv); got != int64(3) {
		t.Errorf("7 / 2 = %v, want int64 3", got)
	}

	concat := &ArithmeticExpression{Op: OpAdd, Left: lit("foo"), Right: lit("bar")}
	if got := evalExpr(t, concat); got != "foobar" {
		t.Errorf("'foo' + 'bar' = %v, want foobar", got)
	}
}

func TestDivisionByZeroFails(t *testing.T) {
	expr := &ArithmeticExpression{Op: OpDivide, Left: lit(int64(1)), Right: lit(int64(0))}
	if _, err := expr.EvalValue(map[string]any{}); err == nil {
		t.Error("expected division by zero to fail")
	}
}

func TestNonBooleanPredicateFails(t *testing.T) {
	expr := &BinaryExpression{Op: OpAnd, Left: lit("yes"), Right: lit(true)}
	if _, err := expr.EvalValue(map[string]any{}); err == nil {
		t.Error("expected non-boolean AND operand to fail")
	}
}

func TestStringComparison(t *testing.T) {
	expr := &BinaryExpression{Op: OpLessThan, Left: lit("apple"), Right: lit("banana")}
	if got := evalExpr(t, expr); got != true {
		t.Errorf("'apple' < 'banana' = %v, want true", got)
	}
}

func TestIncomparableTypesAreUnknown(t *testing.T) {
	expr := &BinaryExpression{Op: OpLessThan, Left: lit("apple"), Right: lit(int64(5))}
	if got := evalExpr(t, expr); got != nil {
		t.Errorf("'apple' < 5 = %v, want null", got)
	}
}
