package query

import "strings"

// CaseWhen is one WHEN ... THEN ... arm of a CASE expression
type CaseWhen struct {
	Condition Expression
	Result    Expression
}

// CaseExpression evaluates conditional branches.
//
// With an Operand it is the simple form: the operand is evaluated
// once, then each WHEN value is tested for equality against it in
// order. A null operand or a null WHEN value never matches, since
// null equality is unknown.
//
// Without an Operand it is the generic form: each WHEN holds a
// predicate, and the first one that is definitely true wins. A
// predicate that evaluates to null is treated as not matching.
//
// When no arm matches and there is no ELSE, the result is null.
type CaseExpression struct {
	Operand     Expression
	WhenClauses []CaseWhen
	ElseResult  Expression
}

func (e *CaseExpression) EvalValue(binding map[string]any) (any, error) {
	if e.Operand != nil {
		operand, err := e.Operand.EvalValue(binding)
		if err != nil {
			return nil, err
		}
		for _, when := range e.WhenClauses {
			candidate, err := when.Condition.EvalValue(binding)
			if err != nil {
				return nil, err
			}
			if valueEquals(operand, candidate) == TruthTrue {
				return when.Result.EvalValue(binding)
			}
		}
	} else {
		for _, when := range e.WhenClauses {
			val, err := when.Condition.EvalValue(binding)
			if err != nil {
				return nil, err
			}
			t, err := truthOf(val)
			if err != nil {
				return nil, err
			}
			if t == TruthTrue {
				return when.Result.EvalValue(binding)
			}
		}
	}

	if e.ElseResult != nil {
		return e.ElseResult.EvalValue(binding)
	}
	return nil, nil
}

func (e *CaseExpression) String() string {
	var sb strings.Builder
	sb.WriteString("CASE")
	if e.Operand != nil {
		sb.WriteString(" ")
		sb.WriteString(e.Operand.String())
	}
	for _, when := range e.WhenClauses {
		sb.WriteString(" WHEN ")
		sb.WriteString(when.Condition.String())
		sb.WriteString(" THEN ")
		sb.WriteString(when.Result.String())
	}
	if e.ElseResult != nil {
		sb.WriteString(" ELSE ")
		sb.WriteString(e.ElseResult.String())
	}
	sb.WriteString(" END")
	return sb.String()
}
