package query

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// CASE evaluation is pure: the same expression against the same
// binding always yields the same result, and the simple form agrees
// with an equivalent chain of equality predicates.
func TestCaseEvaluationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	eyeGen := gen.OneConstOf("blue", "brown", "green", "gray")

	caseExpr := func(operand Expression) *CaseExpression {
		return &CaseExpression{
			Operand: operand,
			WhenClauses: []CaseWhen{
				{Condition: lit("blue"), Result: lit(int64(1))},
				{Condition: lit("brown"), Result: lit(int64(2))},
			},
			ElseResult: lit(int64(3)),
		}
	}

	properties.Property("repeated evaluation is stable", prop.ForAll(
		func(eyes string) bool {
			expr := caseExpr(lit(eyes))
			first, err := expr.EvalValue(map[string]any{})
			if err != nil {
				return false
			}
			for i := 0; i < 5; i++ {
				again, err := expr.EvalValue(map[string]any{})
				if err != nil || again != first {
					return false
				}
			}
			return true
		},
		eyeGen,
	))

	properties.Property("simple form agrees with generic form", prop.ForAll(
		func(eyes string) bool {
			simple := caseExpr(lit(eyes))
			generic := &CaseExpression{
				WhenClauses: []CaseWhen{
					{Condition: &BinaryExpression{Op: OpEquals, Left: lit(eyes), Right: lit("blue")}, Result: lit(int64(1))},
					{Condition: &BinaryExpression{Op: OpEquals, Left: lit(eyes), Right: lit("brown")}, Result: lit(int64(2))},
				},
				ElseResult: lit(int64(3)),
			}
			s, err := simple.EvalValue(map[string]any{})
			if err != nil {
				return false
			}
			g, err := generic.EvalValue(map[string]any{})
			if err != nil {
				return false
			}
			return s == g
		},
		eyeGen,
	))

	properties.Property("unmatched without ELSE is null", prop.ForAll(
		func(n int64) bool {
			expr := &CaseExpression{
				Operand: lit(n),
				WhenClauses: []CaseWhen{
					{Condition: lit(n + 1), Result: lit("never")},
				},
			}
			val, err := expr.EvalValue(map[string]any{})
			return err == nil && val == nil
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
