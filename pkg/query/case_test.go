package query

import "testing"

func TestSimpleCaseMatchesInOrder(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Color {name: 'sky', value: 'blue'})`)

	result := mustExecute(t, e, `
		MATCH (c:Color)
		RETURN CASE c.value
			WHEN 'blue' THEN 'cool'
			WHEN 'red' THEN 'warm'
			ELSE 'other'
		END AS mood`)
	if result.Rows[0][0] != "cool" {
		t.Errorf("expected cool, got %v", result.Rows[0][0])
	}
}

func TestSimpleCaseFirstMatchWins(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Item {n: 1})`)

	result := mustExecute(t, e, `
		MATCH (i:Item)
		RETURN CASE i.n
			WHEN 1 THEN 'first'
			WHEN 1 THEN 'second'
		END AS hit`)
	if result.Rows[0][0] != "first" {
		t.Errorf("expected first, got %v", result.Rows[0][0])
	}
}

func TestSimpleCaseFallsToElse(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Color {value: 'green'})`)

	result := mustExecute(t, e, `
		MATCH (c:Color)
		RETURN CASE c.value
			WHEN 'blue' THEN 1
			WHEN 'red' THEN 2
			ELSE 3
		END AS code`)
	if result.Rows[0][0] != int64(3) {
		t.Errorf("expected 3, got %v", result.Rows[0][0])
	}
}

func TestCaseWithoutElseYieldsNull(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Color {value: 'green'})`)

	result := mustExecute(t, e, `
		MATCH (c:Color)
		RETURN CASE c.value
			WHEN 'blue' THEN 1
			WHEN 'red' THEN 2
		END AS code`)
	if result.Rows[0][0] != nil {
		t.Errorf("expected null, got %v", result.Rows[0][0])
	}
}

func TestSimpleCaseLargeIntegerDispatch(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Item {n: 9007199254740992})`)

	// the operand and the WHEN value differ by one but share a float64
	// representation; the arm must not match
	result := mustExecute(t, e, `
		MATCH (i:Item)
		RETURN CASE i.n
			WHEN 9007199254740993 THEN 'collapsed'
		END AS hit`)
	if result.Rows[0][0] != nil {
		t.Errorf("expected null, got %v", result.Rows[0][0])
	}
}

func TestSimpleCaseNullOperandNeverMatches(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Person {name: 'Daniel'})`)

	// WHEN null cannot match a null operand, since null = null is unknown
	result := mustExecute(t, e, `
		MATCH (p:Person)
		RETURN CASE p.age
			WHEN null THEN 'matched null'
			ELSE 'fell through'
		END AS outcome`)
	if result.Rows[0][0] != "fell through" {
		t.Errorf("expected fell through, got %v", result.Rows[0][0])
	}
}

func TestGenericCaseFirstTruePredicateWins(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Person {name: 'Ada', age: 36})`)

	result := mustExecute(t, e, `
		MATCH (p:Person)
		RETURN CASE
			WHEN p.age < 40 THEN 'young'
			WHEN p.age < 80 THEN 'older'
			ELSE 'venerable'
		END AS bracket`)
	if result.Rows[0][0] != "young" {
		t.Errorf("expected young, got %v", result.Rows[0][0])
	}
}

func TestGenericCaseUnknownPredicateSkipped(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Person {name: 'Daniel'})`)

	// p.age is absent, so p.age < 40 is unknown and the arm is skipped
	result := mustExecute(t, e, `
		MATCH (p:Person)
		RETURN CASE
			WHEN p.age < 40 THEN 'young'
			ELSE 'unknown age'
		END AS bracket`)
	if result.Rows[0][0] != "unknown age" {
		t.Errorf("expected unknown age, got %v", result.Rows[0][0])
	}
}

func TestGenericCaseIsNullArm(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Person {name: 'Daniel'})`)

	result := mustExecute(t, e, `
		MATCH (p:Person)
		RETURN CASE
			WHEN p.age IS NULL THEN -1
			ELSE p.age
		END AS age`)
	if result.Rows[0][0] != int64(-1) {
		t.Errorf("expected -1, got %v", result.Rows[0][0])
	}
}

func TestNestedCase(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Person {name: 'Ada', age: 36, eyes: 'brown'})`)

	result := mustExecute(t, e, `
		MATCH (p:Person)
		RETURN CASE
			WHEN p.age < 40 THEN
				CASE p.eyes WHEN 'brown' THEN 'young brown' ELSE 'young other' END
			ELSE 'older'
		END AS tag`)
	if result.Rows[0][0] != "young brown" {
		t.Errorf("expected young brown, got %v", result.Rows[0][0])
	}
}

func TestCaseInWhere(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Person {name: 'Ada', age: 36})`)
	mustExecute(t, e, `CREATE (:Person {name: 'Grace', age: 45})`)

	result := mustExecute(t, e, `
		MATCH (p:Person)
		WHERE CASE WHEN p.age < 40 THEN true ELSE false END
		RETURN p.name`)
	if result.Count != 1 || result.Rows[0][0] != "Ada" {
		t.Errorf("expected only Ada, got %v", result.Rows)
	}
}

func TestCaseResultAssignedWithSet(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Person {name: 'Ada', age: 36})`)

	mustExecute(t, e, `
		MATCH (p:Person)
		SET p.bracket = CASE WHEN p.age < 40 THEN 'young' ELSE 'older' END`)

	result := mustExecute(t, e, `MATCH (p:Person) RETURN p.bracket`)
	if result.Rows[0][0] != "young" {
		t.Errorf("expected young, got %v", result.Rows[0][0])
	}
}

func TestCaseMixedIntFloatOperand(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Reading {value: 2.0})`)

	// integer WHEN values compare numerically against a float operand
	result := mustExecute(t, e, `
		MATCH (r:Reading)
		RETURN CASE r.value WHEN 2 THEN 'two' ELSE 'other' END AS label`)
	if result.Rows[0][0] != "two" {
		t.Errorf("expected two, got %v", result.Rows[0][0])
	}
}
