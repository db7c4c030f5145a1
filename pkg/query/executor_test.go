package query

import (
	"testing"

	"github.com/terndb/terndb/pkg/storage"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	store, err := storage.NewGraphStorage("")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return NewExecutor(store)
}

func mustExecute(t *testing.T, e *Executor, query string) *ResultSet {
	t.Helper()
	result, err := e.Execute(query)
	if err != nil {
		t.Fatalf("query %q failed: %v", query, err)
	}
	return result
}

func column(t *testing.T, rs *ResultSet, name string) []any {
	t.Helper()
	idx := -1
	for i, col := range rs.Columns {
		if col == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.Fatalf("column %q not found in %v", name, rs.Columns)
	}
	values := make([]any, len(rs.Rows))
	for i, row := range rs.Rows {
		values[i] = row[idx]
	}
	return values
}

func TestCreateAndMatch(t *testing.T) {
	e := newTestExecutor(t)

	mustExecute(t, e, `CREATE (a:Person {name: 'Ada', age: 36})`)
	mustExecute(t, e, `CREATE (b:Person {name: 'Grace', age: 45})`)

	result := mustExecute(t, e, `MATCH (n:Person) RETURN n.name AS name ORDER BY name`)
	if result.Count != 2 {
		t.Fatalf("expected 2 rows, got %d", result.Count)
	}
	names := column(t, result, "name")
	if names[0] != "Ada" || names[1] != "Grace" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestMatchWithEdges(t *testing.T) {
	e := newTestExecutor(t)

	mustExecute(t, e, `CREATE (a:Person {name: 'Ada'})-[:KNOWS]->(b:Person {name: 'Grace'})`)
	mustExecute(t, e, `MATCH (a:Person {name: 'Grace'}) CREATE (a)-[:KNOWS]->(c:Person {name: 'Barbara'})`)

	result := mustExecute(t, e, `MATCH (a:Person)-[:KNOWS]->(b:Person) RETURN a.name AS src, b.name AS dst ORDER BY src`)
	if result.Count != 2 {
		t.Fatalf("expected 2 rows, got %d", result.Count)
	}
	src := column(t, result, "src")
	dst := column(t, result, "dst")
	if src[0] != "Ada" || dst[0] != "Grace" {
		t.Errorf("unexpected first edge: %v -> %v", src[0], dst[0])
	}
	if src[1] != "Grace" || dst[1] != "Barbara" {
		t.Errorf("unexpected second edge: %v -> %v", src[1], dst[1])
	}
}

func TestMatchIncomingDirection(t *testing.T) {
	e := newTestExecutor(t)

	mustExecute(t, e, `CREATE (a:Person {name: 'Ada'})-[:KNOWS]->(b:Person {name: 'Grace'})`)

	result := mustExecute(t, e, `MATCH (b:Person)<-[:KNOWS]-(a:Person) RETURN b.name AS name`)
	if result.Count != 1 {
		t.Fatalf("expected 1 row, got %d", result.Count)
	}
	if result.Rows[0][0] != "Grace" {
		t.Errorf("expected Grace, got %v", result.Rows[0][0])
	}
}

func TestWhereFiltering(t *testing.T) {
	e := newTestExecutor(t)

	mustExecute(t, e, `CREATE (:Person {name: 'Ada', age: 36})`)
	mustExecute(t, e, `CREATE (:Person {name: 'Grace', age: 45})`)
	mustExecute(t, e, `CREATE (:Person {name: 'Unknown'})`)

	// the ageless node is neither kept by age > 40 nor by NOT(age > 40)
	over := mustExecute(t, e, `MATCH (n:Person) WHERE n.age > 40 RETURN n.name`)
	if over.Count != 1 || over.Rows[0][0] != "Grace" {
		t.Errorf("age > 40: expected only Grace, got %v", over.Rows)
	}

	notOver := mustExecute(t, e, `MATCH (n:Person) WHERE NOT n.age > 40 RETURN n.name`)
	if notOver.Count != 1 || notOver.Rows[0][0] != "Ada" {
		t.Errorf("NOT age > 40: expected only Ada, got %v", notOver.Rows)
	}
}

func TestSetUpdatesProperty(t *testing.T) {
	e := newTestExecutor(t)

	mustExecute(t, e, `CREATE (:Person {name: 'Ada', age: 36})`)
	mustExecute(t, e, `MATCH (n:Person {name: 'Ada'}) SET n.age = n.age + 1`)

	result := mustExecute(t, e, `MATCH (n:Person {name: 'Ada'}) RETURN n.age`)
	if result.Rows[0][0] != int64(37) {
		t.Errorf("expected 37, got %v", result.Rows[0][0])
	}
}

func TestSetNullRemovesProperty(t *testing.T) {
	e := newTestExecutor(t)

	mustExecute(t, e, `CREATE (:Person {name: 'Ada', age: 36})`)
	mustExecute(t, e, `MATCH (n:Person {name: 'Ada'}) SET n.age = null`)

	result := mustExecute(t, e, `MATCH (n:Person {name: 'Ada'}) RETURN n.age IS NULL AS gone`)
	if result.Rows[0][0] != true {
		t.Errorf("expected age to be removed, got %v", result.Rows[0][0])
	}
}

func TestDeleteRequiresDetach(t *testing.T) {
	e := newTestExecutor(t)

	mustExecute(t, e, `CREATE (a:Person {name: 'Ada'})-[:KNOWS]->(b:Person {name: 'Grace'})`)

	if _, err := e.Execute(`MATCH (n:Person {name: 'Ada'}) DELETE n`); err == nil {
		t.Fatal("expected DELETE of a connected node to fail")
	}

	mustExecute(t, e, `MATCH (n:Person {name: 'Ada'}) DETACH DELETE n`)
	remaining := mustExecute(t, e, `MATCH (n:Person) RETURN n.name`)
	if remaining.Count != 1 || remaining.Rows[0][0] != "Grace" {
		t.Errorf("expected only Grace to remain, got %v", remaining.Rows)
	}
}

func TestWithChaining(t *testing.T) {
	e := newTestExecutor(t)

	mustExecute(t, e, `CREATE (:Person {name: 'Ada', age: 36})`)
	mustExecute(t, e, `CREATE (:Person {name: 'Grace', age: 45})`)
	mustExecute(t, e, `CREATE (:Person {name: 'Barbara', age: 71})`)

	result := mustExecute(t, e, `
		MATCH (n:Person)
		WITH n.name AS name, n.age AS age WHERE age > 40
		RETURN name ORDER BY name`)
	names := column(t, result, "name")
	if len(names) != 2 || names[0] != "Barbara" || names[1] != "Grace" {
		t.Errorf("expected [Barbara Grace], got %v", names)
	}
}

func TestDistinct(t *testing.T) {
	e := newTestExecutor(t)

	mustExecute(t, e, `CREATE (:Person {name: 'Ada', eyes: 'brown'})`)
	mustExecute(t, e, `CREATE (:Person {name: 'Grace', eyes: 'brown'})`)
	mustExecute(t, e, `CREATE (:Person {name: 'Barbara', eyes: 'blue'})`)

	result := mustExecute(t, e, `MATCH (n:Person) RETURN DISTINCT n.eyes AS eyes ORDER BY eyes`)
	eyes := column(t, result, "eyes")
	if len(eyes) != 2 || eyes[0] != "blue" || eyes[1] != "brown" {
		t.Errorf("expected [blue brown], got %v", eyes)
	}
}

func TestSkipAndLimit(t *testing.T) {
	e := newTestExecutor(t)

	for _, name := range []string{"a", "b", "c", "d"} {
		mustExecute(t, e, `CREATE (:Item {name: '`+name+`'})`)
	}

	result := mustExecute(t, e, `MATCH (n:Item) RETURN n.name AS name ORDER BY name SKIP 1 LIMIT 2`)
	names := column(t, result, "name")
	if len(names) != 2 || names[0] != "b" || names[1] != "c" {
		t.Errorf("expected [b c], got %v", names)
	}
}

func TestOrderByDescendingNullsFirst(t *testing.T) {
	e := newTestExecutor(t)

	mustExecute(t, e, `CREATE (:Person {name: 'Ada', age: 36})`)
	mustExecute(t, e, `CREATE (:Person {name: 'Unknown'})`)
	mustExecute(t, e, `CREATE (:Person {name: 'Grace', age: 45})`)

	asc := mustExecute(t, e, `MATCH (n:Person) RETURN n.name AS name ORDER BY n.age`)
	names := column(t, asc, "name")
	if names[0] != "Ada" || names[1] != "Grace" || names[2] != "Unknown" {
		t.Errorf("ascending: expected nulls last, got %v", names)
	}

	desc := mustExecute(t, e, `MATCH (n:Person) RETURN n.name AS name ORDER BY n.age DESC`)
	names = column(t, desc, "name")
	if names[0] != "Unknown" || names[1] != "Grace" || names[2] != "Ada" {
		t.Errorf("descending: expected nulls first, got %v", names)
	}
}

func TestParameters(t *testing.T) {
	e := newTestExecutor(t)

	mustExecute(t, e, `CREATE (:Person {name: 'Ada', age: 36})`)
	mustExecute(t, e, `CREATE (:Person {name: 'Grace', age: 45})`)

	result, err := e.ExecuteWithParams(`MATCH (n:Person) WHERE n.age > $min RETURN n.name`, map[string]any{"min": int64(40)})
	if err != nil {
		t.Fatalf("parameterized query failed: %v", err)
	}
	if result.Count != 1 || result.Rows[0][0] != "Grace" {
		t.Errorf("expected Grace, got %v", result.Rows)
	}

	byName, err := e.ExecuteWithParams(`MATCH (n:Person {name: $name}) RETURN n.age`, map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("parameterized pattern failed: %v", err)
	}
	if byName.Count != 1 || byName.Rows[0][0] != int64(36) {
		t.Errorf("expected 36, got %v", byName.Rows)
	}
}

func TestUnboundParameterDropsRows(t *testing.T) {
	e := newTestExecutor(t)
	mustExecute(t, e, `CREATE (:Person {name: 'Ada'})`)

	// the filter is lenient: an unbound parameter drops the binding
	// rather than failing the whole query
	result := mustExecute(t, e, `MATCH (n:Person) WHERE n.name = $name RETURN n`)
	if result.Count != 0 {
		t.Errorf("expected no rows for unbound parameter, got %d", result.Count)
	}
}

func TestFunctionCalls(t *testing.T) {
	e := newTestExecutor(t)

	mustExecute(t, e, `CREATE (:Person {name: 'Ada'})`)
	mustExecute(t, e, `CREATE (:Person {name: 'Unknown'})`)

	result := mustExecute(t, e, `MATCH (n:Person {name: 'Ada'}) RETURN toUpper(n.name) AS up, size(n.name) AS len`)
	if result.Rows[0][0] != "ADA" {
		t.Errorf("expected ADA, got %v", result.Rows[0][0])
	}
	if result.Rows[0][1] != int64(3) {
		t.Errorf("expected 3, got %v", result.Rows[0][1])
	}

	coalesced := mustExecute(t, e, `MATCH (n:Person {name: 'Unknown'}) RETURN coalesce(n.age, -1) AS age`)
	if coalesced.Rows[0][0] != int64(-1) {
		t.Errorf("expected -1, got %v", coalesced.Rows[0][0])
	}
}
