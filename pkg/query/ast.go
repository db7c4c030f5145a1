package query

// Query is the root of a parsed query
type Query struct {
	Match  *MatchClause
	Where  *WhereClause
	With   *WithClause
	Create *CreateClause
	Set    *SetClause
	Delete *DeleteClause
	Return *ReturnClause
	// Next holds the continuation after a WITH clause
	Next *Query
}

// MatchClause describes graph patterns to match
type MatchClause struct {
	Patterns []*Pattern
}

// Pattern is a node or a path through the graph
type Pattern struct {
	Nodes []*NodePattern
	Edges []*EdgePattern
}

// NodePattern matches a node: (variable:Label {prop: value})
type NodePattern struct {
	Variable   string
	Labels     []string
	Properties map[string]any
}

// EdgePattern matches an edge: -[variable:TYPE {prop: value}]->
type EdgePattern struct {
	Variable   string
	Type       string
	Properties map[string]any
	Direction  Direction
}

// Direction of an edge pattern
type Direction int

const (
	DirectionOutgoing Direction = iota
	DirectionIncoming
)

// WhereClause filters bindings by a predicate
type WhereClause struct {
	Condition Expression
}

// WithClause projects bindings and chains into the next query part
type WithClause struct {
	Items []*ReturnItem
	Where *WhereClause
}

// CreateClause creates nodes and edges
type CreateClause struct {
	Patterns []*Pattern
}

// SetClause assigns property values
type SetClause struct {
	Assignments []*Assignment
}

// Assignment sets variable.property to the value of an expression
type Assignment struct {
	Variable string
	Property string
	Value    Expression
}

// DeleteClause removes nodes or edges
type DeleteClause struct {
	Variables []string
	Detach    bool
}

// ReturnClause projects the final result
type ReturnClause struct {
	Items    []*ReturnItem
	Distinct bool
	OrderBy  []*OrderItem
	Skip     int
	Limit    int
	HasSkip  bool
	HasLimit bool
}

// ReturnItem is a single projected expression with an optional alias
type ReturnItem struct {
	Expr  Expression
	Alias string
}

// ColumnName is the alias if present, otherwise the expression text
func (ri *ReturnItem) ColumnName() string {
	if ri.Alias != "" {
		return ri.Alias
	}
	return ri.Expr.String()
}

// OrderItem is a sort key with direction
type OrderItem struct {
	Expr       Expression
	Descending bool
}
