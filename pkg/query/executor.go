package query

import (
	"fmt"

	"github.com/terndb/terndb/pkg/logging"
	"github.com/terndb/terndb/pkg/storage"
)

// Binding maps variable names to bound values. Nodes and edges bind
// as *storage.Node and *storage.Edge; parameters bind under "$name".
type Binding map[string]any

// ResultSet is the outcome of a query
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Count   int      `json:"count"`
}

// Executor runs parsed queries against graph storage
type Executor struct {
	storage *storage.GraphStorage
	logger  logging.Logger
}

// NewExecutor creates an executor over the given storage
func NewExecutor(store *storage.GraphStorage) *Executor {
	return &Executor{
		storage: store,
		logger:  logging.DefaultLogger().With(logging.Component("executor")),
	}
}

// Execute parses and runs a query with no parameters
func (e *Executor) Execute(input string) (*ResultSet, error) {
	return e.ExecuteWithParams(input, nil)
}

// ExecuteWithParams parses and runs a query. Parameters are made
// available to $name references.
func (e *Executor) ExecuteWithParams(input string, params map[string]any) (*ResultSet, error) {
	query, err := Parse(input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	e.storage.RecordQuery()

	initial := Binding{}
	for name, val := range params {
		initial["$"+name] = val
	}

	result, err := e.executeQuery(query, []Binding{initial})
	if err != nil {
		e.logger.Error("query failed", logging.Error(err))
		return nil, err
	}
	return result, nil
}

// executeQuery runs one query part over incoming bindings, recursing
// through WITH chains.
func (e *Executor) executeQuery(query *Query, bindings []Binding) (*ResultSet, error) {
	var err error

	if query.Match != nil {
		bindings, err = e.executeMatch(query.Match, bindings)
		if err != nil {
			return nil, err
		}
	}

	if query.Where != nil {
		bindings = e.filterBindings(query.Where.Condition, bindings)
	}

	if query.Create != nil {
		bindings, err = e.executeCreate(query.Create, bindings)
		if err != nil {
			return nil, err
		}
	}

	if query.Set != nil {
		if err := e.executeSet(query.Set, bindings); err != nil {
			return nil, err
		}
	}

	if query.Delete != nil {
		if err := e.executeDelete(query.Delete, bindings); err != nil {
			return nil, err
		}
	}

	if query.With != nil {
		bindings, err = e.projectWith(query.With, bindings)
		if err != nil {
			return nil, err
		}
		if query.Next == nil {
			return nil, fmt.Errorf("WITH must be followed by another clause")
		}
		return e.executeQuery(query.Next, bindings)
	}

	if query.Return != nil {
		return e.buildResults(query.Return, bindings)
	}

	// write-only query
	return &ResultSet{Columns: []string{}, Rows: [][]any{}, Count: 0}, nil
}

// filterBindings keeps bindings whose condition is definitely true.
// A condition that is false or unknown drops the binding; evaluation
// errors drop it too, with a log line rather than failing the query.
func (e *Executor) filterBindings(condition Expression, bindings []Binding) []Binding {
	filtered := make([]Binding, 0, len(bindings))
	for _, binding := range bindings {
		val, err := condition.EvalValue(binding)
		if err != nil {
			e.logger.Debug("filter skipped binding", logging.Error(err))
			continue
		}
		t, err := truthOf(val)
		if err != nil {
			e.logger.Debug("filter skipped binding", logging.Error(err))
			continue
		}
		if t == TruthTrue {
			filtered = append(filtered, binding)
		}
	}
	return filtered
}

// projectWith narrows each binding to the WITH items, applying the
// optional trailing WHERE to the projected values.
func (e *Executor) projectWith(with *WithClause, bindings []Binding) ([]Binding, error) {
	projected := make([]Binding, 0, len(bindings))
	for _, binding := range bindings {
		next := Binding{}
		// parameters stay visible across WITH
		for name, val := range binding {
			if len(name) > 0 && name[0] == '$' {
				next[name] = val
			}
		}
		for _, item := range with.Items {
			val, err := item.Expr.EvalValue(binding)
			if err != nil {
				return nil, err
			}
			next[item.ColumnName()] = val
		}
		projected = append(projected, next)
	}

	if with.Where != nil {
		projected = e.filterBindings(with.Where.Condition, projected)
	}
	return projected, nil
}

// executeMatch expands bindings with every match of every pattern
func (e *Executor) executeMatch(match *MatchClause, bindings []Binding) ([]Binding, error) {
	for _, pattern := range match.Patterns {
		var err error
		bindings, err = e.matchPattern(pattern, bindings)
		if err != nil {
			return nil, err
		}
		if len(bindings) == 0 {
			return bindings, nil
		}
	}
	return bindings, nil
}

// matchPattern produces the cross product of incoming bindings and
// pattern matches, respecting variables already bound.
func (e *Executor) matchPattern(pattern *Pattern, bindings []Binding) ([]Binding, error) {
	var result []Binding
	for _, binding := range bindings {
		matches, err := e.matchPath(pattern, binding)
		if err != nil {
			return nil, err
		}
		result = append(result, matches...)
	}
	return result, nil
}

// matchPath walks the pattern's node-edge-node chain
func (e *Executor) matchPath(pattern *Pattern, binding Binding) ([]Binding, error) {
	names := make([]string, len(pattern.Nodes))
	for i, np := range pattern.Nodes {
		names[i] = resolveVar(np.Variable, i)
	}

	candidates, err := e.matchNode(pattern.Nodes[0], names[0], binding)
	if err != nil {
		return nil, err
	}

	for i, edgePattern := range pattern.Edges {
		var next []Binding
		for _, b := range candidates {
			fromNode, ok := b[names[i]].(*storage.Node)
			if !ok {
				continue
			}
			expanded, err := e.traverseEdge(fromNode, edgePattern, pattern.Nodes[i+1], names[i+1], b)
			if err != nil {
				return nil, err
			}
			next = append(next, expanded...)
		}
		candidates = next
		if len(candidates) == 0 {
			break
		}
	}
	return candidates, nil
}

// resolveVar names anonymous pattern nodes so the walk can find them
func resolveVar(variable string, position int) string {
	if variable != "" {
		return variable
	}
	return fmt.Sprintf("_anon%d", position)
}

// matchNode finds all nodes matching the pattern, honoring a prior
// binding of the same variable.
func (e *Executor) matchNode(np *NodePattern, variable string, binding Binding) ([]Binding, error) {
	if existing, ok := binding[variable]; ok {
		node, isNode := existing.(*storage.Node)
		if !isNode {
			return nil, fmt.Errorf("variable %q is already bound to a non-node", variable)
		}
		matches, err := e.nodeMatches(node, np, binding)
		if err != nil {
			return nil, err
		}
		if matches {
			return []Binding{binding}, nil
		}
		return nil, nil
	}

	var results []Binding
	if len(np.Labels) > 0 {
		nodes, err := e.storage.FindNodesByLabel(np.Labels[0])
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			matches, err := e.nodeMatches(node, np, binding)
			if err != nil {
				return nil, err
			}
			if matches {
				results = append(results, bindingWith(binding, variable, node))
			}
		}
		return results, nil
	}

	for _, id := range e.storage.AllNodeIDs() {
		node, err := e.storage.GetNode(id)
		if err != nil {
			continue
		}
		matches, err := e.nodeMatches(node, np, binding)
		if err != nil {
			return nil, err
		}
		if matches {
			results = append(results, bindingWith(binding, variable, node))
		}
	}
	return results, nil
}

// traverseEdge expands one binding along edges matching the pattern
func (e *Executor) traverseEdge(from *storage.Node, ep *EdgePattern, target *NodePattern, targetVar string, binding Binding) ([]Binding, error) {
	var edges []*storage.Edge
	var err error

	if ep.Direction == DirectionOutgoing {
		edges, err = e.storage.GetOutgoingEdges(from.ID)
	} else {
		edges, err = e.storage.GetIncomingEdges(from.ID)
	}
	if err != nil {
		return nil, err
	}

	var results []Binding
	for _, edge := range edges {
		if ep.Type != "" && edge.Type != ep.Type {
			continue
		}
		matches, err := e.propertiesMatch(edge.Properties, ep.Properties, binding)
		if err != nil {
			return nil, err
		}
		if !matches {
			continue
		}

		otherID := edge.ToNodeID
		if ep.Direction == DirectionIncoming {
			otherID = edge.FromNodeID
		}
		other, err := e.storage.GetNode(otherID)
		if err != nil {
			continue
		}

		next := binding
		if ep.Variable != "" {
			next = bindingWith(next, ep.Variable, edge)
		}

		if existing, ok := next[targetVar]; ok {
			bound, isNode := existing.(*storage.Node)
			if !isNode || bound.ID != other.ID {
				continue
			}
			results = append(results, next)
			continue
		}

		ok, err := e.nodeMatches(other, target, next)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, bindingWith(next, targetVar, other))
		}
	}
	return results, nil
}

// nodeMatches checks labels and inline properties
func (e *Executor) nodeMatches(node *storage.Node, np *NodePattern, binding Binding) (bool, error) {
	for _, label := range np.Labels {
		if !node.HasLabel(label) {
			return false, nil
		}
	}
	return e.propertiesMatch(node.Properties, np.Properties, binding)
}

// propertiesMatch tests inline {key: value} constraints. Values may
// be parameters, resolved against the binding. Null constraints never
// match, since null equality is unknown.
func (e *Executor) propertiesMatch(have map[string]storage.Value, want map[string]any, binding Binding) (bool, error) {
	for key, raw := range want {
		expected, err := resolvePatternValue(raw, binding)
		if err != nil {
			return false, err
		}
		stored, ok := have[key]
		if !ok {
			return false, nil
		}
		if valueEquals(stored.Native(), expected) != TruthTrue {
			return false, nil
		}
	}
	return true, nil
}

// resolvePatternValue evaluates parameter references in pattern
// property maps; plain literals pass through.
func resolvePatternValue(raw any, binding Binding) (any, error) {
	if expr, ok := raw.(*ParameterExpression); ok {
		return expr.EvalValue(map[string]any(binding))
	}
	return raw, nil
}

// bindingWith copies a binding and adds one entry
func bindingWith(binding Binding, key string, value any) Binding {
	next := make(Binding, len(binding)+1)
	for k, v := range binding {
		next[k] = v
	}
	next[key] = value
	return next
}
