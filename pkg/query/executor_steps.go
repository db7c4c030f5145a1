package query

import (
	"fmt"

	"github.com/terndb/terndb/pkg/storage"
)

// executeCreate builds the nodes and edges of each pattern. Variables
// already bound are reused, so MATCH ... CREATE can attach edges to
// existing nodes.
func (e *Executor) executeCreate(create *CreateClause, bindings []Binding) ([]Binding, error) {
	result := make([]Binding, 0, len(bindings))
	for _, binding := range bindings {
		updated, err := e.createPattern(create.Patterns, binding)
		if err != nil {
			return nil, err
		}
		result = append(result, updated)
	}
	return result, nil
}

func (e *Executor) createPattern(patterns []*Pattern, binding Binding) (Binding, error) {
	for _, pattern := range patterns {
		nodes := make([]*storage.Node, len(pattern.Nodes))

		for i, np := range pattern.Nodes {
			variable := resolveVar(np.Variable, i)
			if existing, ok := binding[variable]; ok {
				node, isNode := existing.(*storage.Node)
				if !isNode {
					return nil, fmt.Errorf("variable %q is already bound to a non-node", variable)
				}
				nodes[i] = node
				continue
			}

			props, err := e.storageProperties(np.Properties, binding)
			if err != nil {
				return nil, err
			}
			node, err := e.storage.CreateNode(np.Labels, props)
			if err != nil {
				return nil, err
			}
			nodes[i] = node
			binding = bindingWith(binding, variable, node)
		}

		for i, ep := range pattern.Edges {
			from, to := nodes[i], nodes[i+1]
			if ep.Direction == DirectionIncoming {
				from, to = to, from
			}
			props, err := e.storageProperties(ep.Properties, binding)
			if err != nil {
				return nil, err
			}
			edge, err := e.storage.CreateEdge(from.ID, to.ID, ep.Type, props, 1.0)
			if err != nil {
				return nil, err
			}
			if ep.Variable != "" {
				binding = bindingWith(binding, ep.Variable, edge)
			}
		}
	}
	return binding, nil
}

// storageProperties converts parsed pattern properties to stored
// values, resolving parameter references.
func (e *Executor) storageProperties(props map[string]any, binding Binding) (map[string]storage.Value, error) {
	if len(props) == 0 {
		return nil, nil
	}
	result := make(map[string]storage.Value, len(props))
	for key, raw := range props {
		val, err := resolvePatternValue(raw, binding)
		if err != nil {
			return nil, err
		}
		result[key] = storage.FromNative(val)
	}
	return result, nil
}

// executeSet applies property assignments to every binding. The
// right-hand side is a full expression, so CASE results can be
// written back. Assigning null removes the property.
func (e *Executor) executeSet(set *SetClause, bindings []Binding) error {
	for _, binding := range bindings {
		for _, assign := range set.Assignments {
			entity, ok := binding[assign.Variable]
			if !ok {
				return fmt.Errorf("variable %q is not bound", assign.Variable)
			}
			node, isNode := entity.(*storage.Node)
			if !isNode {
				return fmt.Errorf("SET requires a node variable, %q is %T", assign.Variable, entity)
			}

			val, err := assign.Value.EvalValue(binding)
			if err != nil {
				return err
			}

			update := map[string]storage.Value{
				assign.Property: storage.FromNative(val),
			}
			if err := e.storage.UpdateNode(node.ID, update); err != nil {
				return err
			}

			// keep the bound copy in step with storage
			if val == nil {
				delete(node.Properties, assign.Property)
			} else {
				if node.Properties == nil {
					node.Properties = make(map[string]storage.Value)
				}
				node.Properties[assign.Property] = storage.FromNative(val)
			}
		}
	}
	return nil
}

// executeDelete removes bound nodes and edges. Deleting a node that
// still has edges requires DETACH DELETE.
func (e *Executor) executeDelete(del *DeleteClause, bindings []Binding) error {
	deletedNodes := make(map[uint64]bool)
	deletedEdges := make(map[uint64]bool)

	for _, binding := range bindings {
		for _, variable := range del.Variables {
			entity, ok := binding[variable]
			if !ok {
				return fmt.Errorf("variable %q is not bound", variable)
			}

			switch v := entity.(type) {
			case *storage.Node:
				if deletedNodes[v.ID] {
					continue
				}
				if !del.Detach {
					if err := e.checkNodeDetached(v.ID, deletedEdges); err != nil {
						return err
					}
				}
				if err := e.storage.DeleteNode(v.ID); err != nil {
					return err
				}
				deletedNodes[v.ID] = true

			case *storage.Edge:
				if deletedEdges[v.ID] {
					continue
				}
				if err := e.storage.DeleteEdge(v.ID); err != nil {
					return err
				}
				deletedEdges[v.ID] = true

			default:
				return fmt.Errorf("cannot delete %q, it is %T", variable, entity)
			}
		}
	}
	return nil
}

func (e *Executor) checkNodeDetached(nodeID uint64, deletedEdges map[uint64]bool) error {
	outgoing, err := e.storage.GetOutgoingEdges(nodeID)
	if err != nil {
		return err
	}
	incoming, err := e.storage.GetIncomingEdges(nodeID)
	if err != nil {
		return err
	}
	for _, edge := range append(outgoing, incoming...) {
		if !deletedEdges[edge.ID] {
			return fmt.Errorf("cannot delete node %d, it still has edges; use DETACH DELETE", nodeID)
		}
	}
	return nil
}
