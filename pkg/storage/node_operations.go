package storage

import (
	"fmt"
	"sync/atomic"
	"time"
)

// CreateNode creates a new node
func (gs *GraphStorage) CreateNode(labels []string, properties map[string]Value) (*Node, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.nextNodeID == ^uint64(0) {
		return nil, fmt.Errorf("node ID space exhausted")
	}

	nodeID := gs.nextNodeID
	gs.nextNodeID++

	if properties == nil {
		properties = make(map[string]Value)
	}

	now := time.Now().Unix()
	node := &Node{
		ID:         nodeID,
		Labels:     labels,
		Properties: properties,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	gs.nodes[nodeID] = node

	for _, label := range labels {
		gs.nodesByLabel[label] = append(gs.nodesByLabel[label], nodeID)
	}

	gs.outgoingEdges[nodeID] = make([]uint64, 0)
	gs.incomingEdges[nodeID] = make([]uint64, 0)

	atomic.AddUint64(&gs.stats.NodeCount, 1)

	return node.Clone(), nil
}

// GetNode retrieves a node by ID
func (gs *GraphStorage) GetNode(nodeID uint64) (*Node, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	node, exists := gs.nodes[nodeID]
	if !exists {
		return nil, ErrNodeNotFound
	}

	return node.Clone(), nil
}

// UpdateNode merges properties into a node. Setting a property to NullValue
// removes it, matching the query language's SET-to-null behavior.
func (gs *GraphStorage) UpdateNode(nodeID uint64, properties map[string]Value) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	node, exists := gs.nodes[nodeID]
	if !exists {
		return ErrNodeNotFound
	}

	for k, v := range properties {
		if v.IsNull() {
			delete(node.Properties, k)
			continue
		}
		node.Properties[k] = v
	}
	node.UpdatedAt = time.Now().Unix()

	return nil
}

// DeleteNode deletes a node and all edges attached to it
func (gs *GraphStorage) DeleteNode(nodeID uint64) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	node, exists := gs.nodes[nodeID]
	if !exists {
		return ErrNodeNotFound
	}

	// Collect attached edges first; deleting mutates the adjacency slices
	attached := make([]uint64, 0, len(gs.outgoingEdges[nodeID])+len(gs.incomingEdges[nodeID]))
	attached = append(attached, gs.outgoingEdges[nodeID]...)
	attached = append(attached, gs.incomingEdges[nodeID]...)
	for _, edgeID := range attached {
		gs.deleteEdgeLocked(edgeID)
	}

	for _, label := range node.Labels {
		removeFromIndex(gs.nodesByLabel, label, nodeID)
	}

	delete(gs.nodes, nodeID)
	delete(gs.outgoingEdges, nodeID)
	delete(gs.incomingEdges, nodeID)

	atomic.AddUint64(&gs.stats.NodeCount, ^uint64(0))

	return nil
}

// FindNodesByLabel returns all nodes carrying the given label
func (gs *GraphStorage) FindNodesByLabel(label string) ([]*Node, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	ids := gs.nodesByLabel[label]
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if node, ok := gs.nodes[id]; ok {
			nodes = append(nodes, node.Clone())
		}
	}
	return nodes, nil
}
