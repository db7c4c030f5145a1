package storage

import (
	"fmt"
	"sync/atomic"
	"time"
)

// CreateEdge creates a directed edge between two existing nodes
func (gs *GraphStorage) CreateEdge(fromNodeID, toNodeID uint64, edgeType string, properties map[string]Value, weight float64) (*Edge, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if _, exists := gs.nodes[fromNodeID]; !exists {
		return nil, fmt.Errorf("from node %d: %w", fromNodeID, ErrNodeNotFound)
	}
	if _, exists := gs.nodes[toNodeID]; !exists {
		return nil, fmt.Errorf("to node %d: %w", toNodeID, ErrNodeNotFound)
	}

	if gs.nextEdgeID == ^uint64(0) {
		return nil, fmt.Errorf("edge ID space exhausted")
	}

	edgeID := gs.nextEdgeID
	gs.nextEdgeID++

	if properties == nil {
		properties = make(map[string]Value)
	}

	edge := &Edge{
		ID:         edgeID,
		FromNodeID: fromNodeID,
		ToNodeID:   toNodeID,
		Type:       edgeType,
		Properties: properties,
		Weight:     weight,
		CreatedAt:  time.Now().Unix(),
	}

	gs.edges[edgeID] = edge
	gs.edgesByType[edgeType] = append(gs.edgesByType[edgeType], edgeID)
	gs.outgoingEdges[fromNodeID] = append(gs.outgoingEdges[fromNodeID], edgeID)
	gs.incomingEdges[toNodeID] = append(gs.incomingEdges[toNodeID], edgeID)

	atomic.AddUint64(&gs.stats.EdgeCount, 1)

	return edge.Clone(), nil
}

// GetEdge retrieves an edge by ID
func (gs *GraphStorage) GetEdge(edgeID uint64) (*Edge, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	edge, exists := gs.edges[edgeID]
	if !exists {
		return nil, ErrEdgeNotFound
	}
	return edge.Clone(), nil
}

// DeleteEdge deletes an edge by ID
func (gs *GraphStorage) DeleteEdge(edgeID uint64) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.deleteEdgeLocked(edgeID)
}

// deleteEdgeLocked requires gs.mu to be held for writing
func (gs *GraphStorage) deleteEdgeLocked(edgeID uint64) error {
	edge, exists := gs.edges[edgeID]
	if !exists {
		return ErrEdgeNotFound
	}

	removeFromIndex(gs.edgesByType, edge.Type, edgeID)
	removeEdgeRef(gs.outgoingEdges, edge.FromNodeID, edgeID)
	removeEdgeRef(gs.incomingEdges, edge.ToNodeID, edgeID)
	delete(gs.edges, edgeID)

	atomic.AddUint64(&gs.stats.EdgeCount, ^uint64(0))

	return nil
}

// GetOutgoingEdges returns edges leaving the node
func (gs *GraphStorage) GetOutgoingEdges(nodeID uint64) ([]*Edge, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	if _, exists := gs.nodes[nodeID]; !exists {
		return nil, ErrNodeNotFound
	}

	ids := gs.outgoingEdges[nodeID]
	edges := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		if edge, ok := gs.edges[id]; ok {
			edges = append(edges, edge.Clone())
		}
	}
	return edges, nil
}

// GetIncomingEdges returns edges arriving at the node
func (gs *GraphStorage) GetIncomingEdges(nodeID uint64) ([]*Edge, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	if _, exists := gs.nodes[nodeID]; !exists {
		return nil, ErrNodeNotFound
	}

	ids := gs.incomingEdges[nodeID]
	edges := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		if edge, ok := gs.edges[id]; ok {
			edges = append(edges, edge.Clone())
		}
	}
	return edges, nil
}
