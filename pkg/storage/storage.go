package storage

import (
	"fmt"
	"os"
	"sort"
	"sync"
)

var (
	ErrNodeNotFound = fmt.Errorf("node not found")
	ErrEdgeNotFound = fmt.Errorf("edge not found")
)

// GraphStorage is the core in-memory graph storage engine
type GraphStorage struct {
	// Core data structures
	nodes map[uint64]*Node
	edges map[uint64]*Edge

	// Indexes for fast lookups
	nodesByLabel  map[string][]uint64 // label -> node IDs
	edgesByType   map[string][]uint64 // edge type -> edge IDs
	outgoingEdges map[uint64][]uint64 // node ID -> outgoing edge IDs
	incomingEdges map[uint64][]uint64 // node ID -> incoming edge IDs

	// ID generators
	nextNodeID uint64
	nextEdgeID uint64

	// Concurrency control
	mu sync.RWMutex

	// Persistence
	dataDir string

	// Statistics
	stats Statistics
}

// Config holds configuration for GraphStorage
type Config struct {
	DataDir string
}

// NewGraphStorage creates a graph storage engine rooted at dataDir. If a
// snapshot exists there it is loaded before the storage is returned.
func NewGraphStorage(dataDir string) (*GraphStorage, error) {
	return NewGraphStorageWithConfig(Config{DataDir: dataDir})
}

// NewGraphStorageWithConfig creates a graph storage engine with custom config
func NewGraphStorageWithConfig(config Config) (*GraphStorage, error) {
	gs := &GraphStorage{
		nodes:         make(map[uint64]*Node),
		edges:         make(map[uint64]*Edge),
		nodesByLabel:  make(map[string][]uint64),
		edgesByType:   make(map[string][]uint64),
		outgoingEdges: make(map[uint64][]uint64),
		incomingEdges: make(map[uint64][]uint64),
		dataDir:       config.DataDir,
		nextNodeID:    1,
		nextEdgeID:    1,
	}

	if config.DataDir != "" {
		if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		if err := gs.LoadSnapshot(); err != nil {
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
	}

	return gs, nil
}

// Close releases the storage. In-memory state is not flushed implicitly;
// callers that want durability call Snapshot first.
func (gs *GraphStorage) Close() error {
	return nil
}

// AllNodeIDs returns every node ID in ascending order. Query execution
// iterates this to get deterministic scan order.
func (gs *GraphStorage) AllNodeIDs() []uint64 {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	ids := make([]uint64, 0, len(gs.nodes))
	for id := range gs.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// removeFromIndex removes an ID from an index slice in place
func removeFromIndex(index map[string][]uint64, key string, id uint64) {
	ids := index[key]
	for i, candidate := range ids {
		if candidate == id {
			index[key] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(index[key]) == 0 {
		delete(index, key)
	}
}

// removeEdgeRef removes an edge ID from an adjacency slice
func removeEdgeRef(adjacency map[uint64][]uint64, nodeID, edgeID uint64) {
	ids := adjacency[nodeID]
	for i, candidate := range ids {
		if candidate == edgeID {
			adjacency[nodeID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}
