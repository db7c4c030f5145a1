package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/snappy"
)

const (
	snapshotFile  = "snapshot.tdb"
	snapshotMagic = uint32(0x7E12_4DB0)
)

// snapshotPayload is the serialized form of the whole graph
type snapshotPayload struct {
	Nodes      []*Node `json:"nodes"`
	Edges      []*Edge `json:"edges"`
	NextNodeID uint64  `json:"next_node_id"`
	NextEdgeID uint64  `json:"next_edge_id"`
}

// Snapshot writes the entire graph to disk as snappy-compressed JSON.
// The file layout is: magic (4B) | payload length (8B) | crc32 (4B) | payload.
// The write goes to a temp file first and is renamed into place.
func (gs *GraphStorage) Snapshot() error {
	if gs.dataDir == "" {
		return fmt.Errorf("snapshot requires a data directory")
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	payload := snapshotPayload{
		Nodes:      make([]*Node, 0, len(gs.nodes)),
		Edges:      make([]*Edge, 0, len(gs.edges)),
		NextNodeID: gs.nextNodeID,
		NextEdgeID: gs.nextEdgeID,
	}
	for _, node := range gs.nodes {
		payload.Nodes = append(payload.Nodes, node)
	}
	for _, edge := range gs.edges {
		payload.Edges = append(payload.Edges, edge)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	compressed := snappy.Encode(nil, raw)

	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[0:4], snapshotMagic)
	binary.LittleEndian.PutUint64(header[4:12], uint64(len(compressed)))
	binary.LittleEndian.PutUint32(header[12:16], crc32.ChecksumIEEE(compressed))

	tmpPath := filepath.Join(gs.dataDir, snapshotFile+".tmp")
	finalPath := filepath.Join(gs.dataDir, snapshotFile)

	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	if _, err := file.Write(header); err != nil {
		file.Close()
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	if _, err := file.Write(compressed); err != nil {
		file.Close()
		return fmt.Errorf("failed to write snapshot payload: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}

	gs.stats.LastSnapshot = time.Now()
	return nil
}

// LoadSnapshot restores the graph from the snapshot file, if one exists.
// A missing file is not an error; the storage simply starts empty.
func (gs *GraphStorage) LoadSnapshot() error {
	if gs.dataDir == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(gs.dataDir, snapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if len(data) < 16 {
		return fmt.Errorf("snapshot truncated: %d bytes", len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != snapshotMagic {
		return fmt.Errorf("snapshot has bad magic %#x", magic)
	}
	length := binary.LittleEndian.Uint64(data[4:12])
	checksum := binary.LittleEndian.Uint32(data[12:16])
	compressed := data[16:]
	if uint64(len(compressed)) != length {
		return fmt.Errorf("snapshot payload length mismatch: header %d, actual %d", length, len(compressed))
	}
	if crc := crc32.ChecksumIEEE(compressed); crc != checksum {
		return fmt.Errorf("snapshot checksum mismatch: header %#x, actual %#x", checksum, crc)
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return fmt.Errorf("failed to decompress snapshot: %w", err)
	}

	var payload snapshotPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.nodes = make(map[uint64]*Node, len(payload.Nodes))
	gs.edges = make(map[uint64]*Edge, len(payload.Edges))
	gs.nodesByLabel = make(map[string][]uint64)
	gs.edgesByType = make(map[string][]uint64)
	gs.outgoingEdges = make(map[uint64][]uint64)
	gs.incomingEdges = make(map[uint64][]uint64)

	for _, node := range payload.Nodes {
		gs.nodes[node.ID] = node
		for _, label := range node.Labels {
			gs.nodesByLabel[label] = append(gs.nodesByLabel[label], node.ID)
		}
		gs.outgoingEdges[node.ID] = make([]uint64, 0)
		gs.incomingEdges[node.ID] = make([]uint64, 0)
	}
	for _, edge := range payload.Edges {
		gs.edges[edge.ID] = edge
		gs.edgesByType[edge.Type] = append(gs.edgesByType[edge.Type], edge.ID)
		gs.outgoingEdges[edge.FromNodeID] = append(gs.outgoingEdges[edge.FromNodeID], edge.ID)
		gs.incomingEdges[edge.ToNodeID] = append(gs.incomingEdges[edge.ToNodeID], edge.ID)
	}

	gs.nextNodeID = payload.NextNodeID
	gs.nextEdgeID = payload.NextEdgeID
	if gs.nextNodeID == 0 {
		gs.nextNodeID = 1
	}
	if gs.nextEdgeID == 0 {
		gs.nextEdgeID = 1
	}

	gs.stats.NodeCount = uint64(len(payload.Nodes))
	gs.stats.EdgeCount = uint64(len(payload.Edges))

	return nil
}
