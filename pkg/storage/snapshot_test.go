package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()

	gs, err := NewGraphStorage(dir)
	if err != nil {
		t.Fatalf("NewGraphStorage failed: %v", err)
	}

	alice, _ := gs.CreateNode([]string{"Person"}, map[string]Value{
		"name": StringValue("Alice"),
		"age":  IntValue(38),
	})
	bob, _ := gs.CreateNode([]string{"Person"}, map[string]Value{
		"name": StringValue("Bob"),
	})
	gs.CreateEdge(alice.ID, bob.ID, "KNOWS", map[string]Value{
		"since": IntValue(2019),
	}, 1.0)

	if err := gs.Snapshot(); err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	gs.Close()

	// Reopen from the same directory; the snapshot loads automatically
	restored, err := NewGraphStorage(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer restored.Close()

	stats := restored.GetStatistics()
	if stats.NodeCount != 2 || stats.EdgeCount != 1 {
		t.Fatalf("restored counts: nodes=%d edges=%d, want 2/1", stats.NodeCount, stats.EdgeCount)
	}

	node, err := restored.GetNode(alice.ID)
	if err != nil {
		t.Fatalf("GetNode after restore failed: %v", err)
	}
	age, _ := node.Properties["age"].AsInt()
	if age != 38 {
		t.Errorf("restored age = %d, want 38", age)
	}

	edges, _ := restored.GetOutgoingEdges(alice.ID)
	if len(edges) != 1 || edges[0].Type != "KNOWS" {
		t.Errorf("restored edges = %v", edges)
	}

	// New nodes must not reuse IDs from before the snapshot
	fresh, _ := restored.CreateNode([]string{"Person"}, nil)
	if fresh.ID == alice.ID || fresh.ID == bob.ID {
		t.Errorf("restored storage reused node ID %d", fresh.ID)
	}
}

func TestLoadSnapshot_MissingFileIsEmpty(t *testing.T) {
	gs, err := NewGraphStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewGraphStorage failed: %v", err)
	}
	defer gs.Close()

	if stats := gs.GetStatistics(); stats.NodeCount != 0 {
		t.Errorf("expected empty storage, got %d nodes", stats.NodeCount)
	}
}

func TestLoadSnapshot_RejectsCorruption(t *testing.T) {
	dir := t.TempDir()

	gs, _ := NewGraphStorage(dir)
	gs.CreateNode([]string{"Person"}, nil)
	if err := gs.Snapshot(); err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	gs.Close()

	path := filepath.Join(dir, snapshotFile)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	// Flip a payload byte so the checksum no longer matches
	data[len(data)-1] ^= 0xFF
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write corrupted snapshot: %v", err)
	}

	if _, err := NewGraphStorage(dir); err == nil {
		t.Fatal("expected checksum error opening corrupted snapshot")
	}
}
