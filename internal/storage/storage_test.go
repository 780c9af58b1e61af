package storage

import (
	"os"
	"path/filepath"
	"testing"

	"outfit-planner/internal/outfit"
	"outfit-planner/internal/planner"
)

func TestSnapshotStore(t *testing.T) {
	// Create a temporary directory for testing
	tempDir, err := os.MkdirTemp("", "storage_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	store, err := NewSnapshotStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create SnapshotStore: %v", err)
	}

	date := "2025-06-01"
	entry := &planner.Entry{
		Date:     date,
		ID:       12,
		Location: "Lisbon",
		Occasion: "Casual",
		Weather:  "Clear",
		Outfit:   []outfit.Item{{ID: 1, Name: "T-Shirt", Color: "Blue", Role: "top"}},
	}

	t.Run("CheckExists-False", func(t *testing.T) {
		if store.Exists(date) {
			t.Errorf("Expected no snapshot for '%s', but one exists", date)
		}
	})

	t.Run("Save", func(t *testing.T) {
		if err := store.Save(entry); err != nil {
			t.Fatalf("Failed to save plan: %v", err)
		}

		// Verify file was created
		filePath := filepath.Join(tempDir, date+".json")
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			t.Errorf("Expected file '%s' to be created, but it wasn't", filePath)
		}
	})

	t.Run("CheckExists-True", func(t *testing.T) {
		if !store.Exists(date) {
			t.Errorf("Expected a snapshot for '%s', but there is none", date)
		}
	})

	t.Run("Load", func(t *testing.T) {
		loaded, err := store.Load(date)
		if err != nil {
			t.Fatalf("Failed to load plan: %v", err)
		}

		if loaded.Location != entry.Location {
			t.Errorf("Expected location '%s', got '%s'", entry.Location, loaded.Location)
		}
		if len(loaded.Outfit) != 1 {
			t.Errorf("Expected 1 outfit item, got %d", len(loaded.Outfit))
		}
		if loaded.Outfit[0].Name != "T-Shirt" {
			t.Errorf("Expected item 'T-Shirt', got '%s'", loaded.Outfit[0].Name)
		}
	})

	t.Run("Load-NotFound", func(t *testing.T) {
		if _, err := store.Load("1999-01-01"); err == nil {
			t.Fatal("Expected an error for loading a missing snapshot, got nil")
		}
	})

	t.Run("SaveAll-ReplacesSet", func(t *testing.T) {
		plans := map[string]*planner.Entry{
			"2025-06-02": {Date: "2025-06-02", ID: 13},
			"2025-06-03": {Date: "2025-06-03", ID: 14},
		}
		if err := store.SaveAll(plans); err != nil {
			t.Fatalf("Failed to save all: %v", err)
		}
		if store.Exists(date) {
			t.Error("SaveAll should have replaced the old snapshot set")
		}

		loaded, err := store.LoadAll()
		if err != nil {
			t.Fatalf("Failed to load all: %v", err)
		}
		if len(loaded) != 2 {
			t.Errorf("Expected 2 snapshots, got %d", len(loaded))
		}
		if loaded["2025-06-03"] == nil || loaded["2025-06-03"].ID != 14 {
			t.Errorf("Unexpected snapshot content: %+v", loaded["2025-06-03"])
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete("2025-06-02"); err != nil {
			t.Fatalf("Failed to delete snapshot: %v", err)
		}
		if store.Exists("2025-06-02") {
			t.Error("Expected the snapshot to be gone")
		}
		// Deleting a missing snapshot is not an error.
		if err := store.Delete("2025-06-02"); err != nil {
			t.Errorf("Deleting a missing snapshot should be a no-op, got %v", err)
		}
	})
}
