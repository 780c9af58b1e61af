package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"outfit-planner/internal/planner"
)

// SnapshotStore provides file-based offline snapshots of saved plans, one
// JSON file per date. The backend stays authoritative; snapshots let the
// CLI show the last known plans when the backend is unreachable.
type SnapshotStore struct {
	basePath string
}

// NewSnapshotStore creates a new SnapshotStore and ensures the base directory exists.
func NewSnapshotStore(basePath string) (*SnapshotStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &SnapshotStore{basePath: basePath}, nil
}

func (s *SnapshotStore) pathFor(date string) string {
	return filepath.Join(s.basePath, date+".json")
}

// Save stores one plan entry as that date's snapshot, replacing any
// previous snapshot for the date.
func (s *SnapshotStore) Save(entry *planner.Entry) error {
	if entry == nil || entry.Date == "" {
		return fmt.Errorf("snapshot needs a dated entry")
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := os.WriteFile(s.pathFor(entry.Date), data, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// SaveAll replaces the whole snapshot set with the given saved map.
func (s *SnapshotStore) SaveAll(plans map[string]*planner.Entry) error {
	if err := s.Clear(); err != nil {
		return err
	}
	for _, entry := range plans {
		if err := s.Save(entry); err != nil {
			return err
		}
	}
	return nil
}

// Load retrieves the snapshot for one date.
func (s *SnapshotStore) Load(date string) (*planner.Entry, error) {
	data, err := os.ReadFile(s.pathFor(date))
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var entry planner.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	return &entry, nil
}

// LoadAll reads every snapshot, keyed by date.
func (s *SnapshotStore) LoadAll() (map[string]*planner.Entry, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob plan files: %w", err)
	}
	sort.Strings(matches)

	plans := make(map[string]*planner.Entry, len(matches))
	for _, match := range matches {
		date := filepath.Base(match)
		date = date[:len(date)-len(".json")]
		entry, err := s.Load(date)
		if err != nil {
			return nil, err
		}
		plans[date] = entry
	}
	return plans, nil
}

// Exists checks if a snapshot exists for the date.
func (s *SnapshotStore) Exists(date string) bool {
	_, err := os.Stat(s.pathFor(date))
	return !os.IsNotExist(err)
}

// Delete removes the snapshot for one date, if any.
func (s *SnapshotStore) Delete(date string) error {
	err := os.Remove(s.pathFor(date))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove plan file: %w", err)
	}
	return nil
}

// Clear removes every snapshot.
func (s *SnapshotStore) Clear() error {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to glob plan files: %w", err)
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return fmt.Errorf("failed to remove stale file %s: %w", match, err)
		}
	}
	return nil
}
