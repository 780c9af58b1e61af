package metrics

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "planner.db"), make([]byte, 600), 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}
	sub := filepath.Join(dir, "plans")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "2025-06-01.json"), make([]byte, 424), 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	if got := dirSize(dir); got != 1024 {
		t.Errorf("Expected 1024 bytes, got %d", got)
	}
	if got := dirSize(filepath.Join(dir, "missing")); got != 0 {
		t.Errorf("A missing directory should count as zero, got %d", got)
	}
}

func TestHumanSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tc := range cases {
		if got := humanSize(tc.in); got != tc.want {
			t.Errorf("humanSize(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "planner.db"), make([]byte, 2048), 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	health := GetSysHealth(dir)
	if health.Goroutines < 1 {
		t.Errorf("Expected at least one goroutine, got %d", health.Goroutines)
	}
	if health.DiskUsage != "2.0 KB" {
		t.Errorf("Expected 2.0 KB on disk, got %q", health.DiskUsage)
	}
}
