package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunImport_MemoryDryRun(t *testing.T) {
	dir := t.TempDir()
	doc := "---\ntitle: Garden Update\ncategory: news\n---\nThe beds are planted.\n"
	if err := os.WriteFile(filepath.Join(dir, "garden-update.md"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := runImport([]string{"-dir", dir}); err != nil {
		t.Fatalf("run import: %v", err)
	}
}

func TestRunImport_SQLitePersists(t *testing.T) {
	dir := t.TempDir()
	doc := "---\ntitle: Winter Appeal\ncategory: news\n---\nDonations keep the shelter open.\n"
	if err := os.WriteFile(filepath.Join(dir, "winter-appeal.md"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	dsn := filepath.Join(t.TempDir(), "site.db")
	if err := runImport([]string{"-dir", dir, "-db", dsn}); err != nil {
		t.Fatalf("run import into sqlite: %v", err)
	}

	// A second run updates the existing slug instead of failing on it.
	if err := runImport([]string{"-dir", dir, "-db", dsn}); err != nil {
		t.Fatalf("re-run import into sqlite: %v", err)
	}
}

func TestRunImport_MissingDirectory(t *testing.T) {
	if err := runImport([]string{"-dir", filepath.Join(t.TempDir(), "absent")}); err == nil {
		t.Fatalf("expected missing directory error")
	}
}
