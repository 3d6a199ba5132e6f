package config

import (
	"os"
	"testing"
)

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	content := `
manifest:
  min_data_files: 8
  default_branch: "dev"
storage:
  type: "minio"
  minio:
    endpoint: "localhost:9000"
    bucket: "warehouse"
`
	tmpFile, err := os.CreateTemp("", "icecore-config-*.yml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("failed to write config content: %v", err)
	}

	cfg, err := LoadFromFile(tmpFile.Name())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Manifest.MinDataFiles != 8 {
		t.Errorf("expected min_data_files 8, got %d", cfg.Manifest.MinDataFiles)
	}
	if cfg.Manifest.DefaultBranch != "dev" {
		t.Errorf("expected default_branch dev, got %q", cfg.Manifest.DefaultBranch)
	}
	if cfg.Storage.Minio.Bucket != "warehouse" {
		t.Errorf("expected bucket warehouse, got %q", cfg.Storage.Minio.Bucket)
	}
	// unset fields keep their defaults
	if cfg.Catalog.MaxCommitRetries != 5 {
		t.Errorf("expected default max_commit_retries 5, got %d", cfg.Catalog.MaxCommitRetries)
	}
}

func TestLoadFromFileMissingFileErrors(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/icecore-config.yml"); err == nil {
		t.Fatal("expected an error loading a missing config file")
	}
}
