// Package config loads icecore's runtime configuration, following the
// shape of the teacher's own server/config package: a yaml.v3-backed
// struct, a DefaultConfig, and a LoadFromFile that unmarshals over the
// defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is icecore's top-level runtime configuration.
type Config struct {
	Manifest ManifestConfig `yaml:"manifest"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LogConfig      `yaml:"logging"`
}

// ManifestConfig holds manifest-selection settings (spec.md §4.E, §4.F).
// They are only loaded and saved: the selector uses its own MinDataFiles
// constant and operations default to spec.DefaultBranch.
type ManifestConfig struct {
	MinDataFiles  int32  `yaml:"min_data_files"`
	DefaultBranch string `yaml:"default_branch"`
}

// CatalogConfig holds commit-retry settings (spec.md §4.H). They are only
// loaded and saved: Transaction.Commit does not read them and does not
// retry.
type CatalogConfig struct {
	MaxCommitRetries int           `yaml:"max_commit_retries"`
	RetryBackoff     time.Duration `yaml:"retry_backoff"`
}

// StorageConfig selects the object store backend (spec.md §9).
type StorageConfig struct {
	Type  string      `yaml:"type"` // "memory" or "minio"
	Minio MinioConfig `yaml:"minio,omitempty"`
}

// MinioConfig configures the MinIO/S3 object store adapter.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region,omitempty"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// LogConfig configures the zerolog writer (spec.md §2).
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// DefaultConfig returns icecore's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Manifest: ManifestConfig{
			MinDataFiles:  4,
			DefaultBranch: "main",
		},
		Catalog: CatalogConfig{
			MaxCommitRetries: 5,
			RetryBackoff:     100 * time.Millisecond,
		},
		Storage: StorageConfig{
			Type: "memory",
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadFromFile reads a YAML config file, unmarshaling over DefaultConfig
// so unset fields keep their default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
