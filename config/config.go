// Package config holds the settings of a preparation run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Modes of a run.
const (
	ModeOffline     = "offline"
	ModeOnline      = "online"
	ModeOnlineTrain = "online_train"
)

// Config holds all tsprep configuration.
type Config struct {
	// Input
	DataDir string `yaml:"data_dir"`
	Dataset string `yaml:"dataset"`
	// Custom file for datasets not in the registry
	Source SourceConfig `yaml:"source"`

	// Output directory for archives and manifests (default: DataDir)
	OutputDir string `yaml:"output_dir"`

	Mode       string  `yaml:"mode"`
	HistoryLen int     `yaml:"history_len"`
	PredLen    int     `yaml:"pred_len"`
	BatchSize  int     `yaml:"batch_size"`
	ValRatio   float64 `yaml:"val_ratio"`
	TestRatio  float64 `yaml:"test_ratio"`
	Seed       uint64  `yaml:"seed"`

	Adjacency AdjacencyConfig `yaml:"adjacency"`
	Memory    MemoryConfig    `yaml:"memory"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SourceConfig describes a CSV file outside the built-in registry.
type SourceConfig struct {
	Path        string `yaml:"path"`
	HasHeader   bool   `yaml:"has_header"`
	SkipColumns int    `yaml:"skip_columns"`
}

// AdjacencyConfig selects a sensor graph to prepare alongside the series.
type AdjacencyConfig struct {
	Path string `yaml:"path"`
	Type string `yaml:"type"` // scalap, normlap, symnadj, transition, doubletransition, identity, original
}

// MemoryConfig bounds the memory a run may claim.
type MemoryConfig struct {
	// Fraction of available memory standardized windows may use (0 disables the check)
	MaxFraction float64 `yaml:"max_fraction"`
}

// ArtifactsConfig configures where prepared files are published.
type ArtifactsConfig struct {
	S3 S3Config `yaml:"s3"`
}

// S3Config configures an S3 or MinIO destination. Empty Bucket disables it.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:    "./data",
		Dataset:    "ETTh1",
		Mode:       ModeOffline,
		HistoryLen: 96,
		PredLen:    24,
		BatchSize:  32,
		ValRatio:   0.2,
		TestRatio:  0.2,
		Seed:       42,
		Adjacency: AdjacencyConfig{
			Type: "doubletransition",
		},
		Memory: MemoryConfig{
			MaxFraction: 0.8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path on top of the defaults. A missing file
// yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TSPREP_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("TSPREP_DATASET"); v != "" {
		c.Dataset = v
	}
	if v := os.Getenv("TSPREP_S3_BUCKET"); v != "" {
		c.Artifacts.S3.Bucket = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" && c.Artifacts.S3.AccessKeyID == "" {
		c.Artifacts.S3.AccessKeyID = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" && c.Artifacts.S3.SecretAccessKey == "" {
		c.Artifacts.S3.SecretAccessKey = v
	}
}

// Output returns the directory archives are written to.
func (c *Config) Output() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return c.DataDir
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeOffline, ModeOnline, ModeOnlineTrain:
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	if c.Dataset == "" {
		return errors.New("config: dataset must be set")
	}
	if c.HistoryLen <= 0 || c.PredLen <= 0 {
		return fmt.Errorf("config: history_len (%d) and pred_len (%d) must be positive", c.HistoryLen, c.PredLen)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("config: batch_size (%d) must be positive", c.BatchSize)
	}
	if c.ValRatio <= 0 || c.TestRatio <= 0 || c.ValRatio+c.TestRatio >= 1 {
		return fmt.Errorf("config: val_ratio (%.3f) and test_ratio (%.3f) must be positive and sum below 1", c.ValRatio, c.TestRatio)
	}
	if c.Memory.MaxFraction < 0 || c.Memory.MaxFraction > 1 {
		return fmt.Errorf("config: memory.max_fraction (%.3f) must be within [0, 1]", c.Memory.MaxFraction)
	}
	return nil
}
