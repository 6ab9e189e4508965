package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"HOUND_ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"HOUND_LOG_LEVEL" default:"info"`

	// Paths for persisted state. HistoryPath/RegistryPath/VocabPath/AuditDBPath
	// default to well-known names under DataDir when left empty.
	DataDir      string `envconfig:"HOUND_DATA_DIR" default:"data"`
	HistoryPath  string `envconfig:"HOUND_HISTORY_PATH" default:""`
	RegistryPath string `envconfig:"HOUND_REGISTRY_PATH" default:""`
	VocabPath    string `envconfig:"HOUND_VOCAB_PATH" default:""`
	AuditDBPath  string `envconfig:"HOUND_AUDIT_DB_PATH" default:""`

	// Fetch window and caps.
	LookbackDays      int `envconfig:"HOUND_LOOKBACK_DAYS" default:"7"`
	MaxItemsPerSource int `envconfig:"HOUND_MAX_ITEMS_PER_SOURCE" default:"100"`

	// Semantic scoring stage.
	ScoreConcurrency int           `envconfig:"HOUND_SCORE_CONCURRENCY" default:"4"`
	FetchTimeout     time.Duration `envconfig:"HOUND_FETCH_TIMEOUT" default:"30s"`
	ScoreTimeout     time.Duration `envconfig:"HOUND_SCORE_TIMEOUT" default:"60s"`

	ServeAddr string `envconfig:"HOUND_SERVE_ADDR" default:":8710"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("HOUND_DATA_DIR is required")
	}
	if c.LookbackDays < 1 {
		return fmt.Errorf("HOUND_LOOKBACK_DAYS must be >= 1")
	}
	if c.MaxItemsPerSource < 1 {
		return fmt.Errorf("HOUND_MAX_ITEMS_PER_SOURCE must be >= 1")
	}
	if c.ScoreConcurrency < 1 {
		return fmt.Errorf("HOUND_SCORE_CONCURRENCY must be >= 1")
	}
	return nil
}

func (c *Config) ResolvedHistoryPath() string {
	return c.resolve(c.HistoryPath, "seen_items.json")
}

func (c *Config) ResolvedRegistryPath() string {
	return c.resolve(c.RegistryPath, "sources.json")
}

func (c *Config) ResolvedVocabPath() string {
	return c.resolve(c.VocabPath, "vocabulary.yaml")
}

func (c *Config) ResolvedAuditDBPath() string {
	return c.resolve(c.AuditDBPath, "audit.db")
}

func (c *Config) resolve(explicit, name string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	return filepath.Join(c.DataDir, name)
}
