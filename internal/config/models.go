package config

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Accepted pipeline settings
const (
	VisibilityAll     = "all"
	VisibilityPrivate = "private"

	StrategySequential = "sequential"
	StrategyBatched    = "batched"

	WindowCreated = "created"
	WindowUpdated = "updated"
)

// Config holds application configuration.
type Config struct {
	GitHub   GitHubConfig   `mapstructure:"github"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Output   OutputConfig   `mapstructure:"output"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Validate ensures required fields are present and enums are known.
func (c Config) Validate() error {
	if c.GitHub.Token == "" {
		return errors.New("GITHUB_TOKEN is required")
	}
	if c.GitHub.Org == "" {
		return errors.New("GITHUB_ORG is required")
	}
	if c.HTTP.RequestTimeout <= 0 {
		return errors.New("http.request_timeout must be positive")
	}
	if c.Batch.Size < 1 {
		return fmt.Errorf("batch.size must be at least 1, got %d", c.Batch.Size)
	}
	if c.Batch.CommitStatsLimit < 1 {
		return fmt.Errorf("batch.commit_stats_limit must be at least 1, got %d", c.Batch.CommitStatsLimit)
	}
	if !slices.Contains([]string{VisibilityAll, VisibilityPrivate}, c.Pipeline.Visibility) {
		return fmt.Errorf("pipeline.visibility must be %q or %q, got %q", VisibilityAll, VisibilityPrivate, c.Pipeline.Visibility)
	}
	if !slices.Contains([]string{StrategySequential, StrategyBatched}, c.Pipeline.Strategy) {
		return fmt.Errorf("pipeline.strategy must be %q or %q, got %q", StrategySequential, StrategyBatched, c.Pipeline.Strategy)
	}
	if !slices.Contains([]string{WindowCreated, WindowUpdated}, c.Pipeline.WindowField) {
		return fmt.Errorf("pipeline.window_field must be %q or %q, got %q", WindowCreated, WindowUpdated, c.Pipeline.WindowField)
	}
	return nil
}

// Concurrency returns the number of pull requests aggregated at once.
func (c Config) Concurrency() int {
	if c.Pipeline.Strategy == StrategySequential {
		return 1
	}
	return c.Batch.Size
}

// GitHubConfig contains API credentials and the target organization.
type GitHubConfig struct {
	Token   string `mapstructure:"token"`
	Org     string `mapstructure:"org"`
	BaseURL string `mapstructure:"base_url"`
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// OutputConfig contains where snapshots are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// CacheConfig contains where responses are cached.
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// BatchConfig controls pull request aggregation batches.
type BatchConfig struct {
	Size     int  `mapstructure:"size"`
	FailFast bool `mapstructure:"fail_fast"`
	// CommitStatsLimit bounds commit stats lookups per pull request, so at
	// most Size * CommitStatsLimit run at once.
	CommitStatsLimit int `mapstructure:"commit_stats_limit"`
}

// PipelineConfig selects which repositories and pull requests are ingested.
type PipelineConfig struct {
	Visibility  string `mapstructure:"visibility"`
	Strategy    string `mapstructure:"strategy"`
	WindowField string `mapstructure:"window_field"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}
