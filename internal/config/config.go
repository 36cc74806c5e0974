// Package config loads pr-snapshot configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = ".env"

// NewConfig loads configuration from the environment, overlaid with a .env
// file whose values never override variables already set.
func NewConfig() (*Config, error) {
	return load(envFile)
}

func load(path string) (*Config, error) {
	v := viper.New()
	if envMap, err := godotenv.Read(path); err == nil {
		for k, val := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, val)
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")

	v.SetDefault("github.base_url", "")

	v.SetDefault("http.request_timeout", 30*time.Second)

	v.SetDefault("output.dir", "data")
	v.SetDefault("cache.dir", ".cache")

	v.SetDefault("batch.size", 5)
	v.SetDefault("batch.fail_fast", false)
	v.SetDefault("batch.commit_stats_limit", 5)

	v.SetDefault("pipeline.visibility", VisibilityAll)
	v.SetDefault("pipeline.strategy", StrategyBatched)
	v.SetDefault("pipeline.window_field", WindowCreated)
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"logging.level",
		"github.token",
		"github.org",
		"github.base_url",
		"http.request_timeout",
		"output.dir",
		"cache.dir",
		"batch.size",
		"batch.fail_fast",
		"batch.commit_stats_limit",
		"pipeline.visibility",
		"pipeline.strategy",
		"pipeline.window_field",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

// ParseDays parses the trailing window argument, which must be a positive
// whole number of days.
func ParseDays(arg string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("days must be a whole number, got %q", arg)
	}
	if days <= 0 {
		return 0, fmt.Errorf("days must be positive, got %d", days)
	}
	return days, nil
}
