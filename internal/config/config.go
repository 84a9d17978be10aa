package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/varoOP/aniview/internal/domain"
)

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	dbDir := "."
	if dir, err := os.UserConfigDir(); err == nil {
		dbDir = filepath.Join(dir, "aniview")
	}

	v.SetDefault("api_base_url", "https://api.aniapi.com")
	v.SetDefault("github_api_url", "https://api.github.com/graphql")
	v.SetDefault("github_profile_url", "https://github.com")
	v.SetDefault("db_dir", dbDir)
	v.SetDefault("probe_url", "https://clients3.google.com/generate_204")
	v.SetDefault("probe_timeout", 3*time.Second)
	v.SetDefault("connect_timeout", time.Minute)
	v.SetDefault("read_timeout", 20*time.Second)
	v.SetDefault("write_timeout", 30*time.Second)
	v.SetDefault("retry_max", 2)
	v.SetDefault("write_through", true)
	v.SetDefault("random_count", 10)
	v.SetDefault("nsfw", false)
	v.SetDefault("log_level", "info")
}

// Load builds the configuration from the global viper instance:
// 1. Config file (.aniview.yaml or config.yaml, optional)
// 2. Environment variables (ANIVIEW_*)
// 3. Command line flags bound by the caller
func Load() (*domain.Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom builds and validates the configuration held by v
func LoadFrom(v *viper.Viper) (*domain.Config, error) {
	SetDefaults(v)

	cfg := &domain.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.GitHubProfileURL = strings.TrimRight(cfg.GitHubProfileURL, "/")

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks URLs, durations and the log level
func Validate(cfg *domain.Config) error {
	urls := map[string]string{
		"api_base_url":       cfg.APIBaseURL,
		"github_api_url":     cfg.GitHubAPIURL,
		"github_profile_url": cfg.GitHubProfileURL,
		"probe_url":          cfg.ProbeURL,
	}
	if cfg.DiscordWebhookURL != "" {
		urls["discord_webhook_url"] = cfg.DiscordWebhookURL
	}
	for key, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s: %q (must be an absolute URL)", key, raw)
		}
	}

	durations := map[string]time.Duration{
		"probe_timeout":   cfg.ProbeTimeout,
		"connect_timeout": cfg.ConnectTimeout,
		"read_timeout":    cfg.ReadTimeout,
		"write_timeout":   cfg.WriteTimeout,
	}
	for key, d := range durations {
		if d <= 0 {
			return fmt.Errorf("invalid %s: %s (must be positive)", key, d)
		}
	}

	if cfg.RetryMax < 0 {
		return fmt.Errorf("invalid retry_max: %d (must not be negative)", cfg.RetryMax)
	}
	if cfg.RandomCount < 1 || cfg.RandomCount > 50 {
		return fmt.Errorf("invalid random_count: %d (must be between 1 and 50)", cfg.RandomCount)
	}
	if cfg.DBDir == "" {
		return fmt.Errorf("db_dir is required (set via config file or ANIVIEW_DB_DIR environment variable)")
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %s", cfg.LogLevel)
	}

	return nil
}
