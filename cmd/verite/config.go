// cmd/verite/config.go
package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds the full application configuration
type Config struct {
	Version    string `yaml:"version"`
	ListenAddr string `yaml:"listen_addr"`
	AdminToken string `yaml:"admin_token"`

	LogPath  string `yaml:"log_path"`
	LogLevel string `yaml:"log_level"`

	EnableDatabase bool   `yaml:"enable_database"`
	DatabaseURL    string `yaml:"database_url"`

	OpenAIAPIKey        string  `yaml:"openai_api_key"`
	OpenAIBaseURL       string  `yaml:"openai_base_url"`
	AIModel             string  `yaml:"ai_model"`
	AITimeoutSeconds    int     `yaml:"ai_timeout_seconds"`
	AIMaxTokens         int     `yaml:"ai_max_tokens"`
	AITemperature       float64 `yaml:"ai_temperature"`
	AIRequestsPerMinute int     `yaml:"ai_requests_per_minute"`

	EnableURLExtraction bool   `yaml:"enable_url_extraction"`
	UserAgent           string `yaml:"user_agent"`

	EnableFeedWatcher bool   `yaml:"enable_feed_watcher"`
	FeedsPath         string `yaml:"feeds_path"`
	FeedCron          string `yaml:"feed_cron"`
	MaxPostsPerFeed   int    `yaml:"max_posts_per_feed"`

	AnalysisRetentionDays int `yaml:"analysis_retention_days"`
}

// DefaultConfig returns a config populated with defaults
func DefaultConfig() *Config {
	return &Config{
		Version:             AppVersion,
		ListenAddr:          DefaultListenAddr,
		LogPath:             DefaultLogPath,
		LogLevel:            "info",
		EnableDatabase:      true,
		AIModel:             DefaultAIModel,
		AITimeoutSeconds:    int(DefaultAITimeout / time.Second),
		AIMaxTokens:         DefaultAIMaxTokens,
		AITemperature:       DefaultAITemperature,
		EnableURLExtraction: true,
		UserAgent:           "VeriteBot/" + AppVersion,
		FeedsPath:           DefaultFeedsPath,
		FeedCron:            DefaultFeedCron,
		MaxPostsPerFeed:     DefaultMaxPostsPerFeed,
	}
}

// LoadConfig loads configuration from the given YAML file, then applies
// environment variable overrides. A missing file is not an error; the
// defaults plus environment are enough to run.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, NewConfigError(ErrConfigLoad, fmt.Sprintf("failed to parse %s", path), err)
		}
	} else if !os.IsNotExist(err) {
		return nil, NewConfigError(ErrConfigLoad, fmt.Sprintf("failed to read %s", path), err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the config file
func (c *Config) applyEnvOverrides() {
	c.ListenAddr = GetEnvString("VERITE_LISTEN_ADDR", c.ListenAddr)
	c.AdminToken = GetEnvString("VERITE_ADMIN_TOKEN", c.AdminToken)
	c.LogPath = GetEnvString("VERITE_LOG_PATH", c.LogPath)
	c.LogLevel = GetEnvString("VERITE_LOG_LEVEL", c.LogLevel)
	c.EnableDatabase = GetEnvBool("VERITE_ENABLE_DATABASE", c.EnableDatabase)
	c.DatabaseURL = GetEnvString("DATABASE_URL", c.DatabaseURL)
	c.OpenAIAPIKey = GetEnvString("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIBaseURL = GetEnvString("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.AIModel = GetEnvString("VERITE_AI_MODEL", c.AIModel)
	c.AITimeoutSeconds = GetEnvInt("VERITE_AI_TIMEOUT_SECONDS", c.AITimeoutSeconds)
	c.AIMaxTokens = GetEnvInt("VERITE_AI_MAX_TOKENS", c.AIMaxTokens)
	c.AITemperature = GetEnvFloat("VERITE_AI_TEMPERATURE", c.AITemperature)
	c.AIRequestsPerMinute = GetEnvInt("VERITE_AI_REQUESTS_PER_MINUTE", c.AIRequestsPerMinute)
	c.EnableURLExtraction = GetEnvBool("VERITE_ENABLE_URL_EXTRACTION", c.EnableURLExtraction)
	c.EnableFeedWatcher = GetEnvBool("VERITE_ENABLE_FEED_WATCHER", c.EnableFeedWatcher)
	c.FeedsPath = GetEnvString("VERITE_FEEDS_PATH", c.FeedsPath)
	c.FeedCron = GetEnvString("VERITE_FEED_CRON", c.FeedCron)
	c.MaxPostsPerFeed = GetEnvInt("VERITE_MAX_POSTS_PER_FEED", c.MaxPostsPerFeed)
	c.AnalysisRetentionDays = GetEnvInt("VERITE_ANALYSIS_RETENTION_DAYS", c.AnalysisRetentionDays)
}

// Validate checks the configuration for fatal problems
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return NewConfigError(ErrConfigValidation, "listen_addr is required", nil)
	}
	if c.EnableDatabase && c.DatabaseURL == "" {
		return NewConfigError(ErrConfigValidation, "database_url is required when the database is enabled", nil)
	}
	if c.AITimeoutSeconds <= 0 {
		return NewConfigError(ErrConfigValidation, "ai_timeout_seconds must be positive", nil)
	}
	if c.AITemperature < 0 || c.AITemperature > 2 {
		return NewConfigError(ErrConfigValidation, "ai_temperature must be between 0 and 2", nil)
	}
	return nil
}

// AITimeout returns the provider call timeout as a duration
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutSeconds) * time.Second
}
