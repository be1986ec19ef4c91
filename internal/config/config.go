// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	YouTube   YouTubeConfig   `mapstructure:"youtube"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Refresh   RefreshConfig   `mapstructure:"refresh"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Name         string        `mapstructure:"name"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// YouTubeConfig holds the external video-platform API settings.
type YouTubeConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry"`
	CB      CBConfig      `mapstructure:"circuit_breaker"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// DiscoveryConfig holds default bounds for discovery runs.
type DiscoveryConfig struct {
	DefaultRubric       string `mapstructure:"default_rubric"` // balanced, classic
	HashEstimates       bool   `mapstructure:"hash_estimates"`
	MaxUniqueCandidates int    `mapstructure:"max_unique_candidates"`
	MaxQualifying       int    `mapstructure:"max_qualifying"`
	PageSize            int    `mapstructure:"page_size"`
	UploadSample        int    `mapstructure:"upload_sample"`
}

// CacheConfig holds analysis cache settings.
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	Capacity        int           `mapstructure:"capacity"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	PersistDebounce time.Duration `mapstructure:"persist_debounce"`
	StoreKey        string        `mapstructure:"store_key"`
}

// RefreshConfig holds background lead-refresh job settings.
type RefreshConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	OnStartup bool          `mapstructure:"on_startup"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for the cache's durable
// storage and distributed locking.
type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Addr returns the Redis host:port address.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "channel-prospector")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "prospector")
	v.SetDefault("database.user", "app")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")

	// YouTube API defaults
	v.SetDefault("youtube.base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("youtube.api_key", "")
	v.SetDefault("youtube.timeout", "10s")
	v.SetDefault("youtube.retry.max_attempts", 3)
	v.SetDefault("youtube.retry.wait_time", "1s")
	v.SetDefault("youtube.retry.max_wait_time", "5s")
	v.SetDefault("youtube.circuit_breaker.max_requests", 3)
	v.SetDefault("youtube.circuit_breaker.interval", "60s")
	v.SetDefault("youtube.circuit_breaker.timeout", "30s")
	v.SetDefault("youtube.circuit_breaker.failure_ratio", 0.5)

	// Discovery defaults
	v.SetDefault("discovery.default_rubric", "balanced")
	v.SetDefault("discovery.hash_estimates", false)
	v.SetDefault("discovery.max_unique_candidates", 100)
	v.SetDefault("discovery.max_qualifying", 20)
	v.SetDefault("discovery.page_size", 25)
	v.SetDefault("discovery.upload_sample", 25)

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.capacity", 1000)
	v.SetDefault("cache.cleanup_interval", "1h")
	v.SetDefault("cache.persist_debounce", "1s")
	v.SetDefault("cache.store_key", "analysis:entries")

	// Refresh job defaults
	v.SetDefault("refresh.enabled", true)
	v.SetDefault("refresh.interval", "12h")
	v.SetDefault("refresh.on_startup", false)
	v.SetDefault("refresh.timeout", "10m")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "prospector")
}
