// Package config provides configuration loading and validation for the
// recommender CLI and server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all settings. Values come from defaults, an optional config
// file and environment variables, in increasing priority.
type Config struct {
	Port           int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	DatabaseURL    string `mapstructure:"database_url"`
	CandidateLimit int    `mapstructure:"candidate_limit" validate:"gte=1,lte=1000"`

	Log       LogConfig       `mapstructure:"log"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// LogConfig selects the log format and level
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// EmbeddingConfig configures the embedding provider
type EmbeddingConfig struct {
	Provider string        `mapstructure:"provider" validate:"oneof=http gemini"`
	URL      string        `mapstructure:"url" validate:"omitempty,url"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// RateLimitConfig configures inbound request throttling
type RateLimitConfig struct {
	Enabled                  bool          `mapstructure:"enabled"`
	RequestsPerMinute        int           `mapstructure:"requests_per_minute" validate:"gte=1"`
	Burst                    int           `mapstructure:"burst" validate:"gte=1"`
	RecommendationsPerMinute int           `mapstructure:"recommendations_per_minute" validate:"gte=1"`
	RecommendationsBurst     int           `mapstructure:"recommendations_burst" validate:"gte=1"`
	CleanupInterval          time.Duration `mapstructure:"cleanup_interval" validate:"gt=0"`
	Whitelist                []string      `mapstructure:"whitelist"`
	Blacklist                []string      `mapstructure:"blacklist"`
}

// envBindings maps config keys to the environment variables that set them.
// When several variables are listed the first one that is set wins.
var envBindings = map[string][]string{
	"port":            {"PORT"},
	"database_url":    {"DATABASE_URL"},
	"candidate_limit": {"CANDIDATE_LIMIT"},

	"log.json":  {"LOG_JSON"},
	"log.debug": {"LOG_DEBUG"},

	"jwt.secret":           {"JWT_SECRET"},
	"jwt.expiration_hours": {"JWT_EXPIRATION_HOURS"},
	"jwt.cookie_name":      {"SESSION_COOKIE_NAME"},

	"embedding.provider": {"EMBEDDING_PROVIDER"},
	"embedding.url":      {"EMBEDDING_URL"},
	"embedding.api_key":  {"EMBEDDING_API_KEY", "GEMINI_API_KEY"},
	"embedding.model":    {"EMBEDDING_MODEL"},
	"embedding.timeout":  {"EMBEDDING_TIMEOUT"},

	"rate_limit.enabled":                    {"RATE_LIMIT_ENABLED"},
	"rate_limit.requests_per_minute":        {"RATE_LIMIT_DEFAULT_LIMIT"},
	"rate_limit.burst":                      {"RATE_LIMIT_DEFAULT_BURST"},
	"rate_limit.recommendations_per_minute": {"RATE_LIMIT_RECOMMENDATIONS_LIMIT"},
	"rate_limit.recommendations_burst":      {"RATE_LIMIT_RECOMMENDATIONS_BURST"},
	"rate_limit.cleanup_interval":           {"RATE_LIMIT_CLEANUP_INTERVAL"},
	"rate_limit.whitelist":                  {"RATE_LIMIT_WHITELIST"},
	"rate_limit.blacklist":                  {"RATE_LIMIT_BLACKLIST"},
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("candidate_limit", 1000)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.cookie_name", DefaultSessionCookieName)

	v.SetDefault("embedding.provider", "http")
	v.SetDefault("embedding.url", "https://api-inference.huggingface.co/pipeline/feature-extraction/sentence-transformers/all-MiniLM-L6-v2")
	v.SetDefault("embedding.model", "sentence-transformers/all-MiniLM-L6-v2")
	v.SetDefault("embedding.timeout", 15*time.Second)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 1000)
	v.SetDefault("rate_limit.burst", 100)
	v.SetDefault("rate_limit.recommendations_per_minute", 60)
	v.SetDefault("rate_limit.recommendations_burst", 10)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})
}

// Load reads configuration into a Config. configFile is optional; when set it
// must exist and parse. Environment variables override file values.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for values only some commands need; use
// RequireDatabase and RequireJWT for those.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			msgs := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	return c.JWT.normalize()
}

// RequireDatabase returns an error when no database URL is configured
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	return nil
}

// RequireJWT returns an error when no JWT secret is configured
func (c *Config) RequireJWT() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	return nil
}
