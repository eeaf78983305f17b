package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/job-recommender/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method, empty matches any
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	DefaultBurst    int
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// FromSettings builds a Config from the application settings.
func FromSettings(s config.RateLimitConfig) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    s.RequestsPerMinute,
		DefaultWindow:   time.Minute,
		DefaultBurst:    s.Burst,
		CleanupInterval: s.CleanupInterval,
		Whitelist:       parseIPList(s.Whitelist),
		Blacklist:       parseIPList(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(s.RecommendationsPerMinute, s.RecommendationsBurst),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific configurations.
// Recommendations are limited more strictly since each request may call the
// embedding provider. GET and POST share one bucket.
func DefaultEndpointConfigs(perMinute, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/recommendations", Limit: perMinute, Window: time.Minute, Burst: burst},
	}
}

// parseIPList turns a list of IP addresses into a set.
func parseIPList(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
