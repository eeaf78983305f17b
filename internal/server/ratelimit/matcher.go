package ratelimit

import (
	"strings"
)

// unlimited marks an endpoint that is never throttled
var unlimited = EndpointConfig{}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Path matching supports prefix matching (e.g., "/jobs/" matches "/jobs/{id}").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Health checks are never limited
	if path == "/health" {
		cfg := unlimited
		return &cfg
	}

	path = strings.TrimSuffix(path, "/")
	if path == "" {
		path = "/"
	}

	for i := range configs {
		cfg := &configs[i]
		if cfg.Path == path && methodMatches(cfg.Method, method) {
			return cfg
		}
	}

	for i := range configs {
		cfg := &configs[i]
		if strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) && methodMatches(cfg.Method, method) {
			return cfg
		}
	}

	return nil
}

func methodMatches(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}
