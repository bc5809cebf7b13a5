package ratelimit

import "strings"

// unlimited marks endpoints that are never limited.
var unlimited = EndpointConfig{}

// MatchEndpoint returns the rule for path and method, or nil when the default
// limit applies. Exact paths win over "/"-terminated prefixes. GET /health is
// never limited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		rule := unlimited
		return &rule
	}

	var prefix *EndpointConfig
	for i := range configs {
		rule := &configs[i]
		if rule.Method != method {
			continue
		}
		if rule.Path == path {
			return rule
		}
		if prefix == nil && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			prefix = rule
		}
	}
	return prefix
}
