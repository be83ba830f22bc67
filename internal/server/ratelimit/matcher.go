package ratelimit

import (
	"net/http"
	"strings"
)

// healthPath is never rate limited so probes keep working under load.
const healthPath = "/health"

// MatchEndpoint returns the rule for a request, or nil when only the default
// limit applies. An exact path wins; otherwise the longest rule path ending
// in "/" that prefixes the request path wins. GET /health always matches an
// unlimited rule.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == healthPath && method == http.MethodGet {
		return &EndpointConfig{Path: healthPath, Method: http.MethodGet}
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
		if strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) &&
			(prefix == nil || len(rule.Path) > len(prefix.Path)) {
			prefix = rule
		}
	}
	return prefix
}
