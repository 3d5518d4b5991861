package mw

import (
	"net"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/omnibox/internal/logger"
)

// EnforceHost allows requests only if r.Host matches one of the allowed hosts.
// Patterns may start with "*." and may omit the port. An empty list
// disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return passthrough
	}

	return guard("host", log, func(r *http.Request) (string, bool) {
		for _, pattern := range allowedHosts {
			if matchHost(r.Host, pattern) {
				return r.Host, true
			}
		}
		return r.Host, false
	})
}

// matchHost compares case-insensitively. A pattern without a port matches
// the host on any port; "*.example.com" matches subdomains only.
func matchHost(host, pattern string) bool {
	host = strings.ToLower(host)
	pattern = strings.ToLower(pattern)
	if _, _, err := net.SplitHostPort(pattern); err != nil {
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
	}

	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(host, suffix)
	}
	return host == pattern
}
