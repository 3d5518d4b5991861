package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/omnibox/internal/logger"
	"github.com/MrSnakeDoc/omnibox/internal/utils"
)

// AllowOnlyCIDRS allows only the listed IPs and CIDRs; an empty list disables
// the check. trustProxy resolves the client from proxy headers, for
// deployments behind a reverse proxy or tunnel.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return passthrough
	}

	return guard("cidr", log, func(r *http.Request) (string, bool) {
		ip := utils.ClientIP(r, trustProxy)
		return ip, m.Allow(ip)
	})
}
