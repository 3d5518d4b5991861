package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/omnibox/internal/logger"
)

// guard builds a middleware answering 403 when check rejects a request.
// check returns the value it looked at, for logging.
func guard(name string, log logger.Logger, check func(r *http.Request) (string, bool)) func(http.Handler) http.Handler {
	log = log.With(logger.String("guard", name))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value, ok := check(r)
			if !ok {
				log.Debug("request rejected",
					logger.String("value", value),
					logger.String("path", r.URL.Path))
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }
