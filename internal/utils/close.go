package utils

import (
	"io"

	"github.com/MrSnakeDoc/omnibox/internal/logger"
)

// Close closes c and ignores any error.
// Use for best-effort cleanup in defer where error handling is not critical.
func Close(c io.Closer) {
	_ = c.Close()
}

// CloseWithLog closes c and logs any error as a warning.
// It reports whether the close succeeded.
func CloseWithLog(c io.Closer, log logger.Logger, what string) bool {
	if err := c.Close(); err != nil {
		log.Warn("failed to close",
			logger.String("resource", what),
			logger.Error(err))
		return false
	}
	return true
}
