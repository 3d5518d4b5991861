package deps

import (
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
	"github.com/MrSnakeDoc/omnibox/internal/index"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
	"github.com/MrSnakeDoc/omnibox/internal/search"
	"github.com/MrSnakeDoc/omnibox/internal/session"
	redisstore "github.com/MrSnakeDoc/omnibox/internal/store/redis"
)

type Deps struct {
	Logger                logger.Logger
	StartTime             time.Time
	Version               string
	Commit                string
	BuildDate             string
	GoVersion             string
	TimeNow               func() time.Time   // for testing, defaults to time.Now
	AllowedHosts          []string           // Host headers allowed to access the server
	AllowedCIDRS          []string           // IPs allowed to access infra/reload endpoints
	AllowedOrigins        []string           // CORS origins allowed to call the API
	TrustProxy            bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateLimit             int                // requests per minute per client on /suggest (0 = unlimited)
	Store                 *redisstore.Store  // Redis persistence (nil = memory only)
	MemoryIndex           *index.MemoryIndex // In-memory history, bookmarks, frames and top sites
	Engine                *domain.Engine     // Suggestion engine
	Sessions              *session.Manager   // Per-window URL bar state
	Fetcher               *search.Fetcher    // Live search (nil if disabled)
	SearchURL             string             // Search results URL template with {searchTerms}
	TopSitesReloadTrigger chan struct{}      // Channel to trigger manual top sites reload (nil if disabled)
	BookmarkReloadTrigger chan struct{}      // Channel to trigger manual bookmark reload (nil if disabled)
}

// Now returns the current time from TimeNow, or time.Now when unset
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
