package domain

// SuggestionType identifies the source a suggestion came from.
type SuggestionType string

const (
	TypeHistory    SuggestionType = "history"
	TypeBookmark   SuggestionType = "bookmark"
	TypeTab        SuggestionType = "tab"
	TypeAboutPages SuggestionType = "aboutPages"
	TypeSearch     SuggestionType = "search"
	TypeTopSite    SuggestionType = "topSite"
)

// SourceOrder is the fixed precedence in which sources are collected.
// An earlier source wins the cross-list dedup for equal locations.
var SourceOrder = []SuggestionType{
	TypeHistory,
	TypeBookmark,
	TypeAboutPages,
	TypeTab,
	TypeSearch,
	TypeTopSite,
}

// SuggestionItem is one entry of the URL bar suggestion list.
type SuggestionItem struct {
	Title    string         `json:"title,omitempty"`
	Location string         `json:"location"`
	Type     SuggestionType `json:"type"`
	TabID    int            `json:"tabId,omitempty"`
}

// Settings gates the suggestion sources and holds their caps.
type Settings struct {
	HistorySuggestions   bool
	BookmarkSuggestions  bool
	OpenedTabSuggestions bool
	SearchSuggestions    bool

	MaxHistorySites  int
	MaxBookmarkSites int
	MaxOpenedFrames  int
	MaxSearch        int
	MaxTopSites      int
	MaxAboutPages    int

	// AgeDecayConstant controls how fast recency dominates visit count,
	// in days. Must be > 0.
	AgeDecayConstant float64
}

const (
	DefaultMaxHistorySites  = 3
	DefaultMaxBookmarkSites = 2
	DefaultMaxOpenedFrames  = 2
	DefaultMaxSearch        = 3
	DefaultMaxTopSites      = 3
	DefaultMaxAboutPages    = 2
	DefaultAgeDecayConstant = 50.0
)

// DefaultSettings enables every source with the default caps.
func DefaultSettings() Settings {
	return Settings{
		HistorySuggestions:   true,
		BookmarkSuggestions:  true,
		OpenedTabSuggestions: true,
		SearchSuggestions:    true,
		MaxHistorySites:      DefaultMaxHistorySites,
		MaxBookmarkSites:     DefaultMaxBookmarkSites,
		MaxOpenedFrames:      DefaultMaxOpenedFrames,
		MaxSearch:            DefaultMaxSearch,
		MaxTopSites:          DefaultMaxTopSites,
		MaxAboutPages:        DefaultMaxAboutPages,
		AgeDecayConstant:     DefaultAgeDecayConstant,
	}
}
