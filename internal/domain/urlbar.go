package domain

// URLBar is the state of one window's URL bar.
//
// Seq is bumped on every input change. Live search results carry the Seq
// they were requested with and are applied only while it is still current.
type URLBar struct {
	Input               string           `json:"input"`
	Selected            int              `json:"selected"`
	Visibility          Visibility       `json:"visibility"`
	AutocompleteEnabled bool             `json:"autocompleteEnabled"`
	Suggestions         []SuggestionItem `json:"suggestions"`
	Suffix              string           `json:"suffix"`
	Seq                 uint64           `json:"seq"`
	SearchResults       []string         `json:"-"`
}

// NewURLBar returns an empty, hidden URL bar.
func NewURLBar() *URLBar {
	return &URLBar{
		Visibility:          Hidden,
		AutocompleteEnabled: true,
		Suggestions:         make([]SuggestionItem, 0),
	}
}

// SetInput records new text and returns the new sequence number.
// Growing the text re-enables autocomplete, shrinking it disables it.
// Search results for the previous text are dropped.
func (b *URLBar) SetInput(text string) uint64 {
	switch {
	case len(text) > len(b.Input):
		b.AutocompleteEnabled = true
	case len(text) < len(b.Input):
		b.AutocompleteEnabled = false
	}
	b.Input = text
	b.Selected = 0
	b.SearchResults = nil
	b.Seq++
	b.Visibility = b.Visibility.Next(EventInput, text)
	if text == "" {
		b.Suggestions = make([]SuggestionItem, 0)
		b.Suffix = ""
	}
	return b.Seq
}

// Handle applies a non-input event.
func (b *URLBar) Handle(ev Event) {
	if ev == EventDelete {
		b.AutocompleteEnabled = false
		b.Suffix = ""
		return
	}
	b.Visibility = b.Visibility.Next(ev, b.Input)
	if b.Visibility == Hidden {
		b.Suffix = ""
	}
}

// SetSuggestions replaces the list wholesale and refreshes the suffix.
func (b *URLBar) SetSuggestions(list []SuggestionItem) {
	if list == nil {
		list = make([]SuggestionItem, 0)
	}
	b.Suggestions = list
	if b.Selected >= len(list) {
		b.Selected = 0
	}
	b.refreshSuffix()
}

// Select moves the highlighted row. It reports false when index is out of range.
func (b *URLBar) Select(index int) bool {
	if index < 0 || index >= len(b.Suggestions) {
		return false
	}
	b.Selected = index
	b.refreshSuffix()
	return true
}

// AcceptSearch stores live search results if they still belong to the
// current input. Stale results are ignored and false is returned.
func (b *URLBar) AcceptSearch(seq uint64, input string, results []string) bool {
	if seq != b.Seq || input != b.Input {
		return false
	}
	b.SearchResults = append([]string(nil), results...)
	return true
}

func (b *URLBar) refreshSuffix() {
	if !b.AutocompleteEnabled || b.Visibility == Hidden {
		b.Suffix = ""
		return
	}
	b.Suffix = AutocompleteSuffix(b.Suggestions, b.Selected, b.Input)
}
