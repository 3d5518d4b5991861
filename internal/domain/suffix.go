package domain

import "strings"

// AutocompleteSuffix returns the ghost text to show after the caret: the part
// of the selected suggestion's location that follows the typed input.
//
// The input must match at the very start of the location, or right after a
// "://" or "://www." boundary. Anything else yields "".
// Example: input "bra", location "https://www.brave.com/" -> "ve.com/"
func AutocompleteSuffix(list []SuggestionItem, selectedIndex int, input string) string {
	if input == "" || selectedIndex < 0 || selectedIndex >= len(list) {
		return ""
	}

	location := list[selectedIndex].Location
	lowerLocation := strings.ToLower(location)
	lowerInput := strings.ToLower(input)
	if len(lowerLocation) != len(location) || len(lowerInput) != len(input) {
		// case folding changed byte offsets; slicing would be unsafe
		return ""
	}

	idx := strings.Index(lowerLocation, lowerInput)
	if idx == -1 {
		return ""
	}
	before := lowerLocation[:idx]
	if idx != 0 && !strings.HasSuffix(before, "://") && !strings.HasSuffix(before, "://www.") {
		return ""
	}
	return location[idx+len(input):]
}
