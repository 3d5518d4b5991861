package domain

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// normalizePrefixes are the prefixes ShouldNormalizeLocation scans for.
var normalizePrefixes = []string{"http://", "https://", "www."}

// NormalizeLocation strips the first "www." and a leading http:// or
// https:// so locations can be compared by what the user actually types.
// Example: "https://www.brave.com/test" -> "brave.com/test"
func NormalizeLocation(location string) string {
	location = strings.Replace(location, "www.", "", 1)
	location = strings.TrimPrefix(location, "http://")
	location = strings.TrimPrefix(location, "https://")
	return location
}

// ShouldNormalizeLocation reports whether the input has moved past every
// normalizable prefix. An input that could still be the start of
// "http://", "https://" or "www." (e.g. "h", "ww", "https:/") is matched
// literally, since the user may be typing the prefix itself.
func ShouldNormalizeLocation(input string) bool {
	for _, prefix := range normalizePrefixes {
		if !escapesPrefix(input, prefix) {
			return false
		}
	}
	return true
}

// escapesPrefix reports whether input is longer than prefix or diverges
// from it somewhere in their common length.
func escapesPrefix(input, prefix string) bool {
	if len(input) > len(prefix) {
		return true
	}
	n := min(len(input), len(prefix))
	for i := 0; i < n; i++ {
		if input[i] != prefix[i] {
			return true
		}
	}
	return false
}

// IsSimpleDomain reports whether location is a site root: no query, no
// fragment and an empty or "/" path.
// Example: "https://brave.com/" -> true, "https://brave.com/test" -> false
func IsSimpleDomain(location string) bool {
	u, err := url.Parse(strings.TrimSpace(location))
	if err != nil || u.Host == "" {
		return false
	}
	return isRootURL(u)
}

func isRootURL(u *url.URL) bool {
	return u.RawQuery == "" && !u.ForceQuery && u.Fragment == "" && (u.Path == "" || u.Path == "/")
}

// LocationKey is the identity used for dedup: trimmed and case-folded.
func LocationKey(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

// containsFold is a case-insensitive substring test against an
// already lower-cased needle.
func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

// LooksLikeURL reports whether the input is a URL rather than search terms.
// A scheme-less input must carry a registrable domain.
// Examples: "https://x", "about:blank", "brave.com/test" -> true;
// "brave browser", "brave", "co.uk" -> false
func LooksLikeURL(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" || strings.IndexFunc(input, unicode.IsSpace) >= 0 {
		return false
	}
	lower := strings.ToLower(input)
	if strings.Contains(lower, "://") || strings.HasPrefix(lower, "about:") {
		return true
	}

	u, err := url.Parse("http://" + lower)
	if err != nil {
		return false
	}
	host := u.Hostname()
	dot := strings.LastIndexByte(host, '.')
	if dot <= 0 || dot == len(host)-1 {
		return false
	}
	tld := host[dot+1:]
	if len(tld) < 2 {
		return false
	}
	for _, r := range tld {
		if !unicode.IsLetter(r) {
			return false
		}
	}

	if _, err := publicsuffix.Domain(host); err != nil {
		return false
	}
	return true
}

// SearchTermsPlaceholder is replaced by the query in search URL templates.
const SearchTermsPlaceholder = "{searchTerms}"

// SearchURL expands the {searchTerms} placeholder of a search engine
// template with the escaped terms.
// Example: ("https://duckduckgo.com/?q={searchTerms}", "brave browser")
// -> "https://duckduckgo.com/?q=brave%20browser"
func SearchURL(template, terms string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(terms), "+", "%20")
	return strings.ReplaceAll(template, SearchTermsPlaceholder, escaped)
}
