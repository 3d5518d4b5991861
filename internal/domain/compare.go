package domain

import (
	"strings"
	"time"
)

// LocationComparator ranks history and bookmark candidates for the given
// input. It returns a negative number when s1 ranks before s2.
//
// Rules, in order:
//   - an entry whose location contains the input ranks before one that does not
//   - an earlier match position ranks first
//   - a site root ("brave.com") ranks before a deeper page ("brave.com/test")
//   - higher Priority ranks first
//
// When the input is past any "http://", "https://" or "www." prefix, both the
// input and the locations are normalized before matching.
func LocationComparator(input string, now time.Time, ageDecayConstant float64) func(s1, s2 SiteEntry) int {
	inputLower := strings.ToLower(input)
	normalize := ShouldNormalizeLocation(inputLower)
	if normalize {
		inputLower = NormalizeLocation(inputLower)
	}

	matchPos := func(location string) int {
		location = strings.ToLower(location)
		if normalize {
			location = NormalizeLocation(location)
		}
		return strings.Index(location, inputLower)
	}

	return func(s1, s2 SiteEntry) int {
		pos1 := matchPos(s1.Location)
		pos2 := matchPos(s2.Location)

		switch {
		case pos1 == -1 && pos2 != -1:
			return 1
		case pos1 != -1 && pos2 == -1:
			return -1
		case pos1 != pos2:
			return pos1 - pos2
		}

		simple1 := IsSimpleDomain(s1.Location)
		simple2 := IsSimpleDomain(s2.Location)
		if simple1 != simple2 {
			if simple1 {
				return -1
			}
			return 1
		}

		return ComparePriority(s1, s2, now, ageDecayConstant)
	}
}
