package domain

import (
	"math"
	"time"
)

const (
	// msPerDay converts access ages to days.
	msPerDay = 1000 * 60 * 60 * 24
)

// sigmoid is the logistic function.
func sigmoid(t float64) float64 {
	return 1 / (1 + math.Exp(-t))
}

// Priority calculates the sorting priority of a site from its visit count
// and the time since its last access.
//
// The age factor starts at 1 for a site visited right now and tends to 0
// as the age grows, at a rate controlled by ageDecayConstant (in days):
//
//	ageFactor = 1 - 2*(sigmoid(ageInDays/ageDecayConstant) - 0.5)
//	priority  = count * ageFactor
//
// A zero lastAccessed means "never", which is scored as age 0. Timestamps in
// the future are clamped to age 0 so the factor never exceeds 1.
func Priority(count int64, now, lastAccessed time.Time, ageDecayConstant float64) float64 {
	if count <= 0 {
		return 0
	}
	if ageDecayConstant <= 0 {
		ageDecayConstant = DefaultAgeDecayConstant
	}

	ageInDays := 0.0
	if !lastAccessed.IsZero() {
		ageMs := now.UnixMilli() - lastAccessed.UnixMilli()
		if ageMs > 0 {
			ageInDays = float64(ageMs) / msPerDay
		}
	}

	ageFactor := 1 - 2*(sigmoid(ageInDays/ageDecayConstant)-0.5)
	return float64(count) * ageFactor
}

// SitePriority is Priority applied to a site entry.
func SitePriority(site SiteEntry, now time.Time, ageDecayConstant float64) float64 {
	return Priority(site.Count, now, site.LastAccessedTime, ageDecayConstant)
}

// ComparePriority orders sites by descending priority.
// It returns a negative number when s1 ranks before s2.
func ComparePriority(s1, s2 SiteEntry, now time.Time, ageDecayConstant float64) int {
	p1 := SitePriority(s1, now, ageDecayConstant)
	p2 := SitePriority(s2, now, ageDecayConstant)
	switch {
	case p2 > p1:
		return 1
	case p2 < p1:
		return -1
	default:
		return 0
	}
}
