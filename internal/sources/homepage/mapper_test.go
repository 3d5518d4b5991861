package homepage

import (
	"slices"
	"testing"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
)

func TestMapTopSites(t *testing.T) {
	config := ServicesConfig{
		{
			"Media": []map[string]ServiceProps{
				{"Jellyfin": {Href: "https://Jellyfin.domain.ext:8096/web"}},
				{"Invalid": {Href: "not-a-valid-url"}},
				{"Empty": {Href: ""}},
			},
		},
		{
			"Infrastructure": []map[string]ServiceProps{
				{"AdGuard Home": {Href: "adguard.domain.ext"}},
				{"Jellyfin again": {Href: "http://jellyfin.domain.ext"}},
			},
		},
	}

	sites, err := MapTopSites(config)
	if err != nil {
		t.Fatalf("MapTopSites() error = %v", err)
	}

	want := []string{"jellyfin.domain.ext", "adguard.domain.ext"}
	if !slices.Equal(sites, want) {
		t.Errorf("MapTopSites() = %v, want %v", sites, want)
	}
}

func TestMapTopSitesEmptyConfig(t *testing.T) {
	sites, err := MapTopSites(ServicesConfig{})

	// Empty config should return an error
	if err == nil {
		t.Error("MapTopSites() with empty config should return error")
	}
	if sites != nil {
		t.Errorf("MapTopSites() with empty config should return nil, got %v", sites)
	}
}

func TestMapBookmarks(t *testing.T) {
	config := BookmarksConfig{
		{
			"Developer": []map[string][]BookmarkEntry{
				{"Github": {{Abbr: "GH", Href: "https://github.com/"}}},
				{"Docs": {{Href: "https://go.dev/doc/"}}},
				{"No href": {{Abbr: "NH"}}},
				{"Empty": {}},
			},
		},
		{
			"Social": []map[string][]BookmarkEntry{
				{"Github again": {{Abbr: "GH2", Href: "HTTPS://GITHUB.COM/"}}},
			},
		},
	}

	bookmarks, err := MapBookmarks(config)
	if err != nil {
		t.Fatalf("MapBookmarks() error = %v", err)
	}

	if len(bookmarks) != 2 {
		t.Fatalf("MapBookmarks() returned %v bookmarks, want 2", len(bookmarks))
	}

	github, docs := bookmarks[0], bookmarks[1]
	if github.Location != "https://github.com/" || github.Title != "GH" {
		t.Errorf("first bookmark = %+v", github)
	}
	if docs.Location != "https://go.dev/doc/" || docs.Title != "Docs" {
		t.Errorf("second bookmark = %+v", docs)
	}
	for _, b := range bookmarks {
		if !b.IsBookmark() {
			t.Errorf("bookmark %s lacks the bookmark tag", b.Location)
		}
		if b.HasLastAccessed() || b.Count != 0 {
			t.Errorf("bookmark %s should carry no visit data", b.Location)
		}
	}
}

func TestMapBookmarksNoValidEntries(t *testing.T) {
	config := BookmarksConfig{
		{"Empty": []map[string][]BookmarkEntry{{"Nothing": {{Abbr: "N"}}}}},
	}

	if _, err := MapBookmarks(config); err == nil {
		t.Error("MapBookmarks() should return error when no valid bookmarks found")
	}
}

func TestMappedBookmarksFeedEngine(t *testing.T) {
	bookmarks, err := MapBookmarks(BookmarksConfig{
		{"Dev": []map[string][]BookmarkEntry{{"Github": {{Abbr: "GH", Href: "https://github.com/"}}}}},
	})
	if err != nil {
		t.Fatalf("MapBookmarks() error = %v", err)
	}

	snap := domain.Snapshot{BookmarkSites: []domain.SiteEntry{*bookmarks[0]}}
	got := domain.NewEngine(domain.DefaultSettings(), nil).Suggest("git", snap)

	if len(got) != 1 || got[0].Type != domain.TypeBookmark {
		t.Errorf("Suggest() = %+v, want one bookmark", got)
	}
}
