package domain

import (
	"slices"
	"strings"
	"testing"
)

func locations(items []SuggestionItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Location)
	}
	return out
}

func TestCollect(t *testing.T) {
	accumulated := []SuggestionItem{
		{Location: "https://brave.com", Type: TypeHistory},
	}
	byLocation := func(a, b candidate) int {
		return strings.Compare(a.location, b.location)
	}

	tests := []struct {
		name string
		opts collectOptions
		want []string
	}{
		{
			name: "zero cap yields nothing",
			opts: collectOptions{
				data:       urlCandidates([]string{"https://a.com"}),
				maxResults: 0,
				typ:        TypeTopSite,
			},
			want: nil,
		},
		{
			name: "cross-list dedup is case and space insensitive",
			opts: collectOptions{
				data:       urlCandidates([]string{" HTTPS://BRAVE.COM ", "https://a.com"}),
				maxResults: 5,
				typ:        TypeTopSite,
			},
			want: []string{"https://a.com"},
		},
		{
			name: "tabs skip dedup",
			opts: collectOptions{
				data: frameCandidates([]FrameEntry{
					{Key: "1", TabID: 1, Location: "https://brave.com"},
					{Key: "2", TabID: 2, Location: "https://brave.com"},
				}),
				maxResults: 5,
				typ:        TypeTab,
			},
			want: []string{"https://brave.com", "https://brave.com"},
		},
		{
			name: "same-source duplicates collapse",
			opts: collectOptions{
				data:       urlCandidates([]string{"https://a.com", "https://A.com", "https://b.com"}),
				maxResults: 5,
				typ:        TypeSearch,
			},
			want: []string{"https://a.com", "https://b.com"},
		},
		{
			name: "empty locations are dropped",
			opts: collectOptions{
				data:       urlCandidates([]string{"", "  ", "https://a.com"}),
				maxResults: 5,
				typ:        TypeTopSite,
			},
			want: []string{"https://a.com"},
		},
		{
			name: "filter then sort then truncate",
			opts: collectOptions{
				data:       urlCandidates([]string{"https://d.com", "https://c.com", "https://x.org", "https://b.com"}),
				maxResults: 2,
				typ:        TypeTopSite,
				sort:       byLocation,
				filter: func(c candidate) bool {
					return strings.HasSuffix(c.location, ".com")
				},
			},
			want: []string{"https://b.com", "https://c.com"},
		},
		{
			name: "natural order without sort",
			opts: collectOptions{
				data:       urlCandidates([]string{"https://z.com", "https://a.com"}),
				maxResults: 5,
				typ:        TypeTopSite,
			},
			want: []string{"https://z.com", "https://a.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := locations(collect(accumulated, tt.opts))
			if len(tt.want) == 0 && len(got) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("collect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollect_ItemMapping(t *testing.T) {
	frames := frameCandidates([]FrameEntry{{Key: "k", TabID: 42, Location: "https://a.com", Title: "A"}})
	items := collect(nil, collectOptions{data: frames, maxResults: 1, typ: TypeTab})
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].TabID != 42 || items[0].Title != "A" || items[0].Type != TypeTab {
		t.Errorf("tab item = %+v", items[0])
	}

	sites := siteCandidates([]SiteEntry{{Location: "https://a.com", Title: "A"}})
	items = collect(nil, collectOptions{data: sites, maxResults: 1, typ: TypeHistory})
	if len(items) != 1 || items[0].TabID != 0 || items[0].Type != TypeHistory {
		t.Errorf("history item = %+v", items)
	}

	items = collect(nil, collectOptions{data: urlCandidates([]string{"about:blank"}), maxResults: 1, typ: TypeAboutPages})
	if len(items) != 1 || items[0].Title != "about:blank" {
		t.Errorf("about item = %+v", items)
	}
}
