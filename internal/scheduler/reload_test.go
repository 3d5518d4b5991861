package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/index"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestBookmarkReloader_Reload(t *testing.T) {
	path := writeFile(t, "bookmarks.yaml", `---
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
    - Go:
        - href: https://go.dev/
`)
	memIndex := index.NewMemoryIndex()
	br := NewBookmarkReloader(path, nil, memIndex, logger.Nop(), time.Hour, nil)

	if err := br.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if memIndex.BookmarkCount() != 2 {
		t.Errorf("BookmarkCount() = %d, want 2", memIndex.BookmarkCount())
	}

	// A broken file keeps the previous bookmarks
	if err := os.WriteFile(path, []byte("::not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := br.Reload(context.Background()); err == nil {
		t.Error("Reload() should fail on invalid yaml")
	}
	if memIndex.BookmarkCount() != 2 {
		t.Errorf("BookmarkCount() = %d after failed reload, want 2", memIndex.BookmarkCount())
	}
}

func TestBookmarkReloader_StartWithoutFileOrRedis(t *testing.T) {
	br := NewBookmarkReloader("/nonexistent/bookmarks.yaml", nil, index.NewMemoryIndex(), logger.Nop(), time.Hour, nil)

	if err := br.Start(context.Background()); err == nil {
		br.Stop()
		t.Error("Start() should fail when neither file nor redis has bookmarks")
	}
}

func TestTopSitesReloader_ManualTrigger(t *testing.T) {
	path := writeFile(t, "services.yaml", `---
- Media:
    - Jellyfin:
        href: https://jellyfin.domain.ext
`)
	memIndex := index.NewMemoryIndex()
	trigger := make(chan struct{}, 1)
	tr := NewTopSitesReloader(path, memIndex, logger.Nop(), time.Hour, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := tr.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer tr.Stop()

	if memIndex.TopSitesCount() != 1 {
		t.Fatalf("TopSitesCount() = %d, want 1", memIndex.TopSitesCount())
	}

	if err := os.WriteFile(path, []byte(`---
- Media:
    - Jellyfin:
        href: https://jellyfin.domain.ext
    - Immich:
        href: https://immich.domain.ext
`), 0o644); err != nil {
		t.Fatal(err)
	}
	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for memIndex.TopSitesCount() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("manual trigger did not reload, TopSitesCount() = %d", memIndex.TopSitesCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestJob_StopIsIdempotent(t *testing.T) {
	runs := make(chan struct{}, 4)
	trigger := make(chan struct{}, 1)
	j := newJob("test", time.Hour, trigger, logger.Nop())

	j.loop(context.Background(), func(context.Context) error {
		runs <- struct{}{}
		return nil
	})
	trigger <- struct{}{}

	select {
	case <-runs:
	case <-time.After(2 * time.Second):
		t.Fatal("trigger did not run the job")
	}

	j.Stop()
	j.Stop()
}
