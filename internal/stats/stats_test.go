package stats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dropsort/internal/platform"
)

func seedFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCollect_CountsByExtension(t *testing.T) {
	base := t.TempDir()
	registry := platform.NewRegistry([]string{"twitter", "reddit"})

	seedFiles(t, filepath.Join(base, "twitter", "images"),
		"twitter_1_1.jpg", "twitter_2_2.jpg", "stray.png")
	seedFiles(t, filepath.Join(base, "twitter", "labels"), "twitter_1_1.txt")
	seedFiles(t, filepath.Join(base, "reddit", "labels"), "reddit_1_1.txt", "reddit_2_2.txt")

	snapshot := Collect(base, registry, ".jpg", ".txt")

	if len(snapshot.Counts) != 2 {
		t.Fatalf("Counts length = %d, want 2", len(snapshot.Counts))
	}

	// Counts are sorted by label: reddit first.
	reddit, twitter := snapshot.Counts[0], snapshot.Counts[1]
	if reddit.Label != "reddit" || reddit.Images != 0 || reddit.Labels != 2 {
		t.Errorf("reddit count = %+v", reddit)
	}
	if twitter.Label != "twitter" || twitter.Images != 2 || twitter.Labels != 1 {
		t.Errorf("twitter count = %+v", twitter)
	}

	if snapshot.TotalImages() != 2 {
		t.Errorf("TotalImages = %d, want 2", snapshot.TotalImages())
	}
	if snapshot.TotalLabels() != 3 {
		t.Errorf("TotalLabels = %d, want 3", snapshot.TotalLabels())
	}
}

func TestCollect_MissingDirectoriesCountZero(t *testing.T) {
	registry := platform.NewRegistry([]string{"twitter"})

	snapshot := Collect(filepath.Join(t.TempDir(), "nowhere"), registry, ".jpg", ".txt")

	if len(snapshot.Counts) != 1 {
		t.Fatalf("Counts length = %d", len(snapshot.Counts))
	}
	if c := snapshot.Counts[0]; c.Images != 0 || c.Labels != 0 {
		t.Errorf("counts = %+v, want zeros", c)
	}
}

func TestCollect_ExtensionMatchIsCaseInsensitive(t *testing.T) {
	base := t.TempDir()
	registry := platform.NewRegistry([]string{"twitter"})

	seedFiles(t, filepath.Join(base, "twitter", "images"), "twitter_1_1.JPG")

	snapshot := Collect(base, registry, ".jpg", ".txt")
	if snapshot.TotalImages() != 1 {
		t.Errorf("TotalImages = %d, want 1", snapshot.TotalImages())
	}
}

func TestRender_IncludesActiveLabelsAndTotals(t *testing.T) {
	base := t.TempDir()
	registry := platform.NewRegistry([]string{"twitter", "reddit"})

	seedFiles(t, filepath.Join(base, "twitter", "images"), "twitter_1_1.jpg")

	out := Render(Collect(base, registry, ".jpg", ".txt"))

	if !strings.Contains(out, "TWITTER") {
		t.Errorf("render missing active label:\n%s", out)
	}
	if strings.Contains(out, "REDDIT") {
		t.Errorf("render includes empty label:\n%s", out)
	}
	if !strings.Contains(out, "TOTAL") {
		t.Errorf("render missing totals row:\n%s", out)
	}
}
