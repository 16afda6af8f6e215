// Package stats reports per-label file counts for the destination tree.
package stats

import (
	"os"
	"strings"

	"dropsort/internal/layout"
	"dropsort/internal/platform"
)

// LabelCount holds the image and label file counts for one platform.
type LabelCount struct {
	Label  string
	Images int
	Labels int
}

// Snapshot is a point-in-time count of the destination tree.
// Counts reflect only files with the configured extensions; stray files in
// the tree are ignored.
type Snapshot struct {
	Counts []LabelCount // sorted by label, one entry per registry member
}

// TotalImages returns the image count summed across all labels.
func (s *Snapshot) TotalImages() int {
	total := 0
	for _, c := range s.Counts {
		total += c.Images
	}
	return total
}

// TotalLabels returns the label-file count summed across all labels.
func (s *Snapshot) TotalLabels() int {
	total := 0
	for _, c := range s.Counts {
		total += c.Labels
	}
	return total
}

// Collect counts dataset files under base for every registered label.
// Missing directories count as zero; they are not an error, since Collect may
// run before the tree has been created.
func Collect(base string, registry *platform.Registry, imageExt, labelExt string) *Snapshot {
	snapshot := &Snapshot{Counts: make([]LabelCount, 0, registry.Len())}

	for _, label := range registry.Labels() {
		imagesDir, labelsDir := layout.LabelDirs(base, label)
		snapshot.Counts = append(snapshot.Counts, LabelCount{
			Label:  label,
			Images: countByExt(imagesDir, imageExt),
			Labels: countByExt(labelsDir, labelExt),
		})
	}
	return snapshot
}

// countByExt counts regular files in dir whose name ends with ext
// (case-insensitive). An unreadable or absent directory counts as zero.
func countByExt(dir, ext string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	ext = strings.ToLower(ext)
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ext) {
			count++
		}
	}
	return count
}
