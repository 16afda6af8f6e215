// Package layout manages the destination tree structure for dropsort.
package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"dropsort/internal/platform"
)

// Subdirectory names under each label directory.
const (
	ImagesDir = "images"
	LabelsDir = "labels"
)

// LabelDirs returns the images and labels directories for a label.
func LabelDirs(base, label string) (imagesDir, labelsDir string) {
	return filepath.Join(base, label, ImagesDir), filepath.Join(base, label, LabelsDir)
}

// EnsureTree creates the full destination tree: one images/ and labels/ pair
// under base for every registered label, plus the staging directory itself.
// Creation is idempotent.
func EnsureTree(base, stagingDir string, registry *platform.Registry) error {
	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return fmt.Errorf("create staging directory %s: %w", stagingDir, err)
	}

	for _, label := range registry.Labels() {
		imagesDir, labelsDir := LabelDirs(base, label)
		if err := os.MkdirAll(imagesDir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", imagesDir, err)
		}
		if err := os.MkdirAll(labelsDir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", labelsDir, err)
		}
	}
	return nil
}
