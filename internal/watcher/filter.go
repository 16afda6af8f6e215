// Package watcher monitors the staging directory for new collector files.
package watcher

import (
	"path/filepath"
	"strings"
)

// FileFilter screens out temporary and partial-download artifacts before
// they enter the arrival pipeline.
type FileFilter struct {
	patterns []string
}

// NewFileFilter creates a FileFilter with the given glob patterns.
// Patterns match against the base name only.
func NewFileFilter(patterns []string) *FileFilter {
	return &FileFilter{patterns: patterns}
}

// ShouldIgnore checks if a file path matches any of the ignore patterns.
// Bare-extension patterns like ".part" also match as a suffix.
func (f *FileFilter) ShouldIgnore(path string) bool {
	filename := filepath.Base(path)

	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, filename); err == nil && matched {
			return true
		}
		if strings.HasPrefix(pattern, ".") && !strings.Contains(pattern, "*") {
			if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(pattern)) {
				return true
			}
		}
	}
	return false
}
