package watcher

import (
	"os"
	"path/filepath"
	"strings"
)

// Backlog lists files already sitting in the staging directory, applying the
// same temp-artifact filter the event path uses. Dotfiles and subdirectories
// are skipped;
// the staging directory is watched non-recursively, so its subdirectories are
// never pipeline input. Paths come back in directory order (sorted by name).
func Backlog(dir string, filter *FileFilter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if filter.ShouldIgnore(path) {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}
