// Package place executes file moves into the destination tree for dropsort.
// It is the only package permitted to mutate the filesystem.
package place

import (
	"fmt"
	"os"

	"dropsort/internal/classify"
	"dropsort/internal/resolve"
)

// PlaceErrorType represents the type of placement error.
type PlaceErrorType string

const (
	// SourceVanished indicates the source file disappeared between detection
	// and placement. This is a benign race, not an operator-facing failure.
	SourceVanished PlaceErrorType = "SOURCE_VANISHED"
	// DirectoryCreate indicates the destination directory could not be created.
	DirectoryCreate PlaceErrorType = "DIRECTORY_CREATE"
	// Move indicates the move itself failed.
	Move PlaceErrorType = "MOVE"
)

// PlaceError represents an error that occurred while placing one file.
type PlaceError struct {
	Type PlaceErrorType
	Path string
	Err  error
}

func (e *PlaceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *PlaceError) Unwrap() error {
	return e.Err
}

// IsSourceVanished reports whether err is a benign source-vanished placement error.
func IsSourceVanished(err error) bool {
	pe, ok := err.(*PlaceError)
	return ok && pe.Type == SourceVanished
}

// Result describes a completed placement.
type Result struct {
	Label     string
	Kind      classify.Kind
	FinalPath string
	Collided  bool
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Place moves sourcePath to the planned destination.
// The destination directory is created if absent. The move is os.Rename with
// a copy+delete fallback for cross-device destinations. Place trusts the
// plan's collision handling and never removes an existing destination file.
func Place(sourcePath string, desc *classify.Descriptor, plan *resolve.Plan) (*Result, error) {
	if err := os.MkdirAll(plan.Dir, 0755); err != nil {
		return nil, &PlaceError{Type: DirectoryCreate, Path: plan.Dir, Err: err}
	}

	if _, err := os.Stat(sourcePath); err != nil {
		if os.IsNotExist(err) {
			return nil, &PlaceError{Type: SourceVanished, Path: sourcePath, Err: err}
		}
		return nil, &PlaceError{Type: Move, Path: sourcePath, Err: err}
	}

	destPath := plan.Path()
	if err := os.Rename(sourcePath, destPath); err != nil {
		// Rename fails for cross-device moves; fall back to copy+delete.
		if err := copyAndDelete(sourcePath, destPath); err != nil {
			return nil, err
		}
	}

	return &Result{
		Label:     desc.Label,
		Kind:      desc.Kind,
		FinalPath: destPath,
		Collided:  plan.Collided,
	}, nil
}

// copyAndDelete copies a file to a new location and deletes the original.
func copyAndDelete(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return &PlaceError{Type: SourceVanished, Path: src, Err: err}
		}
		return &PlaceError{Type: Move, Path: src, Err: err}
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return &PlaceError{Type: Move, Path: src, Err: err}
	}

	if err := os.WriteFile(dst, data, srcInfo.Mode()); err != nil {
		return &PlaceError{Type: Move, Path: dst, Err: err}
	}

	if err := os.Remove(src); err != nil {
		// Keep the tree consistent: a copy that cannot retire its source
		// is rolled back rather than left as a duplicate.
		os.Remove(dst)
		return &PlaceError{Type: Move, Path: src, Err: err}
	}

	return nil
}
