// Package resolve computes collision-safe destination paths for classified files.
package resolve

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"dropsort/internal/classify"
)

// dupMarker is inserted between the filename stem and extension when the
// naive target path is already occupied.
const dupMarker = "_dup_"

// ExistsFunc reports whether a path is already occupied. Injected so the
// resolver itself stays free of I/O.
type ExistsFunc func(path string) bool

// Plan is a fresh destination decision for a single arrival. Plans are never
// cached; a later arrival must re-check collisions against current state.
type Plan struct {
	Dir      string // target directory: base/label/{images|labels}
	Filename string // target filename, possibly disambiguated
	Collided bool   // true if the naive target existed and was renamed around
}

// Path returns the full target path of the plan.
func (p *Plan) Path() string {
	return filepath.Join(p.Dir, p.Filename)
}

// Resolver maps descriptors onto a destination tree rooted at a base path.
type Resolver struct {
	base string
	now  func() time.Time
}

// New creates a Resolver rooted at base.
func New(base string) *Resolver {
	return &Resolver{base: base, now: time.Now}
}

// NewWithClock creates a Resolver with an injected clock for tests.
func NewWithClock(base string, now func() time.Time) *Resolver {
	return &Resolver{base: base, now: now}
}

// SubdirFor returns the tree subdirectory name for a payload kind.
func SubdirFor(kind classify.Kind) string {
	if kind == classify.KindImage {
		return "images"
	}
	return "labels"
}

// Resolve computes the destination plan for a classified filename.
// If exists reports the naive target occupied, a disambiguated filename is
// generated by inserting a marker and the current Unix timestamp between the
// stem and extension. The disambiguation is a single pass; a second collision
// against the disambiguated name within the same second is not re-resolved
// (callers serialize placements, which closes that race for a single process).
func (r *Resolver) Resolve(desc *classify.Descriptor, filename string, exists ExistsFunc) *Plan {
	dir := filepath.Join(r.base, desc.Label, SubdirFor(desc.Kind))

	plan := &Plan{Dir: dir, Filename: filename}
	if !exists(filepath.Join(dir, filename)) {
		return plan
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	plan.Filename = fmt.Sprintf("%s%s%d%s", stem, dupMarker, r.now().Unix(), ext)
	plan.Collided = true
	return plan
}
