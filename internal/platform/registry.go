// Package platform defines the closed set of source labels dropsort accepts.
package platform

import (
	"sort"
	"strings"
)

// Registry is the allow-list of recognized platform labels. Lookup is
// case-insensitive; labels are stored lower-cased. A Registry is immutable
// after construction and safe for concurrent readers.
type Registry struct {
	labels map[string]struct{}
	sorted []string
}

// NewRegistry builds a Registry from the configured label list.
// Input labels are lower-cased; duplicates collapse to one entry.
func NewRegistry(labels []string) *Registry {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		set[l] = struct{}{}
	}

	sorted := make([]string, 0, len(set))
	for l := range set {
		sorted = append(sorted, l)
	}
	sort.Strings(sorted)

	return &Registry{labels: set, sorted: sorted}
}

// Contains reports whether the label (case-insensitive) is recognized.
func (r *Registry) Contains(label string) bool {
	_, ok := r.labels[strings.ToLower(label)]
	return ok
}

// Labels returns the recognized labels in sorted order.
// The returned slice is a copy; callers may not mutate registry state.
func (r *Registry) Labels() []string {
	out := make([]string, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// Len returns the number of recognized labels.
func (r *Registry) Len() int {
	return len(r.labels)
}
