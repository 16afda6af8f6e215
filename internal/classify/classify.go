// Package classify parses collector filenames into structured descriptors.
//
// The filename grammar is {label}_{timestamp}_{counter}.{ext}. Only the label
// and extension carry meaning here; timestamp and counter are checked for
// presence, not parsed.
package classify

import (
	"fmt"
	"path/filepath"
	"strings"

	"dropsort/internal/platform"
)

// Kind is the payload category derived from the file extension.
type Kind string

const (
	KindImage Kind = "image"
	KindLabel Kind = "label"
)

// ClassifyErrorType represents why a filename could not be classified.
type ClassifyErrorType string

const (
	// MalformedName indicates the filename has fewer than three
	// underscore-delimited segments.
	MalformedName ClassifyErrorType = "MALFORMED_NAME"
	// UnknownLabel indicates the first segment is not a registered platform.
	UnknownLabel ClassifyErrorType = "UNKNOWN_LABEL"
	// UnsupportedExtension indicates the extension maps to neither kind.
	UnsupportedExtension ClassifyErrorType = "UNSUPPORTED_EXTENSION"
)

// ClassifyError represents a classification failure for a single filename.
type ClassifyError struct {
	Type     ClassifyErrorType
	Filename string
	Detail   string
}

func (e *ClassifyError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Filename, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Filename)
}

// Descriptor is the structured result of classifying a filename.
// Label is lower-cased and guaranteed to be a registry member.
type Descriptor struct {
	Label string
	Kind  Kind
}

// Classifier maps filenames to descriptors using a fixed registry and
// extension pair. It performs no I/O and is safe for concurrent use.
type Classifier struct {
	registry *platform.Registry
	imageExt string
	labelExt string
}

// New creates a Classifier. Extensions are matched case-insensitively and
// must include the leading dot.
func New(registry *platform.Registry, imageExt, labelExt string) *Classifier {
	return &Classifier{
		registry: registry,
		imageExt: strings.ToLower(imageExt),
		labelExt: strings.ToLower(labelExt),
	}
}

// Classify parses a filename into a Descriptor.
// The grammar requires at least three underscore-delimited segments; the
// first segment (lower-cased) must be a registered label, and the extension
// must match the configured image or label extension.
func (c *Classifier) Classify(filename string) (*Descriptor, error) {
	segments := strings.Split(filename, "_")
	if len(segments) < 3 {
		return nil, &ClassifyError{
			Type:     MalformedName,
			Filename: filename,
			Detail:   fmt.Sprintf("want at least 3 segments, got %d", len(segments)),
		}
	}

	label := strings.ToLower(segments[0])
	if !c.registry.Contains(label) {
		return nil, &ClassifyError{
			Type:     UnknownLabel,
			Filename: filename,
			Detail:   label,
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	var kind Kind
	switch ext {
	case c.imageExt:
		kind = KindImage
	case c.labelExt:
		kind = KindLabel
	default:
		return nil, &ClassifyError{
			Type:     UnsupportedExtension,
			Filename: filename,
			Detail:   ext,
		}
	}

	return &Descriptor{Label: label, Kind: kind}, nil
}
