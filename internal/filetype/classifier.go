// Package filetype derives human-readable type labels from file extensions.
//
// Labels come from a Registry consulted in two stages, the way the Windows
// class registry works: the extension maps to a class identifier, and the
// class identifier maps to a display name. When either stage has no answer
// the label is synthesized from the extension itself ("TXT File").
package filetype

import (
	"path"
	"strings"
)

// UnknownType is the label for names without an extension.
const UnknownType = "Unknown Type"

// Registry answers single-key lookups. Implementations report misses and
// failures alike as ok == false.
type Registry interface {
	Lookup(key string) (value string, ok bool)
}

// Classifier maps extensions to type labels. A nil *Classifier or a nil
// registry classifies with the synthesized fallback only.
type Classifier struct {
	registry Registry
}

// NewClassifier creates a classifier backed by registry.
func NewClassifier(registry Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Classify returns the type label for ext, which includes its leading dot.
// It never fails.
func (c *Classifier) Classify(ext string) string {
	if ext == "" || ext == "." {
		return UnknownType
	}

	if c != nil && c.registry != nil {
		if class, ok := safeLookup(c.registry, ext); ok && class != "" {
			if label, ok := safeLookup(c.registry, class); ok && label != "" {
				return label
			}
		}
	}

	return strings.ToUpper(strings.TrimLeft(ext, ".")) + " File"
}

// ClassifyName classifies the extension of a slash-separated resource name.
func (c *Classifier) ClassifyName(name string) string {
	return c.Classify(Extension(name))
}

// Extension returns the trailing ".ext" of name, or "" when there is none.
// A name ending in a bare dot has no extension.
func Extension(name string) string {
	ext := path.Ext(name)
	if ext == "." {
		return ""
	}
	return ext
}

// safeLookup absorbs panics from registry implementations backed by host
// services.
func safeLookup(r Registry, key string) (value string, ok bool) {
	defer func() {
		if recover() != nil {
			value, ok = "", false
		}
	}()
	return r.Lookup(key)
}
