package artifact

import (
	"io"
	"strings"
)

// Location describes where a resource's payload lives.
type Location uint8

const (
	// LocationEmbedded marks a payload stored inside the artifact itself
	LocationEmbedded Location = 1 << iota
	// LocationLinked marks a payload that lives in an external file
	LocationLinked
)

// Embedded reports whether the embedded bit is set.
func (l Location) Embedded() bool {
	return l&LocationEmbedded != 0
}

// String returns the string representation of the location flags
func (l Location) String() string {
	var parts []string
	if l&LocationEmbedded != 0 {
		parts = append(parts, "embedded")
	}
	if l&LocationLinked != 0 {
		parts = append(parts, "linked")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Format identifies the container format of an artifact.
type Format string

const (
	// FormatELF is a Linux/BSD executable or shared object
	FormatELF Format = "elf"
	// FormatPE is a Windows executable or DLL
	FormatPE Format = "pe"
	// FormatMachO is a macOS executable or dylib (thin or universal)
	FormatMachO Format = "macho"
	// FormatBundle is a bare resource bundle with no host binary
	FormatBundle Format = "bundle"
)

// Stream is a readable resource payload with a known length.
type Stream interface {
	io.ReadCloser
	Size() int64
}

// Handle is a loaded artifact as seen by resource consumers.
type Handle interface {
	// Name returns the artifact's logical name, used as the identifier namespace.
	Name() string

	// ResourceIDs returns every raw resource identifier in native order.
	ResourceIDs() []string

	// Location returns the location flags for id. ok is false when the
	// artifact has no location metadata for id.
	Location(id string) (loc Location, ok bool)

	// Open returns the payload stream for id. Callers must close it.
	Open(id string) (Stream, error)
}
