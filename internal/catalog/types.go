package catalog

// ResourceInfo describes one embedded resource. It is a plain comparable
// value: two infos are equal when all fields are equal, and infos can be
// used as map keys.
type ResourceInfo struct {
	// Name is the logical file name, without the artifact prefix
	Name string
	// Type is the human-readable type label, e.g. "Text Document"
	Type string
	// Size is the payload length in bytes (0 when the payload is unreadable)
	Size int64
}
