// Package artifact loads compiled binary artifacts and exposes the resource
// bundle they carry.
//
// # Artifact Layout
//
// An artifact is an ELF, PE or Mach-O binary with a zip archive appended to
// it, or a bare zip archive on its own. The zip archive is the resource
// bundle. A binary without an appended archive is still a valid artifact; it
// simply carries no resources.
//
// Every zip entry is one raw resource identifier, in central-directory
// order:
//   - Regular entries are embedded resources (LocationEmbedded)
//   - Symlink entries are linked resources (LocationLinked); the entry payload
//     is the path of an external file, relative to the artifact's directory
//   - Directory entries carry no location at all
//
// Entries may be stored, deflated, zstd-compressed (method 93) or
// xz-compressed (method 95).
//
// # Usage
//
//	bundle, err := artifact.Load("/usr/local/bin/tool")
//	if err != nil {
//	    return err
//	}
//	defer bundle.Close()
//
//	for _, id := range bundle.ResourceIDs() {
//	    loc, ok := bundle.Location(id)
//	    ...
//	}
package artifact
