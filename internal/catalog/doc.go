// Package catalog lists and extracts the resources embedded in a compiled
// artifact.
//
// # Resource Model
//
// A Catalog is bound to exactly one artifact. Every raw identifier the
// artifact reports is filtered before it becomes a ResourceInfo:
//   - It must carry location metadata marking it embedded (linked resources
//     are skipped)
//   - It must live in the artifact's namespace, "<artifact name>.<resource>";
//     the prefix is stripped to form the logical name
//
// Identifiers failing either check are silently left out. Nothing is cached:
// each call re-queries the artifact.
//
// # Usage
//
//	cat, err := catalog.Open("/opt/tools/Library.dll")
//	if err != nil {
//	    return err
//	}
//	defer cat.Close()
//
//	for info := range cat.ResourceInfos() {
//	    fmt.Printf("%s\t%s\t%d\n", info.Name, info.Type, info.Size)
//	}
//
//	if err := cat.ExtractToDirectory("readme.txt", outDir); err != nil {
//	    return err
//	}
//
// # Errors
//
// Construction from a path fails with *ArtifactLoadError. Extraction and
// Digest fail with *ResourceNotFoundError (matching ErrResourceNotFound)
// when the name does not resolve to an embedded resource; filesystem errors
// are returned unchanged. Listing and lookup report absence through empty
// results, never errors.
package catalog
