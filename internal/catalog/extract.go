package catalog

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/resxport/internal/artifact"
	"github.com/zeebo/blake3"
)

// openEmbedded resolves name to an embedded resource and opens its payload.
func (c *Catalog) openEmbedded(name string) (artifact.Stream, error) {
	id := c.qualify(name)
	if _, ok := c.logicalName(id); !ok {
		return nil, &ResourceNotFoundError{Name: name}
	}

	stream, err := c.artifact.Open(id)
	if err != nil {
		return nil, fmt.Errorf("open resource %s: %w", name, err)
	}
	if stream == nil {
		return nil, fmt.Errorf("open resource %s: no payload stream", name)
	}
	return stream, nil
}

// ExtractToFile copies the payload of the named resource to destPath,
// creating or truncating it. The parent directory must exist. When the
// resource does not exist nothing is written; when the payload cannot be
// read to the end the partial file is removed.
func (c *Catalog) ExtractToFile(name, destPath string) error {
	stream, err := c.openEmbedded(name)
	if err != nil {
		return err
	}
	defer stream.Close()

	outFile, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	written, err := io.Copy(outFile, stream)
	if err != nil {
		outFile.Close()
		_ = os.Remove(destPath)
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	if err := outFile.Close(); err != nil {
		return err
	}

	c.logger.Info("resource extracted", "name", name, "path", destPath, "bytes", written)
	return nil
}

// ExtractToDirectory extracts the named resource to destDir/name. destDir
// must already exist. Names that would land outside destDir are rejected.
func (c *Catalog) ExtractToDirectory(name, destDir string) error {
	if _, ok := c.logicalName(c.qualify(name)); !ok {
		return &ResourceNotFoundError{Name: name}
	}

	target := filepath.Join(destDir, filepath.FromSlash(name))

	// Security check: prevent path traversal
	rel, err := filepath.Rel(destDir, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("illegal resource path: %s", name)
	}

	return c.ExtractToFile(name, target)
}

// Digest returns the hex BLAKE3 digest of the named resource's payload.
func (c *Catalog) Digest(name string) (string, error) {
	stream, err := c.openEmbedded(name)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, stream); err != nil {
		return "", fmt.Errorf("hash resource %s: %w", name, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
