package testutil

import (
	"archive/zip"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// MethodXZ mirrors artifact.MethodXZ without importing the package under test.
const MethodXZ uint16 = 95

// Entry describes one zip entry of a fixture bundle.
type Entry struct {
	// Name is the raw identifier, e.g. "Library.readme.txt"
	Name string
	// Data is the payload (ignored for Dir entries)
	Data []byte
	// Method is the zip compression method (zip.Store when zero)
	Method uint16
	// Link makes the entry a symlink to this path
	Link string
	// Dir makes the entry a directory
	Dir bool
}

// ReferenceResource is one resource of the reference fixture.
type ReferenceResource struct {
	Name string
	Type string
	Size int
}

// ReferenceResources mirrors the reference class library: five embedded
// documents and binaries with their builtin type labels.
var ReferenceResources = []ReferenceResource{
	{Name: "bible-kjv.txt", Type: "Text Document", Size: 4452069},
	{Name: "fotr.pdf", Type: "PDF File", Size: 697344},
	{Name: "huckleberryfinn.epub", Type: "EPUB File", Size: 13523542},
	{Name: "hypertrm.dll", Type: "Application Extension", Size: 345088},
	{Name: "hypertrm.exe", Type: "Application", Size: 28160},
}

// Payload returns deterministic, compressible content of exactly size bytes.
func Payload(seed string, size int) []byte {
	pattern := []byte(seed + ": the quick brown fox jumps over the lazy dog\n")
	out := make([]byte, size)
	for i := 0; i < size; i += len(pattern) {
		copy(out[i:], pattern)
	}
	return out
}

// ReferenceEntries returns the reference fixture entries namespaced under
// artifactName. Large payloads are zstd-compressed to keep fixtures small.
func ReferenceEntries(artifactName string) []Entry {
	entries := make([]Entry, 0, len(ReferenceResources))
	for _, r := range ReferenceResources {
		entries = append(entries, Entry{
			Name:   artifactName + "." + r.Name,
			Data:   Payload(r.Name, r.Size),
			Method: zstd.ZipMethodWinZip,
		})
	}
	return entries
}

// WriteBundle writes a bare resource bundle to path.
func WriteBundle(t *testing.T, path string, entries []Entry) string {
	t.Helper()

	var buf bytes.Buffer
	writeZip(t, &buf, 0, entries)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write bundle %s: %v", path, err)
	}
	return path
}

// WriteHostedArtifact copies the running test executable to path and
// appends a resource bundle to it, producing a real compiled artifact.
func WriteHostedArtifact(t *testing.T, path string, entries []Entry) string {
	t.Helper()

	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to locate test executable: %v", err)
	}
	host, err := os.ReadFile(exe)
	if err != nil {
		t.Fatalf("failed to read test executable: %v", err)
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		t.Fatalf("failed to create artifact: %v", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := out.Write(host); err != nil {
		t.Fatalf("failed to write host binary: %v", err)
	}
	if len(entries) > 0 {
		writeZip(t, out, int64(len(host)), entries)
	}

	return path
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func writeZip(t *testing.T, w io.Writer, offset int64, entries []Entry) {
	t.Helper()

	zw := zip.NewWriter(w)
	zw.SetOffset(offset)
	zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor(zstd.WithEncoderLevel(zstd.SpeedFastest)))
	zw.RegisterCompressor(MethodXZ, func(out io.Writer) (io.WriteCloser, error) {
		return xz.NewWriter(out)
	})

	for _, e := range entries {
		header := &zip.FileHeader{Name: e.Name, Method: e.Method}
		data := e.Data

		switch {
		case e.Dir:
			header.SetMode(fs.ModeDir | 0o755)
			data = nil
		case e.Link != "":
			header.SetMode(fs.ModeSymlink | 0o777)
			header.Method = zip.Store
			data = []byte(e.Link)
		default:
			header.SetMode(0o644)
		}

		fw, err := zw.CreateHeader(header)
		if err != nil {
			t.Fatalf("failed to write header for %s: %v", e.Name, err)
		}
		if len(data) > 0 {
			if _, err := fw.Write(data); err != nil {
				t.Fatalf("failed to write content for %s: %v", e.Name, err)
			}
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish bundle: %v", err)
	}
}
