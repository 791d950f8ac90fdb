package artifact

import (
	"archive/zip"
	"bytes"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when a file is neither a compiled binary
// nor a resource bundle.
var ErrUnsupportedFormat = errors.New("unsupported artifact format")

// maxLinkTarget caps the size of a linked entry's target path.
const maxLinkTarget = 4096

// Bundle is an artifact loaded from disk. It keeps the artifact file open
// until Close is called; all reads go through io.ReaderAt and are safe for
// concurrent use.
type Bundle struct {
	name    string
	path    string
	format  Format
	file    *os.File
	ids     []string
	entries map[string]*zip.File
}

// Load opens the artifact at path and indexes its resource bundle.
func Load(path string) (*Bundle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}

	bundle, err := newBundle(path, file)
	if err != nil {
		file.Close()
		return nil, err
	}

	return bundle, nil
}

func newBundle(path string, file *os.File) (*Bundle, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("artifact %s is not a regular file", path)
	}

	format, err := detectFormat(file)
	if err != nil {
		return nil, fmt.Errorf("detect format of %s: %w", path, err)
	}

	reader, err := zip.NewReader(file, info.Size())
	if err != nil {
		// A host binary without an appended archive carries no resources.
		if format != FormatBundle && errors.Is(err, zip.ErrFormat) {
			reader = nil
		} else {
			return nil, fmt.Errorf("read resource bundle: %w", err)
		}
	}

	base := filepath.Base(path)
	bundle := &Bundle{
		name:    strings.TrimSuffix(base, filepath.Ext(base)),
		path:    path,
		format:  format,
		file:    file,
		entries: map[string]*zip.File{},
	}

	if reader != nil {
		registerDecompressors(reader)
		for _, f := range reader.File {
			if _, dup := bundle.entries[f.Name]; dup {
				continue
			}
			bundle.ids = append(bundle.ids, f.Name)
			bundle.entries[f.Name] = f
		}
	}

	return bundle, nil
}

// detectFormat sniffs the magic number and confirms it with the matching
// debug/* parser so truncated binaries are rejected.
func detectFormat(r io.ReaderAt) (Format, error) {
	magic := make([]byte, 4)
	if _, err := r.ReadAt(magic, 0); err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrUnsupportedFormat
		}
		return "", err
	}

	switch {
	case bytes.Equal(magic, []byte(elf.ELFMAG)):
		f, err := elf.NewFile(r)
		if err != nil {
			return "", fmt.Errorf("parse ELF: %w", err)
		}
		f.Close()
		return FormatELF, nil

	case magic[0] == 'M' && magic[1] == 'Z':
		f, err := pe.NewFile(r)
		if err != nil {
			return "", fmt.Errorf("parse PE: %w", err)
		}
		f.Close()
		return FormatPE, nil

	case isMachOMagic(magic):
		if f, err := macho.NewFile(r); err == nil {
			f.Close()
			return FormatMachO, nil
		}
		f, err := macho.NewFatFile(r)
		if err != nil {
			return "", fmt.Errorf("parse Mach-O: %w", err)
		}
		f.Close()
		return FormatMachO, nil

	case magic[0] == 'P' && magic[1] == 'K':
		return FormatBundle, nil
	}

	return "", ErrUnsupportedFormat
}

func isMachOMagic(magic []byte) bool {
	switch {
	case bytes.Equal(magic, []byte{0xfe, 0xed, 0xfa, 0xce}),
		bytes.Equal(magic, []byte{0xfe, 0xed, 0xfa, 0xcf}),
		bytes.Equal(magic, []byte{0xce, 0xfa, 0xed, 0xfe}),
		bytes.Equal(magic, []byte{0xcf, 0xfa, 0xed, 0xfe}),
		bytes.Equal(magic, []byte{0xca, 0xfe, 0xba, 0xbe}):
		return true
	}
	return false
}

// Name returns the artifact file name without its extension.
func (b *Bundle) Name() string {
	return b.name
}

// Path returns the file the artifact was loaded from.
func (b *Bundle) Path() string {
	return b.path
}

// Format returns the detected container format.
func (b *Bundle) Format() Format {
	return b.format
}

// ResourceIDs returns a copy of the raw identifiers in central-directory order.
func (b *Bundle) ResourceIDs() []string {
	ids := make([]string, len(b.ids))
	copy(ids, b.ids)
	return ids
}

// Location reports the location flags for id. Directory entries and unknown
// identifiers have no location.
func (b *Bundle) Location(id string) (Location, bool) {
	f, ok := b.entries[id]
	if !ok {
		return 0, false
	}

	mode := f.Mode()
	switch {
	case mode.IsDir():
		return 0, false
	case mode&fs.ModeSymlink != 0:
		return LocationLinked, true
	default:
		return LocationEmbedded, true
	}
}

// Open returns the payload of id. Linked entries resolve to the external
// file they point at.
func (b *Bundle) Open(id string) (Stream, error) {
	f, ok := b.entries[id]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: id, Err: fs.ErrNotExist}
	}

	mode := f.Mode()
	if mode.IsDir() {
		return nil, fmt.Errorf("open %s: resource is a directory", id)
	}
	if mode&fs.ModeSymlink != 0 {
		return b.openLinked(f)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", id, err)
	}

	return &entryStream{ReadCloser: rc, size: int64(f.UncompressedSize64)}, nil
}

func (b *Bundle) openLinked(f *zip.File) (Stream, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	target, err := io.ReadAll(io.LimitReader(rc, maxLinkTarget))
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read link target of %s: %w", f.Name, err)
	}

	linkPath := filepath.FromSlash(strings.TrimSpace(string(target)))
	if !filepath.IsAbs(linkPath) {
		linkPath = filepath.Join(filepath.Dir(b.path), linkPath)
	}

	file, err := os.Open(linkPath)
	if err != nil {
		return nil, fmt.Errorf("open linked resource %s: %w", f.Name, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat linked resource %s: %w", f.Name, err)
	}

	return &entryStream{ReadCloser: file, size: info.Size()}, nil
}

// Close releases the artifact file.
func (b *Bundle) Close() error {
	return b.file.Close()
}

type entryStream struct {
	io.ReadCloser
	size int64
}

func (s *entryStream) Size() int64 {
	return s.size
}
