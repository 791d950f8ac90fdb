package artifact

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/ZebulonRouseFrantzich/resxport/internal/testutil"
)

func loadFixture(t *testing.T, path string) *Bundle {
	t.Helper()

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func readAll(t *testing.T, b *Bundle, id string) []byte {
	t.Helper()

	s, err := b.Open(id)
	if err != nil {
		t.Fatalf("Open(%s): %v", id, err)
	}
	defer s.Close()

	data, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("read %s: %v", id, err)
	}
	if int64(len(data)) != s.Size() {
		t.Errorf("%s: read %d bytes, Size() = %d", id, len(data), s.Size())
	}
	return data
}

func TestLoad_Bundle(t *testing.T) {
	entries := []testutil.Entry{
		{Name: "Lib.b.txt", Data: []byte("second")},
		{Name: "Lib.a.txt", Data: []byte("first")},
		{Name: "Lib.assets/", Dir: true},
		{Name: "Lib.link.txt", Link: "outside.txt"},
	}
	path := testutil.WriteBundle(t, filepath.Join(t.TempDir(), "Lib.Resources.dll"), entries)
	b := loadFixture(t, path)

	if b.Format() != FormatBundle {
		t.Errorf("Format() = %q, want %q", b.Format(), FormatBundle)
	}
	if b.Name() != "Lib.Resources" {
		t.Errorf("Name() = %q, want Lib.Resources", b.Name())
	}
	if b.Path() != path {
		t.Errorf("Path() = %q, want %q", b.Path(), path)
	}

	want := []string{"Lib.b.txt", "Lib.a.txt", "Lib.assets/", "Lib.link.txt"}
	if got := b.ResourceIDs(); !slices.Equal(got, want) {
		t.Errorf("ResourceIDs() = %v, want %v", got, want)
	}
}

func TestResourceIDs_ReturnsCopy(t *testing.T) {
	path := testutil.WriteBundle(t, filepath.Join(t.TempDir(), "Lib.dll"), []testutil.Entry{
		{Name: "Lib.a.txt", Data: []byte("a")},
	})
	b := loadFixture(t, path)

	ids := b.ResourceIDs()
	ids[0] = "mutated"

	if got := b.ResourceIDs(); got[0] != "Lib.a.txt" {
		t.Errorf("ResourceIDs() leaked internal state: %v", got)
	}
}

func TestLocation(t *testing.T) {
	path := testutil.WriteBundle(t, filepath.Join(t.TempDir(), "Lib.dll"), []testutil.Entry{
		{Name: "Lib.file.txt", Data: []byte("embedded")},
		{Name: "Lib.dir/", Dir: true},
		{Name: "Lib.link.txt", Link: "target.txt"},
	})
	b := loadFixture(t, path)

	tests := []struct {
		id     string
		want   Location
		wantOK bool
	}{
		{id: "Lib.file.txt", want: LocationEmbedded, wantOK: true},
		{id: "Lib.link.txt", want: LocationLinked, wantOK: true},
		{id: "Lib.dir/", wantOK: false},
		{id: "Lib.unknown.txt", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := b.Location(tt.id)
			if ok != tt.wantOK {
				t.Fatalf("Location(%s) ok = %v, want %v", tt.id, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Location(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{0, "none"},
		{LocationEmbedded, "embedded"},
		{LocationLinked, "linked"},
		{LocationEmbedded | LocationLinked, "embedded|linked"},
	}

	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("Location(%d).String() = %q, want %q", tt.loc, got, tt.want)
		}
		if got := tt.loc.Embedded(); got != (tt.loc&LocationEmbedded != 0) {
			t.Errorf("Location(%d).Embedded() = %v", tt.loc, got)
		}
	}
}

func TestOpen_CompressionMethods(t *testing.T) {
	payload := testutil.Payload("compressed", 150000)
	entries := []testutil.Entry{
		{Name: "Lib.store.bin", Data: payload},
		{Name: "Lib.deflate.bin", Data: payload, Method: 8},
		{Name: "Lib.zstd.bin", Data: payload, Method: zstd.ZipMethodWinZip},
		{Name: "Lib.zstd-pkware.bin", Data: payload, Method: zstd.ZipMethodPKWare},
		{Name: "Lib.xz.bin", Data: payload, Method: MethodXZ},
	}
	path := testutil.WriteBundle(t, filepath.Join(t.TempDir(), "Lib.dll"), entries)
	b := loadFixture(t, path)

	for _, e := range entries {
		t.Run(e.Name, func(t *testing.T) {
			if got := readAll(t, b, e.Name); string(got) != string(payload) {
				t.Errorf("%s: payload mismatch (%d bytes)", e.Name, len(got))
			}
		})
	}
}

func TestOpen_Linked(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "external.txt", []byte("lives next to the artifact"))
	path := testutil.WriteBundle(t, filepath.Join(dir, "Lib.dll"), []testutil.Entry{
		{Name: "Lib.external.txt", Link: "external.txt"},
		{Name: "Lib.dangling.txt", Link: "nowhere.txt"},
	})
	b := loadFixture(t, path)

	if got := readAll(t, b, "Lib.external.txt"); string(got) != "lives next to the artifact" {
		t.Errorf("linked payload = %q", got)
	}

	_, err := b.Open("Lib.dangling.txt")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("dangling link: got %v, want fs.ErrNotExist", err)
	}
}

func TestOpen_Errors(t *testing.T) {
	path := testutil.WriteBundle(t, filepath.Join(t.TempDir(), "Lib.dll"), []testutil.Entry{
		{Name: "Lib.dir/", Dir: true},
	})
	b := loadFixture(t, path)

	if _, err := b.Open("Lib.missing.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("unknown id: got %v, want fs.ErrNotExist", err)
	}
	if _, err := b.Open("Lib.dir/"); err == nil || !strings.Contains(err.Error(), "directory") {
		t.Errorf("directory entry: got %v, want directory error", err)
	}
}

func TestLoad_HostedArtifact(t *testing.T) {
	path := testutil.WriteHostedArtifact(t, filepath.Join(t.TempDir(), "host.bin"), []testutil.Entry{
		{Name: "host.config.json", Data: []byte(`{"mode":"release"}`)},
	})
	b := loadFixture(t, path)

	wantFormat := map[string]Format{
		"linux":   FormatELF,
		"freebsd": FormatELF,
		"windows": FormatPE,
		"darwin":  FormatMachO,
	}[runtime.GOOS]
	if wantFormat != "" && b.Format() != wantFormat {
		t.Errorf("Format() = %q, want %q", b.Format(), wantFormat)
	}

	if got := b.ResourceIDs(); !slices.Equal(got, []string{"host.config.json"}) {
		t.Errorf("ResourceIDs() = %v", got)
	}
	if got := readAll(t, b, "host.config.json"); string(got) != `{"mode":"release"}` {
		t.Errorf("payload = %q", got)
	}
}

func TestLoad_HostWithoutBundle(t *testing.T) {
	path := testutil.WriteHostedArtifact(t, filepath.Join(t.TempDir(), "plain"), nil)
	b := loadFixture(t, path)

	if ids := b.ResourceIDs(); len(ids) != 0 {
		t.Errorf("ResourceIDs() = %v, want none", ids)
	}
	if b.Name() != "plain" {
		t.Errorf("Name() = %q, want plain", b.Name())
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		path   string
		wantIs error
	}{
		{
			name:   "missing_file",
			path:   filepath.Join(dir, "missing.dll"),
			wantIs: fs.ErrNotExist,
		},
		{
			name:   "empty_file",
			path:   testutil.WriteFile(t, dir, "empty.dll", nil),
			wantIs: ErrUnsupportedFormat,
		},
		{
			name:   "text_file",
			path:   testutil.WriteFile(t, dir, "notes.txt", []byte("plain text, not a binary")),
			wantIs: ErrUnsupportedFormat,
		},
		{
			name: "truncated_pe",
			path: testutil.WriteFile(t, dir, "broken.exe", []byte("MZ\x90\x00")),
		},
		{
			name: "truncated_macho",
			path: testutil.WriteFile(t, dir, "broken.dylib", []byte{0xcf, 0xfa, 0xed, 0xfe, 0x07}),
		},
		{
			name: "corrupt_bundle",
			path: testutil.WriteFile(t, dir, "broken.zip", []byte("PK\x03\x04not really a zip")),
		},
		{
			name: "directory",
			path: dir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Load(tt.path)
			if err == nil {
				b.Close()
				t.Fatal("expected error but got none")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error %v should match %v", err, tt.wantIs)
			}
		})
	}
}

func TestLoad_DuplicateEntries(t *testing.T) {
	path := testutil.WriteBundle(t, filepath.Join(t.TempDir(), "Lib.dll"), []testutil.Entry{
		{Name: "Lib.dup.txt", Data: []byte("first")},
		{Name: "Lib.dup.txt", Data: []byte("second")},
	})
	b := loadFixture(t, path)

	if got := b.ResourceIDs(); !slices.Equal(got, []string{"Lib.dup.txt"}) {
		t.Errorf("ResourceIDs() = %v", got)
	}
	if got := readAll(t, b, "Lib.dup.txt"); string(got) != "first" {
		t.Errorf("payload = %q, want first", got)
	}
}

func TestExecutablePath(t *testing.T) {
	got, err := ExecutablePath(context.Background())
	if err != nil {
		t.Fatalf("ExecutablePath: %v", err)
	}

	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("stat %s: %v", got, err)
	}
	if !info.Mode().IsRegular() {
		t.Errorf("%s is not a regular file", got)
	}

	want, _ := os.Executable()
	if filepath.Base(got) != filepath.Base(want) {
		t.Errorf("ExecutablePath() = %s, os.Executable() = %s", got, want)
	}
}

func TestLoadSelf(t *testing.T) {
	b, err := LoadSelf(context.Background())
	if err != nil {
		t.Fatalf("LoadSelf: %v", err)
	}
	defer b.Close()

	if b.Format() == FormatBundle {
		t.Error("test binary detected as a bare bundle")
	}
}
