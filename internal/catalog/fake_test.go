package catalog

import (
	"bytes"
	"errors"
	"io"
	"io/fs"

	"github.com/ZebulonRouseFrantzich/resxport/internal/artifact"
)

// fakeArtifact is an in-memory artifact.Handle that counts stream usage.
type fakeArtifact struct {
	name      string
	ids       []string
	locations map[string]artifact.Location
	payloads  map[string][]byte
	openErr   map[string]error
	readErr   map[string]error

	listed int
	opened int
	closed int
}

func newFakeArtifact(name string) *fakeArtifact {
	return &fakeArtifact{
		name:      name,
		locations: map[string]artifact.Location{},
		payloads:  map[string][]byte{},
		openErr:   map[string]error{},
		readErr:   map[string]error{},
	}
}

// add registers id with the given location. A zero location means the
// artifact has no location metadata for id.
func (f *fakeArtifact) add(id string, loc artifact.Location, payload []byte) *fakeArtifact {
	f.ids = append(f.ids, id)
	if loc != 0 {
		f.locations[id] = loc
	}
	f.payloads[id] = payload
	return f
}

func (f *fakeArtifact) Name() string { return f.name }

func (f *fakeArtifact) ResourceIDs() []string {
	f.listed++
	return append([]string(nil), f.ids...)
}

func (f *fakeArtifact) Location(id string) (artifact.Location, bool) {
	loc, ok := f.locations[id]
	return loc, ok
}

func (f *fakeArtifact) Open(id string) (artifact.Stream, error) {
	if err := f.openErr[id]; err != nil {
		return nil, err
	}
	data, ok := f.payloads[id]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: id, Err: fs.ErrNotExist}
	}

	f.opened++
	var r io.Reader = bytes.NewReader(data)
	if err := f.readErr[id]; err != nil {
		r = io.MultiReader(io.LimitReader(bytes.NewReader(data), 1), &failingReader{err: err})
	}
	return &fakeStream{Reader: r, size: int64(len(data)), onClose: func() { f.closed++ }}, nil
}

type fakeStream struct {
	io.Reader
	size    int64
	onClose func()
}

func (s *fakeStream) Size() int64 { return s.size }

func (s *fakeStream) Close() error {
	s.onClose()
	return nil
}

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) { return 0, r.err }

var errDiskGone = errors.New("device not configured")
