package artifact

import (
	"archive/zip"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// MethodXZ is the APPNOTE compression method id for xz streams.
const MethodXZ uint16 = 95

// registerDecompressors adds the non-stdlib zip methods a bundle may use.
func registerDecompressors(r *zip.Reader) {
	r.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	r.RegisterDecompressor(zstd.ZipMethodPKWare, zstd.ZipDecompressor())
	r.RegisterDecompressor(MethodXZ, newXZReader)
}

func newXZReader(r io.Reader) io.ReadCloser {
	xr, err := xz.NewReader(r)
	if err != nil {
		return errReadCloser{err: err}
	}
	return io.NopCloser(xr)
}

// errReadCloser defers a decompressor setup failure to the first Read.
type errReadCloser struct {
	err error
}

func (e errReadCloser) Read([]byte) (int, error) { return 0, e.err }
func (e errReadCloser) Close() error             { return nil }
