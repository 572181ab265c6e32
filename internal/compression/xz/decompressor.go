package xz

import (
	"io"

	"github.com/ulikunitz/xz"
	"github.com/wal-g/twrp2tar/internal/compression/computils"
)

type Decompressor struct{}

func (decompressor Decompressor) Decompress(src io.Reader) (io.ReadCloser, error) {
	xzReader, err := xz.NewReader(src)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(xzReader), nil
}

func (decompressor Decompressor) FileExtension() string {
	return FileExtension
}

func (decompressor Decompressor) Match(header []byte) bool {
	return computils.MatchesMagicBytes(header, MagicBytes)
}
