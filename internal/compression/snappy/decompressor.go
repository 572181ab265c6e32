package snappy

import (
	"io"

	"github.com/klauspost/compress/snappy"
	"github.com/wal-g/twrp2tar/internal/compression/computils"
)

type Decompressor struct{}

func (decompressor Decompressor) Decompress(src io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(src)), nil
}

func (decompressor Decompressor) FileExtension() string {
	return FileExtension
}

func (decompressor Decompressor) Match(header []byte) bool {
	return computils.MatchesMagicBytes(header, MagicBytes)
}
