package gzip

import (
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/wal-g/twrp2tar/internal/compression/computils"
)

type Decompressor struct{}

// Decompress reads every concatenated gzip member, as written by pigz or repeated appends.
func (decompressor Decompressor) Decompress(src io.Reader) (io.ReadCloser, error) {
	gzipReader, err := gzip.NewReader(src)
	if err != nil {
		return nil, err
	}
	return gzipReader, nil
}

func (decompressor Decompressor) FileExtension() string {
	return FileExtension
}

func (decompressor Decompressor) Match(header []byte) bool {
	return computils.MatchesMagicBytes(header, MagicBytes)
}
