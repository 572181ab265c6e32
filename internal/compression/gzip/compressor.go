package gzip

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

const (
	AlgorithmName = "gzip"
	FileExtension = "gz"
)

// MagicBytes is the gzip member signature (RFC 1952).
var MagicBytes = [][]byte{
	{0x1f, 0x8b},
}

type Compressor struct{}

func (compressor Compressor) NewWriter(writer io.Writer) io.WriteCloser {
	return gzip.NewWriter(writer)
}

func (compressor Compressor) FileExtension() string {
	return FileExtension
}
