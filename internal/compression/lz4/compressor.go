package lz4

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	AlgorithmName = "lz4"
	FileExtension = "lz4"
)

// MagicBytes is the lz4 frame signature.
var MagicBytes = [][]byte{
	{0x04, 0x22, 0x4d, 0x18},
}

type Compressor struct{}

func (compressor Compressor) NewWriter(writer io.Writer) io.WriteCloser {
	return lz4.NewWriter(writer)
}

func (compressor Compressor) FileExtension() string {
	return FileExtension
}
