package snappy

import (
	"io"

	"github.com/klauspost/compress/snappy"
)

const (
	AlgorithmName = "snappy"
	FileExtension = "sz"
)

// MagicBytes is the stream identifier chunk of the snappy framing format.
var MagicBytes = [][]byte{
	append([]byte{0xff, 0x06, 0x00, 0x00}, []byte("sNaPpY")...),
}

type Compressor struct{}

func (compressor Compressor) NewWriter(writer io.Writer) io.WriteCloser {
	return snappy.NewBufferedWriter(writer)
}

func (compressor Compressor) FileExtension() string {
	return FileExtension
}
