package bzip2

import (
	"bytes"
	"compress/bzip2"
	"io"
)

const (
	AlgorithmName = "bzip2"
	FileExtension = "bz2"
)

var (
	streamMagic = []byte("BZh")
	// a stream continues with either the first block or, when empty, the end of stream marker
	blockMagic       = []byte{0x31, 0x41, 0x59, 0x26, 0x53, 0x59}
	endOfStreamMagic = []byte{0x17, 0x72, 0x45, 0x38, 0x50, 0x90}
)

// Decompressor only, there is no bzip2 writer to pair it with.
type Decompressor struct{}

func (decompressor Decompressor) Decompress(src io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(bzip2.NewReader(src)), nil
}

func (decompressor Decompressor) FileExtension() string {
	return FileExtension
}

// Match requires "BZh", a block size digit and the magic of what follows.
func (decompressor Decompressor) Match(header []byte) bool {
	if len(header) < 10 || !bytes.HasPrefix(header, streamMagic) {
		return false
	}
	if header[3] < '1' || header[3] > '9' {
		return false
	}
	next := header[4:10]
	return bytes.Equal(next, blockMagic) || bytes.Equal(next, endOfStreamMagic)
}
