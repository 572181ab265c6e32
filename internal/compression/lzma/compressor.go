package lzma

import (
	"io"

	"github.com/ulikunitz/xz/lzma"
)

const (
	AlgorithmName = "lzma"
	FileExtension = "lzma"
)

// defaultProperties is lc=3, lp=0, pb=2, which is how lzma alone files start in practice.
const defaultProperties = 0x5d

// headerLength is the properties byte, a 4 byte dictionary size and an 8 byte uncompressed size.
const headerLength = 13

type Compressor struct{}

func (compressor Compressor) NewWriter(writer io.Writer) io.WriteCloser {
	lzmaWriter, err := lzma.NewWriter(writer)
	if err != nil {
		panic(err)
	}
	return lzmaWriter
}

func (compressor Compressor) FileExtension() string {
	return FileExtension
}
