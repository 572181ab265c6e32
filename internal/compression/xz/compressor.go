package xz

import (
	"io"

	"github.com/ulikunitz/xz"
)

const (
	AlgorithmName = "xz"
	FileExtension = "xz"
)

var MagicBytes = [][]byte{
	{0xfd, '7', 'z', 'X', 'Z', 0x00},
}

type Compressor struct{}

func (compressor Compressor) NewWriter(writer io.Writer) io.WriteCloser {
	xzWriter, err := xz.NewWriter(writer)
	if err != nil {
		panic(err)
	}
	return xzWriter
}

func (compressor Compressor) FileExtension() string {
	return FileExtension
}
