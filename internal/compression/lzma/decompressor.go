package lzma

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

var unknownSize = bytes.Repeat([]byte{0xff}, 8)

type Decompressor struct{}

func (decompressor Decompressor) Decompress(src io.Reader) (io.ReadCloser, error) {
	lzReader, err := lzma.NewReader(src)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(lzReader), nil
}

func (decompressor Decompressor) FileExtension() string {
	return FileExtension
}

// Match checks the whole lzma alone header: the default properties, a dictionary
// the reader accepts and an uncompressed size that is unknown or below 2^48.
func (decompressor Decompressor) Match(header []byte) bool {
	if len(header) < headerLength || header[0] != defaultProperties {
		return false
	}
	if binary.LittleEndian.Uint32(header[1:5]) < lzma.MinDictCap {
		return false
	}
	size := header[5:headerLength]
	return bytes.Equal(size, unknownSize) || (size[6] == 0 && size[7] == 0)
}
