//go:build lzo
// +build lzo

package lzo

import (
	"io"

	"github.com/cyberdelia/lzo"
	"github.com/wal-g/twrp2tar/internal/compression/computils"
)

const (
	AlgorithmName = "lzo"
	FileExtension = "lzo"
)

// MagicBytes is the lzop file signature.
var MagicBytes = [][]byte{
	{0x89, 'L', 'Z', 'O', 0x00, 0x0d, 0x0a, 0x1a, 0x0a},
}

type Decompressor struct{}

func (decompressor Decompressor) Decompress(src io.Reader) (io.ReadCloser, error) {
	lzor, err := lzo.NewReader(src)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(lzor), nil
}

func (decompressor Decompressor) FileExtension() string {
	return FileExtension
}

func (decompressor Decompressor) Match(header []byte) bool {
	return computils.MatchesMagicBytes(header, MagicBytes)
}
