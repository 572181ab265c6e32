package compression

import (
	"io"

	"github.com/wal-g/twrp2tar/internal/compression/bzip2"
	"github.com/wal-g/twrp2tar/internal/compression/gzip"
	"github.com/wal-g/twrp2tar/internal/compression/lz4"
	"github.com/wal-g/twrp2tar/internal/compression/lzma"
	"github.com/wal-g/twrp2tar/internal/compression/snappy"
	"github.com/wal-g/twrp2tar/internal/compression/xz"
	"github.com/wal-g/twrp2tar/internal/compression/zstd"
)

type Compressor interface {
	NewWriter(writer io.Writer) io.WriteCloser
	FileExtension() string
}

type Decompressor interface {
	Decompress(src io.Reader) (io.ReadCloser, error)
	FileExtension() string
	// Match reports whether header starts with the magic bytes of the format.
	Match(header []byte) bool
}

var CompressingAlgorithms = []string{
	gzip.AlgorithmName,
	zstd.AlgorithmName,
	lz4.AlgorithmName,
	lzma.AlgorithmName,
	xz.AlgorithmName,
	snappy.AlgorithmName,
}

var Compressors = map[string]Compressor{
	gzip.AlgorithmName:   gzip.Compressor{},
	zstd.AlgorithmName:   zstd.Compressor{},
	lz4.AlgorithmName:    lz4.Compressor{},
	lzma.AlgorithmName:   lzma.Compressor{},
	xz.AlgorithmName:     xz.Compressor{},
	snappy.AlgorithmName: snappy.Compressor{},
}

// Decompressors are tried in order by the transparent reader.
// lzma goes last since its magic is the weakest.
var Decompressors = []Decompressor{
	gzip.Decompressor{},
	zstd.Decompressor{},
	lz4.Decompressor{},
	xz.Decompressor{},
	snappy.Decompressor{},
	bzip2.Decompressor{},
	lzma.Decompressor{},
}

func GetDecompressorByCompressor(compressor Compressor) Decompressor {
	return FindDecompressor(compressor.FileExtension())
}

func FindDecompressor(fileExtension string) Decompressor {
	for _, decompressor := range Decompressors {
		if decompressor.FileExtension() == fileExtension {
			return decompressor
		}
	}
	return nil
}

// DetectDecompressor returns the decompressor whose magic bytes header starts with, or nil.
func DetectDecompressor(header []byte) Decompressor {
	for _, decompressor := range Decompressors {
		if decompressor.Match(header) {
			return decompressor
		}
	}
	return nil
}
