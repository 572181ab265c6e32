package compression

import (
	"github.com/wal-g/twrp2tar/internal/compression/none"
)

func init() {
	Compressors[none.AlgorithmName] = none.Compressor{}
	CompressingAlgorithms = append(CompressingAlgorithms, none.AlgorithmName)
}
