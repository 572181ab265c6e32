//go:build lzo && !windows
// +build lzo,!windows

package compression

import "github.com/wal-g/twrp2tar/internal/compression/lzo"

func init() {
	Decompressors = append([]Decompressor{lzo.Decompressor{}}, Decompressors...)
}
