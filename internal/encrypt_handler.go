package internal

import (
	"io"

	"github.com/pkg/errors"
	"github.com/wal-g/tracelog"
	"github.com/wal-g/twrp2tar/internal/compression"
	"github.com/wal-g/twrp2tar/internal/compression/none"
	"github.com/wal-g/twrp2tar/internal/crypto/oaes"
	"github.com/wal-g/twrp2tar/utility"
)

// HandleEncrypt wraps input into the OAES record format TWRP writes, compressing it first
// when a compressor other than none is given. It returns the number of bytes consumed.
func HandleEncrypt(input io.Reader, output io.Writer, key []byte, compressor compression.Compressor) (int64, error) {
	if len(key) == 0 {
		return 0, errors.New("encryption needs a non-empty key")
	}
	if compressor == nil {
		compressor = none.Compressor{}
	}
	crypter := oaes.CrypterFromKey(key)
	writer, err := NewArchiveWriter(output, compressor, crypter)
	if err != nil {
		return 0, err
	}

	copied, err := utility.FastCopy(writer, input)
	if err != nil {
		return copied, errors.Wrap(err, "failed to encrypt input")
	}
	if err := writer.Close(); err != nil {
		return copied, errors.Wrap(err, "failed to finish encrypted output")
	}
	tracelog.InfoLogger.Printf("Encrypted %d bytes with %s\n", copied, crypter.Name())
	return copied, nil
}
