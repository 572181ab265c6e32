package internal

import (
	"io"

	"github.com/pkg/errors"
	"github.com/wal-g/twrp2tar/internal/compression"
	"github.com/wal-g/twrp2tar/internal/crypto"
)

// CascadeWriteCloser closes the main writer first and then the one it writes to,
// so every layer can flush its trailer into the next.
type CascadeWriteCloser struct {
	io.WriteCloser
	Underlying io.Closer
}

// Close returns the first encountered error from closing
// main or underlying writer.
func (cascadeCloser *CascadeWriteCloser) Close() error {
	err := cascadeCloser.WriteCloser.Close()
	if err != nil {
		return errors.Wrap(err, "Close: failed to close main writer")
	}
	err = cascadeCloser.Underlying.Close()
	return errors.Wrap(err, "Close: failed to close underlying writer")
}

// NewArchiveWriter stacks compression and then encryption on top of output.
// Closing it finishes both layers but leaves output open.
func NewArchiveWriter(output io.Writer, compressor compression.Compressor, crypter crypto.Crypter) (io.WriteCloser, error) {
	if crypter == nil {
		return compressor.NewWriter(output), nil
	}
	encryptedWriter, err := crypter.Encrypt(output)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to start %s", crypter.Name())
	}
	return &CascadeWriteCloser{compressor.NewWriter(encryptedWriter), encryptedWriter}, nil
}
