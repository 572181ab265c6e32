package oaes

import (
	"io"

	"github.com/wal-g/twrp2tar/internal/crypto"
)

// Crypter holds the user key of a TWRP backup.
type Crypter struct {
	key []byte
}

func (crypter *Crypter) Name() string {
	return "OAES/Crypter"
}

// CrypterFromKey creates Crypter from the key given to TWRP.
func CrypterFromKey(key []byte) crypto.Crypter {
	return &Crypter{key: key}
}

// Encrypt creates encryption writer from ordinary writer
func (crypter *Crypter) Encrypt(writer io.Writer) (io.WriteCloser, error) {
	encryptingWriter, err := NewWriter(writer, crypter.key)
	if err != nil {
		return nil, err
	}
	return encryptingWriter, nil
}

// Decrypt creates decrypted reader from ordinary reader
func (crypter *Crypter) Decrypt(reader io.Reader) (io.Reader, error) {
	decryptingReader, err := NewReader(reader, crypter.key)
	if err != nil {
		return nil, err
	}
	return decryptingReader, nil
}
