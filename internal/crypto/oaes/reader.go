package oaes

import (
	"crypto/aes"
	"crypto/cipher"
	"io"
)

// Reader wraps ordinary reader with OAES decryption.
// Records are read lazily, nothing is consumed before the first Read.
type Reader struct {
	io.Reader

	block cipher.Block

	record []byte
	out    []byte

	outIdx int
	outLen int

	err error
}

// NewReader creates Reader from ordinary reader and key
func NewReader(reader io.Reader, key []byte) (*Reader, error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}
	return &Reader{
		Reader: reader,
		block:  block,
		record: make([]byte, MaxRecordSize),
		out:    make([]byte, MaxRecordSize),
	}, nil
}

func newBlock(key []byte) (cipher.Block, error) {
	normalized, err := NormalizeKey(key)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(normalized)
	if err != nil {
		return nil, Error{err}
	}
	return block, nil
}

// Read implements io.Reader
func (reader *Reader) Read(p []byte) (n int, err error) {
	for reader.outIdx >= reader.outLen {
		if reader.err != nil {
			return 0, reader.err
		}
		reader.err = reader.readNextRecord()
	}

	n = copy(p, reader.out[reader.outIdx:reader.outLen])
	reader.outIdx += n
	return n, nil
}

func (reader *Reader) readNextRecord() error {
	n, err := io.ReadFull(reader.Reader, reader.record)
	if err == io.EOF {
		return io.EOF
	}
	if err != nil && err != io.ErrUnexpectedEOF {
		return err
	}

	// a short record can only be the last one, the next read reports io.EOF
	plain, err := reader.decryptRecord(reader.record[:n])
	if err != nil {
		return err
	}
	reader.outIdx = 0
	reader.outLen = len(plain)
	return nil
}

func (reader *Reader) decryptRecord(record []byte) ([]byte, error) {
	if len(record) < RecordHeaderSize {
		return nil, newError("truncated record: %d bytes", len(record))
	}
	header, err := parseRecordHeader(record[:HeaderSize])
	if err != nil {
		return nil, err
	}
	iv := record[HeaderSize:RecordHeaderSize]
	data := record[RecordHeaderSize:]
	if len(data)%BlockSize != 0 {
		return nil, newError("ciphertext length %d is not a multiple of the block size", len(data))
	}

	plain := reader.out[:len(data)]
	if header.isCBC() {
		cipher.NewCBCDecrypter(reader.block, iv).CryptBlocks(plain, data)
	} else {
		for i := 0; i < len(data); i += BlockSize {
			reader.block.Decrypt(plain[i:i+BlockSize], data[i:i+BlockSize])
		}
	}

	if header.padded() {
		return unpad(plain)
	}
	return plain, nil
}
