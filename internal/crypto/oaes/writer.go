package oaes

import (
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/pkg/errors"
)

// Writer encrypts everything written to it into OAES records.
// Close must be called to emit the final, possibly padded, record.
type Writer struct {
	io.Writer

	block cipher.Block

	chunk  []byte
	record []byte

	closed bool
}

// NewWriter creates Writer from ordinary writer and key
func NewWriter(writer io.Writer, key []byte) (*Writer, error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}
	return &Writer{
		Writer: writer,
		block:  block,
		chunk:  make([]byte, 0, MaxChunkSize+BlockSize),
		record: make([]byte, MaxRecordSize+BlockSize),
	}, nil
}

// Write implements io.Writer
func (writer *Writer) Write(p []byte) (n int, err error) {
	if writer.closed {
		return 0, errors.New("write to closed OAES writer")
	}
	for len(p) > 0 {
		free := MaxChunkSize - len(writer.chunk)
		m := len(p)
		if m > free {
			m = free
		}
		writer.chunk = append(writer.chunk, p[:m]...)
		p = p[m:]
		n += m

		if len(writer.chunk) == MaxChunkSize {
			if err = writer.writeRecord(); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

// Close flushes the pending chunk. It does not close the underlying writer.
func (writer *Writer) Close() error {
	if writer.closed {
		return nil
	}
	writer.closed = true
	if len(writer.chunk) == 0 {
		return nil
	}
	return writer.writeRecord()
}

func (writer *Writer) writeRecord() error {
	header := recordHeader{options: OptionCBC | OptionStepOff}
	if len(writer.chunk)%BlockSize != 0 {
		header.flags |= FlagPad
	}
	plain := pad(writer.chunk)

	record := writer.record[:RecordHeaderSize+len(plain)]
	header.marshal(record[:HeaderSize])
	iv := record[HeaderSize:RecordHeaderSize]
	if _, err := rand.Read(iv); err != nil {
		return errors.Wrap(err, "failed to generate OAES IV")
	}
	cipher.NewCBCEncrypter(writer.block, iv).CryptBlocks(record[RecordHeaderSize:], plain)

	writer.chunk = writer.chunk[:0]
	_, err := writer.Writer.Write(record)
	return err
}
