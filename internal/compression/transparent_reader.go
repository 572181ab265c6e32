package compression

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/wal-g/tracelog"
	"github.com/wal-g/twrp2tar/internal/compression/computils"
)

const transparentBufferSize = 4096

type DecompressionError struct {
	error
}

func newDecompressionError(err error, decompressor Decompressor) DecompressionError {
	return DecompressionError{errors.Wrapf(err, "failed to start %s decompression", decompressor.FileExtension())}
}

func (err DecompressionError) Error() string {
	return fmt.Sprintf(tracelog.GetErrorFormatter(), err.error)
}

func (err DecompressionError) Unwrap() error {
	return err.error
}

// TransparentReader decompresses its source if the source starts with the
// magic bytes of a known format and passes it through unchanged otherwise.
// Input that already starts with a tar header is never decompressed.
// Detection happens on the first Read so nothing is consumed before that.
type TransparentReader struct {
	src *bufio.Reader

	reader       io.Reader
	closer       io.Closer
	decompressor Decompressor

	err error
}

func NewTransparentReader(src io.Reader) *TransparentReader {
	return &TransparentReader{src: bufio.NewReaderSize(src, transparentBufferSize)}
}

func (reader *TransparentReader) Read(p []byte) (int, error) {
	if reader.reader == nil && reader.err == nil {
		reader.err = reader.detect()
	}
	if reader.err != nil {
		return 0, reader.err
	}
	return reader.reader.Read(p)
}

func (reader *TransparentReader) detect() error {
	header, err := reader.src.Peek(computils.TarBlockSize)
	if err != nil && err != io.EOF {
		return err
	}
	if computils.IsTarHeader(header) {
		tracelog.DebugLogger.Println("Input starts with a tar header, reading it as is")
		reader.reader = reader.src
		return nil
	}

	decompressor := DetectDecompressor(header)
	if decompressor == nil {
		tracelog.DebugLogger.Println("No compression detected, reading input as is")
		reader.reader = reader.src
		return nil
	}

	tracelog.DebugLogger.Printf("Detected %s compressed input\n", decompressor.FileExtension())
	decompressed, err := decompressor.Decompress(reader.src)
	if err != nil {
		return newDecompressionError(err, decompressor)
	}
	reader.reader = decompressed
	reader.closer = decompressed
	reader.decompressor = decompressor
	return nil
}

// Decompressor returns the detected decompressor, nil when the input is not compressed
// or nothing has been read yet.
func (reader *TransparentReader) Decompressor() Decompressor {
	return reader.decompressor
}

func (reader *TransparentReader) Close() error {
	if reader.closer == nil {
		return nil
	}
	return reader.closer.Close()
}
