package none

import (
	"io"
)

const (
	AlgorithmName = "none"
	FileExtension = ""
)

type Compressor struct{}

func (compressor Compressor) FileExtension() string {
	return FileExtension
}

func (compressor Compressor) NewWriter(writer io.Writer) io.WriteCloser {
	return &Writer{writer: writer}
}

// Writer passes bytes through. Close does not close the underlying writer,
// matching the behaviour of the real compressors.
type Writer struct {
	writer   io.Writer
	isClosed bool
}

func (w *Writer) Write(p []byte) (n int, err error) {
	if w.isClosed {
		return 0, io.ErrClosedPipe
	}
	return w.writer.Write(p)
}

func (w *Writer) Close() error {
	w.isClosed = true
	return nil
}
