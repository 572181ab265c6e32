package ioextensions

import "io"

// CountingReader remembers how many bytes have been read through it.
type CountingReader struct {
	Reader io.Reader
	n      int64
}

func NewCountingReader(reader io.Reader) *CountingReader {
	return &CountingReader{Reader: reader}
}

func (reader *CountingReader) Read(p []byte) (n int, err error) {
	n, err = reader.Reader.Read(p)
	reader.n += int64(n)
	return
}

// BytesRead returns the number of bytes consumed so far.
func (reader *CountingReader) BytesRead() int64 {
	return reader.n
}

// CountingWriter remembers how many bytes have been written through it.
type CountingWriter struct {
	Writer io.Writer
	n      int64
}

func NewCountingWriter(writer io.Writer) *CountingWriter {
	return &CountingWriter{Writer: writer}
}

func (writer *CountingWriter) Write(p []byte) (n int, err error) {
	n, err = writer.Writer.Write(p)
	writer.n += int64(n)
	return
}

func (writer *CountingWriter) BytesWritten() int64 {
	return writer.n
}
