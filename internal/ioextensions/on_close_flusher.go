package ioextensions

import (
	"bufio"
	"io"
)

// OnCloseFlusher closes the wrapped writer and then flushes the buffer beneath it.
type OnCloseFlusher struct {
	io.WriteCloser
	flusher *bufio.Writer
}

func NewOnCloseFlusher(writeCloser io.WriteCloser, flusher *bufio.Writer) *OnCloseFlusher {
	return &OnCloseFlusher{WriteCloser: writeCloser, flusher: flusher}
}

func (flusher *OnCloseFlusher) Close() error {
	if err := flusher.WriteCloser.Close(); err != nil {
		return err
	}
	return flusher.flusher.Flush()
}

// NopWriteCloser turns a writer into a WriteCloser whose Close does nothing.
type NopWriteCloser struct {
	io.Writer
}

func (NopWriteCloser) Close() error {
	return nil
}
