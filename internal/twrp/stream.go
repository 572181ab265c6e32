package twrp

import (
	"archive/tar"
	"bufio"
	"io"

	"github.com/wal-g/twrp2tar/internal/compression"
	"github.com/wal-g/twrp2tar/internal/crypto/oaes"
	"github.com/wal-g/twrp2tar/internal/ioextensions"
)

// PeekSize is how much of the input is buffered before deciding whether it is encrypted.
const PeekSize = 4096 * 4

type StreamKind int

const (
	PlainKind StreamKind = iota
	EncryptedKind
)

func (kind StreamKind) String() string {
	if kind == EncryptedKind {
		return "encrypted"
	}
	return "plain"
}

// BackupStream is either a *PlainStream or an *EncryptedStream.
// Both iterate entries the same way, only Kind tells them apart.
type BackupStream interface {
	Kind() StreamKind
	// IterateEntries may be called once.
	IterateEntries(callback EntryCallback) error
	// CompressionMethod is the file extension of the detected compression,
	// empty for uncompressed input or before the first entry was read.
	CompressionMethod() string
	// ContainerBytesRead counts decompressed container bytes consumed so far.
	ContainerBytesRead() int64

	isBackupStream()
}

type PlainStream struct {
	*entryStream
}

func (stream *PlainStream) Kind() StreamKind {
	return PlainKind
}

func (stream *PlainStream) isBackupStream() {}

type EncryptedStream struct {
	*entryStream
}

func (stream *EncryptedStream) Kind() StreamKind {
	return EncryptedKind
}

func (stream *EncryptedStream) isBackupStream() {}

// Open decides from the first bytes of src whether it is encrypted and
// composes decryption, decompression and tar parsing on top of it.
// An empty key is the same as no key. The key must be supplied exactly
// when the input is encrypted.
func Open(src io.Reader, key []byte) (BackupStream, error) {
	source := &sourceReader{Reader: src}
	buffered := bufio.NewReaderSize(source, PeekSize)
	peek, err := buffered.Peek(PeekSize)
	if err != nil && err != io.EOF {
		return nil, NewIOError(err, "failed to fill input buffer")
	}

	encrypted := oaes.HasMagic(peek)
	hasKey := len(key) > 0
	switch {
	case encrypted && hasKey:
		decrypted, err := oaes.NewReader(buffered, key)
		if err != nil {
			return nil, NewDecryptionError(err)
		}
		return &EncryptedStream{newEntryStream(source, decrypted)}, nil
	case !encrypted && !hasKey:
		return &PlainStream{newEntryStream(source, buffered)}, nil
	case encrypted:
		return nil, NewMissingKeyError()
	default:
		return nil, NewKeyForUnencryptedInputError()
	}
}

type entryStream struct {
	source       *sourceReader
	decompressed *compression.TransparentReader
	counter      *ioextensions.CountingReader
	tarReader    *tar.Reader
	consumed     bool
}

func newEntryStream(source *sourceReader, reader io.Reader) *entryStream {
	decompressed := compression.NewTransparentReader(reader)
	counter := ioextensions.NewCountingReader(decompressed)
	return &entryStream{
		source:       source,
		decompressed: decompressed,
		counter:      counter,
		tarReader:    tar.NewReader(counter),
	}
}

func (stream *entryStream) CompressionMethod() string {
	if decompressor := stream.decompressed.Decompressor(); decompressor != nil {
		return decompressor.FileExtension()
	}
	return ""
}

func (stream *entryStream) ContainerBytesRead() int64 {
	return stream.counter.BytesRead()
}

// sourceReader remembers the first transport failure of the raw input,
// so that it is not mistaken for a malformed container further up.
type sourceReader struct {
	io.Reader
	err error
}

func (reader *sourceReader) Read(p []byte) (int, error) {
	n, err := reader.Reader.Read(p)
	if err != nil && err != io.EOF && reader.err == nil {
		reader.err = err
	}
	return n, err
}
