package twrp

import (
	"io"

	"github.com/pkg/errors"
	"github.com/wal-g/tracelog"
	"github.com/wal-g/twrp2tar/internal/crypto/oaes"
	"github.com/wal-g/twrp2tar/utility"
)

// IterateEntries hands every entry to callback in container order until
// the container ends or callback returns Stop or Error.
func (stream *entryStream) IterateEntries(callback EntryCallback) error {
	if stream.consumed {
		return NewIOError(nil, "backup stream has already been iterated")
	}
	stream.consumed = true
	defer utility.LoggedClose(stream.decompressed, "failed to release decompressor")

	for index := 0; ; index++ {
		header, err := stream.tarReader.Next()
		if err == io.EOF {
			tracelog.DebugLogger.Printf("Container ended after %d entries, %d bytes\n", index, stream.counter.BytesRead())
			return nil
		}
		if err != nil {
			return stream.classifyError(err, index)
		}

		result := callback(&Entry{Index: index, Header: header, Reader: stream.tarReader})
		switch result {
		case Continue:
		case Stop:
			tracelog.DebugLogger.Printf("Iteration stopped by consumer at entry #%d\n", index)
			return nil
		case Error:
			return NewCallbackSignaledError(index, nil)
		default:
			return NewCallbackSignaledError(index, errors.Errorf("unknown callback result %v", result))
		}
	}
}

func (stream *entryStream) classifyError(err error, index int) error {
	if stream.source.err != nil {
		return NewIOError(err, "failed to read entry #%d", index)
	}
	var decryptionErr oaes.Error
	if errors.As(err, &decryptionErr) {
		return NewDecryptionError(err)
	}
	return NewContainerParseError(err, index, stream.counter.BytesRead())
}
