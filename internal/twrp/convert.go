package twrp

import (
	"archive/tar"
	"io"

	"github.com/pkg/errors"
	"github.com/wal-g/tracelog"
	"github.com/wal-g/twrp2tar/internal/crypto/oaes"
)

// Converter writes translated entries to a tar writer.
type Converter struct {
	Writer  *tar.Writer
	Session *Session
	// OnEntry is called after every written entry.
	OnEntry func(session *Session)
}

func NewConverter(writer *tar.Writer, session *Session) *Converter {
	return &Converter{Writer: writer, Session: session}
}

// TransferEntry translates the header of entry and copies its payload.
// PAX global headers are skipped.
func (converter *Converter) TransferEntry(entry *Entry) error {
	session := converter.Session
	if entry.Header.Typeflag == tar.TypeXGlobalHeader {
		session.SkippedEntries++
		tracelog.DebugLogger.Printf("Skipping PAX global header #%d\n", entry.Index)
		return nil
	}

	wasWarned := session.AbsolutePathWarned
	droppedBefore := session.DroppedPAXRecords
	header, err := TranslateHeader(entry.Header, session)
	if err != nil {
		return err
	}
	if !wasWarned && session.AbsolutePathWarned {
		tracelog.WarningLogger.Println("Removing leading '/' from member names")
	}
	if droppedBefore == 0 && session.DroppedPAXRecords > 0 {
		tracelog.WarningLogger.Printf("Extended attributes and SELinux contexts are dropped, first seen on '%s'\n", header.Name)
	}

	session.Processed++
	tracelog.DebugLogger.Printf("%c %o %d/%d %d %s\n",
		header.Typeflag, header.Mode, header.Uid, header.Gid, header.Size, header.Name)
	if err := converter.Writer.WriteHeader(header); err != nil {
		return NewIOError(err, "failed to write header of '%s'", header.Name)
	}

	expected := int64(0)
	if hasPayload(header.Typeflag) {
		expected = header.Size
	}
	copied, err := io.CopyN(converter.Writer, entry.Reader, expected)
	if err != nil {
		return NewIOError(err, "copied %d of %d payload bytes of '%s'", copied, expected, header.Name)
	}

	if converter.OnEntry != nil {
		converter.OnEntry(session)
	}
	return nil
}

type ConvertOptions struct {
	// EntryLimit stops the conversion after that many written entries. Zero means no limit.
	EntryLimit int
	Progress   func(session *Session)
}

// Convert writes every entry of stream to dst as a GNU tar archive.
// The end-of-archive marker is written only when the whole conversion succeeded.
func Convert(stream BackupStream, dst io.Writer, session *Session, opts ConvertOptions) error {
	tarWriter := tar.NewWriter(dst)
	converter := NewConverter(tarWriter, session)
	converter.OnEntry = opts.Progress

	var transferErr error
	err := stream.IterateEntries(func(entry *Entry) CallbackResult {
		transferErr = converter.TransferEntry(entry)
		if transferErr != nil {
			return Error
		}
		if opts.EntryLimit > 0 && session.Processed >= opts.EntryLimit {
			return Stop
		}
		return Continue
	})
	if err != nil {
		var signaled CallbackSignaledError
		if errors.As(err, &signaled) && transferErr != nil {
			return NewCallbackSignaledError(signaled.Index, classifyTransferError(transferErr))
		}
		return err
	}

	if err := tarWriter.Close(); err != nil {
		return NewIOError(err, "failed to finalize archive")
	}
	return nil
}

// classifyTransferError reports a payload that could not be decrypted as a DecryptionError,
// as IterateEntries does for headers.
func classifyTransferError(err error) error {
	var decryptionErr oaes.Error
	if errors.As(err, &decryptionErr) {
		return NewDecryptionError(err)
	}
	return err
}
