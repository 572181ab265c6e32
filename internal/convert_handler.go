package internal

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/wal-g/tracelog"
	"github.com/wal-g/twrp2tar/internal/checksum"
	"github.com/wal-g/twrp2tar/internal/compression"
	"github.com/wal-g/twrp2tar/internal/compression/none"
	"github.com/wal-g/twrp2tar/internal/crypto"
	"github.com/wal-g/twrp2tar/internal/ioextensions"
	"github.com/wal-g/twrp2tar/internal/limiters"
	"github.com/wal-g/twrp2tar/internal/statistics"
	"github.com/wal-g/twrp2tar/internal/twrp"
	"golang.org/x/time/rate"
)

const DroppedMetadataWarning = "The converted archive omits extended attributes and SELinux contexts. " +
	"Files can be accessed, but restoring it to an Android device will fail."

type ConvertSettings struct {
	Key        []byte
	EntryLimit int
	// Compressor of the output, none when nil.
	Compressor compression.Compressor
	// Crypter encrypts the output when set.
	Crypter crypto.Crypter
	// Limiter throttles the input when set.
	Limiter *rate.Limiter
	// Progress receives the running entry counter when set.
	Progress io.Writer
	// ExpectedDigest is the SHA-256 of the whole input, checked before the archive is finished.
	ExpectedDigest string
}

type ConvertResult struct {
	Kind         twrp.StreamKind
	Compression  string
	Session      twrp.Session
	BytesRead    int64
	BytesWritten int64
}

func openBackup(ctx context.Context, input io.Reader, key []byte, limiter *rate.Limiter) (twrp.BackupStream, *ioextensions.CountingReader, error) {
	rawInput := ioextensions.NewCountingReader(input)
	var source io.Reader = rawInput
	if limiter != nil {
		source = limiters.NewReader(ctx, rawInput, limiter)
	}
	stream, err := twrp.Open(source, key)
	if err != nil {
		return nil, nil, err
	}
	tracelog.DebugLogger.Printf("Input is a %s backup\n", stream.Kind())
	return stream, rawInput, nil
}

// HandleConvert converts the TWRP backup read from input into a GNU tar archive on output.
// On failure the archive is left without its end marker and output should be discarded.
func HandleConvert(ctx context.Context, input io.Reader, output io.Writer, settings ConvertSettings) (*ConvertResult, error) {
	start := time.Now()
	var digestReader *checksum.ReaderWithChecksum
	if settings.ExpectedDigest != "" {
		digestReader = checksum.CreateReaderWithChecksum(input, checksum.NewCalculator())
		input = digestReader
	}
	stream, rawInput, err := openBackup(ctx, input, settings.Key, settings.Limiter)
	if err != nil {
		statistics.RecordConversion(statistics.Conversion{Kind: "unknown", Failed: true, Duration: time.Since(start)})
		return nil, err
	}
	result := &ConvertResult{Kind: stream.Kind()}

	compressor := settings.Compressor
	if compressor == nil {
		compressor = none.Compressor{}
	}
	countedOutput := ioextensions.NewCountingWriter(output)
	archiveWriter, err := NewArchiveWriter(countedOutput, compressor, settings.Crypter)
	if err != nil {
		return nil, err
	}

	options := twrp.ConvertOptions{EntryLimit: settings.EntryLimit}
	if settings.Progress != nil {
		options.Progress = func(session *twrp.Session) {
			fmt.Fprintf(settings.Progress, "\r%07d", session.Processed)
		}
	}
	err = twrp.Convert(stream, archiveWriter, &result.Session, options)
	if err == nil && digestReader != nil {
		err = verifyInputDigest(digestReader, settings.ExpectedDigest)
	}
	if err == nil {
		err = errors.Wrap(archiveWriter.Close(), "failed to finish output")
	}
	if settings.Progress != nil && result.Session.Processed > 0 {
		fmt.Fprintln(settings.Progress)
	}

	result.Compression = stream.CompressionMethod()
	result.BytesRead = rawInput.BytesRead()
	result.BytesWritten = countedOutput.BytesWritten()
	statistics.RecordConversion(statistics.Conversion{
		Kind:           result.Kind.String(),
		Failed:         err != nil,
		Entries:        result.Session.Processed,
		SkippedEntries: result.Session.SkippedEntries,
		DroppedRecords: result.Session.DroppedPAXRecords,
		BytesRead:      result.BytesRead,
		BytesWritten:   result.BytesWritten,
		Duration:       time.Since(start),
	})
	if err != nil {
		return result, err
	}

	tracelog.InfoLogger.Printf("Converted %07d entries of %s backup in %v\n",
		result.Session.Processed, result.Kind, time.Since(start).Round(time.Millisecond))
	return result, nil
}

func verifyInputDigest(reader *checksum.ReaderWithChecksum, expected string) error {
	drained, err := reader.Drain()
	if err != nil {
		return twrp.NewIOError(err, "failed to read input for digest verification")
	}
	tracelog.DebugLogger.Printf("Read %d trailing input bytes for digest verification\n", drained)
	return reader.Calculator.Verify(expected)
}
