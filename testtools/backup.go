package testtools

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wal-g/twrp2tar/internal/compression"
	"github.com/wal-g/twrp2tar/internal/compression/gzip"
	"github.com/wal-g/twrp2tar/internal/crypto/oaes"
)

var DefaultModTime = time.Date(2021, time.March, 14, 15, 9, 26, 0, time.UTC)

// TarEntry is one member of an in-memory tar archive.
type TarEntry struct {
	Header *tar.Header
	Body   []byte
}

func NewDirEntry(name string) TarEntry {
	return TarEntry{Header: &tar.Header{
		Typeflag: tar.TypeDir,
		Name:     name,
		Mode:     0755,
		Uid:      1000,
		Gid:      1000,
		Uname:    "system",
		Gname:    "system",
		ModTime:  DefaultModTime,
	}}
}

func NewFileEntry(name string, body string) TarEntry {
	return TarEntry{
		Header: &tar.Header{
			Typeflag: tar.TypeReg,
			Name:     name,
			Mode:     0644,
			Uid:      1000,
			Gid:      1000,
			Uname:    "system",
			Gname:    "system",
			Size:     int64(len(body)),
			ModTime:  DefaultModTime,
		},
		Body: []byte(body),
	}
}

func NewSymlinkEntry(name, target string) TarEntry {
	return TarEntry{Header: &tar.Header{
		Typeflag: tar.TypeSymlink,
		Name:     name,
		Linkname: target,
		Mode:     0777,
		ModTime:  DefaultModTime,
	}}
}

func NewDeviceEntry(typeflag byte, name string, major, minor int64) TarEntry {
	return TarEntry{Header: &tar.Header{
		Typeflag: typeflag,
		Name:     name,
		Mode:     0600,
		Devmajor: major,
		Devminor: minor,
		ModTime:  DefaultModTime,
	}}
}

// BuildTar writes entries as they are, so headers may use any format archive/tar accepts.
func BuildTar(t testing.TB, entries ...TarEntry) []byte {
	var archive bytes.Buffer
	writer := tar.NewWriter(&archive)
	for _, entry := range entries {
		require.NoError(t, writer.WriteHeader(entry.Header))
		_, err := writer.Write(entry.Body)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return archive.Bytes()
}

// ReadTar parses a whole archive, failing the test on malformed input.
func ReadTar(t testing.TB, archive []byte) []TarEntry {
	entries, err := TryReadTar(archive)
	require.NoError(t, err)
	return entries
}

func TryReadTar(archive []byte) ([]TarEntry, error) {
	reader := tar.NewReader(bytes.NewReader(archive))
	var entries []TarEntry
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		body, err := io.ReadAll(reader)
		if err != nil {
			return entries, err
		}
		entries = append(entries, TarEntry{Header: header, Body: body})
	}
}

func Compress(t testing.TB, compressor compression.Compressor, data []byte) []byte {
	var compressed bytes.Buffer
	writer := compressor.NewWriter(&compressed)
	_, err := writer.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return compressed.Bytes()
}

func Gzip(t testing.TB, data []byte) []byte {
	return Compress(t, gzip.Compressor{}, data)
}

// Encrypt wraps data into OAES records the way TWRP does.
func Encrypt(t testing.TB, data []byte, key string) []byte {
	var encrypted bytes.Buffer
	writer, err := oaes.NewWriter(&encrypted, []byte(key))
	require.NoError(t, err)
	_, err = writer.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return encrypted.Bytes()
}

// FailingReader returns data and then Err instead of io.EOF.
type FailingReader struct {
	Data []byte
	Err  error
}

func (reader *FailingReader) Read(p []byte) (int, error) {
	if len(reader.Data) == 0 {
		return 0, reader.Err
	}
	n := copy(p, reader.Data)
	reader.Data = reader.Data[n:]
	return n, nil
}
