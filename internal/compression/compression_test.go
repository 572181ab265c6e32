package compression

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wal-g/twrp2tar/internal/compression/bzip2"
	"github.com/wal-g/twrp2tar/internal/compression/computils"
	"github.com/wal-g/twrp2tar/internal/compression/lzma"
	"github.com/wal-g/twrp2tar/internal/compression/none"
	"github.com/wal-g/twrp2tar/utility"
)

type BiasedRandomReader struct{}

func NewBiasedRandomReader() *BiasedRandomReader {
	return &BiasedRandomReader{}
}

func (reader *BiasedRandomReader) Read(p []byte) (n int, err error) {
	for i := 0; i < len(p); i++ {
		p[i] = byte(utility.Min(10, rand.Int()%256))
	}
	return len(p), nil
}

func compress(t *testing.T, compressor Compressor, data []byte) []byte {
	var compressed bytes.Buffer
	compressingWriter := compressor.NewWriter(&compressed)
	_, err := utility.FastCopy(compressingWriter, bytes.NewReader(data))
	require.NoError(t, err)
	require.NoError(t, compressingWriter.Close())
	return compressed.Bytes()
}

func testCompressor(compressor Compressor, testData []byte, t *testing.T) {
	compressed := compress(t, compressor, testData)

	decompressor := GetDecompressorByCompressor(compressor)
	require.NotNil(t, decompressor, compressor.FileExtension())
	assert.True(t, decompressor.Match(compressed), compressor.FileExtension())

	dr, err := decompressor.Decompress(bytes.NewReader(compressed))
	require.NoError(t, err)
	require.NotNil(t, dr)
	var decompressed bytes.Buffer
	_, err = io.Copy(&decompressed, dr)
	assert.NoError(t, err)
	assert.NoError(t, dr.Close())
	assert.Equal(t, testData, decompressed.Bytes())
}

func generateData(size int64) []byte {
	var testData bytes.Buffer
	_, _ = io.Copy(&testData, io.LimitReader(NewBiasedRandomReader(), size))
	return testData.Bytes()
}

func TestSmallDataCompression(t *testing.T) {
	const SmallDataSize = 16 << 10
	testData := generateData(SmallDataSize)
	for _, compressingAlgorithm := range CompressingAlgorithms {
		if compressingAlgorithm == none.AlgorithmName {
			continue
		}
		testCompressor(Compressors[compressingAlgorithm], testData, t)
	}
}

func TestBigDataCompression(t *testing.T) {
	const BigDataSize = 10 << 20
	testData := generateData(BigDataSize)
	for _, compressingAlgorithm := range CompressingAlgorithms {
		if compressingAlgorithm == none.AlgorithmName {
			continue
		}
		testCompressor(Compressors[compressingAlgorithm], testData, t)
	}
}

func TestDetectDecompressor_Plain(t *testing.T) {
	assert.Nil(t, DetectDecompressor([]byte("data/\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")))
	assert.Nil(t, DetectDecompressor(nil))
}

func TestTransparentReader_RoundTrip(t *testing.T) {
	testData := generateData(64 << 10)
	for _, compressingAlgorithm := range CompressingAlgorithms {
		compressed := compress(t, Compressors[compressingAlgorithm], testData)

		reader := NewTransparentReader(bytes.NewReader(compressed))
		decompressed, err := io.ReadAll(reader)
		require.NoError(t, err, compressingAlgorithm)
		assert.Equal(t, testData, decompressed, compressingAlgorithm)
		assert.NoError(t, reader.Close())

		if compressingAlgorithm == none.AlgorithmName {
			assert.Nil(t, reader.Decompressor())
		} else {
			require.NotNil(t, reader.Decompressor(), compressingAlgorithm)
			assert.Equal(t, Compressors[compressingAlgorithm].FileExtension(), reader.Decompressor().FileExtension())
		}
	}
}

func TestTransparentReader_ShortInput(t *testing.T) {
	reader := NewTransparentReader(bytes.NewReader([]byte{0x1f}))
	data, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x1f}, data)
	assert.Nil(t, reader.Decompressor())
}

func TestTransparentReader_EmptyInput(t *testing.T) {
	reader := NewTransparentReader(bytes.NewReader(nil))
	data, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Empty(t, data)
}

func TestTransparentReader_BrokenGzip(t *testing.T) {
	reader := NewTransparentReader(bytes.NewReader([]byte{0x1f, 0x8b, 0x00, 0x00}))
	_, err := io.ReadAll(reader)
	assert.Error(t, err)
	assert.IsType(t, DecompressionError{}, err)
}

func plainTar(t *testing.T, name string) []byte {
	var buffer bytes.Buffer
	writer := tar.NewWriter(&buffer)
	require.NoError(t, writer.WriteHeader(&tar.Header{Typeflag: tar.TypeReg, Name: name, Mode: 0644, Size: 5}))
	_, err := writer.Write([]byte("notes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buffer.Bytes()
}

// v7Header drops the ustar magic and rewrites the checksum, as pre-POSIX tar does.
func v7Header(block []byte) []byte {
	header := append([]byte(nil), block[:computils.TarBlockSize]...)
	copy(header[257:265], make([]byte, 8))
	copy(header[148:156], "        ")
	var sum int64
	for _, b := range header {
		sum += int64(b)
	}
	copy(header[148:156], fmt.Sprintf("%06o\x00 ", sum))
	return header
}

func TestIsTarHeader(t *testing.T) {
	archive := plainTar(t, "BZh_notes.txt")
	assert.True(t, computils.IsTarHeader(archive))

	v7 := v7Header(archive)
	assert.True(t, computils.IsTarHeader(v7))
	v7[0] ^= 0xff
	assert.False(t, computils.IsTarHeader(v7))

	assert.False(t, computils.IsTarHeader(archive[:100]))
	assert.False(t, computils.IsTarHeader(make([]byte, computils.TarBlockSize)))
	assert.False(t, computils.IsTarHeader(compress(t, Compressors["gzip"], archive)))
}

func TestBzip2Match(t *testing.T) {
	decompressor := bzip2.Decompressor{}
	assert.True(t, decompressor.Match([]byte("BZh91AY&SY\x00\x00")))
	assert.True(t, decompressor.Match([]byte("BZh1\x17\x72\x45\x38\x50\x90")))
	assert.False(t, decompressor.Match([]byte("BZh_notes.txt\x00")))
	assert.False(t, decompressor.Match([]byte("BZh01AY&SY")))
	assert.False(t, decompressor.Match([]byte("BZh9")))
}

func TestLzmaMatch(t *testing.T) {
	decompressor := lzma.Decompressor{}
	assert.True(t, decompressor.Match(compress(t, lzma.Compressor{}, []byte("data"))))
	assert.False(t, decompressor.Match([]byte("]\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")))
	assert.False(t, decompressor.Match([]byte{0x5d, 0x00, 0x00, 0x80, 0x00}))
	assert.False(t, decompressor.Match([]byte{0x5d, 0x00, 0x00, 0x80, 0x00, 1, 2, 3, 4, 5, 6, 7, 8}))
}

func TestTransparentReader_PlainTarWithMagicLikeName(t *testing.T) {
	for _, name := range []string{"BZh_notes.txt", "]", "BZh91AY&SY"} {
		archive := plainTar(t, name)
		reader := NewTransparentReader(bytes.NewReader(archive))
		data, err := io.ReadAll(reader)
		require.NoError(t, err, name)
		assert.Equal(t, archive, data, name)
		assert.Nil(t, reader.Decompressor(), name)
	}
}
