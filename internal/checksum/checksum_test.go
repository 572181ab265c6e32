package checksum_test

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wal-g/twrp2tar/internal/checksum"
)

func digestOf(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

func TestReaderWithChecksum_Drain(t *testing.T) {
	calculator := checksum.NewCalculator()
	reader := checksum.CreateReaderWithChecksum(strings.NewReader("data.ext4.win000"), calculator)

	head := make([]byte, 4)
	_, err := reader.Read(head)
	require.NoError(t, err)
	drained, err := reader.Drain()
	require.NoError(t, err)

	assert.Equal(t, int64(12), drained)
	assert.Equal(t, digestOf("data.ext4.win000"), calculator.Sum())
	assert.NoError(t, calculator.Verify(strings.ToUpper(digestOf("data.ext4.win000"))))
}

func TestCalculator_VerifyMismatch(t *testing.T) {
	calculator := checksum.NewCalculator()
	calculator.AddData([]byte("tampered"))

	err := calculator.Verify(digestOf("original"))
	assert.IsType(t, checksum.DigestMismatchError{}, err)
}

func TestParseDigest(t *testing.T) {
	digest := digestOf("backup")

	parsed, err := checksum.ParseDigest([]byte(digest + "  data.ext4.win\n"))
	require.NoError(t, err)
	assert.Equal(t, digest, parsed)

	parsed, err = checksum.ParseDigest([]byte(strings.ToUpper(digest)))
	require.NoError(t, err)
	assert.Equal(t, digest, parsed)

	_, err = checksum.ParseDigest([]byte("\n" + digest))
	assert.Error(t, err)
	_, err = checksum.ParseDigest([]byte("abc  data.ext4.win"))
	assert.Error(t, err)
}

func TestReadDigestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.ext4.win.sha2")
	require.NoError(t, os.WriteFile(path, []byte(digestOf("backup")+"  data.ext4.win\n"), 0600))

	digest, err := checksum.ReadDigestFile(path)
	require.NoError(t, err)
	assert.Equal(t, digestOf("backup"), digest)

	_, err = checksum.ReadDigestFile(path + ".missing")
	assert.Error(t, err)
}
