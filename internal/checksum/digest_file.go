package checksum

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/wal-g/tracelog"
)

type DigestMismatchError struct {
	error
}

func NewDigestMismatchError(expected, actual string) DigestMismatchError {
	return DigestMismatchError{errors.Errorf("input digest %s does not match expected %s", actual, expected)}
}

func (err DigestMismatchError) Error() string {
	return fmt.Sprintf(tracelog.GetErrorFormatter(), err.error)
}

// ReadDigestFile reads a digest file in sha256sum format, "<hex digest>  <file name>",
// as TWRP writes it to <backup>.sha2. Only the first line is used.
func ReadDigestFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read digest file '%s'", path)
	}
	return ParseDigest(content)
}

func ParseDigest(content []byte) (string, error) {
	line := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	fields := strings.Fields(string(line))
	if len(fields) == 0 {
		return "", errors.New("digest file is empty")
	}
	digest := strings.ToLower(fields[0])
	if decoded, err := hex.DecodeString(digest); err != nil || len(decoded) != 32 {
		return "", errors.Errorf("'%s' is not a SHA-256 digest", fields[0])
	}
	return digest, nil
}

// Verify compares the calculated digest with expected.
func (calculator *Calculator) Verify(expected string) error {
	actual := calculator.Sum()
	if actual != strings.ToLower(expected) {
		return NewDigestMismatchError(expected, actual)
	}
	tracelog.DebugLogger.Printf("Input digest %s verified\n", actual)
	return nil
}
