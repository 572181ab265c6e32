package openpgp_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wal-g/twrp2tar/internal/crypto"
	pgpcrypter "github.com/wal-g/twrp2tar/internal/crypto/openpgp"
)

func noPassphrase() (string, bool) {
	return "", false
}

func armoredPrivateKey(t *testing.T) string {
	entity, err := openpgp.NewEntity("twrp2tar", "test", "twrp2tar@example.com", nil)
	require.NoError(t, err)

	var buffer bytes.Buffer
	writer, err := armor.Encode(&buffer, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(writer, nil))
	require.NoError(t, writer.Close())
	return buffer.String()
}

func roundTrip(t *testing.T, crypter crypto.Crypter, data []byte) []byte {
	var encrypted bytes.Buffer
	writer, err := crypter.Encrypt(&encrypted)
	require.NoError(t, err)
	_, err = writer.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	assert.NotEmpty(t, encrypted.Bytes())

	reader, err := crypter.Decrypt(&encrypted)
	require.NoError(t, err)
	decrypted, err := io.ReadAll(reader)
	require.NoError(t, err)
	return decrypted
}

func TestCrypterFromKey(t *testing.T) {
	data := []byte(strings.Repeat("ustar archive bytes ", 1000))
	crypter := pgpcrypter.CrypterFromKey(armoredPrivateKey(t), noPassphrase)
	assert.Equal(t, "Opengpg/Crypter", crypter.Name())
	assert.Equal(t, data, roundTrip(t, crypter, data))
}

func TestCrypterFromKey_EscapedNewlines(t *testing.T) {
	escaped := strings.ReplaceAll(armoredPrivateKey(t), "\n", `\n`)
	crypter := pgpcrypter.CrypterFromKey(escaped, noPassphrase)
	assert.Equal(t, []byte("x"), roundTrip(t, crypter, []byte("x")))
}

func TestCrypterFromKeyPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.asc")
	require.NoError(t, os.WriteFile(path, []byte(armoredPrivateKey(t)), 0600))

	crypter := pgpcrypter.CrypterFromKeyPath(path, noPassphrase)
	assert.Equal(t, []byte("payload"), roundTrip(t, crypter, []byte("payload")))
}

func TestCrypterFromKeyPath_Missing(t *testing.T) {
	crypter := pgpcrypter.CrypterFromKeyPath(filepath.Join(t.TempDir(), "absent.asc"), noPassphrase)
	_, err := crypter.Encrypt(&bytes.Buffer{})
	assert.Error(t, err)
}

func TestCrypterFromKey_Garbage(t *testing.T) {
	crypter := pgpcrypter.CrypterFromKey("not a key", noPassphrase)
	_, err := crypter.Encrypt(&bytes.Buffer{})
	assert.Error(t, err)
}
