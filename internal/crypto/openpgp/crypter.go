package openpgp

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/pkg/errors"
	"github.com/wal-g/twrp2tar/internal/crypto"
	"github.com/wal-g/twrp2tar/internal/ioextensions"
)

// Crypter encrypts the produced archive for the holders of an OpenPGP key.
// Keys are read on first use.
type Crypter struct {
	ArmoredKey      string
	IsUseArmoredKey bool

	ArmoredKeyPath      string
	IsUseArmoredKeyPath bool

	PubKey    openpgp.EntityList
	SecretKey openpgp.EntityList

	loadPassphrase func() (string, bool)

	mutex sync.RWMutex
}

func (crypter *Crypter) Name() string {
	return "Opengpg/Crypter"
}

// CrypterFromKey creates Crypter from armored key.
func CrypterFromKey(armoredKey string, loadPassphrase func() (string, bool)) crypto.Crypter {
	return &Crypter{ArmoredKey: armoredKey, IsUseArmoredKey: true, loadPassphrase: loadPassphrase}
}

// CrypterFromKeyPath creates Crypter from armored key path.
func CrypterFromKeyPath(armoredKeyPath string, loadPassphrase func() (string, bool)) crypto.Crypter {
	return &Crypter{ArmoredKeyPath: armoredKeyPath, IsUseArmoredKeyPath: true, loadPassphrase: loadPassphrase}
}

// CrypterFromEntities uses an already parsed key ring for both directions.
func CrypterFromEntities(entities openpgp.EntityList) crypto.Crypter {
	return &Crypter{PubKey: entities, SecretKey: entities}
}

func (crypter *Crypter) readKeyRing() (openpgp.EntityList, error) {
	switch {
	case crypter.IsUseArmoredKey:
		// keys passed through the environment often carry escaped newlines
		evaluatedKey := strings.Replace(crypter.ArmoredKey, `\n`, "\n", -1)
		return openpgp.ReadArmoredKeyRing(strings.NewReader(evaluatedKey))
	case crypter.IsUseArmoredKeyPath:
		return readPGPKey(crypter.ArmoredKeyPath)
	default:
		return nil, errors.New("no OpenPGP key configured")
	}
}

func (crypter *Crypter) setupPubKey() error {
	crypter.mutex.RLock()
	if crypter.PubKey != nil {
		crypter.mutex.RUnlock()
		return nil
	}
	crypter.mutex.RUnlock()

	crypter.mutex.Lock()
	defer crypter.mutex.Unlock()
	if crypter.PubKey != nil { // already set up
		return nil
	}

	entityList, err := crypter.readKeyRing()
	if err != nil {
		return errors.Wrap(err, "failed to read OpenPGP public key")
	}
	crypter.PubKey = entityList
	return nil
}

// Encrypt creates encryption writer from ordinary writer
func (crypter *Crypter) Encrypt(writer io.Writer) (io.WriteCloser, error) {
	err := crypter.setupPubKey()
	if err != nil {
		return nil, err
	}

	// openpgp writes its header immediately, buffer it until the first archive bytes
	bufferedWriter := bufio.NewWriter(writer)
	encryptedWriter, err := openpgp.Encrypt(bufferedWriter, crypter.PubKey, nil, nil, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opengpg encryption error")
	}

	return ioextensions.NewOnCloseFlusher(encryptedWriter, bufferedWriter), nil
}

// Decrypt creates decrypted reader from ordinary reader
func (crypter *Crypter) Decrypt(reader io.Reader) (io.Reader, error) {
	err := crypter.loadSecret()
	if err != nil {
		return nil, err
	}

	md, err := openpgp.ReadMessage(reader, crypter.SecretKey, nil, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return md.UnverifiedBody, nil
}

func (crypter *Crypter) loadSecret() error {
	crypter.mutex.RLock()
	if crypter.SecretKey != nil {
		crypter.mutex.RUnlock()
		return nil
	}
	crypter.mutex.RUnlock()

	crypter.mutex.Lock()
	defer crypter.mutex.Unlock()
	if crypter.SecretKey != nil {
		return nil
	}

	entityList, err := crypter.readKeyRing()
	if err != nil {
		return errors.Wrap(err, "failed to read OpenPGP secret key")
	}
	if crypter.loadPassphrase != nil {
		if passphrase, ok := crypter.loadPassphrase(); ok {
			if err := decryptSecretKey(entityList, passphrase); err != nil {
				return errors.WithStack(err)
			}
		}
	}
	crypter.SecretKey = entityList
	return nil
}

func readPGPKey(path string) (openpgp.EntityList, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return openpgp.ReadArmoredKeyRing(file)
}

func decryptSecretKey(entityList openpgp.EntityList, passphrase string) error {
	for _, entity := range entityList {
		if entity.PrivateKey != nil && entity.PrivateKey.Encrypted {
			if err := entity.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
				return errors.Wrap(err, "failed to decrypt OpenPGP secret key")
			}
		}
		for _, subkey := range entity.Subkeys {
			if subkey.PrivateKey != nil && subkey.PrivateKey.Encrypted {
				if err := subkey.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
					return errors.Wrap(err, "failed to decrypt OpenPGP secret subkey")
				}
			}
		}
	}
	return nil
}
