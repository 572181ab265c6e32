package internal

import (
	"bytes"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/wal-g/tracelog"
	"github.com/wal-g/twrp2tar/internal/compression"
	"github.com/wal-g/twrp2tar/internal/crypto"
	"github.com/wal-g/twrp2tar/internal/crypto/openpgp"
	"github.com/wal-g/twrp2tar/internal/limiters"
	"golang.org/x/time/rate"
)

// KeySource lists where the backup key may come from, in order of precedence.
// The configured TWRP2TAR_KEY and TWRP2TAR_KEY_PATH settings come last.
type KeySource struct {
	Argument string
	File     string
	Ask      func() ([]byte, error)
}

// ConfigureKey returns the backup key, nil when none is given anywhere.
func ConfigureKey(source KeySource) ([]byte, error) {
	switch {
	case source.Argument != "":
		return []byte(source.Argument), nil
	case source.File != "":
		return readKeyFile(source.File)
	case source.Ask != nil:
		return source.Ask()
	}
	if key, ok := GetNonEmptySetting(KeySetting); ok {
		return []byte(key), nil
	}
	if path, ok := GetNonEmptySetting(KeyPathSetting); ok {
		return readKeyFile(path)
	}
	return nil, nil
}

// readKeyFile drops one trailing line break, as left by editors and echo.
func readKeyFile(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read key file '%s'", path)
	}
	key = bytes.TrimSuffix(key, []byte("\n"))
	key = bytes.TrimSuffix(key, []byte("\r"))
	return key, nil
}

func ConfigureCompressor() (compression.Compressor, error) {
	compressionMethod := viper.GetString(CompressionMethodSetting)
	compressor, ok := compression.Compressors[compressionMethod]
	if !ok {
		return nil, NewUnknownCompressionMethodError(compressionMethod)
	}
	return compressor, nil
}

// ConfigureCrypter returns the OpenPGP crypter for the output, nil when no key is configured.
func ConfigureCrypter() crypto.Crypter {
	loadPassphrase := func() (string, bool) {
		return GetSetting(PgpKeyPasswordSetting)
	}
	if armoredKey, ok := GetNonEmptySetting(PgpKeySetting); ok {
		return openpgp.CrypterFromKey(armoredKey, loadPassphrase)
	}
	if armoredKeyPath, ok := GetNonEmptySetting(PgpKeyPathSetting); ok {
		return openpgp.CrypterFromKeyPath(armoredKeyPath, loadPassphrase)
	}
	return nil
}

// ConfigureLimiter returns the input rate limiter, nil when the limit is not set.
func ConfigureLimiter() (*rate.Limiter, error) {
	diskLimitStr, ok := GetNonEmptySetting(DiskRateLimitSetting)
	if !ok {
		return nil, nil
	}
	diskLimit, err := strconv.Atoi(diskLimitStr)
	if err != nil {
		return nil, NewInvalidSettingError(DiskRateLimitSetting, diskLimitStr, err)
	}
	if diskLimit <= 0 {
		return nil, NewInvalidSettingError(DiskRateLimitSetting, diskLimitStr, errors.New("must be positive"))
	}
	tracelog.DebugLogger.Printf("Input is limited to %d bytes per second\n", diskLimit)
	return limiters.NewDiskLimiter(diskLimit), nil
}

// ConfigureProgress decides whether the running entry counter is printed.
// In auto mode it is printed when stderr is a terminal.
func ConfigureProgress(stderrFd int) (bool, error) {
	progress := strings.ToLower(viper.GetString(ProgressSetting))
	if progress == "" || progress == ProgressAuto {
		return IsTerminal(stderrFd), nil
	}
	enabled, err := strconv.ParseBool(progress)
	if err != nil {
		return false, NewInvalidSettingError(ProgressSetting, progress, err)
	}
	return enabled, nil
}

func ConfigureMetricsFile() string {
	return viper.GetString(MetricsFileSetting)
}
