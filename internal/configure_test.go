package internal_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wal-g/twrp2tar/internal"
	"github.com/wal-g/twrp2tar/internal/compression/gzip"
	"github.com/wal-g/twrp2tar/internal/compression/none"
)

func resetToDefaults() {
	viper.Reset()
	internal.CfgFile = ""
	internal.SetDefaultValues(viper.GetViper())
}

func withDefaults(t *testing.T) {
	resetToDefaults()
	t.Cleanup(resetToDefaults)
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestConfigureKey_Precedence(t *testing.T) {
	withDefaults(t)
	viper.Set(internal.KeySetting, "from-setting")
	keyFile := writeFile(t, "key", "from-file\n")
	ask := func() ([]byte, error) { return []byte("from-terminal"), nil }

	key, err := internal.ConfigureKey(internal.KeySource{Argument: "from-argument", File: keyFile, Ask: ask})
	require.NoError(t, err)
	assert.Equal(t, []byte("from-argument"), key)

	key, err = internal.ConfigureKey(internal.KeySource{File: keyFile, Ask: ask})
	require.NoError(t, err)
	assert.Equal(t, []byte("from-file"), key)

	key, err = internal.ConfigureKey(internal.KeySource{Ask: ask})
	require.NoError(t, err)
	assert.Equal(t, []byte("from-terminal"), key)

	key, err = internal.ConfigureKey(internal.KeySource{})
	require.NoError(t, err)
	assert.Equal(t, []byte("from-setting"), key)
}

func TestConfigureKey_KeyPathSetting(t *testing.T) {
	withDefaults(t)
	viper.Set(internal.KeyPathSetting, writeFile(t, "key", "windows key\r\n"))

	key, err := internal.ConfigureKey(internal.KeySource{})
	require.NoError(t, err)
	assert.Equal(t, []byte("windows key"), key)
}

func TestConfigureKey_KeepsInnerNewlines(t *testing.T) {
	withDefaults(t)
	key, err := internal.ConfigureKey(internal.KeySource{File: writeFile(t, "key", "two\nlines\n\n")})
	require.NoError(t, err)
	assert.Equal(t, []byte("two\nlines\n"), key)
}

func TestConfigureKey_None(t *testing.T) {
	withDefaults(t)
	key, err := internal.ConfigureKey(internal.KeySource{})
	require.NoError(t, err)
	assert.Nil(t, key)
}

func TestConfigureKey_MissingFile(t *testing.T) {
	withDefaults(t)
	_, err := internal.ConfigureKey(internal.KeySource{File: filepath.Join(t.TempDir(), "absent")})
	assert.Error(t, err)
}

func TestConfigureCompressor(t *testing.T) {
	withDefaults(t)
	compressor, err := internal.ConfigureCompressor()
	require.NoError(t, err)
	assert.Equal(t, none.Compressor{}, compressor)

	viper.Set(internal.CompressionMethodSetting, gzip.AlgorithmName)
	compressor, err = internal.ConfigureCompressor()
	require.NoError(t, err)
	assert.Equal(t, gzip.Compressor{}, compressor)

	viper.Set(internal.CompressionMethodSetting, "brotli")
	_, err = internal.ConfigureCompressor()
	assert.IsType(t, internal.UnknownCompressionMethodError{}, err)
}

func TestConfigureCrypter(t *testing.T) {
	withDefaults(t)
	assert.Nil(t, internal.ConfigureCrypter())

	viper.Set(internal.PgpKeyPathSetting, "/etc/twrp2tar/key.asc")
	crypter := internal.ConfigureCrypter()
	require.NotNil(t, crypter)
	assert.Equal(t, "Opengpg/Crypter", crypter.Name())
}

func TestConfigureLimiter(t *testing.T) {
	withDefaults(t)
	limiter, err := internal.ConfigureLimiter()
	require.NoError(t, err)
	assert.Nil(t, limiter)

	viper.Set(internal.DiskRateLimitSetting, "1048576")
	limiter, err = internal.ConfigureLimiter()
	require.NoError(t, err)
	require.NotNil(t, limiter)
	assert.Equal(t, 1048576, limiter.Burst())

	for _, value := range []string{"fast", "-1", "0"} {
		viper.Set(internal.DiskRateLimitSetting, value)
		_, err = internal.ConfigureLimiter()
		assert.IsType(t, internal.InvalidSettingError{}, err, value)
	}
}

func TestConfigureProgress(t *testing.T) {
	withDefaults(t)
	devNull, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer devNull.Close()
	fd := int(devNull.Fd())

	enabled, err := internal.ConfigureProgress(fd)
	require.NoError(t, err)
	assert.False(t, enabled)

	viper.Set(internal.ProgressSetting, "true")
	enabled, err = internal.ConfigureProgress(fd)
	require.NoError(t, err)
	assert.True(t, enabled)

	viper.Set(internal.ProgressSetting, "sometimes")
	_, err = internal.ConfigureProgress(fd)
	assert.IsType(t, internal.InvalidSettingError{}, err)
}

func TestConfigureLogging(t *testing.T) {
	withDefaults(t)
	assert.NoError(t, internal.ConfigureLogging())

	viper.Set(internal.LogLevelSetting, "LOUD")
	assert.Error(t, internal.ConfigureLogging())
}

func TestInitConfig_ReadsConfigFile(t *testing.T) {
	withDefaults(t)
	internal.CfgFile = writeFile(t, "twrp2tar.yaml",
		"TWRP2TAR_COMPRESSION_METHOD: zstd\nTWRP2TAR_DISK_RATE_LIMIT: 4096\n")

	internal.InitConfig()

	assert.Equal(t, "zstd", viper.GetString(internal.CompressionMethodSetting))
	assert.Equal(t, "4096", viper.GetString(internal.DiskRateLimitSetting))
	assert.Equal(t, "auto", viper.GetString(internal.ProgressSetting))
}

func TestCheckAllowedSettings(t *testing.T) {
	config := viper.New()
	config.SetConfigFile(writeFile(t, "twrp2tar.json", `{"TWRP2TAR_KEY": "k", "WALG_S3_PREFIX": "s3://bucket"}`))
	require.NoError(t, config.ReadInConfig())

	assert.Equal(t, []string{"WALG_S3_PREFIX"}, internal.CheckAllowedSettings(config))
}

func TestAddConfigFlags(t *testing.T) {
	withDefaults(t)
	cmd := &cobra.Command{Use: "test"}
	internal.AddConfigFlags(cmd, "hidden")

	flag := cmd.PersistentFlags().Lookup("twrp2tar-compression-method")
	require.NotNil(t, flag)
	assert.Equal(t, []string{"true"}, flag.Annotations["hidden"])

	require.NoError(t, cmd.PersistentFlags().Set("twrp2tar-compression-method", "xz"))
	assert.Equal(t, "xz", viper.GetString(internal.CompressionMethodSetting))
}
