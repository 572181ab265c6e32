package internal

import (
	"bytes"
	"fmt"
	"os"
	"os/user"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wal-g/tracelog"
	"github.com/wal-g/twrp2tar/internal/compression/none"
)

const (
	KeySetting               = "TWRP2TAR_KEY"
	KeyPathSetting           = "TWRP2TAR_KEY_PATH"
	LogLevelSetting          = "TWRP2TAR_LOG_LEVEL"
	CompressionMethodSetting = "TWRP2TAR_COMPRESSION_METHOD"
	PgpKeySetting            = "TWRP2TAR_PGP_KEY"
	PgpKeyPathSetting        = "TWRP2TAR_PGP_KEY_PATH"
	PgpKeyPasswordSetting    = "TWRP2TAR_PGP_KEY_PASSPHRASE"
	DiskRateLimitSetting     = "TWRP2TAR_DISK_RATE_LIMIT"
	MetricsFileSetting       = "TWRP2TAR_METRICS_FILE"
	ProgressSetting          = "TWRP2TAR_PROGRESS"
	ProfileSamplingRatio     = "PROFILE_SAMPLING_RATIO"
	ProfileMode              = "PROFILE_MODE"
	ProfilePath              = "PROFILE_PATH"

	ProgressAuto = "auto"
)

var (
	CfgFile string

	defaultConfigValues = map[string]string{
		LogLevelSetting:          tracelog.NormalLogLevel,
		CompressionMethodSetting: none.AlgorithmName,
		ProgressSetting:          ProgressAuto,
	}

	AllowedSettings = map[string]bool{
		KeySetting:               true,
		KeyPathSetting:           true,
		LogLevelSetting:          true,
		CompressionMethodSetting: true,
		PgpKeySetting:            true,
		PgpKeyPathSetting:        true,
		PgpKeyPasswordSetting:    true,
		DiskRateLimitSetting:     true,
		MetricsFileSetting:       true,
		ProgressSetting:          true,
		ProfileSamplingRatio:     true,
		ProfileMode:              true,
		ProfilePath:              true,
	}

	secretSettings = map[string]bool{
		KeySetting:            true,
		PgpKeySetting:         true,
		PgpKeyPasswordSetting: true,
	}
)

func isAllowedSetting(setting string, allowedSettings map[string]bool) (exists bool) {
	_, exists = allowedSettings[setting]
	return
}

// GetSetting extract setting by key if key is set, return empty string otherwise
func GetSetting(key string) (value string, ok bool) {
	if viper.IsSet(key) {
		return viper.GetString(key), true
	}
	return "", false
}

// GetNonEmptySetting treats an empty value the same as an unset one.
func GetNonEmptySetting(key string) (value string, ok bool) {
	value, ok = GetSetting(key)
	return value, ok && value != ""
}

func Configure() {
	err := ConfigureLogging()
	if err != nil {
		tracelog.ErrorLogger.Println("Failed to configure logging.")
		tracelog.ErrorLogger.FatalError(err)
	}

	// Show all relevant ENV vars in DEVEL Logging Mode
	tracelog.DebugLogger.Print(describeEnvironment())
}

func describeEnvironment() string {
	var buff bytes.Buffer
	buff.WriteString("--- COMPILED ENVIRONMENT VARS ---\n")

	var keys []string
	for k := range viper.AllSettings() {
		keys = append(keys, strings.ToUpper(k))
	}
	sort.Strings(keys)

	for _, k := range keys {
		val, ok := os.LookupEnv(k)
		if !ok {
			continue
		}
		// for secret settings: leave them empty if they are defined but empty, otherwise hide their actual value
		if secretSettings[k] && val != "" {
			val = "--HIDDEN--"
		}
		fmt.Fprintf(&buff, "\t%s=%s\n", k, val)
	}
	return buff.String()
}

func ConfigureLogging() error {
	if logLevel, ok := GetNonEmptySetting(LogLevelSetting); ok {
		return tracelog.UpdateLogLevel(logLevel)
	}
	return nil
}

// AddConfigFlags exposes every allowed setting as a flag hidden from usage.
func AddConfigFlags(cmd *cobra.Command, hiddenCfgFlagAnnotation string) {
	cfgFlags := &pflag.FlagSet{}
	for k := range AllowedSettings {
		flagName := toFlagName(k)
		flagUsage := "Can be set through this flag or " + k + " variable"
		if secretSettings[k] {
			flagUsage += ", the variable is preferable since flags show up in the process list"
		}
		cfgFlags.String(flagName, "", flagUsage)
		_ = viper.BindPFlag(k, cfgFlags.Lookup(flagName))
	}
	cfgFlags.VisitAll(func(f *pflag.Flag) {
		if f.Annotations == nil {
			f.Annotations = map[string][]string{}
		}
		f.Annotations[hiddenCfgFlagAnnotation] = []string{"true"}
	})
	cmd.PersistentFlags().AddFlagSet(cfgFlags)
}

// InitConfig reads config file and ENV variables if set.
func InitConfig() {
	var globalViper = viper.GetViper()
	globalViper.AutomaticEnv() // read in environment variables that match
	SetDefaultValues(globalViper)
	ReadConfigFromFile(globalViper, CfgFile)
	CheckAllowedSettings(globalViper)
}

// ReadConfigFromFile read config to the viper instance
func ReadConfigFromFile(config *viper.Viper, configFile string) {
	if configFile != "" {
		config.SetConfigFile(configFile)
	} else {
		usr, err := user.Current()
		if err != nil {
			tracelog.DebugLogger.Printf("Failed to find home directory, skipping config file: %v\n", err)
			return
		}
		// Search config in home directory with name ".twrp2tar" (without extension).
		config.AddConfigPath(usr.HomeDir)
		config.SetConfigName(".twrp2tar")
	}

	// If a config file is found, read it in.
	err := config.ReadInConfig()
	if err == nil {
		tracelog.DebugLogger.Println("Using config file:", config.ConfigFileUsed())
	} else if config.ConfigFileUsed() != "" {
		// Config file is found, but parsing failed
		tracelog.WarningLogger.Printf("Failed to parse config file %s. %s.\n", config.ConfigFileUsed(), err)
	}
}

// SetDefaultValues set default settings to the viper instance
func SetDefaultValues(config *viper.Viper) {
	for setting, value := range defaultConfigValues {
		config.SetDefault(setting, value)
	}
}

// CheckAllowedSettings warns about every setting of the viper instance that is not known.
// It returns the unknown setting names.
func CheckAllowedSettings(config *viper.Viper) []string {
	var unknown []string
	for k := range config.AllSettings() {
		k = strings.ToUpper(k)
		if !isAllowedSetting(k, AllowedSettings) {
			tracelog.WarningLogger.Println(k + " is unknown")
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func toFlagName(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "-")
}
