package twrp2tar

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/wal-g/tracelog"
	"github.com/wal-g/twrp2tar/internal"
	"github.com/wal-g/twrp2tar/internal/checksum"
	"github.com/wal-g/twrp2tar/internal/statistics"
)

const (
	ShortDescription = "Converts TWRP backups to GNU tar archives"
	longDescription  = `twrp2tar (lossily!) converts a tar archive created by the Android recovery firmware TWRP
(Team Win Recovery Project, https://twrp.me/) to a GNU tar archive. Gzip compression of the
source archive is handled transparently. So is the TWRP-flavoured OpenAES encryption, in which
case the key has to be given as the sole argument, with --key-file, --ask-key or TWRP2TAR_KEY.

` + internal.DroppedMetadataWarning

	OutputFlag     = "output"
	LimitFlag      = "limit"
	DigestFileFlag = "digest-file"

	hiddenConfigFlagAnnotation = "twrp2tar_annotation_hidden_config_flag"
)

// These variables are here only to show current version. They are set in makefile during build process
var twrp2tarVersion = "devel"
var gitRevision = "devel"
var buildDate = "devel"

var (
	outputPath string
	entryLimit int
	digestFile string

	profileStopper internal.ProfileStopper

	cmd = &cobra.Command{
		Use:     "twrp2tar [key]",
		Short:   ShortDescription,
		Long:    longDescription,
		Example: "  twrp2tar < data.ext4.win > data.tar\n  twrp2tar --key-file key.txt --input data.ext4.win --output data.tar",
		Version: strings.Join([]string{twrp2tarVersion, gitRevision, buildDate}, "\t"),
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			internal.Configure()
			var err error
			profileStopper, err = internal.Profile()
			tracelog.ErrorLogger.FatalOnError(err)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			stopProfile()
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 1 && (args[0] == "/?" || args[0] == "-?") {
				_ = cmd.Help()
				return
			}
			runConvert(args)
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the root command.
func Execute() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func stopProfile() {
	if profileStopper != nil {
		profileStopper.Stop()
		profileStopper = nil
	}
}

// fatalOnError finishes the profile before exiting, as deferred calls do not run on exit.
func fatalOnError(err error) {
	if err != nil {
		stopProfile()
	}
	tracelog.ErrorLogger.FatalOnError(err)
}

func runConvert(args []string) {
	key, err := readKey(args)
	fatalOnError(err)
	compressor, err := internal.ConfigureCompressor()
	fatalOnError(err)
	limiter, err := internal.ConfigureLimiter()
	fatalOnError(err)
	showProgress, err := internal.ConfigureProgress(int(os.Stderr.Fd()))
	fatalOnError(err)

	settings := internal.ConvertSettings{
		Key:        key,
		EntryLimit: entryLimit,
		Compressor: compressor,
		Crypter:    internal.ConfigureCrypter(),
		Limiter:    limiter,
	}
	if showProgress {
		settings.Progress = os.Stderr
	}
	if digestFile != "" {
		settings.ExpectedDigest, err = checksum.ReadDigestFile(digestFile)
		fatalOnError(err)
	}

	input, err := openInput()
	fatalOnError(err)
	output, finishOutput, err := openOutput(outputPath)
	fatalOnError(err)

	tracelog.WarningLogger.Println(internal.DroppedMetadataWarning)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	_, err = internal.HandleConvert(ctx, input, output, settings)
	stop()

	closeInput(input)
	if finishErr := finishOutput(err != nil); err == nil {
		err = finishErr
	}
	if metricsFile := internal.ConfigureMetricsFile(); metricsFile != "" {
		statistics.WriteMetricsFile(metricsFile)
	}
	fatalOnError(err)
}

func init() {
	cobra.OnInitialize(internal.InitConfig)

	cmd.PersistentFlags().StringVar(&internal.CfgFile, "config", "", "config file (default is $HOME/.twrp2tar.yaml)")
	addInputFlags(cmd.PersistentFlags())
	cmd.Flags().StringVarP(&outputPath, OutputFlag, "o", "",
		"Write the converted archive to this file instead of stdout")
	cmd.Flags().IntVar(&entryLimit, LimitFlag, 0,
		"Stop after this many entries and finish the archive, 0 converts everything")
	cmd.Flags().StringVar(&digestFile, DigestFileFlag, "",
		"Verify the input against this SHA-256 digest file, as TWRP writes to <backup>.sha2")

	internal.AddConfigFlags(cmd, hiddenConfigFlagAnnotation)
	hideConfigFlags(cmd.PersistentFlags(), true)

	cmd.AddCommand(listCmd, encryptCmd, flagsCmd)
	cmd.InitDefaultVersionFlag()
}

func hideConfigFlags(flags *pflag.FlagSet, hidden bool) {
	flags.VisitAll(func(f *pflag.Flag) {
		if _, ok := f.Annotations[hiddenConfigFlagAnnotation]; ok {
			f.Hidden = hidden
		}
	})
}
