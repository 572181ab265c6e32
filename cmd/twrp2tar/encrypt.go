package twrp2tar

import (
	"github.com/spf13/cobra"
	"github.com/wal-g/twrp2tar/internal"
)

const EncryptShortDescription = "Encrypts an archive the way TWRP encrypts backups"

var (
	encryptOutputPath string

	encryptCmd = &cobra.Command{
		Use:   "encrypt [key]",
		Short: EncryptShortDescription,
		Long: EncryptShortDescription + ". The input is compressed with " + internal.CompressionMethodSetting +
			" first, gzip produces what TWRP writes for compressed backups.",
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			key, err := readKey(args)
			fatalOnError(err)
			compressor, err := internal.ConfigureCompressor()
			fatalOnError(err)
			input, err := openInput()
			fatalOnError(err)
			output, finishOutput, err := openOutput(encryptOutputPath)
			fatalOnError(err)

			_, err = internal.HandleEncrypt(input, output, key, compressor)
			closeInput(input)
			if finishErr := finishOutput(err != nil); err == nil {
				err = finishErr
			}
			fatalOnError(err)
		},
	}
)

func init() {
	encryptCmd.Flags().StringVarP(&encryptOutputPath, OutputFlag, "o", "",
		"Write the encrypted archive to this file instead of stdout")
}
