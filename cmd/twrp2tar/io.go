package twrp2tar

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/wal-g/twrp2tar/internal"
	"github.com/wal-g/twrp2tar/utility"
)

const (
	InputFlag   = "input"
	KeyFileFlag = "key-file"
	AskKeyFlag  = "ask-key"
)

var (
	inputPath string
	keyFile   string
	askKey    bool
)

func addInputFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&inputPath, InputFlag, "i", "", "Read the backup from this file instead of stdin")
	flags.StringVar(&keyFile, KeyFileFlag, "", "Read the key from this file")
	flags.BoolVar(&askKey, AskKeyFlag, false, "Prompt for the key on the terminal, needs --"+InputFlag)
}

func readKey(args []string) ([]byte, error) {
	source := internal.KeySource{File: keyFile}
	if len(args) > 0 {
		source.Argument = args[0]
	}
	if askKey {
		if inputPath == "" {
			return nil, errors.Errorf("--%s reads the key from stdin, so the backup has to be given with --%s",
				AskKeyFlag, InputFlag)
		}
		source.Ask = func() ([]byte, error) {
			return internal.ReadKeyFromTerminal(int(os.Stdin.Fd()), os.Stderr)
		}
	}
	return internal.ConfigureKey(source)
}

func openInput() (io.ReadCloser, error) {
	if inputPath == "" {
		return io.NopCloser(os.Stdin), nil
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open input '%s'", inputPath)
	}
	return file, nil
}

func closeInput(input io.Closer) {
	utility.LoggedClose(input, "failed to close input")
}

// openOutput returns stdout when path is empty. The returned finish function
// takes whether writing failed.
func openOutput(path string) (io.Writer, func(failed bool) error, error) {
	if path == "" {
		return os.Stdout, func(bool) error { return nil }, nil
	}
	output, err := internal.CreateOutputFile(path)
	if err != nil {
		return nil, nil, err
	}
	return output, output.Finish, nil
}
