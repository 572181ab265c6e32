package internal

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// IsTerminal reports whether fd is connected to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// ReadKeyFromTerminal prompts on prompt and reads the key from fd without echoing it.
func ReadKeyFromTerminal(fd int, prompt io.Writer) ([]byte, error) {
	if !term.IsTerminal(fd) {
		return nil, errors.New("--ask-key needs a terminal on standard input")
	}
	fmt.Fprint(prompt, "Backup key: ")
	key, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read key from terminal")
	}
	return key, nil
}
