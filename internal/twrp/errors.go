package twrp

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/wal-g/tracelog"
)

// IOError is a failure of the input or output transport, or a header field
// that cannot be extracted from the source entry.
type IOError struct {
	error
}

func NewIOError(cause error, format string, args ...interface{}) IOError {
	if cause == nil {
		return IOError{errors.Errorf(format, args...)}
	}
	return IOError{errors.Wrapf(cause, format, args...)}
}

func (err IOError) Error() string {
	return fmt.Sprintf(tracelog.GetErrorFormatter(), err.error)
}

func (err IOError) Unwrap() error {
	return err.error
}

// ContainerParseError reports a malformed container. Offset is the number
// of decompressed container bytes consumed when the failure was observed.
type ContainerParseError struct {
	error
	Index  int
	Offset int64
}

func NewContainerParseError(cause error, index int, offset int64) ContainerParseError {
	return ContainerParseError{
		error:  errors.Wrapf(cause, "failed to parse entry #%d at container offset %d", index, offset),
		Index:  index,
		Offset: offset,
	}
}

func (err ContainerParseError) Error() string {
	return fmt.Sprintf(tracelog.GetErrorFormatter(), err.error)
}

func (err ContainerParseError) Unwrap() error {
	return err.error
}

type DecryptionError struct {
	error
}

func NewDecryptionError(cause error) DecryptionError {
	return DecryptionError{errors.Wrap(cause, "failed to decrypt backup")}
}

func (err DecryptionError) Error() string {
	return fmt.Sprintf(tracelog.GetErrorFormatter(), err.error)
}

func (err DecryptionError) Unwrap() error {
	return err.error
}

type MissingKeyError struct {
	error
}

func NewMissingKeyError() MissingKeyError {
	return MissingKeyError{errors.New("backup is encrypted but no key was supplied")}
}

func (err MissingKeyError) Error() string {
	return fmt.Sprintf(tracelog.GetErrorFormatter(), err.error)
}

type KeyForUnencryptedInputError struct {
	error
}

func NewKeyForUnencryptedInputError() KeyForUnencryptedInputError {
	return KeyForUnencryptedInputError{errors.New("a key was supplied but the backup is not encrypted")}
}

func (err KeyForUnencryptedInputError) Error() string {
	return fmt.Sprintf(tracelog.GetErrorFormatter(), err.error)
}

// CallbackSignaledError means the entry consumer rejected entry Index.
// Cause is what made it do so, if it said.
type CallbackSignaledError struct {
	error
	Index int
	Cause error
}

func NewCallbackSignaledError(index int, cause error) CallbackSignaledError {
	if cause == nil {
		return CallbackSignaledError{error: errors.Errorf("entry #%d rejected by consumer", index), Index: index}
	}
	return CallbackSignaledError{
		error: errors.Wrapf(cause, "entry #%d rejected by consumer", index),
		Index: index,
		Cause: cause,
	}
}

func (err CallbackSignaledError) Error() string {
	return fmt.Sprintf(tracelog.GetErrorFormatter(), err.error)
}

func (err CallbackSignaledError) Unwrap() error {
	return err.error
}
