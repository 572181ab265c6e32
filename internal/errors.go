package internal

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/wal-g/tracelog"
	"github.com/wal-g/twrp2tar/internal/compression"
)

type UnknownCompressionMethodError struct {
	error
}

func NewUnknownCompressionMethodError(method string) UnknownCompressionMethodError {
	return UnknownCompressionMethodError{
		errors.Errorf("Unknown compression method: '%s', supported methods are: %v",
			method, compression.CompressingAlgorithms)}
}

func (err UnknownCompressionMethodError) Error() string {
	return fmt.Sprintf(tracelog.GetErrorFormatter(), err.error)
}

// InvalidSettingError is returned for a setting whose value cannot be parsed.
type InvalidSettingError struct {
	error
}

func NewInvalidSettingError(setting, value string, cause error) InvalidSettingError {
	return InvalidSettingError{errors.Wrapf(cause, "invalid value '%s' of %s", value, setting)}
}

func (err InvalidSettingError) Error() string {
	return fmt.Sprintf(tracelog.GetErrorFormatter(), err.error)
}

func (err InvalidSettingError) Unwrap() error {
	return err.error
}

type OutputLockedError struct {
	error
}

func NewOutputLockedError(path string) OutputLockedError {
	return OutputLockedError{errors.Errorf("output '%s' is locked by another twrp2tar process", path)}
}

func (err OutputLockedError) Error() string {
	return fmt.Sprintf(tracelog.GetErrorFormatter(), err.error)
}
