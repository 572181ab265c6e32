package twrp

import (
	"archive/tar"
	"fmt"
	"io"
)

// CallbackResult tells the iterator what to do after an entry has been handed out.
type CallbackResult int

const (
	// Continue moves on to the next entry.
	Continue CallbackResult = iota
	// Stop ends the iteration successfully.
	Stop
	// Error ends the iteration with a CallbackSignaledError.
	Error
)

func (result CallbackResult) String() string {
	switch result {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("CallbackResult(%d)", int(result))
	}
}

// Entry is valid only while the callback it was passed to runs.
// Reader yields the payload and must not be used afterwards.
type Entry struct {
	Index  int
	Header *tar.Header
	Reader io.Reader
}

type EntryCallback func(entry *Entry) CallbackResult
