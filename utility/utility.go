package utility

import (
	"io"
	"strings"

	"github.com/wal-g/tracelog"
)

const (
	// CopiedBlockMaxSize bounds the buffer FastCopy allocates per call.
	CopiedBlockMaxSize = 1 << 20
)

func LoggedClose(c io.Closer, errmsg string) {
	err := c.Close()
	if errmsg == "" {
		errmsg = "Problem with closing object"
	}
	if err != nil {
		tracelog.ErrorLogger.Printf(errmsg+": %v", err)
	}
}

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// SanitizePath strips every leading slash, turning an absolute path into a relative one.
func SanitizePath(path string) string {
	return strings.TrimLeft(path, "/")
}

// FastCopy copies data from src to dst in blocks of CopiedBlockMaxSize bytes
func FastCopy(dst io.Writer, src io.Reader) (int64, error) {
	n := int64(0)
	buf := make([]byte, CopiedBlockMaxSize)
	for {
		m, readingErr := src.Read(buf)
		if readingErr != nil && readingErr != io.EOF {
			return n, readingErr
		}
		m, writingErr := dst.Write(buf[:m])
		n += int64(m)
		if writingErr != nil || readingErr == io.EOF {
			return n, writingErr
		}
	}
}
