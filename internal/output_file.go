package internal

import (
	"os"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/wal-g/tracelog"
)

// OutputFile is an output archive guarded by a lock file next to it.
type OutputFile struct {
	*os.File
	path string
	lock *flock.Flock
}

func lockPath(path string) string {
	return path + ".lock"
}

// CreateOutputFile locks path and truncates it for writing.
func CreateOutputFile(path string) (*OutputFile, error) {
	lock := flock.New(lockPath(path))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to lock output '%s'", path)
	}
	if !locked {
		return nil, NewOutputLockedError(path)
	}
	file, err := os.Create(path)
	if err != nil {
		releaseLock(lock)
		return nil, errors.Wrapf(err, "failed to create output '%s'", path)
	}
	return &OutputFile{File: file, path: path, lock: lock}, nil
}

// Finish closes the file and releases the lock. A failed output is removed,
// since an archive without its end marker must not be mistaken for a complete one.
func (output *OutputFile) Finish(failed bool) error {
	defer releaseLock(output.lock)
	err := output.File.Close()
	if !failed {
		return errors.Wrapf(err, "failed to close output '%s'", output.path)
	}
	tracelog.WarningLogger.Printf("Removing incomplete output '%s'\n", output.path)
	if removeErr := os.Remove(output.path); removeErr != nil {
		tracelog.ErrorLogger.PrintError(removeErr)
	}
	return nil
}

func releaseLock(lock *flock.Flock) {
	if err := lock.Unlock(); err != nil {
		tracelog.WarningLogger.Printf("Failed to unlock '%s': %v\n", lock.Path(), err)
		return
	}
	_ = os.Remove(lock.Path())
}
