package internal_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wal-g/twrp2tar/internal"
)

func TestOutputFile_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.tar")
	output, err := internal.CreateOutputFile(path)
	require.NoError(t, err)

	_, err = output.Write([]byte("archive"))
	require.NoError(t, err)
	require.NoError(t, output.Finish(false))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "archive", string(content))
	assert.NoFileExists(t, path+".lock")
}

func TestOutputFile_FailureRemovesOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.tar")
	output, err := internal.CreateOutputFile(path)
	require.NoError(t, err)

	_, err = output.Write([]byte("incomplete"))
	require.NoError(t, err)
	require.NoError(t, output.Finish(true))

	assert.NoFileExists(t, path)
	assert.NoFileExists(t, path+".lock")
}

func TestOutputFile_Locked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.tar")
	first, err := internal.CreateOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = first.Finish(false) }()

	_, err = internal.CreateOutputFile(path)
	assert.IsType(t, internal.OutputLockedError{}, err)
}

func TestOutputFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "backup.tar")
	_, err := internal.CreateOutputFile(path)
	assert.Error(t, err)
}
