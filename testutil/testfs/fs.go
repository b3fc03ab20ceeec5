package testfs

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const prefix = "shelftest_"

func NewTempDir(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", prefix)
	require.NoError(t, err)
	return dir, func() {
		require.NoError(t, os.RemoveAll(dir))
	}
}

// WriteFile writes data to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	p := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(p, data, 0644))
	return p
}

// NewTempFile returns a file holding data, positioned at its start.
func NewTempFile(t *testing.T, data []byte) (*os.File, func()) {
	f, err := ioutil.TempFile("", prefix)
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)
	return f, func() {
		require.NoError(t, f.Close())
		require.NoError(t, os.Remove(f.Name()))
	}
}
