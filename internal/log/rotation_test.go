package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pomade.log")

	rf, err := NewRotatingFile(path, 10, 2)
	require.NoError(t, err)
	defer rf.Close()

	for _, line := range []string{"aaaaaaaa\n", "bbbbbbbb\n", "cccccccc\n", "dddddddd\n"} {
		_, err := rf.Write([]byte(line))
		require.NoError(t, err)
	}

	read := func(p string) string {
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		return string(b)
	}

	assert.Equal(t, "dddddddd\n", read(path))
	assert.Equal(t, "cccccccc\n", read(path+".1"))
	assert.Equal(t, "bbbbbbbb\n", read(path+".2"))
	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err))
}

func TestRotatingFile_NoBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomade.log")

	rf, err := NewRotatingFile(path, 4, 0)
	require.NoError(t, err)

	_, err = rf.Write([]byte("1234"))
	require.NoError(t, err)
	_, err = rf.Write([]byte("5678"))
	require.NoError(t, err)
	require.NoError(t, rf.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "5678", string(b))

	_, err = rf.Write([]byte("x"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestNewRotatingFile_BadSize(t *testing.T) {
	_, err := NewRotatingFile(filepath.Join(t.TempDir(), "x.log"), 0, 1)
	assert.Error(t, err)
}
