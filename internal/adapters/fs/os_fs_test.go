package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileCreatesParentsAndReplaces(t *testing.T) {
	fs := NewOSFileSystem()
	path := filepath.Join(t.TempDir(), "dist", "about", "index.html")

	require.NoError(t, fs.WriteFile(path, []byte("<p>one</p>"), 0644))
	require.NoError(t, fs.WriteFile(path, []byte("<p>two</p>"), 0644))

	got, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>two</p>", string(got))

	entries, err := fs.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestWriteFilePermissions(t *testing.T) {
	fs := NewOSFileSystem()
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, fs.WriteFile(path, []byte("[]"), 0600))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestCopyFile(t *testing.T) {
	fs := NewOSFileSystem()
	dir := t.TempDir()
	src := filepath.Join(dir, "styles.css")
	require.NoError(t, os.WriteFile(src, []byte("body{}"), 0640))

	dst := filepath.Join(dir, "dist", "assets", "css", "styles.css")
	require.NoError(t, fs.CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(got))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())

	assert.Error(t, fs.CopyFile(dir, filepath.Join(dir, "copy")))
	assert.Error(t, fs.CopyFile(filepath.Join(dir, "missing.css"), dst))
}

func TestIsDirAndFileExists(t *testing.T) {
	fs := NewOSFileSystem()
	dir := t.TempDir()

	assert.True(t, fs.IsDir(dir))
	assert.True(t, fs.FileExists(dir))
	assert.False(t, fs.IsDir(filepath.Join(dir, "nope")))
	assert.False(t, fs.FileExists(filepath.Join(dir, "nope")))
}
