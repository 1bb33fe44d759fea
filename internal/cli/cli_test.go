package cli

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"unifs/internal/vfs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setupSource(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "note.txt"), []byte("note body"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(tmp, "inner"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "inner", "deep.txt"), []byte("deep body"), 0644))
	return tmp
}

func setupZipSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src.zip")
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	w, err := zw.Create("packed/file.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("packed body"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	return path
}

func TestResolve(t *testing.T) {
	tmp := setupSource(t)
	root := vfs.NewPhysicalDirectory(tmp)

	t.Run("Root", func(t *testing.T) {
		obj, err := resolve(root, "")
		require.NoError(t, err)
		assert.True(t, obj.IsDir())
	})

	t.Run("NestedFile", func(t *testing.T) {
		obj, err := resolve(root, "inner/deep.txt")
		require.NoError(t, err)
		assert.False(t, obj.IsDir())
		assert.Equal(t, "deep.txt", obj.Name())
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := resolve(root, "inner/absent.txt")
		assert.ErrorIs(t, err, vfs.ErrNotPresent)
	})
}

func TestResolveArchiveFlatName(t *testing.T) {
	zdir, err := vfs.OpenZipDirectory(setupZipSource(t))
	require.NoError(t, err)

	// Archive children are keyed by full entry name; resolve must find
	// them without segment-wise descent.
	obj, err := resolve(zdir, "packed/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "packed/file.txt", obj.Name())
}

func TestLsCommand(t *testing.T) {
	tmp := setupSource(t)

	out, err := execute(t, "ls", tmp)
	require.NoError(t, err)
	assert.Contains(t, out, "note.txt")
	assert.Contains(t, out, "inner/")
}

func TestCatCommand(t *testing.T) {
	tmp := setupSource(t)

	out, err := execute(t, "cat", tmp, "inner/deep.txt")
	require.NoError(t, err)
	assert.Equal(t, "deep body", out)
}

func TestCatArchiveEntry(t *testing.T) {
	path := setupZipSource(t)

	out, err := execute(t, "cat", "--zip", path, "packed/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "packed body", out)
}

func TestOpenRootDetectsArchives(t *testing.T) {
	// A plain-file source opens as a ZIP container even without --zip.
	path := setupZipSource(t)
	root, err := openRoot(path, false)
	require.NoError(t, err)

	ok, err := root.HasChild("packed/file.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}
