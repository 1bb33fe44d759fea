package vfs

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeArchive creates a ZIP file on disk with the given entries plus an
// explicit directory entry, and returns its path.
func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "container.zip")
	out, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(out)
	_, err = zw.Create("docs/")
	require.NoError(t, err)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.Copy(w, strings.NewReader(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	return path
}

func openArchive(t *testing.T, entries map[string]string) *ZipDirectory {
	t.Helper()
	dir, err := OpenZipDirectory(writeArchive(t, entries))
	require.NoError(t, err)
	return dir
}

func TestZipScanSkipsDirectoryEntries(t *testing.T) {
	dir := openArchive(t, map[string]string{
		"docs/readme.txt": "read me",
		"data.bin":        "payload",
	})

	require.NoError(t, dir.Scan())
	require.NoError(t, dir.Scan()) // idempotent

	children, err := dir.Children()
	require.NoError(t, err)
	assert.Len(t, children, 2, "directory-like entries must not become children")

	ok, err := dir.HasChild("docs/readme.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dir.HasChild("docs/")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestZipUnscannedListingRebuilds(t *testing.T) {
	dir, err := OpenZipDirectory(writeArchive(t, map[string]string{"a.txt": "a"}))
	require.NoError(t, err)

	// Before Scan, each listing is rebuilt from the archive's name index.
	first, err := dir.Children()
	require.NoError(t, err)
	second, err := dir.Children()
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Len(t, second, 1)

	f1, err := first[0].AsFile()
	require.NoError(t, err)
	f2, err := second[0].AsFile()
	require.NoError(t, err)
	assert.NotSame(t, f1, f2, "unscanned listings build fresh nodes")
}

func TestZipChildNotPresent(t *testing.T) {
	dir := openArchive(t, map[string]string{"a.txt": "a"})

	_, err := dir.Child("missing.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotPresent)

	var notPresent *NotPresentError
	require.ErrorAs(t, err, &notPresent)
	assert.Equal(t, dir.FullPath(), notPresent.Dir)
	assert.Equal(t, "missing.txt", notPresent.Name)
}

func TestZipReadWholeEntry(t *testing.T) {
	content := strings.Repeat("0123456789", 200) // larger than one buffer window
	dir := openArchive(t, map[string]string{"big.txt": content})

	obj, err := dir.Child("big.txt")
	require.NoError(t, err)
	file, err := obj.AsFile()
	require.NoError(t, err)

	got, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestZipSize(t *testing.T) {
	content := "exactly twenty-one ch"
	dir := openArchive(t, map[string]string{"sized.txt": content})

	obj, err := dir.Child("sized.txt")
	require.NoError(t, err)
	file, err := obj.AsFile()
	require.NoError(t, err)

	size, err := file.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)
}

func TestZipSeek(t *testing.T) {
	content := "abcdefghijklmnopqrstuvwxyz"
	dir := openArchive(t, map[string]string{"letters.txt": content})

	obj, err := dir.Child("letters.txt")
	require.NoError(t, err)
	file, err := obj.AsFile()
	require.NoError(t, err)

	t.Run("EndYieldsEntrySize", func(t *testing.T) {
		pos, err := file.Seek(0, io.SeekEnd)
		require.NoError(t, err)
		assert.Equal(t, int64(len(content)), pos)
	})

	t.Run("NegativeOffsetRejected", func(t *testing.T) {
		_, err := file.Seek(0, io.SeekEnd)
		require.NoError(t, err)
		_, err = file.Seek(-int64(len(content)+1), io.SeekCurrent)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSeek)
	})

	t.Run("ReadAfterStartMatchesSkippedExtraction", func(t *testing.T) {
		const skip = 7
		_, err := file.Seek(skip, io.SeekStart)
		require.NoError(t, err)
		got, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, content[skip:], string(got))
	})

	t.Run("CurrentIsRelative", func(t *testing.T) {
		_, err := file.Seek(10, io.SeekStart)
		require.NoError(t, err)
		pos, err := file.Seek(-4, io.SeekCurrent)
		require.NoError(t, err)
		assert.Equal(t, int64(6), pos)
		got, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, content[6:], string(got))
	})
}

func TestZipUnsupportedOperations(t *testing.T) {
	dir := openArchive(t, map[string]string{"a.txt": "a"})

	obj, err := dir.Child("a.txt")
	require.NoError(t, err)
	file, err := obj.AsFile()
	require.NoError(t, err)

	_, err = file.Write([]byte("nope"))
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, file.Flush(), ErrUnsupported)
	assert.ErrorIs(t, file.Rename("b.txt"), ErrUnsupported)

	_, err = dir.NewFile("new.txt", 16)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = dir.NewDir("newdir")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestZipConcurrentEntryReads(t *testing.T) {
	left := strings.Repeat("L", 4000)
	right := strings.Repeat("R", 4000)
	dir := openArchive(t, map[string]string{
		"left.txt":  left,
		"right.txt": right,
	})

	read := func(name string) ([]byte, error) {
		obj, err := dir.Child(name)
		if err != nil {
			return nil, err
		}
		file, err := obj.AsFile()
		if err != nil {
			return nil, err
		}
		return io.ReadAll(file)
	}

	var wg sync.WaitGroup
	results := make([][]byte, 2)
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0], errs[0] = read("left.txt")
	}()
	go func() {
		defer wg.Done()
		results[1], errs[1] = read("right.txt")
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.True(t, bytes.Equal(results[0], []byte(left)), "left entry interleaved or corrupted")
	assert.True(t, bytes.Equal(results[1], []byte(right)), "right entry interleaved or corrupted")
}

func TestZipNamesAndPaths(t *testing.T) {
	dir := openArchive(t, map[string]string{"docs/readme.txt": "read me"})

	obj, err := dir.Child("docs/readme.txt")
	require.NoError(t, err)
	file, err := obj.AsFile()
	require.NoError(t, err)

	assert.Equal(t, "docs/readme.txt", file.Name())
	assert.Equal(t, "readme", file.Stem())
	assert.Equal(t, "txt", file.Ext())
	assert.Equal(t, filepath.Join(dir.FullPath(), "docs/readme.txt"), file.FullPath())

	parent := file.Parent()
	require.NotNil(t, parent)
	assert.Equal(t, dir.FullPath(), parent.FullPath())
}

func TestZipOpenCloseAreHandleFree(t *testing.T) {
	dir := openArchive(t, map[string]string{"a.txt": "alpha"})

	obj, err := dir.Child("a.txt")
	require.NoError(t, err)
	file, err := obj.AsFile()
	require.NoError(t, err)

	assert.True(t, file.IsOpen())
	require.NoError(t, file.Open())
	require.NoError(t, file.Close())
	assert.True(t, file.Exists())

	// Close must not disturb reading: the shared archive is the handle.
	got, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(got))
}

func TestZipDirectoryParentChain(t *testing.T) {
	dir := openArchive(t, map[string]string{"a.txt": "a"})

	parent, ok := dir.Parent()
	require.True(t, ok, "a container opened from a physical file has a parent")
	assert.Equal(t, filepath.Dir(dir.FullPath()), parent.FullPath())
}
