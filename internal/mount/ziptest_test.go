package mount

import (
	"archive/zip"
	"os"
	"testing"
)

// writeTestArchive creates a single-entry ZIP file for mount tests.
func writeTestArchive(t *testing.T, path string) {
	t.Helper()

	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create archive file: %v", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	w, err := zw.Create("greeting.txt")
	if err != nil {
		t.Fatalf("Failed to create archive entry: %v", err)
	}
	if _, err := w.Write([]byte("hello from the archive")); err != nil {
		t.Fatalf("Failed to write archive entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finalize archive: %v", err)
	}
}
