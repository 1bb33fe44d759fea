package vfs

import (
	"archive/zip"
	"fmt"
	"io"
	"sync"

	"unifs/internal/logging"
)

var zfileLogger = logging.GetLogger().WithPrefix("zipfile")

// defaultZipBufferSize is the buffer window given to archive-backed files
// discovered by listing or scanning.
const defaultZipBufferSize = 512

// ZipFile maps the buffered File contract onto one archive entry. The entry
// stream is forward-only, so random access is emulated: the node tracks a
// logical seek offset, and each fill re-opens the entry from the start of
// the archive, skips forward by the accumulated offset, and reads one
// chunk. Every fill after the first re-skips all previously consumed bytes;
// that cost is inherent to forward-only decompression.
type ZipFile struct {
	node

	index   int // flat entry index within the archive
	archive *zipArchive

	mu         sync.RWMutex // guards everything below
	buffer     []byte       // buffer window, len is the allocated length
	seekOffset int64        // logical read position within the entry
	bufFilled  int          // valid bytes in buffer
	cursor     int          // read position within the filled window

	self File // set once at construction
}

func newZipFile(name string, parent *ZipDirectory, index int) *ZipFile {
	f := &ZipFile{
		node:    node{name: name, parent: parent},
		index:   index,
		archive: parent.archive,
		buffer:  make([]byte, defaultZipBufferSize),
	}
	f.self = f
	return f
}

// entry returns the archive's central directory record for this file. The
// record is immutable once the archive is open, so no archive lock is
// needed to read its metadata.
func (f *ZipFile) entry() *zip.File {
	return f.archive.reader.File[f.index]
}

// Get returns a shared handle to this node.
func (f *ZipFile) Get() File {
	return f.self
}

// Size returns the entry's decompressed length as recorded in the archive's
// central directory, independent of any buffered bytes.
func (f *ZipFile) Size() (int64, error) {
	return int64(f.entry().UncompressedSize64), nil
}

// Exists reports true: an entry node exists for as long as its archive is
// open.
func (f *ZipFile) Exists() bool {
	return true
}

// Parent returns the containing archive directory.
func (f *ZipFile) Parent() Directory {
	return f.parentDir()
}

// Rename is unsupported: archive entries are read-only.
func (f *ZipFile) Rename(newName string) error {
	return &Error{Op: OpRename, Path: f.FullPath(), Err: ErrUnsupported}
}

// SetBufferSize resizes the buffer window, preserving its prefix. The
// filled region is clamped to the new length.
func (f *ZipFile) SetBufferSize(size int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	resized := make([]byte, size)
	copy(resized, f.buffer)
	f.buffer = resized
	if f.bufFilled > size {
		f.bufFilled = size
	}
	if f.cursor > f.bufFilled {
		f.cursor = f.bufFilled
	}
}

// Open is a no-op: the backend handle is the shared archive reader, which
// is always present.
func (f *ZipFile) Open() error {
	return nil
}

// IsOpen reports true; see Open.
func (f *ZipFile) IsOpen() bool {
	return true
}

// Close is a no-op; see Open.
func (f *ZipFile) Close() error {
	return nil
}

// fill re-opens the entry, skips forward by the logical offset, and reads
// one chunk into the buffer window. The caller holds f.mu; the archive lock
// is held for the whole open-skip-read sequence so concurrent entry reads
// never interleave within the shared decoder.
func (f *ZipFile) fill(path string) error {
	f.archive.mu.Lock()
	defer f.archive.mu.Unlock()

	entry := f.entry()
	if len(f.buffer) == 0 {
		zfileLogger.Trace("Sizing buffer for %q to %d bytes", path, entry.UncompressedSize64)
		f.buffer = make([]byte, entry.UncompressedSize64)
	}

	rc, err := entry.Open()
	if err != nil {
		zfileLogger.Error("Failed to open entry %q: %v", path, err)
		return &Error{Op: OpRead, Path: path, Err: err}
	}
	defer rc.Close()

	if f.seekOffset > 0 {
		zfileLogger.Trace("Skipping %d bytes into entry %q", f.seekOffset, path)
		if _, err := io.CopyN(io.Discard, rc, f.seekOffset); err != nil && err != io.EOF {
			return &Error{Op: OpRead, Path: path, Err: err}
		}
	}

	n, err := rc.Read(f.buffer)
	if err != nil && err != io.EOF {
		zfileLogger.Error("Fill failed for %q: %v", path, err)
		return &Error{Op: OpRead, Path: path, Err: err}
	}

	f.bufFilled = n
	f.seekOffset += int64(n)
	f.cursor = 0
	zfileLogger.Trace("Filled %d bytes for %q", n, path)
	return nil
}

// Read serves bytes out of the filled window, refilling from the entry
// stream when the window is exhausted.
func (f *ZipFile) Read(p []byte) (int, error) {
	path := f.FullPath()
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cursor >= f.bufFilled {
		if err := f.fill(path); err != nil {
			return 0, err
		}
		if f.bufFilled == 0 {
			return 0, io.EOF
		}
	}

	n := copy(p, f.buffer[f.cursor:f.bufFilled])
	f.cursor += n
	return n, nil
}

// Seek updates the logical offset and invalidates the filled window; the
// stream itself is not touched until the next read re-derives content from
// the new position. A resulting negative offset reports ErrInvalidSeek.
func (f *ZipFile) Seek(offset int64, whence int) (int64, error) {
	path := f.FullPath()
	f.mu.Lock()
	defer f.mu.Unlock()

	f.bufFilled = 0
	f.cursor = 0

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekEnd:
		target = int64(f.entry().UncompressedSize64) + offset
	case io.SeekCurrent:
		target = f.seekOffset + offset
	default:
		return 0, &Error{Op: OpSeek, Path: path, Err: fmt.Errorf("unknown whence %d", whence)}
	}

	if target < 0 {
		zfileLogger.Debug("Rejected seek to %d on %q", target, path)
		return 0, &Error{Op: OpSeek, Path: path, Err: ErrInvalidSeek}
	}

	f.seekOffset = target
	return target, nil
}

// Write is unsupported: archive entries are read-only.
func (f *ZipFile) Write(p []byte) (int, error) {
	return 0, &Error{Op: OpWrite, Path: f.FullPath(), Err: ErrUnsupported}
}

// Flush is unsupported: archive entries are read-only.
func (f *ZipFile) Flush() error {
	return &Error{Op: OpFlush, Path: f.FullPath(), Err: ErrUnsupported}
}
