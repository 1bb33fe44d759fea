package vfs

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"unifs/internal/logging"
)

var pfileLogger = logging.GetLogger().WithPrefix("physfile")

// PhysicalFile maps the buffered File contract onto an OS file. Reads are
// served from an in-memory window filled by the open read handle; Flush
// persists the most recently written bytes through a separate write handle.
type PhysicalFile struct {
	node

	mu        sync.RWMutex // guards everything below
	file      *os.File     // open read handle, nil while closed
	buffer    []byte       // buffer window, len is the allocated length
	bufFilled int          // valid bytes in buffer
	cursor    int          // read position within the filled window
	written   int          // bytes accepted by the most recent Write

	self File // set once at construction
}

// newPhysicalFile creates a file node. A bufferSize of zero defers sizing
// until the first fill, which sizes the window to the file's length.
func newPhysicalFile(name string, parent Directory, bufferSize int) *PhysicalFile {
	f := &PhysicalFile{
		node:   node{name: name, parent: parent},
		buffer: make([]byte, bufferSize),
	}
	f.self = f
	return f
}

// Get returns a shared handle to this node.
func (f *PhysicalFile) Get() File {
	return f.self
}

// Size returns the on-disk length of the file.
func (f *PhysicalFile) Size() (int64, error) {
	path := f.FullPath()
	info, err := os.Stat(path)
	if err != nil {
		return 0, &Error{Op: OpStat, Path: path, Err: err}
	}
	return info.Size(), nil
}

// Exists reports whether the backend currently has a regular file at this
// path.
func (f *PhysicalFile) Exists() bool {
	info, err := os.Stat(f.FullPath())
	return err == nil && info.Mode().IsRegular()
}

// Parent returns the enclosing directory.
func (f *PhysicalFile) Parent() Directory {
	return f.parentDir()
}

// Rename renames the file on disk within its parent directory and updates
// the node's own name. The parent's cache still holds this node under the
// old key; callers navigating through it must re-resolve.
func (f *PhysicalFile) Rename(newName string) error {
	parent := f.parentDir()
	if parent == nil {
		return &Error{Op: OpRename, Path: f.Name(), Err: ErrUnsupported}
	}
	dir := parent.FullPath()
	oldPath := filepath.Join(dir, f.Name())
	newPath := filepath.Join(dir, newName)

	pfileLogger.Debug("Renaming %q -> %q", oldPath, newPath)
	if err := os.Rename(oldPath, newPath); err != nil {
		pfileLogger.Error("Rename failed: %v", err)
		return &Error{Op: OpRename, Path: oldPath, Err: err}
	}
	f.setName(newName)
	return nil
}

// SetBufferSize resizes the buffer window, preserving its prefix. The
// filled region is clamped to the new length.
func (f *PhysicalFile) SetBufferSize(size int) {
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
	if f.written > size {
		f.written = size
	}
}

// Open acquires the read handle, closing any stale one first.
func (f *PhysicalFile) Open() error {
	path := f.FullPath()
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.openLocked(path)
}

func (f *PhysicalFile) openLocked(path string) error {
	if f.file != nil {
		pfileLogger.Trace("Closing stale handle for %q", path)
		f.file.Close()
		f.file = nil
	}

	pfileLogger.Debug("Opening %q", path)
	file, err := os.Open(path)
	if err != nil {
		pfileLogger.Error("Open failed: %v", err)
		return &Error{Op: OpOpen, Path: path, Err: err}
	}
	f.file = file
	return nil
}

// IsOpen reports whether the backend handle is present and still valid.
func (f *PhysicalFile) IsOpen() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.isOpenLocked()
}

func (f *PhysicalFile) isOpenLocked() bool {
	if f.file == nil {
		return false
	}
	_, err := f.file.Stat()
	return err == nil
}

// Close releases the backend handle and drops the filled window. The
// buffer's content and allocated length are kept.
func (f *PhysicalFile) Close() error {
	path := f.FullPath()
	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	if f.file != nil {
		err = f.file.Close()
		f.file = nil
	}
	f.bufFilled = 0
	f.cursor = 0

	if err != nil {
		return &Error{Op: OpClose, Path: path, Err: err}
	}
	return nil
}

// fill opens the file if needed, sizes a zero-length window to the file's
// current length (one-shot), and reads one chunk from the handle into the
// window. The caller holds f.mu.
func (f *PhysicalFile) fill(path string) error {
	if !f.isOpenLocked() {
		if err := f.openLocked(path); err != nil {
			return err
		}
		if len(f.buffer) == 0 {
			info, err := f.file.Stat()
			if err != nil {
				return &Error{Op: OpStat, Path: path, Err: err}
			}
			pfileLogger.Trace("Sizing buffer for %q to %d bytes", path, info.Size())
			f.buffer = make([]byte, info.Size())
		}
	}

	f.cursor = 0
	n, err := f.file.Read(f.buffer)
	f.bufFilled = n
	if err != nil && err != io.EOF {
		pfileLogger.Error("Fill failed for %q: %v", path, err)
		return &Error{Op: OpRead, Path: path, Err: err}
	}
	pfileLogger.Trace("Filled %d bytes for %q", n, path)
	return nil
}

// Read serves bytes out of the filled window, refilling from the backend
// when the window is exhausted.
func (f *PhysicalFile) Read(p []byte) (int, error) {
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

// Write replaces the buffered content: it invalidates the filled window and
// copies at most len(buffer) bytes. The short count is returned with a nil
// error; a zero-length window accepts zero bytes.
func (f *PhysicalFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.bufFilled = 0
	f.cursor = 0
	n := copy(f.buffer, p)
	f.written = n
	if n < len(p) {
		pfileLogger.Debug("Write truncated to buffer length: accepted %d of %d bytes", n, len(p))
	}
	return n, nil
}

// Flush opens the file for writing and persists the bytes accepted by the
// most recent Write, then syncs the OS handle.
func (f *PhysicalFile) Flush() error {
	path := f.FullPath()
	f.mu.Lock()
	defer f.mu.Unlock()

	pfileLogger.Debug("Flushing %d bytes to %q", f.written, path)
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		pfileLogger.Error("Flush open failed: %v", err)
		return &Error{Op: OpFlush, Path: path, Err: err}
	}

	if _, err := out.Write(f.buffer[:f.written]); err != nil {
		out.Close()
		return &Error{Op: OpFlush, Path: path, Err: err}
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return &Error{Op: OpFlush, Path: path, Err: err}
	}
	if err := out.Close(); err != nil {
		return &Error{Op: OpFlush, Path: path, Err: err}
	}
	return nil
}

// Seek delegates to the OS handle and invalidates the filled window so the
// next read refetches from the new position. Seeking a closed file reports
// ErrNotOpen.
func (f *PhysicalFile) Seek(offset int64, whence int) (int64, error) {
	path := f.FullPath()
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return 0, &Error{Op: OpSeek, Path: path, Err: &NotOpenError{Name: f.Name()}}
	}

	pos, err := f.file.Seek(offset, whence)
	if err != nil {
		return 0, &Error{Op: OpSeek, Path: path, Err: err}
	}
	f.bufFilled = 0
	f.cursor = 0
	return pos, nil
}

// Handle exposes the open read handle, or nil while the file is closed.
func (f *PhysicalFile) Handle() *os.File {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.file
}

// TakeHandle transfers ownership of the open read handle to the caller and
// drops the filled window. Used to hand the descriptor to an archive
// reader built on top of this file.
func (f *PhysicalFile) TakeHandle() *os.File {
	f.mu.Lock()
	defer f.mu.Unlock()

	handle := f.file
	f.file = nil
	f.bufFilled = 0
	f.cursor = 0
	return handle
}
