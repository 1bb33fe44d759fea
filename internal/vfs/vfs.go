// Package vfs provides a uniform File/Directory abstraction over
// heterogeneous storage backends. Client code navigates a tree of shared
// nodes and reads or writes file content through one buffered contract,
// without knowing whether the bytes come from a physical directory tree or
// from entries of a read-only ZIP container.
//
// Nodes are shared: a parent holds its children in a lazily populated cache,
// children hold a reference to their parent, and any caller can obtain an
// additional handle to a node via Get. All holders observe the same mutable
// state. Every node guards its own state with a lock and never holds two
// node locks at once.
package vfs

import "io"

// Directory is the capability contract for a directory node of any backend.
type Directory interface {
	// Get returns a shared handle to this node.
	Get() Directory
	// Name returns the node's own path segment (the root's name is its
	// full path).
	Name() string
	// Exists reports whether the backend currently has a directory behind
	// this node.
	Exists() bool
	// Parent returns the enclosing directory; ok is false for a root.
	Parent() (parent Directory, ok bool)
	// FullPath derives the node's full path by joining ancestor names.
	FullPath() string
	// Children ensures the directory has been scanned and returns a
	// snapshot of the cached child listing.
	Children() ([]Object, error)
	// Child returns the named child, scanning first if needed. A miss is
	// reported as ErrNotPresent.
	Child(name string) (Object, error)
	// HasChild reports whether the named child is present.
	HasChild(name string) (bool, error)
	// NewFile creates a file node as a child of this directory and
	// registers it in the cache. The backend need not have persisted the
	// file yet.
	NewFile(name string, bufferSize int) (File, error)
	// NewDir creates and registers a subdirectory node.
	NewDir(name string) (Directory, error)
	// Scan populates the child cache from the backend. It is idempotent;
	// once it has run, lookups answer purely from the cache.
	Scan() error
}

// File is the capability contract for a file node of any backend.
//
// Reads are served out of an in-memory buffer window that is refilled from
// the backend on demand; writing replaces the buffered content and
// invalidates the window; seeking invalidates the window and repositions the
// backend cursor. Reading or writing a file that is not open opens it
// implicitly.
//
// Write deliberately deviates from the strict io.Writer short-write
// convention: it copies at most len(buffer) bytes and returns the short
// count with a nil error. A file whose buffer window has zero length
// accepts zero bytes.
type File interface {
	io.Reader
	io.Writer
	io.Seeker

	// Get returns a shared handle to this node.
	Get() File
	// Name returns the node's own path segment.
	Name() string
	// Stem returns the last path segment without its extension.
	Stem() string
	// Ext returns the extension of the last path segment, without the
	// dot, or "" if there is none.
	Ext() string
	// Size returns the file's length in bytes as known to the backend,
	// independent of any buffered content.
	Size() (int64, error)
	// Exists reports whether the backend currently has a file behind this
	// node.
	Exists() bool
	// Rename renames the file within its parent directory. The parent's
	// cache key is not updated; callers navigating through the stale key
	// must drop and re-resolve the node.
	Rename(newName string) error
	// Parent returns the enclosing directory.
	Parent() Directory
	// FullPath derives the node's full path by joining ancestor names.
	FullPath() string
	// SetBufferSize resizes the buffer window, preserving its prefix.
	SetBufferSize(size int)
	// Open acquires the backend handle, closing any stale one first.
	Open() error
	// IsOpen reports whether the backend handle is present and valid.
	IsOpen() bool
	// Close releases the backend handle and drops the filled window. The
	// buffer's allocated length is kept.
	Close() error
	// Flush persists the buffered content accepted by the most recent
	// Write to the backend.
	Flush() error
}

// Object is the tagged union over File and Directory, used wherever a child
// or result could be either.
type Object struct {
	file File
	dir  Directory
}

// FileObject wraps a File in an Object.
func FileObject(f File) Object {
	return Object{file: f}
}

// DirObject wraps a Directory in an Object.
func DirObject(d Directory) Object {
	return Object{dir: d}
}

// IsDir reports whether the object holds a directory.
func (o Object) IsDir() bool {
	return o.dir != nil
}

// Name returns the name of the held node.
func (o Object) Name() string {
	if o.dir != nil {
		return o.dir.Name()
	}
	return o.file.Name()
}

// FullPath returns the full path of the held node.
func (o Object) FullPath() string {
	if o.dir != nil {
		return o.dir.FullPath()
	}
	return o.file.FullPath()
}

// AsFile returns the held file, or ErrNotAFile if the object holds a
// directory.
func (o Object) AsFile() (File, error) {
	if o.file == nil {
		return nil, &Error{Op: OpLookup, Path: o.FullPath(), Err: ErrNotAFile}
	}
	return o.file, nil
}

// AsDir returns the held directory, or ErrNotADirectory if the object holds
// a file.
func (o Object) AsDir() (Directory, error) {
	if o.dir == nil {
		return nil, &Error{Op: OpLookup, Path: o.FullPath(), Err: ErrNotADirectory}
	}
	return o.dir, nil
}
