package vfs

import (
	"archive/zip"
	"path/filepath"
	"strings"
	"sync"

	"unifs/internal/logging"
)

var zdirLogger = logging.GetLogger().WithPrefix("zipdir")

// zipArchive is the single shared reader for one open ZIP container. The
// underlying format decodes one entry at a time and cannot seek within an
// entry's compressed stream, so every access to an entry stream holds the
// archive's exclusive lock. Reads of logically independent entries are
// serialized through this lock; that is a documented throughput ceiling of
// the backend, not a correctness bug.
type zipArchive struct {
	mu     sync.Mutex
	reader *zip.Reader
}

// entryIsDir classifies an archive entry as directory-like by its trailing
// separator.
func entryIsDir(name string) bool {
	return strings.HasSuffix(name, "/")
}

// ZipDirectory maps the Directory contract onto the entries of one open ZIP
// container. The container itself appears as a directory whose children are
// the file entries, keyed by their full entry name. The backend is
// read-only: NewFile and NewDir are unsupported.
type ZipDirectory struct {
	node

	mu       sync.RWMutex // guards children and scanned
	children map[string]*ZipFile
	scanned  bool

	archive *zipArchive

	self Directory // set once at construction
}

// NewZipDirectory opens the ZIP container backed by the given physical file
// and returns a directory node over its entries. The file's OS handle is
// taken over by the archive reader; the file is opened first if needed.
func NewZipDirectory(file *PhysicalFile) (*ZipDirectory, error) {
	path := file.FullPath()
	zdirLogger.Debug("Opening ZIP container %q", path)

	handle := file.TakeHandle()
	if handle == nil {
		if err := file.Open(); err != nil {
			return nil, err
		}
		handle = file.TakeHandle()
	}

	info, err := handle.Stat()
	if err != nil {
		handle.Close()
		return nil, &Error{Op: OpStat, Path: path, Err: err}
	}

	reader, err := zip.NewReader(handle, info.Size())
	if err != nil {
		handle.Close()
		zdirLogger.Error("Failed to open archive %q: %v", path, err)
		return nil, &Error{Op: OpOpen, Path: path, Err: err}
	}

	d := &ZipDirectory{
		node:     node{name: file.Name(), parent: file.Parent()},
		children: make(map[string]*ZipFile),
		archive:  &zipArchive{reader: reader},
	}
	d.self = d
	zdirLogger.Info("Opened ZIP container %q: %d entries", path, len(reader.File))
	return d, nil
}

// OpenZipDirectory resolves the given path through the physical backend and
// opens the ZIP container found there.
func OpenZipDirectory(path string) (*ZipDirectory, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &Error{Op: OpOpen, Path: path, Err: err}
	}

	root := NewPhysicalDirectory(filepath.Dir(abs))
	child, err := root.Child(filepath.Base(abs))
	if err != nil {
		return nil, err
	}
	file, err := child.AsFile()
	if err != nil {
		return nil, err
	}
	physical, ok := file.(*PhysicalFile)
	if !ok {
		return nil, &Error{Op: OpOpen, Path: abs, Err: ErrNotAFile}
	}
	return NewZipDirectory(physical)
}

// Get returns a shared handle to this node.
func (d *ZipDirectory) Get() Directory {
	return d.self
}

// Exists reports whether the shared archive reader is present. The node
// fronts an open container, not a directory on disk.
func (d *ZipDirectory) Exists() bool {
	return d.archive != nil
}

// Parent returns the directory enclosing the container file.
func (d *ZipDirectory) Parent() (Directory, bool) {
	parent := d.parentDir()
	return parent, parent != nil
}

// Scan enumerates every entry in the archive once, skips directory-like
// entries, and caches a ZipFile child for each file entry under its full
// entry name. Idempotent.
func (d *ZipDirectory) Scan() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.scanned || !d.Exists() {
		return nil
	}

	zdirLogger.Debug("Scanning archive %q", d.Name())
	for index, entry := range d.archive.reader.File {
		if entryIsDir(entry.Name) {
			zdirLogger.Trace("Skipping directory entry %q", entry.Name)
			continue
		}
		d.children[entry.Name] = newZipFile(entry.Name, d, index)
	}

	d.scanned = true
	zdirLogger.Debug("Scanned archive %q: %d file entries cached", d.Name(), len(d.children))
	return nil
}

// Children returns the cached listing once Scan has run. Until then it
// rebuilds the listing from the archive's entry index on every call.
func (d *ZipDirectory) Children() ([]Object, error) {
	d.mu.RLock()
	if d.scanned {
		children := make([]Object, 0, len(d.children))
		for _, child := range d.children {
			children = append(children, FileObject(child))
		}
		d.mu.RUnlock()
		return children, nil
	}
	d.mu.RUnlock()

	zdirLogger.Trace("Listing archive %q without cache", d.Name())
	var children []Object
	for index, entry := range d.archive.reader.File {
		if entryIsDir(entry.Name) {
			continue
		}
		children = append(children, FileObject(newZipFile(entry.Name, d, index)))
	}
	return children, nil
}

// Child returns the entry with the given full name, scanning first if the
// cache is not yet authoritative.
func (d *ZipDirectory) Child(name string) (Object, error) {
	if err := d.Scan(); err != nil {
		return Object{}, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	child, ok := d.children[name]
	if !ok {
		path := d.FullPath()
		zdirLogger.Debug("Entry %q not present in %q", name, path)
		return Object{}, &Error{Op: OpLookup, Path: path, Err: &NotPresentError{Dir: path, Name: name}}
	}
	return FileObject(child), nil
}

// HasChild reports whether the archive has a file entry with the given name.
func (d *ZipDirectory) HasChild(name string) (bool, error) {
	if err := d.Scan(); err != nil {
		return false, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.children[name]
	return ok, nil
}

// NewFile is unsupported: archive containers are read-only.
func (d *ZipDirectory) NewFile(name string, bufferSize int) (File, error) {
	return nil, &Error{Op: OpCreate, Path: d.FullPath(), Err: ErrUnsupported}
}

// NewDir is unsupported: archive containers are read-only.
func (d *ZipDirectory) NewDir(name string) (Directory, error) {
	return nil, &Error{Op: OpMkdir, Path: d.FullPath(), Err: ErrUnsupported}
}
