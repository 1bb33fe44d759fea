package vfs

import (
	"os"
	"sync"

	"unifs/internal/logging"
)

var pdirLogger = logging.GetLogger().WithPrefix("physdir")

// PhysicalDirectory maps the Directory contract onto a real directory tree.
// The child listing is consulted once and cached; after that every lookup
// answers purely from the cache.
type PhysicalDirectory struct {
	node

	mu       sync.RWMutex // guards children and scanned
	children map[string]Object
	scanned  bool

	self Directory // set once at construction
}

// NewPhysicalDirectory creates a root directory node for the given path.
// The root's name is the path itself.
func NewPhysicalDirectory(path string) *PhysicalDirectory {
	pdirLogger.Debug("Creating root directory node for %q", path)
	d := &PhysicalDirectory{
		node:     node{name: path},
		children: make(map[string]Object),
	}
	d.self = d
	return d
}

// newPhysicalDirectory creates a child directory node discovered by a scan
// or registered by NewDir.
func newPhysicalDirectory(name string, parent Directory) *PhysicalDirectory {
	d := &PhysicalDirectory{
		node:     node{name: name, parent: parent},
		children: make(map[string]Object),
	}
	d.self = d
	return d
}

// Get returns a shared handle to this node.
func (d *PhysicalDirectory) Get() Directory {
	return d.self
}

// Exists reports whether the backend currently has a directory at this path.
func (d *PhysicalDirectory) Exists() bool {
	info, err := os.Stat(d.FullPath())
	return err == nil && info.IsDir()
}

// Parent returns the enclosing directory; ok is false for a root.
func (d *PhysicalDirectory) Parent() (Directory, bool) {
	parent := d.parentDir()
	return parent, parent != nil
}

// Scan lists the OS directory once and caches a child node for every entry.
// It is a no-op once the cache is authoritative, and also when the backend
// has no directory at this path yet.
func (d *PhysicalDirectory) Scan() error {
	path := d.FullPath()
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scanLocked(path)
}

func (d *PhysicalDirectory) scanLocked(path string) error {
	if d.scanned || !d.Exists() {
		return nil
	}

	pdirLogger.Debug("Scanning directory %q", path)
	entries, err := os.ReadDir(path)
	if err != nil {
		pdirLogger.Error("Failed to list %q: %v", path, err)
		return &Error{Op: OpScan, Path: path, Err: err}
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			pdirLogger.Trace("Found subdirectory %q", name)
			d.children[name] = DirObject(newPhysicalDirectory(name, d.self))
		} else if entry.Type().IsRegular() {
			pdirLogger.Trace("Found file %q", name)
			d.children[name] = FileObject(newPhysicalFile(name, d.self, 0))
		}
	}

	d.scanned = true
	pdirLogger.Debug("Scanned %q: %d children cached", path, len(d.children))
	return nil
}

// Children ensures the directory has been scanned and returns a snapshot of
// the cached child listing.
func (d *PhysicalDirectory) Children() ([]Object, error) {
	path := d.FullPath()
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.scanLocked(path); err != nil {
		return nil, err
	}

	children := make([]Object, 0, len(d.children))
	for _, child := range d.children {
		children = append(children, child)
	}
	return children, nil
}

// Child returns the named child, scanning first if the cache is not yet
// authoritative.
func (d *PhysicalDirectory) Child(name string) (Object, error) {
	path := d.FullPath()
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.scanLocked(path); err != nil {
		return Object{}, err
	}

	child, ok := d.children[name]
	if !ok {
		pdirLogger.Debug("Child %q not present in %q", name, path)
		return Object{}, &Error{Op: OpLookup, Path: path, Err: &NotPresentError{Dir: path, Name: name}}
	}
	return child, nil
}

// HasChild reports whether the named child is present.
func (d *PhysicalDirectory) HasChild(name string) (bool, error) {
	path := d.FullPath()
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.scanLocked(path); err != nil {
		return false, err
	}
	_, ok := d.children[name]
	return ok, nil
}

// NewFile creates a file node as a child of this directory and registers it
// in the cache. The file is persisted to disk only on its first Flush.
func (d *PhysicalDirectory) NewFile(name string, bufferSize int) (File, error) {
	pdirLogger.Debug("Registering new file %q in %q", name, d.Name())
	file := newPhysicalFile(name, d.self, bufferSize)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.children[name] = FileObject(file)
	return file, nil
}

// NewDir creates and registers a subdirectory node.
func (d *PhysicalDirectory) NewDir(name string) (Directory, error) {
	pdirLogger.Debug("Registering new directory %q in %q", name, d.Name())
	dir := newPhysicalDirectory(name, d.self)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.children[name] = DirObject(dir)
	return dir, nil
}
