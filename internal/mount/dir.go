package mount

import (
	"context"
	"os"

	"unifs/internal/logging"
	"unifs/internal/vfs"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var dirLogger = logging.GetLogger().WithPrefix("mountdir")

// Dir adapts a vfs.Directory node to FUSE.
type Dir struct {
	fs  *FS
	dir vfs.Directory
}

// Attr implements the Node interface, returning directory attributes.
func (d *Dir) Attr(_ context.Context, a *fuse.Attr) error {
	dirLogger.Trace("Getting attributes for directory: %q", d.dir.FullPath())
	a.Mode = os.ModeDir | 0555
	a.Uid = d.fs.uid
	a.Gid = d.fs.gid
	return nil
}

// Lookup implements the NodeStringLookuper interface, finding a child node.
func (d *Dir) Lookup(_ context.Context, name string) (fusefs.Node, error) {
	dirLogger.Debug("Looking up %q in %q", name, d.dir.FullPath())

	obj, err := d.dir.Child(name)
	if err != nil {
		dirLogger.Debug("Lookup failed: %v", err)
		return nil, toErrno(err)
	}

	if obj.IsDir() {
		child, err := obj.AsDir()
		if err != nil {
			return nil, toErrno(err)
		}
		return &Dir{fs: d.fs, dir: child}, nil
	}

	child, err := obj.AsFile()
	if err != nil {
		return nil, toErrno(err)
	}
	return &File{fs: d.fs, file: child}, nil
}

// ReadDirAll implements the HandleReadDirAller interface, listing directory
// contents through the node's scan cache.
func (d *Dir) ReadDirAll(_ context.Context) ([]fuse.Dirent, error) {
	dirLogger.Debug("Reading directory contents: %q", d.dir.FullPath())

	children, err := d.dir.Children()
	if err != nil {
		dirLogger.Error("Listing failed: %v", err)
		return nil, toErrno(err)
	}

	entries := make([]fuse.Dirent, 0, len(children)+2)
	entries = append(entries, fuse.Dirent{Name: ".", Type: fuse.DT_Dir})
	entries = append(entries, fuse.Dirent{Name: "..", Type: fuse.DT_Dir})

	for _, child := range children {
		entryType := fuse.DT_File
		if child.IsDir() {
			entryType = fuse.DT_Dir
		}
		entries = append(entries, fuse.Dirent{Name: child.Name(), Type: entryType})
	}

	dirLogger.Debug("Directory %q contains %d entries", d.dir.FullPath(), len(entries))
	return entries, nil
}
