// Package mount serves a vfs directory tree — a physical root or an open
// archive container — as a read-only FUSE filesystem.
package mount

import (
	"fmt"
	"os"
	"time"

	"unifs/internal/logging"
	"unifs/internal/vfs"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var mountLogger = logging.GetLogger().WithPrefix("mount")

// FS adapts a vfs.Directory tree to the FUSE filesystem interface.
type FS struct {
	root vfs.Directory
	uid  uint32
	gid  uint32
}

// NewFS creates a FUSE filesystem over the given root directory node.
func NewFS(root vfs.Directory) *FS {
	return &FS{
		root: root,
		uid:  safeIntToUint32(os.Getuid()),
		gid:  safeIntToUint32(os.Getgid()),
	}
}

// Root implements the fusefs.FS interface, returning the root directory node.
func (f *FS) Root() (fusefs.Node, error) {
	mountLogger.Trace("Getting root directory node")
	return &Dir{fs: f, dir: f.root}, nil
}

// Server owns one mounted filesystem instance.
type Server struct {
	fs   *FS
	conn *fuse.Conn
}

// NewServer creates a server for the given root directory node.
func NewServer(root vfs.Directory) *Server {
	return &Server{fs: NewFS(root)}
}

func waitForMount(mountPoint string) error {
	for i := 0; i < 30; i++ {
		info, err := os.Stat(mountPoint)
		if err == nil && info.IsDir() {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("mount point not available after 3 seconds")
}

// Mount mounts the filesystem read-only and begins serving requests.
func (s *Server) Mount(mountPoint string) error {
	mountLogger.Info("Mounting filesystem at %s", mountPoint)
	mountLogger.Debug("Root node: %s", s.fs.root.FullPath())

	mountOpts := []fuse.MountOption{
		fuse.FSName("unifs"),
		fuse.Subtype("unifs"),
		fuse.ReadOnly(),
		fuse.DefaultPermissions(),
		fuse.AsyncRead(),
	}

	c, err := fuse.Mount(mountPoint, mountOpts...)
	if err != nil {
		return fmt.Errorf("mount failed: %w", err)
	}
	s.conn = c

	go func() {
		if err := fusefs.Serve(c, s.fs); err != nil {
			mountLogger.Error("FUSE server error: %v", err)
		}
	}()

	if err := waitForMount(mountPoint); err != nil {
		c.Close()
		mountLogger.Error("Mount point not ready: %v", err)
		return fmt.Errorf("mount point failed to initialize: %w", err)
	}

	mountLogger.Info("Filesystem mounted successfully")
	return nil
}

// Unmount cleanly unmounts the filesystem.
func (s *Server) Unmount(mountPoint string) error {
	mountLogger.Info("Unmounting filesystem from: %s", mountPoint)
	if s.conn == nil {
		return nil
	}
	if err := fuse.Unmount(mountPoint); err != nil {
		mountLogger.Error("Unmount failed: %v", err)
		return err
	}
	mountLogger.Info("Unmount completed successfully")
	return nil
}
