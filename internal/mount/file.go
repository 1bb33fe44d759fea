package mount

import (
	"context"
	"io"
	"os"
	"syscall"

	"unifs/internal/logging"
	"unifs/internal/vfs"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var fileLogger = logging.GetLogger().WithPrefix("mountfile")

// File adapts a vfs.File node to FUSE.
type File struct {
	fs   *FS
	file vfs.File
}

// Attr implements the Node interface, returning the file's attributes.
func (f *File) Attr(_ context.Context, a *fuse.Attr) error {
	fileLogger.Trace("Getting attributes for file: %q", f.file.FullPath())

	size, err := f.file.Size()
	if err != nil {
		fileLogger.Error("Failed to stat file: %v", err)
		return toErrno(err)
	}

	a.Mode = 0444
	a.Size = safeInt64ToUint64(size)
	a.Uid = f.fs.uid
	a.Gid = f.fs.gid
	a.BlockSize = 4096
	a.Blocks = safeInt64ToUint64((size + 511) / 512)
	return nil
}

// Open implements the NodeOpener interface. Write access is rejected: both
// backends are served read-only through the mount.
func (f *File) Open(_ context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fusefs.Handle, error) {
	flags := int(req.Flags)
	fileLogger.Debug("Opening file %q with flags %v", f.file.FullPath(), flags)

	if flags&os.O_WRONLY != 0 || flags&os.O_RDWR != 0 {
		fileLogger.Warn("Attempted write access to read-only mount: %q", f.file.FullPath())
		return nil, syscall.EPERM
	}

	if err := f.file.Open(); err != nil {
		fileLogger.Error("Failed to open file: %v", err)
		return nil, toErrno(err)
	}

	resp.Flags |= fuse.OpenDirectIO
	return &FileHandle{file: f.file}, nil
}

// FileHandle represents an open file served through the mount.
type FileHandle struct {
	file vfs.File
}

// Read implements the HandleReader interface. The offset is applied through
// the node's seek emulation, so archive entries work the same way as
// physical files.
func (fh *FileHandle) Read(_ context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	fileLogger.Trace("Reading %d bytes from %q at offset %d",
		req.Size, fh.file.FullPath(), req.Offset)

	if _, err := fh.file.Seek(req.Offset, io.SeekStart); err != nil {
		fileLogger.Error("Seek failed: %v", err)
		return toErrno(err)
	}

	buf := make([]byte, req.Size)
	total := 0
	for total < len(buf) {
		n, err := fh.file.Read(buf[total:])
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			fileLogger.Error("Read failed: %v", err)
			return toErrno(err)
		}
		if n == 0 {
			break
		}
	}

	resp.Data = buf[:total]
	fileLogger.Trace("Successfully read %d bytes", total)
	return nil
}

// Release implements the HandleReleaser interface, closing the node.
func (fh *FileHandle) Release(_ context.Context, _ *fuse.ReleaseRequest) error {
	fileLogger.Debug("Closing file %q", fh.file.FullPath())
	return fh.file.Close()
}
