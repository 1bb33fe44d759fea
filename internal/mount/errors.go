package mount

import (
	"errors"
	"os"
	"syscall"

	"unifs/internal/vfs"
)

// toErrno translates a vfs taxonomy error into the errno FUSE expects.
func toErrno(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, vfs.ErrNotPresent):
		return syscall.ENOENT
	case errors.Is(err, vfs.ErrNotADirectory):
		return syscall.ENOTDIR
	case errors.Is(err, vfs.ErrNotAFile):
		return syscall.EISDIR
	case errors.Is(err, vfs.ErrUnsupported):
		return syscall.EROFS
	case errors.Is(err, vfs.ErrNotOpen):
		return syscall.EBADF
	case errors.Is(err, vfs.ErrInvalidSeek):
		return syscall.EINVAL
	case errors.Is(err, os.ErrNotExist):
		return syscall.ENOENT
	case errors.Is(err, os.ErrPermission):
		return syscall.EACCES
	default:
		return syscall.EIO
	}
}
