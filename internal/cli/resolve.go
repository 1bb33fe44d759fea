package cli

import (
	"errors"
	"strings"

	"unifs/internal/vfs"
)

// resolve walks from the root node to the object named by the relative
// path. Archive children are keyed by their full entry name, so a direct
// lookup is tried before segment-wise descent.
func resolve(root vfs.Directory, rel string) (vfs.Object, error) {
	rel = strings.Trim(rel, "/")
	if rel == "" || rel == "." {
		return vfs.DirObject(root), nil
	}

	if obj, err := root.Child(rel); err == nil {
		return obj, nil
	} else if !errors.Is(err, vfs.ErrNotPresent) {
		return vfs.Object{}, err
	}

	obj := vfs.DirObject(root)
	for _, segment := range strings.Split(rel, "/") {
		dir, err := obj.AsDir()
		if err != nil {
			return vfs.Object{}, err
		}
		obj, err = dir.Child(segment)
		if err != nil {
			return vfs.Object{}, err
		}
	}
	return obj, nil
}
