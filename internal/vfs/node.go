package vfs

import (
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// node holds the bookkeeping common to every backend node: the node's own
// path segment and a shared reference to its parent. A root has no parent
// and carries its full path as its name.
//
// The identity lock guards only name and parent. FullPath reads them under
// the lock, releases it, and only then calls into the parent, so no two node
// locks are ever held at once.
type node struct {
	idMu   sync.RWMutex
	name   string
	parent Directory
}

// Name returns the node's own path segment.
func (n *node) Name() string {
	n.idMu.RLock()
	defer n.idMu.RUnlock()
	return n.name
}

// FullPath derives the full path by recursively joining ancestor names. It
// is never cached: renaming an ancestor is immediately visible.
func (n *node) FullPath() string {
	n.idMu.RLock()
	name, parent := n.name, n.parent
	n.idMu.RUnlock()

	if parent == nil {
		return name
	}
	return filepath.Join(parent.FullPath(), name)
}

// parentDir returns the parent reference, which is nil for a root.
func (n *node) parentDir() Directory {
	n.idMu.RLock()
	defer n.idMu.RUnlock()
	return n.parent
}

// setName updates the node's own path segment after a successful rename.
func (n *node) setName(name string) {
	n.idMu.Lock()
	defer n.idMu.Unlock()
	n.name = name
}

// Stem returns the last path segment of the name without its extension.
func (n *node) Stem() string {
	base := path.Base(n.Name())
	return strings.TrimSuffix(base, path.Ext(base))
}

// Ext returns the extension of the last path segment without the leading
// dot, or "" if the name has no extension.
func (n *node) Ext() string {
	return strings.TrimPrefix(path.Ext(path.Base(n.Name())), ".")
}
