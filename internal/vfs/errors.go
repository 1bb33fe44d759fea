// Error taxonomy shared by both backends. Every failure is routed through
// these types, so callers never need backend-specific error handling.

package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAFile indicates a directory where a file was required
	ErrNotAFile = errors.New("not a file")

	// ErrNotADirectory indicates a file where a directory was required
	ErrNotADirectory = errors.New("not a directory")

	// ErrNotPresent indicates a child lookup miss
	ErrNotPresent = errors.New("no such child")

	// ErrNotOpen indicates an operation that requires an open backend handle
	ErrNotOpen = errors.New("file is not open")

	// ErrUnsupported indicates an operation the backend cannot perform,
	// e.g. writing to an archive entry
	ErrUnsupported = errors.New("operation not supported by this backend")

	// ErrInvalidSeek indicates a seek that would land before the start of
	// the file
	ErrInvalidSeek = errors.New("invalid seek offset")
)

// Error wraps a failure with the operation and the affected path. Backend
// native errors (os, archive/zip) are carried losslessly in Err and remain
// reachable through errors.Is/As.
type Error struct {
	Op   string // Operation that failed (e.g. "scan", "read")
	Path string // Affected path
	Err  error  // Underlying error
}

// Error implements the error interface, providing a formatted error message
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("operation %s on %s failed: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements error unwrapping for the errors.Is/As functions
func (e *Error) Unwrap() error {
	return e.Err
}

// NotPresentError reports a child lookup miss, carrying the containing
// directory's full path and the missing name. It matches ErrNotPresent
// under errors.Is.
type NotPresentError struct {
	Dir  string // Full path of the containing directory
	Name string // Name that was looked up
}

func (e *NotPresentError) Error() string {
	return fmt.Sprintf("[%s] no child named %q", e.Dir, e.Name)
}

// Is reports taxonomy membership for errors.Is
func (e *NotPresentError) Is(target error) bool {
	return target == ErrNotPresent
}

// NotOpenError reports an operation on a file whose backend handle is
// absent. It matches ErrNotOpen under errors.Is.
type NotOpenError struct {
	Name string // Name of the file
}

func (e *NotOpenError) Error() string {
	return fmt.Sprintf("file %q is not open", e.Name)
}

// Is reports taxonomy membership for errors.Is
func (e *NotOpenError) Is(target error) bool {
	return target == ErrNotOpen
}

// Common operation names for consistent logging and error reporting
const (
	OpScan   = "scan"   // Populating a directory's child cache
	OpLookup = "lookup" // Looking up a child by name
	OpList   = "list"   // Listing directory contents
	OpCreate = "create" // Creating a new file node
	OpMkdir  = "mkdir"  // Creating a new directory node
	OpOpen   = "open"   // Opening a file
	OpRead   = "read"   // Reading from a file
	OpWrite  = "write"  // Writing to a file
	OpSeek   = "seek"   // Repositioning a file cursor
	OpFlush  = "flush"  // Persisting buffered content
	OpClose  = "close"  // Releasing a backend handle
	OpRename = "rename" // Renaming a file
	OpStat   = "stat"   // Querying backend metadata
)
