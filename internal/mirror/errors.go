package mirror

import (
	"errors"
	"fmt"
)

var (
	// ErrSameEntry reports that source and destination resolve to the same
	// filesystem entry.
	ErrSameEntry = errors.New("source and destination are the same entry")
	// ErrNotDirectory reports that a root is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// StructuralError is returned before any file is touched when a pair cannot be
// synced at all: a root is missing, is not a directory, or both roots are the
// same entry.
type StructuralError struct {
	Op   string
	Path string
	Err  error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// EnumerationError means a tree could not be listed.
type EnumerationError struct {
	Path string
	Err  error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("list %s: %v", e.Path, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// DeletionError means a stale destination file could not be removed.
type DeletionError struct {
	Path string
	Err  error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("delete %s: %v", e.Path, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }

// TransferError means a file could not be materialized at the destination.
// Clone failures never surface here; only the final copy outcome does.
type TransferError struct {
	Source      string
	Destination string
	Err         error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("copy %s -> %s: %v", e.Source, e.Destination, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
