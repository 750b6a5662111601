package scanner

import (
	"context"
	"fmt"
)

// Progress reports aggregation progress within one folder
type Progress struct {
	FilesScanned int64
	DirsScanned  int64
	BytesFound   int64
	CurrentPath  string
}

// Child is one immediate entry of a listed directory
type Child struct {
	Name     string
	IsFolder bool
}

// WalkEntry is one entry reached by a recursive walk, the walk root excluded
type WalkEntry struct {
	Path  string
	IsDir bool
	Size  uint64 // zero for directories
}

// VisitFunc is called for every entry of a walk. Returning an error stops
// the walk and the error is returned from Walk. Implementations may call it
// from several goroutines at once.
type VisitFunc func(e WalkEntry) error

// Accessor is the filesystem surface the scan engine reads through
type Accessor interface {
	// ListChildren returns the immediate children of path. It fails with an
	// *AccessError only when path itself cannot be listed; children that
	// cannot be classified are left out.
	ListChildren(path string) ([]Child, error)

	// FileSize returns the size of the file at path, 0 on error
	FileSize(path string) uint64

	// Exists reports whether path can be stat'ed
	Exists(path string) bool

	// Walk visits every entry beneath root. Per-entry errors are skipped.
	Walk(ctx context.Context, root string, visit VisitFunc) error
}

// AccessError is returned when a directory cannot be read at all
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("cannot list %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}
