package model

import (
	"path/filepath"
	"time"
)

// Kind distinguishes files from folders
type Kind int

const (
	File Kind = iota
	Folder
)

func (k Kind) String() string {
	switch k {
	case File:
		return "File"
	case Folder:
		return "Folder"
	default:
		return "Unknown"
	}
}

// Entry is one immediate child of a scanned directory.
// For a file Files is 1 and Folders is 0. For a folder the counts are the
// recursive totals beneath it, not including the folder itself.
type Entry struct {
	Name    string
	Kind    Kind
	Size    uint64 // bytes; recursive total for folders
	Files   uint64
	Folders uint64
}

// FileEntry builds the entry for a single file
func FileEntry(name string, size uint64) Entry {
	return Entry{Name: name, Kind: File, Size: size, Files: 1}
}

// IsFolder reports whether the entry is a folder
func (e Entry) IsFolder() bool {
	return e.Kind == Folder
}

// ScanResult holds the entries of one directory and their totals.
// Entries are in discovery order: files first, then folders.
type ScanResult struct {
	Path         string
	Entries      []Entry
	TotalSize    uint64
	TotalFiles   uint64
	TotalFolders uint64
	ComputedAt   time.Time
}

// NewScanResult builds a result whose totals are the sums over entries
func NewScanResult(path string, entries []Entry, at time.Time) ScanResult {
	r := ScanResult{
		Path:       filepath.Clean(path),
		Entries:    entries,
		ComputedAt: at,
	}
	for _, e := range entries {
		r.TotalSize += e.Size
		r.TotalFiles += e.Files
		r.TotalFolders += e.Folders
	}
	return r
}

// Consistent reports whether the totals equal the sums over the entries
func (r ScanResult) Consistent() bool {
	var size, files, folders uint64
	for _, e := range r.Entries {
		size += e.Size
		files += e.Files
		folders += e.Folders
	}
	return size == r.TotalSize && files == r.TotalFiles && folders == r.TotalFolders
}

// Clone returns a copy that shares no slices with r
func (r ScanResult) Clone() ScanResult {
	c := r
	if r.Entries != nil {
		c.Entries = make([]Entry, len(r.Entries))
		copy(c.Entries, r.Entries)
	}
	return c
}

// Lookup finds an entry by name
func (r ScanResult) Lookup(name string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// ChildPath returns the absolute path of the named entry
func (r ScanResult) ChildPath(name string) string {
	return filepath.Join(r.Path, name)
}
