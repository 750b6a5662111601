// Package scannertest provides an in-memory scanner.Accessor for tests.
package scannertest

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lumipallolabs/foldersize/internal/scanner"
)

// MemFS is an in-memory directory tree. It counts walks so tests can tell
// whether a result came from the cache.
type MemFS struct {
	mu      sync.RWMutex
	files   map[string]uint64
	dirs    map[string]bool
	listErr map[string]error
	walks   atomic.Int64

	// OnVisit, if set, runs before each walk entry is visited
	OnVisit func(path string)
}

// New creates an empty tree
func New() *MemFS {
	return &MemFS{
		files:   make(map[string]uint64),
		dirs:    make(map[string]bool),
		listErr: make(map[string]error),
	}
}

// AddFile adds a file, creating its parent folders
func (m *MemFS) AddFile(path string, size uint64) *MemFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.files[path] = size
	m.addParents(path)
	return m
}

// AddDir adds an empty folder, creating its parents
func (m *MemFS) AddDir(path string) *MemFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.dirs[path] = true
	m.addParents(path)
	return m
}

// Remove deletes path and everything beneath it
func (m *MemFS) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	for p := range m.files {
		if p == path || isBelow(p, path) {
			delete(m.files, p)
		}
	}
	for p := range m.dirs {
		if p == path || isBelow(p, path) {
			delete(m.dirs, p)
		}
	}
}

// FailList makes ListChildren of path fail with err
func (m *MemFS) FailList(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr[filepath.Clean(path)] = err
}

// Walks returns how many recursive walks have been started
func (m *MemFS) Walks() int64 {
	return m.walks.Load()
}

func (m *MemFS) addParents(path string) {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		m.dirs[dir] = true
		if filepath.Dir(dir) == dir {
			return
		}
	}
}

// ListChildren returns the direct children of path sorted by name
func (m *MemFS) ListChildren(path string) ([]scanner.Child, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)

	if err, ok := m.listErr[path]; ok {
		return nil, &scanner.AccessError{Path: path, Err: err}
	}
	if !m.dirs[path] {
		return nil, &scanner.AccessError{Path: path, Err: fs.ErrNotExist}
	}

	var children []scanner.Child
	for p := range m.files {
		if filepath.Dir(p) == path {
			children = append(children, scanner.Child{Name: filepath.Base(p)})
		}
	}
	for p := range m.dirs {
		if p != path && filepath.Dir(p) == path {
			children = append(children, scanner.Child{Name: filepath.Base(p), IsFolder: true})
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	return children, nil
}

// FileSize returns the stored size, 0 for unknown paths
func (m *MemFS) FileSize(path string) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files[filepath.Clean(path)]
}

// Exists reports whether path is a known file or folder
func (m *MemFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)
	_, isFile := m.files[path]
	return isFile || m.dirs[path]
}

// Walk visits every entry beneath root in lexical order
func (m *MemFS) Walk(ctx context.Context, root string, visit scanner.VisitFunc) error {
	m.walks.Add(1)
	root = filepath.Clean(root)

	m.mu.RLock()
	if !m.dirs[root] {
		m.mu.RUnlock()
		return &scanner.AccessError{Path: root, Err: fs.ErrNotExist}
	}
	var entries []scanner.WalkEntry
	for p, size := range m.files {
		if isBelow(p, root) {
			entries = append(entries, scanner.WalkEntry{Path: p, Size: size})
		}
	}
	for p := range m.dirs {
		if isBelow(p, root) {
			entries = append(entries, scanner.WalkEntry{Path: p, IsDir: true})
		}
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	for _, e := range entries {
		if m.OnVisit != nil {
			m.OnVisit(e.Path)
		}
		if err := visit(e); err != nil {
			if errors.Is(err, fs.SkipDir) {
				continue
			}
			return err
		}
	}
	return ctx.Err()
}

func isBelow(path, root string) bool {
	return strings.HasPrefix(path, root+string(filepath.Separator)) ||
		(strings.HasSuffix(root, string(filepath.Separator)) && path != root && strings.HasPrefix(path, root))
}

var _ scanner.Accessor = (*MemFS)(nil)
