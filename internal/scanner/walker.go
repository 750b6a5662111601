package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charlievieth/fastwalk"
	"github.com/lumipallolabs/foldersize/internal/logging"
)

// Options tune how the OS accessor reads the filesystem
type Options struct {
	Workers        int  // fastwalk workers, <1 means fastwalk's default
	FollowSymlinks bool // size link targets and descend into linked folders
	OneFileSystem  bool // don't cross into other mounted devices
	DiskUsage      bool // allocated blocks instead of apparent size
}

// OSAccessor reads the real filesystem. Walks run in parallel with fastwalk.
type OSAccessor struct {
	opts Options
}

// NewOSAccessor creates an accessor for the local filesystem
func NewOSAccessor(opts Options) *OSAccessor {
	return &OSAccessor{opts: opts}
}

// ListChildren lists path and classifies each child
func (a *OSAccessor) ListChildren(path string) ([]Child, error) {
	dirents, err := os.ReadDir(path)
	if err != nil {
		return nil, &AccessError{Path: path, Err: err}
	}

	children := make([]Child, 0, len(dirents))
	for _, d := range dirents {
		isFolder := d.IsDir()
		if d.Type()&fs.ModeSymlink != 0 && a.opts.FollowSymlinks {
			info, err := os.Stat(filepath.Join(path, d.Name()))
			if err != nil {
				logging.Scanner.Printf("[List] skipping %s: %v", d.Name(), err)
				continue
			}
			isFolder = info.IsDir()
		}
		children = append(children, Child{Name: d.Name(), IsFolder: isFolder})
	}
	return children, nil
}

// FileSize returns the size of a single file, 0 if it cannot be stat'ed
func (a *OSAccessor) FileSize(path string) uint64 {
	stat := os.Lstat
	if a.opts.FollowSymlinks {
		stat = os.Stat
	}
	info, err := stat(path)
	if err != nil {
		logging.Scanner.Printf("[Size] %s: %v", path, err)
		return 0
	}
	return a.sizeOf(info)
}

// Exists reports whether path can be stat'ed
func (a *OSAccessor) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Walk visits everything beneath root using fastwalk
func (a *OSAccessor) Walk(ctx context.Context, root string, visit VisitFunc) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	cleanRoot := filepath.Clean(absRoot)

	var rootDev deviceID
	checkDevice := false
	if a.opts.OneFileSystem {
		rootDev, checkDevice = deviceOf(absRoot)
	}

	conf := &fastwalk.Config{
		Follow:     a.opts.FollowSymlinks,
		NumWorkers: a.opts.Workers,
	}

	return fastwalk.Walk(conf, absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directory could not be read; it was already visited once.
			logging.Scanner.Printf("[Walk] %s: %v", path, err)
			return nil
		}

		info, isDir, ok := a.classify(d)
		if !ok {
			return nil
		}

		if isDir {
			if filepath.Clean(path) == cleanRoot {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if checkDevice && info != nil && onOtherDevice(info, rootDev) {
				return fastwalk.SkipDir
			}
			return visit(WalkEntry{Path: path, IsDir: true})
		}

		return visit(WalkEntry{Path: path, Size: a.sizeOf(info)})
	})
}

// classify returns the info used for sizing and whether the entry is a directory.
// Symlinks are sized as links unless following is enabled.
func (a *OSAccessor) classify(d fs.DirEntry) (fs.FileInfo, bool, bool) {
	var (
		info fs.FileInfo
		err  error
	)
	if d.Type()&fs.ModeSymlink != 0 && a.opts.FollowSymlinks {
		if fd, ok := d.(fastwalk.DirEntry); ok {
			info, err = fd.Stat()
		} else {
			info, err = d.Info()
		}
	} else {
		info, err = d.Info()
	}
	if err != nil {
		return nil, false, false
	}
	return info, info.IsDir(), true
}

func (a *OSAccessor) sizeOf(info fs.FileInfo) uint64 {
	if info == nil || info.IsDir() {
		return 0
	}
	if a.opts.DiskUsage {
		return allocatedSize(info)
	}
	if info.Size() < 0 {
		return 0
	}
	return uint64(info.Size())
}

var _ Accessor = (*OSAccessor)(nil)
