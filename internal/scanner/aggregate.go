package scanner

import (
	"context"
	"sync/atomic"

	"github.com/lumipallolabs/foldersize/internal/logging"
	"github.com/lumipallolabs/foldersize/internal/model"
)

const (
	// CancelBatch is how many files may be counted between two
	// cancellation checks
	CancelBatch = 100

	// ProgressBatch is how many files are counted between two progress callbacks
	ProgressBatch = 500
)

// Totals are the recursive sums beneath one folder
type Totals struct {
	Size    uint64
	Files   uint64
	Folders uint64
}

// Entry converts the totals into the folder entry called name
func (t Totals) Entry(name string) model.Entry {
	return model.Entry{
		Name:    name,
		Kind:    model.Folder,
		Size:    t.Size,
		Files:   t.Files,
		Folders: t.Folders,
	}
}

// Aggregate walks folder and sums the size of every non-directory entry
// beneath it, counting files and sub-folders at any depth. The folder itself
// is not counted.
//
// Entries that cannot be read contribute nothing. The context is checked at
// every directory and once per CancelBatch files; when it is done Aggregate
// returns the partial totals together with the context's error, and callers
// must discard them.
//
// onProgress may be nil. It can be called concurrently.
func Aggregate(ctx context.Context, acc Accessor, folder string, onProgress func(Progress)) (Totals, error) {
	var files, dirs, bytes atomic.Uint64

	walkErr := acc.Walk(ctx, folder, func(e WalkEntry) error {
		if e.IsDir {
			dirs.Add(1)
			return ctx.Err()
		}

		n := files.Add(1)
		b := bytes.Add(e.Size)
		if n%CancelBatch == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if onProgress != nil && n%ProgressBatch == 0 {
			onProgress(Progress{
				FilesScanned: int64(n),
				DirsScanned:  int64(dirs.Load()),
				BytesFound:   int64(b),
				CurrentPath:  e.Path,
			})
		}
		return nil
	})

	totals := Totals{Size: bytes.Load(), Files: files.Load(), Folders: dirs.Load()}
	if err := ctx.Err(); err != nil {
		return totals, err
	}
	if walkErr != nil {
		logging.Scanner.Printf("[Aggregate] %s: %v (partial totals kept)", folder, walkErr)
	}
	return totals, nil
}
