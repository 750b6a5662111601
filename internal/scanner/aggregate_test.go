package scanner_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/lumipallolabs/foldersize/internal/scanner"
	"github.com/lumipallolabs/foldersize/internal/scanner/scannertest"
)

func TestAggregateCountsDescendants(t *testing.T) {
	root := filepath.FromSlash("/data")
	mem := scannertest.New().
		AddFile(filepath.Join(root, "a.txt"), 10).
		AddFile(filepath.Join(root, "x", "b.txt"), 20).
		AddFile(filepath.Join(root, "x", "y", "c.txt"), 30).
		AddDir(filepath.Join(root, "empty"))

	totals, err := scanner.Aggregate(context.Background(), mem, root, nil)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	want := scanner.Totals{Size: 60, Files: 3, Folders: 3}
	if totals != want {
		t.Errorf("expected %+v, got %+v", want, totals)
	}
}

func TestAggregateEmptyFolder(t *testing.T) {
	root := filepath.FromSlash("/empty")
	mem := scannertest.New().AddDir(root)

	totals, err := scanner.Aggregate(context.Background(), mem, root, nil)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if totals != (scanner.Totals{}) {
		t.Errorf("expected zero totals, got %+v", totals)
	}
}

func TestAggregateMissingFolderContributesNothing(t *testing.T) {
	mem := scannertest.New()

	totals, err := scanner.Aggregate(context.Background(), mem, filepath.FromSlash("/gone"), nil)
	if err != nil {
		t.Fatalf("expected access errors to be swallowed, got %v", err)
	}
	if totals != (scanner.Totals{}) {
		t.Errorf("expected zero totals, got %+v", totals)
	}
}

func TestAggregateStopsWithinOneBatch(t *testing.T) {
	root := filepath.FromSlash("/big")
	mem := scannertest.New()
	for i := 0; i < 10*scanner.CancelBatch; i++ {
		mem.AddFile(filepath.Join(root, fmt.Sprintf("f%04d", i)), 1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var visited atomic.Int64
	mem.OnVisit = func(string) {
		if visited.Add(1) == 150 {
			cancel()
		}
	}

	totals, err := scanner.Aggregate(ctx, mem, root, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if totals.Files > 150+scanner.CancelBatch {
		t.Errorf("expected stop within one batch of the request, counted %d files", totals.Files)
	}
}

func TestAggregateReportsProgress(t *testing.T) {
	root := filepath.FromSlash("/p")
	mem := scannertest.New()
	for i := 0; i < 2*scanner.ProgressBatch; i++ {
		mem.AddFile(filepath.Join(root, fmt.Sprintf("f%04d", i)), 2)
	}

	var calls atomic.Int64
	var last atomic.Int64
	_, err := scanner.Aggregate(context.Background(), mem, root, func(p scanner.Progress) {
		calls.Add(1)
		last.Store(p.BytesFound)
	})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 progress callbacks, got %d", calls.Load())
	}
	if last.Load() != int64(4*scanner.ProgressBatch) {
		t.Errorf("unexpected bytes in last progress: %d", last.Load())
	}
}

func TestTotalsEntry(t *testing.T) {
	e := scanner.Totals{Size: 5, Files: 1}.Entry("sub")
	if e.Name != "sub" || !e.IsFolder() || e.Size != 5 || e.Files != 1 || e.Folders != 0 {
		t.Errorf("unexpected entry %+v", e)
	}
}
