package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

func writeTree(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()

	if err := os.MkdirAll(filepath.Join(tmp, "subdir", "deeper"), 0755); err != nil {
		t.Fatal(err)
	}
	files := []struct{ name, content string }{
		{"file1.txt", "hello"},
		{"file2.txt", "world!"},
		{filepath.Join("subdir", "a.bin"), "12345"},
		{filepath.Join("subdir", "deeper", "b.bin"), "1234567890"},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(tmp, f.name), []byte(f.content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return tmp
}

func TestListChildren(t *testing.T) {
	tmp := writeTree(t)
	acc := NewOSAccessor(Options{})

	children, err := acc.ListChildren(tmp)
	if err != nil {
		t.Fatalf("ListChildren failed: %v", err)
	}

	got := make(map[string]bool)
	for _, c := range children {
		got[c.Name] = c.IsFolder
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 children, got %d", len(got))
	}
	if got["file1.txt"] || got["file2.txt"] {
		t.Error("files classified as folders")
	}
	if !got["subdir"] {
		t.Error("subdir not classified as folder")
	}
}

func TestListChildrenMissing(t *testing.T) {
	acc := NewOSAccessor(Options{})

	_, err := acc.ListChildren(filepath.Join(t.TempDir(), "nope"))

	var accessErr *AccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("expected *AccessError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestFileSizeAndExists(t *testing.T) {
	tmp := writeTree(t)
	acc := NewOSAccessor(Options{})

	if size := acc.FileSize(filepath.Join(tmp, "file2.txt")); size != 6 {
		t.Errorf("expected 6 bytes, got %d", size)
	}
	if size := acc.FileSize(filepath.Join(tmp, "missing")); size != 0 {
		t.Errorf("expected 0 for missing file, got %d", size)
	}
	if !acc.Exists(tmp) {
		t.Error("expected temp dir to exist")
	}
	if acc.Exists(filepath.Join(tmp, "missing")) {
		t.Error("did not expect missing path to exist")
	}
}

func TestWalkVisitsEverythingBelowRoot(t *testing.T) {
	tmp := writeTree(t)
	acc := NewOSAccessor(Options{Workers: 4})

	var mu sync.Mutex
	seen := make(map[string]WalkEntry)
	err := acc.Walk(context.Background(), filepath.Join(tmp, "subdir"), func(e WalkEntry) error {
		mu.Lock()
		defer mu.Unlock()
		rel, _ := filepath.Rel(tmp, e.Path)
		seen[rel] = e
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if _, ok := seen["subdir"]; ok {
		t.Error("walk root should not be visited")
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 entries, got %d: %v", len(seen), seen)
	}
	if e := seen[filepath.Join("subdir", "deeper")]; !e.IsDir {
		t.Error("deeper should be a directory")
	}
	if e := seen[filepath.Join("subdir", "deeper", "b.bin")]; e.Size != 10 {
		t.Errorf("expected b.bin to be 10 bytes, got %d", e.Size)
	}
}

func TestAggregateOnDisk(t *testing.T) {
	tmp := writeTree(t)
	acc := NewOSAccessor(Options{})

	totals, err := Aggregate(context.Background(), acc, tmp, nil)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	want := Totals{Size: 26, Files: 4, Folders: 2}
	if totals != want {
		t.Errorf("expected %+v, got %+v", want, totals)
	}
}

func TestAggregateDiskUsage(t *testing.T) {
	tmp := writeTree(t)
	acc := NewOSAccessor(Options{DiskUsage: true})

	totals, err := Aggregate(context.Background(), acc, tmp, nil)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	// On Windows: logical size. On Unix: allocated blocks, usually 4096+ per file.
	if totals.Size == 0 {
		t.Error("expected non-zero total size")
	}
	t.Logf("allocated size: %d bytes", totals.Size)
}

func TestAggregateCancelledBeforeStart(t *testing.T) {
	tmp := writeTree(t)
	acc := NewOSAccessor(Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Aggregate(ctx, acc, tmp, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSymlinksNotFollowedByDefault(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}
	tmp := writeTree(t)
	link := filepath.Join(tmp, "link")
	if err := os.Symlink(filepath.Join(tmp, "subdir"), link); err != nil {
		t.Fatal(err)
	}

	acc := NewOSAccessor(Options{})
	children, err := acc.ListChildren(tmp)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range children {
		if c.Name == "link" && c.IsFolder {
			t.Error("symlink to folder should be a file when not following")
		}
	}

	followed := NewOSAccessor(Options{FollowSymlinks: true})
	children, err = followed.ListChildren(tmp)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range children {
		if c.Name == "link" && !c.IsFolder {
			t.Error("symlink to folder should be a folder when following")
		}
	}
}

func TestFollowSymlinkLoopTerminates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}
	tmp := writeTree(t)
	if err := os.Symlink(tmp, filepath.Join(tmp, "subdir", "loop")); err != nil {
		t.Fatal(err)
	}

	acc := NewOSAccessor(Options{FollowSymlinks: true})
	totals, err := Aggregate(context.Background(), acc, tmp, nil)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if totals.Files < 4 {
		t.Errorf("expected at least the 4 real files, got %d", totals.Files)
	}
}
