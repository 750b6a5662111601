package model

import "testing"

func TestNewScanResultTotals(t *testing.T) {
	entries := []Entry{
		FileEntry("a", 10),
		FileEntry("b", 20),
		{Name: "sub", Kind: Folder, Size: 5, Files: 1, Folders: 0},
	}

	r := NewScanResult("/d/", entries, timeZero)

	if r.Path != "/d" {
		t.Errorf("expected cleaned path /d, got %s", r.Path)
	}
	if r.TotalSize != 35 || r.TotalFiles != 3 || r.TotalFolders != 0 {
		t.Errorf("unexpected totals (%d, %d, %d)", r.TotalSize, r.TotalFiles, r.TotalFolders)
	}
	if !r.Consistent() {
		t.Error("expected result to be consistent")
	}

	r.TotalSize++
	if r.Consistent() {
		t.Error("expected tampered result to be inconsistent")
	}
}

func TestFileEntryCounts(t *testing.T) {
	e := FileEntry("x", 42)
	if e.Kind != File || e.Files != 1 || e.Folders != 0 {
		t.Errorf("unexpected file entry %+v", e)
	}
	if e.IsFolder() {
		t.Error("file entry reported as folder")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	r := NewScanResult("/d", []Entry{FileEntry("a", 1)}, timeZero)
	c := r.Clone()
	c.Entries[0].Name = "changed"

	if r.Entries[0].Name != "a" {
		t.Errorf("clone aliased original entries: %s", r.Entries[0].Name)
	}
}

func TestLookupAndChildPath(t *testing.T) {
	r := NewScanResult("/d", []Entry{FileEntry("a", 1)}, timeZero)

	if _, ok := r.Lookup("a"); !ok {
		t.Error("expected to find a")
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Error("did not expect to find missing")
	}
	if got := r.ChildPath("a"); got != "/d/a" && got != `\d\a` {
		t.Errorf("unexpected child path %s", got)
	}
}
