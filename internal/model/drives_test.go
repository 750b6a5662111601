package model

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestGetDrives(t *testing.T) {
	drives, err := GetDrives()
	if err != nil {
		t.Fatalf("GetDrives failed: %v", err)
	}

	if len(drives) == 0 {
		t.Error("expected at least one drive")
	}

	if runtime.GOOS != "windows" {
		return
	}

	// C: should typically exist
	hasC := false
	for _, d := range drives {
		if d.Letter == "C" {
			hasC = true
			break
		}
	}
	if !hasC {
		t.Error("expected C: drive to exist")
	}
}

func TestDriveUsage(t *testing.T) {
	d := Drive{TotalBytes: 200, FreeBytes: 50}
	if d.UsedBytes() != 150 {
		t.Errorf("expected 150 used, got %d", d.UsedBytes())
	}
	if d.UsedPercent() != 75 {
		t.Errorf("expected 75%%, got %.1f%%", d.UsedPercent())
	}
	if (Drive{}).UsedPercent() != 0 {
		t.Error("expected 0% for empty drive")
	}
}

func TestDriveForPicksLongestPrefix(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "data")
	drives := []Drive{
		{Letter: "root", Path: root},
		{Letter: "data", Path: data},
	}

	d, ok := DriveFor(drives, filepath.Join(data, "photos"))
	if !ok || d.Letter != "data" {
		t.Errorf("expected data drive, got %+v", d)
	}

	d, ok = DriveFor(drives, filepath.Join(root, "other"))
	if !ok || d.Letter != "root" {
		t.Errorf("expected root drive, got %+v", d)
	}
}

func TestIsWithin(t *testing.T) {
	root := filepath.Join("a", "b")
	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join("a", "b"), true},
		{filepath.Join("a", "b", "c"), true},
		{filepath.Join("a", "bc"), false},
		{"a", false},
	}
	for _, tt := range tests {
		if got := IsWithin(tt.path, root); got != tt.want {
			t.Errorf("IsWithin(%q, %q) = %v, want %v", tt.path, root, got, tt.want)
		}
	}
}

func TestParent(t *testing.T) {
	p, ok := Parent(filepath.Join("a", "b"))
	if !ok || p != "a" {
		t.Errorf("expected parent a, got %q (%v)", p, ok)
	}

	root := filepath.VolumeName(t.TempDir()) + string(filepath.Separator)
	if _, ok := Parent(root); ok {
		t.Error("expected filesystem root to have no parent")
	}
}
