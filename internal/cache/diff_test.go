package cache

import (
	"testing"

	"github.com/lumipallolabs/foldersize/internal/model"
)

func TestCompare(t *testing.T) {
	prev := result("/d",
		model.FileEntry("old", 100),
		model.FileEntry("same", 200),
		model.Entry{Name: "shrunk", Kind: model.Folder, Size: 500, Files: 3},
	)
	curr := result("/d",
		model.FileEntry("same", 250),
		model.FileEntry("new", 300),
		model.Entry{Name: "shrunk", Kind: model.Folder, Size: 100, Files: 1},
	)

	diff := Compare(prev, curr)

	tests := []struct {
		name     string
		kind     ChangeKind
		prevSize uint64
	}{
		{"same", Grew, 200},
		{"new", Added, 0},
		{"old", Removed, 100},
		{"shrunk", Shrunk, 500},
	}
	for _, tt := range tests {
		c, ok := diff[tt.name]
		if !ok {
			t.Errorf("%s: missing from diff", tt.name)
			continue
		}
		if c.Kind != tt.kind {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.kind, c.Kind)
		}
		if c.PrevSize != tt.prevSize {
			t.Errorf("%s: expected PrevSize %d, got %d", tt.name, tt.prevSize, c.PrevSize)
		}
	}

	if !diff.Changed() {
		t.Error("expected diff to report changes")
	}
	if freed := diff.Freed(); freed != 500 {
		t.Errorf("expected 500 bytes freed, got %d", freed)
	}
}

func TestCompareUnchanged(t *testing.T) {
	r := result("/d", model.FileEntry("a", 1))

	diff := Compare(r, r)

	if diff.Changed() {
		t.Error("expected no changes")
	}
	if diff["a"].Kind != Unchanged {
		t.Errorf("expected unchanged, got %s", diff["a"].Kind)
	}
}

func TestChangePercent(t *testing.T) {
	c := Change{PrevSize: 100, Size: 150}
	if c.Delta() != 50 {
		t.Errorf("expected delta 50, got %d", c.Delta())
	}
	if pct := c.ChangePercent(); pct != 50.0 {
		t.Errorf("expected 50%%, got %.1f%%", pct)
	}
	if (Change{Size: 10}).ChangePercent() != 0 {
		t.Error("expected 0% change from empty")
	}
}
