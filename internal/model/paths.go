package model

import (
	"path/filepath"
	"strings"
)

// IsWithin reports whether path equals root or lies beneath it
func IsWithin(path, root string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Parent returns the parent directory of path and whether one exists
func Parent(path string) (string, bool) {
	clean := filepath.Clean(path)
	parent := filepath.Dir(clean)
	if parent == clean {
		return clean, false
	}
	return parent, true
}
