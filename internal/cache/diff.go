package cache

import "github.com/lumipallolabs/foldersize/internal/model"

// ChangeKind classifies how an entry differs between two scans
type ChangeKind int

const (
	Unchanged ChangeKind = iota
	Grew
	Shrunk
	Added
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Grew:
		return "grew"
	case Shrunk:
		return "shrunk"
	case Added:
		return "new"
	case Removed:
		return "removed"
	default:
		return "unchanged"
	}
}

// Change describes one entry across a refresh
type Change struct {
	Name     string
	Kind     ChangeKind
	PrevSize uint64
	Size     uint64
}

// Delta returns the signed size difference
func (c Change) Delta() int64 {
	return int64(c.Size) - int64(c.PrevSize)
}

// ChangePercent returns the percentage change from the previous size
func (c Change) ChangePercent() float64 {
	if c.PrevSize == 0 {
		return 0
	}
	return float64(c.Delta()) / float64(c.PrevSize) * 100
}

// Diff maps entry names to their change
type Diff map[string]Change

// Compare classifies every entry of current against previous. Entries only
// in previous are reported as Removed.
func Compare(previous, current model.ScanResult) Diff {
	prevByName := make(map[string]model.Entry, len(previous.Entries))
	for _, e := range previous.Entries {
		prevByName[e.Name] = e
	}

	diff := make(Diff, len(current.Entries))
	for _, e := range current.Entries {
		prev, existed := prevByName[e.Name]
		c := Change{Name: e.Name, Size: e.Size, PrevSize: prev.Size}
		switch {
		case !existed:
			c.Kind = Added
		case e.Size > prev.Size:
			c.Kind = Grew
		case e.Size < prev.Size:
			c.Kind = Shrunk
		}
		diff[e.Name] = c
		delete(prevByName, e.Name)
	}
	for name, prev := range prevByName {
		diff[name] = Change{Name: name, Kind: Removed, PrevSize: prev.Size}
	}
	return diff
}

// Changed reports whether any entry differs
func (d Diff) Changed() bool {
	for _, c := range d {
		if c.Kind != Unchanged {
			return true
		}
	}
	return false
}

// Freed sums the bytes lost by shrunk and removed entries
func (d Diff) Freed() uint64 {
	var freed uint64
	for _, c := range d {
		if c.Kind == Shrunk || c.Kind == Removed {
			freed += c.PrevSize - c.Size
		}
	}
	return freed
}
