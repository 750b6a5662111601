package model

import (
	"fmt"
	"sort"
	"strings"
)

// SortMode selects the column entries are ordered by
type SortMode int

const (
	SortBySize SortMode = iota
	SortByName
	SortByFiles
	SortByFolders
)

var sortModeNames = []string{"size", "name", "files", "folders"}

func (m SortMode) String() string {
	if m < 0 || int(m) >= len(sortModeNames) {
		return "unknown"
	}
	return sortModeNames[m]
}

// Next cycles to the following sort mode
func (m SortMode) Next() SortMode {
	return (m + 1) % SortMode(len(sortModeNames))
}

// ParseSortMode converts a name such as "size" to a SortMode
func ParseSortMode(s string) (SortMode, error) {
	for i, name := range sortModeNames {
		if strings.EqualFold(s, name) {
			return SortMode(i), nil
		}
	}
	return SortBySize, fmt.Errorf("unknown sort mode %q (want one of %s)", s, strings.Join(sortModeNames, ", "))
}

// UnmarshalText lets SortMode be used directly as a flag value
func (m *SortMode) UnmarshalText(b []byte) error {
	v, err := ParseSortMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalText is the inverse of UnmarshalText
func (m SortMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Sort orders entries in place. Name sorts ascending, the numeric modes
// descending; ties fall back to name.
func Sort(entries []Entry, mode SortMode) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		var ka, kb uint64
		switch mode {
		case SortByName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case SortByFiles:
			ka, kb = a.Files, b.Files
		case SortByFolders:
			ka, kb = a.Folders, b.Folders
		default:
			ka, kb = a.Size, b.Size
		}
		if ka != kb {
			return ka > kb
		}
		return a.Name < b.Name
	})
}
