package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lumipallolabs/foldersize/internal/cache"
	"github.com/lumipallolabs/foldersize/internal/model"
)

const (
	listSizeBarWidth = 6 // Width of size proportion bar [██████]
	listSizeWidth    = 10
	listCountWidth   = 8
	listChangeWidth  = 11
	listMinNameWidth = 8
)

// ListPanel displays the entries of the current directory
type ListPanel struct {
	entries  []model.Entry
	total    uint64
	sortMode model.SortMode
	diff     cache.Diff
	cursor   int
	offset   int // scroll offset
	width    int
	height   int
	focused  bool
}

// NewListPanel creates a new entry list
func NewListPanel(mode model.SortMode) ListPanel {
	return ListPanel{sortMode: mode}
}

// SetEntries replaces the shown entries, keeping the cursor on the same name
// when it is still present
func (l *ListPanel) SetEntries(entries []model.Entry, total uint64) {
	prev, hadPrev := l.Selected()

	l.entries = append(l.entries[:0], entries...)
	l.total = total
	model.Sort(l.entries, l.sortMode)

	l.cursor = 0
	if hadPrev {
		l.SelectName(prev.Name)
	}
	l.clampCursor()
}

// Clear empties the list and resets the cursor
func (l *ListPanel) Clear() {
	l.entries = l.entries[:0]
	l.total = 0
	l.diff = nil
	l.cursor = 0
	l.offset = 0
}

// Entries returns the entries in display order
func (l ListPanel) Entries() []model.Entry {
	return l.entries
}

// SetSort changes the sort mode and re-sorts
func (l *ListPanel) SetSort(mode model.SortMode) {
	l.sortMode = mode
	l.SetEntries(append([]model.Entry(nil), l.entries...), l.total)
}

// SortMode returns the active sort mode
func (l ListPanel) SortMode() model.SortMode {
	return l.sortMode
}

// SetDiff sets the changes to mark, nil to hide markers
func (l *ListPanel) SetDiff(diff cache.Diff) {
	l.diff = diff
}

// SetSize sets the panel dimensions
func (l *ListPanel) SetSize(w, h int) {
	l.width = w
	l.height = h
	l.ensureVisible()
}

// SetFocused sets focus state
func (l *ListPanel) SetFocused(focused bool) {
	l.focused = focused
}

// Selected returns the entry under the cursor
func (l ListPanel) Selected() (model.Entry, bool) {
	if l.cursor < 0 || l.cursor >= len(l.entries) {
		return model.Entry{}, false
	}
	return l.entries[l.cursor], true
}

// SelectName moves the cursor to the entry called name
func (l *ListPanel) SelectName(name string) bool {
	for i, e := range l.entries {
		if e.Name == name {
			l.cursor = i
			l.ensureVisible()
			return true
		}
	}
	return false
}

// MoveUp moves the cursor up one row
func (l *ListPanel) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
		l.ensureVisible()
	}
}

// MoveDown moves the cursor down one row
func (l *ListPanel) MoveDown() {
	if l.cursor < len(l.entries)-1 {
		l.cursor++
		l.ensureVisible()
	}
}

// PageUp moves the cursor up one page
func (l *ListPanel) PageUp() {
	l.cursor -= l.pageSize()
	l.clampCursor()
}

// PageDown moves the cursor down one page
func (l *ListPanel) PageDown() {
	l.cursor += l.pageSize()
	l.clampCursor()
}

// GoToTop moves the cursor to the first entry
func (l *ListPanel) GoToTop() {
	l.cursor = 0
	l.ensureVisible()
}

// GoToBottom moves the cursor to the last entry
func (l *ListPanel) GoToBottom() {
	l.cursor = len(l.entries) - 1
	l.clampCursor()
}

func (l *ListPanel) clampCursor() {
	if l.cursor >= len(l.entries) {
		l.cursor = len(l.entries) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.ensureVisible()
}

// pageSize is the number of entry rows that fit (border and column header excluded)
func (l ListPanel) pageSize() int {
	rows := l.height - 3
	if rows < 1 {
		rows = 1
	}
	return rows
}

// ensureVisible scrolls so the cursor is on screen
func (l *ListPanel) ensureVisible() {
	rows := l.pageSize()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+rows {
		l.offset = l.cursor - rows + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// nameWidth is what is left for the name column
func (l ListPanel) nameWidth() int {
	inner := l.width - 4
	fixed := 2 + listSizeWidth + 2*listCountWidth + listSizeBarWidth + 2 + listChangeWidth + 5
	w := inner - fixed
	if w < listMinNameWidth {
		w = listMinNameWidth
	}
	return w
}

// sizeBar renders the entry's share of the directory total
func (l ListPanel) sizeBar(e model.Entry) string {
	if l.total == 0 {
		return "[" + strings.Repeat("░", listSizeBarWidth) + "]"
	}
	pct := float64(e.Size) / float64(l.total)
	filledFloat := pct * float64(listSizeBarWidth)
	filled := int(filledFloat)
	var bar strings.Builder
	for j := 0; j < listSizeBarWidth; j++ {
		if j < filled {
			bar.WriteRune('█')
		} else if float64(j) < filledFloat+0.5 && filled < listSizeBarWidth {
			bar.WriteRune('▓')
		} else {
			bar.WriteRune('░')
		}
	}
	return "[" + bar.String() + "]"
}

// changeText returns the diff marker for an entry and its style
func (l ListPanel) changeText(name string) (string, lipgloss.Style) {
	if l.diff == nil {
		return "", lipgloss.NewStyle()
	}
	c, ok := l.diff[name]
	if !ok {
		return "", lipgloss.NewStyle()
	}
	switch c.Kind {
	case cache.Added:
		return "NEW", NewBadge
	case cache.Grew:
		return FormatDelta(c.Delta()), GrewStyle
	case cache.Shrunk:
		return FormatDelta(c.Delta()), ShrunkStyle
	}
	return "", lipgloss.NewStyle()
}

// removed lists the diff entries no longer present
func (l ListPanel) removed() []cache.Change {
	var gone []cache.Change
	for _, c := range l.diff {
		if c.Kind == cache.Removed {
			gone = append(gone, c)
		}
	}
	return gone
}

func (l ListPanel) header() string {
	arrow := func(mode model.SortMode, label string) string {
		if l.sortMode == mode {
			return label + "▾"
		}
		return label
	}
	nameW := l.nameWidth()
	return fmt.Sprintf("  %-*s %*s %*s %*s %s",
		nameW, arrow(model.SortByName, "NAME"),
		listSizeWidth, arrow(model.SortBySize, "SIZE"),
		listCountWidth, arrow(model.SortByFiles, "FILES"),
		listCountWidth, arrow(model.SortByFolders, "FOLDERS"),
		strings.Repeat(" ", listSizeBarWidth+2))
}

// buildLine renders one row without selection styling
func (l ListPanel) buildLine(e model.Entry) string {
	icon := "  "
	name := e.Name
	if e.IsFolder() {
		icon = "▸ "
		name += "/"
	}
	nameW := l.nameWidth()
	line := fmt.Sprintf("%s%-*s %*s %*s %*s %s",
		icon,
		nameW, truncate(name, nameW),
		listSizeWidth, FormatSize(e.Size),
		listCountWidth, humanize.Comma(int64(e.Files)),
		listCountWidth, humanize.Comma(int64(e.Folders)),
		l.sizeBar(e))
	return line
}

// View renders the list
func (l ListPanel) View() string {
	style := ListPanelStyle.Width(l.width - 2).Height(l.height - 2)
	if l.focused {
		style = style.BorderForeground(ColorPrimary)
	}

	if len(l.entries) == 0 {
		return style.Render(lipgloss.NewStyle().Foreground(ColorMuted).Render("(empty)"))
	}

	maxW := l.width - 4
	if maxW < 1 {
		maxW = 1
	}

	lines := []string{ListHeaderStyle.MaxWidth(maxW).Render(l.header())}
	rows := l.pageSize()
	for i := l.offset; i < len(l.entries) && i < l.offset+rows; i++ {
		e := l.entries[i]
		line := l.buildLine(e)

		var itemStyle lipgloss.Style
		switch {
		case i == l.cursor && l.focused:
			itemStyle = ListItemSelected
		case i == l.cursor:
			// Dimmer selection when unfocused
			itemStyle = ListItemSelectedUnfocused
		case e.IsFolder():
			itemStyle = lipgloss.NewStyle().Foreground(ColorDir)
		default:
			itemStyle = lipgloss.NewStyle().Foreground(ColorFile)
		}
		line = itemStyle.Render(line)

		if text, changeStyle := l.changeText(e.Name); text != "" {
			line += " " + changeStyle.Render(text)
		}
		lines = append(lines, lipgloss.NewStyle().MaxWidth(maxW).Render(line))
	}

	if gone := l.removed(); len(gone) > 0 && len(lines) <= rows {
		var freed uint64
		for _, c := range gone {
			freed += c.PrevSize
		}
		lines = append(lines, ShrunkStyle.Render(fmt.Sprintf("  %d removed, -%s", len(gone), FormatSize(freed))))
	}

	return style.Render(strings.Join(lines, "\n"))
}

// truncate shortens s to n display cells, marking the cut with an ellipsis
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
