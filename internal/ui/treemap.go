package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeffwilliams/squarify"

	"github.com/lumipallolabs/foldersize/internal/model"
)

// Block represents a rectangle in the treemap
type Block struct {
	Entry         model.Entry
	X, Y          int
	Width, Height int
	// For grouped items (Entry unset)
	IsGrouped  bool
	GroupCount int
	GroupSize  uint64
}

// TreemapPanel shows the current directory's entries as nested rectangles
type TreemapPanel struct {
	entries  []model.Entry
	selected string
	blocks   []Block
	width    int
	height   int
	focused  bool
}

// NewTreemapPanel creates a new treemap panel
func NewTreemapPanel() TreemapPanel {
	return TreemapPanel{}
}

// SetEntries sets the entries to lay out
func (t *TreemapPanel) SetEntries(entries []model.Entry) {
	t.entries = append(t.entries[:0], entries...)
	t.layout()
}

// SetSize sets the panel dimensions
func (t *TreemapPanel) SetSize(w, h int) {
	if t.width != w || t.height != h {
		t.width = w
		t.height = h
		t.layout()
	}
}

// SetFocused sets focus state
func (t *TreemapPanel) SetFocused(focused bool) {
	t.focused = focused
}

// SetSelected highlights the entry called name
func (t *TreemapPanel) SetSelected(name string) {
	t.selected = name
}

// Selected returns the name of the highlighted entry
func (t TreemapPanel) Selected() string {
	return t.selected
}

// Blocks returns the current layout
func (t TreemapPanel) Blocks() []Block {
	return t.blocks
}

// SelectFirst selects the first non-grouped block
func (t *TreemapPanel) SelectFirst() {
	for i := range t.blocks {
		if !t.blocks[i].IsGrouped {
			t.selected = t.blocks[i].Entry.Name
			return
		}
	}
}

// MoveToBlock moves selection to an adjacent block
func (t *TreemapPanel) MoveToBlock(dx, dy int) {
	if len(t.blocks) == 0 {
		return
	}

	// Find current block
	var currentBlock *Block
	for i := range t.blocks {
		if !t.blocks[i].IsGrouped && t.blocks[i].Entry.Name == t.selected {
			currentBlock = &t.blocks[i]
			break
		}
	}

	if currentBlock == nil {
		t.SelectFirst()
		return
	}

	// Find center of current block
	cx := currentBlock.X + currentBlock.Width/2
	cy := currentBlock.Y + currentBlock.Height/2

	// Find best candidate in the requested direction
	var bestBlock *Block
	bestDist := -1

	for i := range t.blocks {
		block := &t.blocks[i]
		if block.IsGrouped || block.Entry.Name == t.selected {
			continue
		}

		bx := block.X + block.Width/2
		by := block.Y + block.Height/2

		if dx > 0 && bx <= cx {
			continue
		}
		if dx < 0 && bx >= cx {
			continue
		}
		if dy > 0 && by <= cy {
			continue
		}
		if dy < 0 && by >= cy {
			continue
		}

		dist := abs(bx-cx) + abs(by-cy)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			bestBlock = block
		}
	}

	if bestBlock != nil {
		t.selected = bestBlock.Entry.Name
	}
}

// treemapItem wraps an entry for the squarify algorithm
type treemapItem struct {
	entry model.Entry
	size  float64
	// Children for TreeSizer interface
	children []*treemapItem
}

// Size implements squarify.TreeSizer
func (t *treemapItem) Size() float64 {
	return t.size
}

// NumChildren implements squarify.TreeSizer
func (t *treemapItem) NumChildren() int {
	return len(t.children)
}

// Child implements squarify.TreeSizer
func (t *treemapItem) Child(i int) squarify.TreeSizer {
	return t.children[i]
}

const (
	minBlockWidth   = 8  // minimum width for any block (fits short label)
	minBlockHeight  = 3  // minimum height for any block (border + 1 line text)
	maxVisibleItems = 15 // max items before grouping remainder into "N more"

	treemapBorderH = 2 // margin for rightmost block borders
)

// contentSize returns the drawable area
func (t TreemapPanel) contentSize() (int, int) {
	contentW := t.width - treemapBorderH
	contentH := t.height
	if contentW < 1 {
		contentW = 1
	}
	if contentH < 1 {
		contentH = 1
	}
	return contentW, contentH
}

// squarifyItems lays out items in rect and reports whether every block
// meets the minimum dimensions
func squarifyItems(items []*treemapItem, rect squarify.Rect) ([]squarify.Block, []squarify.Meta, bool) {
	root := &treemapItem{children: items}
	for _, child := range items {
		root.size += child.size
	}

	blocks, metas := squarify.Squarify(root, rect, squarify.Options{
		MaxDepth: 1,
		Sort:     true,
	})

	for i, block := range blocks {
		if i >= len(metas) || metas[i].Depth != 0 {
			continue
		}
		w := int(math.Floor(block.X+block.W)) - int(math.Floor(block.X))
		h := int(math.Floor(block.Y+block.H)) - int(math.Floor(block.Y))
		if w < minBlockWidth || h < minBlockHeight {
			return blocks, metas, false
		}
	}
	return blocks, metas, true
}

// layout calculates block positions using the squarify library
func (t *TreemapPanel) layout() {
	t.blocks = nil

	if len(t.entries) == 0 || t.width <= 2 || t.height <= 2 {
		return
	}
	contentW, contentH := t.contentSize()

	items := make([]*treemapItem, 0, len(t.entries))
	for _, e := range t.entries {
		size := float64(e.Size)
		if size < 1 {
			size = 1 // Prevent division by zero, but keep proportions
		}
		items = append(items, &treemapItem{entry: e, size: size})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].size > items[j].size
	})

	rect := squarify.Rect{W: float64(contentW), H: float64(contentH)}

	// Try the most items that fit with minimum dimensions, grouping the
	// remainder into a "N more" strip along the bottom
	var blocks []squarify.Block
	var metas []squarify.Meta
	numVisible := 1
	for maxVisible := min(len(items), maxVisibleItems); maxVisible >= 1; maxVisible-- {
		numVisible = maxVisible
		mainRect := rect
		// Only group if 2+ items would be grouped (don't show "1 more")
		if len(items)-numVisible >= 2 {
			mainRect.H = float64(contentH - minBlockHeight)
		} else {
			numVisible = len(items)
		}

		var fits bool
		blocks, metas, fits = squarifyItems(items[:numVisible], mainRect)
		if fits || maxVisible == 1 {
			break
		}
	}

	// Convert squarify blocks to our Block type
	maxMainBlockEndY := 0
	for i, block := range blocks {
		item, ok := block.TreeSizer.(*treemapItem)
		if !ok || i >= len(metas) || metas[i].Depth != 0 {
			continue
		}

		// Round all edges so adjacent blocks share boundaries
		x := int(math.Round(block.X))
		y := int(math.Round(block.Y))
		w := int(math.Round(block.X+block.W)) - x
		h := int(math.Round(block.Y+block.H)) - y

		if x+w > contentW {
			w = contentW - x
		}
		if y+h > contentH {
			h = contentH - y
		}
		if w < 1 || h < 1 || x >= contentW || y >= contentH {
			continue
		}

		if y+h > maxMainBlockEndY {
			maxMainBlockEndY = y + h
		}

		t.blocks = append(t.blocks, Block{
			Entry:  item.entry,
			X:      x,
			Y:      y,
			Width:  w,
			Height: h,
		})
	}

	if rest := len(items) - numVisible; rest >= 2 {
		var groupSize uint64
		for _, item := range items[numVisible:] {
			groupSize += item.entry.Size
		}
		// Start right after main blocks and fill the remaining space
		height := contentH - maxMainBlockEndY
		if height < 1 {
			height = 1
		}
		t.blocks = append(t.blocks, Block{
			X:          0,
			Y:          maxMainBlockEndY,
			Width:      contentW,
			Height:     height,
			IsGrouped:  true,
			GroupCount: rest,
			GroupSize:  groupSize,
		})
	}
}

// View renders the treemap
func (t TreemapPanel) View() string {
	if len(t.blocks) == 0 {
		return TreemapPanelStyle.Width(t.width - 2).Height(t.height - 2).Render("No data")
	}

	_, contentH := t.contentSize()

	// Render each block completely using lipgloss, then composite line by line
	type renderedBlock struct {
		block Block
		lines []string
	}

	rendered := make([]renderedBlock, 0, len(t.blocks))
	for _, block := range t.blocks {
		if block.Width < 1 || block.Height < 1 {
			continue
		}
		lines := strings.Split(t.renderBlock(block), "\n")
		rendered = append(rendered, renderedBlock{block, lines})
	}

	type blockSegment struct {
		x     int
		width int
		line  string
	}

	outputLines := make([]string, 0, contentH)
	for y := 0; y < contentH; y++ {
		var segments []blockSegment
		for _, rb := range rendered {
			lineIdx := y - rb.block.Y
			if lineIdx >= 0 && lineIdx < len(rb.lines) && lineIdx < rb.block.Height {
				segments = append(segments, blockSegment{
					x:     rb.block.X,
					width: rb.block.Width,
					line:  rb.lines[lineIdx],
				})
			}
		}

		sort.Slice(segments, func(i, j int) bool {
			return segments[i].x < segments[j].x
		})

		var lineBuilder strings.Builder
		currentX := 0
		for _, seg := range segments {
			if seg.x > currentX {
				lineBuilder.WriteString(strings.Repeat(" ", seg.x-currentX))
			}
			lineBuilder.WriteString(seg.line)
			currentX = seg.x + seg.width
		}
		outputLines = append(outputLines, lineBuilder.String())
	}

	style := lipgloss.NewStyle().Height(t.height).MaxHeight(t.height)
	return style.Render(strings.Join(outputLines, "\n"))
}

// renderBlock renders a complete block using lipgloss and returns the styled string
func (t TreemapPanel) renderBlock(block Block) string {
	// Border color indicates type, no background fill
	var fgColor, borderColor lipgloss.Color
	switch {
	case block.IsGrouped:
		fgColor = lipgloss.Color("#6B7280")
		borderColor = lipgloss.Color("#4B5563")
	case block.Entry.IsFolder():
		fgColor = ColorDir
		borderColor = ColorDir
	default:
		fgColor = ColorFile
		borderColor = lipgloss.Color("#6B7280")
	}

	isSelected := !block.IsGrouped && block.Entry.Name == t.selected
	if isSelected && t.focused {
		fgColor = lipgloss.Color("#FFFFFF")
		borderColor = ColorPrimary
	} else if isSelected {
		// Dimmer selection when unfocused
		fgColor = lipgloss.Color("#E0E0E0")
		borderColor = lipgloss.Color("#9D7CD8")
	}

	var label, sizeStr string
	if block.IsGrouped {
		label = fmt.Sprintf("%d more", block.GroupCount)
		sizeStr = FormatSize(block.GroupSize)
	} else {
		label = block.Entry.Name
		sizeStr = FormatSize(block.Entry.Size)
	}

	// Inner dimensions (excluding border)
	innerW := max(block.Width-2, 0)
	innerH := max(block.Height-2, 0)

	text := truncate(label, max(innerW, 1))
	if innerH > 1 {
		text += "\n" + sizeStr
	}

	blockStyle := lipgloss.NewStyle().
		Width(innerW).
		Height(innerH).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Foreground(fgColor)

	if isSelected {
		blockStyle = blockStyle.Bold(true)
	}

	return blockStyle.Render(text)
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
