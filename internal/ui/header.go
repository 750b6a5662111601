package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lumipallolabs/foldersize/internal/model"
)

const headerProgressBarWidth = 20 // Width of disk usage progress bar

// Header displays drive tabs, the current path and directory totals
type Header struct {
	drives   []model.Drive
	selected int
	width    int

	path      string
	result    *model.ScanResult
	fromCache bool
	scanning  bool
	status    string
}

// NewHeader creates a new header component
func NewHeader(drives []model.Drive) Header {
	return Header{
		drives:   drives,
		selected: -1,
	}
}

// SetSelected sets the selected drive index
func (h *Header) SetSelected(idx int) {
	h.selected = idx
}

// Selected returns the currently selected drive
func (h Header) Selected() *model.Drive {
	if h.selected < 0 || h.selected >= len(h.drives) {
		return nil
	}
	return &h.drives[h.selected]
}

// SetPath sets the directory shown
func (h *Header) SetPath(path string) {
	h.path = path
}

// SetResult sets the completed result whose totals are shown, nil to clear
func (h *Header) SetResult(result *model.ScanResult, fromCache bool) {
	h.result = result
	h.fromCache = fromCache
}

// SetScanning sets the scanning state
func (h *Header) SetScanning(scanning bool, status string) {
	h.scanning = scanning
	h.status = status
}

// SetWidth sets the header width
func (h *Header) SetWidth(w int) {
	h.width = w
}

// totals renders the directory totals and when they were computed
func (h Header) totals() string {
	if h.scanning {
		return lipgloss.NewStyle().Foreground(ColorCyan).Render(h.status)
	}
	if h.result == nil {
		return ""
	}

	text := fmt.Sprintf("%s · %s files · %s folders",
		FormatSize(h.result.TotalSize),
		humanize.Comma(int64(h.result.TotalFiles)),
		humanize.Comma(int64(h.result.TotalFolders)))
	stamp := "scanned " + humanize.Time(h.result.ComputedAt)
	if h.fromCache {
		stamp = "cached " + humanize.Time(h.result.ComputedAt)
	}
	return StatsStyle.Render(text) + lipgloss.NewStyle().Foreground(ColorMuted).Render("  "+stamp)
}

// driveUsage renders the selected drive's usage bar
func (h Header) driveUsage(compact bool) string {
	drive := h.Selected()
	if drive == nil || drive.TotalBytes <= 0 {
		return ""
	}
	used := uint64(max(drive.UsedBytes(), 0))
	total := uint64(drive.TotalBytes)
	if compact {
		return StatsStyle.Render(fmt.Sprintf("%s / %s", FormatSize(used), FormatSize(total)))
	}

	usedPct := drive.UsedPercent()
	filled := int(usedPct / 100 * float64(headerProgressBarWidth))
	filled = min(max(filled, 0), headerProgressBarWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", headerProgressBarWidth-filled)
	return StatsStyle.Render(fmt.Sprintf("%s / %s  [%s] %.0f%%",
		FormatSize(used), FormatSize(total), bar, usedPct))
}

// View renders the header as two lines: drives and usage, then path and totals
func (h Header) View() string {
	appName := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Render("FOLDERSIZE")

	var tabs []string
	for i, d := range h.drives {
		label := d.Letter
		if label == "" {
			label = d.Label
		}
		if i == h.selected {
			tabs = append(tabs, DriveTabActive.Render(label))
		} else {
			tabs = append(tabs, DriveTabInactive.Render(label))
		}
	}
	driveTabs := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	sep := lipgloss.NewStyle().Foreground(ColorBorder).Render(" │ ")
	left := appName + sep + driveTabs

	// For narrow terminals, progressively drop the usage bar
	usage := h.driveUsage(false)
	if lipgloss.Width(left)+lipgloss.Width(usage)+2 > h.width {
		usage = h.driveUsage(true)
	}
	if lipgloss.Width(left)+lipgloss.Width(usage)+2 > h.width {
		usage = ""
	}
	gap := max(h.width-lipgloss.Width(left)-lipgloss.Width(usage)-2, 1)
	top := HeaderStyle.MaxHeight(1).Width(h.width).Render(left + strings.Repeat(" ", gap) + usage)

	totals := h.totals()
	pathWidth := max(h.width-lipgloss.Width(totals)-4, 8)
	path := PathStyle.Render(truncateLeft(h.path, pathWidth))
	gap = max(h.width-lipgloss.Width(path)-lipgloss.Width(totals)-2, 1)
	bottom := lipgloss.NewStyle().Padding(0, 1).MaxHeight(1).Render(path + strings.Repeat(" ", gap) + totals)

	return top + "\n" + bottom
}

// truncateLeft keeps the end of s, which for paths is the informative part
func truncateLeft(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > n {
		runes = runes[1:]
	}
	return "…" + string(runes)
}
