package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/foldersize/internal/model"
)

// DriveSelector displays a list of available drives for selection
type DriveSelector struct {
	drives   []model.Drive
	selected int
	visible  bool
	width    int
	height   int
}

// NewDriveSelector creates a new drive selector component
func NewDriveSelector(drives []model.Drive) DriveSelector {
	return DriveSelector{
		drives: drives,
	}
}

// SetSelected sets the currently highlighted drive
func (d *DriveSelector) SetSelected(idx int) {
	if idx >= 0 && idx < len(d.drives) {
		d.selected = idx
	}
}

// Selected returns the index of the currently highlighted drive
func (d DriveSelector) Selected() int {
	return d.selected
}

// SetVisible sets visibility of the selector
func (d *DriveSelector) SetVisible(visible bool) {
	d.visible = visible
}

// IsVisible returns whether the selector is visible
func (d DriveSelector) IsVisible() bool {
	return d.visible
}

// SetSize sets the dimensions for centering
func (d *DriveSelector) SetSize(w, h int) {
	d.width = w
	d.height = h
}

// MoveUp moves selection up
func (d *DriveSelector) MoveUp() {
	if d.selected > 0 {
		d.selected--
	}
}

// MoveDown moves selection down
func (d *DriveSelector) MoveDown() {
	if d.selected < len(d.drives)-1 {
		d.selected++
	}
}

// View renders the drive selector overlay
func (d DriveSelector) View() string {
	if !d.visible || len(d.drives) == 0 {
		return ""
	}

	normalStyle := lipgloss.NewStyle().
		Foreground(ColorText).
		PaddingLeft(1).
		PaddingRight(1)

	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(ColorPrimary).
		Bold(true).
		PaddingLeft(1).
		PaddingRight(1)

	hintStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	var content strings.Builder

	content.WriteString(OverlayTitle.Render("Select Drive"))
	content.WriteString("\n")

	for i, drive := range d.drives {
		line := fmt.Sprintf("%-14s %s free / %s (%.0f%% used)",
			drive.Letter,
			FormatSize(uint64(max(drive.FreeBytes, 0))),
			FormatSize(uint64(max(drive.TotalBytes, 0))),
			drive.UsedPercent())

		if i == d.selected {
			content.WriteString(selectedStyle.Render(line))
		} else {
			content.WriteString(normalStyle.Render(line))
		}
		content.WriteString("\n")
	}

	content.WriteString(hintStyle.Render("↑/↓ select  Enter confirm  Esc cancel"))

	box := OverlayBox.Render(content.String())

	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, box)
}
