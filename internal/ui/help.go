package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpKeyColumnWidth = 12 // Width for key column in help text

// HelpOverlay displays keyboard shortcuts in a centered overlay
type HelpOverlay struct {
	visible bool
	width   int
	height  int
}

// NewHelpOverlay creates a new help overlay component
func NewHelpOverlay() HelpOverlay {
	return HelpOverlay{}
}

// Toggle toggles the visibility of the help overlay
func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

// SetVisible sets the visibility of the help overlay
func (h *HelpOverlay) SetVisible(visible bool) {
	h.visible = visible
}

// IsVisible returns whether the help overlay is visible
func (h HelpOverlay) IsVisible() bool {
	return h.visible
}

// SetSize sets the dimensions of the help overlay
func (h *HelpOverlay) SetSize(w, height int) {
	h.width = w
	h.height = height
}

// View renders the help overlay
func (h HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	sectionStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Bold(true).
		MarginTop(1)

	keyStyle := HelpOverlayKey
	descStyle := lipgloss.NewStyle().Foreground(ColorText)

	var content strings.Builder

	content.WriteString(OverlayTitle.Render("Keyboard Shortcuts"))
	content.WriteString("\n")

	content.WriteString(sectionStyle.Render("NAVIGATION"))
	content.WriteString("\n")
	content.WriteString(formatHelpLine(keyStyle, descStyle, "arrows/hjkl", "Move selection"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "PgUp/PgDn", "Scroll faster"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "g/G", "Jump to top/bottom"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "Tab", "Switch panel"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "Enter", "Open folder"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "⌫", "Parent folder"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "Space", "Select drive"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "/", "Go to path"))

	content.WriteString(sectionStyle.Render("SCANNING"))
	content.WriteString("\n")
	content.WriteString(formatHelpLine(keyStyle, descStyle, "r", "Refresh (rescan, show changes)"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "x/Esc", "Stop scan"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "s", "Cycle sort column"))

	content.WriteString(sectionStyle.Render("OTHER"))
	content.WriteString("\n")
	content.WriteString(formatHelpLine(keyStyle, descStyle, "t", "Toggle treemap"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "i", "Properties"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "o", "Open in file manager"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "?", "Toggle this help"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "q", "Quit"))

	content.WriteString(sectionStyle.Render("CHANGES AFTER REFRESH"))
	content.WriteString("\n")
	content.WriteString(formatColorLine(ColorNew, "New entry"))
	content.WriteString(formatColorLine(ColorGrew, "Size increased"))
	content.WriteString(strings.TrimSuffix(formatColorLine(ColorShrunk, "Size decreased or removed"), "\n"))

	box := OverlayBox.Render(content.String())

	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}

// formatHelpLine formats a single help line with key and description
func formatHelpLine(keyStyle, descStyle lipgloss.Style, key, desc string) string {
	return keyStyle.Width(helpKeyColumnWidth).Render(key) + descStyle.Render(desc) + "\n"
}

// formatColorLine formats a color indicator line
func formatColorLine(color lipgloss.Color, desc string) string {
	colorStyle := lipgloss.NewStyle().Foreground(color)
	descStyle := lipgloss.NewStyle().Foreground(ColorText)
	return colorStyle.Width(helpKeyColumnWidth).Render("████") + descStyle.Render(desc) + "\n"
}

// HelpBar renders a bottom help bar with key hints
func HelpBar(width int) string {
	hints := []struct {
		key  string
		desc string
	}{
		{"↑↓", "move"},
		{"Enter", "open"},
		{"⌫", "up"},
		{"r", "refresh"},
		{"x", "stop"},
		{"s", "sort"},
		{"/", "path"},
		{"?", "help"},
		{"q", "quit"},
	}

	var parts []string
	for _, hint := range hints {
		parts = append(parts, HelpKey.Render(hint.key)+HelpStyle.Render(hint.desc))
	}

	return HelpStyle.Width(width).MaxHeight(1).Render(strings.Join(parts, " "))
}
