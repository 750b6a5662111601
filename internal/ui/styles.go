package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Colors - neon palette
var (
	ColorPrimary    = lipgloss.Color("#C084FC") // soft violet
	ColorSuccess    = lipgloss.Color("#39FF14") // neon green
	ColorWarning    = lipgloss.Color("#F5A623")
	ColorDanger     = lipgloss.Color("#FF5555") // red
	ColorMuted      = lipgloss.Color("#4A5568") // darker muted
	ColorBorder     = lipgloss.Color("#4A5568") // border
	ColorBackground = lipgloss.Color("#1F1F23") // dark background
	ColorCyan       = lipgloss.Color("#00FFFF") // neon cyan
	ColorDir        = lipgloss.Color("#00FFFF") // cyan for folders
	ColorFile       = lipgloss.Color("#A0A0A0") // dimmer for files
	ColorText       = lipgloss.Color("#E4E4E7") // default text

	// Change colors
	ColorGrew   = lipgloss.Color("#FCA5A5") // light red
	ColorShrunk = lipgloss.Color("#5EEAD4") // teal - freed space
	ColorNew    = lipgloss.Color("#FDE047") // yellow
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Background(ColorBackground).
			Padding(0, 1)

	DriveTabActive = lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1).
			Bold(true)

	DriveTabInactive = lipgloss.NewStyle().
				Background(lipgloss.Color("#3F3F46")).
				Foreground(lipgloss.Color("#A1A1AA")).
				Padding(0, 1)

	StatsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	PathStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	// Entry list
	ListPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ListHeaderStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Bold(true)

	ListItemSelected = lipgloss.NewStyle().
				Background(ColorPrimary).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	ListItemSelectedUnfocused = lipgloss.NewStyle().
					Background(lipgloss.Color("#4A5568")).
					Foreground(lipgloss.Color("#FFFFFF"))

	SizeBarStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// Treemap
	TreemapPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(0, 1)

	// Help bar - dimmer with bright key highlights
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3D4555")). // very dim
			Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(ColorCyan).
		Background(lipgloss.Color("#1E3A4C")). // subtle dark cyan bg
		Padding(0, 1)

	// Help overlay key style (no background for cleaner look)
	HelpOverlayKey = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Padding(0, 1)

	// Change indicators
	GrewStyle = lipgloss.NewStyle().
			Foreground(ColorGrew)

	ShrunkStyle = lipgloss.NewStyle().
			Foreground(ColorShrunk)

	NewBadge = lipgloss.NewStyle().
			Background(ColorNew).
			Foreground(lipgloss.Color("#000000")).
			Padding(0, 1).
			Bold(true)

	// Overlay boxes
	OverlayBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2).
			Background(ColorBackground)

	OverlayTitle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Padding(0, 1)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Padding(0, 1)
)

// FormatSize formats bytes to human readable string
func FormatSize(bytes uint64) string {
	return humanize.IBytes(bytes)
}

// FormatDelta formats a signed size change, e.g. "+1.2 MiB"
func FormatDelta(delta int64) string {
	if delta < 0 {
		return "-" + humanize.IBytes(uint64(-delta))
	}
	return "+" + humanize.IBytes(uint64(delta))
}

// FormatTime formats a time for display, using shorter format for current year
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Year() == time.Now().Year() {
		return t.Format("Jan 2 15:04")
	}
	return t.Format("Jan 2, 2006 15:04")
}
