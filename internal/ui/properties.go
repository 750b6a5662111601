package ui

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/lumipallolabs/foldersize/internal/model"
)

// Properties describes one entry for the properties overlay
type Properties struct {
	Entry    model.Entry
	Path     string
	MIME     string
	Ext      string
	Modified time.Time
	Created  time.Time
	Mode     os.FileMode
	Err      error
}

// LoadProperties stats the entry called e.Name inside dir and, for files,
// detects its content type
func LoadProperties(dir string, e model.Entry) Properties {
	p := Properties{Entry: e, Path: filepath.Join(dir, e.Name)}

	info, err := os.Lstat(p.Path)
	if err != nil {
		p.Err = err
		return p
	}
	p.Modified = info.ModTime()
	p.Created = getCreationTime(info)
	p.Mode = info.Mode()

	if !e.IsFolder() && info.Mode().IsRegular() {
		if mtype, err := mimetype.DetectFile(p.Path); err == nil {
			p.MIME = mtype.String()
			p.Ext = mtype.Extension()
		}
	}
	return p
}

// TypeName returns a short label such as "Folder" or "PNG file"
func (p Properties) TypeName() string {
	if p.Entry.IsFolder() {
		return "Folder"
	}
	if p.Mode&os.ModeSymlink != 0 {
		return "Symbolic link"
	}
	if p.Ext == "" {
		return "File"
	}
	return strings.ToUpper(strings.TrimPrefix(p.Ext, ".")) + " file"
}

// PropertiesOverlay shows the properties of the selected entry
type PropertiesOverlay struct {
	props   Properties
	visible bool
	width   int
	height  int
}

// Show displays p
func (o *PropertiesOverlay) Show(p Properties) {
	o.props = p
	o.visible = true
}

// Hide closes the overlay
func (o *PropertiesOverlay) Hide() {
	o.visible = false
}

// IsVisible returns whether the overlay is visible
func (o PropertiesOverlay) IsVisible() bool {
	return o.visible
}

// SetSize sets the dimensions for centering
func (o *PropertiesOverlay) SetSize(w, h int) {
	o.width = w
	o.height = h
}

// View renders the overlay
func (o PropertiesOverlay) View() string {
	if !o.visible {
		return ""
	}

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Width(helpKeyColumnWidth)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	pathStyle := lipgloss.NewStyle().Foreground(ColorCyan)

	p := o.props
	e := p.Entry
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	lines := []string{
		OverlayTitle.Render(e.Name),
		row("Type", p.TypeName()),
	}
	if p.MIME != "" {
		lines = append(lines, row("MIME", p.MIME))
	}
	lines = append(lines, row("Size", FormatSize(e.Size)+" ("+humanize.Comma(int64(e.Size))+" bytes)"))
	if e.IsFolder() {
		lines = append(lines,
			row("Files", humanize.Comma(int64(e.Files))),
			row("Folders", humanize.Comma(int64(e.Folders))))
	}
	if p.Err != nil {
		lines = append(lines, ErrorStyle.UnsetPadding().Render(p.Err.Error()))
	} else {
		if created := FormatTime(p.Created); created != "" {
			lines = append(lines, row("Created", created))
		}
		lines = append(lines,
			row("Modified", FormatTime(p.Modified)),
			row("Permissions", p.Mode.String()))
	}
	lines = append(lines, "", labelStyle.Render("Path"), pathStyle.Render(p.Path))

	box := OverlayBox.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(o.width, o.height, lipgloss.Center, lipgloss.Center, box)
}
