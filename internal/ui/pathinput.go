package ui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const pathInputWidth = 60

// PathInput is the "go to path" box
type PathInput struct {
	input   textinput.Model
	exists  func(string) bool
	err     string
	visible bool
	width   int
	height  int
}

// NewPathInput creates a path box that accepts only paths exists reports
func NewPathInput(exists func(string) bool) PathInput {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "/path/to/folder"
	ti.CharLimit = 4096
	ti.Width = pathInputWidth
	ti.PromptStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	ti.TextStyle = lipgloss.NewStyle().Foreground(ColorText)

	return PathInput{input: ti, exists: exists}
}

// Show opens the box prefilled with current
func (p *PathInput) Show(current string) tea.Cmd {
	p.visible = true
	p.err = ""
	p.input.SetValue(current)
	p.input.CursorEnd()
	return p.input.Focus()
}

// Hide closes the box
func (p *PathInput) Hide() {
	p.visible = false
	p.err = ""
	p.input.Blur()
}

// IsVisible returns whether the box is open
func (p PathInput) IsVisible() bool {
	return p.visible
}

// SetSize sets the dimensions for centering
func (p *PathInput) SetSize(w, h int) {
	p.width = w
	p.height = h
}

// Value returns the text as typed
func (p PathInput) Value() string {
	return p.input.Value()
}

// Submit resolves the typed path. It returns false and keeps the box open
// with an error when the path does not exist.
func (p *PathInput) Submit() (string, bool) {
	path := expandPath(p.input.Value())
	if path == "" {
		p.err = "enter a path"
		return "", false
	}
	if !p.exists(path) {
		p.err = "no such directory: " + path
		return "", false
	}
	p.Hide()
	return path, true
}

// SetError shows msg under the input
func (p *PathInput) SetError(msg string) {
	p.err = msg
}

// Update forwards key input to the text field
func (p *PathInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		p.err = ""
	}
	return cmd
}

// View renders the box
func (p PathInput) View() string {
	if !p.visible {
		return ""
	}

	hintStyle := lipgloss.NewStyle().Foreground(ColorMuted).MarginTop(1)

	lines := []string{
		OverlayTitle.Render("Go to path"),
		p.input.View(),
	}
	if p.err != "" {
		lines = append(lines, ErrorStyle.UnsetPadding().Render(p.err))
	}
	lines = append(lines, hintStyle.Render("Enter open  Esc cancel"))

	box := OverlayBox.Width(pathInputWidth + 6).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, box)
}

// expandPath expands a leading ~ and makes the path absolute
func expandPath(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if s == "~" || strings.HasPrefix(s, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			s = filepath.Join(home, strings.TrimPrefix(s, "~"))
		}
	}
	if abs, err := filepath.Abs(s); err == nil {
		return abs
	}
	return filepath.Clean(s)
}
