package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	Tab          key.Binding
	Enter        key.Binding
	Back         key.Binding
	Refresh      key.Binding
	Stop         key.Binding
	CycleSort    key.Binding
	Treemap      key.Binding
	SelectDrive  key.Binding
	OpenPath     key.Binding
	Properties   key.Binding
	OpenExplorer key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch panel"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open folder"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "parent folder"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x", "esc"),
			key.WithHelp("x", "stop scan"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort"),
		),
		Treemap: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle treemap"),
		),
		SelectDrive: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "drives"),
		),
		OpenPath: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "go to path"),
		),
		Properties: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "properties"),
		),
		OpenExplorer: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in file manager"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns a brief help string
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Back, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns all help bindings
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Top, k.Bottom, k.PageUp, k.PageDown, k.Tab},
		{k.Enter, k.Back, k.SelectDrive, k.OpenPath},
		{k.Refresh, k.Stop, k.CycleSort, k.Treemap},
		{k.Properties, k.OpenExplorer},
		{k.Help, k.Quit},
	}
}
