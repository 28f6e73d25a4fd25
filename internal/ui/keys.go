package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the workspace monitor.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	// Actions against the selected window.
	DockLeft  key.Binding
	DockRight key.Binding
	Undock    key.Binding
	Maximize  key.Binding
	Restore   key.Binding
	Close     key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set, vim-style movement alongside
// the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	DockLeft: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "dock left"),
	),
	DockRight: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "dock right"),
	),
	Undock: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undock"),
	),
	Maximize: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "maximize"),
	),
	Restore: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "restore"),
	),
	Close: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "close"),
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

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.DockLeft, k.DockRight, k.Undock, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.DockLeft, k.DockRight, k.Undock},
		{k.Maximize, k.Restore, k.Close},
		{k.Help, k.Quit},
	}
}
