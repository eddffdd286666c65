package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the board.
type KeyMap struct {
	ToggleTheme   key.Binding
	ToggleDisplay key.Binding

	// Active only while the Display panel is open.
	NextField  key.Binding
	ClosePanel key.Binding

	// Change the focused panel value, or scroll columns when the panel is closed.
	Left  key.Binding
	Right key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	ToggleTheme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	ToggleDisplay: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "display"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("Tab", "next field"),
	),
	ClosePanel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "close"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "right"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
