package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Open      key.Binding
	Leave     key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Open: key.NewBinding(
		key.WithKeys("enter", " ", "space"),
		key.WithHelp("enter", "open/close list"),
	),
	Leave: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "leave search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// shortHelp returns the bindings shown in the footer
func (k keyMap) shortHelp(searching bool) []key.Binding {
	if searching {
		return []key.Binding{k.Leave, k.ForceQuit}
	}
	return []key.Binding{k.Open, k.Help, k.Quit}
}
