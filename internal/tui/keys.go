package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/digitdrill/internal/drill"
)

type keyMap struct {
	Submit  key.Binding
	Confirm key.Binding
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Pick    key.Binding
	Paste   key.Binding
	Reset   key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "yes"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/↓", "date"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pick date"),
		),
		Pick: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7"),
			key.WithHelp("alt+1-7", "pick date"),
		),
		Paste: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "paste"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k keyMap) helpFor(phase drill.Phase) []key.Binding {
	if phase == drill.PhaseConfirming {
		return []key.Binding{k.Confirm, k.Quit}
	}
	return []key.Binding{k.Submit, k.Up, k.Select, k.Reset, k.Quit}
}
