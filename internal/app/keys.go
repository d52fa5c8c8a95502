package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/leafo/folioview/internal/config"
)

type keyMap struct {
	Load   key.Binding
	Export key.Binding
	Sample key.Binding
	Quit   key.Binding
	Scroll key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func newKeyMap(keys config.KeysConfig) keyMap {
	return keyMap{
		Load:   key.NewBinding(key.WithKeys(keys.Load), key.WithHelp(keys.Load, "load folder")),
		Export: key.NewBinding(key.WithKeys(keys.Export), key.WithHelp(keys.Export, "export zip")),
		Sample: key.NewBinding(key.WithKeys(keys.Sample), key.WithHelp(keys.Sample, "load sample")),
		Quit:   key.NewBinding(key.WithKeys(keys.Quit, "ctrl+c"), key.WithHelp(keys.Quit, "quit")),
		Scroll: key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑/↓", "scroll")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open folder")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Load, k.Export, k.Sample, k.Scroll, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// promptKeys is the help shown while the folder prompt has focus.
type promptKeys struct{ keyMap }

func (k promptKeys) ShortHelp() []key.Binding { return []key.Binding{k.Submit, k.Cancel} }

func (k promptKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
