package sandbox_tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/mattsolo1/grove-core/tui/keymap"
)

type KeyMap struct {
	keymap.Base
	Increment       key.Binding
	Decrement       key.Binding
	ToggleHuman     key.Binding
	Start           key.Binding
	Submit          key.Binding
	Newline         key.Binding
	NewConversation key.Binding
	PageUp          key.Binding
	PageDown        key.Binding
	ForceQuit       key.Binding
}

func NewKeyMap() KeyMap {
	return KeyMap{
		Base: keymap.NewBase(),
		Increment: key.NewBinding(
			key.WithKeys("+", "=", "right", "l"),
			key.WithHelp("+/→", "more characters"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-", "left", "h"),
			key.WithHelp("-/←", "fewer characters"),
		),
		ToggleHuman: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle user participation"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start conversation"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue conversation"),
		),
		// Most terminals report shift+enter as a plain enter.
		Newline: key.NewBinding(
			key.WithKeys("shift+enter", "alt+enter", "ctrl+j"),
			key.WithHelp("alt+enter/ctrl+j", "new line"),
		),
		NewConversation: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new conversation"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup/ctrl+u", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn/ctrl+d", "scroll down"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			key.NewBinding(key.WithKeys(""), key.WithHelp("", "Setup")),
			k.Increment,
			k.Decrement,
			k.ToggleHuman,
			k.Start,
		},
		{
			key.NewBinding(key.WithKeys(""), key.WithHelp("", "Conversation")),
			k.Submit,
			k.Newline,
			k.PageUp,
			k.PageDown,
			k.NewConversation,
		},
		{
			key.NewBinding(key.WithKeys(""), key.WithHelp("", "General")),
			k.Help,
			k.ForceQuit,
		},
	}
}
