// Package keymap holds the keybindings of every TUI view. Views match on
// key strings so the bindings double as the help text.
package keymap

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap groups bindings by purpose. Some keys are shared between
// views; esc is both Back and Deny.
type KeyMap struct {
	Quit, Help, Back key.Binding

	Up, Down, Select key.Binding

	// library
	Delete, Reload key.Binding

	// upload
	Submit, Clear key.Binding

	// chat: move focus between the question and the cited sources
	Focus key.Binding

	// delete confirmation
	Confirm, Deny key.Binding
}

func bind(label, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// DefaultKeyMap is vi-style navigation on top of the arrow keys.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: bind("q", "quit", "q", "ctrl+c"),
		Help: bind("?", "help", "?"),
		Back: bind("esc", "back", "esc"),

		Up:     bind("↑/k", "up", "up", "k"),
		Down:   bind("↓/j", "down", "down", "j"),
		Select: bind("enter", "select", "enter"),

		Delete: bind("d", "delete", "d", "delete"),
		Reload: bind("r", "reload", "r"),

		Submit: bind("ctrl+u", "upload", "ctrl+u"),
		Clear:  bind("ctrl+x", "clear", "ctrl+x"),

		Focus: bind("tab", "sources", "tab"),

		Confirm: bind("y", "yes", "y", "Y"),
		Deny:    bind("n", "no", "n", "N", "esc"),
	}
}

func (k *KeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Quit, k.Help} }

func (k *KeyMap) LibraryHelp() []key.Binding {
	return []key.Binding{k.Select, k.Delete, k.Reload, k.Back}
}

func (k *KeyMap) UploadHelp() []key.Binding {
	return []key.Binding{k.Select, k.Submit, k.Clear, k.Back}
}

func (k *KeyMap) ChatHelp() []key.Binding { return []key.Binding{k.Select, k.Focus, k.Back} }

// FullHelp is one column per view family, for the help screen.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.Delete, k.Reload},
		{k.Submit, k.Clear},
		{k.Focus},
		{k.Help, k.Quit},
	}
}

// Matches reports whether keyStr, as returned by tea.KeyMsg.String, is
// bound to binding.
func Matches(keyStr string, binding key.Binding) bool {
	return slices.Contains(binding.Keys(), keyStr)
}
