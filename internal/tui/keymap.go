package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	NextCategory key.Binding
	PrevCategory key.Binding
	Aggregation  key.Binding
	Shared       key.Binding
	Temporal     key.Binding
	Comparison   key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	ToggleHelp   key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextCategory: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous category"),
		),
		Aggregation: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "count/sum"),
		),
		Shared: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shared mode"),
		),
		Temporal: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "day/week/month"),
		),
		Comparison: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "year comparison"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevCategory, k.NextCategory, k.Aggregation, k.Shared, k.Temporal, k.ToggleHelp, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevCategory, k.NextCategory},
		{k.Aggregation, k.Shared, k.Temporal, k.Comparison},
		{k.ScrollUp, k.ScrollDown},
		{k.ToggleHelp, k.Quit},
	}
}
