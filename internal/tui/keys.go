package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/theakshaypant/opscal/internal/core"
)

// KeyMap defines the keybindings for the TUI
type KeyMap struct {
	Month      key.Binding
	Week       key.Binding
	Day        key.Binding
	Agenda     key.Binding
	Prev       key.Binding
	Next       key.Binding
	Today      key.Binding
	Up         key.Binding
	Down       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Open       key.Binding
	Join       key.Binding
	Refresh    key.Binding
	Quit       key.Binding
	Help       key.Binding
	// Filters toggles core.AllEventTypes() by position (keys 1..5).
	Filters []key.Binding
}

var DefaultKeyMap = KeyMap{
	Month:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "month")),
	Week:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "week")),
	Day:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "day")),
	Agenda:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "agenda")),
	Prev:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous")),
	Next:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next")),
	Today:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
	ScrollUp:   key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "scroll up")),
	ScrollDown: key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "scroll down")),
	Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open details")),
	Join:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "join meeting")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Filters:    filterBindings(core.AllEventTypes()),
}

func filterBindings(types []core.EventType) []key.Binding {
	bindings := make([]key.Binding, len(types))
	for i, t := range types {
		k := string(rune('1' + i))
		bindings[i] = key.NewBinding(key.WithKeys(k), key.WithHelp(k, "toggle "+string(t)))
	}
	return bindings
}
