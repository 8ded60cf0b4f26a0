package tui

import "github.com/charmbracelet/bubbles/key"

// globalKeyMap is active on screens without a focused text input.
type globalKeyMap struct {
	Machines key.Binding
	Add      key.Binding
	Arp      key.Binding
	Theme    key.Binding
	Quit     key.Binding
}

func newGlobalKeyMap() globalKeyMap {
	return globalKeyMap{
		Machines: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "machines")),
		Add:      key.NewBinding(key.WithKeys("2", "a"), key.WithHelp("2/a", "add machine")),
		Arp:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "arp table")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// machinesKeyMap defines key bindings for the machines screen
type machinesKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Wake    key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Add     key.Binding
	Theme   key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k machinesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Wake, k.Delete, k.Refresh, k.Add, k.Theme, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k machinesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Wake, k.Delete},
		{k.Refresh, k.Add, k.Theme, k.Quit},
	}
}

func newMachinesKeyMap(g globalKeyMap) machinesKeyMap {
	return machinesKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Wake:    key.NewBinding(key.WithKeys("enter", "w"), key.WithHelp("enter/w", "wake")),
		Delete:  key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Add:     g.Add,
		Theme:   g.Theme,
		Quit:    g.Quit,
	}
}

// modalKeyMap is active while a confirmation dialog is shown
type modalKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k modalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k modalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

func newModalKeyMap() modalKeyMap {
	return modalKeyMap{
		Confirm: key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y/enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel")),
	}
}

// addKeyMap defines key bindings for the add machine form
type addKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k addKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k addKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev, k.Submit}, {k.Back, k.Quit}}
}

func newAddKeyMap() addKeyMap {
	return addKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous")),
		Submit: key.NewBinding(key.WithKeys("enter", "ctrl+s"), key.WithHelp("enter", "select/add")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "machines")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// arpKeyMap defines key bindings for the arp table screen
type arpKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Add   key.Binding
	Copy  key.Binding
	Theme key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k arpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Add, k.Copy, k.Theme, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k arpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Add, k.Copy}, {k.Theme, k.Quit}}
}

func newArpKeyMap(g globalKeyMap) arpKeyMap {
	return arpKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Copy:  key.NewBinding(key.WithKeys("y", "c"), key.WithHelp("y", "copy mac")),
		Theme: g.Theme,
		Quit:  g.Quit,
	}
}
