package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up              key.Binding
	Down            key.Binding
	Add             key.Binding
	Toggle          key.Binding
	Delete          key.Binding
	Priority        key.Binding
	Filter          key.Binding
	FilterAll       key.Binding
	FilterActive    key.Binding
	FilterCompleted key.Binding
	Sort            key.Binding
	Grab            key.Binding
	MoveUp          key.Binding
	MoveDown        key.Binding
	Export          key.Binding
	Copy            key.Binding
	Cancel          key.Binding
	Help            key.Binding
	Quit            key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:              key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:            key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Add:             key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Toggle:          key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x/space", "complete/reopen")),
		Delete:          key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Priority:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "cycle priority")),
		Filter:          key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next filter")),
		FilterAll:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterActive:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		FilterCompleted: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		Sort:            key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next sort")),
		Grab:            key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grab/drop")),
		MoveUp:          key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		MoveDown:        key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		Export:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export view")),
		Copy:            key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy view")),
		Cancel:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:            key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "shortcuts")),
		Quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Priority, k.Filter, k.Sort, k.Grab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Toggle, k.Delete, k.Priority},
		{k.Filter, k.FilterAll, k.FilterActive, k.FilterCompleted, k.Sort},
		{k.Grab, k.MoveUp, k.MoveDown, k.Export, k.Copy, k.Help, k.Quit},
	}
}
