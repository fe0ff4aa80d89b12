package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	moveUp       key.Binding
	moveDown     key.Binding
	nextPage     key.Binding
	previousPage key.Binding

	open     key.Binding
	back     key.Binding
	openFile key.Binding

	toggleHelp key.Binding

	quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.open, k.back, k.toggleHelp, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveUp, k.moveDown, k.nextPage, k.previousPage},
		{k.open, k.back, k.openFile},
		{k.toggleHelp, k.quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		moveUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "move up in list"),
		),
		moveDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "move down in list"),
		),
		nextPage: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "next page"),
		),
		previousPage: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "previous page"),
		),
		open: key.NewBinding(
			key.WithKeys("enter", "right"),
			key.WithHelp("→", "open selected value"),
		),
		back: key.NewBinding(
			key.WithKeys("backspace", "left", "esc"),
			key.WithHelp("←", "go back"),
		),
		openFile: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open another file"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
