package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/csheth/tabview/internal/deck"
)

type stage int

const (
	stageBrowse stage = iota
	stageGoto
)

const (
	dragFraction = 0.25
	gotoMaxMatch = 3
)

type deckLoadedMsg struct {
	Pages []deck.Page
	Err   error
}

type keyMap struct {
	DragLeft  key.Binding
	DragRight key.Binding
	Next      key.Binding
	Prev      key.Binding
	Jump      key.Binding
	Down      key.Binding
	Up        key.Binding
	Goto      key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		DragLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "swipe left"),
		),
		DragRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "swipe right"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump to tab"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Goto: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "go to tab"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload deck"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.DragLeft, k.DragRight, k.Next, k.Goto, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.DragLeft, k.DragRight, k.Next, k.Prev},
		{k.Jump, k.Goto, k.Down, k.Up},
		{k.Reload, k.Help, k.Quit},
	}
}
