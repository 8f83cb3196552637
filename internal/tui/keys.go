package tui

import "github.com/charmbracelet/bubbles/key"

// idleKeyMap is shown while the file picker is open
type idleKeyMap struct {
	Navigate key.Binding
	Open     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func (k idleKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Navigate, k.Open, k.Back, k.Quit}
}

func (k idleKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// loadingKeyMap is shown while an analysis runs
type loadingKeyMap struct {
	Cancel key.Binding
	Quit   key.Binding
}

func (k loadingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.Quit}
}

func (k loadingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// resultKeyMap is shown on the report card
type resultKeyMap struct {
	Scroll  key.Binding
	Share   key.Binding
	Product key.Binding
	Again   key.Binding
	Quit    key.Binding
}

func (k resultKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Share, k.Product, k.Again, k.Quit}
}

func (k resultKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// errorKeyMap is shown on the error screen
type errorKeyMap struct {
	Retry key.Binding
	Again key.Binding
	Quit  key.Binding
}

func (k errorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Again, k.Quit}
}

func (k errorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type keyMaps struct {
	idle    idleKeyMap
	loading loadingKeyMap
	result  resultKeyMap
	error   errorKeyMap
}

func newKeyMaps() keyMaps {
	quit := key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	)

	return keyMaps{
		idle: idleKeyMap{
			Navigate: key.NewBinding(
				key.WithKeys("up", "down", "k", "j"),
				key.WithHelp("↑/↓", "navigate"),
			),
			Open: key.NewBinding(
				key.WithKeys("enter", "right", "l"),
				key.WithHelp("enter", "open/select"),
			),
			Back: key.NewBinding(
				key.WithKeys("left", "h", "backspace"),
				key.WithHelp("←", "parent dir"),
			),
			Quit: quit,
		},
		loading: loadingKeyMap{
			Cancel: key.NewBinding(
				key.WithKeys("esc", "x"),
				key.WithHelp("esc", "cancel"),
			),
			Quit: quit,
		},
		result: resultKeyMap{
			Scroll: key.NewBinding(
				key.WithKeys("up", "down", "k", "j", "pgup", "pgdown"),
				key.WithHelp("↑/↓", "scroll"),
			),
			Share: key.NewBinding(
				key.WithKeys("s"),
				key.WithHelp("s", "copy share text"),
			),
			Product: key.NewBinding(
				key.WithKeys("p"),
				key.WithHelp("p", "copy product link"),
			),
			Again: key.NewBinding(
				key.WithKeys("n", "esc"),
				key.WithHelp("n", "new photo"),
			),
			Quit: quit,
		},
		error: errorKeyMap{
			Retry: key.NewBinding(
				key.WithKeys("r", "enter"),
				key.WithHelp("r", "retry"),
			),
			Again: key.NewBinding(
				key.WithKeys("n", "esc"),
				key.WithHelp("n", "new photo"),
			),
			Quit: quit,
		},
	}
}
