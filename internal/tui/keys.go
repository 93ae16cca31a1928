package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab    key.Binding
	Interview  key.Binding
	Resume     key.Binding
	Research   key.Binding
	Focus      key.Binding
	FocusBack  key.Binding
	Submit     key.Binding
	Record     key.Binding
	End        key.Binding
	Download   key.Binding
	Open       key.Binding
	Close      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextTab:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "next tab")),
		Interview:  key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "interview")),
		Resume:     key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "resume")),
		Research:   key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "research")),
		Focus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		FocusBack:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Submit:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Record:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "record")),
		End:        key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "end interview")),
		Download:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "save resume")),
		Open:       key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open saved")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}
