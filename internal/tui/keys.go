package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Open     key.Binding
	Back     key.Binding
	Focus    key.Binding
	Delete   key.Binding
	Play     key.Binding
	Stop     key.Binding
	MarkSura key.Binding
	MarkAyah key.Binding
	NextSura key.Binding
	PrevSura key.Binding
	Retry    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous verse")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next verse")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "bookmarks")),
		Delete:   key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete bookmark")),
		Play:     key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/stop")),
		Stop:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		MarkSura: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark chapter")),
		MarkAyah: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "bookmark verse")),
		NextSura: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next chapter")),
		PrevSura: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous chapter")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// forScreen lists the bindings shown in the help line of s.
func (k keyMap) forScreen(s screen) []key.Binding {
	switch s {
	case chapterDetail:
		return []key.Binding{k.Up, k.Down, k.Play, k.Stop, k.MarkSura, k.MarkAyah, k.Open, k.PrevSura, k.NextSura, k.Back, k.Quit}
	case verseDetail:
		return []key.Binding{k.Left, k.Right, k.Play, k.MarkAyah, k.Back, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.Open, k.Focus, k.Delete, k.Quit}
	}
}
