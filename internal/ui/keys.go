package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all application key bindings
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Tab      key.Binding

	// Actions
	Enter  key.Binding
	Escape key.Binding
	Quit   key.Binding
	Help   key.Binding

	// Screens
	Search    key.Binding
	Bookmarks key.Binding
	Settings  key.Binding
	Continue  key.Binding

	// Reader specific
	NextChapter key.Binding
	PrevChapter key.Binding
	Bookmark    key.Binding
	Play        key.Binding
	Stop        key.Binding
	FontUp      key.Binding
	FontDown    key.Binding
	Language    key.Binding
	Retry       key.Binding

	Theme key.Binding
}

// DefaultKeyMap returns the default vim-like key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/^u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/^d", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home/g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End/G", "bottom"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "surahs/juz"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "open"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit/back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Bookmarks: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bookmarks (home)"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings (home)"),
		),
		Continue: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "continue reading"),
		),
		NextChapter: key.NewBinding(
			key.WithKeys("n", "l"),
			key.WithHelp("n/l", "next surah or juz"),
		),
		PrevChapter: key.NewBinding(
			key.WithKeys("p", "h"),
			key.WithHelp("p/h", "prev surah or juz"),
		),
		Bookmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle bookmark"),
		),
		Play: key.NewBinding(
			key.WithKeys(" ", "a"),
			key.WithHelp("space/a", "play/pause recitation"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop recitation"),
		),
		FontUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "larger text"),
		),
		FontDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "smaller text"),
		),
		Language: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "toggle language"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry/refresh"),
		),
		Theme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "toggle dark mode (home)"),
		),
	}
}

// helpSections groups bindings for the help overlay
func (k KeyMap) helpSections() []helpSection {
	return []helpSection{
		{"Navigation", []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End, k.Tab, k.Enter}},
		{"Reader", []key.Binding{k.NextChapter, k.PrevChapter, k.Bookmark, k.Play, k.Stop, k.FontUp, k.FontDown, k.Language, k.Retry}},
		{"Screens", []key.Binding{k.Search, k.Bookmarks, k.Settings, k.Continue, k.Theme}},
		{"General", []key.Binding{k.Quit, k.Escape, k.Help}},
	}
}

type helpSection struct {
	title    string
	bindings []key.Binding
}
