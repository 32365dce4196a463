package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Enter    key.Binding

	// Filters
	NextKind       key.Binding
	PrevKind       key.Binding
	KindAll        key.Binding
	KindImage      key.Binding
	KindVideo      key.Binding
	KindAudio      key.Binding
	KindDocument   key.Binding
	ExcludeScanned key.Binding

	// Actions
	GoTo            key.Binding
	Find            key.Binding
	FindNext        key.Binding
	History         key.Binding
	Bookmark        key.Binding
	Open            key.Binding
	Retry           key.Binding
	ToggleInspector key.Binding
	Quit            key.Binding
	Help            key.Binding
	Escape          key.Binding

	// Lightbox
	Prev      key.Binding
	Next      key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Rotate    key.Binding
	PanUp     key.Binding
	PanDown   key.Binding
	PanLeft   key.Binding
	PanRight  key.Binding
	ResetView key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("Home", "first loaded"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last loaded"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "view"),
		),

		// Filters
		NextKind: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next kind"),
		),
		PrevKind: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous kind"),
		),
		KindAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all"),
		),
		KindImage: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "images"),
		),
		KindVideo: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "videos"),
		),
		KindAudio: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "audio"),
		),
		KindDocument: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "documents"),
		),
		ExcludeScanned: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "hide scans"),
		),

		// Actions
		GoTo: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to ID"),
		),
		Find: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find loaded"),
		),
		FindNext: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		History: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "history"),
		),
		Bookmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bookmark"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open file"),
		),
		Retry: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "retry"),
		),
		ToggleInspector: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle inspector"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),

		// Lightbox
		Prev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rotate"),
		),
		PanUp: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "pan up"),
		),
		PanDown: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "pan down"),
		),
		PanLeft: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "pan left"),
		),
		PanRight: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "pan right"),
		),
		ResetView: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset view"),
		),
	}
}

// ShortHelp implements help.KeyMap for the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextKind, k.GoTo, k.Find, k.Enter, k.Help}
}

// FullHelp implements help.KeyMap for the help screen
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End, k.Enter},
		{k.NextKind, k.KindAll, k.KindImage, k.KindVideo, k.KindAudio, k.KindDocument, k.ExcludeScanned},
		{k.GoTo, k.Find, k.FindNext, k.History, k.Bookmark, k.Open, k.Retry, k.ToggleInspector, k.Quit},
	}
}

// LightboxKeys is the help view shown inside the lightbox
type LightboxKeys struct{ KeyMap }

func (k LightboxKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.ZoomIn, k.ZoomOut, k.Rotate, k.ResetView, k.Escape}
}

func (k LightboxKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.ShortHelp(),
		{k.PanUp, k.PanDown, k.PanLeft, k.PanRight, k.Bookmark, k.Open},
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
