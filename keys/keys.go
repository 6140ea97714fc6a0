package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

type KeyName int

const (
	KeyUp KeyName = iota
	KeyDown
	KeyEnter
	KeyNew
	KeyClose
	KeyCloseInactive
	KeyQuit
	KeyHelp
	KeySearch
	KeyCopyURL
	KeyPrivate
	KeyRefresh

	KeySpaceToggle // Space toggles the inactive section from anywhere in the tray

	// Reorder keybindings
	KeyMoveUp
	KeyMoveDown
	KeyGrab // Key for picking up the selected tab; a second press drops it

	KeyDetail // Key for toggling the detail pane

	// -- Special keybindings --

	KeyEscape
	KeySubmit
)

// GlobalKeyStringsMap is a global, immutable map string to keybinding.
var GlobalKeyStringsMap = map[string]KeyName{
	"up":         KeyUp,
	"k":          KeyUp,
	"down":       KeyDown,
	"j":          KeyDown,
	"enter":      KeyEnter,
	"o":          KeyEnter,
	"n":          KeyNew,
	"x":          KeyClose,
	"X":          KeyCloseInactive,
	"q":          KeyQuit,
	"?":          KeyHelp,
	"/":          KeySearch,
	"y":          KeyCopyURL,
	"p":          KeyPrivate,
	"r":          KeyRefresh,
	" ":          KeySpaceToggle,
	"shift+up":   KeyMoveUp,
	"K":          KeyMoveUp,
	"shift+down": KeyMoveDown,
	"J":          KeyMoveDown,
	"m":          KeyGrab,
	"v":          KeyDetail,
}

// GlobalkeyBindings is a global, immutable map of KeyName tot keybinding.
var GlobalkeyBindings = map[KeyName]key.Binding{
	KeyUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	KeyDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	KeyEnter: key.NewBinding(
		key.WithKeys("enter", "o"),
		key.WithHelp("↵/o", "select"),
	),
	KeyNew: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new tab"),
	),
	KeyClose: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "close"),
	),
	KeyCloseInactive: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "close inactive"),
	),
	KeyHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	KeyQuit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	KeySearch: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	KeyCopyURL: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy url"),
	),
	KeyPrivate: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "private"),
	),
	KeyRefresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	KeySpaceToggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle inactive"),
	),
	KeyMoveUp: key.NewBinding(
		key.WithKeys("shift+up", "K"),
		key.WithHelp("⇧↑/K", "move up"),
	),
	KeyMoveDown: key.NewBinding(
		key.WithKeys("shift+down", "J"),
		key.WithHelp("⇧↓/J", "move down"),
	),
	KeyGrab: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "grab/drop"),
	),
	KeyDetail: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "details"),
	),

	// -- Special keybindings --

	KeyEscape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	KeySubmit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
}
