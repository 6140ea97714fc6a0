package ui

import (
	"strings"

	"github.com/kastheco/tabtray/keys"

	"github.com/charmbracelet/lipgloss"
)

var keyStyle = lipgloss.NewStyle().Foreground(ColorSubtle)

var descStyle = lipgloss.NewStyle().Foreground(ColorMuted)

var sepStyle = lipgloss.NewStyle().Foreground(ColorOverlay)

var actionGroupStyle = lipgloss.NewStyle().Foreground(ColorRose)

var separator = " • "
var verticalSeparator = " │ "

var menuStyle = lipgloss.NewStyle().
	Foreground(ColorFoam)

// MenuState represents different states the menu can be in
type MenuState int

const (
	StateDefault MenuState = iota
	StateEmpty
	// StateHeader is shown while the inactive section header is selected.
	StateHeader
	StateDragging
	StateSearch
	StateNewTab
)

type Menu struct {
	options       []keys.KeyName
	height, width int
	state         MenuState

	// headerAction labels KeySpaceToggle ("expand" or "collapse").
	headerAction string

	// keyDown is the key which is pressed. The default is -1.
	keyDown keys.KeyName

	// groups are [start, end) ranges; the middle group is the action group.
	groups [][2]int
}

func NewMenu() *Menu {
	m := &Menu{
		state:        StateEmpty,
		keyDown:      -1,
		headerAction: "toggle",
	}
	m.updateOptions()
	return m
}

func (m *Menu) Keydown(name keys.KeyName) {
	m.keyDown = name
}

func (m *Menu) ClearKeydown() {
	m.keyDown = -1
}

func (m *Menu) State() MenuState { return m.state }

// SetState updates the menu state and options accordingly
func (m *Menu) SetState(state MenuState) {
	m.state = state
	m.updateOptions()
}

// SetHeaderAction sets the space-key label for the inactive section.
func (m *Menu) SetHeaderAction(action string) {
	switch action {
	case "expand", "collapse":
		m.headerAction = action
	default:
		m.headerAction = "toggle"
	}
}

func (m *Menu) updateOptions() {
	var tabGroup, actionGroup, systemGroup []keys.KeyName
	switch m.state {
	case StateEmpty:
		tabGroup = []keys.KeyName{keys.KeyNew}
		systemGroup = []keys.KeyName{keys.KeyPrivate, keys.KeyHelp, keys.KeyQuit}
	case StateHeader:
		tabGroup = []keys.KeyName{keys.KeyNew, keys.KeyCloseInactive}
		actionGroup = []keys.KeyName{keys.KeySpaceToggle}
		systemGroup = []keys.KeyName{keys.KeySearch, keys.KeyPrivate, keys.KeyHelp, keys.KeyQuit}
	case StateDragging:
		actionGroup = []keys.KeyName{keys.KeyUp, keys.KeyDown, keys.KeyGrab, keys.KeyEscape}
	case StateSearch:
		actionGroup = []keys.KeyName{keys.KeySubmit, keys.KeyEscape}
	case StateNewTab:
		actionGroup = []keys.KeyName{keys.KeySubmit, keys.KeyEscape}
	default:
		tabGroup = []keys.KeyName{keys.KeyNew, keys.KeyClose}
		actionGroup = []keys.KeyName{keys.KeyEnter, keys.KeyGrab, keys.KeyMoveUp, keys.KeyCopyURL, keys.KeyDetail}
		systemGroup = []keys.KeyName{keys.KeySearch, keys.KeyPrivate, keys.KeyHelp, keys.KeyQuit}
	}

	m.options = m.options[:0]
	m.groups = m.groups[:0]
	for _, g := range [][]keys.KeyName{tabGroup, actionGroup, systemGroup} {
		start := len(m.options)
		m.options = append(m.options, g...)
		m.groups = append(m.groups, [2]int{start, len(m.options)})
	}
}

// SetSize sets the width of the window. The menu will be centered horizontally within this width.
func (m *Menu) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Menu) String() string {
	var s strings.Builder

	action := m.groups[1]
	for i, k := range m.options {
		binding := keys.GlobalkeyBindings[k]
		help := binding.Help()
		helpKey := help.Key
		helpDesc := help.Desc
		if k == keys.KeySpaceToggle {
			helpDesc = m.headerAction
		}

		var (
			localActionStyle = actionGroupStyle
			localKeyStyle    = keyStyle
			localDescStyle   = descStyle
		)
		if m.keyDown == k {
			localActionStyle = localActionStyle.Underline(true)
			localKeyStyle = localKeyStyle.Underline(true)
			localDescStyle = localDescStyle.Underline(true)
		}

		if i >= action[0] && i < action[1] {
			s.WriteString(localActionStyle.Render(helpKey + " " + helpDesc))
		} else {
			s.WriteString(localKeyStyle.Render(helpKey))
			s.WriteString(descStyle.Render(" "))
			s.WriteString(localDescStyle.Render(helpDesc))
		}

		if i == len(m.options)-1 {
			continue
		}
		isGroupEnd := false
		for _, g := range m.groups {
			if g[1] > g[0] && i == g[1]-1 {
				isGroupEnd = true
				break
			}
		}
		if isGroupEnd {
			s.WriteString(sepStyle.Render(verticalSeparator))
		} else {
			s.WriteString(sepStyle.Render(separator))
		}
	}

	centeredMenuText := menuStyle.Render(s.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, centeredMenuText)
}
