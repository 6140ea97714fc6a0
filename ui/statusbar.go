package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// StatusBarData holds the contextual information displayed in the status bar.
type StatusBarData struct {
	Private  bool
	Active   int
	Inactive int
	// Expanded reports the inactive section state; ignored when Inactive is 0.
	Expanded bool
	Dragging bool
	Revision uint64
}

// StatusBar is the top status bar component.
type StatusBar struct {
	width int
	data  StatusBarData
}

func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

func (s *StatusBar) SetSize(width int) {
	s.width = width
}

func (s *StatusBar) SetData(data StatusBarData) {
	s.data = data
}

var statusBarStyle = lipgloss.NewStyle().
	Background(ColorSurface).
	Foreground(ColorText).
	Padding(0, 1)

var statusBarAppNameStyle = lipgloss.NewStyle().
	Foreground(ColorIris).
	Background(ColorSurface).
	Bold(true)

var statusBarSepStyle = lipgloss.NewStyle().
	Foreground(ColorOverlay).
	Background(ColorSurface)

var statusBarModeStyle = lipgloss.NewStyle().
	Foreground(ColorFoam).
	Background(ColorSurface)

var statusBarPrivateStyle = lipgloss.NewStyle().
	Foreground(ColorLove).
	Background(ColorSurface).
	Bold(true)

var statusBarCountStyle = lipgloss.NewStyle().
	Foreground(ColorText).
	Background(ColorSurface)

var statusBarSubtleStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle).
	Background(ColorSurface)

var statusBarDragStyle = lipgloss.NewStyle().
	Foreground(ColorGold).
	Background(ColorSurface)

const statusBarSep = " │ "

func (s *StatusBar) String() string {
	if s.width < 10 {
		return ""
	}

	parts := make([]string, 0, 5)
	parts = append(parts, statusBarAppNameStyle.Render("tabtray"))

	if s.data.Private {
		parts = append(parts, statusBarPrivateStyle.Render("private"))
	} else {
		parts = append(parts, statusBarModeStyle.Render("normal"))
	}

	counts := statusBarCountStyle.Render(humanize.Comma(int64(s.data.Active)) + " open")
	if s.data.Inactive > 0 {
		state := "collapsed"
		if s.data.Expanded {
			state = "expanded"
		}
		counts += statusBarSubtleStyle.Render(" · " + humanize.Comma(int64(s.data.Inactive)) + " inactive (" + state + ")")
	}
	parts = append(parts, counts)

	if s.data.Dragging {
		parts = append(parts, statusBarDragStyle.Render("⇅ moving"))
	}

	if s.data.Revision > 0 {
		parts = append(parts, statusBarSubtleStyle.Render("rev "+humanize.Comma(int64(s.data.Revision))))
	}

	sep := statusBarSepStyle.Render(statusBarSep)
	content := strings.Join(parts, sep)

	return statusBarStyle.Width(s.width).MaxHeight(1).Render(content)
}
