package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/kastheco/tabtray/config/auditlog"
	"github.com/muesli/reflow/wordwrap"
)

// AuditEventDisplay is a pre-formatted event for rendering in the audit pane.
type AuditEventDisplay struct {
	Time    string         // formatted as "HH:MM"
	Kind    string         // event kind string (e.g. "tab_moved")
	Icon    string         // single-char icon
	Message string         // human-readable message
	Color   lipgloss.Color // icon color
	Level   string         // "info", "warn", "error"
}

// NewAuditEventDisplay formats a stored audit event for the pane.
func NewAuditEventDisplay(e auditlog.Event) AuditEventDisplay {
	icon, color := EventKindIcon(e.Kind)
	if e.Level == "error" {
		color = ColorLove
	}
	return AuditEventDisplay{
		Time:    e.Timestamp.Local().Format("15:04"),
		Kind:    e.Kind.String(),
		Icon:    icon,
		Message: e.Message,
		Color:   color,
		Level:   e.Level,
	}
}

// AuditPane renders a scrollable list of recent panel events below the tray.
type AuditPane struct {
	events      []AuditEventDisplay
	viewport    viewport.Model
	width       int
	height      int
	visible     bool
	filterLabel string
}

// NewAuditPane creates a new AuditPane (visible by default).
func NewAuditPane() *AuditPane {
	vp := viewport.New(0, 0)
	return &AuditPane{
		visible:  true,
		viewport: vp,
	}
}

// SetSize updates the pane dimensions and rebuilds the viewport content.
func (p *AuditPane) SetSize(w, h int) {
	p.width = w
	// Reserve 1 line for the header.
	bodyH := h - 1
	if bodyH < 0 {
		bodyH = 0
	}
	p.height = h
	p.viewport.Width = w
	p.viewport.Height = bodyH
	p.viewport.SetContent(p.renderBody())
}

// Height returns the total pane height including the header.
func (p *AuditPane) Height() int {
	return p.height
}

// SetEvents replaces the event list and refreshes the viewport.
func (p *AuditPane) SetEvents(events []AuditEventDisplay) {
	p.events = events
	p.viewport.SetContent(p.renderBody())
	p.viewport.GotoTop()
}

// SetFilter updates the filter label shown in the header.
func (p *AuditPane) SetFilter(label string) {
	p.filterLabel = label
}

func (p *AuditPane) ScrollDown(n int) {
	p.viewport.LineDown(n)
}

func (p *AuditPane) ScrollUp(n int) {
	p.viewport.LineUp(n)
}

func (p *AuditPane) Visible() bool {
	return p.visible
}

func (p *AuditPane) ToggleVisible() {
	p.visible = !p.visible
}

var (
	auditHeaderStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	auditTimeStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	auditMsgStyle    = lipgloss.NewStyle().Foreground(ColorText)
	auditWarnStyle   = lipgloss.NewStyle().Foreground(ColorGold)
	auditErrorStyle  = lipgloss.NewStyle().Foreground(ColorLove)
	auditEmptyStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
)

// String renders the audit pane: a 1-line header + scrollable body.
func (p *AuditPane) String() string {
	header := p.renderHeader()
	body := p.viewport.View()
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (p *AuditPane) renderHeader() string {
	left := "── log ──"
	right := p.filterLabel
	if right == "" {
		right = "all"
	}

	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	gap := p.width - leftW - rightW
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return auditHeaderStyle.Render(line)
}

// auditIndent is the width of the "HH:MM i " prefix; wrapped message lines
// are indented to line up under the first.
const auditIndent = 8

func (p *AuditPane) renderBody() string {
	if len(p.events) == 0 {
		return auditEmptyStyle.Render("· no events")
	}

	msgWidth := p.width - auditIndent
	if msgWidth < 10 {
		msgWidth = 10
	}
	pad := strings.Repeat(" ", auditIndent)

	lines := make([]string, 0, len(p.events))
	for _, e := range p.events {
		msgStyle := auditMsgStyle
		switch e.Level {
		case "warn":
			msgStyle = auditWarnStyle
		case "error":
			msgStyle = auditErrorStyle
		}
		icon := lipgloss.NewStyle().Foreground(e.Color).Render(e.Icon)
		wrapped := strings.Split(wordwrap.String(e.Message, msgWidth), "\n")
		lines = append(lines, auditTimeStyle.Render(e.Time)+" "+icon+" "+msgStyle.Render(wrapped[0]))
		for _, cont := range wrapped[1:] {
			lines = append(lines, pad+msgStyle.Render(cont))
		}
	}
	return strings.Join(lines, "\n")
}

// EventKindIcon returns the icon and color for an audit event kind.
func EventKindIcon(kind auditlog.EventKind) (icon string, color lipgloss.Color) {
	switch kind {
	case auditlog.EventTabOpened:
		return "+", ColorFoam
	case auditlog.EventTabClosed:
		return "✕", ColorRose
	case auditlog.EventTabMoved:
		return "⇅", ColorIris
	case auditlog.EventTabSelected:
		return "●", ColorFoam
	case auditlog.EventInactiveClosed:
		return "✕", ColorGold
	case auditlog.EventSectionToggled:
		return "▾", ColorSubtle
	case auditlog.EventPrivateModeChanged:
		return "◐", ColorIris
	case auditlog.EventPanelReset:
		return "⟳", ColorGold
	case auditlog.EventError:
		return "!", ColorLove
	default:
		return "·", ColorMuted
	}
}
