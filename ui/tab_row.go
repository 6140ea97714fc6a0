package ui

import (
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/kastheco/tabtray/tabs"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
)

var (
	rowTitleStyle    = lipgloss.NewStyle().Foreground(ColorText)
	rowInactiveStyle = lipgloss.NewStyle().Foreground(ColorSubtle)
	rowHostStyle     = lipgloss.NewStyle().Foreground(ColorPine)
	rowAgeStyle      = lipgloss.NewStyle().Foreground(ColorMuted)
	rowCurrentStyle  = lipgloss.NewStyle().Foreground(ColorFoam).Bold(true)
	rowSelectedStyle = lipgloss.NewStyle().Background(ColorOverlay)
	rowFlashStyle    = lipgloss.NewStyle().Foreground(ColorGold)
	rowDragStyle     = lipgloss.NewStyle().Foreground(ColorIris).Bold(true)
	headerStyle      = lipgloss.NewStyle().Foreground(ColorRose).Bold(true)
	headerCountStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	headerCloseStyle = lipgloss.NewStyle().Foreground(ColorLove)
)

// rowOpts carries per-row render state that does not live on the record.
type rowOpts struct {
	width    int
	selected bool
	flashing bool
	dragging bool
	inactive bool
	now      time.Time
}

// hostOf returns the host part of raw, or raw itself when it does not parse
// as an absolute URL.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// renderTabRow renders one tab as a single line of exactly opts.width cells:
// marker, title, host, and for inactive tabs the time since last visit.
func renderTabRow(t tabs.TabRecord, opts rowOpts) string {
	marker := "  "
	switch {
	case opts.dragging:
		marker = "≡ "
	case opts.selected:
		marker = "▸ "
	}
	current := "  "
	if t.Selected {
		current = rowCurrentStyle.Render("●") + " "
	}

	right := hostOf(t.URL)
	if opts.inactive && !t.LastAccessed.IsZero() {
		right = humanize.RelTime(t.LastAccessed, opts.now, "ago", "from now")
	}

	title := t.Title
	if title == "" {
		title = t.URL
	}

	avail := opts.width - runewidth.StringWidth(marker) - 2
	rightWidth := runewidth.StringWidth(right)
	if rightWidth > avail/2 {
		right = runewidth.Truncate(right, avail/2, "…")
		rightWidth = runewidth.StringWidth(right)
	}
	titleAvail := avail - rightWidth - 1
	if titleAvail < 1 {
		titleAvail = 1
	}
	if runewidth.StringWidth(title) > titleAvail {
		title = runewidth.Truncate(title, titleAvail, "…")
	}
	gap := avail - runewidth.StringWidth(title) - rightWidth
	if gap < 1 {
		gap = 1
	}

	titleStyle := rowTitleStyle
	switch {
	case opts.dragging:
		titleStyle = rowDragStyle
	case opts.flashing:
		titleStyle = rowFlashStyle
	case opts.inactive:
		titleStyle = rowInactiveStyle
	}
	rightStyle := rowHostStyle
	if opts.inactive {
		rightStyle = rowAgeStyle
	}

	line := marker + current + titleStyle.Render(title) + strings.Repeat(" ", gap) + rightStyle.Render(right)
	if opts.selected || opts.dragging {
		return rowSelectedStyle.Width(opts.width).Render(line)
	}
	return line
}

// renderInactiveHeader renders the collapsible inactive section header. A
// close-all button is drawn at the right edge when there is room.
func renderInactiveHeader(count int, expanded, selected bool, width int) string {
	arrow := "▸"
	if expanded {
		arrow = "▾"
	}
	marker := "  "
	if selected {
		marker = "▸ "
	}
	label := headerStyle.Render(arrow+" inactive tabs") + " " + headerCountStyle.Render(humanize.Comma(int64(count)))
	line := marker + label
	const closeLabel = "✕ close all"
	if gap := width - lipgloss.Width(line) - runewidth.StringWidth(closeLabel); count > 0 && gap >= 2 {
		line += strings.Repeat(" ", gap) + zone.Mark(ZoneCloseInactive, headerCloseStyle.Render(closeLabel))
	}
	if selected {
		return rowSelectedStyle.Width(width).Render(line)
	}
	return line
}
