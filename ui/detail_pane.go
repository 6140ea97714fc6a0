package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/kastheco/tabtray/tabs"
	zone "github.com/lrstanley/bubblezone"
)

// DetailPane shows the selected tab as rendered markdown.
type DetailPane struct {
	viewport viewport.Model
	width    int
	height   int
	visible  bool

	tab    tabs.TabRecord
	hasTab bool

	// renderer is rebuilt when the wrap width changes.
	renderer      *glamour.TermRenderer
	rendererWidth int

	now func() time.Time
}

func NewDetailPane() *DetailPane {
	return &DetailPane{
		viewport: viewport.New(0, 0),
		now:      time.Now,
	}
}

func (p *DetailPane) Visible() bool { return p.visible }

func (p *DetailPane) ToggleVisible() { p.visible = !p.visible }

func (p *DetailPane) SetSize(w, h int) {
	p.width, p.height = w, h
	p.viewport.Width = w - 2
	p.viewport.Height = h - 2
	p.refresh()
}

// SetTab shows t. Passing ok=false clears the pane.
func (p *DetailPane) SetTab(t tabs.TabRecord, ok bool) {
	if ok == p.hasTab && t == p.tab {
		return
	}
	p.tab, p.hasTab = t, ok
	p.refresh()
	p.viewport.GotoTop()
}

func (p *DetailPane) ScrollDown(n int) { p.viewport.LineDown(n) }
func (p *DetailPane) ScrollUp(n int)   { p.viewport.LineUp(n) }

func (p *DetailPane) refresh() {
	if !p.hasTab {
		p.viewport.SetContent(trayEmptyStyle.Render("no tab selected"))
		return
	}
	md := tabMarkdown(p.tab, p.now())
	rendered, err := p.render(md)
	if err != nil {
		rendered = md
	}
	p.viewport.SetContent(strings.TrimRight(rendered, "\n"))
}

func (p *DetailPane) render(md string) (string, error) {
	wrap := p.width - 4
	if wrap < 20 {
		wrap = 20
	}
	if p.renderer == nil || p.rendererWidth != wrap {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrap),
			glamour.WithColorProfile(lipgloss.ColorProfile()),
		)
		if err != nil {
			return "", fmt.Errorf("could not create markdown renderer: %w", err)
		}
		p.renderer, p.rendererWidth = r, wrap
	}
	return p.renderer.Render(md)
}

// tabMarkdown describes a tab for the detail pane.
func tabMarkdown(t tabs.TabRecord, now time.Time) string {
	title := t.Title
	if title == "" {
		title = t.URL
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	fmt.Fprintf(&b, "`%s`\n\n", t.URL)
	fmt.Fprintf(&b, "- **state**: %s\n", t.State)
	if !t.LastAccessed.IsZero() {
		fmt.Fprintf(&b, "- **visited**: %s\n", humanize.RelTime(t.LastAccessed, now, "ago", "from now"))
	}
	fmt.Fprintf(&b, "- **position**: %d\n", t.Position+1)
	if t.Selected {
		b.WriteString("- **current tab**\n")
	}
	return b.String()
}

func (p *DetailPane) String() string {
	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorOverlay)
	return zone.Mark(ZoneDetailPane, border.Width(p.width-2).Height(p.height-2).Render(p.viewport.View()))
}
