package ui

import (
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/kastheco/tabtray/tabs"
	"github.com/stretchr/testify/assert"
)

func TestTabMarkdown(t *testing.T) {
	tab := tabs.TabRecord{
		ID:           "a",
		Title:        "Release notes",
		URL:          "https://go.dev/doc/devel/release",
		State:        tabs.TabInactive,
		LastAccessed: trayNow.Add(-3 * time.Hour),
		Position:     2,
		Selected:     true,
	}
	md := tabMarkdown(tab, trayNow)
	assert.Contains(t, md, "## Release notes")
	assert.Contains(t, md, "`https://go.dev/doc/devel/release`")
	assert.Contains(t, md, "**state**: inactive")
	assert.Contains(t, md, "3 hours ago")
	assert.Contains(t, md, "**position**: 3")
	assert.Contains(t, md, "current tab")
}

func TestTabMarkdown_UntitledUsesURL(t *testing.T) {
	md := tabMarkdown(tabs.TabRecord{URL: "about:blank"}, trayNow)
	assert.Contains(t, md, "## about:blank")
	assert.NotContains(t, md, "visited")
}

func TestDetailPane_RendersSelectedTab(t *testing.T) {
	p := NewDetailPane()
	p.now = func() time.Time { return trayNow }
	p.SetSize(60, 20)

	assert.Contains(t, ansi.Strip(p.String()), "no tab selected")

	p.SetTab(tabs.TabRecord{ID: "a", Title: "Release", URL: "https://go.dev", LastAccessed: trayNow}, true)
	out := ansi.Strip(p.String())
	assert.Contains(t, out, "Release")
	assert.Contains(t, out, "go.dev")
	assert.Contains(t, out, "active")

	p.SetTab(tabs.TabRecord{}, false)
	assert.Contains(t, ansi.Strip(p.String()), "no tab selected")
}

func TestDetailPane_RendererCachedPerWidth(t *testing.T) {
	p := NewDetailPane()
	p.SetSize(60, 20)
	p.SetTab(tabs.TabRecord{ID: "a", Title: "A", URL: "https://a.example"}, true)
	first := p.renderer

	p.SetSize(60, 30)
	assert.Same(t, first, p.renderer)

	p.SetSize(80, 30)
	assert.NotSame(t, first, p.renderer)
	assert.Equal(t, 76, p.rendererWidth)
}

func TestDetailPane_ToggleVisible(t *testing.T) {
	p := NewDetailPane()
	assert.False(t, p.Visible())
	p.ToggleVisible()
	assert.True(t, p.Visible())
}
