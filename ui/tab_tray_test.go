package ui

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/kastheco/tabtray/tabs"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	zone.NewGlobal()
	os.Exit(m.Run())
}

var trayNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func rec(id string) tabs.TabRecord {
	return tabs.TabRecord{ID: id, Title: "Tab " + id, URL: "https://" + id + ".example.com/page", LastAccessed: trayNow}
}

func staleRec(id string) tabs.TabRecord {
	r := rec(id)
	r.State = tabs.TabInactive
	r.LastAccessed = trayNow.Add(-21 * 24 * time.Hour)
	return r
}

func snapshot(active []string, inactive []string, expanded bool) tabs.PanelSnapshot {
	s := tabs.PanelSnapshot{InactiveSectionExpanded: expanded}
	for _, id := range active {
		s.Active = append(s.Active, rec(id))
	}
	for _, id := range inactive {
		s.Inactive = append(s.Inactive, staleRec(id))
	}
	return s
}

func newTestTray(t *testing.T, s tabs.PanelSnapshot) *TabTray {
	t.Helper()
	tray := NewTabTray()
	tray.setClock(func() time.Time { return trayNow })
	tray.SetSize(60, 30)
	tray.Apply(tabs.BuildPlan(s), tabs.Diff{})
	return tray
}

func rowIDs(tray *TabTray) []string {
	var out []string
	for _, row := range tray.displayRows() {
		if row.Kind == trayRowInactiveHeader {
			out = append(out, "#header")
			continue
		}
		out = append(out, row.Identity.ID)
	}
	return out
}

func activeID(id string) tabs.Identity { return tabs.Identity{Kind: tabs.ItemActiveTab, ID: id} }

func TestTabTray_CollapsedSectionShowsHeaderOnly(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a", "b"}, []string{"x"}, false))
	assert.Equal(t, []string{"#header", "a", "b"}, rowIDs(tray))

	tray.Apply(tabs.BuildPlan(snapshot([]string{"a", "b"}, []string{"x"}, true)), tabs.Diff{})
	assert.Equal(t, []string{"#header", "x", "a", "b"}, rowIDs(tray))
}

func TestTabTray_HiddenSectionHasNoHeader(t *testing.T) {
	s := snapshot([]string{"a"}, []string{"x"}, true)
	s.IsPrivateBrowsing = true
	tray := newTestTray(t, s)
	assert.Equal(t, []string{"a"}, rowIDs(tray))
}

func TestTabTray_SelectionFollowsIdentity(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a", "b", "c"}, nil, false))
	require.True(t, tray.SelectIdentity(activeID("b")))

	tray.Apply(tabs.BuildPlan(snapshot([]string{"c", "a", "b"}, nil, false)), tabs.Diff{})
	_, id, ok := tray.SelectedTab()
	require.True(t, ok)
	assert.Equal(t, "b", id.ID)
	assert.Equal(t, 2, tray.GetSelectedIdx())
}

func TestTabTray_SelectionClampsWhenTabCloses(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a", "b", "c"}, nil, false))
	tray.SelectIdentity(activeID("c"))

	tray.Apply(tabs.BuildPlan(snapshot([]string{"a", "b"}, nil, false)), tabs.Diff{})
	assert.Equal(t, 1, tray.GetSelectedIdx())
}

func TestTabTray_ScrollInstructionSelectsTarget(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a", "b", "c"}, []string{"x"}, false))
	plan := tabs.BuildPlan(snapshot([]string{"a", "b", "c"}, []string{"x"}, false))

	tray.Apply(plan, tabs.Diff{Scroll: &tabs.ScrollInstruction{Section: 1, Index: 2, Identity: activeID("c")}})
	_, id, ok := tray.SelectedTab()
	require.True(t, ok)
	assert.Equal(t, "c", id.ID)
}

func TestTabTray_HeaderSelectionSurvivesToggle(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a"}, []string{"x", "y"}, false))
	tray.ClickItem(0)
	require.True(t, tray.IsHeaderSelected())

	tray.Apply(tabs.BuildPlan(snapshot([]string{"a"}, []string{"x", "y"}, true)), tabs.Diff{})
	assert.True(t, tray.IsHeaderSelected())
}

func TestTabTray_DragPreviewAndDrop(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a", "b", "c", "d"}, []string{"x"}, false))
	tray.SelectIdentity(activeID("a"))

	require.True(t, tray.BeginDrag())
	tray.Down()
	tray.Down()
	assert.Equal(t, []string{"#header", "b", "c", "a", "d"}, rowIDs(tray))

	id, from, to, ok := tray.EndDrag()
	require.True(t, ok)
	assert.Equal(t, activeID("a"), id)
	assert.Equal(t, 0, from)
	assert.Equal(t, 2, to)

	tray.Apply(tabs.BuildPlan(snapshot([]string{"b", "c", "a", "d"}, []string{"x"}, false)), tabs.Diff{})
	_, sel, _ := tray.SelectedTab()
	assert.Equal(t, "a", sel.ID, "dropped tab stays selected")
}

func TestTabTray_DragClampsToActiveSection(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a", "b"}, nil, false))
	tray.SelectIdentity(activeID("b"))
	require.True(t, tray.BeginDrag())

	tray.DragBy(5)
	_, _, to, _ := tray.EndDrag()
	assert.Equal(t, 1, to)
}

func TestTabTray_CannotDragInactiveOrHeader(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a"}, []string{"x"}, true))
	tray.ClickItem(0)
	assert.False(t, tray.BeginDrag())
	tray.ClickItem(1)
	assert.False(t, tray.BeginDrag())
}

func TestTabTray_CancelDragRestoresSelection(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a", "b", "c"}, nil, false))
	tray.SelectIdentity(activeID("a"))
	require.True(t, tray.BeginDrag())
	tray.DragBy(2)

	tray.CancelDrag()
	assert.False(t, tray.IsDragging())
	assert.Equal(t, []string{"a", "b", "c"}, rowIDs(tray))
	_, sel, _ := tray.SelectedTab()
	assert.Equal(t, "a", sel.ID)
}

func TestTabTray_SearchMatchesTyposAndURLs(t *testing.T) {
	s := tabs.PanelSnapshot{Active: []tabs.TabRecord{
		{ID: "gh", Title: "GitHub pull requests", URL: "https://github.com/pulls"},
		{ID: "docs", Title: "Go documentation", URL: "https://go.dev/doc"},
	}}
	tray := newTestTray(t, s)
	tray.ActivateSearch()

	tray.SetSearchQuery("githib")
	assert.Equal(t, []string{"gh"}, rowIDs(tray))

	tray.SetSearchQuery("go.dev")
	assert.Equal(t, []string{"docs"}, rowIDs(tray))

	tray.SetSearchQuery("zz")
	assert.Empty(t, rowIDs(tray))
	assert.Contains(t, tray.String(), "no matching tabs")

	tray.DeactivateSearch()
	assert.Equal(t, []string{"gh", "docs"}, rowIDs(tray))
}

func TestTabTray_SearchIncludesCollapsedInactiveTabs(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a"}, []string{"x"}, false))
	tray.ActivateSearch()
	tray.SetSearchQuery("x.example")
	assert.Equal(t, []string{"x"}, rowIDs(tray))
}

func TestTabTray_FlashesInsertedRows(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a"}, nil, false))
	prev := tray.Plan()
	next := tabs.BuildPlan(snapshot([]string{"a", "b"}, nil, false))
	diff := tabs.ComputeDiff(prev, next)
	diff.Animated = true

	tray.Apply(next, diff)
	assert.True(t, tray.Animating())

	for i := 0; i < 600 && tray.AnimationFrame(); i++ {
	}
	assert.False(t, tray.Animating(), "flash settles")
}

func TestTabTray_FlashesUpdatedRows(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a", "b"}, nil, false))
	s := snapshot([]string{"a", "b"}, nil, false)
	s.Active[1].Title = "renamed"
	next := tabs.BuildPlan(s)
	diff := tabs.ComputeDiff(tray.Plan(), next)
	diff.Animated = true
	require.Equal(t, 1, diff.Count(tabs.OpUpdate))

	tray.Apply(next, diff)
	assert.True(t, tray.Animating())
	assert.Contains(t, tray.flashes, tabs.Identity{Kind: tabs.ItemActiveTab, ID: "b"})
	assert.NotContains(t, tray.flashes, tabs.Identity{Kind: tabs.ItemActiveTab, ID: "a"})
}

func TestTabTray_NoFlashWithoutAnimation(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a"}, nil, false))
	next := tabs.BuildPlan(snapshot([]string{"a", "b"}, nil, false))
	diff := tabs.ComputeDiff(tray.Plan(), next)

	tray.Apply(next, diff)
	assert.False(t, tray.Animating())
}

func TestTabTray_String(t *testing.T) {
	tray := newTestTray(t, snapshot([]string{"a"}, []string{"x", "y"}, false))
	out := tray.String()
	assert.Contains(t, out, "tabs")
	assert.Contains(t, out, "1 tab · 2 tabs inactive")
	assert.Contains(t, out, "inactive tabs")
	assert.Contains(t, out, "Tab a")
	assert.NotContains(t, out, "Tab x", "collapsed rows are not drawn")

	tray.SetPrivate(true)
	assert.Contains(t, tray.String(), "private tabs")
}

func TestTabTray_EmptyState(t *testing.T) {
	tray := newTestTray(t, tabs.PanelSnapshot{})
	assert.Contains(t, tray.String(), "no tabs open")
}

func TestRenderTabRow(t *testing.T) {
	long := rec("a")
	long.Title = strings.Repeat("very long title ", 10)

	line := renderTabRow(long, rowOpts{width: 40, now: trayNow})
	assert.LessOrEqual(t, runewidth.StringWidth(line), 40)
	assert.Contains(t, line, "…")
	assert.Contains(t, line, "a.example.com")

	stale := staleRec("x")
	line = renderTabRow(stale, rowOpts{width: 50, inactive: true, now: trayNow})
	assert.Contains(t, line, "weeks ago")
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "example.com", hostOf("https://www.example.com/a?b=c"))
	assert.Equal(t, "about:blank", hostOf("about:blank"))
}

func TestRenderInactiveHeader(t *testing.T) {
	line := renderInactiveHeader(3, false, false, 60)
	assert.Contains(t, line, "▸ inactive tabs")
	assert.Contains(t, line, "3")
	assert.Contains(t, line, "close all")

	assert.Contains(t, renderInactiveHeader(3, true, false, 60), "▾ inactive tabs")
	assert.NotContains(t, renderInactiveHeader(3, false, false, 24), "close all", "no room")
}
