package ui

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/kastheco/tabtray/tabs"
	"github.com/kastheco/tabtray/tabs/sectionfsm"
	zone "github.com/lrstanley/bubblezone"
)

type trayRowKind int

const (
	trayRowInactiveHeader trayRowKind = iota
	trayRowInactiveTab
	trayRowActiveTab
)

type trayRow struct {
	Kind     trayRowKind
	Identity tabs.Identity
	Tab      tabs.TabRecord
	// Index is the item index within its section; -1 for headers.
	Index int
}

// flashFPS is the frame rate AnimationFrame is expected to be called at.
const flashFPS = 30

// flashThreshold is the spring position below which a flash is finished.
const flashThreshold = 0.02

type flash struct {
	pos, vel float64
}

// TabTray renders a tabs.RenderPlan as a scrollable list. Selection follows
// item identity across plan updates.
type TabTray struct {
	plan tabs.RenderPlan
	rows []trayRow

	selectedIdx  int
	scrollOffset int

	width, height int
	focused       bool
	animate       bool
	private       bool

	searchActive bool
	searchQuery  string

	// drag state; dragFrom and dragTo are active section indices
	dragging bool
	dragID   string
	dragFrom int
	dragTo   int

	// follow is selected by the next Apply regardless of its previous row.
	follow *tabs.Identity

	spring  harmonica.Spring
	flashes map[tabs.Identity]*flash

	now func() time.Time
}

func NewTabTray() *TabTray {
	return &TabTray{
		focused: true,
		animate: true,
		spring:  harmonica.NewSpring(harmonica.FPS(flashFPS), 6.0, 0.6),
		flashes: make(map[tabs.Identity]*flash),
		now:     time.Now,
	}
}

func (t *TabTray) SetSize(width, height int) {
	t.width, t.height = width, height
	t.clampScroll()
}
func (t *TabTray) SetFocused(focused bool)     { t.focused = focused }
func (t *TabTray) SetAnimate(animate bool)     { t.animate = animate }
func (t *TabTray) Plan() tabs.RenderPlan       { return t.plan }
func (t *TabTray) Rows() int                   { return len(t.rows) }
func (t *TabTray) GetSelectedIdx() int         { return t.selectedIdx }
func (t *TabTray) GetScrollOffset() int        { return t.scrollOffset }
func (t *TabTray) IsDragging() bool            { return t.dragging }
func (t *TabTray) IsSearchActive() bool        { return t.searchActive }
func (t *TabTray) GetSearchQuery() string      { return t.searchQuery }
func (t *TabTray) IsPrivate() bool             { return t.private }
func (t *TabTray) Animating() bool             { return len(t.flashes) > 0 }
func (t *TabTray) setClock(f func() time.Time) { t.now = f }

// Apply replaces the displayed plan. A scroll instruction in diff moves the
// selection to its target; otherwise the selection follows its identity.
// Inserted, updated and moved rows flash when diff is animated.
func (t *TabTray) Apply(plan tabs.RenderPlan, diff tabs.Diff) {
	prev, hadPrev := t.selectedRow()

	t.plan = plan
	t.rebuildRows()
	if t.dragging {
		t.resyncDrag()
	}

	switch {
	case t.follow != nil:
		if !t.SelectIdentity(*t.follow) {
			t.clampSelection()
		}
		t.follow = nil
	case t.dragging:
		t.DragTo(t.dragTo)
	case diff.Scroll != nil && !t.searchActive:
		t.SelectIdentity(diff.Scroll.Identity)
	case hadPrev && prev.Kind == trayRowInactiveHeader:
		t.selectHeader()
	case hadPrev:
		if !t.SelectIdentity(prev.Identity) {
			t.clampSelection()
		}
	default:
		t.clampSelection()
	}

	if !diff.Animated || !t.animate {
		return
	}
	for _, op := range diff.Items {
		switch op.Kind {
		case tabs.OpInsert, tabs.OpMove, tabs.OpUpdate:
			t.flashes[op.Identity] = &flash{pos: 1}
		}
	}
	if diff.TabAdded && diff.Scroll != nil {
		t.flashes[diff.Scroll.Identity] = &flash{pos: 1}
	}
}

// Follow makes the next Apply select id, e.g. a tab the user just moved.
func (t *TabTray) Follow(id tabs.Identity) { t.follow = &id }

// resyncDrag re-reads the dragged tab's position after a plan change. The
// drag is dropped when the tab left the active section.
func (t *TabTray) resyncDrag() {
	active, _ := t.plan.Section(tabs.SectionActiveTabs)
	for i, it := range active.Items {
		if it.Tab.ID == t.dragID {
			t.dragFrom = i
			return
		}
	}
	t.dragging = false
}

// SetPrivate marks the tray as showing private tabs. Only the title changes.
func (t *TabTray) SetPrivate(private bool) { t.private = private }

// AnimationFrame advances every row flash by one frame and drops finished
// ones. It reports whether any flash is still running.
func (t *TabTray) AnimationFrame() bool {
	for id, f := range t.flashes {
		f.pos, f.vel = t.spring.Update(f.pos, f.vel, 0)
		if f.pos < flashThreshold && f.vel > -flashThreshold && f.vel < flashThreshold {
			delete(t.flashes, id)
		}
	}
	return len(t.flashes) > 0
}

func (t *TabTray) rebuildRows() {
	t.rows = t.rows[:0]
	query := strings.ToLower(strings.TrimSpace(t.searchQuery))
	filtering := t.searchActive && query != ""

	if inactive, ok := t.plan.Section(tabs.SectionInactiveTabs); ok {
		items := inactive.VisibleItems()
		if filtering {
			items = inactive.Items
		} else {
			t.rows = append(t.rows, trayRow{Kind: trayRowInactiveHeader, Index: -1})
		}
		for i, it := range items {
			if filtering && !matchesQuery(it.Tab, query) {
				continue
			}
			t.rows = append(t.rows, trayRow{Kind: trayRowInactiveTab, Identity: it.Identity(), Tab: it.Tab, Index: i})
		}
	}
	if active, ok := t.plan.Section(tabs.SectionActiveTabs); ok {
		for i, it := range active.Items {
			if filtering && !matchesQuery(it.Tab, query) {
				continue
			}
			t.rows = append(t.rows, trayRow{Kind: trayRowActiveTab, Identity: it.Identity(), Tab: it.Tab, Index: i})
		}
	}
}

// matchesQuery reports whether a tab matches a lowercase search query. Titles
// and URLs match by substring; title words also match within a small edit
// distance so typos still find the tab.
func matchesQuery(tab tabs.TabRecord, query string) bool {
	title := strings.ToLower(tab.Title)
	if strings.Contains(title, query) || strings.Contains(strings.ToLower(tab.URL), query) {
		return true
	}
	qlen := utf8.RuneCountInString(query)
	if qlen < 3 {
		return false
	}
	maxDist := 1
	if qlen >= 8 {
		maxDist = 2
	}
	for _, word := range strings.Fields(title) {
		if levenshtein.ComputeDistance(word, query) <= maxDist {
			return true
		}
	}
	return false
}

func (t *TabTray) selectedRow() (trayRow, bool) {
	if t.selectedIdx < 0 || t.selectedIdx >= len(t.rows) {
		return trayRow{}, false
	}
	return t.rows[t.selectedIdx], true
}

// SelectedTab returns the tab under the cursor. Headers have no tab.
func (t *TabTray) SelectedTab() (tabs.TabRecord, tabs.Identity, bool) {
	row, ok := t.selectedRow()
	if !ok || row.Kind == trayRowInactiveHeader {
		return tabs.TabRecord{}, tabs.Identity{}, false
	}
	return row.Tab, row.Identity, true
}

// SelectedActiveIndex returns the active section index of the selected row.
func (t *TabTray) SelectedActiveIndex() (int, bool) {
	row, ok := t.selectedRow()
	if !ok || row.Kind != trayRowActiveTab {
		return -1, false
	}
	return row.Index, true
}

// IsHeaderSelected reports whether the inactive section header is selected.
func (t *TabTray) IsHeaderSelected() bool {
	row, ok := t.selectedRow()
	return ok && row.Kind == trayRowInactiveHeader
}

func (t *TabTray) SelectIdentity(id tabs.Identity) bool {
	for i, row := range t.rows {
		if row.Kind != trayRowInactiveHeader && row.Identity == id {
			t.selectedIdx = i
			t.clampScroll()
			return true
		}
	}
	return false
}

func (t *TabTray) selectHeader() {
	for i, row := range t.rows {
		if row.Kind == trayRowInactiveHeader {
			t.selectedIdx = i
			t.clampScroll()
			return
		}
	}
	t.clampSelection()
}

func (t *TabTray) clampSelection() {
	if t.selectedIdx >= len(t.rows) {
		t.selectedIdx = len(t.rows) - 1
	}
	if t.selectedIdx < 0 {
		t.selectedIdx = 0
	}
	t.clampScroll()
}

func (t *TabTray) Up() {
	if t.dragging {
		t.DragBy(-1)
		return
	}
	if t.selectedIdx > 0 {
		t.selectedIdx--
		t.clampScroll()
	}
}

func (t *TabTray) Down() {
	if t.dragging {
		t.DragBy(1)
		return
	}
	if t.selectedIdx+1 < len(t.rows) {
		t.selectedIdx++
		t.clampScroll()
	}
}

// ClickItem selects the row at rows-slice index row.
func (t *TabTray) ClickItem(row int) {
	if row >= 0 && row < len(t.rows) {
		t.selectedIdx = row
		t.clampScroll()
	}
}

// ActiveIndexAt returns the active section index of the row at rows-slice
// index row, if that row is an active tab.
func (t *TabTray) ActiveIndexAt(row int) (int, bool) {
	if row < 0 || row >= len(t.rows) || t.rows[row].Kind != trayRowActiveTab {
		return -1, false
	}
	return t.rows[row].Index, true
}

func (t *TabTray) ActivateSearch() {
	t.CancelDrag()
	t.searchActive = true
	t.searchQuery = ""
	t.rebuildRows()
	t.clampSelection()
}

func (t *TabTray) DeactivateSearch() {
	prev, ok := t.selectedRow()
	t.searchActive = false
	t.searchQuery = ""
	t.rebuildRows()
	if !ok || !t.SelectIdentity(prev.Identity) {
		t.clampSelection()
	}
}

func (t *TabTray) SetSearchQuery(q string) {
	t.searchQuery = q
	t.rebuildRows()
	t.selectedIdx = 0
	t.clampScroll()
}

// BeginDrag picks up the selected active tab. It reports false when the
// selection is not an active tab or a search filter is applied.
func (t *TabTray) BeginDrag() bool {
	if t.searchActive {
		return false
	}
	row, ok := t.selectedRow()
	if !ok || row.Kind != trayRowActiveTab {
		return false
	}
	t.dragging = true
	t.dragID = row.Identity.ID
	t.dragFrom = row.Index
	t.dragTo = row.Index
	return true
}

// DragBy moves the drag target by delta rows within the active section.
func (t *TabTray) DragBy(delta int) {
	t.DragTo(t.dragTo + delta)
}

// DragTo sets the drag target to an active section index, clamped.
func (t *TabTray) DragTo(index int) {
	if !t.dragging {
		return
	}
	n := t.plan.ActiveCount()
	if index >= n {
		index = n - 1
	}
	if index < 0 {
		index = 0
	}
	t.dragTo = index
	if row := t.activeRowOffset() + index; row < len(t.rows) {
		t.selectedIdx = row
		t.clampScroll()
	}
}

// EndDrag drops the dragged tab and returns the move the user made.
func (t *TabTray) EndDrag() (id tabs.Identity, from, to int, ok bool) {
	if !t.dragging {
		return tabs.Identity{}, 0, 0, false
	}
	t.dragging = false
	id = tabs.Identity{Kind: tabs.ItemActiveTab, ID: t.dragID}
	t.Follow(id)
	return id, t.dragFrom, t.dragTo, true
}

// CancelDrag abandons a drag. The selection returns to the dragged tab.
func (t *TabTray) CancelDrag() {
	if !t.dragging {
		return
	}
	t.dragging = false
	t.SelectIdentity(tabs.Identity{Kind: tabs.ItemActiveTab, ID: t.dragID})
}

// activeRowOffset is the rows-slice index of the first active tab row.
func (t *TabTray) activeRowOffset() int {
	for i, row := range t.rows {
		if row.Kind == trayRowActiveTab {
			return i
		}
	}
	return len(t.rows)
}

// displayRows returns the rows in display order. While dragging, the dragged
// tab is shown at its drop position.
func (t *TabTray) displayRows() []trayRow {
	if !t.dragging || t.dragFrom == t.dragTo {
		return t.rows
	}
	offset := t.activeRowOffset()
	out := make([]trayRow, 0, len(t.rows))
	out = append(out, t.rows[:offset]...)
	active := append([]trayRow(nil), t.rows[offset:]...)
	if t.dragFrom >= len(active) || t.dragTo >= len(active) {
		return t.rows
	}
	moved := active[t.dragFrom]
	active = append(active[:t.dragFrom], active[t.dragFrom+1:]...)
	active = append(active[:t.dragTo], append([]trayRow{moved}, active[t.dragTo:]...)...)
	return append(out, active...)
}

func (t *TabTray) availRows() int {
	avail := t.height - 6
	if t.searchActive {
		avail -= 3
	}
	if avail < 1 {
		return 1
	}
	return avail
}

func (t *TabTray) clampScroll() {
	if len(t.rows) == 0 {
		t.scrollOffset = 0
		return
	}
	avail := t.availRows()
	if t.selectedIdx < t.scrollOffset {
		t.scrollOffset = t.selectedIdx
	}
	if t.selectedIdx >= t.scrollOffset+avail {
		t.scrollOffset = t.selectedIdx - avail + 1
	}
	if t.scrollOffset < 0 {
		t.scrollOffset = 0
	}
}

var trayEmptyStyle = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)

func (t *TabTray) String() string {
	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorOverlay).Padding(0, 1)
	if t.focused {
		border = border.BorderForeground(ColorIris)
	}
	innerWidth := t.width - 4
	if innerWidth < 12 {
		innerWidth = 12
	}
	height := t.height - 2
	if height < 4 {
		height = 4
	}

	title := "tabs"
	start, end := GradientStart, GradientEnd
	if t.private {
		title = "private tabs"
		start, end = PrivateGradientStart, PrivateGradientEnd
	}
	header := GradientText(title, start, end) + " " + headerCountStyle.Render(countLabel(t.plan))

	var search string
	if t.searchActive {
		q := t.searchQuery
		if q == "" {
			q = " "
		}
		search = zone.Mark(ZoneTraySearch, lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorOverlay).Padding(0, 1).Width(innerWidth-4).Render(q)) + "\n"
	}

	rows := t.displayRows()
	now := t.now()
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		selected := i == t.selectedIdx && t.focused
		var line string
		switch row.Kind {
		case trayRowInactiveHeader:
			inactive, _ := t.plan.Section(tabs.SectionInactiveTabs)
			line = zone.Mark(ZoneInactiveHeader, renderInactiveHeader(len(inactive.Items), inactive.State == sectionfsm.StateExpanded, selected, innerWidth))
		default:
			_, flashing := t.flashes[row.Identity]
			line = renderTabRow(row.Tab, rowOpts{
				width:    innerWidth,
				selected: selected,
				flashing: flashing,
				dragging: t.dragging && row.Kind == trayRowActiveTab && row.Identity.ID == t.dragID,
				inactive: row.Kind == trayRowInactiveTab,
				now:      now,
			})
		}
		lines = append(lines, zone.Mark(TrayRowZoneID(i), line))
	}

	first := t.scrollOffset
	if first > len(lines) {
		first = len(lines)
	}
	last := first + t.availRows()
	if last > len(lines) {
		last = len(lines)
	}
	body := strings.Join(lines[first:last], "\n")
	if len(lines) == 0 {
		msg := "no tabs open"
		if t.searchActive {
			msg = "no matching tabs"
		}
		body = trayEmptyStyle.Render(msg)
	}

	content := header + "\n\n" + search + body
	return zone.Mark(ZoneTray, border.Width(innerWidth).Height(height).Render(content))
}

func countLabel(plan tabs.RenderPlan) string {
	active := plan.ActiveCount()
	inactive, _ := plan.Section(tabs.SectionInactiveTabs)
	if len(inactive.Items) == 0 {
		return pluralTabs(active)
	}
	return pluralTabs(active) + " · " + pluralTabs(len(inactive.Items)) + " inactive"
}

func pluralTabs(n int) string {
	if n == 1 {
		return "1 tab"
	}
	return strconv.Itoa(n) + " tabs"
}
