package tabs

import (
	"errors"
	"testing"
	"time"

	"github.com/kastheco/tabtray/tabs/sectionfsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func tab(id string) TabRecord {
	return TabRecord{ID: id, Title: "tab " + id, URL: "https://example.com/" + id, LastAccessed: epoch}
}

func inactiveTab(id string) TabRecord {
	t := tab(id)
	t.State = TabInactive
	return t
}

func records(ids ...string) []TabRecord {
	out := make([]TabRecord, len(ids))
	for i, id := range ids {
		out[i] = tab(id)
		out[i].Position = i
	}
	return out
}

func sectionIDs(s Section) []string {
	ids := make([]string, len(s.Items))
	for i, it := range s.Items {
		ids[i] = it.Tab.ID
	}
	return ids
}

type recordingDispatcher struct {
	cmds []Command
}

func (d *recordingDispatcher) Dispatch(cmd Command) { d.cmds = append(d.cmds, cmd) }

func TestReconcile_ActiveOnly(t *testing.T) {
	r := NewReconciler(nil)
	plan, _ := r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A", "B", "C")})

	require.Len(t, plan.Sections, 1)
	assert.Equal(t, SectionActiveTabs, plan.Sections[0].Kind)
	assert.Equal(t, []string{"A", "B", "C"}, sectionIDs(plan.Sections[0]))
}

func TestReconcile_ActiveAndInactive(t *testing.T) {
	r := NewReconciler(nil)
	plan, _ := r.Reconcile(PanelSnapshot{
		Revision: 1,
		Active:   records("A", "B"),
		Inactive: []TabRecord{inactiveTab("X")},
	})

	require.Len(t, plan.Sections, 2)
	active, ok := plan.Section(SectionActiveTabs)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, sectionIDs(active))

	inactive, ok := plan.Section(SectionInactiveTabs)
	require.True(t, ok)
	assert.Equal(t, []string{"X"}, sectionIDs(inactive))
	assert.Equal(t, ItemInactiveTab, inactive.Items[0].Kind)
	assert.Equal(t, sectionfsm.StateCollapsed, inactive.State)
}

func TestReconcile_PrivateBrowsingHasOneSection(t *testing.T) {
	cases := []struct {
		name     string
		inactive []TabRecord
		expanded bool
	}{
		{"no inactive", nil, false},
		{"inactive collapsed", []TabRecord{inactiveTab("X")}, false},
		{"inactive expanded", []TabRecord{inactiveTab("X"), inactiveTab("Y")}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReconciler(nil)
			plan, _ := r.Reconcile(PanelSnapshot{
				Revision:                1,
				Active:                  records("A"),
				Inactive:                tc.inactive,
				InactiveSectionExpanded: tc.expanded,
				IsPrivateBrowsing:       true,
			})
			require.Len(t, plan.Sections, 1)
			assert.Equal(t, SectionActiveTabs, plan.Sections[0].Kind)
		})
	}
}

func TestReconcile_EmptyInactiveOmitsSection(t *testing.T) {
	r := NewReconciler(nil)
	plan, _ := r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A"), InactiveSectionExpanded: true})
	assert.Equal(t, -1, plan.SectionIndex(SectionInactiveTabs))
}

func TestReconcile_SameSnapshotTwiceIsEmpty(t *testing.T) {
	idx := 1
	snap := PanelSnapshot{
		Revision:      4,
		Active:        records("A", "B", "C"),
		Inactive:      []TabRecord{inactiveTab("X")},
		ScrollToIndex: &idx,
		TabWasAdded:   true,
	}
	r := NewReconciler(nil)

	_, first := r.Reconcile(snap)
	assert.False(t, first.Empty())
	require.NotNil(t, first.Scroll)
	assert.True(t, first.TabAdded)

	_, second := r.Reconcile(snap)
	assert.True(t, second.Empty(), "second diff: %+v", second)
}

func TestReconcile_MetadataChangeIsUpdate(t *testing.T) {
	r := NewReconciler(nil)
	r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A", "B")})

	next := records("A", "B")
	next[1].Title = "renamed"
	next[1].Selected = true
	_, diff := r.Reconcile(PanelSnapshot{Revision: 2, Active: next})

	assert.Equal(t, 0, diff.Count(OpInsert))
	assert.Equal(t, 0, diff.Count(OpDelete))
	assert.Equal(t, 0, diff.Count(OpMove))
	updates := diff.ItemsOf(OpUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, Identity{Kind: ItemActiveTab, ID: "B"}, updates[0].Identity)
	assert.Equal(t, 1, updates[0].FromIndex)
	assert.Equal(t, 1, updates[0].ToIndex)
}

func TestReconcile_SwapIsSingleMove(t *testing.T) {
	r := NewReconciler(nil)
	r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A", "B", "C")})
	_, diff := r.Reconcile(PanelSnapshot{Revision: 2, Active: records("B", "A", "C")})

	assert.Equal(t, 0, diff.Count(OpInsert))
	assert.Equal(t, 0, diff.Count(OpDelete))
	moves := diff.ItemsOf(OpMove)
	require.Len(t, moves, 1)
	switch moves[0].Identity.ID {
	case "A":
		assert.Equal(t, 0, moves[0].FromIndex)
		assert.Equal(t, 1, moves[0].ToIndex)
	case "B":
		assert.Equal(t, 1, moves[0].FromIndex)
		assert.Equal(t, 0, moves[0].ToIndex)
	default:
		t.Fatalf("unexpected move of %s", moves[0].Identity)
	}
}

func TestReconcile_InsertAndDelete(t *testing.T) {
	r := NewReconciler(nil)
	r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A", "B", "C")})
	_, diff := r.Reconcile(PanelSnapshot{Revision: 2, Active: records("A", "C", "D")})

	deletes := diff.ItemsOf(OpDelete)
	require.Len(t, deletes, 1)
	assert.Equal(t, "B", deletes[0].Identity.ID)
	assert.Equal(t, 1, deletes[0].FromIndex)

	inserts := diff.ItemsOf(OpInsert)
	require.Len(t, inserts, 1)
	assert.Equal(t, "D", inserts[0].Identity.ID)
	assert.Equal(t, 2, inserts[0].ToIndex)

	assert.Equal(t, 0, diff.Count(OpMove))
}

func TestReconcile_TabBecomingInactiveChangesIdentity(t *testing.T) {
	r := NewReconciler(nil)
	r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A", "B")})
	_, diff := r.Reconcile(PanelSnapshot{
		Revision: 2,
		Active:   records("B"),
		Inactive: []TabRecord{inactiveTab("A")},
	})

	require.Len(t, diff.Sections, 1)
	assert.Equal(t, OpInsert, diff.Sections[0].Kind)
	assert.Equal(t, SectionInactiveTabs, diff.Sections[0].Section)
	assert.Equal(t, 0, diff.Sections[0].Index)
	assert.Equal(t, sectionfsm.StateHidden, diff.Sections[0].From)
	assert.Equal(t, sectionfsm.StateCollapsed, diff.Sections[0].To)

	deletes := diff.ItemsOf(OpDelete)
	require.Len(t, deletes, 1)
	assert.Equal(t, Identity{Kind: ItemActiveTab, ID: "A"}, deletes[0].Identity)
	assert.Equal(t, 0, diff.Count(OpInsert), "items of an inserted section are implied")
}

func TestReconcile_SectionStateChangeFollowsSnapshot(t *testing.T) {
	r := NewReconciler(nil)
	base := PanelSnapshot{Revision: 1, Active: records("A"), Inactive: []TabRecord{inactiveTab("X")}}
	r.Reconcile(base)

	expanded := base
	expanded.Revision = 2
	expanded.InactiveSectionExpanded = true
	_, diff := r.Reconcile(expanded)
	require.Len(t, diff.Sections, 1)
	assert.Equal(t, OpUpdate, diff.Sections[0].Kind)
	assert.Equal(t, sectionfsm.StateCollapsed, diff.Sections[0].From)
	assert.Equal(t, sectionfsm.StateExpanded, diff.Sections[0].To)

	private := expanded
	private.Revision = 3
	private.IsPrivateBrowsing = true
	_, diff = r.Reconcile(private)
	require.Len(t, diff.Sections, 1)
	assert.Equal(t, OpDelete, diff.Sections[0].Kind)
	assert.Equal(t, sectionfsm.StateHidden, diff.Sections[0].To)
}

func TestReconcile_ScrollTargetsActiveSection(t *testing.T) {
	idx := 1

	r := NewReconciler(nil)
	_, diff := r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A", "B"), ScrollToIndex: &idx})
	require.NotNil(t, diff.Scroll)
	assert.Equal(t, 0, diff.Scroll.Section, "active section is first when inactive is hidden")
	assert.Equal(t, 1, diff.Scroll.Index)
	assert.Equal(t, "B", diff.Scroll.Identity.ID)

	r = NewReconciler(nil)
	_, diff = r.Reconcile(PanelSnapshot{
		Revision:      1,
		Active:        records("A", "B"),
		Inactive:      []TabRecord{inactiveTab("X")},
		ScrollToIndex: &idx,
	})
	require.NotNil(t, diff.Scroll)
	assert.Equal(t, 1, diff.Scroll.Section)
	assert.Equal(t, "B", diff.Scroll.Identity.ID)
}

func TestReconcile_ScrollOutsideSectionIsDropped(t *testing.T) {
	idx := 7
	r := NewReconciler(nil)
	_, diff := r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A"), ScrollToIndex: &idx})
	assert.Nil(t, diff.Scroll)
}

func TestReconcile_SignalsDoNotRefireOnLaterSnapshot(t *testing.T) {
	idx := 0
	r := NewReconciler(nil)
	snap := PanelSnapshot{Revision: 1, Active: records("A"), ScrollToIndex: &idx, TabWasAdded: true}
	_, diff := r.Reconcile(snap)
	require.NotNil(t, diff.Scroll)

	// The same signals replayed under the same revision stay consumed.
	snap.Active = records("A", "B")
	_, diff = r.Reconcile(snap)
	assert.Nil(t, diff.Scroll)
	assert.False(t, diff.TabAdded)

	// A new delivery without signals carries none.
	_, diff = r.Reconcile(PanelSnapshot{Revision: 2, Active: records("A", "B", "C")})
	assert.Nil(t, diff.Scroll)
	assert.False(t, diff.TabAdded)
}

func TestRequestMove_OutOfRange(t *testing.T) {
	d := &recordingDispatcher{}
	r := NewReconciler(d)
	r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A", "B", "C")})
	before := r.Plan()

	cases := []struct {
		name     string
		from, to int
		field    string
	}{
		{"to past end", 0, 5, "to"},
		{"to equals count", 0, 3, "to"},
		{"negative from", -1, 0, "from"},
		{"from past end", 3, 0, "from"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.RequestMove(Identity{Kind: ItemActiveTab, ID: "A"}, tc.from, tc.to)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrOutOfRange))
			var oor *OutOfRangeError
			require.True(t, errors.As(err, &oor))
			assert.Equal(t, tc.field, oor.Field)
			assert.Equal(t, 3, oor.Len)
		})
	}

	assert.Equal(t, before, r.Plan())
	assert.Equal(t, before, r.Displayed())
	assert.Empty(t, d.cmds)
}

func TestRequestMove_RejectsInactiveItems(t *testing.T) {
	r := NewReconciler(nil)
	r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A", "B"), Inactive: []TabRecord{inactiveTab("X")}})

	_, err := r.RequestMove(Identity{Kind: ItemInactiveTab, ID: "X"}, 0, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestRequestMove_RejectsIdentityNotAtFrom(t *testing.T) {
	d := &recordingDispatcher{}
	r := NewReconciler(d)
	r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A", "B", "C")})
	before := r.Plan()

	_, err := r.RequestMove(Identity{Kind: ItemActiveTab, ID: "B"}, 0, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIdentityMismatch)
	assert.False(t, errors.Is(err, ErrOutOfRange))
	var mismatch *IdentityMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "A", mismatch.Found.ID)

	assert.Equal(t, before, r.Displayed(), "no scratch plan is kept")
	assert.Empty(t, d.cmds)
}

func TestRequestMove_ForwardsCommandAndKeepsPlan(t *testing.T) {
	d := &recordingDispatcher{}
	r := NewReconciler(d)
	r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A", "B", "C")})

	cmd, err := r.RequestMove(Identity{Kind: ItemActiveTab, ID: "A"}, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, MoveCommand{TabID: "A", From: 0, To: 2}, cmd)
	require.Len(t, d.cmds, 1)
	assert.Equal(t, cmd, d.cmds[0])

	active, _ := r.Plan().Section(SectionActiveTabs)
	assert.Equal(t, []string{"A", "B", "C"}, sectionIDs(active), "stored plan is not modified")

	shown, _ := r.Displayed().Section(SectionActiveTabs)
	assert.Equal(t, []string{"B", "C", "A"}, sectionIDs(shown))
}

func TestRequestMove_AuthoritativeSnapshotWins(t *testing.T) {
	r := NewReconciler(nil)
	r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A", "B", "C")})
	_, err := r.RequestMove(Identity{Kind: ItemActiveTab, ID: "A"}, 0, 2)
	require.NoError(t, err)

	// The owner confirms the move but C was closed concurrently.
	plan, diff := r.Reconcile(PanelSnapshot{Revision: 2, Active: records("B", "A")})

	active, _ := plan.Section(SectionActiveTabs)
	assert.Equal(t, []string{"B", "A"}, sectionIDs(active))
	assert.Equal(t, plan, r.Displayed(), "scratch plan is discarded")

	deletes := diff.ItemsOf(OpDelete)
	require.Len(t, deletes, 1)
	assert.Equal(t, "C", deletes[0].Identity.ID)
	assert.Equal(t, 1, deletes[0].FromIndex, "diff starts from the spliced order on screen")
	assert.Equal(t, 0, diff.Count(OpMove))
}

func TestRequestMove_ChainsOnScratch(t *testing.T) {
	r := NewReconciler(nil)
	r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A", "B", "C")})

	_, err := r.RequestMove(Identity{Kind: ItemActiveTab, ID: "A"}, 0, 1)
	require.NoError(t, err)
	_, err = r.RequestMove(Identity{Kind: ItemActiveTab, ID: "A"}, 1, 2)
	require.NoError(t, err)

	shown, _ := r.Displayed().Section(SectionActiveTabs)
	assert.Equal(t, []string{"B", "C", "A"}, sectionIDs(shown))
}

func TestToggleInactiveSectionExpansion(t *testing.T) {
	d := &recordingDispatcher{}
	r := NewReconciler(d)
	r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A"), Inactive: []TabRecord{inactiveTab("X")}})

	cmd := r.ToggleInactiveSectionExpansion()
	assert.True(t, cmd.Expanded)
	require.Len(t, d.cmds, 1)

	// Nothing changes locally until the owner confirms.
	inactive, _ := r.Plan().Section(SectionInactiveTabs)
	assert.Equal(t, sectionfsm.StateCollapsed, inactive.State)
	assert.True(t, r.ToggleInactiveSectionExpansion().Expanded)

	r.Reconcile(PanelSnapshot{Revision: 2, Active: records("A"), Inactive: []TabRecord{inactiveTab("X")}, InactiveSectionExpanded: true})
	inactive, _ = r.Plan().Section(SectionInactiveTabs)
	assert.Equal(t, sectionfsm.StateExpanded, inactive.State)
	assert.False(t, r.ToggleInactiveSectionExpansion().Expanded)
}

func TestDragSuppressesAnimation(t *testing.T) {
	r := NewReconciler(nil)
	_, diff := r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A", "B")})
	assert.True(t, diff.Animated)

	r.BeginDrag()
	assert.True(t, r.Dragging())
	_, diff = r.Reconcile(PanelSnapshot{Revision: 2, Active: records("B", "A")})
	assert.False(t, diff.Animated)
	assert.Equal(t, 1, diff.Count(OpMove), "the plan is still reconciled")

	r.EndDrag()
	_, diff = r.Reconcile(PanelSnapshot{Revision: 3, Active: records("A", "B")})
	assert.True(t, diff.Animated)
}

func TestReset(t *testing.T) {
	d := &recordingDispatcher{}
	r := NewReconciler(d)
	r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A")})
	r.BeginDrag()
	r.Reset()

	assert.False(t, r.Dragging())
	assert.Empty(t, r.Plan().Sections)

	_, diff := r.Reconcile(PanelSnapshot{Revision: 1, Active: records("A")})
	require.Len(t, diff.Sections, 1)
	assert.Equal(t, OpInsert, diff.Sections[0].Kind)

	r.ToggleInactiveSectionExpansion()
	assert.Len(t, d.cmds, 1, "dispatcher survives reset")
}
