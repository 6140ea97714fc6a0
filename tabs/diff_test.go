package tabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planOf(ids ...string) RenderPlan {
	return BuildPlan(PanelSnapshot{Active: records(ids...)})
}

func TestIncreasingRun(t *testing.T) {
	cases := []struct {
		seq  []int
		keep int
	}{
		{nil, 0},
		{[]int{0}, 1},
		{[]int{0, 1, 2, 3}, 4},
		{[]int{3, 2, 1, 0}, 1},
		{[]int{1, 0, 2}, 2},
		{[]int{2, 0, 1, 4, 3, 5}, 4},
	}
	for _, tc := range cases {
		mask := increasingRun(tc.seq)
		require.Len(t, mask, len(tc.seq))

		kept := 0
		last := -1
		for i, k := range mask {
			if !k {
				continue
			}
			kept++
			assert.Greater(t, tc.seq[i], last, "kept values must increase in %v", tc.seq)
			last = tc.seq[i]
		}
		assert.Equal(t, tc.keep, kept, "seq %v", tc.seq)
	}
}

func TestComputeDiff_MinimalMoves(t *testing.T) {
	cases := []struct {
		name  string
		prev  []string
		next  []string
		moves int
	}{
		{"unchanged", []string{"A", "B", "C"}, []string{"A", "B", "C"}, 0},
		{"reversed", []string{"A", "B", "C", "D", "E"}, []string{"E", "D", "C", "B", "A"}, 4},
		{"first to last", []string{"A", "B", "C", "D"}, []string{"B", "C", "D", "A"}, 1},
		{"last to first", []string{"A", "B", "C", "D"}, []string{"D", "A", "B", "C"}, 1},
		{"move with insert", []string{"A", "B", "C"}, []string{"C", "X", "A", "B"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := ComputeDiff(planOf(tc.prev...), planOf(tc.next...))
			assert.Equal(t, tc.moves, d.Count(OpMove))
			assert.Equal(t, 0, d.Count(OpDelete))
		})
	}
}

func TestComputeDiff_FromEmptyInsertsSections(t *testing.T) {
	d := ComputeDiff(RenderPlan{}, BuildPlan(PanelSnapshot{
		Active:   records("A"),
		Inactive: []TabRecord{inactiveTab("X")},
	}))
	require.Len(t, d.Sections, 2)
	assert.Equal(t, SectionInactiveTabs, d.Sections[0].Section)
	assert.Equal(t, SectionActiveTabs, d.Sections[1].Section)
	assert.Empty(t, d.Items)
}

func TestSectionVisibleItems(t *testing.T) {
	plan := BuildPlan(PanelSnapshot{Active: records("A"), Inactive: []TabRecord{inactiveTab("X")}})
	inactive, ok := plan.Section(SectionInactiveTabs)
	require.True(t, ok)
	assert.Empty(t, inactive.VisibleItems(), "collapsed section shows only its header")
	assert.Len(t, inactive.Items, 1)

	plan = BuildPlan(PanelSnapshot{Active: records("A"), Inactive: []TabRecord{inactiveTab("X")}, InactiveSectionExpanded: true})
	inactive, _ = plan.Section(SectionInactiveTabs)
	assert.Len(t, inactive.VisibleItems(), 1)
}
