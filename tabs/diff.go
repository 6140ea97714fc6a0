package tabs

import "github.com/kastheco/tabtray/tabs/sectionfsm"

// OpKind is the kind of a diff operation.
type OpKind int

const (
	OpInsert OpKind = iota
	OpDelete
	OpMove
	OpUpdate
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpMove:
		return "move"
	case OpUpdate:
		return "update"
	default:
		return "unknown"
	}
}

func (k OpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ItemOp is one item-level change. From* coordinates address the previous
// plan (delete, move, update); To* coordinates address the new plan
// (insert, move, update). Unused coordinates are -1.
type ItemOp struct {
	Kind        OpKind   `json:"kind" yaml:"kind"`
	Identity    Identity `json:"identity" yaml:"identity"`
	FromSection int      `json:"from_section" yaml:"from_section"`
	FromIndex   int      `json:"from_index" yaml:"from_index"`
	ToSection   int      `json:"to_section" yaml:"to_section"`
	ToIndex     int      `json:"to_index" yaml:"to_index"`
}

// SectionOp is a section-level change. Items of inserted or deleted sections
// are not repeated as item operations. Index addresses the new plan for
// inserts and updates and the previous plan for deletes.
type SectionOp struct {
	Kind    OpKind           `json:"kind" yaml:"kind"`
	Section SectionKind      `json:"section" yaml:"section"`
	Index   int              `json:"index" yaml:"index"`
	From    sectionfsm.State `json:"from" yaml:"from"`
	To      sectionfsm.State `json:"to" yaml:"to"`
}

// ScrollInstruction asks the renderer to bring an item into view once.
type ScrollInstruction struct {
	Section  int      `json:"section" yaml:"section"`
	Index    int      `json:"index" yaml:"index"`
	Identity Identity `json:"identity" yaml:"identity"`
}

// Diff transforms the previously displayed plan into a new one.
type Diff struct {
	Sections []SectionOp        `json:"sections,omitempty" yaml:"sections,omitempty"`
	Items    []ItemOp           `json:"items,omitempty" yaml:"items,omitempty"`
	Scroll   *ScrollInstruction `json:"scroll,omitempty" yaml:"scroll,omitempty"`
	TabAdded bool               `json:"tab_added,omitempty" yaml:"tab_added,omitempty"`
	// Animated is false while a drag gesture is in progress.
	Animated bool `json:"animated" yaml:"animated"`
}

// Empty reports whether the diff carries no changes and no signals.
func (d Diff) Empty() bool {
	return len(d.Sections) == 0 && len(d.Items) == 0 && d.Scroll == nil && !d.TabAdded
}

// ItemsOf returns the item operations of the given kind.
func (d Diff) ItemsOf(kind OpKind) []ItemOp {
	var ops []ItemOp
	for _, op := range d.Items {
		if op.Kind == kind {
			ops = append(ops, op)
		}
	}
	return ops
}

// Count returns the number of item operations of the given kind.
func (d Diff) Count(kind OpKind) int {
	n := 0
	for _, op := range d.Items {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// ComputeDiff returns the operations that turn prev into next. Sections are
// matched by kind and items by identity. Surviving items that keep their
// relative order stay put; the rest are reported as moves, so the number of
// moves is minimal.
func ComputeDiff(prev, next RenderPlan) Diff {
	var d Diff

	for oi, os := range prev.Sections {
		if next.SectionIndex(os.Kind) < 0 {
			d.Sections = append(d.Sections, SectionOp{
				Kind:    OpDelete,
				Section: os.Kind,
				Index:   oi,
				From:    os.State,
				To:      sectionfsm.StateHidden,
			})
		}
	}

	for ni, ns := range next.Sections {
		oi := prev.SectionIndex(ns.Kind)
		if oi < 0 {
			d.Sections = append(d.Sections, SectionOp{
				Kind:    OpInsert,
				Section: ns.Kind,
				Index:   ni,
				From:    sectionfsm.StateHidden,
				To:      ns.State,
			})
			continue
		}
		os := prev.Sections[oi]
		if os.State != ns.State {
			d.Sections = append(d.Sections, SectionOp{
				Kind:    OpUpdate,
				Section: ns.Kind,
				Index:   ni,
				From:    os.State,
				To:      ns.State,
			})
		}
		d.Items = append(d.Items, diffItems(oi, os.Items, ni, ns.Items)...)
	}
	return d
}

func diffItems(oldSection int, old []SectionItem, newSection int, next []SectionItem) []ItemOp {
	oldIdx := make(map[Identity]int, len(old))
	for i, it := range old {
		oldIdx[it.Identity()] = i
	}
	newIdx := make(map[Identity]int, len(next))
	for j, it := range next {
		newIdx[it.Identity()] = j
	}

	var ops []ItemOp
	for i, it := range old {
		if _, ok := newIdx[it.Identity()]; !ok {
			ops = append(ops, ItemOp{
				Kind:        OpDelete,
				Identity:    it.Identity(),
				FromSection: oldSection,
				FromIndex:   i,
				ToSection:   -1,
				ToIndex:     -1,
			})
		}
	}

	// Old indices of surviving items, in new order.
	var survivors, survivorsAt []int
	for j, it := range next {
		i, ok := oldIdx[it.Identity()]
		if !ok {
			ops = append(ops, ItemOp{
				Kind:        OpInsert,
				Identity:    it.Identity(),
				FromSection: -1,
				FromIndex:   -1,
				ToSection:   newSection,
				ToIndex:     j,
			})
			continue
		}
		survivors = append(survivors, i)
		survivorsAt = append(survivorsAt, j)
	}

	stay := increasingRun(survivors)
	for k, i := range survivors {
		j := survivorsAt[k]
		id := next[j].Identity()
		if !stay[k] {
			ops = append(ops, ItemOp{
				Kind:        OpMove,
				Identity:    id,
				FromSection: oldSection,
				FromIndex:   i,
				ToSection:   newSection,
				ToIndex:     j,
			})
		}
		if !old[i].Tab.sameContent(next[j].Tab) {
			ops = append(ops, ItemOp{
				Kind:        OpUpdate,
				Identity:    id,
				FromSection: oldSection,
				FromIndex:   i,
				ToSection:   newSection,
				ToIndex:     j,
			})
		}
	}
	return ops
}

// increasingRun marks one longest strictly increasing subsequence of seq.
// seq holds distinct values.
func increasingRun(seq []int) []bool {
	keep := make([]bool, len(seq))
	if len(seq) == 0 {
		return keep
	}
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		prev[i] = -1
		if lo > 0 {
			prev[i] = tails[lo-1]
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}
	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		keep[i] = true
	}
	return keep
}
