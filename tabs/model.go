// Package tabs turns tabs panel snapshots into a two-section render plan,
// diffs successive plans by item identity, and validates reorder requests
// before they are forwarded to the state owner.
package tabs

import (
	"fmt"
	"time"

	"github.com/kastheco/tabtray/tabs/sectionfsm"
)

// TabState classifies a tab as active or inactive.
type TabState int

const (
	TabActive TabState = iota
	TabInactive
)

func (s TabState) String() string {
	if s == TabInactive {
		return "inactive"
	}
	return "active"
}

func (s TabState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// TabRecord is a single tab as seen by the tray. Everything besides ID and
// Position is display metadata.
type TabRecord struct {
	ID           string    `json:"id" yaml:"id"`
	Position     int       `json:"position" yaml:"position"`
	State        TabState  `json:"state" yaml:"state"`
	Title        string    `json:"title" yaml:"title"`
	URL          string    `json:"url" yaml:"url"`
	LastAccessed time.Time `json:"last_accessed" yaml:"last_accessed"`
	Selected     bool      `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// sameContent compares the displayed content of two records. Position is
// excluded: a reorder is reported as a move, not as an update.
func (t TabRecord) sameContent(o TabRecord) bool {
	return t.Title == o.Title &&
		t.URL == o.URL &&
		t.LastAccessed.Equal(o.LastAccessed) &&
		t.Selected == o.Selected &&
		t.State == o.State
}

// PanelSnapshot is an immutable description of the tab list at one point in
// time, as published by the state owner.
type PanelSnapshot struct {
	// Revision increases with every delivery. One-shot signals fire at most
	// once per revision.
	Revision                uint64
	Active                  []TabRecord
	Inactive                []TabRecord
	InactiveSectionExpanded bool
	IsPrivateBrowsing       bool

	// One-shot signals.
	ScrollToIndex *int
	TabWasAdded   bool
}

// ShouldHideInactiveSection reports whether the inactive section is left out
// of the render plan entirely.
func (s PanelSnapshot) ShouldHideInactiveSection() bool {
	return s.IsPrivateBrowsing || len(s.Inactive) == 0
}

// InactiveSectionState is the section state implied by the snapshot.
func (s PanelSnapshot) InactiveSectionState() sectionfsm.State {
	return sectionfsm.Resolve(s.IsPrivateBrowsing, len(s.Inactive), s.InactiveSectionExpanded)
}

// WithoutSignals returns a copy with the one-shot signals cleared.
func (s PanelSnapshot) WithoutSignals() PanelSnapshot {
	s.ScrollToIndex = nil
	s.TabWasAdded = false
	return s
}

// SectionKind identifies a section of the render plan.
type SectionKind int

const (
	SectionInactiveTabs SectionKind = iota
	SectionActiveTabs
)

func (k SectionKind) String() string {
	switch k {
	case SectionInactiveTabs:
		return "inactive_tabs"
	case SectionActiveTabs:
		return "active_tabs"
	default:
		return fmt.Sprintf("section(%d)", int(k))
	}
}

func (k SectionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ItemKind tags a SectionItem.
type ItemKind int

const (
	ItemActiveTab ItemKind = iota
	ItemInactiveTab
)

func (k ItemKind) String() string {
	if k == ItemInactiveTab {
		return "inactive_tab"
	}
	return "active_tab"
}

func (k ItemKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Identity is the diffing key of a SectionItem. The same tab id under a
// different kind is a different item.
type Identity struct {
	Kind ItemKind `json:"kind" yaml:"kind"`
	ID   string   `json:"id" yaml:"id"`
}

func (i Identity) String() string {
	return i.Kind.String() + ":" + i.ID
}

// SectionItem is the unit the renderer draws.
type SectionItem struct {
	Kind ItemKind  `json:"kind" yaml:"kind"`
	Tab  TabRecord `json:"tab" yaml:"tab"`
}

func ActiveTab(t TabRecord) SectionItem   { return SectionItem{Kind: ItemActiveTab, Tab: t} }
func InactiveTab(t TabRecord) SectionItem { return SectionItem{Kind: ItemInactiveTab, Tab: t} }

func (it SectionItem) Identity() Identity {
	return Identity{Kind: it.Kind, ID: it.Tab.ID}
}

// Section is an ordered run of items. State is meaningful for the inactive
// section; the active section is always expanded.
type Section struct {
	Kind  SectionKind      `json:"kind" yaml:"kind"`
	State sectionfsm.State `json:"state" yaml:"state"`
	Items []SectionItem    `json:"items" yaml:"items"`
}

// VisibleItems returns the items a renderer should draw below the header.
func (s Section) VisibleItems() []SectionItem {
	if s.State == sectionfsm.StateCollapsed {
		return nil
	}
	return s.Items
}

// RenderPlan is the derived, diffable rendering of a PanelSnapshot.
type RenderPlan struct {
	Sections []Section `json:"sections" yaml:"sections"`
}

// SectionIndex returns the position of the section of the given kind, or -1.
func (p RenderPlan) SectionIndex(kind SectionKind) int {
	for i, s := range p.Sections {
		if s.Kind == kind {
			return i
		}
	}
	return -1
}

// Section returns the section of the given kind.
func (p RenderPlan) Section(kind SectionKind) (Section, bool) {
	if i := p.SectionIndex(kind); i >= 0 {
		return p.Sections[i], true
	}
	return Section{}, false
}

// ActiveCount is the number of items in the active section.
func (p RenderPlan) ActiveCount() int {
	s, _ := p.Section(SectionActiveTabs)
	return len(s.Items)
}

// Len is the total number of items across sections.
func (p RenderPlan) Len() int {
	n := 0
	for _, s := range p.Sections {
		n += len(s.Items)
	}
	return n
}

func (p RenderPlan) clone() RenderPlan {
	out := RenderPlan{Sections: make([]Section, len(p.Sections))}
	for i, s := range p.Sections {
		s.Items = append([]SectionItem(nil), s.Items...)
		out.Sections[i] = s
	}
	return out
}

// BuildPlan lays out a snapshot. The inactive section comes first and is
// omitted when hidden; the active section is always present. Item order is
// the snapshot order.
func BuildPlan(s PanelSnapshot) RenderPlan {
	plan := RenderPlan{Sections: make([]Section, 0, 2)}

	if state := s.InactiveSectionState(); state.Visible() {
		items := make([]SectionItem, len(s.Inactive))
		for i, t := range s.Inactive {
			items[i] = InactiveTab(t)
		}
		plan.Sections = append(plan.Sections, Section{
			Kind:  SectionInactiveTabs,
			State: state,
			Items: items,
		})
	}

	items := make([]SectionItem, len(s.Active))
	for i, t := range s.Active {
		items[i] = ActiveTab(t)
	}
	plan.Sections = append(plan.Sections, Section{
		Kind:  SectionActiveTabs,
		State: sectionfsm.StateExpanded,
		Items: items,
	})
	return plan
}
