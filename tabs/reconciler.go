package tabs

// Reconciler converts panel snapshots into render plans and diffs, and turns
// user edits into commands. It must be driven from a single goroutine, the
// one that owns view updates.
type Reconciler struct {
	dispatcher Dispatcher

	// last is the most recent plan built from an authoritative snapshot.
	last RenderPlan
	// scratch is a locally spliced copy of last shown during a reorder
	// before the state owner confirms it. The next snapshot replaces it.
	scratch *RenderPlan
	// snapshot is the last authoritative snapshot.
	snapshot PanelSnapshot

	dragging bool

	signalsSeen    bool
	signalRevision uint64
}

// NewReconciler returns a reconciler forwarding commands to d. d may be nil,
// in which case commands are only returned to the caller.
func NewReconciler(d Dispatcher) *Reconciler {
	return &Reconciler{dispatcher: d}
}

// Reconcile lays out snapshot, diffs it against what is currently displayed
// and stores it as the last rendered plan.
func (r *Reconciler) Reconcile(snapshot PanelSnapshot) (RenderPlan, Diff) {
	plan := BuildPlan(snapshot)

	displayed := r.last
	if r.scratch != nil {
		displayed = *r.scratch
		r.scratch = nil
	}

	diff := ComputeDiff(displayed, plan)
	diff.Animated = !r.dragging

	if r.consumeSignals(snapshot.Revision) {
		if snapshot.ScrollToIndex != nil {
			diff.Scroll = scrollTarget(plan, *snapshot.ScrollToIndex)
		}
		diff.TabAdded = snapshot.TabWasAdded
	}

	r.last = plan
	r.snapshot = snapshot
	return plan, diff
}

// consumeSignals reports whether the one-shot signals of the delivery with
// the given revision have not fired yet, and marks them as fired.
func (r *Reconciler) consumeSignals(revision uint64) bool {
	if r.signalsSeen && r.signalRevision == revision {
		return false
	}
	r.signalsSeen = true
	r.signalRevision = revision
	return true
}

// scrollTarget addresses index inside the active section of plan. The
// active section sits at 0 when the inactive section is hidden and at 1
// otherwise. An index outside the section yields no instruction.
func scrollTarget(plan RenderPlan, index int) *ScrollInstruction {
	section := plan.SectionIndex(SectionActiveTabs)
	items := plan.Sections[section].Items
	if index < 0 || index >= len(items) {
		return nil
	}
	return &ScrollInstruction{
		Section:  section,
		Index:    index,
		Identity: items[index].Identity(),
	}
}

// RequestMove validates a reorder inside the active section and forwards it
// to the state owner. The tab at from must be id. The stored plan is left untouched; a scratch plan with
// the move applied is kept for display until the next snapshot arrives.
func (r *Reconciler) RequestMove(id Identity, from, to int) (MoveCommand, error) {
	if id.Kind != ItemActiveTab {
		return MoveCommand{}, &OutOfRangeError{Field: "section", Index: from, Len: 0}
	}

	displayed := r.Displayed()
	n := displayed.ActiveCount()
	if from < 0 || from >= n {
		return MoveCommand{}, &OutOfRangeError{Field: "from", Index: from, Len: n}
	}
	if to < 0 || to >= n {
		return MoveCommand{}, &OutOfRangeError{Field: "to", Index: to, Len: n}
	}

	section := displayed.SectionIndex(SectionActiveTabs)
	if found := displayed.Sections[section].Items[from].Identity(); found != id {
		return MoveCommand{}, &IdentityMismatchError{Want: id, Found: found, Index: from}
	}

	cmd := MoveCommand{TabID: id.ID, From: from, To: to}

	scratch := displayed.clone()
	scratch.Sections[section].Items = splice(scratch.Sections[section].Items, from, to)
	r.scratch = &scratch

	r.dispatch(cmd)
	return cmd, nil
}

func splice(items []SectionItem, from, to int) []SectionItem {
	moved := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items, SectionItem{})
	copy(items[to+1:], items[to:])
	items[to] = moved
	return items
}

// ToggleInactiveSectionExpansion requests the inverse of the last confirmed
// expansion flag. Local state only changes when a snapshot confirms it.
func (r *Reconciler) ToggleInactiveSectionExpansion() ExpansionCommand {
	cmd := ExpansionCommand{Expanded: !r.snapshot.InactiveSectionExpanded}
	r.dispatch(cmd)
	return cmd
}

func (r *Reconciler) dispatch(cmd Command) {
	if r.dispatcher != nil {
		r.dispatcher.Dispatch(cmd)
	}
}

// BeginDrag marks a drag gesture as in progress. Diffs produced until
// EndDrag are not animated.
func (r *Reconciler) BeginDrag() { r.dragging = true }

// EndDrag ends the drag gesture.
func (r *Reconciler) EndDrag() { r.dragging = false }

func (r *Reconciler) Dragging() bool { return r.dragging }

// Plan returns the last plan built from an authoritative snapshot.
func (r *Reconciler) Plan() RenderPlan { return r.last }

// Displayed returns the plan currently on screen: the scratch plan while a
// reorder awaits confirmation, the last plan otherwise.
func (r *Reconciler) Displayed() RenderPlan {
	if r.scratch != nil {
		return *r.scratch
	}
	return r.last
}

// Snapshot returns the last reconciled snapshot.
func (r *Reconciler) Snapshot() PanelSnapshot { return r.snapshot }

// Reset drops all session state. Called when the owning view is torn down.
func (r *Reconciler) Reset() {
	d := r.dispatcher
	*r = Reconciler{dispatcher: d}
}
