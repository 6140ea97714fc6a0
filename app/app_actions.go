package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/kastheco/tabtray/config/auditlog"
	"github.com/kastheco/tabtray/log"
	"github.com/kastheco/tabtray/tabs"
	"github.com/kastheco/tabtray/ui"
	"github.com/kastheco/tabtray/ui/overlay"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// auditPaneLimit is how many recent events the audit pane shows.
const auditPaneLimit = 50

// ignoredMoveLog throttles the log line for moves dropped at a section edge.
// Holding a reorder key against the edge repeats it every key event.
var ignoredMoveLog = log.NewEvery(time.Second)

// commandQueue is the reconciler's dispatcher. Commands wait here until the
// next flush sends them to the state owner off the update goroutine.
type commandQueue struct {
	pending []tabs.Command
	// inFlight is set while a flushed batch has not reported back.
	inFlight bool
}

func (q *commandQueue) Dispatch(cmd tabs.Command) {
	q.pending = append(q.pending, cmd)
}

// drain returns and clears the pending commands.
func (q *commandQueue) drain() []tabs.Command {
	cmds := q.pending
	q.pending = nil
	return cmds
}

// flushCommands sends every queued command to the owner, in order. Only one
// batch is in flight at a time. Commands queued meanwhile wait for its
// commandsDoneMsg, so the owner sees them in the order they were made.
func (m *home) flushCommands() tea.Cmd {
	if m.queue.inFlight {
		return nil
	}
	cmds := m.queue.drain()
	if len(cmds) == 0 {
		return nil
	}
	m.queue.inFlight = true
	owner := m.owner
	return func() tea.Msg {
		return runCommands(owner, cmds)
	}
}

// runCommands dispatches cmds one by one and stops at the first failure.
func runCommands(owner TabOwner, cmds []tabs.Command) commandsDoneMsg {
	var done commandsDoneMsg
	for _, c := range cmds {
		if err := owner.Dispatch(c); err != nil {
			done.failed = c
			done.err = err
			return done
		}
		done.sent = append(done.sent, c)
	}
	return done
}

// dispatch queues cmd and flushes the queue.
func (m *home) dispatch(cmd tabs.Command) tea.Cmd {
	m.queue.Dispatch(cmd)
	return m.flushCommands()
}

func (m *home) handleCommandsDone(msg commandsDoneMsg) tea.Cmd {
	m.queue.inFlight = false
	cmds := []tea.Cmd{m.loadAuditCmd(), m.flushCommands()}
	for _, c := range msg.sent {
		switch c := c.(type) {
		case tabs.CloseInactiveTabsCommand:
			m.toastManager.Success("closed inactive tabs")
			cmds = append(cmds, m.toastTickCmd())
		case tabs.PrivateBrowsingCommand:
			if c.Enabled {
				m.toastManager.Info("private browsing on")
			} else {
				m.toastManager.Info("private browsing off")
			}
			cmds = append(cmds, m.toastTickCmd())
		}
	}
	if msg.err != nil {
		cmds = append(cmds, m.handleError(msg.err))
	}
	return tea.Batch(cmds...)
}

// applySnapshot reconciles snap and pushes the result into the view.
func (m *home) applySnapshot(snap tabs.PanelSnapshot) tea.Cmd {
	plan, diff := m.reconciler.Reconcile(snap)
	m.tray.SetPrivate(snap.IsPrivateBrowsing)
	m.tray.Apply(plan, diff)
	if m.tray.IsDragging() != m.reconciler.Dragging() {
		// The dragged tab left the active section.
		m.reconciler.EndDrag()
		m.mouseDrag = false
	}
	m.syncStatus()
	m.syncMenu()
	m.syncDetail()

	if m.tray.Animating() && !m.animating {
		m.animating = true
		return animFrameCmd()
	}
	return nil
}

// showDisplayed redraws the tray from the reconciler's displayed plan without
// waiting for the owner.
func (m *home) showDisplayed() {
	m.tray.Apply(m.reconciler.Displayed(), tabs.Diff{})
	m.syncStatus()
	m.syncMenu()
	m.syncDetail()
}

func (m *home) syncStatus() {
	snap := m.reconciler.Snapshot()
	m.statusBar.SetData(ui.StatusBarData{
		Private:  snap.IsPrivateBrowsing,
		Active:   len(snap.Active),
		Inactive: len(snap.Inactive),
		Expanded: snap.InactiveSectionExpanded,
		Dragging: m.tray.IsDragging(),
		Revision: snap.Revision,
	})
}

// syncMenu picks the menu state from the app state and the selection.
func (m *home) syncMenu() {
	switch {
	case m.state == stateNewTab:
		m.menu.SetState(ui.StateNewTab)
	case m.state == stateSearch:
		m.menu.SetState(ui.StateSearch)
	case m.tray.IsDragging():
		m.menu.SetState(ui.StateDragging)
	case m.tray.IsHeaderSelected():
		if m.reconciler.Snapshot().InactiveSectionExpanded {
			m.menu.SetHeaderAction("collapse")
		} else {
			m.menu.SetHeaderAction("expand")
		}
		m.menu.SetState(ui.StateHeader)
	case m.tray.Rows() == 0:
		m.menu.SetState(ui.StateEmpty)
	default:
		m.menu.SetState(ui.StateDefault)
	}
}

func (m *home) syncDetail() {
	tab, _, ok := m.tray.SelectedTab()
	m.detailPane.SetTab(tab, ok)
}

// selectionChanged refreshes everything that depends on the selected row.
func (m *home) selectionChanged() {
	m.syncMenu()
	m.syncDetail()
}

// inactiveSectionShown reports whether the inactive section is in the plan.
func (m *home) inactiveSectionShown() bool {
	_, ok := m.reconciler.Plan().Section(tabs.SectionInactiveTabs)
	return ok
}

// toggleInactiveSection asks the owner to flip the inactive section. It is a
// no-op while the section is hidden.
func (m *home) toggleInactiveSection() tea.Cmd {
	if !m.inactiveSectionShown() {
		return nil
	}
	m.reconciler.ToggleInactiveSectionExpansion()
	return m.flushCommands()
}

// moveSelectedBy moves the selected active tab by delta positions.
func (m *home) moveSelectedBy(delta int) tea.Cmd {
	from, ok := m.tray.SelectedActiveIndex()
	if !ok {
		return nil
	}
	_, id, _ := m.tray.SelectedTab()
	return m.requestMove(id, from, from+delta)
}

// requestMove validates the move and shows it right away. Moves past either
// end of the active section are ignored.
func (m *home) requestMove(id tabs.Identity, from, to int) tea.Cmd {
	if from == to {
		return nil
	}
	if _, err := m.reconciler.RequestMove(id, from, to); err != nil {
		if errors.Is(err, tabs.ErrOutOfRange) {
			if ignoredMoveLog.ShouldLog() {
				log.InfoLog.Printf("move ignored: %v", err)
			}
			return nil
		}
		return m.handleError(err)
	}
	m.tray.Follow(id)
	m.showDisplayed()
	return m.flushCommands()
}

// beginDrag picks up the selected tab in both the view and the reconciler.
func (m *home) beginDrag() bool {
	if !m.tray.BeginDrag() {
		return false
	}
	m.reconciler.BeginDrag()
	m.syncStatus()
	m.syncMenu()
	return true
}

// endDrag drops the dragged tab and requests the resulting move.
func (m *home) endDrag() tea.Cmd {
	m.mouseDrag = false
	id, from, to, ok := m.tray.EndDrag()
	m.reconciler.EndDrag()
	if !ok {
		return nil
	}
	if from == to {
		m.showDisplayed()
		return nil
	}
	return m.requestMove(id, from, to)
}

func (m *home) cancelDrag() {
	m.mouseDrag = false
	m.tray.CancelDrag()
	m.reconciler.EndDrag()
	m.syncStatus()
	m.selectionChanged()
}

// activateSelected switches to the selected tab, or toggles the inactive
// section when its header is selected.
func (m *home) activateSelected() tea.Cmd {
	if m.tray.IsHeaderSelected() {
		return m.toggleInactiveSection()
	}
	tab, _, ok := m.tray.SelectedTab()
	if !ok {
		return nil
	}
	return m.dispatch(tabs.SelectTabCommand{TabID: tab.ID})
}

func (m *home) closeSelected() tea.Cmd {
	tab, _, ok := m.tray.SelectedTab()
	if !ok {
		return nil
	}
	return m.dispatch(tabs.CloseTabCommand{TabID: tab.ID})
}

func (m *home) closeInactive() tea.Cmd {
	if len(m.reconciler.Snapshot().Inactive) == 0 {
		return nil
	}
	return m.dispatch(tabs.CloseInactiveTabsCommand{})
}

func (m *home) togglePrivate() tea.Cmd {
	enabled := !m.reconciler.Snapshot().IsPrivateBrowsing
	return m.dispatch(tabs.PrivateBrowsingCommand{Enabled: enabled})
}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// copySelectedURL puts the selected tab's URL on the system clipboard.
func (m *home) copySelectedURL() tea.Cmd {
	tab, _, ok := m.tray.SelectedTab()
	if !ok || tab.URL == "" {
		return nil
	}
	if err := writeClipboard(tab.URL); err != nil {
		return m.handleError(err)
	}
	m.toastManager.Info("copied " + tab.URL)
	return m.toastTickCmd()
}

func (m *home) refreshCmd() tea.Cmd {
	owner := m.owner
	return func() tea.Msg {
		return refreshDoneMsg{err: owner.Refresh()}
	}
}

// manualRefresh re-evaluates inactivity on request and reports it in a toast.
func (m *home) manualRefresh() tea.Cmd {
	id := m.toastManager.Loading("checking for inactive tabs")
	owner := m.owner
	return tea.Batch(func() tea.Msg {
		return refreshDoneMsg{err: owner.Refresh(), toastID: id}
	}, m.toastTickCmd())
}

func (m *home) handleRefreshDone(msg refreshDoneMsg) tea.Cmd {
	if msg.toastID == "" {
		if msg.err != nil {
			return m.handleError(msg.err)
		}
		return nil
	}
	if msg.err != nil {
		log.ErrorLog.Printf("%v", msg.err)
		m.toastManager.Resolve(msg.toastID, overlay.ToastError, msg.err.Error())
		return m.toastTickCmd()
	}
	n := len(m.reconciler.Snapshot().Inactive)
	m.toastManager.Resolve(msg.toastID, overlay.ToastSuccess, fmt.Sprintf("%d inactive %s", n, plural(n, "tab", "tabs")))
	return m.toastTickCmd()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// loadAuditCmd reads the most recent audit events.
func (m *home) loadAuditCmd() tea.Cmd {
	audit := m.audit
	return func() tea.Msg {
		events, err := audit.Query(auditlog.QueryFilter{Limit: auditPaneLimit})
		return auditLoadedMsg{events: events, err: err}
	}
}

// handleError logs err and shows it as an error toast.
func (m *home) handleError(err error) tea.Cmd {
	log.ErrorLog.Printf("%v", err)
	m.toastManager.Error(err.Error())
	return m.toastTickCmd()
}
