// Package panel owns tab state. It applies commands from the tray to the
// tab store and publishes a fresh tabs.PanelSnapshot after every change.
package panel

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kastheco/tabtray/config/auditlog"
	"github.com/kastheco/tabtray/config/tabstore"
	"github.com/kastheco/tabtray/log"
	"github.com/kastheco/tabtray/tabs"
	"github.com/kastheco/tabtray/tabs/sectionfsm"
)

var (
	// ErrTabNotFound is returned when a command names a tab that is not
	// listed in the current browsing mode.
	ErrTabNotFound = errors.New("tab not found")
	// ErrClosed is returned by Dispatch after Close.
	ErrClosed = errors.New("panel closed")
)

// Options configures a Panel.
type Options struct {
	Store tabstore.Store
	// Audit receives one event per applied command. Defaults to a no-op.
	Audit auditlog.Logger
	// InactiveAfter is how long an unvisited tab stays active. Zero
	// disables the inactive section.
	InactiveAfter time.Duration
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// Private overrides the persisted browsing mode for this panel without
	// saving it. Nil uses the stored preference.
	Private *bool
}

// Panel is the state owner for the tab tray. It is safe for concurrent use.
type Panel struct {
	mu sync.Mutex

	store         tabstore.Store
	audit         auditlog.Logger
	inactiveAfter time.Duration
	now           func() time.Time

	private  bool
	expanded bool
	revision uint64
	current  tabs.PanelSnapshot

	subs    map[int]chan tabs.PanelSnapshot
	nextSub int
	closed  bool
}

// Open loads persisted preferences and tabs and builds the first snapshot.
func Open(opts Options) (*Panel, error) {
	if opts.Store == nil {
		return nil, errors.New("panel: store is required")
	}
	p := &Panel{
		store:         opts.Store,
		audit:         opts.Audit,
		inactiveAfter: opts.InactiveAfter,
		now:           opts.Now,
		subs:          make(map[int]chan tabs.PanelSnapshot),
	}
	if p.audit == nil {
		p.audit = auditlog.NopLogger()
	}
	if p.now == nil {
		p.now = time.Now
	}

	var err error
	if p.private, err = p.boolPref(tabstore.PrefPrivateMode); err != nil {
		return nil, err
	}
	if opts.Private != nil {
		p.private = *opts.Private
	}
	if p.expanded, err = p.boolPref(tabstore.PrefInactiveExpanded); err != nil {
		return nil, err
	}

	snap, err := p.load()
	if err != nil {
		return nil, err
	}
	p.revision = 1
	snap.Revision = p.revision
	p.current = snap
	return p, nil
}

// Snapshot returns the current snapshot without one-shot signals.
func (p *Panel) Snapshot() tabs.PanelSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current.WithoutSignals()
}

// Subscribe registers a snapshot listener. The current snapshot is delivered
// immediately. When the listener falls behind, the oldest pending snapshot
// is dropped; a later snapshot always supersedes an earlier one. cancel
// unregisters and closes the channel.
func (p *Panel) Subscribe(buf int) (<-chan tabs.PanelSnapshot, func()) {
	if buf < 1 {
		buf = 1
	}
	ch := make(chan tabs.PanelSnapshot, buf)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		close(ch)
		return ch, func() {}
	}
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	ch <- p.current.WithoutSignals()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if sub, ok := p.subs[id]; ok {
				delete(p.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Close stops publishing and closes every subscriber channel. The store is
// owned by the caller and is left open.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for id, ch := range p.subs {
		delete(p.subs, id)
		close(ch)
	}
}

// Refresh re-evaluates tab inactivity against the clock and publishes a new
// snapshot when the classification changed.
func (p *Panel) Refresh() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	snap, err := p.load()
	if err != nil {
		return err
	}
	if sameLayout(p.current, snap) {
		return nil
	}
	p.publish(snap)
	return nil
}

// Dispatch applies cmd, persists it and publishes the resulting snapshot.
func (p *Panel) Dispatch(cmd tabs.Command) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	var (
		sig signals
		err error
	)
	switch c := cmd.(type) {
	case tabs.MoveCommand:
		sig, err = p.move(c)
	case tabs.ExpansionCommand:
		err = p.setExpanded(c.Expanded)
	case tabs.SelectTabCommand:
		sig, err = p.selectTab(c.TabID)
	case tabs.CloseTabCommand:
		err = p.closeTab(c.TabID)
	case tabs.CloseInactiveTabsCommand:
		err = p.closeInactive()
	case tabs.OpenTabCommand:
		sig, err = p.openTab(c)
	case tabs.PrivateBrowsingCommand:
		sig, err = p.setPrivate(c.Enabled)
	default:
		err = fmt.Errorf("unsupported command %T", cmd)
	}
	if err != nil {
		log.ErrorLog.Printf("%s failed: %v", cmd.Name(), err)
		p.audit.Emit(auditlog.NewEvent(auditlog.EventError, cmd.Name()+": "+err.Error(),
			auditlog.WithPrivate(p.private), auditlog.WithLevel("error")))
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}

	snap, err := p.load()
	if err != nil {
		return err
	}
	snap.TabWasAdded = sig.tabAdded
	if sig.scrollTo != "" {
		if i := indexOf(recordIDs(snap.Active), sig.scrollTo); i >= 0 {
			snap.ScrollToIndex = &i
		}
	}
	p.publish(snap)
	return nil
}

type signals struct {
	scrollTo string
	tabAdded bool
}

// publish stamps snap with the next revision and fans it out. Must be
// called with mu held.
func (p *Panel) publish(snap tabs.PanelSnapshot) {
	p.revision++
	snap.Revision = p.revision
	p.current = snap
	for _, ch := range p.subs {
		deliver(ch, snap)
	}
}

func deliver(ch chan tabs.PanelSnapshot, snap tabs.PanelSnapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// load reads the current mode's tabs and builds a snapshot without signals.
func (p *Panel) load() (tabs.PanelSnapshot, error) {
	entries, err := p.store.List(p.private)
	if err != nil {
		return tabs.PanelSnapshot{}, fmt.Errorf("load tabs: %w", err)
	}
	selected, err := p.store.GetPref(p.selectedKey())
	if err != nil {
		return tabs.PanelSnapshot{}, err
	}
	active, inactive := partition(entries, selected, p.now(), p.inactiveAfter)
	return tabs.PanelSnapshot{
		Active:                  active,
		Inactive:                inactive,
		InactiveSectionExpanded: p.expanded,
		IsPrivateBrowsing:       p.private,
	}, nil
}

func (p *Panel) move(c tabs.MoveCommand) (signals, error) {
	entries, err := p.store.List(p.private)
	if err != nil {
		return signals{}, err
	}
	stored := make(map[string]bool, len(entries))
	for _, e := range entries {
		stored[e.ID] = true
	}
	var activeIDs []string
	for _, id := range recordIDs(p.current.Active) {
		if stored[id] {
			activeIDs = append(activeIDs, id)
		}
	}
	order, to, ok := moveWithin(entries, activeIDs, c.TabID, c.To)
	if !ok {
		return signals{}, fmt.Errorf("%w: %s", ErrTabNotFound, c.TabID)
	}
	if err := p.store.Reorder(order); err != nil {
		return signals{}, err
	}
	detail, _ := json.Marshal(map[string]int{"from": c.From, "to": to})
	p.emit(auditlog.EventTabMoved, "moved tab", c.TabID, auditlog.WithDetail(string(detail)))
	return signals{}, nil
}

func (p *Panel) setExpanded(expanded bool) error {
	if expanded == p.expanded {
		return nil
	}
	state := p.current.InactiveSectionState()
	if state == sectionfsm.StateHidden && !expanded {
		// A hidden section keeps the flag it had when it was last shown.
		// Clearing it is a plain write with no visible transition.
		if err := p.store.SetPref(tabstore.PrefInactiveExpanded, "false"); err != nil {
			return err
		}
		p.expanded = false
		return nil
	}
	next, err := sectionfsm.ApplyTransition(state, sectionfsm.Toggle)
	if err != nil {
		return err
	}
	if err := p.store.SetPref(tabstore.PrefInactiveExpanded, strconv.FormatBool(expanded)); err != nil {
		return err
	}
	p.expanded = expanded
	p.emit(auditlog.EventSectionToggled, "inactive section "+string(next), "")
	return nil
}

func (p *Panel) selectTab(id string) (signals, error) {
	entry, err := p.lookup(id)
	if err != nil {
		return signals{}, err
	}
	entry.LastAccessed = p.now()
	if err := p.store.Update(entry); err != nil {
		return signals{}, err
	}
	if err := p.store.SetPref(p.selectedKey(), id); err != nil {
		return signals{}, err
	}
	p.emit(auditlog.EventTabSelected, "selected tab", id)
	return signals{scrollTo: id}, nil
}

func (p *Panel) closeTab(id string) error {
	if _, err := p.lookup(id); err != nil {
		return err
	}
	if err := p.store.Delete(id); err != nil {
		return err
	}
	if err := p.clearSelectionIf(id); err != nil {
		return err
	}
	p.emit(auditlog.EventTabClosed, "closed tab", id)
	return nil
}

func (p *Panel) closeInactive() error {
	ids := recordIDs(p.current.Inactive)
	if len(ids) == 0 {
		return nil
	}
	if err := p.store.Delete(ids...); err != nil {
		return err
	}
	p.emit(auditlog.EventInactiveClosed, fmt.Sprintf("closed %d inactive tabs", len(ids)), "")
	return nil
}

func (p *Panel) openTab(c tabs.OpenTabCommand) (signals, error) {
	entries, err := p.store.List(p.private)
	if err != nil {
		return signals{}, err
	}
	now := p.now()
	entry := tabstore.TabEntry{
		ID:           uuid.NewString(),
		URL:          c.URL,
		Title:        c.Title,
		Private:      p.private,
		Position:     len(entries),
		LastAccessed: now,
		CreatedAt:    now,
	}
	if entry.Title == "" {
		entry.Title = c.URL
	}
	if err := p.store.Create(entry); err != nil {
		return signals{}, err
	}
	if err := p.store.SetPref(p.selectedKey(), entry.ID); err != nil {
		return signals{}, err
	}
	msg := "opened " + c.URL
	if p.private {
		msg = "opened private tab"
	}
	p.emit(auditlog.EventTabOpened, msg, entry.ID)
	return signals{scrollTo: entry.ID, tabAdded: true}, nil
}

func (p *Panel) setPrivate(enabled bool) (signals, error) {
	if enabled == p.private {
		return signals{}, nil
	}
	if err := p.store.SetPref(tabstore.PrefPrivateMode, strconv.FormatBool(enabled)); err != nil {
		return signals{}, err
	}
	p.private = enabled
	p.emit(auditlog.EventPrivateModeChanged, "private browsing "+strconv.FormatBool(enabled), "")

	selected, err := p.store.GetPref(p.selectedKey())
	if err != nil {
		return signals{}, err
	}
	return signals{scrollTo: selected}, nil
}

// lookup finds id among the current mode's tabs.
func (p *Panel) lookup(id string) (tabstore.TabEntry, error) {
	entry, err := p.store.Get(id)
	if err != nil {
		if errors.Is(err, tabstore.ErrNotFound) {
			return tabstore.TabEntry{}, fmt.Errorf("%w: %s", ErrTabNotFound, id)
		}
		return tabstore.TabEntry{}, err
	}
	if entry.Private != p.private {
		return tabstore.TabEntry{}, fmt.Errorf("%w: %s", ErrTabNotFound, id)
	}
	return entry, nil
}

func (p *Panel) clearSelectionIf(id string) error {
	selected, err := p.store.GetPref(p.selectedKey())
	if err != nil {
		return err
	}
	if selected != id {
		return nil
	}
	return p.store.SetPref(p.selectedKey(), "")
}

func (p *Panel) selectedKey() string {
	if p.private {
		return tabstore.PrefSelectedPrivate
	}
	return tabstore.PrefSelectedNormal
}

func (p *Panel) boolPref(key string) (bool, error) {
	v, err := p.store.GetPref(key)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

func (p *Panel) emit(kind auditlog.EventKind, msg, tabID string, opts ...auditlog.EventOption) {
	opts = append(opts, auditlog.WithTab(tabID), auditlog.WithPrivate(p.private))
	p.audit.Emit(auditlog.NewEvent(kind, msg, opts...))
	log.InfoLog.Printf("%s %s", kind, tabID)
}

// sameLayout reports whether two snapshots classify the same tabs the same
// way in the same order.
func sameLayout(a, b tabs.PanelSnapshot) bool {
	if a.IsPrivateBrowsing != b.IsPrivateBrowsing || a.InactiveSectionExpanded != b.InactiveSectionExpanded {
		return false
	}
	return equalIDs(recordIDs(a.Active), recordIDs(b.Active)) &&
		equalIDs(recordIDs(a.Inactive), recordIDs(b.Inactive))
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
