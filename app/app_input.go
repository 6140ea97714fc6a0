package app

import (
	"time"

	"github.com/kastheco/tabtray/keys"
	"github.com/kastheco/tabtray/log"
	"github.com/kastheco/tabtray/tabs"
	"github.com/kastheco/tabtray/ui"
	"github.com/kastheco/tabtray/ui/overlay"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

func (m *home) handleMenuHighlighting(msg tea.KeyMsg) (cmd tea.Cmd, returnEarly bool) {
	// Handle menu highlighting when you press a button. We intercept it here and immediately return to
	// update the ui while re-sending the keypress. Then, on the next call to this, we actually handle the keypress.
	if m.keySent {
		m.keySent = false
		return nil, false
	}
	if m.state == stateHelp || m.state == stateNewTab || m.state == stateSearch {
		return nil, false
	}
	// If it's in the global keymap, we should try to highlight it.
	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return nil, false
	}
	// Movement keys repeat; highlighting them only adds latency.
	if name == keys.KeyUp || name == keys.KeyDown || name == keys.KeyMoveUp || name == keys.KeyMoveDown {
		return nil, false
	}

	m.keySent = true
	return tea.Batch(
		func() tea.Msg { return msg },
		m.keydownCallback(name)), true
}

// handleMouse processes mouse events for clicks, wheel scrolling and row drags.
func (m *home) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state != stateDefault {
		return m, nil
	}

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		if m.detailPane.Visible() && zone.Get(ui.ZoneDetailPane).InBounds(msg) {
			if msg.Button == tea.MouseButtonWheelUp {
				m.detailPane.ScrollUp(1)
			} else {
				m.detailPane.ScrollDown(1)
			}
			return m, nil
		}
		if msg.Button == tea.MouseButtonWheelUp {
			m.tray.Up()
		} else {
			m.tray.Down()
		}
		m.selectionChanged()
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		if !m.mouseDrag {
			return m, nil
		}
		if row, ok := m.rowAt(msg); ok {
			if idx, ok := m.tray.ActiveIndexAt(row); ok {
				m.tray.DragTo(idx)
			}
		}
		return m, nil

	case tea.MouseActionRelease:
		if !m.mouseDrag {
			return m, nil
		}
		return m, m.endDrag()

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
	}

	// The close button sits inside the header zone and must win.
	if zone.Get(ui.ZoneCloseInactive).InBounds(msg) {
		return m, m.closeInactive()
	}
	if zone.Get(ui.ZoneInactiveHeader).InBounds(msg) {
		if row, ok := m.rowAt(msg); ok {
			m.tray.ClickItem(row)
		}
		cmd := m.toggleInactiveSection()
		m.selectionChanged()
		return m, cmd
	}

	row, ok := m.rowAt(msg)
	if !ok {
		return m, nil
	}
	m.tray.ClickItem(row)
	if m.beginDrag() {
		m.mouseDrag = true
	}
	m.selectionChanged()
	return m, nil
}

// rowAt returns the tray row under the mouse.
func (m *home) rowAt(msg tea.MouseMsg) (int, bool) {
	for i := 0; i < m.tray.Rows(); i++ {
		if zone.Get(ui.TrayRowZoneID(i)).InBounds(msg) {
			return i, true
		}
	}
	return -1, false
}

func (m *home) handleKeyPress(msg tea.KeyMsg) (mod tea.Model, cmd tea.Cmd) {
	cmd, returnEarly := m.handleMenuHighlighting(msg)
	if returnEarly {
		return m, cmd
	}

	switch m.state {
	case stateHelp:
		return m.handleHelpState(msg)
	case stateNewTab:
		return m.handleNewTabState(msg)
	case stateSearch:
		return m.handleSearchState(msg)
	}

	if msg.String() == "ctrl+c" {
		return m.handleQuit()
	}

	if m.tray.IsDragging() {
		return m.handleDragKey(msg)
	}

	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return m, nil
	}

	switch name {
	case keys.KeyHelp:
		return m.showHelpScreen()
	case keys.KeyQuit:
		return m.handleQuit()
	case keys.KeyUp:
		m.tray.Up()
		m.selectionChanged()
		return m, nil
	case keys.KeyDown:
		m.tray.Down()
		m.selectionChanged()
		return m, nil
	case keys.KeyEnter:
		return m, m.activateSelected()
	case keys.KeySpaceToggle:
		return m, m.toggleInactiveSection()
	case keys.KeyMoveUp:
		return m, m.moveSelectedBy(-1)
	case keys.KeyMoveDown:
		return m, m.moveSelectedBy(1)
	case keys.KeyGrab:
		m.beginDrag()
		return m, nil
	case keys.KeyNew:
		m.newTabForm = overlay.NewFormOverlay("new tab", 60, m.tray.IsPrivate())
		m.newTabForm.SetDefaultURL(m.appConfig.NewTabURL)
		m.state = stateNewTab
		m.syncMenu()
		return m, nil
	case keys.KeyClose:
		return m, m.closeSelected()
	case keys.KeyCloseInactive:
		return m, m.closeInactive()
	case keys.KeyCopyURL:
		return m, m.copySelectedURL()
	case keys.KeyPrivate:
		return m, m.togglePrivate()
	case keys.KeyRefresh:
		return m, m.manualRefresh()
	case keys.KeySearch:
		m.tray.ActivateSearch()
		m.state = stateSearch
		m.selectionChanged()
		return m, nil
	case keys.KeyDetail:
		m.detailPane.ToggleVisible()
		m.layout()
		m.syncDetail()
		return m, nil
	}
	return m, nil
}

// handleDragKey handles keys while a tab is picked up. Only movement, drop
// and cancel are accepted.
func (m *home) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.cancelDrag()
		return m, nil
	}
	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return m, nil
	}
	switch name {
	case keys.KeyUp, keys.KeyMoveUp:
		m.tray.Up()
	case keys.KeyDown, keys.KeyMoveDown:
		m.tray.Down()
	case keys.KeyGrab, keys.KeyEnter:
		return m, m.endDrag()
	case keys.KeyQuit:
		m.cancelDrag()
		return m.handleQuit()
	}
	return m, nil
}

// handleSearchState edits the tray filter. Enter keeps the selection and
// leaves search; esc leaves search and restores the full list.
func (m *home) handleSearchState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		var cmd tea.Cmd
		tab, _, ok := m.tray.SelectedTab()
		m.tray.DeactivateSearch()
		m.state = stateDefault
		if msg.Type == tea.KeyEnter && ok {
			cmd = m.dispatch(tabs.SelectTabCommand{TabID: tab.ID})
		}
		m.selectionChanged()
		return m, cmd
	case tea.KeyUp:
		m.tray.Up()
	case tea.KeyDown:
		m.tray.Down()
	case tea.KeyBackspace:
		q := []rune(m.tray.GetSearchQuery())
		if len(q) > 0 {
			m.tray.SetSearchQuery(string(q[:len(q)-1]))
		}
	case tea.KeyRunes, tea.KeySpace:
		m.tray.SetSearchQuery(m.tray.GetSearchQuery() + string(msg.Runes))
	}
	m.syncDetail()
	return m, nil
}

// handleNewTabState forwards keys to the new tab form and opens the tab on
// submit.
func (m *home) handleNewTabState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.newTabForm == nil {
		m.state = stateDefault
		return m, nil
	}
	if !m.newTabForm.HandleKeyPress(msg) {
		return m, nil
	}
	form := m.newTabForm
	m.newTabForm = nil
	m.state = stateDefault
	m.syncMenu()
	if form.IsCanceled() {
		return m, nil
	}
	log.InfoLog.Printf("opening tab %s", form.URL())
	return m, m.dispatch(tabs.OpenTabCommand{URL: form.URL(), Title: form.Title()})
}

// keydownCallback clears the menu option highlighting after 500ms.
func (m *home) keydownCallback(name keys.KeyName) tea.Cmd {
	m.menu.Keydown(name)
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
		case <-time.After(500 * time.Millisecond):
		}

		return keyupMsg{}
	}
}
