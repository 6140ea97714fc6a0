package app

import (
	"context"
	"time"

	"github.com/kastheco/tabtray/config"
	"github.com/kastheco/tabtray/config/auditlog"
	"github.com/kastheco/tabtray/tabs"
	"github.com/kastheco/tabtray/ui"
	"github.com/kastheco/tabtray/ui/overlay"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// TabOwner is the state owner the tray talks to. *panel.Panel implements it.
type TabOwner interface {
	Subscribe(buf int) (<-chan tabs.PanelSnapshot, func())
	Dispatch(cmd tabs.Command) error
	Refresh() error
}

// Options wires the application to its state owner and storage.
type Options struct {
	Owner  TabOwner
	Audit  auditlog.Logger
	Config *config.Config
}

// Run is the main entrypoint into the application.
func Run(ctx context.Context, opts Options) error {
	// Every ANSI reset falls back to the theme base color instead of the
	// terminal default.
	restore := ui.SetTerminalBackground(string(ui.ColorBase))
	defer restore()

	zone.NewGlobal()
	h := newHome(ctx, opts)
	defer h.close()

	p := tea.NewProgram(
		h,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // press, release and drag motion
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

type state int

const (
	stateDefault state = iota
	// stateNewTab is the state when the new tab form is shown.
	stateNewTab
	// stateHelp is the state when the help screen is displayed.
	stateHelp
	// stateSearch is the state when the user is filtering the tray.
	stateSearch
)

// auditPaneHeight is the height of the audit pane including its header.
const auditPaneHeight = 7

// snapshotBuffer is the subscription buffer. Older pending snapshots are
// dropped by the owner when the view falls behind.
const snapshotBuffer = 4

type home struct {
	ctx context.Context

	// -- State owner and configuration --

	owner     TabOwner
	audit     auditlog.Logger
	appConfig *config.Config

	snapshots   <-chan tabs.PanelSnapshot
	unsubscribe func()

	// reconciler turns snapshots into plans and user edits into commands.
	reconciler *tabs.Reconciler
	// queue collects commands until the next flush sends them to the owner.
	queue *commandQueue

	// -- State --

	state state
	// keySent is used to manage underlining menu items
	keySent bool
	// animating is true while an animation frame tick is scheduled.
	animating bool
	// mouseDrag is true while a drag started by the mouse is in progress.
	mouseDrag bool

	// -- UI Components --

	tray         *ui.TabTray
	statusBar    *ui.StatusBar
	menu         *ui.Menu
	detailPane   *ui.DetailPane
	auditPane    *ui.AuditPane
	toastManager *overlay.ToastManager
	// global spinner instance. we plumb this down to where it's needed
	spinner spinner.Model
	// newTabForm is the new tab form, set while state is stateNewTab.
	newTabForm *overlay.FormOverlay

	// Terminal dimensions.
	termWidth  int
	termHeight int
	trayWidth  int
}

func newHome(ctx context.Context, opts Options) *home {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	audit := opts.Audit
	if audit == nil {
		audit = auditlog.NopLogger()
	}

	h := &home{
		ctx:        ctx,
		owner:      opts.Owner,
		audit:      audit,
		appConfig:  cfg,
		queue:      &commandQueue{},
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		tray:       ui.NewTabTray(),
		statusBar:  ui.NewStatusBar(),
		menu:       ui.NewMenu(),
		detailPane: ui.NewDetailPane(),
		auditPane:  ui.NewAuditPane(),
		state:      stateDefault,
	}
	h.reconciler = tabs.NewReconciler(h.queue)
	h.toastManager = overlay.NewToastManager(&h.spinner)
	h.tray.SetAnimate(cfg.IsAnimationEnabled())
	h.snapshots, h.unsubscribe = h.owner.Subscribe(snapshotBuffer)
	return h
}

// close unsubscribes from the owner and drops reconciler session state.
func (m *home) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.reconciler.Reset()
}

// updateHandleWindowSizeEvent sets the sizes of the components.
// The components will try to render inside their bounds.
func (m *home) updateHandleWindowSizeEvent(msg tea.WindowSizeMsg) {
	m.termWidth = msg.Width
	m.termHeight = msg.Height
	m.toastManager.SetSize(msg.Width, msg.Height)
	m.statusBar.SetSize(msg.Width)
	m.menu.SetSize(msg.Width, 1)
	m.layout()
}

// layout splits the area between the status bar and the menu.
func (m *home) layout() {
	contentHeight := m.termHeight - 2
	if m.auditPane.Visible() {
		contentHeight -= auditPaneHeight
		m.auditPane.SetSize(m.termWidth, auditPaneHeight)
	}
	if contentHeight < 4 {
		contentHeight = 4
	}

	m.trayWidth = m.termWidth
	if m.detailPane.Visible() {
		m.trayWidth = m.termWidth * 3 / 5
		m.detailPane.SetSize(m.termWidth-m.trayWidth, contentHeight)
	}
	m.tray.SetSize(m.trayWidth, contentHeight)
}

func (m *home) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForSnapshot(m.snapshots),
		m.refreshTickCmd(),
		m.loadAuditCmd(),
	)
}

func (m *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if !msg.ok {
			// The owner closed; nothing more will arrive.
			return m, tea.Quit
		}
		cmd := m.applySnapshot(msg.snapshot)
		return m, tea.Batch(cmd, waitForSnapshot(m.snapshots))
	case commandsDoneMsg:
		return m, m.handleCommandsDone(msg)
	case refreshTickMsg:
		return m, tea.Batch(m.refreshCmd(), m.refreshTickCmd())
	case refreshDoneMsg:
		return m, m.handleRefreshDone(msg)
	case animFrameMsg:
		if m.tray.AnimationFrame() {
			return m, animFrameCmd()
		}
		m.animating = false
		return m, nil
	case auditLoadedMsg:
		if msg.err != nil {
			return m, m.handleError(msg.err)
		}
		displays := make([]ui.AuditEventDisplay, len(msg.events))
		for i, e := range msg.events {
			displays[i] = ui.NewAuditEventDisplay(e)
		}
		m.auditPane.SetEvents(displays)
		return m, nil
	case overlay.ToastTickMsg:
		m.toastManager.Tick()
		if m.toastManager.HasActiveToasts() {
			return m, m.toastTickCmd()
		}
		return m, nil
	case keyupMsg:
		m.menu.ClearKeydown()
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.updateHandleWindowSizeEvent(msg)
		return m, nil
	case error:
		return m, m.handleError(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *home) handleQuit() (tea.Model, tea.Cmd) {
	m.close()
	return m, tea.Quit
}

func (m *home) View() string {
	m.tray.SetFocused(m.state == stateDefault || m.state == stateSearch)
	trayView := m.tray.String()
	body := trayView
	if m.detailPane.Visible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, trayView, m.detailPane.String())
	}

	parts := []string{m.statusBar.String(), body}
	if m.auditPane.Visible() {
		parts = append(parts, m.auditPane.String())
	}
	parts = append(parts, m.menu.String())
	mainView := lipgloss.JoinVertical(lipgloss.Left, parts...)

	var result string
	switch {
	case m.state == stateNewTab && m.newTabForm != nil:
		result = overlay.PlaceOverlay(0, 0, m.newTabForm.Render(), mainView, true)
	case m.state == stateHelp:
		result = overlay.PlaceOverlay(0, 0, renderHelp(), mainView, true)
	default:
		result = mainView
	}

	if toastView := m.toastManager.View(); toastView != "" {
		x, y := m.toastManager.GetPosition()
		result = overlay.PlaceOverlay(x, y, toastView, result, false)
	}

	// Zone markers inflate lipgloss.Width if left in place.
	result = zone.Scan(result)

	return ui.FitHeight(result, m.termHeight)
}

// snapshotMsg carries one delivery from the owner. ok is false once the
// subscription channel is closed.
type snapshotMsg struct {
	snapshot tabs.PanelSnapshot
	ok       bool
}

// commandsDoneMsg reports the outcome of a flushed command batch. failed is
// the first command that returned an error; later commands were not sent.
type commandsDoneMsg struct {
	sent   []tabs.Command
	failed tabs.Command
	err    error
}

type refreshTickMsg struct{}

// refreshDoneMsg reports a finished refresh. toastID is set when the user
// asked for it and a loading toast is waiting on the result.
type refreshDoneMsg struct {
	err     error
	toastID string
}

// animFrameMsg advances row flashes by one frame.
type animFrameMsg struct{}

type auditLoadedMsg struct {
	events []auditlog.Event
	err    error
}

type keyupMsg struct{}

func waitForSnapshot(ch <-chan tabs.PanelSnapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		return snapshotMsg{snapshot: snap, ok: ok}
	}
}

func (m *home) refreshTickCmd() tea.Cmd {
	return tea.Tick(m.appConfig.RefreshInterval(), func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func animFrameCmd() tea.Cmd {
	return tea.Tick(time.Second/30, func(time.Time) tea.Msg {
		return animFrameMsg{}
	})
}

func (m *home) toastTickCmd() tea.Cmd {
	return tea.Tick(overlay.TickInterval, func(time.Time) tea.Msg {
		return overlay.ToastTickMsg{}
	})
}
