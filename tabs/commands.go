package tabs

// Command is an intent sent to the state owner. The tray never mutates tab
// storage itself.
type Command interface {
	// Name is a stable identifier used for logging and auditing.
	Name() string
}

// Dispatcher forwards commands to the state owner.
type Dispatcher interface {
	Dispatch(cmd Command)
}

// DispatchFunc adapts a function to a Dispatcher.
type DispatchFunc func(cmd Command)

func (f DispatchFunc) Dispatch(cmd Command) { f(cmd) }

// MoveCommand reorders a tab within the active tabs list. The state owner
// resolves the tab by ID, so a concurrently changed list still lands the tab
// as close to To as it can.
type MoveCommand struct {
	TabID string
	From  int
	To    int
}

// ExpansionCommand requests the inactive section's expansion flag be set.
type ExpansionCommand struct {
	Expanded bool
}

type SelectTabCommand struct {
	TabID string
}

type CloseTabCommand struct {
	TabID string
}

// CloseInactiveTabsCommand closes every inactive tab.
type CloseInactiveTabsCommand struct{}

type OpenTabCommand struct {
	URL   string
	Title string
}

type PrivateBrowsingCommand struct {
	Enabled bool
}

func (MoveCommand) Name() string              { return "move_tab" }
func (ExpansionCommand) Name() string         { return "toggle_inactive_section" }
func (SelectTabCommand) Name() string         { return "select_tab" }
func (CloseTabCommand) Name() string          { return "close_tab" }
func (CloseInactiveTabsCommand) Name() string { return "close_inactive_tabs" }
func (OpenTabCommand) Name() string           { return "open_tab" }
func (PrivateBrowsingCommand) Name() string   { return "private_browsing" }
