package sectionfsm

import "fmt"

// State is the display state of the inactive tabs section.
type State string

const (
	StateHidden    State = "hidden"
	StateCollapsed State = "collapsed"
	StateExpanded  State = "expanded"
)

// Event triggers a section state transition.
type Event string

const (
	Reveal Event = "reveal"
	Hide   Event = "hide"
	Toggle Event = "toggle"
)

// transitionTable defines all valid state transitions.
// Key: current state → event → new state.
var transitionTable = map[State]map[Event]State{
	StateHidden: {
		Reveal: StateCollapsed,
	},
	StateCollapsed: {
		Toggle: StateExpanded,
		Hide:   StateHidden,
	},
	StateExpanded: {
		Toggle: StateCollapsed,
		Hide:   StateHidden,
	},
}

// ApplyTransition returns the new state for the given current state and event.
// Returns an error if the transition is not valid.
func ApplyTransition(current State, event Event) (State, error) {
	events, ok := transitionTable[current]
	if !ok {
		return "", fmt.Errorf("no transitions defined for section state %q", current)
	}
	next, ok := events[event]
	if !ok {
		return "", fmt.Errorf("invalid section transition: %q + %q", current, event)
	}
	return next, nil
}

// Resolve derives the section state from authoritative panel state. The
// section is hidden in private browsing or when there is nothing to show,
// whatever the expansion flag says.
func Resolve(private bool, inactiveCount int, expanded bool) State {
	if private || inactiveCount == 0 {
		return StateHidden
	}
	if expanded {
		return StateExpanded
	}
	return StateCollapsed
}

// Visible reports whether the section is rendered at all.
func (s State) Visible() bool {
	return s == StateCollapsed || s == StateExpanded
}
