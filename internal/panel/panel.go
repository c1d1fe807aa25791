// Package panel coordinates the side-panel groups of the editor UI. Each
// group allows at most one open panel; switching panels closes the current
// one first and opens the next only after the close transition reports
// completion. Transitions are driven by explicit transition-end callbacks,
// never by guessed delays, so rapid toggles cannot race.
package panel

import (
	"fmt"
	"sync"
)

// State is a panel's lifecycle state.
type State string

const (
	Closed  State = "closed"
	Opening State = "opening"
	Open    State = "open"
	Closing State = "closing"
)

// Group is a set of mutually exclusive panels.
type Group struct {
	mu      sync.Mutex
	states  map[string]State
	pending string // panel waiting for the closing one to finish
}

// NewGroup creates a group where every named panel starts Closed.
func NewGroup(names ...string) *Group {
	states := make(map[string]State, len(names))
	for _, n := range names {
		states[n] = Closed
	}
	return &Group{states: states}
}

// State reports a panel's current state; unknown panels read as Closed.
func (g *Group) State(name string) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.states[name]; ok {
		return s
	}
	return Closed
}

// Active returns the panel that is open or opening, if any.
func (g *Group) Active() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for n, s := range g.states {
		if s == Open || s == Opening {
			return n, true
		}
	}
	return "", false
}

// Request asks for name to become the group's open panel. If another panel
// is open or still opening, it starts closing and name is queued; name only
// begins opening once the exit transition completes.
func (g *Group) Request(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requestLocked(name)
}

func (g *Group) requestLocked(name string) error {
	if _, ok := g.states[name]; !ok {
		return fmt.Errorf("panel: unknown panel %q", name)
	}
	switch g.states[name] {
	case Open, Opening:
		g.pending = ""
		return nil
	case Closing:
		// Reopen after its own close finishes.
		g.pending = name
		return nil
	}

	for other, s := range g.states {
		if other == name {
			continue
		}
		if s == Open || s == Opening {
			g.states[other] = Closing
			g.pending = name
			return nil
		}
		if s == Closing {
			g.pending = name
			return nil
		}
	}
	g.states[name] = Opening
	g.pending = ""
	return nil
}

// Dismiss starts closing name if it is open or opening. Closing or closed
// panels are left alone. A queued switch to name is abandoned.
func (g *Group) Dismiss(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dismissLocked(name)
}

func (g *Group) dismissLocked(name string) error {
	s, ok := g.states[name]
	if !ok {
		return fmt.Errorf("panel: unknown panel %q", name)
	}
	if g.pending == name {
		g.pending = ""
	}
	if s == Open || s == Opening {
		g.states[name] = Closing
	}
	return nil
}

// Toggle opens name when it is closed and dismisses it otherwise. The read
// and the resulting action happen under one lock acquisition, so a
// concurrent action cannot slip between them.
func (g *Group) Toggle(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.states[name]
	if !ok {
		return fmt.Errorf("panel: unknown panel %q", name)
	}
	if s == Open || s == Opening {
		return g.dismissLocked(name)
	}
	return g.requestLocked(name)
}

// TransitionEnd reports that name's CSS transition finished. An opening
// panel settles Open; a closing panel settles Closed, and any queued panel
// begins opening at that moment.
func (g *Group) TransitionEnd(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.states[name] {
	case Opening:
		g.states[name] = Open
	case Closing:
		g.states[name] = Closed
		if g.pending != "" && g.pending != name {
			g.states[g.pending] = Opening
			g.pending = ""
		} else if g.pending == name {
			g.states[name] = Opening
			g.pending = ""
		}
	}
}

// Snapshot returns a copy of every panel's state.
func (g *Group) Snapshot() map[string]State {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]State, len(g.states))
	for n, s := range g.states {
		out[n] = s
	}
	return out
}
