package pager

// TriggerState is the state of a scroll sentinel
type TriggerState int

const (
	TriggerArmed TriggerState = iota
	TriggerFiring
	TriggerDisarmed
)

func (s TriggerState) String() string {
	switch s {
	case TriggerArmed:
		return "armed"
	case TriggerFiring:
		return "firing"
	case TriggerDisarmed:
		return "disarmed"
	default:
		return "unknown"
	}
}

// Edge identifies which sentinel a trigger watches
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
)

// Window is what a trigger needs to know about the cache and coordinator
// when deciding whether to fire
type Window struct {
	Loaded     bool
	Lowest     int
	Highest    int
	TotalPages int
	Idle       bool
}

// Trigger turns sentinel visibility into load requests.
//
// The top trigger re-arms only after its sentinel has left the viewport, so a
// sentinel that is still visible after a completed fetch cannot fire again.
// The bottom trigger has no such gate: appending pages pushes its sentinel
// down, and it may fire again as soon as the coordinator is idle.
type Trigger struct {
	edge  Edge
	state TriggerState
}

// NewTopTrigger returns an armed "load previous" trigger
func NewTopTrigger() *Trigger {
	return &Trigger{edge: EdgeTop}
}

// NewBottomTrigger returns an armed "load next" trigger
func NewBottomTrigger() *Trigger {
	return &Trigger{edge: EdgeBottom}
}

// State returns the current trigger state
func (t *Trigger) State() TriggerState {
	return t.state
}

// Edge returns which sentinel the trigger watches
func (t *Trigger) Edge() Edge {
	return t.edge
}

// Observe feeds the sentinel's current visibility. It returns the page index
// to fetch and true when the trigger fires; the trigger is then firing until
// Complete or Abort.
func (t *Trigger) Observe(visible bool, w Window) (int, bool) {
	switch t.state {
	case TriggerDisarmed:
		if !visible {
			t.state = TriggerArmed
		}
		return 0, false
	case TriggerFiring:
		return 0, false
	}

	if !visible || !w.Loaded || !w.Idle {
		return 0, false
	}

	switch t.edge {
	case EdgeTop:
		if w.Lowest <= 0 {
			return 0, false
		}
		t.state = TriggerFiring
		return w.Lowest - 1, true
	default:
		if w.Highest >= w.TotalPages-1 {
			return 0, false
		}
		t.state = TriggerFiring
		return w.Highest + 1, true
	}
}

// Complete records that the fetch started by the last fire has finished,
// successfully or not
func (t *Trigger) Complete() {
	if t.state != TriggerFiring {
		return
	}
	if t.edge == EdgeTop {
		t.state = TriggerDisarmed
		return
	}
	t.state = TriggerArmed
}

// Abort returns a firing trigger to armed when its fetch never started
func (t *Trigger) Abort() {
	if t.state == TriggerFiring {
		t.state = TriggerArmed
	}
}

// Reset re-arms the trigger, used when the window is rebuilt
func (t *Trigger) Reset() {
	t.state = TriggerArmed
}
